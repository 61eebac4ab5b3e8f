package settlement

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/token"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListMonth serves the ledger for ?month=YYYY-MM. Instructors are
// pinned to their own rows regardless of the instructor parameter.
func (h *Handler) ListMonth(c echo.Context) error {
	claims := auth.GetClaims(c)
	instructor := c.QueryParam("instructor")
	if claims.Role == token.RoleInstructor {
		instructor = claims.Email
	}

	summary, err := h.service.ListMonth(c.Request().Context(), c.QueryParam("month"), instructor)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"rows":         summary.Rows,
		"total_amount": summary.TotalAmount,
	})
}

func (h *Handler) MarkPaid(c echo.Context) error {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil || row < ledgerFirstRow {
		return errJSON(c, apperror.NewBadRequest("invalid settlement row"))
	}
	if err := h.service.MarkPaid(c.Request().Context(), row); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func errJSON(c echo.Context, err error) error {
	return c.JSON(apperror.SafeCode(err), map[string]string{"error": apperror.SafeMessage(err)})
}
