package schedule

import (
	"net/http"
	"time"

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

// ListEvents serves the schedule window. Instructors are pinned to
// their own events regardless of query parameters; EMs may filter by
// any instructor or see everything.
func (h *Handler) ListEvents(c echo.Context) error {
	from, err := parseTimeParam(c.QueryParam("from"))
	if err != nil {
		return errJSON(c, apperror.NewBadRequest("from must be RFC 3339"))
	}
	to, err := parseTimeParam(c.QueryParam("to"))
	if err != nil {
		return errJSON(c, apperror.NewBadRequest("to must be RFC 3339"))
	}

	claims := auth.GetClaims(c)
	instructor := c.QueryParam("instructor")
	if claims.Role == token.RoleInstructor {
		instructor = claims.Email
	}

	events, err := h.service.ListEvents(c.Request().Context(), from, to, instructor)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "events": events})
}

func (h *Handler) CreateEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	created, err := h.service.CreateEvent(c.Request().Context(), req)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "event": created})
}

func (h *Handler) UpdateEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	updated, err := h.service.UpdateEvent(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "event": updated})
}

func (h *Handler) DeleteEvent(c echo.Context) error {
	if err := h.service.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func errJSON(c echo.Context, err error) error {
	return c.JSON(apperror.SafeCode(err), map[string]string{"error": apperror.SafeMessage(err)})
}
