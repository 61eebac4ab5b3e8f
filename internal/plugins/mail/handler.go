package mail

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Authorize returns the Google consent URL for the EM to open.
func (h *Handler) Authorize(c echo.Context) error {
	url, err := h.service.BeginAuthorize(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "url": url})
}

// Callback is the OAuth redirect target. Google calls it in a browser
// tab, so the success response is a redirect back to the EM home.
func (h *Handler) Callback(c echo.Context) error {
	err := h.service.CompleteAuthorize(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		return errJSON(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/em")
}

// Status reports whether a Gmail token is stored.
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "authorized": h.service.Status()})
}

func errJSON(c echo.Context, err error) error {
	return c.JSON(apperror.SafeCode(err), map[string]string{"error": apperror.SafeMessage(err)})
}
