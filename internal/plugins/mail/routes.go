package mail

import (
	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/token"
)

// RegisterRoutes mounts the mail authorization endpoints. The callback
// is unauthenticated: Google redirects the browser there and the state
// nonce binds it to an authorize call an EM started.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions *auth.SessionStore) {
	em := auth.RequireRole(sessions, token.RoleEM)
	e.GET("/api/mail/authorize", h.Authorize, em)
	e.GET("/api/mail/status", h.Status, em)
	e.GET("/oauth2/callback", h.Callback)
}
