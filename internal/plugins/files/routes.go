package files

import (
	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/token"
)

// RegisterRoutes mounts the file download endpoint. EM only.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions *auth.SessionStore) {
	e.GET("/api/files/:id", h.Download, auth.RequireRole(sessions, token.RoleEM))
}
