package settlement

import (
	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/token"
)

// RegisterRoutes mounts the settlement API. Reads are open to both
// roles; marking a row paid is EM only.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions *auth.SessionStore) {
	g := e.Group("/api/settlement")
	g.GET("", h.ListMonth, auth.RequireRole(sessions, token.RoleInstructor, token.RoleEM))
	g.PUT("/:row/paid", h.MarkPaid, auth.RequireRole(sessions, token.RoleEM))
}
