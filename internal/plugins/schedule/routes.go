package schedule

import (
	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/token"
)

// RegisterRoutes mounts the schedule API. Reads are open to both
// roles; writes are EM only.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions *auth.SessionStore) {
	g := e.Group("/api/schedule")
	g.GET("", h.ListEvents, auth.RequireRole(sessions, token.RoleInstructor, token.RoleEM))

	em := auth.RequireRole(sessions, token.RoleEM)
	g.POST("", h.CreateEvent, em)
	g.PUT("/:id", h.UpdateEvent, em)
	g.DELETE("/:id", h.DeleteEvent, em)
}
