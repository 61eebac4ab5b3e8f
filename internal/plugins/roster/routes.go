package roster

import (
	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/token"
)

// RegisterRoutes mounts the roster API. EM only.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions *auth.SessionStore) {
	g := e.Group("/api/roster", auth.RequireRole(sessions, token.RoleEM))
	g.GET("/instructors", h.ListInstructors)
	g.GET("/instructors/:email", h.GetInstructor)
	g.GET("/applicants", h.ListApplicants)
	g.PUT("/applicants/:row/status", h.UpdateApplicantStatus)
}
