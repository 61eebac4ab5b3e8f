package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/plugins/files"
	"github.com/lectern-app/lectern/internal/plugins/mail"
	"github.com/lectern-app/lectern/internal/plugins/roster"
	"github.com/lectern-app/lectern/internal/plugins/schedule"
	"github.com/lectern-app/lectern/internal/plugins/settlement"
)

// Handlers collects every plugin's handler for route registration. Nil
// entries are skipped so deployments without the optional backends
// (Calendar, Drive, OAuth client) still serve the rest.
type Handlers struct {
	Auth       *auth.Handler
	Roster     *roster.Handler
	Schedule   *schedule.Handler
	Settlement *settlement.Handler
	Files      *files.Handler
	Mail       *mail.Handler
}

// RegisterRoutes mounts all plugin routes, the static pages, and the
// health check.
func (a *App) RegisterRoutes(h Handlers) {
	e := a.Echo

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Admin pages. The Gate middleware fronts all of these.
	e.Static("/static", "static")
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/login")
	})
	e.File("/login", "static/login.html")
	e.File("/instructor", "static/instructor.html")
	e.File("/em", "static/em.html")

	if h.Auth != nil {
		auth.RegisterRoutes(e, h.Auth)
	}
	if h.Roster != nil {
		roster.RegisterRoutes(e, h.Roster, a.Sessions)
	}
	if h.Schedule != nil {
		schedule.RegisterRoutes(e, h.Schedule, a.Sessions)
	}
	if h.Settlement != nil {
		settlement.RegisterRoutes(e, h.Settlement, a.Sessions)
	}
	if h.Files != nil {
		files.RegisterRoutes(e, h.Files, a.Sessions)
	}
	if h.Mail != nil {
		mail.RegisterRoutes(e, h.Mail, a.Sessions)
	}
}
