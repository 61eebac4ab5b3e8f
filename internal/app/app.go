// Package app assembles the Echo server: middleware chain, central
// error handling, and route registration for every plugin.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/middleware"
	"github.com/lectern-app/lectern/internal/plugins/auth"
)

// App is the assembled HTTP application.
type App struct {
	Config   *config.Config
	Echo     *echo.Echo
	Sessions *auth.SessionStore
}

// New builds the Echo instance with the shared middleware chain. Routes
// are registered separately so tests can assemble partial apps.
func New(cfg *config.Config, sessions *auth.SessionStore) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = errorHandler

	middleware.TrustedProxies(e, cfg.TrustedProxies)
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowCredentials: true,
		}))
	}
	e.Use(auth.Gate(sessions))

	return &App{Config: cfg, Echo: e, Sessions: sessions}
}

// Start runs the HTTP server until it is shut down.
func (a *App) Start() error {
	return a.Echo.Start(fmt.Sprintf(":%d", a.Config.Port))
}

// errorHandler maps errors that escape handlers to responses. Most
// handlers answer directly; this catches Echo's own errors (404, 405,
// bind failures) and anything a handler returned raw. API paths get
// JSON, page paths get a redirect or a plain status.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred. Please try again."

	switch e := err.(type) {
	case *apperror.AppError:
		code = e.Code
		message = e.Message
		if e.Internal != nil {
			slog.Error("request failed", "path", c.Request().URL.Path, "error", e.Internal)
		}
	case *echo.HTTPError:
		code = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		}
	default:
		slog.Error("unhandled error", "path", c.Request().URL.Path, "error", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
			slog.Error("writing error response", "error", jsonErr)
		}
		return
	}

	// Page request. Unauthenticated browsers go to the login page;
	// everything else gets the bare status.
	if code == http.StatusUnauthorized {
		if redirErr := c.Redirect(http.StatusSeeOther, "/login"); redirErr != nil {
			slog.Error("writing error redirect", "error", redirErr)
		}
		return
	}
	if strErr := c.String(code, message); strErr != nil {
		slog.Error("writing error response", "error", strErr)
	}
}
