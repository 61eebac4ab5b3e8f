package auth

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the auth endpoints. All of them are public;
// the recovery endpoints authenticate by email code (or email alone
// for the weaker reset variant) rather than by session.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/auth")
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
	g.POST("/recovery/code", h.RequestCode)
	g.POST("/recovery/verify", h.VerifyCode)
	g.POST("/recovery/reset", h.ResetPIN)
	g.POST("/recovery/reset-by-email", h.ResetPINByEmail)
}
