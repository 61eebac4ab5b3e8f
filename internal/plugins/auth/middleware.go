package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/token"
)

const claimsContextKey = "auth.claims"

func setClaims(c echo.Context, claims *token.Claims) {
	c.Set(claimsContextKey, claims)
}

// GetClaims returns the session claims stored by Gate or RequireRole,
// or nil when the request is unauthenticated.
func GetClaims(c echo.Context) *token.Claims {
	claims, _ := c.Get(claimsContextKey).(*token.Claims)
	return claims
}

// RequireRole guards API routes. Unlike the page gate it answers in
// JSON: 401 for a missing or invalid session, and 401 again for a
// wrong role so responses do not reveal what exists behind the route.
func RequireRole(sessions *SessionStore, roles ...token.Role) echo.MiddlewareFunc {
	allowed := make(map[token.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := sessions.CurrentUser(c)
			if claims == nil || (len(allowed) > 0 && !allowed[claims.Role]) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}
