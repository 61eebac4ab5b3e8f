package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/token"
)

const loginPath = "/login"

// rolePrefixes binds each protected page prefix to the role allowed in.
var rolePrefixes = []struct {
	prefix string
	role   token.Role
}{
	{"/instructor", token.RoleInstructor},
	{"/em", token.RoleEM},
}

// skipPrefixes are non-page paths the gate never inspects. API routes
// carry their own RequireRole guard.
var skipPrefixes = []string{"/api/", "/static/", "/oauth2/", "/healthz"}

// Decide is the gate's routing decision: given a request path and the
// session claims (nil when unauthenticated), it returns the path to
// redirect to, or "" to let the request through.
//
// Protected prefixes send a missing or wrong-role session back to the
// login page. The login page itself inverts: an authenticated user is
// sent to their role's home. A wrong role is handled as absent rather
// than forbidden, so visitors never see a 403.
func Decide(path string, claims *token.Claims) string {
	if path == loginPath {
		if claims != nil {
			return claims.Role.HomePath()
		}
		return ""
	}
	for _, rp := range rolePrefixes {
		if matchesPrefix(path, rp.prefix) {
			if claims == nil || claims.Role != rp.role {
				return loginPath
			}
			return ""
		}
	}
	return ""
}

func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Gate returns the page-access middleware. It verifies the session
// cookie once per request, stores the claims in the request context,
// and redirects per Decide.
func Gate(sessions *SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range skipPrefixes {
				if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
					return next(c)
				}
			}
			claims := sessions.CurrentUser(c)
			if target := Decide(path, claims); target != "" {
				return c.Redirect(http.StatusSeeOther, target)
			}
			if claims != nil {
				setClaims(c, claims)
			}
			return next(c)
		}
	}
}
