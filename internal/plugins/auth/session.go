package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/token"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "auth-token"

// SessionStore moves signed session tokens in and out of the cookie.
// The cookie is the only session state; nothing is kept server-side.
type SessionStore struct {
	codec  *token.Codec
	secure bool
	maxAge time.Duration
}

func NewSessionStore(codec *token.Codec, secure bool, maxAge time.Duration) *SessionStore {
	return &SessionStore{codec: codec, secure: secure, maxAge: maxAge}
}

// Save writes the signed token as the session cookie.
func (s *SessionStore) Save(c echo.Context, signed string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUser returns the verified claims for the request, or nil when
// the cookie is absent, expired, or fails verification. Callers never
// learn which; an invalid session is simply no session.
func (s *SessionStore) CurrentUser(c echo.Context) *token.Claims {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := s.codec.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}
