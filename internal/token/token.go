// Package token implements the signed session credential. A session is a
// compact HS256 JWT embedding the user's role, name, and email, valid for
// a fixed window from issuance. The server holds no copy -- the token
// itself is the only session record, so verification is a pure function
// of the token, the secret, and the clock.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies which side of the application a session may access.
type Role string

const (
	// RoleInstructor is a teaching-staff session ("/instructor" routes).
	RoleInstructor Role = "INSTRUCTOR"

	// RoleEM is an education-manager session ("/em" routes).
	RoleEM Role = "EM"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleInstructor || r == RoleEM
}

// HomePath returns the landing page for the role.
func (r Role) HomePath() string {
	if r == RoleEM {
		return "/em"
	}
	return "/instructor"
}

// ErrInvalidToken is returned by Verify for every failure mode: malformed
// input, a bad signature, an unknown role, or an expired token. Callers
// must treat all of them identically (unauthenticated), so the codec does
// not distinguish them.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Claims is the verified content of a session credential.
type Claims struct {
	Role      Role
	Name      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims is the JWT payload shape.
type sessionClaims struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec issues and verifies session credentials with a symmetric secret.
// Safe for concurrent use; it holds no mutable state.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec signing with the given secret. Every issued
// token expires ttl after issuance; the expiry is fixed at creation and
// never refreshed in place.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token embedding the claims with an issued-at of
// now and an expiry of now+ttl.
func (c *Codec) Issue(role Role, name, email string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:  string(role),
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of a token and returns its claims.
// Any failure collapses to ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	var payload sessionClaims
	parsed, err := parser.ParseWithClaims(tokenStr, &payload, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	role := Role(payload.Role)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		Role:  role,
		Name:  payload.Name,
		Email: payload.Email,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}
	return claims, nil
}
