package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/directory"
	"github.com/lectern-app/lectern/internal/token"
)

type mockService struct {
	login           func(ctx context.Context, email, pin string) (string, *directory.Account, error)
	requestCode     func(ctx context.Context, email string) error
	verifyCode      func(ctx context.Context, email, code string) error
	resetPIN        func(ctx context.Context, email, code, newPIN string) error
	resetPINByEmail func(ctx context.Context, email, newPIN string) error
}

func (m *mockService) Login(ctx context.Context, email, pin string) (string, *directory.Account, error) {
	return m.login(ctx, email, pin)
}

func (m *mockService) RequestResetCode(ctx context.Context, email string) error {
	return m.requestCode(ctx, email)
}

func (m *mockService) VerifyResetCode(ctx context.Context, email, code string) error {
	return m.verifyCode(ctx, email, code)
}

func (m *mockService) ResetPIN(ctx context.Context, email, code, newPIN string) error {
	return m.resetPIN(ctx, email, code, newPIN)
}

func (m *mockService) ResetPINByEmail(ctx context.Context, email, newPIN string) error {
	return m.resetPINByEmail(ctx, email, newPIN)
}

func newHandlerTestServer(svc Service) *echo.Echo {
	codec := token.NewCodec("handler-test-secret-0123456789abcd", 24*time.Hour)
	sessions := NewSessionStore(codec, false, 24*time.Hour)
	e := echo.New()
	RegisterRoutes(e, NewHandler(svc, sessions))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestLoginHandlerSetsCookie(t *testing.T) {
	acct := &directory.Account{Name: "Kim", Email: "kim@example.com", Role: token.RoleInstructor, RowRef: "3"}
	e := newHandlerTestServer(&mockService{
		login: func(_ context.Context, email, pin string) (string, *directory.Account, error) {
			return "signed-token", acct, nil
		},
	})

	rec := postJSON(e, "/api/auth/login", `{"email":"kim@example.com","pin":"1234"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["redirect"] != "/instructor" {
		t.Errorf("body = %v", body)
	}
	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, ck := range cookies {
		if ck.Name == CookieName {
			found = ck
		}
	}
	if found == nil {
		t.Fatal("session cookie not set")
	}
	if found.Value != "signed-token" || !found.HttpOnly || found.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie = %+v", found)
	}
}

func TestLoginHandlerBadCredential(t *testing.T) {
	e := newHandlerTestServer(&mockService{
		login: func(_ context.Context, email, pin string) (string, *directory.Account, error) {
			return "", nil, apperror.NewUnauthorized("invalid email or PIN")
		},
	})

	rec := postJSON(e, "/api/auth/login", `{"email":"kim@example.com","pin":"bad"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "invalid email or PIN" {
		t.Errorf("body = %v", body)
	}
}

func TestLoginHandlerMissingFields(t *testing.T) {
	e := newHandlerTestServer(&mockService{})

	rec := postJSON(e, "/api/auth/login", `{"email":"kim@example.com"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRequestCodeHandlerAlways200(t *testing.T) {
	var asked string
	e := newHandlerTestServer(&mockService{
		requestCode: func(_ context.Context, email string) error {
			asked = email
			return nil
		},
	})

	rec := postJSON(e, "/api/auth/recovery/code", `{"email":"nobody@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 regardless of account existence", rec.Code)
	}
	if asked != "nobody@example.com" {
		t.Errorf("service asked for %q", asked)
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestVerifyCodeHandlerRejectsBadCode(t *testing.T) {
	e := newHandlerTestServer(&mockService{
		verifyCode: func(_ context.Context, email, code string) error {
			return apperror.NewBadRequest("expired or invalid code")
		},
	})

	rec := postJSON(e, "/api/auth/recovery/verify", `{"email":"kim@example.com","code":"000000"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "expired or invalid code" {
		t.Errorf("body = %v", body)
	}
}

func TestResetPINHandler(t *testing.T) {
	var got [3]string
	e := newHandlerTestServer(&mockService{
		resetPIN: func(_ context.Context, email, code, newPIN string) error {
			got = [3]string{email, code, newPIN}
			return nil
		},
	})

	rec := postJSON(e, "/api/auth/recovery/reset", `{"email":"kim@example.com","code":"123456","new_pin":"5678"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got != [3]string{"kim@example.com", "123456", "5678"} {
		t.Errorf("service got %v", got)
	}
}

func TestResetByEmailHandlerUnknownAccountIs404(t *testing.T) {
	e := newHandlerTestServer(&mockService{
		resetPINByEmail: func(_ context.Context, email, newPIN string) error {
			return apperror.NewNotFound("account not found")
		},
	})

	rec := postJSON(e, "/api/auth/recovery/reset-by-email", `{"email":"nobody@example.com","new_pin":"5678"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestLogoutHandlerClearsCookie(t *testing.T) {
	e := newHandlerTestServer(&mockService{})

	rec := postJSON(e, "/api/auth/logout", ``)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			found = ck
		}
	}
	if found == nil {
		t.Fatal("clearing cookie not set")
	}
	if found.MaxAge >= 0 || found.Value != "" {
		t.Errorf("cookie not cleared: %+v", found)
	}
}

func TestRequireRole(t *testing.T) {
	codec := token.NewCodec("handler-test-secret-0123456789abcd", 24*time.Hour)
	sessions := NewSessionStore(codec, false, 24*time.Hour)
	e := echo.New()
	e.GET("/api/em/ping", func(c echo.Context) error {
		claims := GetClaims(c)
		return c.JSON(http.StatusOK, map[string]any{"email": claims.Email})
	}, RequireRole(sessions, token.RoleEM))

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/em/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		signed, _ := codec.Issue(token.RoleInstructor, "Kim", "kim@example.com")
		req := httptest.NewRequest(http.MethodGet, "/api/em/ping", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: signed})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401 not 403", rec.Code)
		}
	})

	t.Run("matching role", func(t *testing.T) {
		signed, _ := codec.Issue(token.RoleEM, "Park", "park@example.com")
		req := httptest.NewRequest(http.MethodGet, "/api/em/ping", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: signed})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "park@example.com") {
			t.Errorf("body = %s", body)
		}
	})
}
