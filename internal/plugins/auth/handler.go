package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
)

// Handler exposes the auth endpoints. Responses follow the app-wide
// contract: {"success": true, ...} on success, {"error": msg} with a
// 4xx/5xx status on failure.
type Handler struct {
	service  Service
	sessions *SessionStore
}

func NewHandler(service Service, sessions *SessionStore) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Login verifies credentials, sets the session cookie and tells the
// client where to go next.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	if req.Email == "" || req.PIN == "" {
		return errJSON(c, apperror.NewBadRequest("email and PIN are required"))
	}
	signed, acct, err := h.service.Login(c.Request().Context(), req.Email, req.PIN)
	if err != nil {
		return errJSON(c, err)
	}
	h.sessions.Save(c, signed)
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"redirect": acct.Role.HomePath(),
	})
}

// Logout clears the session cookie. The token itself stays valid until
// it expires; forgetting it is all a stateless session can do.
func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "redirect": loginPath})
}

// Me reports the current session for page scripts.
func (h *Handler) Me(c echo.Context) error {
	claims := h.sessions.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"role":    claims.Role,
		"name":    claims.Name,
		"email":   claims.Email,
	})
}

// RequestCode starts the PIN recovery workflow. It answers 200 whether
// or not the account exists.
func (h *Handler) RequestCode(c echo.Context) error {
	var req RequestCodeRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	if req.Email == "" {
		return errJSON(c, apperror.NewBadRequest("email is required"))
	}
	if err := h.service.RequestResetCode(c.Request().Context(), req.Email); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "If the account exists, a verification code has been emailed.",
	})
}

// VerifyCode checks a code without consuming it.
func (h *Handler) VerifyCode(c echo.Context) error {
	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	if req.Email == "" || req.Code == "" {
		return errJSON(c, apperror.NewBadRequest("email and code are required"))
	}
	if err := h.service.VerifyResetCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// ResetPIN applies a new PIN after code verification.
func (h *Handler) ResetPIN(c echo.Context) error {
	var req ResetPINRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	if req.Email == "" || req.Code == "" || req.NewPIN == "" {
		return errJSON(c, apperror.NewBadRequest("email, code and new_pin are required"))
	}
	if err := h.service.ResetPIN(c.Request().Context(), req.Email, req.Code, req.NewPIN); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "PIN updated"})
}

// ResetPINByEmail applies a new PIN authenticated only by email.
func (h *Handler) ResetPINByEmail(c echo.Context) error {
	var req ResetPINByEmailRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	if req.Email == "" || req.NewPIN == "" {
		return errJSON(c, apperror.NewBadRequest("email and new_pin are required"))
	}
	if err := h.service.ResetPINByEmail(c.Request().Context(), req.Email, req.NewPIN); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "PIN updated"})
}

func errJSON(c echo.Context, err error) error {
	return c.JSON(apperror.SafeCode(err), map[string]string{"error": apperror.SafeMessage(err)})
}
