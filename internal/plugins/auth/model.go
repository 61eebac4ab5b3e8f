// Package auth is the core plugin: stateless cookie sessions, the
// role-based access gate that fronts every page, and the email-code PIN
// recovery workflow. Everything else in Lectern is thin delegation to
// external services; this plugin is where the actual design lives.
package auth

// LoginRequest holds the credentials submitted by the login page.
type LoginRequest struct {
	Email string `json:"email" form:"email"`
	PIN   string `json:"pin" form:"pin"`
}

// RequestCodeRequest asks for a verification code to be emailed.
type RequestCodeRequest struct {
	Email string `json:"email" form:"email"`
}

// VerifyCodeRequest checks a submitted code without consuming it. The
// step is advisory: clients may skip straight to the reset call.
type VerifyCodeRequest struct {
	Email string `json:"email" form:"email"`
	Code  string `json:"code" form:"code"`
}

// ResetPINRequest applies a new PIN after code verification.
type ResetPINRequest struct {
	Email  string `json:"email" form:"email"`
	Code   string `json:"code" form:"code"`
	NewPIN string `json:"new_pin" form:"new_pin"`
}

// ResetPINByEmailRequest applies a new PIN authenticated only by
// knowledge of the account email. The weaker of the two reset paths.
type ResetPINByEmailRequest struct {
	Email  string `json:"email" form:"email"`
	NewPIN string `json:"new_pin" form:"new_pin"`
}
