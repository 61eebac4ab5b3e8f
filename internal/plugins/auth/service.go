package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/codestore"
	"github.com/lectern-app/lectern/internal/directory"
	"github.com/lectern-app/lectern/internal/mailer"
	"github.com/lectern-app/lectern/internal/token"
)

const (
	pinMinLength = 4
	pinMaxLength = 10
)

// Service implements login and the PIN recovery workflow.
type Service interface {
	Login(ctx context.Context, email, pin string) (signed string, acct *directory.Account, err error)
	RequestResetCode(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPIN(ctx context.Context, email, code, newPIN string) error
	ResetPINByEmail(ctx context.Context, email, newPIN string) error
}

type service struct {
	dir     directory.Directory
	codes   codestore.Store
	mail    mailer.Sender
	codec   *token.Codec
	codeTTL time.Duration
}

func NewService(dir directory.Directory, codes codestore.Store, mail mailer.Sender, codec *token.Codec, codeTTL time.Duration) Service {
	return &service{dir: dir, codes: codes, mail: mail, codec: codec, codeTTL: codeTTL}
}

// Login verifies the credential pair and issues a fresh session token.
func (s *service) Login(ctx context.Context, email, pin string) (string, *directory.Account, error) {
	acct, err := s.dir.VerifyCredential(ctx, email, pin)
	if err != nil {
		return "", nil, err
	}
	signed, err := s.codec.Issue(acct.Role, acct.Name, acct.Email)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("issuing session token: %w", err))
	}
	slog.Info("user logged in", "email", acct.Email, "role", acct.Role)
	return signed, acct, nil
}

// RequestResetCode generates and emails a verification code. An
// unknown email is treated as success so the endpoint cannot be used
// to probe which accounts exist. A fresh request overwrites any code
// already outstanding for the account.
func (s *service) RequestResetCode(ctx context.Context, email string) error {
	acct, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			slog.Info("reset code requested for unknown account", "email", email)
			return nil
		}
		return err
	}

	code := codestore.Generate()
	if err := s.codes.Set(ctx, acct.Email, code, s.codeTTL); err != nil {
		return apperror.NewInternal(fmt.Errorf("storing verification code: %w", err))
	}

	subject := "Your Lectern verification code"
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your verification code is <strong>%s</strong>. It expires in %d minutes.</p>"+
			"<p>If you did not request a PIN reset, you can ignore this message.</p>",
		acct.Name, code, int(s.codeTTL.Minutes()))
	if err := s.mail.Send(ctx, acct.Email, subject, body); err != nil {
		// Delivery failure does not invalidate the code; an operator
		// can read it from the log and relay it out of band.
		slog.Warn("could not deliver verification code", "email", acct.Email, "code", code, "error", err)
		return nil
	}
	slog.Info("verification code sent", "email", acct.Email)
	return nil
}

// VerifyResetCode checks a code without consuming it. Expired, absent
// and mismatched codes get the same answer.
func (s *service) VerifyResetCode(ctx context.Context, email, code string) error {
	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		if err == codestore.ErrNoCode {
			return apperror.NewBadRequest("expired or invalid code")
		}
		return apperror.NewInternal(fmt.Errorf("reading verification code: %w", err))
	}
	if stored != code {
		return apperror.NewBadRequest("expired or invalid code")
	}
	return nil
}

// ResetPIN applies a new PIN after re-validating the code, then
// consumes the code so it cannot authorize a second reset.
func (s *service) ResetPIN(ctx context.Context, email, code, newPIN string) error {
	if err := validatePIN(newPIN); err != nil {
		return err
	}
	if err := s.VerifyResetCode(ctx, email, code); err != nil {
		return err
	}
	acct, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.dir.UpdateCredential(ctx, acct.RowRef, newPIN); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		slog.Warn("could not delete used verification code", "email", email, "error", err)
	}
	slog.Info("PIN reset completed", "email", acct.Email)
	return nil
}

// ResetPINByEmail applies a new PIN authenticated only by the account
// email. Unlike the code path it reports an unknown account as 404.
func (s *service) ResetPINByEmail(ctx context.Context, email, newPIN string) error {
	if err := validatePIN(newPIN); err != nil {
		return err
	}
	acct, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.dir.UpdateCredential(ctx, acct.RowRef, newPIN); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		slog.Warn("could not delete outstanding verification code", "email", email, "error", err)
	}
	slog.Info("PIN reset by email completed", "email", acct.Email)
	return nil
}

func validatePIN(pin string) error {
	if len(pin) < pinMinLength || len(pin) > pinMaxLength {
		return apperror.NewBadRequest(fmt.Sprintf("PIN must be between %d and %d characters", pinMinLength, pinMaxLength))
	}
	return nil
}
