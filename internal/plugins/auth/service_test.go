package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/codestore"
	"github.com/lectern-app/lectern/internal/directory"
	"github.com/lectern-app/lectern/internal/token"
)

type mockDirectory struct {
	findByEmail      func(ctx context.Context, email string) (*directory.Account, error)
	verifyCredential func(ctx context.Context, email, pin string) (*directory.Account, error)
	updateCredential func(ctx context.Context, rowRef, newPIN string) error
}

func (m *mockDirectory) FindByEmail(ctx context.Context, email string) (*directory.Account, error) {
	return m.findByEmail(ctx, email)
}

func (m *mockDirectory) VerifyCredential(ctx context.Context, email, pin string) (*directory.Account, error) {
	return m.verifyCredential(ctx, email, pin)
}

func (m *mockDirectory) UpdateCredential(ctx context.Context, rowRef, newPIN string) error {
	return m.updateCredential(ctx, rowRef, newPIN)
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type mockSender struct {
	sent []sentMail
	fail error
}

func (m *mockSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

var kimAccount = &directory.Account{
	Name:   "Kim",
	Email:  "kim@example.com",
	Role:   token.RoleInstructor,
	RowRef: "3",
}

func knownAccountDirectory(t *testing.T) *mockDirectory {
	t.Helper()
	return &mockDirectory{
		findByEmail: func(_ context.Context, email string) (*directory.Account, error) {
			if email == kimAccount.Email {
				return kimAccount, nil
			}
			return nil, apperror.NewNotFound("account not found")
		},
		verifyCredential: func(_ context.Context, email, pin string) (*directory.Account, error) {
			if email == kimAccount.Email && pin == "1234" {
				return kimAccount, nil
			}
			return nil, apperror.NewUnauthorized("invalid email or PIN")
		},
		updateCredential: func(_ context.Context, rowRef, newPIN string) error {
			return nil
		},
	}
}

func newTestService(t *testing.T, dir directory.Directory, codes codestore.Store, mail *mockSender) Service {
	t.Helper()
	codec := token.NewCodec("service-test-secret-0123456789abcd", 24*time.Hour)
	return NewService(dir, codes, mail, codec, 10*time.Minute)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	codec := token.NewCodec("service-test-secret-0123456789abcd", 24*time.Hour)
	svc := NewService(knownAccountDirectory(t), codestore.NewMemory(), &mockSender{}, codec, 10*time.Minute)

	signed, acct, err := svc.Login(ctx, "kim@example.com", "1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if acct.Role != token.RoleInstructor {
		t.Errorf("role = %q, want INSTRUCTOR", acct.Role)
	}
	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "kim@example.com" || claims.Name != "Kim" {
		t.Errorf("claims = %+v, want Kim/kim@example.com", claims)
	}
}

func TestLoginBadCredential(t *testing.T) {
	svc := newTestService(t, knownAccountDirectory(t), codestore.NewMemory(), &mockSender{})

	_, _, err := svc.Login(context.Background(), "kim@example.com", "9999")
	if apperror.SafeCode(err) != 401 {
		t.Fatalf("code = %d, want 401", apperror.SafeCode(err))
	}
}

func TestRequestResetCodeStoresAndMails(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	mail := &mockSender{}
	svc := newTestService(t, knownAccountDirectory(t), codes, mail)

	if err := svc.RequestResetCode(ctx, "kim@example.com"); err != nil {
		t.Fatalf("RequestResetCode: %v", err)
	}
	stored, err := codes.Get(ctx, "kim@example.com")
	if err != nil {
		t.Fatalf("no code stored: %v", err)
	}
	if len(stored) != 6 {
		t.Errorf("code %q is not 6 digits", stored)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	if mail.sent[0].to != "kim@example.com" {
		t.Errorf("mail to %q", mail.sent[0].to)
	}
	if !strings.Contains(mail.sent[0].body, stored) {
		t.Errorf("mail body does not contain the code")
	}
}

func TestRequestResetCodeUnknownAccountIsSilent(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	mail := &mockSender{}
	svc := newTestService(t, knownAccountDirectory(t), codes, mail)

	if err := svc.RequestResetCode(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown account must not surface an error, got %v", err)
	}
	if _, err := codes.Get(ctx, "nobody@example.com"); err != codestore.ErrNoCode {
		t.Errorf("a code was stored for an unknown account")
	}
	if len(mail.sent) != 0 {
		t.Errorf("mail was sent for an unknown account")
	}
}

func TestRequestResetCodeSurvivesMailFailure(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	mail := &mockSender{fail: errors.New("smtp down")}
	svc := newTestService(t, knownAccountDirectory(t), codes, mail)

	if err := svc.RequestResetCode(ctx, "kim@example.com"); err != nil {
		t.Fatalf("mail failure must not surface, got %v", err)
	}
	if _, err := codes.Get(ctx, "kim@example.com"); err != nil {
		t.Errorf("code was discarded on mail failure: %v", err)
	}
}

func TestVerifyResetCode(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	svc := newTestService(t, knownAccountDirectory(t), codes, &mockSender{})
	codes.Set(ctx, "kim@example.com", "123456", 10*time.Minute)

	if err := svc.VerifyResetCode(ctx, "kim@example.com", "123456"); err != nil {
		t.Errorf("matching code: %v", err)
	}
	// Non-consuming; a second verify still passes.
	if err := svc.VerifyResetCode(ctx, "kim@example.com", "123456"); err != nil {
		t.Errorf("second verify: %v", err)
	}
	if err := svc.VerifyResetCode(ctx, "kim@example.com", "654321"); apperror.SafeCode(err) != 400 {
		t.Errorf("wrong code = %v, want 400", err)
	}
	if err := svc.VerifyResetCode(ctx, "other@example.com", "123456"); apperror.SafeCode(err) != 400 {
		t.Errorf("no code = %v, want 400", err)
	}
}

func TestResetPIN(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	dir := knownAccountDirectory(t)
	var gotRowRef, gotPIN string
	dir.updateCredential = func(_ context.Context, rowRef, newPIN string) error {
		gotRowRef, gotPIN = rowRef, newPIN
		return nil
	}
	svc := newTestService(t, dir, codes, &mockSender{})
	codes.Set(ctx, "kim@example.com", "123456", 10*time.Minute)

	if err := svc.ResetPIN(ctx, "kim@example.com", "123456", "5678"); err != nil {
		t.Fatalf("ResetPIN: %v", err)
	}
	if gotRowRef != "3" || gotPIN != "5678" {
		t.Errorf("UpdateCredential(%q, %q), want (3, 5678)", gotRowRef, gotPIN)
	}
	// The code is consumed; a replay fails.
	if err := svc.ResetPIN(ctx, "kim@example.com", "123456", "9876"); apperror.SafeCode(err) != 400 {
		t.Errorf("replay = %v, want 400", err)
	}
}

func TestResetPINWrongCodeLeavesCredentialAlone(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	dir := knownAccountDirectory(t)
	dir.updateCredential = func(_ context.Context, rowRef, newPIN string) error {
		t.Error("UpdateCredential called with an invalid code")
		return nil
	}
	svc := newTestService(t, dir, codes, &mockSender{})
	codes.Set(ctx, "kim@example.com", "123456", 10*time.Minute)

	if err := svc.ResetPIN(ctx, "kim@example.com", "000000", "5678"); apperror.SafeCode(err) != 400 {
		t.Errorf("wrong code = %v, want 400", err)
	}
	// The stored code survives the failed attempt.
	if err := svc.VerifyResetCode(ctx, "kim@example.com", "123456"); err != nil {
		t.Errorf("code was consumed by a failed reset: %v", err)
	}
}

func TestResetPINLengthBounds(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		pin string
		ok  bool
	}{
		{"123", false},
		{"1234", true},
		{"1234567890", true},
		{"12345678901", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("len%d", len(tt.pin)), func(t *testing.T) {
			codes := codestore.NewMemory()
			codes.Set(ctx, "kim@example.com", "123456", 10*time.Minute)
			svc := newTestService(t, knownAccountDirectory(t), codes, &mockSender{})

			err := svc.ResetPIN(ctx, "kim@example.com", "123456", tt.pin)
			if tt.ok && err != nil {
				t.Errorf("PIN %q rejected: %v", tt.pin, err)
			}
			if !tt.ok && apperror.SafeCode(err) != 400 {
				t.Errorf("PIN %q = %v, want 400", tt.pin, err)
			}
		})
	}
}

func TestResetPINByEmail(t *testing.T) {
	ctx := context.Background()
	dir := knownAccountDirectory(t)
	var gotPIN string
	dir.updateCredential = func(_ context.Context, rowRef, newPIN string) error {
		gotPIN = newPIN
		return nil
	}
	svc := newTestService(t, dir, codestore.NewMemory(), &mockSender{})

	if err := svc.ResetPINByEmail(ctx, "kim@example.com", "4321"); err != nil {
		t.Fatalf("ResetPINByEmail: %v", err)
	}
	if gotPIN != "4321" {
		t.Errorf("new PIN = %q, want 4321", gotPIN)
	}
}

func TestResetPINByEmailUnknownAccountIs404(t *testing.T) {
	svc := newTestService(t, knownAccountDirectory(t), codestore.NewMemory(), &mockSender{})

	err := svc.ResetPINByEmail(context.Background(), "nobody@example.com", "4321")
	if apperror.SafeCode(err) != 404 {
		t.Fatalf("unknown account = %v, want 404", err)
	}
}

func TestResetPINByEmailInvalidatesOutstandingCode(t *testing.T) {
	ctx := context.Background()
	codes := codestore.NewMemory()
	svc := newTestService(t, knownAccountDirectory(t), codes, &mockSender{})
	codes.Set(ctx, "kim@example.com", "123456", 10*time.Minute)

	if err := svc.ResetPINByEmail(ctx, "kim@example.com", "4321"); err != nil {
		t.Fatalf("ResetPINByEmail: %v", err)
	}
	if _, err := codes.Get(ctx, "kim@example.com"); err != codestore.ErrNoCode {
		t.Errorf("outstanding code survived the reset")
	}
}
