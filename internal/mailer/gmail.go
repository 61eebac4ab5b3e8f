package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/lectern-app/lectern/internal/gapi"
)

// Gmail sends mail through the Gmail API using the OAuth authorization
// the EM granted via /api/mail/authorize. The authenticated mailbox is
// the sender, so no From configuration is needed.
type Gmail struct {
	auth *gapi.GmailAuth
}

// NewGmail creates a Gmail sender, or nil when auth is nil (no OAuth
// client configured).
func NewGmail(auth *gapi.GmailAuth) *Gmail {
	if auth == nil {
		return nil
	}
	return &Gmail{auth: auth}
}

// Authorized reports whether a usable token is stored.
func (g *Gmail) Authorized() bool {
	return g.auth.HasToken()
}

// Send delivers one HTML message as the authorized mailbox.
func (g *Gmail) Send(ctx context.Context, to, subject, htmlBody string) error {
	svc, err := g.auth.Service(ctx)
	if err != nil {
		return fmt.Errorf("gmail not authorized: %w", err)
	}

	raw := buildMessage("me", to, subject, htmlBody)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sending via gmail: %w", err)
	}
	return nil
}
