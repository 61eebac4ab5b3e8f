// Package mailer delivers notification email. Two transports exist: a
// plain SMTP sender configured from the environment, and a Gmail API
// sender that uses the OAuth authorization managed by internal/gapi.
// Auto picks Gmail when an authorized token is present and falls back to
// SMTP otherwise, so the EM can authorize Gmail at runtime without a
// restart.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Sender is the outbound mail contract. Delivery failures are returned
// as plain errors; callers decide whether a failure is fatal (the PIN
// recovery flow deliberately treats it as non-fatal).
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Auto selects between the Gmail and SMTP transports per send.
type Auto struct {
	gmail     *Gmail
	smtp      *SMTP
	hasGmail  func() bool
	available bool
}

// NewAuto builds the selecting sender. gmail may be nil when no OAuth
// client is configured; smtp may be nil when SMTP is unconfigured.
func NewAuto(gmail *Gmail, smtp *SMTP) *Auto {
	a := &Auto{gmail: gmail, smtp: smtp}
	if gmail != nil {
		a.hasGmail = gmail.Authorized
	} else {
		a.hasGmail = func() bool { return false }
	}
	a.available = gmail != nil || smtp != nil
	return a
}

// Available reports whether any transport is configured.
func (a *Auto) Available() bool {
	return a.available
}

// Send delivers through Gmail when authorized, otherwise SMTP.
func (a *Auto) Send(ctx context.Context, to, subject, htmlBody string) error {
	if a.hasGmail() {
		return a.gmail.Send(ctx, to, subject, htmlBody)
	}
	if a.smtp != nil {
		return a.smtp.Send(ctx, to, subject, htmlBody)
	}
	return fmt.Errorf("no mail transport configured")
}

// buildMessage assembles an RFC 2822 message with an HTML body. Shared
// by both transports.
func buildMessage(from, to, subject, htmlBody string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.String()
}
