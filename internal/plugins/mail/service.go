// Package mail handles the Gmail OAuth consent flow and outbound test
// sends. Authorization is a one-time EM action; once a token is on
// disk the mailer switches from SMTP to the Gmail API by itself.
package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lectern-app/lectern/internal/apperror"
)

// stateTTL bounds how long a consent flow may sit unfinished.
const stateTTL = 15 * time.Minute

type authorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
	HasToken() bool
}

type Service struct {
	auth authorizer

	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewService(auth authorizer) *Service {
	return &Service{auth: auth, states: make(map[string]time.Time), now: time.Now}
}

// BeginAuthorize mints a state nonce and returns the consent URL.
func (s *Service) BeginAuthorize(ctx context.Context) (string, error) {
	if s.auth == nil {
		return "", apperror.NewBadRequest("mail authorization is not configured")
	}
	state := uuid.NewString()

	s.mu.Lock()
	s.pruneLocked()
	s.states[state] = s.now().Add(stateTTL)
	s.mu.Unlock()

	return s.auth.AuthURL(state), nil
}

// CompleteAuthorize validates the state and exchanges the code for a
// token. The state is single-use.
func (s *Service) CompleteAuthorize(ctx context.Context, state, code string) error {
	if s.auth == nil {
		return apperror.NewBadRequest("mail authorization is not configured")
	}
	if state == "" || code == "" {
		return apperror.NewBadRequest("state and code are required")
	}

	s.mu.Lock()
	expiry, ok := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()

	if !ok || s.now().After(expiry) {
		return apperror.NewBadRequest("unknown or expired authorization state")
	}
	if err := s.auth.Exchange(ctx, code); err != nil {
		return apperror.NewInternal(fmt.Errorf("exchanging authorization code: %w", err))
	}
	return nil
}

// Status reports whether a Gmail token is stored.
func (s *Service) Status() bool {
	return s.auth != nil && s.auth.HasToken()
}

func (s *Service) pruneLocked() {
	now := s.now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
