package codestore

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a stored code with its absolute expiry.
type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// Memory is the in-process Store. A single mutex guards the map; entries
// are overwritten or deleted atomically at the granularity of one map
// operation, which is enough because a newer code legitimately supersedes
// an older unused one (last writer wins).
//
// Codes do not survive a process restart. That is an accepted limitation
// of this store; use Redis where it matters.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewMemory creates an empty in-process code store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Set stores or overwrites the code for the email.
func (m *Memory) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[normalize(email)] = memoryEntry{
		code:      code,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Get returns the live code without deleting it. An entry past its expiry
// is removed and reported as ErrNoCode; a second Get stays ErrNoCode.
func (m *Memory) Get(ctx context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalize(email)
	entry, ok := m.entries[key]
	if !ok {
		return "", ErrNoCode
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", ErrNoCode
	}
	return entry.code, nil
}

// Delete removes the entry for the email, if any.
func (m *Memory) Delete(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, normalize(email))
	return nil
}

// normalize lower-cases the email key; the mapping is case-insensitive.
func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
