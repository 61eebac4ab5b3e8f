// Package codestore holds short-lived verification codes keyed by email
// address, used to prove mailbox ownership before a PIN reset. At most one
// live code exists per email; a new code overwrites (and so invalidates)
// the previous one. Codes are not consumed on read -- a verify call and
// the subsequent reset call check the same code; only a successful reset
// deletes it.
//
// The Store interface keeps the backing swappable: the in-process Memory
// store is the default, the Redis store is for deployments that need
// codes to survive a restart or to be shared across replicas.
package codestore

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"
)

// ErrNoCode is returned by Get when no live code exists for the email,
// either because none was issued or because it expired.
var ErrNoCode = errors.New("no verification code for this email")

// Store is the verification code registry contract.
type Store interface {
	// Set stores (or overwrites) the code for the lower-cased email with
	// the given time to live.
	Set(ctx context.Context, email, code string, ttl time.Duration) error

	// Get returns the live code for the email without deleting it.
	// Expired entries are removed lazily and reported as ErrNoCode.
	Get(ctx context.Context, email string) (string, error)

	// Delete removes the entry, used after a successful reset.
	Delete(ctx context.Context, email string) error
}

// codeSpan is the size of the 6-digit code range 100000-999999 inclusive.
const codeSpan = 900000

// Generate returns a uniformly random 6-digit decimal code. Every call
// draws fresh randomness; no reuse avoidance across emails is attempted.
func Generate() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		// crypto/rand only fails if the platform randomness source is
		// broken, in which case nothing else in the process is safe either.
		panic(err)
	}
	return strconv.FormatInt(100000+n.Int64(), 10)
}
