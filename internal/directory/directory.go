// Package directory is the account lookup and credential update boundary.
// The canonical backend is the roster spreadsheet; a MariaDB backend
// exists for deployments that have migrated the roster off Sheets. Both
// expose the same narrow contract, so the auth workflow never knows which
// one it is talking to.
package directory

import (
	"context"

	"github.com/lectern-app/lectern/internal/token"
)

// Account is one person known to the directory.
type Account struct {
	Name  string
	Email string
	Role  token.Role

	// RowRef locates the account in its backing store: a 1-based sheet
	// row number for the sheets backend, a numeric id for mysql. Opaque
	// to callers; pass it back to UpdateCredential unchanged.
	RowRef string
}

// Directory is the account lookup/update contract.
//
// FindByEmail returns apperror.NewNotFound when no account matches.
// VerifyCredential returns apperror.NewUnauthorized on any mismatch,
// without revealing whether the email or the PIN was wrong.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	VerifyCredential(ctx context.Context, email, pin string) (*Account, error)
	UpdateCredential(ctx context.Context, rowRef, newPIN string) error
}
