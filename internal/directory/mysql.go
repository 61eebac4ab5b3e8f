package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/token"
)

// MySQL is the Directory backed by the accounts table. Unlike the sheet
// backend, the PIN is stored as a bcrypt hash, never in the clear.
type MySQL struct {
	db *sql.DB
}

// NewMySQL creates a MariaDB-backed directory.
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

// FindByEmail looks up the account by its unique email.
func (m *MySQL) FindByEmail(ctx context.Context, email string) (*Account, error) {
	acct, _, err := m.findByEmail(ctx, email)
	return acct, err
}

// VerifyCredential compares the submitted PIN against the stored bcrypt
// hash. The failure is deliberately generic.
func (m *MySQL) VerifyCredential(ctx context.Context, email, pin string) (*Account, error) {
	acct, pinHash, err := m.findByEmail(ctx, email)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewUnauthorized("invalid email or PIN")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)) != nil {
		return nil, apperror.NewUnauthorized("invalid email or PIN")
	}
	return acct, nil
}

// UpdateCredential hashes the new PIN and stores it for the account.
func (m *MySQL) UpdateCredential(ctx context.Context, rowRef, newPIN string) error {
	id, err := strconv.ParseInt(rowRef, 10, 64)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("bad account row ref %q", rowRef))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing PIN: %w", err))
	}

	res, err := m.db.ExecContext(ctx,
		`UPDATE accounts SET pin_hash = ? WHERE id = ?`, string(hash), id)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("updating PIN: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("no account with that email")
	}
	return nil
}

// findByEmail returns the account and its stored PIN hash.
func (m *MySQL) findByEmail(ctx context.Context, email string) (*Account, string, error) {
	query := `SELECT id, name, email, role, pin_hash FROM accounts WHERE email = ?`

	var (
		id      int64
		acct    Account
		role    string
		pinHash string
	)
	err := m.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).
		Scan(&id, &acct.Name, &acct.Email, &role, &pinHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", apperror.NewNotFound("no account with that email")
	}
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("querying account: %w", err))
	}

	acct.Role = token.Role(role)
	acct.RowRef = strconv.FormatInt(id, 10)
	return &acct, pinHash, nil
}
