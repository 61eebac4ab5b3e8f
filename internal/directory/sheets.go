package directory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/token"
)

// Roster sheet layout. Row 1 is the header; data starts at row 2.
// Columns: A name, B email, C role, D PIN.
const (
	rosterTab       = "Roster"
	rosterReadRange = rosterTab + "!A2:D"
	rosterFirstRow  = 2
	rosterPINColumn = "D"
)

// sheetClient is the slice of gapi.Sheet the directory needs.
type sheetClient interface {
	ReadRange(ctx context.Context, rangeA1 string) ([][]interface{}, error)
	UpdateCell(ctx context.Context, cellA1 string, value interface{}) error
}

// Sheets is the Directory backed by the roster spreadsheet. Every lookup
// re-reads the sheet: the roster is small (hundreds of rows) and EMs edit
// it directly, so caching would serve stale rows.
type Sheets struct {
	sheet sheetClient
}

// NewSheets creates a sheets-backed directory.
func NewSheets(sheet sheetClient) *Sheets {
	return &Sheets{sheet: sheet}
}

// rosterRow is one parsed roster line.
type rosterRow struct {
	account Account
	pin     string
}

// FindByEmail scans the roster for the account with the given email.
func (s *Sheets) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row, err := s.findRow(ctx, email)
	if err != nil {
		return nil, err
	}
	acct := row.account
	return &acct, nil
}

// VerifyCredential compares the submitted PIN against the roster's PIN
// column. The failure is deliberately generic.
func (s *Sheets) VerifyCredential(ctx context.Context, email, pin string) (*Account, error) {
	row, err := s.findRow(ctx, email)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewUnauthorized("invalid email or PIN")
		}
		return nil, err
	}
	if pin == "" || row.pin != pin {
		return nil, apperror.NewUnauthorized("invalid email or PIN")
	}
	acct := row.account
	return &acct, nil
}

// UpdateCredential writes the new PIN into the account's PIN cell.
func (s *Sheets) UpdateCredential(ctx context.Context, rowRef, newPIN string) error {
	rowNum, err := strconv.Atoi(rowRef)
	if err != nil || rowNum < rosterFirstRow {
		return apperror.NewInternal(fmt.Errorf("bad roster row ref %q", rowRef))
	}

	cell := fmt.Sprintf("%s!%s%d", rosterTab, rosterPINColumn, rowNum)
	if err := s.sheet.UpdateCell(ctx, cell, newPIN); err != nil {
		return apperror.NewInternal(fmt.Errorf("updating roster PIN: %w", err))
	}
	return nil
}

// findRow reads the roster and returns the row matching the email.
func (s *Sheets) findRow(ctx context.Context, email string) (*rosterRow, error) {
	values, err := s.sheet.ReadRange(ctx, rosterReadRange)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading roster: %w", err))
	}

	want := strings.ToLower(strings.TrimSpace(email))
	for i, raw := range values {
		row, ok := parseRosterRow(raw, rosterFirstRow+i)
		if !ok {
			continue
		}
		if strings.ToLower(row.account.Email) == want {
			return &row, nil
		}
	}
	return nil, apperror.NewNotFound("no account with that email")
}

// parseRosterRow converts one sheet row into a rosterRow. Rows with no
// email are skipped (blank lines, section separators in the sheet).
// Unknown role cells default to INSTRUCTOR -- EMs are the exception and
// their rows are maintained carefully.
func parseRosterRow(raw []interface{}, rowNum int) (rosterRow, bool) {
	email := cellString(raw, 1)
	if email == "" {
		return rosterRow{}, false
	}

	role := token.Role(strings.ToUpper(cellString(raw, 2)))
	if !role.Valid() {
		role = token.RoleInstructor
	}

	return rosterRow{
		account: Account{
			Name:   cellString(raw, 0),
			Email:  strings.TrimSpace(email),
			Role:   role,
			RowRef: strconv.Itoa(rowNum),
		},
		pin: cellString(raw, 3),
	}, true
}

// cellString returns the trimmed string value of column idx, tolerating
// short rows (the Sheets API omits trailing empty cells).
func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}
