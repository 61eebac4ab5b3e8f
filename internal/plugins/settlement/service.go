package settlement

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lectern-app/lectern/internal/apperror"
)

// Ledger tab layout. Row 1 is the header.
// Columns: A month (YYYY-MM), B instructor email, C class count,
// D hours, E amount (KRW, no separators), F status.
const (
	ledgerTab       = "Settlement"
	ledgerReadRange = ledgerTab + "!A2:F"
	ledgerFirstRow  = 2
	ledgerStatusCol = "F"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type sheetClient interface {
	ReadRange(ctx context.Context, rangeA1 string) ([][]interface{}, error)
	UpdateCell(ctx context.Context, cellA1 string, value interface{}) error
}

type Service struct {
	sheet sheetClient
}

func NewService(sheet sheetClient) *Service {
	return &Service{sheet: sheet}
}

// ListMonth returns the ledger rows for a month, optionally narrowed to
// one instructor, with the amount total.
func (s *Service) ListMonth(ctx context.Context, month, instructorEmail string) (*Summary, error) {
	if !monthPattern.MatchString(month) {
		return nil, apperror.NewBadRequest("month must be YYYY-MM")
	}
	rows, err := s.readLedger(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(instructorEmail))
	summary := &Summary{Rows: []Row{}}
	for _, r := range rows {
		if r.Month != month {
			continue
		}
		if want != "" && strings.ToLower(r.Instructor) != want {
			continue
		}
		summary.Rows = append(summary.Rows, r)
		summary.TotalAmount += r.Amount
	}
	return summary, nil
}

// MarkPaid flips a ledger row's status to PAID. The row must exist in
// the current read.
func (s *Service) MarkPaid(ctx context.Context, sheetRow int) error {
	rows, err := s.readLedger(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, r := range rows {
		if r.SheetRow == sheetRow {
			found = true
			break
		}
	}
	if !found {
		return apperror.NewNotFound("no settlement row at that position")
	}
	cell := fmt.Sprintf("%s!%s%d", ledgerTab, ledgerStatusCol, sheetRow)
	if err := s.sheet.UpdateCell(ctx, cell, StatusPaid); err != nil {
		return apperror.NewInternal(fmt.Errorf("marking settlement paid: %w", err))
	}
	return nil
}

func (s *Service) readLedger(ctx context.Context) ([]Row, error) {
	values, err := s.sheet.ReadRange(ctx, ledgerReadRange)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading settlement ledger: %w", err))
	}
	out := make([]Row, 0, len(values))
	for i, raw := range values {
		row, ok := parseLedgerRow(raw, ledgerFirstRow+i)
		if !ok {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// parseLedgerRow converts one sheet row. Rows with no instructor email
// are skipped. Numeric cells are hand-entered; unparseable values read
// as zero rather than failing the whole ledger.
func parseLedgerRow(raw []interface{}, rowNum int) (Row, bool) {
	email := cellString(raw, 1)
	if email == "" {
		return Row{}, false
	}
	status := strings.ToUpper(cellString(raw, 5))
	if status == "" {
		status = StatusPending
	}
	return Row{
		Month:      cellString(raw, 0),
		Instructor: email,
		Classes:    int(cellInt(raw, 2)),
		Hours:      cellFloat(raw, 3),
		Amount:     cellInt(raw, 4),
		Status:     status,
		SheetRow:   rowNum,
	}, true
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}

func cellInt(row []interface{}, idx int) int64 {
	n, _ := strconv.ParseInt(cellString(row, idx), 10, 64)
	return n
}

func cellFloat(row []interface{}, idx int) float64 {
	f, _ := strconv.ParseFloat(cellString(row, idx), 64)
	return f
}
