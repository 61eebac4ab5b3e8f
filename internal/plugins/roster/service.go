package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/token"
)

// Sheet layouts. Row 1 is the header on both tabs.
// Roster: A name, B email, C role (D holds the PIN; never read here).
// Applicants: A name, B email, C phone, D subject, E status.
const (
	rosterReadRange     = "Roster!A2:C"
	rosterFirstRow      = 2
	applicantsTab       = "Applicants"
	applicantsReadRange = applicantsTab + "!A2:E"
	applicantsFirstRow  = 2
	applicantsStatusCol = "E"
)

type sheetClient interface {
	ReadRange(ctx context.Context, rangeA1 string) ([][]interface{}, error)
	UpdateCell(ctx context.Context, cellA1 string, value interface{}) error
}

// Service reads and mutates the roster spreadsheet. Like the directory,
// every call re-reads the sheet; EMs edit it directly and stale caches
// would show phantom rows.
type Service struct {
	sheet sheetClient
}

func NewService(sheet sheetClient) *Service {
	return &Service{sheet: sheet}
}

// ListInstructors returns all roster rows, EMs included.
func (s *Service) ListInstructors(ctx context.Context) ([]Instructor, error) {
	values, err := s.sheet.ReadRange(ctx, rosterReadRange)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading roster: %w", err))
	}
	out := make([]Instructor, 0, len(values))
	for i, raw := range values {
		inst, ok := parseInstructorRow(raw, rosterFirstRow+i)
		if !ok {
			continue
		}
		out = append(out, inst)
	}
	return out, nil
}

// GetInstructor returns the roster row matching the email.
func (s *Service) GetInstructor(ctx context.Context, email string) (*Instructor, error) {
	list, err := s.ListInstructors(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(email))
	for i := range list {
		if strings.ToLower(list[i].Email) == want {
			return &list[i], nil
		}
	}
	return nil, apperror.NewNotFound("no instructor with that email")
}

// ListApplicants returns the applicant pipeline.
func (s *Service) ListApplicants(ctx context.Context) ([]Applicant, error) {
	values, err := s.sheet.ReadRange(ctx, applicantsReadRange)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading applicants: %w", err))
	}
	out := make([]Applicant, 0, len(values))
	for i, raw := range values {
		app, ok := parseApplicantRow(raw, applicantsFirstRow+i)
		if !ok {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

// UpdateApplicantStatus writes a new status into the applicant's row.
// The row must exist in the current pipeline read, so a stale row number
// cannot overwrite an unrelated cell.
func (s *Service) UpdateApplicantStatus(ctx context.Context, row int, status string) error {
	if !validStatus(status) {
		return apperror.NewBadRequest("unknown applicant status")
	}
	apps, err := s.ListApplicants(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, a := range apps {
		if a.Row == row {
			found = true
			break
		}
	}
	if !found {
		return apperror.NewNotFound("no applicant at that row")
	}
	cell := fmt.Sprintf("%s!%s%d", applicantsTab, applicantsStatusCol, row)
	if err := s.sheet.UpdateCell(ctx, cell, status); err != nil {
		return apperror.NewInternal(fmt.Errorf("updating applicant status: %w", err))
	}
	return nil
}

func parseInstructorRow(raw []interface{}, rowNum int) (Instructor, bool) {
	email := cellString(raw, 1)
	if email == "" {
		return Instructor{}, false
	}
	role := token.Role(strings.ToUpper(cellString(raw, 2)))
	if !role.Valid() {
		role = token.RoleInstructor
	}
	return Instructor{
		Name:  cellString(raw, 0),
		Email: email,
		Role:  role,
		Row:   rowNum,
	}, true
}

func parseApplicantRow(raw []interface{}, rowNum int) (Applicant, bool) {
	email := cellString(raw, 1)
	if email == "" {
		return Applicant{}, false
	}
	return Applicant{
		Name:    cellString(raw, 0),
		Email:   email,
		Phone:   cellString(raw, 2),
		Subject: cellString(raw, 3),
		Status:  strings.ToUpper(cellString(raw, 4)),
		Row:     rowNum,
	}, true
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}
