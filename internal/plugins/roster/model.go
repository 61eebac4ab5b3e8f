// Package roster exposes the EM-facing view of the roster spreadsheet:
// the instructor list and the applicant pipeline. Credentials never
// leave this package; the PIN column is read by the directory package
// only.
package roster

import "github.com/lectern-app/lectern/internal/token"

// Instructor is one roster row as shown to EMs.
type Instructor struct {
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  token.Role `json:"role"`
	Row   int        `json:"row"`
}

// Applicant is one row of the applicant pipeline tab.
type Applicant struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
	Row     int    `json:"row"`
}

// Applicant statuses as used in the sheet. Free text historically; the
// update endpoint only accepts these.
const (
	StatusApplied     = "APPLIED"
	StatusInterviewed = "INTERVIEWED"
	StatusHired       = "HIRED"
	StatusRejected    = "REJECTED"
)

func validStatus(s string) bool {
	switch s {
	case StatusApplied, StatusInterviewed, StatusHired, StatusRejected:
		return true
	}
	return false
}

// UpdateStatusRequest changes an applicant's pipeline status.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
}
