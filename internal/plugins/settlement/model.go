// Package settlement serves the monthly settlement ledger kept in the
// spreadsheet. Instructors see their own rows, EMs everyone's.
package settlement

// Row is one settlement line.
type Row struct {
	Month      string  `json:"month"`
	Instructor string  `json:"instructor"`
	Classes    int     `json:"classes"`
	Hours      float64 `json:"hours"`
	Amount     int64   `json:"amount"`
	Status     string  `json:"status"`

	// SheetRow is the 1-based row in the ledger tab.
	SheetRow int `json:"sheet_row"`
}

// Ledger statuses. The sheet is hand-edited, values are normalized on
// read and anything unrecognized is passed through as-is.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Summary aggregates the rows returned by a query.
type Summary struct {
	Rows        []Row `json:"rows"`
	TotalAmount int64 `json:"total_amount"`
}
