package gapi

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// Sheet is a thin handle on one spreadsheet. The roster directory and the
// roster/settlement plugins consume it through their own narrow
// interfaces, so tests can substitute fakes.
type Sheet struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheet creates a handle bound to the given spreadsheet.
func NewSheet(svc *sheets.Service, spreadsheetID string) *Sheet {
	return &Sheet{svc: svc, spreadsheetID: spreadsheetID}
}

// ReadRange returns the cell values of an A1-notation range. Trailing
// empty cells are absent from each row, per the Sheets API contract.
func (s *Sheet) ReadRange(ctx context.Context, rangeA1 string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", rangeA1, err)
	}
	return resp.Values, nil
}

// UpdateCell overwrites a single cell, given in A1 notation.
func (s *Sheet) UpdateCell(ctx context.Context, cellA1 string, value interface{}) error {
	body := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, cellA1, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating cell %s: %w", cellA1, err)
	}
	return nil
}
