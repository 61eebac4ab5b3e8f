// Package gapi wraps the Google Workspace APIs Lectern delegates to:
// Sheets (roster and settlement ledger), Calendar (class schedules),
// Drive (document downloads), and Gmail (authorized mail send). The
// wrappers are deliberately thin -- narrow interfaces over the generated
// clients so the plugins that consume them can be tested with fakes.
package gapi

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/lectern-app/lectern/internal/config"
)

// Services bundles the service-account backed Google API clients.
type Services struct {
	Sheets   *sheets.Service
	Calendar *calendar.Service
	Drive    *drive.Service
}

// NewServices builds Sheets, Calendar, and Drive clients from the
// service-account credentials file in cfg.
func NewServices(ctx context.Context, cfg config.GoogleConfig) (*Services, error) {
	creds := option.WithCredentialsFile(cfg.CredentialsFile)

	sheetsSvc, err := sheets.NewService(ctx, creds, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	calendarSvc, err := calendar.NewService(ctx, creds, option.WithScopes(calendar.CalendarScope))
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, creds, option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}

	return &Services{
		Sheets:   sheetsSvc,
		Calendar: calendarSvc,
		Drive:    driveSvc,
	}, nil
}
