package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/gapi"
)

// defaultWindow is the range served when the client gives none.
const defaultWindow = 28 * 24 * time.Hour

type calendarClient interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]gapi.Event, error)
	CreateEvent(ctx context.Context, ev gapi.Event) (*gapi.Event, error)
	UpdateEvent(ctx context.Context, ev gapi.Event) (*gapi.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type Service struct {
	cal calendarClient
	now func() time.Time
}

func NewService(cal calendarClient) *Service {
	return &Service{cal: cal, now: time.Now}
}

// ListEvents returns events in [from, to). Zero bounds fall back to a
// window starting now. When instructorEmail is non-empty only that
// instructor's events are returned.
func (s *Service) ListEvents(ctx context.Context, from, to time.Time, instructorEmail string) ([]gapi.Event, error) {
	if from.IsZero() {
		from = s.now()
	}
	if to.IsZero() {
		to = from.Add(defaultWindow)
	}
	if !to.After(from) {
		return nil, apperror.NewBadRequest("end of range must be after start")
	}

	events, err := s.cal.ListEvents(ctx, from, to)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing calendar events: %w", err))
	}
	if instructorEmail == "" {
		return events, nil
	}
	want := strings.ToLower(instructorEmail)
	out := events[:0]
	for _, ev := range events {
		if strings.ToLower(ev.Instructor) == want {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Service) CreateEvent(ctx context.Context, req EventRequest) (*gapi.Event, error) {
	if err := validateEvent(req); err != nil {
		return nil, err
	}
	created, err := s.cal.CreateEvent(ctx, req.toEvent(""))
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating calendar event: %w", err))
	}
	return created, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, req EventRequest) (*gapi.Event, error) {
	if id == "" {
		return nil, apperror.NewBadRequest("event id is required")
	}
	if err := validateEvent(req); err != nil {
		return nil, err
	}
	updated, err := s.cal.UpdateEvent(ctx, req.toEvent(id))
	if err != nil {
		if gapi.IsNotFound(err) {
			return nil, apperror.NewNotFound("no event with that id")
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating calendar event: %w", err))
	}
	return updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewBadRequest("event id is required")
	}
	if err := s.cal.DeleteEvent(ctx, id); err != nil {
		if gapi.IsNotFound(err) {
			return apperror.NewNotFound("no event with that id")
		}
		return apperror.NewInternal(fmt.Errorf("deleting calendar event: %w", err))
	}
	return nil
}

func validateEvent(req EventRequest) error {
	if req.Title == "" {
		return apperror.NewBadRequest("title is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return apperror.NewBadRequest("start and end are required")
	}
	if !req.End.After(req.Start) {
		return apperror.NewBadRequest("end must be after start")
	}
	return nil
}
