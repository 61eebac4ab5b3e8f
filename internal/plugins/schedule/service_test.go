package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/gapi"
)

type fakeCalendar struct {
	events  []gapi.Event
	deleted []string

	gotFrom, gotTo time.Time
}

func (f *fakeCalendar) ListEvents(_ context.Context, from, to time.Time) ([]gapi.Event, error) {
	f.gotFrom, f.gotTo = from, to
	return f.events, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, ev gapi.Event) (*gapi.Event, error) {
	ev.ID = "created-1"
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, ev gapi.Event) (*gapi.Event, error) {
	return &ev, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func classEvent(id, instructor string) gapi.Event {
	return gapi.Event{
		ID:         id,
		Title:      "Class",
		Start:      baseTime,
		End:        baseTime.Add(time.Hour),
		Instructor: instructor,
	}
}

func TestListEventsFiltersByInstructor(t *testing.T) {
	cal := &fakeCalendar{events: []gapi.Event{
		classEvent("a", "kim@example.com"),
		classEvent("b", "lee@example.com"),
		classEvent("c", "Kim@Example.com"),
		classEvent("d", ""),
	}}
	svc := NewService(cal)

	events, err := svc.ListEvents(context.Background(), baseTime, baseTime.Add(24*time.Hour), "kim@example.com")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (case-insensitive match)", len(events))
	}
	if events[0].ID != "a" || events[1].ID != "c" {
		t.Errorf("got ids %s,%s", events[0].ID, events[1].ID)
	}
}

func TestListEventsNoFilterReturnsAll(t *testing.T) {
	cal := &fakeCalendar{events: []gapi.Event{
		classEvent("a", "kim@example.com"),
		classEvent("b", ""),
	}}
	svc := NewService(cal)

	events, err := svc.ListEvents(context.Background(), baseTime, baseTime.Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestListEventsDefaultWindow(t *testing.T) {
	cal := &fakeCalendar{}
	svc := NewService(cal)
	svc.now = func() time.Time { return baseTime }

	if _, err := svc.ListEvents(context.Background(), time.Time{}, time.Time{}, ""); err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if !cal.gotFrom.Equal(baseTime) {
		t.Errorf("from = %v, want %v", cal.gotFrom, baseTime)
	}
	if !cal.gotTo.Equal(baseTime.Add(defaultWindow)) {
		t.Errorf("to = %v, want %v", cal.gotTo, baseTime.Add(defaultWindow))
	}
}

func TestListEventsInvertedRange(t *testing.T) {
	svc := NewService(&fakeCalendar{})

	_, err := svc.ListEvents(context.Background(), baseTime, baseTime.Add(-time.Hour), "")
	if apperror.SafeCode(err) != 400 {
		t.Errorf("inverted range = %v, want 400", err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewService(&fakeCalendar{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  EventRequest
	}{
		{"missing title", EventRequest{Start: baseTime, End: baseTime.Add(time.Hour)}},
		{"missing times", EventRequest{Title: "Class"}},
		{"end before start", EventRequest{Title: "Class", Start: baseTime, End: baseTime.Add(-time.Hour)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateEvent(ctx, tt.req); apperror.SafeCode(err) != 400 {
				t.Errorf("got %v, want 400", err)
			}
		})
	}
}

func TestCreateEvent(t *testing.T) {
	cal := &fakeCalendar{}
	svc := NewService(cal)

	created, err := svc.CreateEvent(context.Background(), EventRequest{
		Title:      "Algebra",
		Start:      baseTime,
		End:        baseTime.Add(time.Hour),
		Instructor: "kim@example.com",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.ID != "created-1" || created.Instructor != "kim@example.com" {
		t.Errorf("got %+v", created)
	}
}

func TestDeleteEvent(t *testing.T) {
	cal := &fakeCalendar{}
	svc := NewService(cal)

	if err := svc.DeleteEvent(context.Background(), "ev-9"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if len(cal.deleted) != 1 || cal.deleted[0] != "ev-9" {
		t.Errorf("deleted = %v", cal.deleted)
	}

	if err := svc.DeleteEvent(context.Background(), ""); apperror.SafeCode(err) != 400 {
		t.Errorf("empty id = %v, want 400", err)
	}
}
