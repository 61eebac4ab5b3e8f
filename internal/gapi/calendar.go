package gapi

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"
)

// Event is a class schedule entry, flattened from the calendar event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`

	// Instructor is the email carried in the event's attendee list;
	// empty for events with no instructor assigned yet.
	Instructor string `json:"instructor,omitempty"`
}

// Calendar wraps the schedule calendar.
type Calendar struct {
	svc        *calendar.Service
	calendarID string
}

func NewCalendar(svc *calendar.Service, calendarID string) *Calendar {
	return &Calendar{svc: svc, calendarID: calendarID}
}

// ListEvents returns single (expanded) events between from and to,
// ordered by start time.
func (c *Calendar) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	call := c.svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	var out []Event
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			out = append(out, fromCalendarEvent(item))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent inserts a new event and returns it with the assigned ID.
func (c *Calendar) CreateEvent(ctx context.Context, ev Event) (*Event, error) {
	created, err := c.svc.Events.Insert(c.calendarID, toCalendarEvent(ev)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	got := fromCalendarEvent(created)
	return &got, nil
}

// UpdateEvent replaces the event with the given ID.
func (c *Calendar) UpdateEvent(ctx context.Context, ev Event) (*Event, error) {
	updated, err := c.svc.Events.Update(c.calendarID, ev.ID, toCalendarEvent(ev)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	got := fromCalendarEvent(updated)
	return &got, nil
}

// DeleteEvent removes the event with the given ID.
func (c *Calendar) DeleteEvent(ctx context.Context, id string) error {
	return c.svc.Events.Delete(c.calendarID, id).Context(ctx).Do()
}

func fromCalendarEvent(item *calendar.Event) Event {
	ev := Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Start:       parseEventTime(item.Start),
		End:         parseEventTime(item.End),
	}
	for _, a := range item.Attendees {
		if a.Email != "" {
			ev.Instructor = a.Email
			break
		}
	}
	return ev
}

func toCalendarEvent(ev Event) *calendar.Event {
	item := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}
	if ev.Instructor != "" {
		item.Attendees = []*calendar.EventAttendee{{Email: ev.Instructor}}
	}
	return item
}

// parseEventTime handles both timed events (DateTime) and all-day
// events (Date only).
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err == nil {
			return t
		}
	}
	if edt.Date != "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}
