// Package schedule serves class schedules backed by the Google
// Calendar. Instructors see their own events; EMs see and edit all of
// them.
package schedule

import (
	"time"

	"github.com/lectern-app/lectern/internal/gapi"
)

// EventRequest is the create/update payload.
type EventRequest struct {
	Title      string    `json:"title" form:"title"`
	Descr      string    `json:"description" form:"description"`
	Location   string    `json:"location" form:"location"`
	Start      time.Time `json:"start" form:"start"`
	End        time.Time `json:"end" form:"end"`
	Instructor string    `json:"instructor" form:"instructor"`
}

func (r EventRequest) toEvent(id string) gapi.Event {
	return gapi.Event{
		ID:          id,
		Title:       r.Title,
		Description: r.Descr,
		Location:    r.Location,
		Start:       r.Start,
		End:         r.End,
		Instructor:  r.Instructor,
	}
}
