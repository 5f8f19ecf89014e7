package domain

import "time"

type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	ProjectID   string      `json:"projectId,omitempty"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	Location    string      `json:"location,omitempty"`
	Description string      `json:"description,omitempty"`
	Attendees   []string    `json:"attendees"`
	Status      EventStatus `json:"status"`
}

func (e *Event) EntityID() string      { return e.ID }
func (e *Event) SetEntityID(id string) { e.ID = id }

func (e *Event) Normalize() error {
	if err := firstErr(
		required("title", e.Title),
		checkStatus(&e.Status, EventScheduled, EventScheduled, EventCompleted, EventCancelled),
	); err != nil {
		return err
	}
	start, err := time.Parse(DateTimeLayout, e.Start)
	if err != nil {
		return Invalid("start", "%q is not a timestamp (want YYYY-MM-DDTHH:MM:SS)", e.Start)
	}
	end, err := time.Parse(DateTimeLayout, e.End)
	if err != nil {
		return Invalid("end", "%q is not a timestamp (want YYYY-MM-DDTHH:MM:SS)", e.End)
	}
	if end.Before(start) {
		return Invalid("end", "must not be before start")
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	return nil
}

type EventPatch struct {
	Title       *string
	ProjectID   *string
	Start       *string
	End         *string
	Location    *string
	Description *string
	Attendees   *[]string
	Status      *EventStatus
}

func (ep EventPatch) Apply(e *Event) {
	assign(&e.Title, ep.Title)
	assign(&e.ProjectID, ep.ProjectID)
	assign(&e.Start, ep.Start)
	assign(&e.End, ep.End)
	assign(&e.Location, ep.Location)
	assign(&e.Description, ep.Description)
	assign(&e.Attendees, ep.Attendees)
	assign(&e.Status, ep.Status)
}
