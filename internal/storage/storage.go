package storage

import (
	"context"
	"errors"
	"time"

	"github.com/opsdash/calgrid/internal/model"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("requesting employee may not delete this event")
)

// Patch carries the updatable fields of an event. Nil pointers leave the
// stored value untouched; ClearStartTime/ClearEndTime drop a time slot,
// turning the event all-day.
type Patch struct {
	Title          *string          `json:"title,omitempty"`
	Type           *model.EventType `json:"event_type,omitempty"`
	Date           *time.Time       `json:"date,omitempty"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
	StartTime      *model.Clock     `json:"start_time,omitempty"`
	EndTime        *model.Clock     `json:"end_time,omitempty"`
	ClearStartTime bool             `json:"clear_start_time,omitempty"`
	ClearEndTime   bool             `json:"clear_end_time,omitempty"`
	DayKind        *model.DayKind   `json:"day_kind,omitempty"`
	Attendees      *[]string        `json:"attendees,omitempty"`
	Link           *string          `json:"link,omitempty"`
	Agenda         *string          `json:"agenda,omitempty"`
}

// Store is the calendar-data collaborator. Implementations own
// persistence entirely; callers treat events as immutable values and go
// through UpdateEvent for every change.
type Store interface {
	Close()

	// ListEventsForRange returns events whose date span intersects
	// [start, end], both inclusive calendar dates.
	ListEventsForRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error)
	GetEvent(ctx context.Context, id string) (*model.CalendarEvent, error)
	CreateEvent(ctx context.Context, draft model.CalendarEvent) (*model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, patch Patch) (*model.CalendarEvent, error)
	// DeleteEvent removes an event. requestingEmployeeID must match the
	// owner unless force is set (the API layer sets force for Super
	// Admin after its own access check).
	DeleteEvent(ctx context.Context, id, requestingEmployeeID string, force bool) error

	// PurgeEventsBefore deletes events whose span ended before cutoff,
	// returning how many were removed.
	PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Apply copies the patch onto an event value.
func (p Patch) Apply(e *model.CalendarEvent) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Date != nil {
		e.Date = model.DateOnly(*p.Date)
	}
	if p.EndDate != nil {
		e.EndDate = model.DateOnly(*p.EndDate)
	}
	if p.StartTime != nil {
		c := *p.StartTime
		e.StartTime = &c
	} else if p.ClearStartTime {
		e.StartTime = nil
	}
	if p.EndTime != nil {
		c := *p.EndTime
		e.EndTime = &c
	} else if p.ClearEndTime {
		e.EndTime = nil
	}
	if p.DayKind != nil {
		e.DayKind = *p.DayKind
	}
	if p.Attendees != nil {
		e.Attendees = append([]string(nil), (*p.Attendees)...)
	}
	if p.Link != nil {
		e.Link = *p.Link
	}
	if p.Agenda != nil {
		e.Agenda = *p.Agenda
	}
}
