package model

import (
	"errors"
	"time"
)

type EventType string

const (
	EventMeeting      EventType = "Meeting"
	EventSpecialDay   EventType = "SpecialDay"
	EventAnnouncement EventType = "Announcement"
)

// DayKind qualifies a SpecialDay event.
type DayKind string

const (
	DayWorking DayKind = "workingday"
	DayHoliday DayKind = "holiday"
)

// CalendarEvent is a single entry on the operations calendar. Date and
// EndDate are calendar dates (midnight in the display zone); StartTime and
// EndTime are nil for all-day entries, which render only in the header
// strip and never occupy a time-grid slot.
type CalendarEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            EventType `json:"event_type"`
	Date            time.Time `json:"date"`
	EndDate         time.Time `json:"end_date"`
	StartTime       *Clock    `json:"start_time,omitempty"`
	EndTime         *Clock    `json:"end_time,omitempty"`
	DayKind         DayKind   `json:"day_kind,omitempty"`
	Attendees       []string  `json:"attendees,omitempty"`
	Link            string    `json:"link,omitempty"`
	Agenda          string    `json:"agenda,omitempty"`
	OwnerEmployeeID string    `json:"owner_employee_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var (
	ErrTitleRequired = errors.New("title required")
	ErrDateOrder     = errors.New("end date before start date")
)

// DateOnly strips the time-of-day portion, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Normalize fills EndDate for single-day events and truncates both dates
// to midnight.
func (e *CalendarEvent) Normalize() {
	e.Date = DateOnly(e.Date)
	if e.EndDate.IsZero() {
		e.EndDate = e.Date
	} else {
		e.EndDate = DateOnly(e.EndDate)
	}
}

func (e *CalendarEvent) Validate() error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(DateOnly(e.Date)) {
		return ErrDateOrder
	}
	return nil
}

func (e *CalendarEvent) IsMultiDay() bool {
	return !e.EndDate.IsZero() && !SameDay(e.Date, e.EndDate)
}

// IsAllDay reports whether the event has no time-grid slot.
func (e *CalendarEvent) IsAllDay() bool {
	return e.StartTime == nil && e.EndTime == nil
}

// StartDecimal returns the start as a decimal hour, 0 for all-day events.
func (e *CalendarEvent) StartDecimal() float64 {
	if e.StartTime == nil {
		return 0
	}
	return e.StartTime.Decimal()
}

// EndDecimal returns the end as a decimal hour with the end-of-day
// sentinel applied: an end of 00:00 with a nonzero start means 24:00.
func (e *CalendarEvent) EndDecimal() float64 {
	if e.EndTime == nil {
		return 0
	}
	d := e.EndTime.Decimal()
	if d == 0 && e.StartDecimal() > 0 {
		return 24
	}
	return d
}

// OccursOn reports whether the event's date span covers the given day.
func (e *CalendarEvent) OccursOn(day time.Time) bool {
	d := DateOnly(day)
	end := e.EndDate
	if end.IsZero() {
		end = e.Date
	}
	return !d.Before(DateOnly(e.Date)) && !d.After(DateOnly(end))
}

// EffectiveEnd is the instant the event is over: end date plus end time,
// or the last moment of the end date when no end time is set.
func (e *CalendarEvent) EffectiveEnd() time.Time {
	end := e.EndDate
	if end.IsZero() {
		end = e.Date
	}
	end = DateOnly(end)
	if e.EndTime != nil {
		if e.EndDecimal() == 24 {
			return end.AddDate(0, 0, 1)
		}
		return end.Add(time.Duration(e.EndTime.Hour)*time.Hour + time.Duration(e.EndTime.Minute)*time.Minute)
	}
	return end.Add(24*time.Hour - time.Millisecond)
}
