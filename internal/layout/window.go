package layout

import (
	"time"

	"github.com/opsdash/calgrid/internal/model"
)

// WeekDays returns the Sunday-started week containing d.
func WeekDays(d time.Time) [7]time.Time {
	start := model.DateOnly(d).AddDate(0, 0, -int(d.Weekday()))
	var week [7]time.Time
	for i := range week {
		week[i] = start.AddDate(0, 0, i)
	}
	return week
}

// MonthCell is one cell of the 6x7 month grid.
type MonthCell struct {
	Date           time.Time `json:"date"`
	InCurrentMonth bool      `json:"in_current_month"`
}

// MonthCells builds the 42-cell month grid for the month containing d,
// padded with trailing days of the previous month and leading days of the
// next one.
func MonthCells(d time.Time) []MonthCell {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	cells := make([]MonthCell, 0, 42)
	for i := lead; i > 0; i-- {
		cells = append(cells, MonthCell{Date: first.AddDate(0, 0, -i)})
	}
	for day := 0; day < daysInMonth; day++ {
		cells = append(cells, MonthCell{Date: first.AddDate(0, 0, day), InCurrentMonth: true})
	}
	for i := 1; len(cells) < 42; i++ {
		cells = append(cells, MonthCell{Date: first.AddDate(0, 1, i-1)})
	}
	return cells
}

// EventsForDate returns every event whose date span covers the day.
func EventsForDate(events []model.CalendarEvent, day time.Time) []model.CalendarEvent {
	var out []model.CalendarEvent
	for i := range events {
		if events[i].OccursOn(day) {
			out = append(out, events[i])
		}
	}
	return out
}

// HeaderEventsForDate returns the events shown in the all-day header
// strip of a day column: single-day events without a time slot, plus any
// multi-day event covering the day.
func HeaderEventsForDate(events []model.CalendarEvent, day time.Time) []model.CalendarEvent {
	var out []model.CalendarEvent
	for i := range events {
		e := &events[i]
		switch {
		case e.IsMultiDay():
			if e.OccursOn(day) {
				out = append(out, events[i])
			}
		case e.IsAllDay():
			if model.SameDay(e.Date, day) {
				out = append(out, events[i])
			}
		}
	}
	return out
}

// EventCountForDate is the badge count shown on month cells.
func EventCountForDate(events []model.CalendarEvent, day time.Time) int {
	return len(EventsForDate(events, day))
}
