package view

import (
	"time"

	"github.com/opsdash/calgrid/internal/layout"
	"github.com/opsdash/calgrid/internal/model"
)

// DayColumn is one rendered day of the time grid: its header-strip
// events plus the positioned blocks of its timed events.
type DayColumn struct {
	Date   time.Time                `json:"date"`
	Header []model.CalendarEvent    `json:"header_events,omitempty"`
	Blocks []layout.PositionedEvent `json:"blocks,omitempty"`
}

// BandRow is the stacked multi-day bars above one displayed week.
type BandRow struct {
	Lanes  []layout.Lane `json:"lanes,omitempty"`
	Hidden int           `json:"hidden"`
}

// DayView is the fully computed day view.
type DayView struct {
	Column DayColumn `json:"column"`
}

// WeekView is the fully computed week view.
type WeekView struct {
	Days  [7]DayColumn `json:"days"`
	Bands BandRow      `json:"bands"`
}

// MonthWeek is one row of the month grid.
type MonthWeek struct {
	Cells [7]MonthCell `json:"cells"`
	Bands BandRow      `json:"bands"`
}

// MonthCell is a month-grid cell with its per-day derivations.
type MonthCell struct {
	layout.MonthCell
	EventCount int                   `json:"event_count"`
	Events     []model.CalendarEvent `json:"events,omitempty"`
}

// MonthView is the fully computed 6-week month grid.
type MonthView struct {
	Weeks [6]MonthWeek `json:"weeks"`
}

// BuildDayView lays out a single day column.
func BuildDayView(m layout.Metrics, events []model.CalendarEvent, date time.Time) DayView {
	return DayView{Column: buildColumn(m, events, date, layout.ViewDay)}
}

// BuildWeekView lays out the seven day columns of the week containing
// date plus the multi-day bands across them.
func BuildWeekView(m layout.Metrics, events []model.CalendarEvent, date time.Time) WeekView {
	week := layout.WeekDays(date)

	var v WeekView
	for i, day := range week {
		v.Days[i] = buildColumn(m, events, day, layout.ViewWeek)
	}
	v.Bands = buildBands(m, events, week)
	return v
}

// BuildMonthView lays out the 42-cell month grid containing date, week
// row by week row.
func BuildMonthView(m layout.Metrics, events []model.CalendarEvent, date time.Time) MonthView {
	cells := layout.MonthCells(date)

	var v MonthView
	for row := 0; row < 6; row++ {
		var week [7]time.Time
		for col := 0; col < 7; col++ {
			cell := cells[row*7+col]
			week[col] = cell.Date
			v.Weeks[row].Cells[col] = MonthCell{
				MonthCell:  cell,
				EventCount: layout.EventCountForDate(events, cell.Date),
				Events:     layout.EventsForDate(events, cell.Date),
			}
		}
		v.Weeks[row].Bands = buildBands(m, events, week)
	}
	return v
}

func buildColumn(m layout.Metrics, events []model.CalendarEvent, date time.Time, mode layout.View) DayColumn {
	dayEvents := layout.EventsForDate(events, date)
	return DayColumn{
		Date:   model.DateOnly(date),
		Header: layout.HeaderEventsForDate(events, date),
		Blocks: m.LayoutDay(dayEvents, mode),
	}
}

func buildBands(m layout.Metrics, events []model.CalendarEvent, week [7]time.Time) BandRow {
	multi := layout.MultiDayEventsForWeek(events, week)
	visible, hidden := m.CollapseLanes(layout.AllocateLanes(multi, week))
	return BandRow{Lanes: visible, Hidden: hidden}
}
