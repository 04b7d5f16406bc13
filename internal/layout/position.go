package layout

import (
	"github.com/opsdash/calgrid/internal/model"
)

// Block is the computed geometry for one timed event in the time grid.
// The block is absolutely positioned inside its start-hour row and spans
// its full multi-hour height from there; later rows it covers do not
// render it again.
type Block struct {
	TopOffset     float64 `json:"top_offset"`
	Height        float64 `json:"height"`
	StartHour     int     `json:"start_hour"`
	EndHour       int     `json:"end_hour"`
	CascadeOffset float64 `json:"cascade_offset"`
	ZIndex        int     `json:"z_index"`
}

// Overlaps reports whether two timed events share any part of the clock.
// Touching intervals (a ends exactly when b starts) do not overlap. The
// end-of-day sentinel is applied to both sides.
func Overlaps(a, b *model.CalendarEvent) bool {
	if a.StartTime == nil || a.EndTime == nil || b.StartTime == nil || b.EndTime == nil {
		return false
	}
	return a.StartDecimal() < b.EndDecimal() && a.EndDecimal() > b.StartDecimal()
}

// OverlappingEvents returns the members of events that overlap target,
// excluding target itself.
func OverlappingEvents(events []model.CalendarEvent, target *model.CalendarEvent) []model.CalendarEvent {
	var out []model.CalendarEvent
	for i := range events {
		if events[i].ID == target.ID {
			continue
		}
		if Overlaps(&events[i], target) {
			out = append(out, events[i])
		}
	}
	return out
}

// Position computes the vertical placement of a timed event: offset within
// its start-hour row, and total height clamped to the minimum readable
// block size.
func (m Metrics) Position(e *model.CalendarEvent) Block {
	start := e.StartDecimal()
	end := e.EndDecimal()

	var topOffset float64
	if e.StartTime != nil {
		topOffset = float64(e.StartTime.Minute) / 60 * m.HourHeight
	}

	height := (end - start) * m.HourHeight
	if height < m.MinBlockHeight {
		height = m.MinBlockHeight
	}

	endHour := int(end)
	if end == 24 {
		endHour = 23
	}

	return Block{
		TopOffset: topOffset,
		Height:    height,
		StartHour: int(start),
		EndHour:   endHour,
	}
}

// cascade returns the horizontal nudge for the index-th event of an hour
// row when it overlaps its neighbors. A deterministic per-index offset,
// not a no-overlap packing: three or more simultaneous events can still
// cover each other, which the dashboard accepts.
func (m Metrics) cascade(view View, index int, overlapping bool) float64 {
	if !overlapping || index <= 0 {
		return 0
	}
	step, max := m.DayCascadeStep, m.DayCascadeMax
	if view == ViewWeek {
		step, max = m.WeekCascadeStep, m.WeekCascadeMax
	}
	offset := float64(index) * step
	if max > 0 && offset > max {
		offset = max
	}
	return offset
}

// EventsInHour filters the timed events of one day column down to those
// occupying the given hour row.
func EventsInHour(events []model.CalendarEvent, hour int) []model.CalendarEvent {
	var out []model.CalendarEvent
	for i := range events {
		e := &events[i]
		if e.StartTime == nil || e.EndTime == nil {
			continue
		}
		if e.StartDecimal() < float64(hour+1) && e.EndDecimal() > float64(hour) {
			out = append(out, events[i])
		}
	}
	return out
}

// PositionedEvent pairs an event with its computed block geometry.
type PositionedEvent struct {
	Event model.CalendarEvent `json:"event"`
	Block Block               `json:"block"`
}

// LayoutHour computes blocks for the events that start in the given hour
// row. Cascade offsets are assigned by index within the hour's occupying
// set, mirroring the paint order of the grid.
func (m Metrics) LayoutHour(dayEvents []model.CalendarEvent, hour int, view View) []PositionedEvent {
	inHour := EventsInHour(dayEvents, hour)

	var out []PositionedEvent
	for i := range inHour {
		e := &inHour[i]
		if e.StartTime == nil || e.StartTime.Hour != hour {
			continue
		}
		block := m.Position(e)
		overlapping := len(OverlappingEvents(inHour, e)) > 0
		block.CascadeOffset = m.cascade(view, i, overlapping)
		block.ZIndex = 1 + i
		out = append(out, PositionedEvent{Event: inHour[i], Block: block})
	}
	return out
}

// LayoutDay computes blocks for every hour row of a day column.
func (m Metrics) LayoutDay(dayEvents []model.CalendarEvent, view View) []PositionedEvent {
	var out []PositionedEvent
	for hour := 0; hour < 24; hour++ {
		out = append(out, m.LayoutHour(dayEvents, hour, view)...)
	}
	return out
}
