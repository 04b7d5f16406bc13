package drag

import (
	"time"

	"github.com/opsdash/calgrid/internal/model"
)

// DateRange is a committed month-grid drag: an inclusive, date-granular
// span with no time-of-day component.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MonthGrid is the date-granular drag machine for the month view. The
// pointer can travel in either direction; the resulting range is always
// the min/max of the anchor and the current cell.
type MonthGrid struct {
	dragging bool
	anchor   time.Time
	current  time.Time
}

func NewMonthGrid() *MonthGrid {
	return &MonthGrid{}
}

func (m *MonthGrid) Dragging() bool { return m.dragging }

// Begin anchors a drag on a day cell. Past dates and callers without the
// create capability are rejected.
func (m *MonthGrid) Begin(date, now time.Time, canCreate bool) bool {
	if !canCreate {
		return false
	}
	day := model.DateOnly(date)
	if day.Before(model.DateOnly(now)) {
		return false
	}
	m.dragging = true
	m.anchor = day
	m.current = day
	return true
}

// Move extends the range to the hovered cell. Past cells are ignored.
func (m *MonthGrid) Move(date, now time.Time) {
	if !m.dragging {
		return
	}
	day := model.DateOnly(date)
	if day.Before(model.DateOnly(now)) {
		return
	}
	m.current = day
}

// Range returns the normalized inclusive span of the drag so far.
func (m *MonthGrid) Range() (DateRange, bool) {
	if !m.dragging {
		return DateRange{}, false
	}
	start, end := m.anchor, m.current
	if end.Before(start) {
		start, end = end, start
	}
	return DateRange{Start: start, End: end}, true
}

// End finishes the drag; a non-empty selection commits.
func (m *MonthGrid) End() (DateRange, bool) {
	r, ok := m.Range()
	m.dragging = false
	return r, ok
}

// Cancel discards the drag.
func (m *MonthGrid) Cancel() {
	m.dragging = false
}

// Contains reports whether a day cell is inside the current selection,
// for painting the overlay.
func (m *MonthGrid) Contains(date time.Time) bool {
	r, ok := m.Range()
	if !ok {
		return false
	}
	day := model.DateOnly(date)
	return !day.Before(r.Start) && !day.After(r.End)
}
