// Package drag resolves pointer gestures into staged time and date
// ranges. A drag never touches storage: it only pre-fills the creation
// dialog, and an invalid or accidental gesture dissolves silently.
package drag

import (
	"math"
	"time"

	"github.com/opsdash/calgrid/internal/layout"
	"github.com/opsdash/calgrid/internal/model"
)

// MinDurationMinutes is the smallest drag that opens the creation dialog.
// Anything shorter is treated as an accidental click-drag and discarded.
const MinDurationMinutes = 15

// Anchor is one end of an in-progress time-grid drag.
type Anchor struct {
	Date time.Time
	Time layout.ResolvedTime
}

// Selection is a committed time-grid drag, ready to pre-fill the
// creation dialog.
type Selection struct {
	Date  time.Time
	Start model.Clock
	End   model.Clock
}

// TimeGrid is the drag state machine for the day and week time grids.
// Idle until a valid pointer-down, Dragging until pointer-up, which
// either commits a selection or cancels. Not safe for concurrent use;
// the UI event loop is single-threaded.
type TimeGrid struct {
	metrics  layout.Metrics
	dragging bool
	start    Anchor
	end      Anchor
}

func NewTimeGrid(metrics layout.Metrics) *TimeGrid {
	return &TimeGrid{metrics: metrics}
}

func (t *TimeGrid) Dragging() bool { return t.dragging }

// slotInPast rejects dates before today, and on today any time already
// behind the clock.
func slotInPast(date time.Time, decimal float64, now time.Time) bool {
	day := model.DateOnly(date)
	today := model.DateOnly(now)
	if day.Before(today) {
		return true
	}
	if day.Equal(today) {
		nowDecimal := float64(now.Hour()) + float64(now.Minute())/60
		return decimal < nowDecimal
	}
	return false
}

// Begin starts a drag from a pointer-down, if the caller may create
// events and the slot is not in the past. canCreate is the caller's role
// capability; the machine queries it but does not derive it.
func (t *TimeGrid) Begin(date time.Time, geom layout.GridGeometry, pointerY float64, now time.Time, canCreate bool) bool {
	if !canCreate {
		return false
	}
	resolved := t.metrics.ResolveTime(geom, pointerY)
	if slotInPast(date, resolved.Decimal, now) {
		return false
	}
	t.dragging = true
	t.start = Anchor{Date: date, Time: resolved}
	t.end = t.start
	return true
}

// Move extends the drag to the current pointer position and reports
// whether the pointer sits in an auto-scroll zone. Positions that resolve
// into the past are ignored rather than cancelling; the drag keeps its
// last valid end.
func (t *TimeGrid) Move(date time.Time, geom layout.GridGeometry, pointerY float64, now time.Time) layout.ScrollDirection {
	if !t.dragging {
		return layout.ScrollNone
	}
	resolved := t.metrics.ResolveTime(geom, pointerY)
	if !slotInPast(date, resolved.Decimal, now) {
		t.end = Anchor{Date: date, Time: resolved}
	}
	return t.metrics.AutoScroll(geom, pointerY)
}

// End finishes the drag on pointer-up. It returns the staged selection
// and true when the gesture covers at least MinDurationMinutes on a
// non-past slot; otherwise the drag is discarded with no selection.
// Either way the machine returns to idle.
func (t *TimeGrid) End(now time.Time) (Selection, bool) {
	if !t.dragging {
		return Selection{}, false
	}
	start, end := t.start, t.end
	t.dragging = false

	startDecimal := math.Min(start.Time.Decimal, end.Time.Decimal)
	endDecimal := math.Max(start.Time.Decimal, end.Time.Decimal)

	if slotInPast(start.Date, startDecimal, now) {
		return Selection{}, false
	}
	if (endDecimal-startDecimal)*60 < MinDurationMinutes {
		return Selection{}, false
	}

	return Selection{
		Date:  model.DateOnly(start.Date),
		Start: model.ClockFromDecimal(startDecimal),
		End:   model.ClockFromDecimal(endDecimal),
	}, true
}

// Cancel aborts the drag without committing, e.g. on unmount.
func (t *TimeGrid) Cancel() {
	t.dragging = false
}

// InRange reports whether a grid position falls inside the current drag,
// for painting the selection overlay.
func (t *TimeGrid) InRange(date time.Time, decimal float64) bool {
	if !t.dragging {
		return false
	}
	if !model.SameDay(date, t.start.Date) {
		return false
	}
	lo := math.Min(t.start.Time.Decimal, t.end.Time.Decimal)
	hi := math.Max(t.start.Time.Decimal, t.end.Time.Decimal)
	return decimal >= lo && decimal <= hi
}
