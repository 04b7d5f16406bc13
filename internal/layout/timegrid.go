package layout

import (
	"math"

	"github.com/opsdash/calgrid/internal/model"
)

// GridGeometry describes the scrollable time grid at the moment of a
// pointer event. Top and Height come from the container's bounding box in
// viewport coordinates; HeaderHeight is the sticky day-header strip the
// week view carries inside the same scroll container (zero for day view).
type GridGeometry struct {
	Top          float64
	Height       float64
	HeaderHeight float64
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// ResolvedTime is a pointer position mapped onto the clock. Hour 24 with
// minute 0 is the end-of-day sentinel: the very bottom of the grid.
type ResolvedTime struct {
	Hour    int     `json:"hour"`
	Minute  int     `json:"minute"`
	Decimal float64 `json:"decimal"`
	Display string  `json:"display"`
}

// ResolveTime maps a viewport Y coordinate to a clock time, snapped to the
// configured increment. Monotonically non-decreasing in pointerY.
func (m Metrics) ResolveTime(g GridGeometry, pointerY float64) ResolvedTime {
	relativeY := pointerY - g.Top - g.HeaderHeight + g.ScrollTop
	if relativeY < 0 {
		relativeY = 0
	}

	totalMinutes := relativeY / m.HourHeight * 60
	snap := float64(m.SnapMinutes)
	rounded := math.Round(totalMinutes/snap) * snap

	hour := int(rounded) / 60
	minute := int(rounded) % 60

	if hour > 24 {
		hour = 24
	}
	if hour == 24 {
		minute = 0
	}

	return ResolvedTime{
		Hour:    hour,
		Minute:  minute,
		Decimal: float64(hour) + float64(minute)/60,
		Display: model.Display(hour, minute),
	}
}

// ScrollDirection is the auto-scroll decision for a dragging pointer.
type ScrollDirection int

const (
	ScrollNone ScrollDirection = 0
	ScrollUp   ScrollDirection = -1
	ScrollDown ScrollDirection = 1
)

// AutoScroll reports whether the pointer sits inside an edge zone that
// should keep the grid scrolling while a drag is in progress.
func (m Metrics) AutoScroll(g GridGeometry, pointerY float64) ScrollDirection {
	relativeY := pointerY - g.Top - g.HeaderHeight
	scrollable := g.Height - g.HeaderHeight

	maxScroll := g.ScrollHeight - g.ClientHeight
	switch {
	case relativeY < m.ScrollZone && g.ScrollTop > 0:
		return ScrollUp
	case relativeY > scrollable-m.ScrollZone && g.ScrollTop < maxScroll:
		return ScrollDown
	}
	return ScrollNone
}

// NextScrollTop advances the scroll offset one tick in the given
// direction, clamped to the scrollable range.
func (m Metrics) NextScrollTop(g GridGeometry, dir ScrollDirection) float64 {
	maxScroll := g.ScrollHeight - g.ClientHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	switch dir {
	case ScrollDown:
		return math.Min(g.ScrollTop+m.ScrollSpeed, maxScroll)
	case ScrollUp:
		return math.Max(g.ScrollTop-m.ScrollSpeed, 0)
	}
	return g.ScrollTop
}
