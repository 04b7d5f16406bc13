// Package layout computes on-screen geometry for calendar views: pointer
// position to clock time, block placement in the day/week time grid, and
// lane allocation for multi-day bars. Everything here is pure; callers
// re-run it on every render.
package layout

import "errors"

// Metrics holds the pixel constants the grid is drawn with. Defaults match
// the dashboard stylesheet; they are configurable so alternate densities
// can reuse the same math.
type Metrics struct {
	// HourHeight is the pixel height of one hour row.
	HourHeight float64 `yaml:"hour_height"`
	// MinBlockHeight keeps short events readable.
	MinBlockHeight float64 `yaml:"min_block_height"`
	// SnapMinutes is the drag-selection rounding increment.
	SnapMinutes int `yaml:"snap_minutes"`

	// Cascade steps for overlapping blocks, per view. The day column is
	// wide enough to go uncapped further than the narrow week columns.
	DayCascadeStep  float64 `yaml:"day_cascade_step"`
	DayCascadeMax   float64 `yaml:"day_cascade_max"`
	WeekCascadeStep float64 `yaml:"week_cascade_step"`
	WeekCascadeMax  float64 `yaml:"week_cascade_max"`

	// LaneHeight is the vertical step between stacked multi-day bars.
	LaneHeight float64 `yaml:"lane_height"`
	// MaxVisibleLanes caps the stacked bars before the rest collapse
	// behind a "+N more" toggle.
	MaxVisibleLanes int `yaml:"max_visible_lanes"`

	// ScrollZone is the distance from a grid edge, in pixels, inside
	// which a drag triggers auto-scroll; ScrollSpeed is pixels per tick.
	ScrollZone  float64 `yaml:"scroll_zone"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
}

func DefaultMetrics() Metrics {
	return Metrics{
		HourHeight:      64,
		MinBlockHeight:  20,
		SnapMinutes:     15,
		DayCascadeStep:  60,
		DayCascadeMax:   180,
		WeekCascadeStep: 13,
		WeekCascadeMax:  40,
		LaneHeight:      28,
		MaxVisibleLanes: 2,
		ScrollZone:      100,
		ScrollSpeed:     8,
	}
}

// Validate rejects metric sets the grid math cannot work with.
func (m Metrics) Validate() error {
	if m.HourHeight <= 0 {
		return errors.New("layout: hour height must be positive")
	}
	if m.SnapMinutes <= 0 || 60%m.SnapMinutes != 0 {
		return errors.New("layout: snap minutes must evenly divide an hour")
	}
	if m.MaxVisibleLanes < 1 {
		return errors.New("layout: at least one visible lane required")
	}
	return nil
}

// View selects which grid the geometry is computed for.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)
