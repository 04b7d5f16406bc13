package layout

import (
	"sort"
	"time"

	"github.com/opsdash/calgrid/internal/model"
)

// Segment is the column span of a multi-day event within a displayed
// week. Columns are clipped to the visible range: an event starting before
// the week begins at column 0, one running past it ends at column 6.
type Segment struct {
	StartCol int  `json:"start_col"`
	EndCol   int  `json:"end_col"`
	Width    int  `json:"width"`
	IsStart  bool `json:"is_start"`
	IsEnd    bool `json:"is_end"`
}

// SegmentForWeek computes the visible span of an event across the seven
// day columns of week.
func SegmentForWeek(e *model.CalendarEvent, week [7]time.Time) Segment {
	start := model.DateOnly(e.Date)
	end := e.EndDate
	if end.IsZero() {
		end = e.Date
	}
	end = model.DateOnly(end)

	startCol, endCol := -1, -1
	for i, day := range week {
		d := model.DateOnly(day)
		if startCol == -1 && !d.Before(start) {
			startCol = i
		}
		if !d.After(end) {
			endCol = i
		}
	}
	if startCol == -1 {
		startCol = 0
	}
	if endCol == -1 {
		endCol = 6
	}

	return Segment{
		StartCol: startCol,
		EndCol:   endCol,
		Width:    endCol - startCol + 1,
		IsStart:  !start.Before(model.DateOnly(week[0])),
		IsEnd:    !end.After(model.DateOnly(week[6])),
	}
}

// MultiDayEventsForWeek returns the events spanning more than one day
// whose date range intersects the given week.
func MultiDayEventsForWeek(events []model.CalendarEvent, week [7]time.Time) []model.CalendarEvent {
	weekStart := model.DateOnly(week[0])
	weekEnd := model.DateOnly(week[6])

	var out []model.CalendarEvent
	for i := range events {
		e := &events[i]
		if !e.IsMultiDay() {
			continue
		}
		if !model.DateOnly(e.Date).After(weekEnd) && !model.DateOnly(e.EndDate).Before(weekStart) {
			out = append(out, events[i])
		}
	}
	return out
}

// Lane is the placement of one multi-day bar.
type Lane struct {
	Event   model.CalendarEvent `json:"event"`
	Segment Segment             `json:"segment"`
	Index   int                 `json:"lane"`
}

// AllocateLanes stacks multi-day bars so that bars sharing day columns
// never share a lane. Bars are placed left to right, wider bars first on
// ties, each into the lowest lane whose occupants it does not collide
// with. The sort order is load-bearing: it keeps bar placement stable
// across renders, so it must not change.
func AllocateLanes(events []model.CalendarEvent, week [7]time.Time) []Lane {
	lanes := make([]Lane, len(events))
	for i := range events {
		lanes[i] = Lane{Event: events[i], Segment: SegmentForWeek(&events[i], week)}
	}

	sort.SliceStable(lanes, func(a, b int) bool {
		if lanes[a].Segment.StartCol != lanes[b].Segment.StartCol {
			return lanes[a].Segment.StartCol < lanes[b].Segment.StartCol
		}
		return lanes[a].Segment.Width > lanes[b].Segment.Width
	})

	var occupied [][]Segment
	for i := range lanes {
		seg := lanes[i].Segment
		placed := false
		for lane := 0; !placed; lane++ {
			if lane == len(occupied) {
				occupied = append(occupied, nil)
			}
			free := true
			for _, other := range occupied[lane] {
				if !(seg.EndCol < other.StartCol || seg.StartCol > other.EndCol) {
					free = false
					break
				}
			}
			if free {
				occupied[lane] = append(occupied[lane], seg)
				lanes[i].Index = lane
				placed = true
			}
		}
	}
	return lanes
}

// LaneOffset maps a lane index to its vertical pixel offset.
func (m Metrics) LaneOffset(lane int) float64 {
	return float64(lane) * m.LaneHeight
}

// CollapseLanes splits an allocation into the bars that fit the visible
// lane cap and the count hidden behind the "+N more" toggle.
func (m Metrics) CollapseLanes(lanes []Lane) (visible []Lane, hidden int) {
	for _, l := range lanes {
		if l.Index < m.MaxVisibleLanes {
			visible = append(visible, l)
		} else {
			hidden++
		}
	}
	return visible, hidden
}
