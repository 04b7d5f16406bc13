package drag

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthDragForward(t *testing.T) {
	mg := NewMonthGrid()
	if !mg.Begin(day(12), now, true) {
		t.Fatal("Begin rejected a future date")
	}
	mg.Move(day(15), now)
	r, ok := mg.End()
	if !ok {
		t.Fatal("drag did not commit")
	}
	if !r.Start.Equal(day(12)) || !r.End.Equal(day(15)) {
		t.Errorf("range = %v..%v, want Mar 12..Mar 15", r.Start, r.End)
	}
}

func TestMonthDragBackwardNormalizes(t *testing.T) {
	mg := NewMonthGrid()
	mg.Begin(day(15), now, true)
	mg.Move(day(12), now)
	r, ok := mg.End()
	if !ok {
		t.Fatal("drag did not commit")
	}
	if !r.Start.Equal(day(12)) || !r.End.Equal(day(15)) {
		t.Errorf("backward range = %v..%v, want Mar 12..Mar 15", r.Start, r.End)
	}
}

func TestMonthDragSingleDay(t *testing.T) {
	mg := NewMonthGrid()
	mg.Begin(day(12), now, true)
	r, ok := mg.End()
	if !ok {
		t.Fatal("single-cell drag did not commit")
	}
	if !r.Start.Equal(r.End) {
		t.Errorf("range = %v..%v, want single day", r.Start, r.End)
	}
}

func TestMonthDragRejections(t *testing.T) {
	t.Run("past date", func(t *testing.T) {
		mg := NewMonthGrid()
		if mg.Begin(day(9), now, true) {
			t.Error("Begin accepted a past date")
		}
	})
	t.Run("today ok", func(t *testing.T) {
		mg := NewMonthGrid()
		if !mg.Begin(day(10), now, true) {
			t.Error("Begin rejected today")
		}
	})
	t.Run("no create capability", func(t *testing.T) {
		mg := NewMonthGrid()
		if mg.Begin(day(12), now, false) {
			t.Error("Begin accepted without create capability")
		}
	})
	t.Run("move over past cell ignored", func(t *testing.T) {
		mg := NewMonthGrid()
		mg.Begin(day(12), now, true)
		mg.Move(day(9), now)
		r, _ := mg.End()
		if !r.Start.Equal(day(12)) || !r.End.Equal(day(12)) {
			t.Errorf("range = %v..%v, want Mar 12 only", r.Start, r.End)
		}
	})
	t.Run("end without begin", func(t *testing.T) {
		mg := NewMonthGrid()
		if _, ok := mg.End(); ok {
			t.Error("End committed with no drag")
		}
	})
}

func TestMonthDragContains(t *testing.T) {
	mg := NewMonthGrid()
	mg.Begin(day(12), now, true)
	mg.Move(day(14), now)

	if !mg.Contains(day(13)) {
		t.Error("Contains(Mar 13) = false, want true")
	}
	if mg.Contains(day(15)) {
		t.Error("Contains(Mar 15) = true, want false")
	}
	mg.Cancel()
	if mg.Contains(day(13)) {
		t.Error("Contains after Cancel = true, want false")
	}
}
