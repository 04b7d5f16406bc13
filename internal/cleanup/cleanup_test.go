package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/config"
	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

type purgeRecorder struct {
	storage.Store
	cutoff time.Time
	calls  int
}

func (p *purgeRecorder) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	p.calls++
	return 3, nil
}

// Store methods other than purge are never reached by the janitor.
func (p *purgeRecorder) Close() {}
func (p *purgeRecorder) ListEventsForRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	return nil, nil
}

func TestJanitorPurgesAtHorizon(t *testing.T) {
	rec := &purgeRecorder{}
	j, err := New(config.RetentionConfig{
		Enabled:  true,
		Schedule: "0 3 * * *",
		Horizon:  90 * 24 * time.Hour,
	}, rec, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	now := time.Date(2026, time.June, 1, 3, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return now }

	j.runOnce()
	if rec.calls != 1 {
		t.Fatalf("purge called %d times, want 1", rec.calls)
	}
	if want := now.Add(-90 * 24 * time.Hour); !rec.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", rec.cutoff, want)
	}
}

func TestJanitorRejectsBadSchedule(t *testing.T) {
	_, err := New(config.RetentionConfig{Schedule: "not a schedule"}, &purgeRecorder{}, zerolog.Nop())
	if err == nil {
		t.Error("New accepted an unparseable cron expression")
	}
}
