package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "calgrid.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func day(d int) time.Time {
	return time.Date(2026, time.April, d, 0, 0, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, s *Store, draft model.CalendarEvent) *model.CalendarEvent {
	t.Helper()
	created, err := s.CreateEvent(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return created
}

func TestCreateAndGetEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := model.Clock{Hour: 9}
	end := model.Clock{Hour: 10, Minute: 30}
	created := mustCreate(t, s, model.CalendarEvent{
		Title: "Quarterly review", Type: model.EventMeeting,
		Date: day(6), EndDate: day(6),
		StartTime: &start, EndTime: &end,
		Attendees:       []string{"bob@example.com", "e4411"},
		Link:            "https://meet.example.com/review",
		Agenda:          "Numbers, then questions",
		OwnerEmployeeID: "alice",
	})
	if created.ID == "" {
		t.Fatal("created event has no id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("created event has zero timestamps")
	}

	got, err := s.GetEvent(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.Title != "Quarterly review" || got.Type != model.EventMeeting {
		t.Errorf("round trip lost title/type: %q %q", got.Title, got.Type)
	}
	if !got.Date.Equal(day(6)) || !got.EndDate.Equal(day(6)) {
		t.Errorf("round trip dates = %v / %v", got.Date, got.EndDate)
	}
	if got.StartTime == nil || *got.StartTime != start {
		t.Errorf("StartTime = %v, want %v", got.StartTime, start)
	}
	if got.EndTime == nil || *got.EndTime != end {
		t.Errorf("EndTime = %v, want %v", got.EndTime, end)
	}
	if !reflect.DeepEqual(got.Attendees, []string{"bob@example.com", "e4411"}) {
		t.Errorf("Attendees = %v", got.Attendees)
	}
	if got.Link != "https://meet.example.com/review" || got.Agenda != "Numbers, then questions" {
		t.Errorf("round trip lost link/agenda: %q %q", got.Link, got.Agenda)
	}
	if got.OwnerEmployeeID != "alice" {
		t.Errorf("OwnerEmployeeID = %q", got.OwnerEmployeeID)
	}

	if _, err := s.GetEvent(ctx, "no-such-id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetEvent(missing) = %v, want ErrNotFound", err)
	}
}

func TestCreateAllDayEvent(t *testing.T) {
	s := newTestStore(t)

	created := mustCreate(t, s, model.CalendarEvent{
		Title: "Founders Day", Type: model.EventSpecialDay,
		Date: day(12), EndDate: day(13),
		DayKind:         model.DayHoliday,
		OwnerEmployeeID: "alice",
	})

	got, err := s.GetEvent(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.StartTime != nil || got.EndTime != nil {
		t.Errorf("all-day event came back with times: %v %v", got.StartTime, got.EndTime)
	}
	if got.DayKind != model.DayHoliday {
		t.Errorf("DayKind = %q, want %q", got.DayKind, model.DayHoliday)
	}
	if !got.IsMultiDay() {
		t.Error("two-day span not recognized as multi-day")
	}
}

func TestUpdateEventPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := model.Clock{Hour: 9}
	end := model.Clock{Hour: 10}
	created := mustCreate(t, s, model.CalendarEvent{
		Title: "Standup", Type: model.EventMeeting,
		Date: day(6), EndDate: day(6),
		StartTime: &start, EndTime: &end,
		OwnerEmployeeID: "alice",
	})

	title := "Extended standup"
	newEnd := model.Clock{Hour: 11, Minute: 15}
	updated, err := s.UpdateEvent(ctx, created.ID, storage.Patch{
		Title:   &title,
		EndTime: &newEnd,
	})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Title != title {
		t.Errorf("Title = %q, want %q", updated.Title, title)
	}
	if updated.EndTime == nil || *updated.EndTime != newEnd {
		t.Errorf("EndTime = %v, want %v", updated.EndTime, newEnd)
	}
	if updated.StartTime == nil || *updated.StartTime != start {
		t.Errorf("untouched StartTime changed: %v", updated.StartTime)
	}

	// Dropping both clocks turns the event all-day, and the change must
	// survive a fresh read, not just live on the returned value.
	if _, err := s.UpdateEvent(ctx, created.ID, storage.Patch{
		ClearStartTime: true,
		ClearEndTime:   true,
	}); err != nil {
		t.Fatalf("UpdateEvent(clear): %v", err)
	}
	got, err := s.GetEvent(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.StartTime != nil || got.EndTime != nil {
		t.Errorf("cleared times persisted as %v / %v", got.StartTime, got.EndTime)
	}

	empty := ""
	if _, err := s.UpdateEvent(ctx, created.ID, storage.Patch{Title: &empty}); !errors.Is(err, model.ErrTitleRequired) {
		t.Errorf("UpdateEvent(empty title) = %v, want ErrTitleRequired", err)
	}
	if _, err := s.UpdateEvent(ctx, "no-such-id", storage.Patch{Title: &title}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateEvent(missing) = %v, want ErrNotFound", err)
	}
}

func TestListEventsForRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, model.CalendarEvent{
		Title: "Kickoff", Type: model.EventMeeting,
		Date: day(1), EndDate: day(1), OwnerEmployeeID: "alice",
	})
	mustCreate(t, s, model.CalendarEvent{
		Title: "Offsite", Type: model.EventMeeting,
		Date: day(5), EndDate: day(7), OwnerEmployeeID: "alice",
	})
	mustCreate(t, s, model.CalendarEvent{
		Title: "Retro", Type: model.EventMeeting,
		Date: day(20), EndDate: day(20), OwnerEmployeeID: "alice",
	})

	titles := func(start, end time.Time) []string {
		t.Helper()
		events, err := s.ListEventsForRange(ctx, start, end)
		if err != nil {
			t.Fatalf("ListEventsForRange: %v", err)
		}
		var out []string
		for _, e := range events {
			out = append(out, e.Title)
		}
		return out
	}

	// A span overlapping the window counts even when neither endpoint
	// falls inside it.
	if got := titles(day(6), day(6)); !reflect.DeepEqual(got, []string{"Offsite"}) {
		t.Errorf("mid-span window = %v", got)
	}
	if got := titles(day(1), day(20)); !reflect.DeepEqual(got, []string{"Kickoff", "Offsite", "Retro"}) {
		t.Errorf("full window = %v", got)
	}
	if got := titles(day(8), day(10)); got != nil {
		t.Errorf("empty window = %v", got)
	}
	// Inclusive boundaries on both sides.
	if got := titles(day(7), day(7)); !reflect.DeepEqual(got, []string{"Offsite"}) {
		t.Errorf("end-date boundary = %v", got)
	}
}

func TestDeleteEventOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, s, model.CalendarEvent{
		Title: "Planning", Type: model.EventMeeting,
		Date: day(6), EndDate: day(6), OwnerEmployeeID: "alice",
	})

	if err := s.DeleteEvent(ctx, created.ID, "mallory", false); !errors.Is(err, storage.ErrForbidden) {
		t.Fatalf("DeleteEvent(non-owner) = %v, want ErrForbidden", err)
	}
	if _, err := s.GetEvent(ctx, created.ID); err != nil {
		t.Fatalf("forbidden delete removed the event: %v", err)
	}

	if err := s.DeleteEvent(ctx, created.ID, "alice", false); err != nil {
		t.Fatalf("DeleteEvent(owner) = %v", err)
	}
	if _, err := s.GetEvent(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetEvent after delete = %v, want ErrNotFound", err)
	}

	other := mustCreate(t, s, model.CalendarEvent{
		Title: "Townhall", Type: model.EventAnnouncement,
		Date: day(6), EndDate: day(6), OwnerEmployeeID: "alice",
	})
	if err := s.DeleteEvent(ctx, other.ID, "admin", true); err != nil {
		t.Fatalf("DeleteEvent(force) = %v", err)
	}

	if err := s.DeleteEvent(ctx, "no-such-id", "alice", true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteEvent(missing) = %v, want ErrNotFound", err)
	}
}

func TestPurgeEventsBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, model.CalendarEvent{
		Title: "Old", Type: model.EventMeeting,
		Date: day(2), EndDate: day(3), OwnerEmployeeID: "alice",
	})
	kept := mustCreate(t, s, model.CalendarEvent{
		Title: "Recent", Type: model.EventMeeting,
		Date: day(10), EndDate: day(10), OwnerEmployeeID: "alice",
	})

	n, err := s.PurgeEventsBefore(ctx, day(5))
	if err != nil {
		t.Fatalf("PurgeEventsBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d events, want 1", n)
	}
	if _, err := s.GetEvent(ctx, kept.ID); err != nil {
		t.Errorf("purge removed an event still inside the horizon: %v", err)
	}
}
