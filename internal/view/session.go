// Package view holds the per-client calendar session: the current view
// window, the fetched events, the drag machines, and the working copy of
// an event being edited. Layout values are derived on demand and never
// cached across refreshes.
package view

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/access"
	"github.com/opsdash/calgrid/internal/drag"
	"github.com/opsdash/calgrid/internal/layout"
	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

// Session drives one user's calendar. The acting user is fixed at
// construction and passed into every predicate; nothing is read from
// ambient state. Mutations follow a single policy: the store
// acknowledges first, local state changes after.
type Session struct {
	store   storage.Store
	logger  zerolog.Logger
	user    access.User
	metrics layout.Metrics

	TimeDrag  *drag.TimeGrid
	MonthDrag *drag.MonthGrid

	// gen orders fetches so a slow response that lost the race against
	// a newer navigation is dropped instead of clobbering fresh state.
	gen atomic.Uint64

	mu      sync.Mutex
	view    layout.View
	anchor  time.Time
	events  []model.CalendarEvent
	editing *model.CalendarEvent
}

func NewSession(store storage.Store, user access.User, metrics layout.Metrics, logger zerolog.Logger) *Session {
	return &Session{
		store:     store,
		logger:    logger,
		user:      user,
		metrics:   metrics,
		TimeDrag:  drag.NewTimeGrid(metrics),
		MonthDrag: drag.NewMonthGrid(),
		view:      layout.ViewMonth,
		anchor:    model.DateOnly(time.Now()),
	}
}

func (s *Session) User() access.User { return s.user }

func (s *Session) View() layout.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) Anchor() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// SetView switches the view mode without moving the anchor date.
func (s *Session) SetView(ctx context.Context, v layout.View) error {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Navigate moves the window by direction steps (-1 back, +1 forward) at
// the granularity of the current view.
func (s *Session) Navigate(ctx context.Context, direction int) error {
	s.mu.Lock()
	switch s.view {
	case layout.ViewDay:
		s.anchor = s.anchor.AddDate(0, 0, direction)
	case layout.ViewWeek:
		s.anchor = s.anchor.AddDate(0, 0, 7*direction)
	default:
		s.anchor = s.anchor.AddDate(0, direction, 0)
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// GoTo jumps the window to the given date.
func (s *Session) GoTo(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	s.anchor = model.DateOnly(date)
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Window is the inclusive date range the current view displays.
func (s *Session) Window() (time.Time, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WindowFor(s.view, s.anchor)
}

// WindowFor is the inclusive date range a view mode displays around an
// anchor date.
func WindowFor(v layout.View, anchor time.Time) (time.Time, time.Time) {
	switch v {
	case layout.ViewDay:
		d := model.DateOnly(anchor)
		return d, d
	case layout.ViewWeek:
		week := layout.WeekDays(anchor)
		return week[0], week[6]
	default:
		cells := layout.MonthCells(anchor)
		return cells[0].Date, cells[len(cells)-1].Date
	}
}

// Refresh fetches events for the current window. Each call supersedes
// all earlier ones: if a newer refresh started while this one was in
// flight, the stale result is discarded. A failed fetch logs and leaves
// the view empty rather than erroring the whole render.
func (s *Session) Refresh(ctx context.Context) error {
	generation := s.gen.Add(1)

	s.mu.Lock()
	start, end := WindowFor(s.view, s.anchor)
	s.mu.Unlock()

	events, err := s.store.ListEventsForRange(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).
			Time("start", start).
			Time("end", end).
			Msg("event fetch failed")
		events = nil
	}

	if s.gen.Load() != generation {
		s.logger.Debug().
			Uint64("generation", generation).
			Msg("dropping stale event fetch")
		return nil
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return err
}

// Events returns a copy of the fetched window.
func (s *Session) Events() []model.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CalendarEvent(nil), s.events...)
}

// Create validates and persists a draft, then merges the stored event
// into local state once the store has acknowledged it.
func (s *Session) Create(ctx context.Context, draft model.CalendarEvent) (*model.CalendarEvent, error) {
	if !access.CanCreate(s.user.Role) {
		return nil, access.ErrNotPermitted
	}
	draft.OwnerEmployeeID = s.user.EmployeeID
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.CreateEvent(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.events = append(s.events, *created)
	s.mu.Unlock()
	return created, nil
}

// Update applies a patch through the store and replaces the local copy
// after acknowledgment.
func (s *Session) Update(ctx context.Context, id string, patch storage.Patch, now time.Time) (*model.CalendarEvent, error) {
	existing, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(existing, s.user, now) {
		return nil, access.ErrNotPermitted
	}

	updated, err := s.store.UpdateEvent(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes an event after the store acknowledges.
func (s *Session) Delete(ctx context.Context, id string, now time.Time) error {
	existing, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanEdit(existing, s.user, now) {
		return access.ErrNotPermitted
	}

	force := s.user.Role == access.RoleSuperAdmin
	if err := s.store.DeleteEvent(ctx, id, s.user.EmployeeID, force); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// BeginEdit stages a working copy of an event for the edit dialog. The
// copy is detached; nothing changes until CommitEdit.
func (s *Session) BeginEdit(id string, now time.Time) (*model.CalendarEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID != id {
			continue
		}
		if !access.CanEdit(&s.events[i], s.user, now) {
			return nil, false
		}
		copy := s.events[i]
		s.editing = &copy
		return s.editing, true
	}
	return nil, false
}

// DiscardEdit drops the working copy.
func (s *Session) DiscardEdit() {
	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
}

// Editing returns the current working copy, if any.
func (s *Session) Editing() *model.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}
