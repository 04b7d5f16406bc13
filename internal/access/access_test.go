package access

import (
	"testing"
	"time"

	"github.com/opsdash/calgrid/internal/model"
)

func clock(h, m int) *model.Clock { return &model.Clock{Hour: h, Minute: m} }

func TestCanEdit(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	future := model.CalendarEvent{
		ID: "ev", Title: "planning",
		Date: today, EndDate: today,
		StartTime: clock(14, 0), EndTime: clock(15, 0),
		OwnerEmployeeID: "alice",
	}
	past := future
	past.StartTime = clock(9, 0)
	past.EndTime = clock(10, 0)

	endsAtMidnight := future
	endsAtMidnight.StartTime = clock(23, 0)
	endsAtMidnight.EndTime = clock(0, 0)

	allDayToday := model.CalendarEvent{
		ID: "ad", Title: "offsite",
		Date: today, EndDate: today,
		OwnerEmployeeID: "alice",
	}

	tests := []struct {
		name  string
		event model.CalendarEvent
		user  User
		want  bool
	}{
		{name: "owner edits own future event", event: future, user: User{"alice", RoleManager}, want: true},
		{name: "non-owner cannot edit", event: future, user: User{"bob", RoleManager}, want: false},
		{name: "super admin edits anything live", event: future, user: User{"bob", RoleSuperAdmin}, want: true},
		{name: "past event read-only for owner", event: past, user: User{"alice", RoleManager}, want: false},
		{name: "past event read-only even for super admin", event: past, user: User{"bob", RoleSuperAdmin}, want: false},
		{name: "sentinel end keeps event live all day", event: endsAtMidnight, user: User{"alice", RoleManager}, want: true},
		{name: "all-day event live until end of day", event: allDayToday, user: User{"alice", RoleManager}, want: true},
		{name: "missing employee id", event: future, user: User{"", RoleSuperAdmin}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEdit(&tt.event, tt.user, now); got != tt.want {
				t.Errorf("CanEdit = %v, want %v", got, tt.want)
			}
		})
	}

	if CanEdit(nil, User{"alice", RoleSuperAdmin}, now) {
		t.Error("CanEdit(nil) = true, want false")
	}
}

func TestCanEditPastDayAllDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	e := model.CalendarEvent{ID: "y", Title: "done", Date: yesterday, EndDate: yesterday, OwnerEmployeeID: "alice"}
	if CanEdit(&e, User{"alice", RoleSuperAdmin}, now) {
		t.Error("yesterday's event editable, want read-only")
	}
}

func TestCanCreate(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSuperAdmin, true},
		{RoleManager, true},
		{RoleEmployee, false},
		{Role("Project Head"), true},
	}
	for _, tt := range tests {
		if got := CanCreate(tt.role); got != tt.want {
			t.Errorf("CanCreate(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
