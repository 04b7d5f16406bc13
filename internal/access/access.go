// Package access holds the affordance predicates gating calendar
// mutations. They take the acting user explicitly; nothing here reads
// ambient session state. The HTTP layer applies the same predicates, so
// the server is the real authorization boundary and these stay cheap
// enough to run per render.
package access

import (
	"errors"
	"time"

	"github.com/opsdash/calgrid/internal/model"
)

// ErrNotPermitted is returned when a mutation fails an access predicate.
var ErrNotPermitted = errors.New("not permitted")

// Role is the dashboard role carried by a principal.
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleManager    Role = "Manager"
	RoleEmployee   Role = "Employee"
)

// User is the acting principal, passed explicitly into every check.
type User struct {
	EmployeeID string
	Role       Role
}

// CanEdit reports whether user may modify or delete the event at instant
// now. Past events are read-only for everyone, Super Admin edits any
// live event, everyone else only their own.
func CanEdit(e *model.CalendarEvent, user User, now time.Time) bool {
	if e == nil || user.EmployeeID == "" {
		return false
	}
	if e.EffectiveEnd().Before(now) {
		return false
	}
	if user.Role == RoleSuperAdmin {
		return true
	}
	return e.OwnerEmployeeID == user.EmployeeID
}

// CanCreate reports whether the role may create events at all.
func CanCreate(role Role) bool {
	return role != RoleEmployee
}
