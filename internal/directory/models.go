package directory

import "github.com/opsdash/calgrid/internal/access"

// Employee is a directory entry as the dashboard sees it: a stable ID
// for ownership checks, display fields for pickers, and the role the
// access predicates run on.
type Employee struct {
	EmployeeID  string      `json:"employee_id"`
	DN          string      `json:"-"`
	DisplayName string      `json:"display_name"`
	Mail        string      `json:"mail,omitempty"`
	Role        access.Role `json:"role"`
}
