package domain

import "time"

// AdminRoleName is the reserved role name that marks platform
// administrators. The role carrying it cannot be renamed, deleted or
// stripped of its protection.
const AdminRoleName = "administrator"

type Role struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin reports whether this is the protected administrator role.
func (r Role) IsAdmin() bool {
	return r.Name == AdminRoleName
}

type Permission struct {
	ID          string
	ModuleID    string
	Name        string // unique within its module, e.g. "view_production"
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
