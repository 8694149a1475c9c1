package domain

import "time"

type User struct {
	ID           string
	RUT          string // national identifier, unique login handle
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // argon2 encoded
	Active       bool
	SiteID       *string // optional home site (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is used in responses and logs; the parts are stored separately.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RoleGrant is one row of the three-way user/role/module assignment.
type RoleGrant struct {
	UserID   string
	RoleID   string
	ModuleID string
}

// ModuleRoles groups a user's roles under one module for the identity
// snapshot returned after login and from the userinfo endpoint.
type ModuleRoles struct {
	Module Module
	Roles  []Role
}
