package sacsdk

import "time"

// User is the identity payload returned by login, userinfo and the admin
// user endpoints. The password hash never crosses the wire.
type User struct {
	ID        string `json:"id"`
	RUT       string `json:"rut"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	Site      *Site  `json:"site,omitempty"`
}

type Site struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Detail   string `json:"detail,omitempty"`
	Color    string `json:"color,omitempty"`
	Active   bool   `json:"active"`
}

type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Active      bool   `json:"active"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type Permission struct {
	ID          string `json:"id"`
	ModuleID    string `json:"module_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ModuleRoles groups the roles a user holds under one module, used in the
// admin user-detail view.
type ModuleRoles struct {
	Module Module `json:"module"`
	Roles  []Role `json:"roles"`
}

type LoginRequest struct {
	RUT        string `json:"rut"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name,omitempty"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	User      User       `json:"user"`
}

// UserInfoResponse is the identity snapshot behind GET /v1/auth/user: who
// the caller is, which modules they can enter, and whether they hold the
// administrator role anywhere.
type UserInfoResponse struct {
	User            User     `json:"user"`
	Modules         []Module `json:"modules"`
	IsAdministrator bool     `json:"is_administrator"`
}

// ValidateTokenRequest is sent by sibling modules that want to trust a token
// without re-implementing permission resolution.
type ValidateTokenRequest struct {
	ModuleID string `json:"module_id"`
}

type ValidateTokenResponse struct {
	Valid           bool     `json:"valid"`
	User            User     `json:"user"`
	Roles           []Role   `json:"roles"`
	Permissions     []string `json:"permissions"`
	IsAdministrator bool     `json:"is_administrator"`
}

type VerifyPermissionRequest struct {
	Permission string `json:"permission"`
	ModuleID   string `json:"module_id"`
}

type VerifyPermissionResponse struct {
	HasPermission bool `json:"has_permission"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// ErrorResponse is the wire shape of every error the service returns.
type ErrorResponse struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

type RefreshRequest struct {
	DeviceName string `json:"device_name,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ProfileStats is the caller's own usage summary.
type ProfileStats struct {
	ActiveSessions    int `json:"active_sessions"`
	AccessibleModules int `json:"accessible_modules"`
	RolesHeld         int `json:"roles_held"`
}

type CreateUserRequest struct {
	RUT       string  `json:"rut"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	SiteID    *string `json:"site_id,omitempty"`
}

type UpdateUserRequest struct {
	RUT       string  `json:"rut"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	SiteID    *string `json:"site_id,omitempty"`
	Password  string  `json:"password,omitempty"`
}

type AssignRolesRequest struct {
	ModuleID string   `json:"module_id"`
	RoleIDs  []string `json:"role_ids"`
}

type RemoveRoleRequest struct {
	RoleID   string `json:"role_id"`
	ModuleID string `json:"module_id"`
}

type RoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SetRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

type ModuleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type CreatePermissionRequest struct {
	ModuleID    string `json:"module_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdatePermissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SiteRequest struct {
	Location string `json:"location"`
	Detail   string `json:"detail,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Collection and detail payloads.

type UsersResponse struct {
	Users []User `json:"users"`
}

type UserDetailResponse struct {
	User   User          `json:"user"`
	Grants []ModuleRoles `json:"grants"`
}

type UserGrantsResponse struct {
	Grants []ModuleRoles `json:"grants"`
}

type RolesResponse struct {
	Roles []Role `json:"roles"`
}

type RoleDetailResponse struct {
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
}

type PermissionsResponse struct {
	Permissions []Permission `json:"permissions"`
}

type ModulesResponse struct {
	Modules []Module `json:"modules"`
}

type ModuleDetailResponse struct {
	Module      Module       `json:"module"`
	Permissions []Permission `json:"permissions"`
	Users       []User       `json:"users"`
}

// ModulePermissionNamesResponse is the caller-scoped permission listing for
// one module: names only, already filtered to that module's ownership.
type ModulePermissionNamesResponse struct {
	ModuleID    string   `json:"module_id"`
	Permissions []string `json:"permissions"`
}

type SitesResponse struct {
	Sites []Site `json:"sites"`
}

// DashboardStats aggregates the counts shown on the admin landing page.
type DashboardStats struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	TotalModules     int `json:"total_modules"`
	ActiveModules    int `json:"active_modules"`
	TotalRoles       int `json:"total_roles"`
	TotalPermissions int `json:"total_permissions"`
	TotalSites       int `json:"total_sites"`
}
