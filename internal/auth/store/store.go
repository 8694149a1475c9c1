package store

import (
	"context"
	"errors"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and to
// actively stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Roles() Roles
	Permissions() Permissions
	Modules() Modules
	Sites() Sites
	Assignments() Assignments
	SessionTokens() SessionTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back on error and
	// committing on nil. Preferred over Tx for multi-step mutations
	// (replace-all assignment updates, refresh rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByRUT is used during login.
	GetUserByRUT(ctx context.Context, rut string) (domain.User, error)

	// ListUsers returns all users ordered by last name.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates identity fields (rut, names, email, site) and bumps
	// updated_at. Password and active state have dedicated mutators.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetUserActive flips the active flag.
	SetUserActive(ctx context.Context, userID string, active bool) error

	// DeleteUser cascades to user_roles and session_tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// CountUsers returns total and active counts for dashboard stats.
	CountUsers(ctx context.Context) (total int, active int, err error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its unique name (seeding, admin checks).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	ListRoles(ctx context.Context) ([]domain.Role, error)

	CreateRole(ctx context.Context, r domain.Role) error

	// UpdateRole mutates name and description.
	UpdateRole(ctx context.Context, r domain.Role) error

	SetRoleActive(ctx context.Context, roleID string, active bool) error

	// DeleteRole removes a role; the service refuses while grants reference it.
	DeleteRole(ctx context.Context, roleID string) error

	CountRoles(ctx context.Context) (int, error)
}

type Permissions interface {
	GetPermissionByID(ctx context.Context, id string) (domain.Permission, error)

	// GetPermissionByName resolves a (module, name) pair; names are only
	// unique within their module.
	GetPermissionByName(ctx context.Context, moduleID, name string) (domain.Permission, error)

	ListPermissions(ctx context.Context) ([]domain.Permission, error)

	ListPermissionsByModule(ctx context.Context, moduleID string) ([]domain.Permission, error)

	CreatePermission(ctx context.Context, p domain.Permission) error

	// UpdatePermission mutates name and description only; module_id is
	// immutable for the lifetime of the record.
	UpdatePermission(ctx context.Context, p domain.Permission) error

	DeletePermission(ctx context.Context, id string) error

	CountPermissions(ctx context.Context) (int, error)
}

type Modules interface {
	GetModuleByID(ctx context.Context, id string) (domain.Module, error)

	GetModuleByName(ctx context.Context, name string) (domain.Module, error)

	ListModules(ctx context.Context) ([]domain.Module, error)

	CreateModule(ctx context.Context, m domain.Module) error

	UpdateModule(ctx context.Context, m domain.Module) error

	SetModuleActive(ctx context.Context, moduleID string, active bool) error

	// DeleteModule cascades to permissions and user_roles (per schema).
	DeleteModule(ctx context.Context, moduleID string) error

	CountModules(ctx context.Context) (total int, active int, err error)
}

type Sites interface {
	GetSiteByID(ctx context.Context, id string) (domain.Site, error)

	ListSites(ctx context.Context) ([]domain.Site, error)

	CreateSite(ctx context.Context, s domain.Site) error

	UpdateSite(ctx context.Context, s domain.Site) error

	DeleteSite(ctx context.Context, siteID string) error

	CountSites(ctx context.Context) (int, error)
}

// Assignments covers the ternary user_roles relation and the binary
// role_permissions relation. Replace-all semantics are composed by the
// service from the delete/add primitives inside WithTx.
type Assignments interface {
	// AddUserRole inserts one (user, role, module) fact.
	// Duplicate triples fail with ErrAlreadyExists.
	AddUserRole(ctx context.Context, userID, roleID, moduleID string) error

	// RemoveUserRole deletes one fact; absent facts are a no-op.
	RemoveUserRole(ctx context.Context, userID, roleID, moduleID string) error

	// DeleteUserRolesInModule clears every (user, *, module) fact. First half
	// of the replace-all operation.
	DeleteUserRolesInModule(ctx context.Context, userID, moduleID string) error

	// ListUserRolesInModule returns the roles a user holds inside one module.
	ListUserRolesInModule(ctx context.Context, userID, moduleID string) ([]domain.Role, error)

	// ListUserGrants returns every (role, module) fact for a user, for the
	// admin user-detail view.
	ListUserGrants(ctx context.Context, userID string) ([]domain.RoleGrant, error)

	// ListUserModules returns the distinct active modules in which the user
	// holds at least one role.
	ListUserModules(ctx context.Context, userID string) ([]domain.Module, error)

	// UserHasRoleNamed reports whether the user holds a role with the given
	// name in any module. moduleID narrows the check to one module when
	// non-empty.
	UserHasRoleNamed(ctx context.Context, userID, roleName, moduleID string) (bool, error)

	// CountRoleGrants returns how many user_roles facts reference the role,
	// used to block deleting roles that are still assigned.
	CountRoleGrants(ctx context.Context, roleID string) (int, error)

	// ListUsersInModule returns distinct users holding any role in a module.
	ListUsersInModule(ctx context.Context, moduleID string) ([]domain.User, error)

	// AddRolePermission inserts one (role, permission) fact.
	// Duplicate pairs fail with ErrAlreadyExists.
	AddRolePermission(ctx context.Context, roleID, permissionID string) error

	// DeleteRolePermissions clears every permission fact for a role. First
	// half of the replace-all operation.
	DeleteRolePermissions(ctx context.Context, roleID string) error

	// ListRolePermissions returns a role's permissions across all modules.
	ListRolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error)

	// ListUsersWithRole returns distinct users holding the role anywhere.
	ListUsersWithRole(ctx context.Context, roleID string) ([]domain.User, error)
}

type SessionTokens interface {
	// CreateSessionToken stores a new token record. Only the fingerprint of
	// the opaque secret is persisted.
	CreateSessionToken(ctx context.Context, t domain.SessionToken) error

	// GetSessionTokenByHash returns the record matching a fingerprint.
	GetSessionTokenByHash(ctx context.Context, hash string) (domain.SessionToken, error)

	// DeleteSessionTokenIfExpired removes the record only when its deadline
	// has passed. Returns true when a row was deleted, so two racing
	// validations see exactly one expiry and the rest see not-found.
	DeleteSessionTokenIfExpired(ctx context.Context, hash string, now time.Time) (bool, error)

	// TouchSessionToken records last_used_at.
	TouchSessionToken(ctx context.Context, hash string, now time.Time) error

	// DeleteSessionToken removes exactly one token (logout, refresh).
	DeleteSessionToken(ctx context.Context, hash string) error

	// DeleteUserSessionTokens removes every token owned by a user. When
	// exceptHash is non-empty that token survives (password change keeps the
	// current session).
	DeleteUserSessionTokens(ctx context.Context, userID string, exceptHash string) error

	// DeleteExpiredUserSessionTokens is the opportunistic purge run before
	// issuing a new token.
	DeleteExpiredUserSessionTokens(ctx context.Context, userID string, now time.Time) error

	// PurgeExpiredSessionTokens removes every expired token in the ledger,
	// returning how many rows went. Used by the background housekeeper.
	PurgeExpiredSessionTokens(ctx context.Context, now time.Time) (int, error)

	// CountUserSessionTokens returns how many live tokens a user holds, for
	// profile stats.
	CountUserSessionTokens(ctx context.Context, userID string, now time.Time) (int, error)
}
