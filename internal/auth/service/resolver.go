package service

import (
	"context"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
)

// Resolver answers access, permission and admin questions. It is built
// purely from assignment reads and performs no mutations.
type Resolver struct {
	Store store.Store
}

// HasModuleAccess reports whether the user holds any role inside the module.
// Deliberately ignores module.active: it answers "does this user hold a role
// here", not "can they get in right now".
func (r *Resolver) HasModuleAccess(ctx context.Context, userID, moduleID string) (bool, error) {
	roles, err := r.Store.Assignments().ListUserRolesInModule(ctx, userID, moduleID)
	if err != nil {
		return false, err
	}
	return len(roles) > 0, nil
}

// RolesInModule returns the roles the user holds inside one module.
func (r *Resolver) RolesInModule(ctx context.Context, userID, moduleID string) ([]domain.Role, error) {
	return r.Store.Assignments().ListUserRolesInModule(ctx, userID, moduleID)
}

// PermissionsInModule returns the user's effective permissions inside a
// module: the union of every held role's permissions, filtered to the
// permissions the target module itself owns. A role granted here may carry
// permissions belonging to other modules; those never surface.
func (r *Resolver) PermissionsInModule(ctx context.Context, userID, moduleID string) ([]domain.Permission, error) {
	roles, err := r.Store.Assignments().ListUserRolesInModule(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var effective []domain.Permission
	for _, role := range roles {
		perms, err := r.Store.Assignments().ListRolePermissions(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range perms {
			if p.ModuleID != moduleID {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			effective = append(effective, p)
		}
	}
	return effective, nil
}

// HasPermission reports whether the named permission is effective for the
// user inside the module.
func (r *Resolver) HasPermission(ctx context.Context, userID, permissionName, moduleID string) (bool, error) {
	perms, err := r.PermissionsInModule(ctx, userID, moduleID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

// IsAdministrator reports whether the user holds the reserved administrator
// role in any module. The check is unscoped: one admin grant anywhere makes
// the user an administrator system-wide.
func (r *Resolver) IsAdministrator(ctx context.Context, userID string) (bool, error) {
	return r.Store.Assignments().UserHasRoleNamed(ctx, userID, domain.AdminRoleName, "")
}

// IsAdministratorInModule scopes the admin check to one module. An empty
// moduleID degrades to the unscoped check.
func (r *Resolver) IsAdministratorInModule(ctx context.Context, userID, moduleID string) (bool, error) {
	if moduleID == "" {
		return r.IsAdministrator(ctx, userID)
	}
	return r.Store.Assignments().UserHasRoleNamed(ctx, userID, domain.AdminRoleName, moduleID)
}

// AccessibleModules returns the distinct active modules in which the user
// holds at least one role; the module picker after login.
func (r *Resolver) AccessibleModules(ctx context.Context, userID string) ([]domain.Module, error) {
	return r.Store.Assignments().ListUserModules(ctx, userID)
}
