package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/slogx"
)

// AssignmentService owns the two assignment relations: the ternary
// user/role/module grants and the binary role/permission grants.
type AssignmentService struct {
	Store store.Store
}

// SetUserRolesInModule atomically replaces every role the user holds in the
// module with exactly roleIDs. A concurrent reader never observes the empty
// set between the delete and the inserts.
func (s *AssignmentService) SetUserRolesInModule(ctx context.Context, userID, moduleID string, roleIDs []string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		return err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, roleID := range roleIDs {
			if _, err := tx.Roles().GetRoleByID(ctx, roleID); err != nil {
				return err
			}
		}

		if err := tx.Assignments().DeleteUserRolesInModule(ctx, userID, moduleID); err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(roleIDs))
		for _, roleID := range roleIDs {
			if _, ok := seen[roleID]; ok {
				continue
			}
			seen[roleID] = struct{}{}
			if err := tx.Assignments().AddUserRole(ctx, userID, roleID, moduleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("user roles replaced",
		slog.String("user_id", userID),
		slog.String("module_id", moduleID),
		slog.Int("roles", len(roleIDs)),
	)
	return nil
}

// AddAssignment inserts a single (user, role, module) grant. A duplicate
// triple fails with store.ErrAlreadyExists.
func (s *AssignmentService) AddAssignment(ctx context.Context, userID, roleID, moduleID string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		return err
	}
	return s.Store.Assignments().AddUserRole(ctx, userID, roleID, moduleID)
}

// RemoveAssignment deletes a single grant. Removing an absent grant is a
// no-op; referencing ids that do not exist is NotFound.
func (s *AssignmentService) RemoveAssignment(ctx context.Context, userID, roleID, moduleID string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		return err
	}
	return s.Store.Assignments().RemoveUserRole(ctx, userID, roleID, moduleID)
}

// SetRolePermissions atomically replaces the role's permission set.
func (s *AssignmentService) SetRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, permissionID := range permissionIDs {
			if _, err := tx.Permissions().GetPermissionByID(ctx, permissionID); err != nil {
				return err
			}
		}

		if err := tx.Assignments().DeleteRolePermissions(ctx, roleID); err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(permissionIDs))
		for _, permissionID := range permissionIDs {
			if _, ok := seen[permissionID]; ok {
				continue
			}
			seen[permissionID] = struct{}{}
			if err := tx.Assignments().AddRolePermission(ctx, roleID, permissionID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("role permissions replaced",
		slog.String("role_id", roleID),
		slog.Int("permissions", len(permissionIDs)),
	)
	return nil
}

// RolesOf returns the user's roles inside one module.
func (s *AssignmentService) RolesOf(ctx context.Context, userID, moduleID string) ([]domain.Role, error) {
	return s.Store.Assignments().ListUserRolesInModule(ctx, userID, moduleID)
}

// PermissionsOfRole returns a role's full permission set, which may span
// several modules.
func (s *AssignmentService) PermissionsOfRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.Store.Assignments().ListRolePermissions(ctx, roleID)
}

// ModulesAccessibleBy returns the distinct active modules where the user
// holds at least one role.
func (s *AssignmentService) ModulesAccessibleBy(ctx context.Context, userID string) ([]domain.Module, error) {
	return s.Store.Assignments().ListUserModules(ctx, userID)
}

// GrantsOf returns the user's raw (role, module) facts grouped per module
// with resolved records, for the admin user-detail view.
func (s *AssignmentService) GrantsOf(ctx context.Context, userID string) ([]domain.ModuleRoles, error) {
	grants, err := s.Store.Assignments().ListUserGrants(ctx, userID)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string][]string)
	var order []string
	for _, g := range grants {
		if _, ok := byModule[g.ModuleID]; !ok {
			order = append(order, g.ModuleID)
		}
		byModule[g.ModuleID] = append(byModule[g.ModuleID], g.RoleID)
	}

	var out []domain.ModuleRoles
	for _, moduleID := range order {
		module, err := s.Store.Modules().GetModuleByID(ctx, moduleID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entry := domain.ModuleRoles{Module: module}
		for _, roleID := range byModule[moduleID] {
			role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return nil, err
			}
			entry.Roles = append(entry.Roles, role)
		}
		out = append(out, entry)
	}
	return out, nil
}
