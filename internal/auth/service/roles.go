package service

import (
	"context"
	"strings"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/idx"
)

// RoleService is the role catalog plus the protection rules around the
// reserved administrator role.
type RoleService struct {
	Store    store.Store
	Sessions *SessionService
}

func (s *RoleService) CreateRole(ctx context.Context, name, description string) (domain.Role, error) {
	now := time.Now().UTC()
	role := domain.Role{
		ID:          idx.New().String(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

// UpdateRole renames or re-describes a role. The administrator role cannot
// be renamed; its description may change.
func (s *RoleService) UpdateRole(ctx context.Context, roleID, name, description string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, err
	}

	name = strings.TrimSpace(name)
	if role.IsAdmin() && name != role.Name {
		return domain.Role{}, ErrAdminRoleProtected
	}

	role.Name = name
	role.Description = strings.TrimSpace(description)

	if err := s.Store.Roles().UpdateRole(ctx, role); err != nil {
		return domain.Role{}, err
	}
	return s.Store.Roles().GetRoleByID(ctx, roleID)
}

// ToggleStatus flips a role's active flag. The administrator role can never
// be deactivated.
func (s *RoleService) ToggleStatus(ctx context.Context, roleID string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, err
	}
	if role.IsAdmin() {
		return domain.Role{}, ErrAdminRoleProtected
	}

	if err := s.Store.Roles().SetRoleActive(ctx, roleID, !role.Active); err != nil {
		return domain.Role{}, err
	}
	role.Active = !role.Active
	return role, nil
}

// DeleteRole removes a role. The administrator role is protected, and any
// role still referenced by user grants is refused.
func (s *RoleService) DeleteRole(ctx context.Context, roleID string) error {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsAdmin() {
		return ErrAdminRoleProtected
	}

	grants, err := s.Store.Assignments().CountRoleGrants(ctx, roleID)
	if err != nil {
		return err
	}
	if grants > 0 {
		return ErrRoleAssigned
	}

	return s.Store.Roles().DeleteRole(ctx, roleID)
}

func (s *RoleService) GetRole(ctx context.Context, roleID string) (domain.Role, error) {
	return s.Store.Roles().GetRoleByID(ctx, roleID)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx)
}

// UsersWithRole lists the users holding the role in any module.
func (s *RoleService) UsersWithRole(ctx context.Context, roleID string) ([]domain.User, error) {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.Store.Assignments().ListUsersWithRole(ctx, roleID)
}
