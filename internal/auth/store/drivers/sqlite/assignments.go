package sqlite

import (
	"context"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type assignmentsRepo struct {
	db dbtx
}

func (r *assignmentsRepo) AddUserRole(ctx context.Context, userID, roleID, moduleID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id, module_id, created_at) VALUES (?, ?, ?, ?)`,
		userID, roleID, moduleID, time.Now().UTC(),
	)
	return mapConflict(err)
}

func (r *assignmentsRepo) RemoveUserRole(ctx context.Context, userID, roleID, moduleID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ? AND module_id = ?`,
		userID, roleID, moduleID,
	)
	return err
}

func (r *assignmentsRepo) DeleteUserRolesInModule(ctx context.Context, userID, moduleID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND module_id = ?`,
		userID, moduleID,
	)
	return err
}

func (r *assignmentsRepo) ListUserRolesInModule(ctx context.Context, userID, moduleID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.name, r.description, r.active, r.created_at, r.updated_at
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = ? AND ur.module_id = ?
		 ORDER BY r.name`,
		userID, moduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *assignmentsRepo) ListUserGrants(ctx context.Context, userID string) ([]domain.RoleGrant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, role_id, module_id FROM user_roles WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.RoleGrant
	for rows.Next() {
		var g domain.RoleGrant
		if err := rows.Scan(&g.UserID, &g.RoleID, &g.ModuleID); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ListUserModules only surfaces active modules; holding a role in a disabled
// module grants no entry point.
func (r *assignmentsRepo) ListUserModules(ctx context.Context, userID string) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT m.id, m.name, m.description, m.url, m.icon, m.active, m.created_at, m.updated_at
		 FROM modules m
		 JOIN user_roles ur ON ur.module_id = m.id
		 WHERE ur.user_id = ? AND m.active = 1
		 ORDER BY m.name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *assignmentsRepo) UserHasRoleNamed(ctx context.Context, userID, roleName, moduleID string) (bool, error) {
	query := `SELECT COUNT(*) FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = ? AND r.name = ?`
	args := []any{userID, roleName}
	if moduleID != "" {
		query += ` AND ur.module_id = ?`
		args = append(args, moduleID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *assignmentsRepo) CountRoleGrants(ctx context.Context, roleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_roles WHERE role_id = ?`, roleID).Scan(&count)
	return count, err
}

func (r *assignmentsRepo) ListUsersInModule(ctx context.Context, moduleID string) ([]domain.User, error) {
	return r.queryUsers(ctx,
		`SELECT DISTINCT `+aliasedUserColumns+`
		 FROM users u
		 JOIN user_roles ur ON ur.user_id = u.id
		 WHERE ur.module_id = ?
		 ORDER BY u.last_name, u.first_name`,
		moduleID)
}

func (r *assignmentsRepo) AddRolePermission(ctx context.Context, roleID, permissionID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, ?)`,
		roleID, permissionID, time.Now().UTC(),
	)
	return mapConflict(err)
}

func (r *assignmentsRepo) DeleteRolePermissions(ctx context.Context, roleID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM role_permissions WHERE role_id = ?`, roleID)
	return err
}

func (r *assignmentsRepo) ListRolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.module_id, p.name, p.description, p.created_at, p.updated_at
		 FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.id
		 WHERE rp.role_id = ?
		 ORDER BY p.module_id, p.name`,
		roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *assignmentsRepo) ListUsersWithRole(ctx context.Context, roleID string) ([]domain.User, error) {
	return r.queryUsers(ctx,
		`SELECT DISTINCT `+aliasedUserColumns+`
		 FROM users u
		 JOIN user_roles ur ON ur.user_id = u.id
		 WHERE ur.role_id = ?
		 ORDER BY u.last_name, u.first_name`,
		roleID)
}

func (r *assignmentsRepo) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const aliasedUserColumns = `u.id, u.rut, u.first_name, u.last_name, u.email, u.password_hash, u.active, u.site_id, u.created_at, u.updated_at`
