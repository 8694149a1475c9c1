package sqlite

import (
	"context"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type rolesRepo struct {
	db dbtx
}

const roleColumns = `id, name, description, active, created_at, updated_at`

func scanRole(row interface{ Scan(...any) error }) (domain.Role, error) {
	var role domain.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.Active, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = ?`, name))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY name`)
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

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, description, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		role.ID, role.Name, role.Description, role.Active, role.CreatedAt, role.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *rolesRepo) UpdateRole(ctx context.Context, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		role.Name, role.Description, time.Now().UTC(), role.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *rolesRepo) SetRoleActive(ctx context.Context, roleID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), roleID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *rolesRepo) DeleteRole(ctx context.Context, roleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, roleID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *rolesRepo) CountRoles(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count)
	return count, err
}
