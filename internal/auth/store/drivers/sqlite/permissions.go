package sqlite

import (
	"context"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type permissionsRepo struct {
	db dbtx
}

const permissionColumns = `id, module_id, name, description, created_at, updated_at`

func scanPermission(row interface{ Scan(...any) error }) (domain.Permission, error) {
	var p domain.Permission
	err := row.Scan(&p.ID, &p.ModuleID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *permissionsRepo) GetPermissionByID(ctx context.Context, id string) (domain.Permission, error) {
	p, err := scanPermission(r.db.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE id = ?`, id))
	if err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return p, nil
}

func (r *permissionsRepo) GetPermissionByName(ctx context.Context, moduleID, name string) (domain.Permission, error) {
	p, err := scanPermission(r.db.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE module_id = ? AND name = ?`,
		moduleID, name))
	if err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return p, nil
}

func (r *permissionsRepo) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return r.queryPermissions(ctx,
		`SELECT `+permissionColumns+` FROM permissions ORDER BY module_id, name`)
}

func (r *permissionsRepo) ListPermissionsByModule(ctx context.Context, moduleID string) ([]domain.Permission, error) {
	return r.queryPermissions(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE module_id = ? ORDER BY name`,
		moduleID)
}

func (r *permissionsRepo) queryPermissions(ctx context.Context, query string, args ...any) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func (r *permissionsRepo) CreatePermission(ctx context.Context, p domain.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, module_id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ModuleID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	return mapConflict(err)
}

// UpdatePermission never touches module_id; a permission belongs to its
// module for life.
func (r *permissionsRepo) UpdatePermission(ctx context.Context, p domain.Permission) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE permissions SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Description, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *permissionsRepo) DeletePermission(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *permissionsRepo) CountPermissions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&count)
	return count, err
}
