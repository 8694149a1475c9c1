package sqlite

import (
	"context"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type modulesRepo struct {
	db dbtx
}

const moduleColumns = `id, name, description, url, icon, active, created_at, updated_at`

func scanModule(row interface{ Scan(...any) error }) (domain.Module, error) {
	var m domain.Module
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.URL, &m.Icon, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *modulesRepo) GetModuleByID(ctx context.Context, id string) (domain.Module, error) {
	m, err := scanModule(r.db.QueryRowContext(ctx,
		`SELECT `+moduleColumns+` FROM modules WHERE id = ?`, id))
	if err != nil {
		return domain.Module{}, mapNotFound(err)
	}
	return m, nil
}

func (r *modulesRepo) GetModuleByName(ctx context.Context, name string) (domain.Module, error) {
	m, err := scanModule(r.db.QueryRowContext(ctx,
		`SELECT `+moduleColumns+` FROM modules WHERE name = ?`, name))
	if err != nil {
		return domain.Module{}, mapNotFound(err)
	}
	return m, nil
}

func (r *modulesRepo) ListModules(ctx context.Context) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+moduleColumns+` FROM modules ORDER BY name`)
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

func (r *modulesRepo) CreateModule(ctx context.Context, m domain.Module) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO modules (id, name, description, url, icon, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Description, m.URL, m.Icon, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *modulesRepo) UpdateModule(ctx context.Context, m domain.Module) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE modules SET name = ?, description = ?, url = ?, icon = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.Description, m.URL, m.Icon, time.Now().UTC(), m.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *modulesRepo) SetModuleActive(ctx context.Context, moduleID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE modules SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), moduleID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *modulesRepo) DeleteModule(ctx context.Context, moduleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, moduleID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *modulesRepo) CountModules(ctx context.Context) (total int, active int, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(active), 0) FROM modules`)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
