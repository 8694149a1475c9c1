package sqlite

import (
	"context"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type sitesRepo struct {
	db dbtx
}

const siteColumns = `id, location, detail, color, active, created_at, updated_at`

func scanSite(row interface{ Scan(...any) error }) (domain.Site, error) {
	var s domain.Site
	err := row.Scan(&s.ID, &s.Location, &s.Detail, &s.Color, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *sitesRepo) GetSiteByID(ctx context.Context, id string) (domain.Site, error) {
	s, err := scanSite(r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE id = ?`, id))
	if err != nil {
		return domain.Site{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sitesRepo) ListSites(ctx context.Context) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+siteColumns+` FROM sites ORDER BY location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *sitesRepo) CreateSite(ctx context.Context, s domain.Site) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sites (id, location, detail, color, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Location, s.Detail, s.Color, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *sitesRepo) UpdateSite(ctx context.Context, s domain.Site) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sites SET location = ?, detail = ?, color = ?, active = ?, updated_at = ? WHERE id = ?`,
		s.Location, s.Detail, s.Color, s.Active, time.Now().UTC(), s.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sitesRepo) DeleteSite(ctx context.Context, siteID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, siteID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sitesRepo) CountSites(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&count)
	return count, err
}
