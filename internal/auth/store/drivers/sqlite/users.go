package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, rut, first_name, last_name, email, password_hash, active, site_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var siteID sql.NullString
	err := row.Scan(
		&u.ID, &u.RUT, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Active, &siteID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.SiteID = mapNullStringPtr(siteID)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByRUT(ctx context.Context, rut string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE rut = ?`, rut)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY last_name, first_name`)
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

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, rut, first_name, last_name, email, password_hash, active, site_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.RUT, u.FirstName, u.LastName, u.Email,
		u.PasswordHash, u.Active, mapOptionalString(u.SiteID), u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET rut = ?, first_name = ?, last_name = ?, email = ?, site_id = ?, updated_at = ?
		 WHERE id = ?`,
		u.RUT, u.FirstName, u.LastName, u.Email,
		mapOptionalString(u.SiteID), time.Now().UTC(), u.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) CountUsers(ctx context.Context) (total int, active int, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(active), 0) FROM users`)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
