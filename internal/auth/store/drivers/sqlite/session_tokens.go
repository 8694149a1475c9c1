package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
)

type sessionTokensRepo struct {
	db dbtx
}

const sessionTokenColumns = `id, user_id, name, token_hash, expires_at, last_used_at, created_at`

func scanSessionToken(row interface{ Scan(...any) error }) (domain.SessionToken, error) {
	var t domain.SessionToken
	var expiresAt, lastUsedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.TokenHash, &expiresAt, &lastUsedAt, &t.CreatedAt)
	if err != nil {
		return domain.SessionToken{}, err
	}
	t.ExpiresAt = mapNullTimePtr(expiresAt)
	t.LastUsedAt = mapNullTimePtr(lastUsedAt)
	return t, nil
}

func (r *sessionTokensRepo) CreateSessionToken(ctx context.Context, t domain.SessionToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_tokens (id, user_id, name, token_hash, expires_at, last_used_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, t.TokenHash,
		mapOptionalTime(t.ExpiresAt), mapOptionalTime(t.LastUsedAt), t.CreatedAt,
	)
	return mapConflict(err)
}

func (r *sessionTokensRepo) GetSessionTokenByHash(ctx context.Context, hash string) (domain.SessionToken, error) {
	t, err := scanSessionToken(r.db.QueryRowContext(ctx,
		`SELECT `+sessionTokenColumns+` FROM session_tokens WHERE token_hash = ?`, hash))
	if err != nil {
		return domain.SessionToken{}, mapNotFound(err)
	}
	return t, nil
}

// DeleteSessionTokenIfExpired is the atomic half of lazy expiry: the
// conditional DELETE means two racing validations cannot both observe the
// expired record.
func (r *sessionTokensRepo) DeleteSessionTokenIfExpired(ctx context.Context, hash string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE token_hash = ? AND expires_at IS NOT NULL AND expires_at <= ?`,
		hash, now,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sessionTokensRepo) TouchSessionToken(ctx context.Context, hash string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE session_tokens SET last_used_at = ? WHERE token_hash = ?`,
		now, hash,
	)
	return err
}

func (r *sessionTokensRepo) DeleteSessionToken(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionTokensRepo) DeleteUserSessionTokens(ctx context.Context, userID string, exceptHash string) error {
	if exceptHash == "" {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM session_tokens WHERE user_id = ?`, userID)
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE user_id = ? AND token_hash != ?`,
		userID, exceptHash)
	return err
}

func (r *sessionTokensRepo) DeleteExpiredUserSessionTokens(ctx context.Context, userID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE user_id = ? AND expires_at IS NOT NULL AND expires_at <= ?`,
		userID, now,
	)
	return err
}

func (r *sessionTokensRepo) PurgeExpiredSessionTokens(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE expires_at IS NOT NULL AND expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *sessionTokensRepo) CountUserSessionTokens(ctx context.Context, userID string, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_tokens
		 WHERE user_id = ? AND (expires_at IS NULL OR expires_at > ?)`,
		userID, now,
	).Scan(&count)
	return count, err
}
