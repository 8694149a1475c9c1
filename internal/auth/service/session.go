package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/cryptox"
	"github.com/minerasur/sac/pkg/idx"
	"github.com/minerasur/sac/pkg/slogx"
)

// SessionService is the bearer-token ledger: it issues, validates, expires
// and revokes the opaque credentials that represent logged-in sessions.
type SessionService struct {
	Store store.Store

	// TokenTTL is the configured lifespan of issued tokens. nil means tokens
	// never expire; a zero duration means they are born expired.
	TokenTTL *time.Duration
}

// Login verifies credentials and issues a fresh session token. The error
// never reveals whether the RUT or the password was wrong.
func (s *SessionService) Login(ctx context.Context, rut, password, deviceName string) (domain.Session, domain.User, error) {
	l := slogx.FromContext(ctx)

	rut = strings.TrimSpace(rut)

	user, err := s.Store.Users().GetUserByRUT(ctx, rut)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrInvalidCredentials
		}
		return domain.Session{}, domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login rejected", slog.String("rut", rut))
		return domain.Session{}, domain.User{}, ErrInvalidCredentials
	}

	// Checked after the password so a disabled-account response still proves
	// the credentials were correct.
	if !user.Active {
		l.Info("login rejected for disabled account", slog.String("user_id", user.ID))
		return domain.Session{}, domain.User{}, ErrAccountDisabled
	}

	session, err := s.Issue(ctx, user.ID, deviceName)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return session, user, nil
}

// Issue creates a new session token for the user. Before inserting it purges
// that user's already-expired tokens; housekeeping only, concurrent sessions
// are not capped.
func (s *SessionService) Issue(ctx context.Context, userID, name string) (domain.Session, error) {
	now := time.Now().UTC()

	if err := s.Store.SessionTokens().DeleteExpiredUserSessionTokens(ctx, userID, now); err != nil {
		return domain.Session{}, err
	}

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, err
	}

	var expiresAt *time.Time
	if s.TokenTTL != nil {
		deadline := now.Add(*s.TokenTTL)
		expiresAt = &deadline
	}

	record := domain.SessionToken{
		ID:        idx.New().String(),
		UserID:    userID,
		Name:      name,
		TokenHash: cryptox.FingerprintToken(opaque),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if err := s.Store.SessionTokens().CreateSessionToken(ctx, record); err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		Token:     opaque,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, nil
}

// Validate resolves a presented token to its user. Expired tokens are
// deleted as part of this call: the first post-expiry use sees
// ErrTokenExpired, every later use sees ErrTokenNotFound. The conditional
// delete keeps that sequence consistent under concurrent validations.
//
// Store failures surface as errors; they are never collapsed into
// "not found", which would force spurious logouts.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.User, domain.SessionToken, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(token)

	record, err := s.Store.SessionTokens().GetSessionTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.SessionToken{}, ErrTokenNotFound
		}
		return domain.User{}, domain.SessionToken{}, err
	}

	if record.Expired(now) {
		deleted, err := s.Store.SessionTokens().DeleteSessionTokenIfExpired(ctx, hash, now)
		if err != nil {
			return domain.User{}, domain.SessionToken{}, err
		}
		if deleted {
			return domain.User{}, domain.SessionToken{}, ErrTokenExpired
		}
		// A concurrent validation already removed it.
		return domain.User{}, domain.SessionToken{}, ErrTokenNotFound
	}

	user, err := s.Store.Users().GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.SessionToken{}, ErrTokenNotFound
		}
		return domain.User{}, domain.SessionToken{}, err
	}

	// Deactivation revokes all tokens, so this only fires on a race between
	// the two writes.
	if !user.Active {
		return domain.User{}, domain.SessionToken{}, ErrAccountDisabled
	}

	if err := s.Store.SessionTokens().TouchSessionToken(ctx, hash, now); err != nil {
		return domain.User{}, domain.SessionToken{}, err
	}
	record.LastUsedAt = &now

	return user, record, nil
}

// Logout revokes exactly the presented token. Sessions on other devices are
// untouched.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.Store.SessionTokens().DeleteSessionToken(ctx, cryptox.FingerprintToken(token))
}

// Refresh exchanges a live token for a fresh one. The old token is revoked
// and the new one issued in a single transaction so the caller never holds
// zero valid credentials.
func (s *SessionService) Refresh(ctx context.Context, token, deviceName string) (domain.Session, domain.User, error) {
	user, record, err := s.Validate(ctx, token)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	now := time.Now().UTC()

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	var expiresAt *time.Time
	if s.TokenTTL != nil {
		deadline := now.Add(*s.TokenTTL)
		expiresAt = &deadline
	}

	if deviceName == "" {
		deviceName = record.Name
	}

	fresh := domain.SessionToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Name:      deviceName,
		TokenHash: cryptox.FingerprintToken(opaque),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.SessionTokens().DeleteSessionToken(ctx, record.TokenHash); err != nil {
			return err
		}
		return tx.SessionTokens().CreateSessionToken(ctx, fresh)
	})
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	return domain.Session{
		Token:     opaque,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, user, nil
}

// RevokeAll removes every token owned by the user (deactivation, deletion).
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	return s.Store.SessionTokens().DeleteUserSessionTokens(ctx, userID, "")
}

// RevokeOthers removes every token owned by the user except the one backing
// the current request (password change policy).
func (s *SessionService) RevokeOthers(ctx context.Context, userID, currentToken string) error {
	return s.Store.SessionTokens().DeleteUserSessionTokens(ctx, userID, cryptox.FingerprintToken(currentToken))
}

// ActiveSessions counts the user's currently valid tokens.
func (s *SessionService) ActiveSessions(ctx context.Context, userID string) (int, error) {
	return s.Store.SessionTokens().CountUserSessionTokens(ctx, userID, time.Now().UTC())
}
