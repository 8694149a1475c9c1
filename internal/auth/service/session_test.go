package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginIssuesSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st, TokenTTL: ttl(time.Hour)}

	seedUser(t, st, "11111111-1", "correct-horse", true)

	session, user, err := sessions.Login(ctx, "11111111-1", "correct-horse", "laptop")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, "Bearer", session.TokenType)
	require.NotNil(t, session.ExpiresAt)
	require.Equal(t, "11111111-1", user.RUT)

	validated, _, err := sessions.Validate(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, validated.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st}

	seedUser(t, st, "11111111-1", "correct-horse", true)

	_, _, err := sessions.Login(ctx, "11111111-1", "wrong", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown RUT yields the same error as a wrong password.
	_, _, err = sessions.Login(ctx, "99999999-9", "correct-horse", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st}

	seedUser(t, st, "11111111-1", "correct-horse", false)

	_, _, err := sessions.Login(ctx, "11111111-1", "correct-horse", "")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestTokenWithoutTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st, TokenTTL: nil}

	user := seedUser(t, st, "11111111-1", "secret", true)

	session, err := sessions.Issue(ctx, user.ID, "")
	require.NoError(t, err)
	require.Nil(t, session.ExpiresAt)

	_, record, err := sessions.Validate(ctx, session.Token)
	require.NoError(t, err)
	require.Nil(t, record.ExpiresAt)
}

func TestZeroTTLExpiresImmediately(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st, TokenTTL: ttl(0)}

	user := seedUser(t, st, "11111111-1", "secret", true)

	session, err := sessions.Issue(ctx, user.ID, "")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	// First use past the deadline reports expiry and deletes the record.
	_, _, err = sessions.Validate(ctx, session.Token)
	require.ErrorIs(t, err, ErrTokenExpired)

	// Every later use sees an absent token.
	_, _, err = sessions.Validate(ctx, session.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestValidateUnknownToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st}

	_, _, err := sessions.Validate(ctx, "never-issued")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st}

	user := seedUser(t, st, "11111111-1", "secret", true)

	laptop, err := sessions.Issue(ctx, user.ID, "laptop")
	require.NoError(t, err)
	phone, err := sessions.Issue(ctx, user.ID, "phone")
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(ctx, laptop.Token))

	_, _, err = sessions.Validate(ctx, laptop.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	_, _, err = sessions.Validate(ctx, phone.Token)
	require.NoError(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st, TokenTTL: ttl(time.Hour)}

	user := seedUser(t, st, "11111111-1", "secret", true)

	old, err := sessions.Issue(ctx, user.ID, "laptop")
	require.NoError(t, err)

	fresh, refreshedUser, err := sessions.Refresh(ctx, old.Token, "")
	require.NoError(t, err)
	require.Equal(t, user.ID, refreshedUser.ID)
	require.NotEqual(t, old.Token, fresh.Token)

	_, _, err = sessions.Validate(ctx, old.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	_, _, err = sessions.Validate(ctx, fresh.Token)
	require.NoError(t, err)
}

func TestIssuePurgesExpiredSiblings(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	user := seedUser(t, st, "11111111-1", "secret", true)

	expired := &SessionService{Store: st, TokenTTL: ttl(0)}
	_, err := expired.Issue(ctx, user.ID, "stale")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	live := &SessionService{Store: st, TokenTTL: ttl(time.Hour)}
	_, err = live.Issue(ctx, user.ID, "fresh")
	require.NoError(t, err)

	count, err := live.ActiveSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestPasswordChangeRevokesSiblingSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st, TokenTTL: ttl(time.Hour)}
	users := &UserService{Store: st, Sessions: sessions}

	user := seedUser(t, st, "11111111-1", "old-password", true)

	current, err := sessions.Issue(ctx, user.ID, "laptop")
	require.NoError(t, err)
	other, err := sessions.Issue(ctx, user.ID, "phone")
	require.NoError(t, err)

	err = users.ChangePassword(ctx, user.ID, "old-password", "new-password", current.Token)
	require.NoError(t, err)

	// The session that made the change survives; every other one is gone.
	_, _, err = sessions.Validate(ctx, current.Token)
	require.NoError(t, err)

	_, _, err = sessions.Validate(ctx, other.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	// And the new password is the one that logs in.
	_, _, err = sessions.Login(ctx, "11111111-1", "old-password", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = sessions.Login(ctx, "11111111-1", "new-password", "")
	require.NoError(t, err)
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st}
	users := &UserService{Store: st, Sessions: sessions}

	user := seedUser(t, st, "11111111-1", "old-password", true)

	err := users.ChangePassword(ctx, user.ID, "guess", "new-password", "tok")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeactivationRevokesSessionsAndBlocksLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := &SessionService{Store: st, TokenTTL: ttl(time.Hour)}
	users := &UserService{Store: st, Sessions: sessions}

	admin := seedUser(t, st, "99999999-9", "admin-pass", true)
	target := seedUser(t, st, "11111111-1", "secret", true)

	session, err := sessions.Issue(ctx, target.ID, "laptop")
	require.NoError(t, err)

	updated, err := users.ToggleStatus(ctx, admin.ID, target.ID)
	require.NoError(t, err)
	require.False(t, updated.Active)

	_, _, err = sessions.Validate(ctx, session.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	_, _, err = sessions.Login(ctx, "11111111-1", "secret", "")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestToggleStatusForbidsSelfTargeting(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st, Sessions: &SessionService{Store: st}}

	admin := seedUser(t, st, "99999999-9", "admin-pass", true)

	_, err := users.ToggleStatus(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrSelfAction)

	err = users.DeleteUser(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrSelfAction)
}
