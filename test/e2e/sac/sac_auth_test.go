package sac_test

import (
	"testing"

	"github.com/minerasur/sac/pkg/sacsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginAndUserInfo verifies the seeded administrator can log in and
// fetch their identity snapshot.
func TestLoginAndUserInfo(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)
	session := loginAdmin(t, client)

	info, err := session.UserInfo(t.Context())
	require.NoError(t, err)
	require.Equal(t, adminRUT, info.User.RUT)
	require.True(t, info.IsAdministrator, "seeded account should hold the administrator role")
	require.NotEmpty(t, info.Modules, "seeded account should see the console module")
}

// TestLoginWithWrongPassword verifies bad credentials are rejected without
// revealing which half was wrong.
func TestLoginWithWrongPassword(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)

	_, err := client.Login(t.Context(), adminRUT, "not-the-password", "e2e")
	require.Error(t, err)
	require.True(t, sacsdk.IsKind(err, sacsdk.KindInvalidCredentials), "got: %v", err)
}

// TestLogoutRevokesOnlyPresentedToken verifies per-device logout.
func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)
	first := loginAdmin(t, client)
	second := loginAdmin(t, client)

	require.NoError(t, first.Logout(t.Context()))

	_, err := first.UserInfo(t.Context())
	require.True(t, sacsdk.IsSessionExpired(err), "revoked token should be dead, got: %v", err)

	_, err = second.UserInfo(t.Context())
	require.NoError(t, err, "other sessions must survive a logout")
}

// TestRefreshRotatesToken verifies the old token dies when a new one is
// issued.
func TestRefreshRotatesToken(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)
	session := loginAdmin(t, client)
	oldToken := session.Token()

	require.NoError(t, session.Refresh(t.Context(), ""))
	require.NotEqual(t, oldToken, session.Token())

	_, err := session.UserInfo(t.Context())
	require.NoError(t, err, "fresh token should work")

	stale := client.NewSessionFromToken(oldToken)
	_, err = stale.UserInfo(t.Context())
	require.True(t, sacsdk.IsSessionExpired(err), "rotated-out token should be dead, got: %v", err)
}

// TestChangePasswordRevokesSiblingSessions verifies the password change
// policy: the session making the change survives, every other one dies.
func TestChangePasswordRevokesSiblingSessions(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := sacsdk.NewSDKClient(baseURL)
	current := loginAdmin(t, client)
	sibling := loginAdmin(t, client)

	require.NoError(t, current.ChangePassword(t.Context(), adminPassword, "NewPassword123!"))

	_, err := current.UserInfo(t.Context())
	require.NoError(t, err, "the changing session must survive")

	_, err = sibling.UserInfo(t.Context())
	require.True(t, sacsdk.IsSessionExpired(err), "sibling sessions must be revoked, got: %v", err)

	// Old password no longer works, new one does.
	_, err = client.Login(t.Context(), adminRUT, adminPassword, "e2e")
	require.True(t, sacsdk.IsKind(err, sacsdk.KindInvalidCredentials))

	_, err = client.Login(t.Context(), adminRUT, "NewPassword123!", "e2e")
	require.NoError(t, err)
}
