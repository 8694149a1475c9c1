package service

import (
	"context"
	"testing"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestAdminRoleCannotBeRenamed(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	roles := &RoleService{Store: st}

	admin := seedRole(t, st, domain.AdminRoleName)

	_, err := roles.UpdateRole(ctx, admin.ID, "superuser", "")
	require.ErrorIs(t, err, ErrAdminRoleProtected)

	// Description changes are fine as long as the name stays.
	updated, err := roles.UpdateRole(ctx, admin.ID, domain.AdminRoleName, "platform administrators")
	require.NoError(t, err)
	require.Equal(t, "platform administrators", updated.Description)
}

func TestAdminRoleCannotBeDeactivatedOrDeleted(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	roles := &RoleService{Store: st}

	admin := seedRole(t, st, domain.AdminRoleName)

	_, err := roles.ToggleStatus(ctx, admin.ID)
	require.ErrorIs(t, err, ErrAdminRoleProtected)

	err = roles.DeleteRole(ctx, admin.ID)
	require.ErrorIs(t, err, ErrAdminRoleProtected)
}

func TestDeleteRoleBlockedWhileAssigned(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	roles := &RoleService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	user := seedUser(t, st, "11111111-1", "secret", true)
	grant(t, st, user.ID, operator.ID, m.ID)

	err := roles.DeleteRole(ctx, operator.ID)
	require.ErrorIs(t, err, ErrRoleAssigned)

	require.NoError(t, st.Assignments().RemoveUserRole(ctx, user.ID, operator.ID, m.ID))
	require.NoError(t, roles.DeleteRole(ctx, operator.ID))
}

func TestToggleStatusFlipsOrdinaryRole(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	roles := &RoleService{Store: st}

	operator := seedRole(t, st, "operator")

	toggled, err := roles.ToggleStatus(ctx, operator.ID)
	require.NoError(t, err)
	require.False(t, toggled.Active)

	toggled, err = roles.ToggleStatus(ctx, operator.ID)
	require.NoError(t, err)
	require.True(t, toggled.Active)
}
