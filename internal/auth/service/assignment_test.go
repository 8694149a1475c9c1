package service

import (
	"context"
	"testing"

	"github.com/minerasur/sac/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestSetUserRolesReplacesExistingSet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	supervisor := seedRole(t, st, "supervisor")
	viewer := seedRole(t, st, "viewer")
	user := seedUser(t, st, "11111111-1", "secret", true)

	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, []string{operator.ID, viewer.ID}))

	roles, err := assignments.RolesOf(ctx, user.ID, m.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	// Replacing with a different set drops the old grants entirely.
	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, []string{supervisor.ID}))

	roles, err = assignments.RolesOf(ctx, user.ID, m.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, supervisor.ID, roles[0].ID)
}

func TestSetUserRolesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	user := seedUser(t, st, "11111111-1", "secret", true)

	set := []string{operator.ID, operator.ID} // duplicate input collapses
	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, set))
	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, set))

	roles, err := assignments.RolesOf(ctx, user.ID, m.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestSetUserRolesEmptySetClearsModule(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	user := seedUser(t, st, "11111111-1", "secret", true)

	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, []string{operator.ID}))
	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, nil))

	roles, err := assignments.RolesOf(ctx, user.ID, m.ID)
	require.NoError(t, err)
	require.Empty(t, roles)
}

func TestSetUserRolesRejectsDanglingIDs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	user := seedUser(t, st, "11111111-1", "secret", true)

	err := assignments.SetUserRolesInModule(ctx, "missing", m.ID, []string{operator.ID})
	require.ErrorIs(t, err, store.ErrNotFound)

	err = assignments.SetUserRolesInModule(ctx, user.ID, "missing", []string{operator.ID})
	require.ErrorIs(t, err, store.ErrNotFound)

	err = assignments.SetUserRolesInModule(ctx, user.ID, m.ID, []string{"missing"})
	require.ErrorIs(t, err, store.ErrNotFound)

	// A failed replace must not have wiped the existing grants.
	require.NoError(t, assignments.SetUserRolesInModule(ctx, user.ID, m.ID, []string{operator.ID}))
	err = assignments.SetUserRolesInModule(ctx, user.ID, m.ID, []string{"missing"})
	require.ErrorIs(t, err, store.ErrNotFound)

	roles, err := assignments.RolesOf(ctx, user.ID, m.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestAddAssignmentConflictsOnDuplicate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	user := seedUser(t, st, "11111111-1", "secret", true)

	require.NoError(t, assignments.AddAssignment(ctx, user.ID, operator.ID, m.ID))

	err := assignments.AddAssignment(ctx, user.ID, operator.ID, m.ID)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestRemoveAssignmentAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	user := seedUser(t, st, "11111111-1", "secret", true)

	// Nothing assigned yet; removal succeeds anyway.
	require.NoError(t, assignments.RemoveAssignment(ctx, user.ID, operator.ID, m.ID))

	// Dangling ids still fail.
	err := assignments.RemoveAssignment(ctx, user.ID, "missing", m.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetRolePermissionsReplacesSet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	m := seedModule(t, st, "production", true)
	operator := seedRole(t, st, "operator")
	view := seedPermission(t, st, m.ID, "view_production")
	edit := seedPermission(t, st, m.ID, "edit_production")

	require.NoError(t, assignments.SetRolePermissions(ctx, operator.ID, []string{view.ID, edit.ID}))

	perms, err := assignments.PermissionsOfRole(ctx, operator.ID)
	require.NoError(t, err)
	require.Len(t, perms, 2)

	require.NoError(t, assignments.SetRolePermissions(ctx, operator.ID, []string{view.ID}))

	perms, err = assignments.PermissionsOfRole(ctx, operator.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.Equal(t, view.ID, perms[0].ID)
}

func TestPermissionsOfRoleIsUnscoped(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	assignments := &AssignmentService{Store: st}

	production := seedModule(t, st, "production", true)
	reports := seedModule(t, st, "reports", true)
	operator := seedRole(t, st, "operator")

	grantPermission(t, st, operator.ID, seedPermission(t, st, production.ID, "view_production").ID)
	grantPermission(t, st, operator.ID, seedPermission(t, st, reports.ID, "view_reports").ID)

	// The raw role view spans modules; only the Resolver filters.
	perms, err := assignments.PermissionsOfRole(ctx, operator.ID)
	require.NoError(t, err)
	require.Len(t, perms, 2)
}
