package sac_test

import (
	"testing"

	"github.com/minerasur/sac/pkg/sacsdk"
	"github.com/stretchr/testify/require"
)

// TestFullProvisioningFlow walks the whole administration path: create a
// module with permissions, a role holding some of them, a user granted that
// role, then confirm what the user may do through validate-token.
func TestFullProvisioningFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := sacsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)

	module, err := admin.CreateModule(ctx, sacsdk.ModuleRequest{
		Name:        "inventory",
		Description: "Stock tracking",
		URL:         "https://inventory.example.com",
	})
	require.NoError(t, err)

	viewStock, err := admin.CreatePermission(ctx, sacsdk.CreatePermissionRequest{
		ModuleID: module.ID,
		Name:     "view_stock",
	})
	require.NoError(t, err)

	editStock, err := admin.CreatePermission(ctx, sacsdk.CreatePermissionRequest{
		ModuleID: module.ID,
		Name:     "edit_stock",
	})
	require.NoError(t, err)

	role, err := admin.CreateRole(ctx, sacsdk.RoleRequest{Name: "operator"})
	require.NoError(t, err)

	_, err = admin.SetRolePermissions(ctx, role.ID, sacsdk.SetRolePermissionsRequest{
		PermissionIDs: []string{viewStock.ID},
	})
	require.NoError(t, err)

	user, err := admin.CreateUser(ctx, sacsdk.CreateUserRequest{
		RUT:       "22222222-2",
		FirstName: "María",
		LastName:  "González",
		Email:     "maria@example.com",
		Password:  "Operator123!",
	})
	require.NoError(t, err)

	_, err = admin.AssignRoles(ctx, user.ID, sacsdk.AssignRolesRequest{
		ModuleID: module.ID,
		RoleIDs:  []string{role.ID},
	})
	require.NoError(t, err)

	// The user sees exactly what was provisioned.
	operator, err := client.Login(ctx, "22222222-2", "Operator123!", "e2e")
	require.NoError(t, err)

	result, err := operator.ValidateToken(ctx, module.ID)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.False(t, result.IsAdministrator)
	require.Equal(t, []string{"view_stock"}, result.Permissions)

	has, err := operator.VerifyPermission(ctx, "view_stock", module.ID)
	require.NoError(t, err)
	require.True(t, has)

	has, err = operator.VerifyPermission(ctx, "edit_stock", module.ID)
	require.NoError(t, err)
	require.False(t, has, "permission %s was never granted", editStock.Name)
}

// TestNonAdminCannotUseAdminSurface verifies the admin gate.
func TestNonAdminCannotUseAdminSurface(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := sacsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)

	_, err := admin.CreateUser(ctx, sacsdk.CreateUserRequest{
		RUT:       "22222222-2",
		FirstName: "María",
		LastName:  "González",
		Email:     "maria@example.com",
		Password:  "Operator123!",
	})
	require.NoError(t, err)

	user, err := client.Login(ctx, "22222222-2", "Operator123!", "e2e")
	require.NoError(t, err)

	_, err = user.ListUsers(ctx)
	require.True(t, sacsdk.IsForbidden(err), "got: %v", err)
}

// TestReplaceAllAssignment verifies assigning a new role set replaces the
// old one instead of accumulating.
func TestReplaceAllAssignment(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := sacsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)

	module, err := admin.CreateModule(ctx, sacsdk.ModuleRequest{Name: "inventory"})
	require.NoError(t, err)

	viewer, err := admin.CreateRole(ctx, sacsdk.RoleRequest{Name: "viewer"})
	require.NoError(t, err)
	operator, err := admin.CreateRole(ctx, sacsdk.RoleRequest{Name: "operator"})
	require.NoError(t, err)

	user, err := admin.CreateUser(ctx, sacsdk.CreateUserRequest{
		RUT:       "22222222-2",
		FirstName: "María",
		LastName:  "González",
		Email:     "maria@example.com",
		Password:  "Operator123!",
	})
	require.NoError(t, err)

	roles, err := admin.AssignRoles(ctx, user.ID, sacsdk.AssignRolesRequest{
		ModuleID: module.ID,
		RoleIDs:  []string{viewer.ID},
	})
	require.NoError(t, err)
	require.Len(t, roles.Roles, 1)
	require.Equal(t, "viewer", roles.Roles[0].Name)

	roles, err = admin.AssignRoles(ctx, user.ID, sacsdk.AssignRolesRequest{
		ModuleID: module.ID,
		RoleIDs:  []string{operator.ID},
	})
	require.NoError(t, err)
	require.Len(t, roles.Roles, 1, "assignment replaces, never accumulates")
	require.Equal(t, "operator", roles.Roles[0].Name)
}

// TestDeactivatedUserLosesAccessImmediately verifies toggle-status revokes
// live sessions and blocks new logins.
func TestDeactivatedUserLosesAccessImmediately(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := sacsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)

	user, err := admin.CreateUser(ctx, sacsdk.CreateUserRequest{
		RUT:       "22222222-2",
		FirstName: "María",
		LastName:  "González",
		Email:     "maria@example.com",
		Password:  "Operator123!",
	})
	require.NoError(t, err)

	session, err := client.Login(ctx, "22222222-2", "Operator123!", "e2e")
	require.NoError(t, err)

	toggled, err := admin.ToggleUserStatus(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, toggled.Active)

	_, err = session.UserInfo(ctx)
	require.True(t, sacsdk.IsSessionExpired(err), "got: %v", err)

	_, err = client.Login(ctx, "22222222-2", "Operator123!", "e2e")
	require.True(t, sacsdk.IsKind(err, sacsdk.KindAccountDisabled), "got: %v", err)
}

// TestAdministratorRoleIsProtected verifies the seeded role cannot be
// renamed, deactivated or deleted.
func TestAdministratorRoleIsProtected(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := sacsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)

	roles, err := admin.ListRoles(ctx)
	require.NoError(t, err)

	var adminRoleID string
	for _, r := range roles.Roles {
		if r.Name == "administrator" {
			adminRoleID = r.ID
		}
	}
	require.NotEmpty(t, adminRoleID, "seeded administrator role should exist")

	_, err = admin.UpdateRole(ctx, adminRoleID, sacsdk.RoleRequest{Name: "superuser"})
	require.True(t, sacsdk.IsForbidden(err), "got: %v", err)

	_, err = admin.ToggleRoleStatus(ctx, adminRoleID)
	require.True(t, sacsdk.IsForbidden(err), "got: %v", err)

	err = admin.DeleteRole(ctx, adminRoleID)
	require.True(t, sacsdk.IsForbidden(err), "got: %v", err)
}

// TestDashboardCounts verifies the admin landing counters move with the
// catalog.
func TestDashboardCounts(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := sacsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)

	before, err := admin.Dashboard(ctx)
	require.NoError(t, err)

	_, err = admin.CreateModule(ctx, sacsdk.ModuleRequest{Name: "inventory"})
	require.NoError(t, err)
	_, err = admin.CreateSite(ctx, sacsdk.SiteRequest{Location: "Antofagasta"})
	require.NoError(t, err)

	after, err := admin.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, before.TotalModules+1, after.TotalModules)
	require.Equal(t, before.TotalSites+1, after.TotalSites)
}
