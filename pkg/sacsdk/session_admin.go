package sacsdk

import (
	"context"
	"net/http"
)

// Admin surface. Every method here requires the session to hold the
// administrator role; non-admins get a forbidden error.

func (s *Session) ListUsers(ctx context.Context) (*UsersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/users", nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/users", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) GetUser(ctx context.Context, userID string) (*UserDetailResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/users/"+userID, nil)
	if err != nil {
		return nil, err
	}

	var out UserDetailResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*User, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/admin/users/"+userID, req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/admin/users/"+userID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) ToggleUserStatus(ctx context.Context, userID string) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admin/users/"+userID+"/toggle-status", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// AssignRoles replaces the user's role set inside one module atomically.
func (s *Session) AssignRoles(ctx context.Context, userID string, req AssignRolesRequest) (*RolesResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/users/"+userID+"/assign-roles", req)
	if err != nil {
		return nil, err
	}

	var out RolesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveRole deletes one grant. Removing an absent grant succeeds.
func (s *Session) RemoveRole(ctx context.Context, userID string, req RemoveRoleRequest) error {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/users/"+userID+"/remove-role", req)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) UserGrants(ctx context.Context, userID string) (*UserGrantsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/users/"+userID+"/roles", nil)
	if err != nil {
		return nil, err
	}

	var out UserGrantsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListRoles(ctx context.Context) (*RolesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/roles", nil)
	if err != nil {
		return nil, err
	}

	var out RolesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreateRole(ctx context.Context, req RoleRequest) (*Role, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/roles", req)
	if err != nil {
		return nil, err
	}

	var role Role
	if err := decodeJSON(resp, &role, http.StatusCreated); err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *Session) GetRole(ctx context.Context, roleID string) (*RoleDetailResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/roles/"+roleID, nil)
	if err != nil {
		return nil, err
	}

	var out RoleDetailResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateRole(ctx context.Context, roleID string, req RoleRequest) (*Role, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/admin/roles/"+roleID, req)
	if err != nil {
		return nil, err
	}

	var role Role
	if err := decodeJSON(resp, &role, http.StatusOK); err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *Session) DeleteRole(ctx context.Context, roleID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/admin/roles/"+roleID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) ToggleRoleStatus(ctx context.Context, roleID string) (*Role, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admin/roles/"+roleID+"/toggle-status", nil)
	if err != nil {
		return nil, err
	}

	var role Role
	if err := decodeJSON(resp, &role, http.StatusOK); err != nil {
		return nil, err
	}
	return &role, nil
}

// SetRolePermissions replaces the role's permission set atomically.
func (s *Session) SetRolePermissions(ctx context.Context, roleID string, req SetRolePermissionsRequest) (*PermissionsResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/admin/roles/"+roleID+"/permissions", req)
	if err != nil {
		return nil, err
	}

	var out PermissionsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) RoleUsers(ctx context.Context, roleID string) (*UsersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/roles/"+roleID+"/users", nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListAllModules(ctx context.Context) (*ModulesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/modules", nil)
	if err != nil {
		return nil, err
	}

	var out ModulesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreateModule(ctx context.Context, req ModuleRequest) (*Module, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/modules", req)
	if err != nil {
		return nil, err
	}

	var module Module
	if err := decodeJSON(resp, &module, http.StatusCreated); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *Session) GetModule(ctx context.Context, moduleID string) (*ModuleDetailResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/modules/"+moduleID, nil)
	if err != nil {
		return nil, err
	}

	var out ModuleDetailResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateModule(ctx context.Context, moduleID string, req ModuleRequest) (*Module, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/admin/modules/"+moduleID, req)
	if err != nil {
		return nil, err
	}

	var module Module
	if err := decodeJSON(resp, &module, http.StatusOK); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *Session) DeleteModule(ctx context.Context, moduleID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/admin/modules/"+moduleID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) ToggleModuleStatus(ctx context.Context, moduleID string) (*Module, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admin/modules/"+moduleID+"/toggle-status", nil)
	if err != nil {
		return nil, err
	}

	var module Module
	if err := decodeJSON(resp, &module, http.StatusOK); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *Session) ListPermissions(ctx context.Context) (*PermissionsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/permissions", nil)
	if err != nil {
		return nil, err
	}

	var out PermissionsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*Permission, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/permissions", req)
	if err != nil {
		return nil, err
	}

	var perm Permission
	if err := decodeJSON(resp, &perm, http.StatusCreated); err != nil {
		return nil, err
	}
	return &perm, nil
}

func (s *Session) UpdatePermission(ctx context.Context, permissionID string, req UpdatePermissionRequest) (*Permission, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/admin/permissions/"+permissionID, req)
	if err != nil {
		return nil, err
	}

	var perm Permission
	if err := decodeJSON(resp, &perm, http.StatusOK); err != nil {
		return nil, err
	}
	return &perm, nil
}

func (s *Session) DeletePermission(ctx context.Context, permissionID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/admin/permissions/"+permissionID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) CreateSite(ctx context.Context, req SiteRequest) (*Site, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/admin/sites", req)
	if err != nil {
		return nil, err
	}

	var site Site
	if err := decodeJSON(resp, &site, http.StatusCreated); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Session) UpdateSite(ctx context.Context, siteID string, req SiteRequest) (*Site, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/admin/sites/"+siteID, req)
	if err != nil {
		return nil, err
	}

	var site Site
	if err := decodeJSON(resp, &site, http.StatusOK); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Session) DeleteSite(ctx context.Context, siteID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/admin/sites/"+siteID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) Dashboard(ctx context.Context) (*DashboardStats, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats DashboardStats
	if err := decodeJSON(resp, &stats, http.StatusOK); err != nil {
		return nil, err
	}
	return &stats, nil
}
