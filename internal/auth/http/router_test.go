package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLoginAndUserInfo(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.store, "11111111-1", "secret-password", true)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodGet, "/v1/auth/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decodeResponse(t, rec)
	user := payload["user"].(map[string]any)
	require.Equal(t, "11111111-1", user["rut"])
	require.Equal(t, false, payload["is_administrator"])
}

func TestMissingTokenIsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.KindUnauthenticated, decodeResponse(t, rec)["error"])
}

func TestRevokedTokenIsSessionExpired(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.store, "11111111-1", "secret-password", true)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodPost, "/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/profile", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.KindSessionExpired, decodeResponse(t, rec)["error"])
}

func TestUnknownTokenIsSessionExpired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/profile", "never-issued", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.KindSessionExpired, decodeResponse(t, rec)["error"])
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"rut": "11111111-1",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, httpx.KindValidationError, decodeResponse(t, rec)["error"])
}

func TestAdminRoutesRequireAdministratorRole(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.store, "11111111-1", "secret-password", true)
	module := seedModule(t, env.store, "inventory", true)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodGet, "/v1/admin/users", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Holding the administrator role in any single module opens the admin
	// surface.
	admin := seedRole(t, env.store, domain.AdminRoleName)
	grant(t, env.store, user.ID, admin.ID, module.ID)

	rec = env.do(t, http.MethodGet, "/v1/admin/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestValidateTokenRequiresModuleRole(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.store, "11111111-1", "secret-password", true)
	module := seedModule(t, env.store, "inventory", true)
	role := seedRole(t, env.store, "operator")
	perm := seedPermission(t, env.store, module.ID, "view_stock")
	grantPermission(t, env.store, role.ID, perm.ID)

	token := env.login(t, "11111111-1", "secret-password")

	body := map[string]string{"module_id": module.ID}

	rec := env.do(t, http.MethodPost, "/v1/auth/validate-token", token, body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	grant(t, env.store, user.ID, role.ID, module.ID)

	rec = env.do(t, http.MethodPost, "/v1/auth/validate-token", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decodeResponse(t, rec)
	require.Equal(t, true, payload["valid"])
	require.Equal(t, []any{"view_stock"}, payload["permissions"])
	require.Equal(t, false, payload["is_administrator"])
}

func TestValidateTokenUnknownModuleIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.store, "11111111-1", "secret-password", true)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodPost, "/v1/auth/validate-token", token, map[string]string{
		"module_id": "missing",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyPermission(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.store, "11111111-1", "secret-password", true)
	module := seedModule(t, env.store, "inventory", true)
	role := seedRole(t, env.store, "operator")
	perm := seedPermission(t, env.store, module.ID, "view_stock")
	grantPermission(t, env.store, role.ID, perm.ID)
	grant(t, env.store, user.ID, role.ID, module.ID)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodPost, "/v1/auth/verify-permission", token, map[string]string{
		"permission": "view_stock",
		"module_id":  module.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, true, decodeResponse(t, rec)["has_permission"])

	rec = env.do(t, http.MethodPost, "/v1/auth/verify-permission", token, map[string]string{
		"permission": "edit_stock",
		"module_id":  module.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeResponse(t, rec)["has_permission"])
}

func TestRequirePermissionMiddleware(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env.store, "11111111-1", "secret-password", true)
	module := seedModule(t, env.store, "inventory", true)
	role := seedRole(t, env.store, "operator")
	perm := seedPermission(t, env.store, module.ID, "view_stock")
	grantPermission(t, env.store, role.ID, perm.ID)
	grant(t, env.store, user.ID, role.ID, module.ID)

	gate := &Gate{Sessions: env.sessions, Resolver: env.router.Resolver}
	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		gate.RequireSession,
		gate.RequirePermission("edit_stock", func(*http.Request) string { return module.ID }),
	)

	token := env.login(t, "11111111-1", "secret-password")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	editPerm := seedPermission(t, env.store, module.ID, "edit_stock")
	grantPermission(t, env.store, role.ID, editPerm.ID)

	req = httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeResponse(t, rec)["status"])

	rec = env.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeResponse(t, rec)
	require.Equal(t, "ok", payload["status"])
	require.Equal(t, "ok", payload["checks"].(map[string]any)["database"])
}

func TestAssignRolesReplacesSetOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	adminUser := seedUser(t, env.store, "11111111-1", "secret-password", true)
	target := seedUser(t, env.store, "22222222-2", "another-password", true)
	module := seedModule(t, env.store, "inventory", true)
	adminRole := seedRole(t, env.store, domain.AdminRoleName)
	operator := seedRole(t, env.store, "operator")
	viewer := seedRole(t, env.store, "viewer")
	grant(t, env.store, adminUser.ID, adminRole.ID, module.ID)
	grant(t, env.store, target.ID, viewer.ID, module.ID)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodPost, "/v1/admin/users/"+target.ID+"/assign-roles", token, map[string]any{
		"module_id": module.ID,
		"role_ids":  []string{operator.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	roles := decodeResponse(t, rec)["roles"].([]any)
	require.Len(t, roles, 1)
	require.Equal(t, "operator", roles[0].(map[string]any)["name"])
}

func TestAdminRenameOfAdministratorRoleIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	adminUser := seedUser(t, env.store, "11111111-1", "secret-password", true)
	module := seedModule(t, env.store, "inventory", true)
	adminRole := seedRole(t, env.store, domain.AdminRoleName)
	grant(t, env.store, adminUser.ID, adminRole.ID, module.ID)

	token := env.login(t, "11111111-1", "secret-password")

	rec := env.do(t, http.MethodPut, "/v1/admin/roles/"+adminRole.ID, token, map[string]string{
		"name": "superuser",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, httpx.KindForbidden, decodeResponse(t, rec)["error"])
}

func TestDisabledAccountCannotLogIn(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.store, "11111111-1", "secret-password", false)

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"rut":      "11111111-1",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httpx.KindAccountDisabled, decodeResponse(t, rec)["error"])
}
