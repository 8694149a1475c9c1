package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/internal/auth/store/drivers/sqlite"
	"github.com/minerasur/sac/pkg/cryptox"
	"github.com/minerasur/sac/pkg/idx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *Router
	store    store.Store
	sessions *service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sessions := &service.SessionService{Store: st}
	resolver := &service.Resolver{Store: st}

	router := NewRouter("test", st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.SessionService = sessions
	router.Resolver = resolver
	router.UserService = &service.UserService{Store: st, Sessions: sessions}
	router.RoleService = &service.RoleService{Store: st, Sessions: sessions}
	router.AssignmentService = &service.AssignmentService{Store: st}
	router.CatalogService = &service.CatalogService{Store: st}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, sessions: sessions}
}

// do performs one request against the router. A non-empty token is sent as a
// bearer credential; a non-nil body is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func seedUser(t *testing.T, st store.Store, rut, password string, active bool) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		RUT:          rut,
		FirstName:    "Test",
		LastName:     "User",
		Email:        rut + "@example.com",
		PasswordHash: hash,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func seedRole(t *testing.T, st store.Store, name string) domain.Role {
	t.Helper()

	now := time.Now().UTC()
	role := domain.Role{
		ID:        idx.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Roles().CreateRole(context.Background(), role))
	return role
}

func seedModule(t *testing.T, st store.Store, name string, active bool) domain.Module {
	t.Helper()

	now := time.Now().UTC()
	module := domain.Module{
		ID:        idx.New().String(),
		Name:      name,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Modules().CreateModule(context.Background(), module))
	return module
}

func seedPermission(t *testing.T, st store.Store, moduleID, name string) domain.Permission {
	t.Helper()

	now := time.Now().UTC()
	perm := domain.Permission{
		ID:        idx.New().String(),
		ModuleID:  moduleID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Permissions().CreatePermission(context.Background(), perm))
	return perm
}

func grant(t *testing.T, st store.Store, userID, roleID, moduleID string) {
	t.Helper()
	require.NoError(t, st.Assignments().AddUserRole(context.Background(), userID, roleID, moduleID))
}

func grantPermission(t *testing.T, st store.Store, roleID, permissionID string) {
	t.Helper()
	require.NoError(t, st.Assignments().AddRolePermission(context.Background(), roleID, permissionID))
}

// login issues a real session for the user through the public endpoint.
func (e *testEnv) login(t *testing.T, rut, password string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"rut":      rut,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decodeResponse(t, rec)
	token, ok := payload["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
