package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/internal/auth/store/drivers/sqlite"
	"github.com/minerasur/sac/pkg/cryptox"
	"github.com/minerasur/sac/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
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

func ttl(d time.Duration) *time.Duration { return &d }
