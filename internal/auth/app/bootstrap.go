package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/idx"
)

// bootstrap makes a fresh database usable: the administrator role always
// exists, and when the user table is empty and bootstrap credentials are
// configured, a first administrator is created holding that role in a seeded
// console module. Without a first administrator every admin route would be
// unreachable.
func (app *Application) bootstrap(ctx context.Context) error {
	role, err := app.db.Roles().GetRoleByName(ctx, domain.AdminRoleName)
	if errors.Is(err, store.ErrNotFound) {
		now := time.Now().UTC()
		role = domain.Role{
			ID:          idx.New().String(),
			Name:        domain.AdminRoleName,
			Description: "Full access to every module and the admin console",
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err = app.db.Roles().CreateRole(ctx, role); err != nil {
			return fmt.Errorf("failed to seed administrator role: %w", err)
		}
		app.logger.Info("administrator role seeded", "role_id", role.ID)
	} else if err != nil {
		return err
	}

	if app.cfg.BootstrapRUT == "" || app.cfg.BootstrapPassword == "" {
		return nil
	}

	empty, err := app.db.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	module, err := app.db.Modules().GetModuleByName(ctx, "sac")
	if errors.Is(err, store.ErrNotFound) {
		now := time.Now().UTC()
		module = domain.Module{
			ID:          idx.New().String(),
			Name:        "sac",
			Description: "Central access control console",
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err = app.db.Modules().CreateModule(ctx, module); err != nil {
			return fmt.Errorf("failed to seed console module: %w", err)
		}
	} else if err != nil {
		return err
	}

	admin, err := app.userService.CreateUser(ctx, service.CreateUserInput{
		RUT:       app.cfg.BootstrapRUT,
		FirstName: "System",
		LastName:  "Administrator",
		Email:     "admin@localhost",
		Password:  app.cfg.BootstrapPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to seed first administrator: %w", err)
	}

	if err := app.db.Assignments().AddUserRole(ctx, admin.ID, role.ID, module.ID); err != nil {
		return fmt.Errorf("failed to grant administrator role: %w", err)
	}

	app.logger.Info("first administrator seeded", "user_id", admin.ID, "rut", admin.RUT)
	return nil
}
