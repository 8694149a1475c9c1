package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/cryptox"
	"github.com/minerasur/sac/pkg/idx"
	"github.com/minerasur/sac/pkg/slogx"
)

// UserService covers account administration and self-service profile
// operations. Session revocation side effects go through Sessions so the
// ledger stays the single owner of token lifecycles.
type UserService struct {
	Store    store.Store
	Sessions *SessionService
}

type CreateUserInput struct {
	RUT       string
	FirstName string
	LastName  string
	Email     string
	Password  string
	SiteID    *string
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if in.SiteID != nil {
		if _, err := s.Store.Sites().GetSiteByID(ctx, *in.SiteID); err != nil {
			return domain.User{}, err
		}
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		RUT:          strings.TrimSpace(in.RUT),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Active:       true,
		SiteID:       in.SiteID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	l.Info("user created", slog.String("user_id", user.ID), slog.String("rut", user.RUT))
	return user, nil
}

type UpdateUserInput struct {
	RUT       string
	FirstName string
	LastName  string
	Email     string
	SiteID    *string
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if in.SiteID != nil {
		if _, err := s.Store.Sites().GetSiteByID(ctx, *in.SiteID); err != nil {
			return domain.User{}, err
		}
	}

	user.RUT = strings.TrimSpace(in.RUT)
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = strings.TrimSpace(in.Email)
	user.SiteID = in.SiteID

	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

// SetPassword is the admin reset: no current-password proof, and every
// session the user holds is revoked.
func (s *UserService) SetPassword(ctx context.Context, userID, newPassword string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	return s.Sessions.RevokeAll(ctx, userID)
}

// ChangePassword is the self-service flow: the caller proves the current
// password, and every session except the one making this request is revoked.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, currentToken string) error {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.Sessions.RevokeOthers(ctx, userID, currentToken); err != nil {
		return err
	}

	l.Info("password changed", slog.String("user_id", userID))
	return nil
}

// ToggleStatus flips the target's active flag. Self-targeting is forbidden;
// deactivation revokes every session the target holds.
func (s *UserService) ToggleStatus(ctx context.Context, actorID, targetID string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if actorID == targetID {
		return domain.User{}, ErrSelfAction
	}

	user, err := s.Store.Users().GetUserByID(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().SetUserActive(ctx, targetID, !user.Active); err != nil {
		return domain.User{}, err
	}
	user.Active = !user.Active

	if !user.Active {
		if err := s.Sessions.RevokeAll(ctx, targetID); err != nil {
			return domain.User{}, err
		}
		l.Info("user deactivated, sessions revoked", slog.String("user_id", targetID))
	}

	return user, nil
}

// DeleteUser removes the account; grants and tokens go with it via schema
// cascades. Self-deletion is forbidden.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	if err := s.Sessions.RevokeAll(ctx, targetID); err != nil {
		return err
	}
	return s.Store.Users().DeleteUser(ctx, targetID)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// UpdateProfile is the self-service subset of UpdateUser: names and email
// only, never RUT, site or active state.
func (s *UserService) UpdateProfile(ctx context.Context, userID, firstName, lastName, email string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	user.FirstName = strings.TrimSpace(firstName)
	user.LastName = strings.TrimSpace(lastName)
	user.Email = strings.TrimSpace(email)

	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ProfileStats summarizes the caller's own footprint.
type ProfileStats struct {
	ActiveSessions    int `json:"active_sessions"`
	AccessibleModules int `json:"accessible_modules"`
	RolesHeld         int `json:"roles_held"`
}

func (s *UserService) Stats(ctx context.Context, userID string) (ProfileStats, error) {
	sessions, err := s.Sessions.ActiveSessions(ctx, userID)
	if err != nil {
		return ProfileStats{}, err
	}

	modules, err := s.Store.Assignments().ListUserModules(ctx, userID)
	if err != nil {
		return ProfileStats{}, err
	}

	grants, err := s.Store.Assignments().ListUserGrants(ctx, userID)
	if err != nil {
		return ProfileStats{}, err
	}

	return ProfileStats{
		ActiveSessions:    sessions,
		AccessibleModules: len(modules),
		RolesHeld:         len(grants),
	}, nil
}
