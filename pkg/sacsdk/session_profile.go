package sacsdk

import (
	"context"
	"net/http"
)

// Profile returns the caller's own account record.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/profile", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the caller's own names and email. RUT, status, site
// and grants stay admin-only.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/profile", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the caller's password after verifying the current
// one. Every other session the caller holds is revoked; this one survives.
func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	resp, err := s.doJSON(ctx, http.MethodPut, "/v1/profile/password", ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ProfileStats returns the caller's usage summary.
func (s *Session) ProfileStats(ctx context.Context) (*ProfileStats, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/profile/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats ProfileStats
	if err := decodeJSON(resp, &stats, http.StatusOK); err != nil {
		return nil, err
	}
	return &stats, nil
}
