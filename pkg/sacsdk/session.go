package sacsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session represents an authenticated session holding an opaque bearer
// token. Tokens do not auto-renew; call Refresh to rotate before the
// configured expiry, or log in again after it.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	expiresAt *time.Time
	user      User
}

// newSession creates a new authenticated session from a login response.
func newSession(client *SDKClient, resp LoginResponse) *Session {
	return &Session{
		client:    client,
		token:     resp.Token,
		expiresAt: resp.ExpiresAt,
		user:      resp.User,
	}
}

// Token returns the current bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresAt returns the token deadline, or nil when the token never expires.
func (s *Session) ExpiresAt() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// User returns the identity captured at login. Zero when the session was
// built from a stored token; use UserInfo for a fresh snapshot.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Logout revokes the session's token. Sessions on other devices survive.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Refresh rotates the token: the current one is revoked and the session
// starts carrying its replacement.
func (s *Session) Refresh(ctx context.Context, deviceName string) error {
	var payload any
	if deviceName != "" {
		payload = RefreshRequest{DeviceName: deviceName}
	}

	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", payload)
	if err != nil {
		return err
	}

	var loginResp LoginResponse
	if err := decodeJSON(resp, &loginResp, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = loginResp.Token
	s.expiresAt = loginResp.ExpiresAt
	s.user = loginResp.User
	s.mu.Unlock()

	return nil
}

// UserInfo returns the caller's identity snapshot: profile, accessible
// modules and the administrator flag.
func (s *Session) UserInfo(ctx context.Context) (*UserInfoResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/user", nil)
	if err != nil {
		return nil, err
	}

	var info UserInfoResponse
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}

// ValidateToken asks the service what this session may do inside one module.
// Sibling modules call this instead of re-implementing permission
// resolution.
func (s *Session) ValidateToken(ctx context.Context, moduleID string) (*ValidateTokenResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/auth/validate-token", ValidateTokenRequest{ModuleID: moduleID})
	if err != nil {
		return nil, err
	}

	var out ValidateTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPermission reports whether the session holds one specific permission
// inside a module.
func (s *Session) VerifyPermission(ctx context.Context, permission, moduleID string) (bool, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/auth/verify-permission", VerifyPermissionRequest{
		Permission: permission,
		ModuleID:   moduleID,
	})
	if err != nil {
		return false, err
	}

	var out VerifyPermissionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.HasPermission, nil
}

// Modules lists the active modules the caller can enter.
func (s *Session) Modules(ctx context.Context) (*ModulesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/modules", nil)
	if err != nil {
		return nil, err
	}

	var out ModulesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ModulePermissions lists the caller's effective permission names inside one
// module.
func (s *Session) ModulePermissions(ctx context.Context, moduleID string) (*ModulePermissionNamesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/modules/"+moduleID+"/permissions", nil)
	if err != nil {
		return nil, err
	}

	var out ModulePermissionNamesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sites lists the site catalog.
func (s *Session) Sites(ctx context.Context) (*SitesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/sites", nil)
	if err != nil {
		return nil, err
	}

	var out SitesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
