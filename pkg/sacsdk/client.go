package sacsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the central access control service. It provides
// access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new access control service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with RUT and password and returns an authenticated
// session carrying the issued bearer token.
func (c *SDKClient) Login(ctx context.Context, rut, password, deviceName string) (*Session, error) {
	payload, err := json.Marshal(LoginRequest{
		RUT:        rut,
		Password:   password,
		DeviceName: deviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login", bytes.NewReader(payload), jsonHeaders)
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := decodeJSON(resp, &loginResp, http.StatusOK); err != nil {
		return nil, err
	}

	return newSession(c, loginResp), nil
}

// NewSessionFromToken creates an authenticated session from an existing
// bearer token, e.g. one stored by a previous login.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{
		client: c,
		token:  token,
	}
}
