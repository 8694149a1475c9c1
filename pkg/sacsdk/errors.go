package sacsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error kinds, mirrored from the service. Clients
// branch on these, never on the human-readable message.
const (
	KindInvalidCredentials = "invalid_credentials"
	KindAccountDisabled    = "account_disabled"
	KindUnauthenticated    = "unauthenticated"
	KindSessionExpired     = "session_expired"
	KindForbidden          = "forbidden"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindValidationError    = "validation_error"
	KindRateLimitExceeded  = "rate_limit_exceeded"
	KindServerError        = "server_error"
)

// APIError is a typed error parsed from a service error response.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsSessionExpired reports whether the session behind a request has ended
// and the caller should log in again.
func IsSessionExpired(err error) bool {
	return IsKind(err, KindSessionExpired) || IsKind(err, KindUnauthenticated)
}

// IsForbidden reports whether the caller lacked the required role or
// permission.
func IsForbidden(err error) bool {
	return IsKind(err, KindForbidden)
}

// IsNotFound reports whether the referenced resource does not exist.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// parseErrorResponse turns an error response body into a typed *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Kind != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       errResp.Kind,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Kind:       KindServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
