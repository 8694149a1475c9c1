package httpx

import (
	"fmt"
	"net/http"
)

// Stable machine-readable error kinds. Clients branch on these, never on the
// human-readable message.
const (
	KindInvalidCredentials = "invalid_credentials"
	KindAccountDisabled    = "account_disabled"
	KindUnauthenticated    = "unauthenticated"
	KindSessionExpired     = "session_expired"
	KindForbidden          = "forbidden"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindValidationError    = "validation_error"
	KindServerError        = "server_error"
)

// APIError is the wire shape of every error this service returns: a stable
// kind plus a human-readable message. It implements error so the SDK can
// surface it directly.
type APIError struct {
	StatusCode int    `json:"-"`
	Kind       string `json:"error"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// WriteTo writes this error to an HTTP response writer.
func (e *APIError) WriteTo(w http.ResponseWriter) {
	WriteJSON(w, e.StatusCode, map[string]string{
		"error":   e.Kind,
		"message": e.Message,
	})
}

var (
	// ErrInvalidCredentials deliberately does not reveal whether the
	// identifier or the secret was wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindInvalidCredentials,
		Message:    "the credentials are incorrect",
	}

	// ErrAccountDisabled is returned when credentials verify but the account
	// has been deactivated.
	ErrAccountDisabled = &APIError{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindAccountDisabled,
		Message:    "this account has been deactivated, contact an administrator",
	}

	// ErrUnauthenticated is returned when no usable bearer token was presented.
	ErrUnauthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindUnauthenticated,
		Message:    "authentication required",
	}

	// ErrSessionExpired is returned when a previously valid session has ended.
	// Kept distinct from unauthenticated so frontends can say "your session
	// ended" instead of "please log in".
	ErrSessionExpired = &APIError{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindSessionExpired,
		Message:    "your session has expired, please log in again",
	}

	// ErrForbidden is returned when the caller is authenticated but lacks the
	// required role or permission.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Kind:       KindForbidden,
		Message:    "you do not have permission to access this resource",
	}

	// ErrNotFound is returned for dangling references and missing records.
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Kind:       KindNotFound,
		Message:    "the requested resource does not exist",
	}

	// ErrConflict is returned on uniqueness violations.
	ErrConflict = &APIError{
		StatusCode: http.StatusConflict,
		Kind:       KindConflict,
		Message:    "the resource already exists",
	}

	// ErrServer never leaks storage internals.
	ErrServer = &APIError{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindServerError,
		Message:    "internal server error",
	}
)

// ValidationError builds a validation_error with a request-specific message.
func ValidationError(message string) *APIError {
	return &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Kind:       KindValidationError,
		Message:    message,
	}
}

// Forbidden builds a forbidden error with a request-specific message, used
// where the generic wording would hide the actual rule (admin role
// protection, self-deactivation).
func Forbidden(message string) *APIError {
	return &APIError{
		StatusCode: http.StatusForbidden,
		Kind:       KindForbidden,
		Message:    message,
	}
}
