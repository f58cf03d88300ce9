package hotjar

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidCredentials indicates an empty email or password
	ErrInvalidCredentials = errors.New("hotjar email and password are required")
	// ErrUnauthorized indicates the login handshake was rejected
	ErrUnauthorized = errors.New("unauthorized: hotjar login rejected")
	// ErrInvalidResponse indicates the API returned an unexpected response shape
	ErrInvalidResponse = errors.New("invalid response from hotjar API")
)

// AuthorizationError is returned when login fails. Body holds the raw
// response text for diagnostics.
type AuthorizationError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface
func (e *AuthorizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hotjar authorization failed: status %d: %v: %s", e.StatusCode, e.Err, e.Body)
	}
	return fmt.Sprintf("hotjar authorization failed: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap returns the underlying decode error, if any
func (e *AuthorizationError) Unwrap() error {
	return e.Err
}

// Is reports ErrUnauthorized as a match so callers can test with errors.Is
func (e *AuthorizationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// APIError represents a non-2xx response from a hotjar endpoint
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("hotjar API error: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an expired or missing session
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
