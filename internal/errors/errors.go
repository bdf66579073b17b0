package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ValidationError represents an error when request input is missing or invalid
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// AuthError represents a missing or unresolvable identity
type AuthError struct {
	Reason  string
	Message string
}

// Error returns the error message
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// AuthorizationError represents a resolved identity without the required role
type AuthorizationError struct {
	Username       string
	RequiredAccess string
}

// Error returns the error message
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("permission error for user %q: requires %s access", e.Username, e.RequiredAccess)
}

// NotFoundError represents a referenced entity that does not exist
type NotFoundError struct {
	Entity string
	Key    string
}

// Error returns the error message
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// RateLimitError represents an action attempted too often from one client
type RateLimitError struct {
	Action string
	Window time.Duration
}

// Error returns the error message
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (window %s)", e.Action, e.Window)
}

// InternalError represents an unexpected failure such as store I/O
type InternalError struct {
	Operation string
	Err       error
}

// Error returns the error message
func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Section string
	Message string
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
}

// StatusOf maps an error to the HTTP status of its taxonomy class.
// Untyped errors are internal.
func StatusOf(err error) int {
	var (
		validationErr *ValidationError
		authErr       *AuthError
		authzErr      *AuthorizationError
		notFoundErr   *NotFoundError
		rateErr       *RateLimitError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.As(err, &validationErr):
		return http.StatusBadRequest
	case stderrors.As(err, &authErr):
		return http.StatusUnauthorized
	case stderrors.As(err, &authzErr):
		return http.StatusForbidden
	case stderrors.As(err, &notFoundErr):
		return http.StatusNotFound
	case stderrors.As(err, &rateErr):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf returns the client-facing message for an error
func MessageOf(err error) string {
	var (
		validationErr *ValidationError
		authErr       *AuthError
		notFoundErr   *NotFoundError
		authzErr      *AuthorizationError
		rateErr       *RateLimitError
	)

	switch {
	case stderrors.As(err, &validationErr):
		return validationErr.Message
	case stderrors.As(err, &authErr):
		if authErr.Message != "" {
			return authErr.Message
		}
		return "Unauthorized"
	case stderrors.As(err, &authzErr):
		return "Access denied"
	case stderrors.As(err, &notFoundErr):
		return notFoundErr.Entity + " not found"
	case stderrors.As(err, &rateErr):
		return "Too many attempts, try again later"
	default:
		return "Internal server error"
	}
}
