package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidID       = errors.New("invalid product ID format")

	ErrConflict   = errors.New("conflict")
	ErrUserExists = fmt.Errorf("user already exists: %w", ErrConflict)

	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingToken       = fmt.Errorf("%w: no token provided", ErrUnauthorized)
	ErrMalformedHeader    = fmt.Errorf("%w: malformed authorization header", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrTokenUserGone      = fmt.Errorf("%w: user not found", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)

	ErrForbidden    = errors.New("access forbidden")
	ErrOriginDenied = fmt.Errorf("origin not allowed: %w", ErrForbidden)
	ErrUnavailable  = errors.New("storage unavailable")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RateLimitError is returned when a client exceeded a limiter window.
type RateLimitError struct {
	Limiter    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit %q exceeded, retry after %s", e.Limiter, e.RetryAfter)
}
