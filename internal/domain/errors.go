// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPriority is returned when a priority is not one of the
	// known priority levels.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidRole is returned when a role is not USER or ADMIN.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidAuditAction is returned when an audit action is empty.
	ErrInvalidAuditAction = errors.New("invalid audit action")
)

// ValidationError carries the field that failed validation along with a
// human-readable message. It wraps ErrValidation so callers can use
// errors.Is for coarse checks and errors.As for the details.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return "validation failed: " + e.Field + ": " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
