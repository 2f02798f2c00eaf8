// Package service provides application-level services for managing items,
// categories, dashboards, and the audit trail.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrForbidden indicates the acting user may not touch the target
	// resource. Returned only after the resource was confirmed to exist.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("access to resource denied")

	// ErrAggregationFailed indicates the dashboard report could not be
	// assembled, because a sub-query failed or the deadline passed.
	// Partial reports are never returned.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrAggregationFailed = errors.New("dashboard aggregation failed")
)

// ItemServiceError is a custom error type for item service errors.
type ItemServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ItemServiceError.
func (e *ItemServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("item service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("item service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ItemServiceError) Unwrap() error {
	return e.Err
}

// NewItemServiceError creates a new ItemServiceError.
func NewItemServiceError(operation, message string, err error) *ItemServiceError {
	return &ItemServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
