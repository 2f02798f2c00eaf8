// Package api exposes the task tracker over HTTP: chi handlers, request
// and response models, and the mapping from internal errors to status
// codes.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/service"
	"github.com/taskledger/taskledger-api/internal/service/auth"
	"github.com/taskledger/taskledger-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// The not-found check runs before the forbidden check everywhere this
// mapping is reached, because the access checkpoint orders them that way.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Lost optimistic-concurrency races
	case errors.Is(err, store.ErrConcurrentModification):
		return http.StatusConflict

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrForbidden):
		return "You do not have access to this resource"

	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"

	case errors.Is(err, store.ErrAttachmentNotFound):
		return "Attachment not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrConcurrentModification):
		return "The item was modified concurrently; reload and retry"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrAggregationFailed):
		return "Failed to build dashboard report"

	case isDomainValidationError(err):
		// Domain validation messages are written for end users.
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether err is one of the domain's
// field-level validation errors.
func isDomainValidationError(err error) bool {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return true
	}

	for _, sentinel := range []error{
		domain.ErrItemTitleEmpty,
		domain.ErrItemTitleTooLong,
		domain.ErrItemDescriptionTooLong,
		domain.ErrInvalidPriority,
		domain.ErrEmptyUsername,
		domain.ErrUsernameTooLong,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrCategoryNameEmpty,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// SanitizeValidationError removes sensitive details from validator/v10
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Username' Error:Field validation
	// for 'Username' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return "Invalid " + field + ": " + validationTagMessage(tag)
				}
				return "Invalid " + field
			}
		}
	}

	return "Validation error"
}

// validationTagMessage maps validation tags to user-friendly error messages
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
