package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Username echoes the account name for client convenience
	Username string `json:"username"`

	// Role is the account's access level (USER or ADMIN)
	Role domain.Role `json:"role"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateItemRequest defines the payload for creating an item. Priority is
// optional and defaults to MEDIUM.
type CreateItemRequest struct {
	Title       string     `json:"title"                 validate:"required,max=100"`
	Description string     `json:"description,omitempty" validate:"max=500"`
	Priority    string     `json:"priority,omitempty"    validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// UpdateItemRequest defines the payload for a full item update. Version is
// the optimistic-concurrency counter the client last read; a stale value
// yields a 409.
type UpdateItemRequest struct {
	Title       string     `json:"title"                 validate:"required,max=100"`
	Description string     `json:"description,omitempty" validate:"max=500"`
	Priority    string     `json:"priority,omitempty"    validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Version     int64      `json:"version"               validate:"required,min=1"`
}

// BulkDeleteRequest lists the item IDs to delete in one shot.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=100"`
}

// BulkDeleteResponse reports the outcome of a bulk delete.
type BulkDeleteResponse struct {
	Requested int   `json:"requested"`
	Deleted   int64 `json:"deleted"`
}

// ItemListResponse wraps a page of items.
type ItemListResponse struct {
	Items []*domain.Item `json:"items"`
	Count int            `json:"count"`
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// CreateAttachmentRequest defines the payload for registering an attachment.
// The file content itself travels through the returned presigned URL, not
// through this API.
type CreateAttachmentRequest struct {
	FileName    string `json:"file_name"    validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes"   validate:"required,min=1"`
}

// AttachmentURLResponse carries a presigned download URL.
type AttachmentURLResponse struct {
	URL string `json:"url"`
}

// AuditLogResponse wraps the most recent audit records, newest first.
type AuditLogResponse struct {
	Records []*domain.AuditRecord `json:"records"`
	Count   int                   `json:"count"`
}

// toTokenResponse converts a service token pair into the refresh response shape.
func toTokenResponse(pair *service.TokenPair) RefreshTokenResponse {
	return RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
