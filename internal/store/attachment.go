package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
)

// AttachmentStore defines the interface for attachment metadata
// persistence. The file bytes themselves live in the blob store; rows here
// only point at them by storage key.
type AttachmentStore interface {
	// Create saves new attachment metadata.
	Create(ctx context.Context, attachment *domain.Attachment) error

	// GetByID retrieves attachment metadata by its unique ID.
	// Returns ErrAttachmentNotFound if the attachment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)

	// ListByItem returns all attachments of an item, newest first.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Attachment, error)

	// Delete removes attachment metadata by its ID.
	// Returns ErrAttachmentNotFound if the attachment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
