package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attachment-specific validation errors
var (
	ErrAttachmentIDEmpty       = errors.New("attachment ID cannot be empty")
	ErrAttachmentItemIDEmpty   = errors.New("attachment item ID cannot be empty")
	ErrAttachmentFileNameEmpty = errors.New("attachment file name cannot be empty")
	ErrAttachmentKeyEmpty      = errors.New("attachment storage key cannot be empty")
)

// Attachment records a file blob associated with an item. The bytes live
// in the blob store under StorageKey; this entity only carries metadata.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"-"` // Internal blob location, not exposed
	CreatedAt   time.Time `json:"created_at"`
}

// NewAttachment creates attachment metadata for an item.
func NewAttachment(itemID uuid.UUID, fileName, contentType string, sizeBytes int64, storageKey string) (*Attachment, error) {
	att := &Attachment{
		ID:          uuid.New(),
		ItemID:      itemID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		StorageKey:  storageKey,
		CreatedAt:   time.Now().UTC(),
	}

	if err := att.Validate(); err != nil {
		return nil, err
	}

	return att, nil
}

// Validate checks if the Attachment has valid data.
func (a *Attachment) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttachmentIDEmpty
	}

	if a.ItemID == uuid.Nil {
		return ErrAttachmentItemIDEmpty
	}

	if a.FileName == "" {
		return ErrAttachmentFileNameEmpty
	}

	if a.StorageKey == "" {
		return ErrAttachmentKeyEmpty
	}

	return nil
}
