package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/store"
)

// AttachRequest describes a file the client wants to upload.
type AttachRequest struct {
	FileName    string
	ContentType string
	SizeBytes   int64
}

// AttachResult pairs the stored attachment metadata with the presigned
// URL the client uploads the bytes to.
type AttachResult struct {
	Attachment *domain.Attachment `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
}

// AttachmentService manages file attachments on items. The server only
// stores metadata; content moves between the client and the blob store
// through presigned URLs. Every operation goes through the same item
// access check as the item itself.
type AttachmentService interface {
	// Attach registers a new attachment on an item and returns a
	// presigned upload URL.
	Attach(ctx context.Context, actor *domain.Actor, itemID uuid.UUID, req AttachRequest) (*AttachResult, error)

	// List returns an item's attachments, newest first.
	List(ctx context.Context, actor *domain.Actor, itemID uuid.UUID) ([]*domain.Attachment, error)

	// DownloadURL returns a presigned URL for one attachment's content.
	DownloadURL(ctx context.Context, actor *domain.Actor, itemID, attachmentID uuid.UUID) (string, error)

	// Delete removes an attachment's metadata and its blob.
	Delete(ctx context.Context, actor *domain.Actor, itemID, attachmentID uuid.UUID) error
}

type attachmentServiceImpl struct {
	itemStore       store.ItemStore
	attachmentStore store.AttachmentStore
	blobStore       store.BlobStore
	policy          *AccessPolicy
	logger          *slog.Logger
}

// NewAttachmentService creates an AttachmentService.
func NewAttachmentService(
	itemStore store.ItemStore,
	attachmentStore store.AttachmentStore,
	blobStore store.BlobStore,
	policy *AccessPolicy,
	logger *slog.Logger,
) (AttachmentService, error) {
	if itemStore == nil {
		return nil, domain.NewValidationError("itemStore", "cannot be nil", domain.ErrValidation)
	}
	if attachmentStore == nil {
		return nil, domain.NewValidationError("attachmentStore", "cannot be nil", domain.ErrValidation)
	}
	if blobStore == nil {
		return nil, domain.NewValidationError("blobStore", "cannot be nil", domain.ErrValidation)
	}
	if policy == nil {
		return nil, domain.NewValidationError("policy", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &attachmentServiceImpl{
		itemStore:       itemStore,
		attachmentStore: attachmentStore,
		blobStore:       blobStore,
		policy:          policy,
		logger:          logger.With(slog.String("component", "attachment_service")),
	}, nil
}

// checkItemAccess loads the item and applies the ownership policy.
// Existence is checked before ownership, same as the item operations.
func (s *attachmentServiceImpl) checkItemAccess(ctx context.Context, actor *domain.Actor, itemID uuid.UUID) error {
	item, err := s.itemStore.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !s.policy.CanAccess(actor, item) {
		return fmt.Errorf("%w: item %s", ErrForbidden, itemID)
	}
	return nil
}

// Attach implements AttachmentService.Attach
func (s *attachmentServiceImpl) Attach(ctx context.Context, actor *domain.Actor, itemID uuid.UUID, req AttachRequest) (*AttachResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkItemAccess(ctx, actor, itemID); err != nil {
		return nil, err
	}

	key := storageKey(itemID, time.Now().UTC())
	attachment, err := domain.NewAttachment(itemID, req.FileName, req.ContentType, req.SizeBytes, key)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.blobStore.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		return nil, NewItemServiceError("attach", "failed to presign upload", err)
	}

	if err := s.attachmentStore.Create(ctx, attachment); err != nil {
		return nil, NewItemServiceError("attach", "failed to save attachment", err)
	}

	log.Debug("attachment registered",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("file_name", attachment.FileName))

	return &AttachResult{Attachment: attachment, UploadURL: uploadURL}, nil
}

// List implements AttachmentService.List
func (s *attachmentServiceImpl) List(ctx context.Context, actor *domain.Actor, itemID uuid.UUID) ([]*domain.Attachment, error) {
	if err := s.checkItemAccess(ctx, actor, itemID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentStore.ListByItem(ctx, itemID)
	if err != nil {
		return nil, NewItemServiceError("list_attachments", "failed to list attachments", err)
	}
	return attachments, nil
}

// DownloadURL implements AttachmentService.DownloadURL
func (s *attachmentServiceImpl) DownloadURL(ctx context.Context, actor *domain.Actor, itemID, attachmentID uuid.UUID) (string, error) {
	if err := s.checkItemAccess(ctx, actor, itemID); err != nil {
		return "", err
	}

	attachment, err := s.getForItem(ctx, itemID, attachmentID)
	if err != nil {
		return "", err
	}

	url, err := s.blobStore.PresignGet(ctx, attachment.StorageKey)
	if err != nil {
		return "", NewItemServiceError("download_url", "failed to presign download", err)
	}
	return url, nil
}

// Delete implements AttachmentService.Delete
//
// The metadata row goes first; losing the blob delete afterwards leaves
// an orphan object, which is preferable to a row pointing at nothing.
func (s *attachmentServiceImpl) Delete(ctx context.Context, actor *domain.Actor, itemID, attachmentID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkItemAccess(ctx, actor, itemID); err != nil {
		return err
	}

	attachment, err := s.getForItem(ctx, itemID, attachmentID)
	if err != nil {
		return err
	}

	if err := s.attachmentStore.Delete(ctx, attachment.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return NewItemServiceError("delete_attachment", "failed to delete attachment", err)
	}

	if err := s.blobStore.Delete(ctx, attachment.StorageKey); err != nil {
		log.Warn("failed to delete attachment blob",
			slog.String("attachment_id", attachment.ID.String()),
			slog.String("storage_key", attachment.StorageKey),
			slog.String("error", err.Error()))
	}

	return nil
}

// getForItem loads an attachment and confirms it belongs to itemID.
// An attachment reached through the wrong item is reported as not found,
// to avoid confirming its existence.
func (s *attachmentServiceImpl) getForItem(ctx context.Context, itemID, attachmentID uuid.UUID) (*domain.Attachment, error) {
	attachment, err := s.attachmentStore.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if attachment.ItemID != itemID {
		return nil, store.ErrAttachmentNotFound
	}
	return attachment, nil
}

// storageKey builds the blob key for a new attachment, namespaced by
// date so bucket listings stay navigable.
func storageKey(itemID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("items/%04d/%02d/%02d/%s-%s",
		now.Year(), int(now.Month()), now.Day(), itemID, uuid.New())
}
