package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/store"
)

// PostgresAttachmentStore implements the store.AttachmentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttachmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttachmentStore creates a new PostgreSQL implementation of the
// AttachmentStore interface. If logger is nil, a default logger will be used.
func NewPostgresAttachmentStore(db store.DBTX, logger *slog.Logger) *PostgresAttachmentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttachmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "attachment_store")),
	}
}

// Ensure PostgresAttachmentStore implements store.AttachmentStore interface
var _ store.AttachmentStore = (*PostgresAttachmentStore)(nil)

// Create implements store.AttachmentStore.Create
func (s *PostgresAttachmentStore) Create(ctx context.Context, attachment *domain.Attachment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attachment.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO attachments (id, item_id, file_name, content_type, size_bytes, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		attachment.ID,
		attachment.ItemID,
		attachment.FileName,
		attachment.ContentType,
		attachment.SizeBytes,
		attachment.StorageKey,
		attachment.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()),
			slog.String("item_id", attachment.ItemID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.AttachmentStore.GetByID
// Returns store.ErrAttachmentNotFound if the attachment does not exist.
func (s *PostgresAttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, item_id, file_name, content_type, size_bytes, storage_key, created_at
		FROM attachments WHERE id = $1`, id).Scan(
		&attachment.ID,
		&attachment.ItemID,
		&attachment.FileName,
		&attachment.ContentType,
		&attachment.SizeBytes,
		&attachment.StorageKey,
		&attachment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttachmentNotFound
		}
		return nil, MapError(err)
	}

	return &attachment, nil
}

// ListByItem implements store.AttachmentStore.ListByItem
func (s *PostgresAttachmentStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Attachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, file_name, content_type, size_bytes, storage_key, created_at
		FROM attachments WHERE item_id = $1
		ORDER BY created_at DESC`, itemID)
	if err != nil {
		log.Error("failed to list attachments",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	attachments := make([]*domain.Attachment, 0)
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.ItemID,
			&attachment.FileName,
			&attachment.ContentType,
			&attachment.SizeBytes,
			&attachment.StorageKey,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, &attachment)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return attachments, nil
}

// Delete implements store.AttachmentStore.Delete
// Returns store.ErrAttachmentNotFound if the attachment does not exist.
func (s *PostgresAttachmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = $1", id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "attachment")
}
