package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/store"
)

// defaultAuditListLimit caps listings when the caller passes no limit.
const defaultAuditListLimit = 100

// PostgresAuditStore implements the store.AuditStore interface
// using a PostgreSQL database as the storage backend. The table is
// append-only; no update or delete statements exist here.
type PostgresAuditStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuditStore creates a new PostgreSQL implementation of the
// AuditStore interface. If logger is nil, a default logger will be used.
func NewPostgresAuditStore(db store.DBTX, logger *slog.Logger) *PostgresAuditStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAuditStore{
		db:     db,
		logger: logger.With(slog.String("component", "audit_store")),
	}
}

// Ensure PostgresAuditStore implements store.AuditStore interface
var _ store.AuditStore = (*PostgresAuditStore)(nil)

// Append implements store.AuditStore.Append
func (s *PostgresAuditStore) Append(ctx context.Context, record *domain.AuditRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO audit_log (id, action, item_id, username, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.Action,
		record.ItemID,
		record.Username,
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to append audit record",
			slog.String("error", err.Error()),
			slog.String("action", record.Action),
			slog.String("username", record.Username))
		return MapError(err)
	}

	return nil
}

// List implements store.AuditStore.List
func (s *PostgresAuditStore) List(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultAuditListLimit
	}

	query := `
		SELECT id, action, item_id, username, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list audit records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	records := make([]*domain.AuditRecord, 0, limit)
	for rows.Next() {
		var record domain.AuditRecord
		var itemID uuid.NullUUID
		if err := rows.Scan(
			&record.ID,
			&record.Action,
			&itemID,
			&record.Username,
			&record.CreatedAt,
		); err != nil {
			log.Error("failed to scan audit row", slog.String("error", err.Error()))
			return nil, err
		}
		if itemID.Valid {
			id := itemID.UUID
			record.ItemID = &id
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}
