package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/store"
)

// itemColumns is the select list shared by every item query.
const itemColumns = "id, title, description, priority, due_date, completed, category_id, owner_id, created_at, updated_at, version"

// priorityRankExpr orders priorities by severity instead of lexically.
const priorityRankExpr = "CASE priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 1 ELSE 0 END"

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ItemStore.Create
// Returns validation errors from the domain Item if data is invalid, and
// store.ErrInvalidEntity when a referenced owner or category is missing.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO items (id, title, description, priority, due_date, completed, category_id, owner_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Title,
		item.Description,
		string(item.Priority),
		item.DueDate,
		item.Completed,
		item.CategoryID,
		item.OwnerID,
		item.CreatedAt,
		item.UpdatedAt,
		item.Version,
	)

	if err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("owner_id", item.OwnerID.String()))
		return MapError(err)
	}

	log.Debug("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", item.OwnerID.String()))
	return nil
}

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM items WHERE id = $1", itemColumns)

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	return item, nil
}

// Update implements store.ItemStore.Update
//
// The UPDATE is guarded by the version counter loaded with the item. When
// no row matches id+version, the store distinguishes a vanished row
// (store.ErrItemNotFound) from a lost optimistic race
// (store.ErrConcurrentModification) with a follow-up existence probe.
func (s *PostgresItemStore) Update(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during update",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		UPDATE items
		SET title = $1, description = $2, priority = $3, due_date = $4,
		    completed = $5, category_id = $6, updated_at = $7,
		    version = version + 1
		WHERE id = $8 AND version = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		item.Title,
		item.Description,
		string(item.Priority),
		item.DueDate,
		item.Completed,
		item.CategoryID,
		item.UpdatedAt,
		item.ID,
		item.Version,
	)
	if err != nil {
		log.Error("failed to update item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var current int64
		probeErr := s.db.QueryRowContext(ctx, "SELECT version FROM items WHERE id = $1", item.ID).
			Scan(&current)
		if probeErr != nil {
			if errors.Is(probeErr, sql.ErrNoRows) {
				log.Debug("item vanished during update", slog.String("item_id", item.ID.String()))
				return store.ErrItemNotFound
			}
			return MapError(probeErr)
		}
		log.Warn("stale version on item update",
			slog.String("item_id", item.ID.String()),
			slog.Int64("held_version", item.Version),
			slog.Int64("stored_version", current))
		return store.ErrConcurrentModification
	}

	item.Version++

	log.Debug("item updated",
		slog.String("item_id", item.ID.String()),
		slog.Int64("version", item.Version))
	return nil
}

// Delete implements store.ItemStore.Delete
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "item"); err != nil {
		return err
	}

	log.Debug("item deleted", slog.String("item_id", id.String()))
	return nil
}

// DeleteMany implements store.ItemStore.DeleteMany
// Missing IDs are skipped; the returned count reflects rows actually deleted.
func (s *PostgresItemStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf("DELETE FROM items WHERE id IN (%s)", strings.Join(placeholders, ", "))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete items",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("items deleted",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

// List implements store.ItemStore.List
func (s *PostgresItemStore) List(ctx context.Context, query store.ItemQuery) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlQuery, args := buildListQuery(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return items, nil
}

// CountByOwner implements store.ItemStore.CountByOwner
func (s *PostgresItemStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM items WHERE owner_id = $1", ownerID).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CountCompletedByOwner implements store.ItemStore.CountCompletedByOwner
func (s *PostgresItemStore) CountCompletedByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM items WHERE owner_id = $1 AND completed = TRUE", ownerID).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CountDueBetween implements store.ItemStore.CountDueBetween
// Completion state is intentionally not part of the predicate.
func (s *PostgresItemStore) CountDueBetween(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM items WHERE owner_id = $1 AND due_date >= $2 AND due_date < $3",
		ownerID, start, end).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// buildListQuery translates a store.ItemQuery into SQL and bind arguments.
func buildListQuery(query store.ItemQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(itemColumns)
	sb.WriteString(" FROM items")

	conditions := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if query.OwnerID != nil {
		args = append(args, *query.OwnerID)
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if query.Keyword != "" {
		args = append(args, "%"+escapeLike(query.Keyword)+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if query.CategoryID != nil {
		args = append(args, *query.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderByClause(query.Sort))

	if query.Page != nil && query.Page.Size > 0 {
		args = append(args, query.Page.Size)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		args = append(args, query.Page.Offset())
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args
}

// orderByClause maps a SortSpec to a SQL ORDER BY expression. The sort
// field enum is closed, so the expression is assembled from fixed strings,
// never from request input.
func orderByClause(sort store.SortSpec) string {
	var column string
	switch sort.Field {
	case store.SortByID:
		column = "id"
	case store.SortByTitle:
		column = "title"
	case store.SortByCompleted:
		column = "completed"
	case store.SortByPriority:
		column = priorityRankExpr
	case store.SortByDueDate:
		column = "due_date"
	case store.SortByCreatedAt:
		column = "created_at"
	default:
		column = "created_at"
	}

	direction := "DESC"
	if sort.Order == store.SortAsc {
		direction = "ASC"
	}

	return column + " " + direction
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied keyword.
func escapeLike(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(keyword)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var priority string
	var dueDate sql.NullTime
	var categoryID uuid.NullUUID

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&priority,
		&dueDate,
		&item.Completed,
		&categoryID,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Version,
	)
	if err != nil {
		return nil, err
	}

	item.Priority = domain.Priority(priority)
	if dueDate.Valid {
		t := dueDate.Time
		item.DueDate = &t
	}
	if categoryID.Valid {
		id := categoryID.UUID
		item.CategoryID = &id
	}

	return &item, nil
}
