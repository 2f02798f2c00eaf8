package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
)

// ItemStore defines the interface for item data persistence.
type ItemStore interface {
	// Create saves a new item to the store.
	// Returns validation errors if the item data is invalid.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// Update persists a modified item using optimistic concurrency: the row
	// is only written when its stored version still equals item.Version.
	// On success the store increments the version counter and reflects the
	// new value on the passed item. Returns ErrConcurrentModification when
	// the version moved on, ErrItemNotFound when the row is gone.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item from the store by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany removes all items whose IDs are listed. IDs that do not
	// exist are skipped; the returned count is the number of rows actually
	// deleted.
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)

	// List returns the items matching the query, ordered by its sort spec
	// and optionally windowed by its page.
	List(ctx context.Context, query ItemQuery) ([]*domain.Item, error)

	// CountByOwner returns the number of items the owner holds.
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountCompletedByOwner returns the number of completed items the owner holds.
	CountCompletedByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountDueBetween returns the number of the owner's items whose due
	// date falls in the half-open window [start, end), regardless of
	// completion state.
	CountDueBetween(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (int64, error)

	// WithTx returns a new ItemStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through store.RunInTransaction.
	WithTx(tx *sql.Tx) ItemStore
}
