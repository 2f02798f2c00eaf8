package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
// Its GetByID doubles as the category resolver consulted on every item
// create/update that names a category.
type CategoryStore interface {
	// Create saves a new category to the store.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)
}
