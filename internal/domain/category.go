package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category-specific validation errors
var (
	ErrCategoryIDEmpty   = errors.New("category ID cannot be empty")
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")
)

// Category groups items for filtering. Items reference categories
// optionally; deleting a category detaches its items rather than
// cascading.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory creates a new Category with the given name.
func NewCategory(name string) (*Category, error) {
	category := &Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	return nil
}
