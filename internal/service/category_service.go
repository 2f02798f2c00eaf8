package service

import (
	"context"
	"log/slog"

	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/store"
)

// CategoryService manages the shared category catalog. Categories are
// global, not per-user; creating them is an administrative action.
type CategoryService interface {
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// Create adds a new category.
	Create(ctx context.Context, name string) (*domain.Category, error)
}

type categoryServiceImpl struct {
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// NewCategoryService creates a CategoryService over categoryStore.
func NewCategoryService(categoryStore store.CategoryStore, logger *slog.Logger) (CategoryService, error) {
	if categoryStore == nil {
		return nil, domain.NewValidationError("categoryStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &categoryServiceImpl{
		categoryStore: categoryStore,
		logger:        logger.With(slog.String("component", "category_service")),
	}, nil
}

// List implements CategoryService.List
func (s *categoryServiceImpl) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryStore.List(ctx)
	if err != nil {
		return nil, NewItemServiceError("list_categories", "failed to list categories", err)
	}
	return categories, nil
}

// Create implements CategoryService.Create
func (s *categoryServiceImpl) Create(ctx context.Context, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(name)
	if err != nil {
		return nil, err
	}

	if err := s.categoryStore.Create(ctx, category); err != nil {
		return nil, NewItemServiceError("create_category", "failed to save category", err)
	}

	return category, nil
}
