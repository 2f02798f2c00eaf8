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
	"github.com/taskledger/taskledger-api/internal/task"
)

// CreateItemInput carries the caller-settable fields for a new item.
type CreateItemInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	CategoryID  *uuid.UUID
}

// UpdateItemInput carries a full replacement of an item's mutable fields
// plus the version the caller last saw. A stale version fails the update
// with store.ErrConcurrentModification.
type UpdateItemInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	CategoryID  *uuid.UUID
	Version     int64
}

// BulkDeleteResult reports how a bulk delete went. For admins Deleted
// equals the batch size; for other actors it counts the rows actually
// removed, with missing or inaccessible IDs skipped silently.
type BulkDeleteResult struct {
	Requested int
	Deleted   int64
}

// ItemService provides item CRUD with ownership-aware access control.
// Every mutation is audited after it succeeds.
type ItemService interface {
	// Create makes a new item owned by the actor.
	Create(ctx context.Context, actor *domain.Actor, input CreateItemInput) (*domain.Item, error)

	// Get retrieves one item the actor may access.
	Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error)

	// List returns the actor's items, filtered, sorted and paged.
	// Admins see every user's items.
	List(ctx context.Context, actor *domain.Actor, filter ItemFilter) ([]*domain.Item, error)

	// Update replaces the mutable fields of an item the actor may access.
	Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, input UpdateItemInput) (*domain.Item, error)

	// ToggleCompleted flips an item's completion flag.
	ToggleCompleted(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error)

	// Delete removes one item the actor may access.
	Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error

	// BulkDelete removes the listed items. For non-admins, items owned by
	// someone else are silently skipped rather than failing the batch.
	BulkDelete(ctx context.Context, actor *domain.Actor, ids []uuid.UUID) (*BulkDeleteResult, error)

	// SeedSamples creates a handful of example items for the actor.
	SeedSamples(ctx context.Context, actor *domain.Actor) ([]*domain.Item, error)
}

// ItemFilter is the service-level listing filter. Sort accepts the raw
// field/order strings from the request; unknown values fall back to the
// default ordering.
type ItemFilter struct {
	Keyword    string
	CategoryID *uuid.UUID
	SortField  string
	SortOrder  string
	Page       *store.Page
}

type itemServiceImpl struct {
	itemStore     store.ItemStore
	categoryStore store.CategoryStore
	policy        *AccessPolicy
	auditor       AuditRecorder
	queue         task.TaskQueueWriter
	sink          store.NotificationSink
	logger        *slog.Logger
}

// NewItemService creates an ItemService. The notification sink and queue
// may be nil; item-created events are then skipped.
func NewItemService(
	itemStore store.ItemStore,
	categoryStore store.CategoryStore,
	policy *AccessPolicy,
	auditor AuditRecorder,
	queue task.TaskQueueWriter,
	sink store.NotificationSink,
	logger *slog.Logger,
) (ItemService, error) {
	if itemStore == nil {
		return nil, domain.NewValidationError("itemStore", "cannot be nil", domain.ErrValidation)
	}
	if categoryStore == nil {
		return nil, domain.NewValidationError("categoryStore", "cannot be nil", domain.ErrValidation)
	}
	if policy == nil {
		return nil, domain.NewValidationError("policy", "cannot be nil", domain.ErrValidation)
	}
	if auditor == nil {
		return nil, domain.NewValidationError("auditor", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &itemServiceImpl{
		itemStore:     itemStore,
		categoryStore: categoryStore,
		policy:        policy,
		auditor:       auditor,
		queue:         queue,
		sink:          sink,
		logger:        logger.With(slog.String("component", "item_service")),
	}, nil
}

// findWithAccess is the single access checkpoint every per-item operation
// funnels through. Existence is checked before ownership, so a missing
// item is reported as not found even to callers who could never have
// accessed it.
func (s *itemServiceImpl) findWithAccess(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error) {
	item, err := s.itemStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanAccess(actor, item) {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("access denied",
			slog.String("item_id", id.String()),
			slog.String("actor_id", actorID(actor)))
		return nil, fmt.Errorf("%w: item %s", ErrForbidden, id)
	}

	return item, nil
}

// Create implements ItemService.Create
func (s *itemServiceImpl) Create(ctx context.Context, actor *domain.Actor, input CreateItemInput) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", ErrForbidden)
	}

	if err := s.resolveCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	item, err := domain.NewItem(actor.ID, input.Title, input.Description, input.Priority, input.DueDate, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.itemStore.Create(ctx, item); err != nil {
		return nil, NewItemServiceError("create", "failed to save item", err)
	}

	log.Debug("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", actor.ID.String()))

	s.auditor.Record(ctx, domain.AuditActionCreate, &item.ID, actor)
	s.notifyCreated(ctx, actor, item)

	return item, nil
}

// Get implements ItemService.Get
func (s *itemServiceImpl) Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error) {
	return s.findWithAccess(ctx, actor, id)
}

// List implements ItemService.List
func (s *itemServiceImpl) List(ctx context.Context, actor *domain.Actor, filter ItemFilter) ([]*domain.Item, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", ErrForbidden)
	}

	query := store.ItemQuery{
		Keyword:    filter.Keyword,
		CategoryID: filter.CategoryID,
		Sort:       store.ParseSort(filter.SortField, filter.SortOrder),
		Page:       filter.Page,
	}

	// Non-admin listings are always scoped to the caller's own items.
	if !actor.IsAdmin() {
		ownerID := actor.ID
		query.OwnerID = &ownerID
	}

	items, err := s.itemStore.List(ctx, query)
	if err != nil {
		return nil, NewItemServiceError("list", "failed to list items", err)
	}

	return items, nil
}

// Update implements ItemService.Update
func (s *itemServiceImpl) Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, input UpdateItemInput) (*domain.Item, error) {
	item, err := s.findWithAccess(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.resolveCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if err := item.Apply(input.Title, input.Description, input.Priority, input.DueDate, input.CategoryID); err != nil {
		return nil, err
	}

	// The caller's version guards the write, not the freshly loaded one:
	// an update based on stale data must lose the race.
	item.Version = input.Version

	if err := s.itemStore.Update(ctx, item); err != nil {
		if errors.Is(err, store.ErrConcurrentModification) || errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, NewItemServiceError("update", "failed to save item", err)
	}

	s.auditor.Record(ctx, domain.AuditActionUpdate, &item.ID, actor)

	return item, nil
}

// ToggleCompleted implements ItemService.ToggleCompleted
func (s *itemServiceImpl) ToggleCompleted(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error) {
	item, err := s.findWithAccess(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	item.ToggleCompleted()

	if err := s.itemStore.Update(ctx, item); err != nil {
		if errors.Is(err, store.ErrConcurrentModification) || errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, NewItemServiceError("toggle", "failed to save item", err)
	}

	s.auditor.Record(ctx, domain.AuditActionToggle, &item.ID, actor)

	return item, nil
}

// Delete implements ItemService.Delete
func (s *itemServiceImpl) Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error {
	item, err := s.findWithAccess(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.itemStore.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return NewItemServiceError("delete", "failed to delete item", err)
	}

	s.auditor.Record(ctx, domain.AuditActionDelete, &item.ID, actor)

	return nil
}

// BulkDelete implements ItemService.BulkDelete
//
// Admins delete the whole batch unconditionally and the reported count is
// the batch size, whether or not every ID still exists. Other actors get
// the batch silently narrowed to the items they own; inaccessible or
// missing IDs reduce the count instead of failing the call.
func (s *itemServiceImpl) BulkDelete(ctx context.Context, actor *domain.Actor, ids []uuid.UUID) (*BulkDeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", ErrForbidden)
	}

	result := &BulkDeleteResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}

	deletable := ids
	if !actor.IsAdmin() {
		deletable = make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			item, err := s.itemStore.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return nil, NewItemServiceError("bulk_delete", "failed to load item", err)
			}
			if !s.policy.CanAccess(actor, item) {
				continue
			}
			deletable = append(deletable, id)
		}
	}

	if len(deletable) == 0 {
		return result, nil
	}

	deleted, err := s.itemStore.DeleteMany(ctx, deletable)
	if err != nil {
		return nil, NewItemServiceError("bulk_delete", "failed to delete items", err)
	}
	result.Deleted = deleted
	if actor.IsAdmin() {
		result.Deleted = int64(len(ids))
	}

	log.Info("bulk delete completed",
		slog.Int("requested", result.Requested),
		slog.Int64("rows_deleted", deleted),
		slog.Int64("reported", result.Deleted),
		slog.String("actor_id", actor.ID.String()))

	for _, id := range deletable {
		id := id
		s.auditor.Record(ctx, domain.AuditActionDelete, &id, actor)
	}

	return result, nil
}

// sampleSeeds are the items SeedSamples creates. Due dates are offsets
// in days from the seeding moment; a negative offset means no due date.
var sampleSeeds = []struct {
	title       string
	description string
	priority    domain.Priority
	dueOffset   int
}{
	{"Review the quarterly report", "Numbers for Q3 need a second pair of eyes.", domain.PriorityHigh, 1},
	{"Book the team offsite venue", "Compare the two shortlisted venues and confirm.", domain.PriorityMedium, 5},
	{"Water the office plants", "", domain.PriorityLow, -1},
	{"Renew the TLS certificates", "Staging expires first; production two weeks later.", domain.PriorityHigh, 2},
	{"Clear out the backlog column", "Anything older than six months gets closed or rewritten.", domain.PriorityMedium, -1},
}

// SeedSamples implements ItemService.SeedSamples
func (s *itemServiceImpl) SeedSamples(ctx context.Context, actor *domain.Actor) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", ErrForbidden)
	}

	now := time.Now().UTC()
	created := make([]*domain.Item, 0, len(sampleSeeds))

	for _, seed := range sampleSeeds {
		var due *time.Time
		if seed.dueOffset >= 0 {
			d := now.AddDate(0, 0, seed.dueOffset)
			due = &d
		}

		item, err := domain.NewItem(actor.ID, seed.title, seed.description, seed.priority, due, nil)
		if err != nil {
			return nil, NewItemServiceError("seed_samples", "failed to build sample item", err)
		}

		if err := s.itemStore.Create(ctx, item); err != nil {
			return nil, NewItemServiceError("seed_samples", "failed to save sample item", err)
		}

		s.auditor.Record(ctx, domain.AuditActionCreateSample, &item.ID, actor)
		created = append(created, item)
	}

	log.Info("sample items seeded",
		slog.Int("count", len(created)),
		slog.String("owner_id", actor.ID.String()))

	return created, nil
}

// resolveCategory verifies a referenced category exists. A nil reference
// is fine; items without a category are the common case.
func (s *itemServiceImpl) resolveCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryStore.GetByID(ctx, *categoryID); err != nil {
		return err
	}
	return nil
}

// notifyCreated hands the item-created event to the worker pool. Both
// the queue and the sink are optional, and a full queue only costs the
// event, never the request.
func (s *itemServiceImpl) notifyCreated(ctx context.Context, actor *domain.Actor, item *domain.Item) {
	if s.queue == nil || s.sink == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	notifyTask, err := task.NewItemNotificationTask(actor, item, s.sink)
	if err != nil {
		log.Error("failed to build notification task",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.queue.Enqueue(notifyTask); err != nil {
		log.Warn("dropping item created notification",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()))
	}
}

func actorID(actor *domain.Actor) string {
	if actor == nil {
		return "<none>"
	}
	return actor.ID.String()
}
