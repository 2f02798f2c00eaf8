package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Item field limits, mirrored by the database schema.
const (
	MaxItemTitleLength       = 100
	MaxItemDescriptionLength = 500
)

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when an item ID is empty or nil.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemOwnerEmpty is returned when an item's owner ID is empty or nil.
	ErrItemOwnerEmpty = errors.New("item owner ID cannot be empty")

	// ErrItemTitleEmpty is returned when an item's title is empty.
	ErrItemTitleEmpty = errors.New("item title cannot be empty")

	// ErrItemTitleTooLong is returned when an item's title exceeds the limit.
	ErrItemTitleTooLong = errors.New("item title exceeds maximum length")

	// ErrItemDescriptionTooLong is returned when an item's description exceeds the limit.
	ErrItemDescriptionTooLong = errors.New("item description exceeds maximum length")
)

// Priority is the ordered severity of an item. HIGH outranks MEDIUM,
// MEDIUM outranks LOW. Ordering uses Rank, never the string form.
type Priority string

// Known priority levels.
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank returns the severity ordinal for sorting: HIGH=3, MEDIUM=2, LOW=1.
// Unknown priorities rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Item is the core tracked task entity. Each item belongs to exactly one
// owner; OwnerID is immutable after creation. Version is an optimistic
// concurrency counter: it starts at 1 and the store increments it on every
// successful update.
type Item struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int64      `json:"version"`
}

// NewItem creates a new Item owned by ownerID. It assigns a fresh UUID,
// defaults the priority to MEDIUM when unset, and stamps the timestamps.
// Returns an error if validation fails.
func NewItem(ownerID uuid.UUID, title, description string, priority Priority, dueDate *time.Time, categoryID *uuid.UUID) (*Item, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now().UTC()
	item := &Item{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
		CategoryID:  categoryID,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.OwnerID == uuid.Nil {
		return ErrItemOwnerEmpty
	}

	if i.Title == "" {
		return ErrItemTitleEmpty
	}

	if len(i.Title) > MaxItemTitleLength {
		return ErrItemTitleTooLong
	}

	if len(i.Description) > MaxItemDescriptionLength {
		return ErrItemDescriptionTooLong
	}

	if !i.Priority.Valid() {
		return ErrInvalidPriority
	}

	return nil
}

// Apply replaces the mutable fields of the item and refreshes the update
// timestamp. The owner, version, completion flag and creation timestamp are
// untouched; version bookkeeping belongs to the store.
// Returns an error if the resulting item is invalid.
func (i *Item) Apply(title, description string, priority Priority, dueDate *time.Time, categoryID *uuid.UUID) error {
	updated := *i
	updated.Title = title
	updated.Description = description
	updated.Priority = priority
	updated.DueDate = dueDate
	updated.CategoryID = categoryID

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*i = updated
	return nil
}

// ToggleCompleted flips the completion flag and refreshes the update timestamp.
func (i *Item) ToggleCompleted() {
	i.Completed = !i.Completed
	i.UpdatedAt = time.Now().UTC()
}

// DueSoon reports whether the item's due date falls within horizon days
// from now, counting today. Items without a due date are never due soon.
// Completion state is deliberately ignored; the dashboard counts due-soon
// items the same way.
func (i *Item) DueSoon(now time.Time, horizonDays int) bool {
	if i.DueDate == nil {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	due := i.DueDate.UTC().Truncate(24 * time.Hour)
	days := int(due.Sub(today).Hours() / 24)
	return days >= 0 && days <= horizonDays
}
