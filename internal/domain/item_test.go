package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewItem(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	categoryID := uuid.New()
	due := time.Now().UTC().AddDate(0, 0, 2)

	item, err := NewItem(ownerID, "Write report", "quarterly numbers", PriorityHigh, &due, &categoryID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if item.OwnerID != ownerID {
		t.Errorf("Expected owner ID %s, got %s", ownerID, item.OwnerID)
	}

	if item.Completed {
		t.Error("Expected new item to be uncompleted")
	}

	if item.Version != 1 {
		t.Errorf("Expected version 1, got %d", item.Version)
	}

	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewItemDefaultsPriority(t *testing.T) {
	t.Parallel()

	item, err := NewItem(uuid.New(), "walk dog", "", "", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.Priority != PriorityMedium {
		t.Errorf("Expected default priority MEDIUM, got %s", item.Priority)
	}
}

func TestNewItemValidation(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	_, err := NewItem(uuid.Nil, "title", "", PriorityLow, nil, nil)
	if err != ErrItemOwnerEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemOwnerEmpty, err)
	}

	_, err = NewItem(ownerID, "", "", PriorityLow, nil, nil)
	if err != ErrItemTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemTitleEmpty, err)
	}

	_, err = NewItem(ownerID, strings.Repeat("x", MaxItemTitleLength+1), "", PriorityLow, nil, nil)
	if err != ErrItemTitleTooLong {
		t.Errorf("Expected error %v, got %v", ErrItemTitleTooLong, err)
	}

	_, err = NewItem(ownerID, "title", strings.Repeat("x", MaxItemDescriptionLength+1), PriorityLow, nil, nil)
	if err != ErrItemDescriptionTooLong {
		t.Errorf("Expected error %v, got %v", ErrItemDescriptionTooLong, err)
	}

	_, err = NewItem(ownerID, "title", "", Priority("URGENT"), nil, nil)
	if err != ErrInvalidPriority {
		t.Errorf("Expected error %v, got %v", ErrInvalidPriority, err)
	}
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	if PriorityHigh.Rank() <= PriorityMedium.Rank() {
		t.Error("Expected HIGH to outrank MEDIUM")
	}
	if PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Error("Expected MEDIUM to outrank LOW")
	}
	if Priority("BOGUS").Rank() != 0 {
		t.Error("Expected unknown priority to rank lowest")
	}
}

func TestItemApply(t *testing.T) {
	t.Parallel()

	item, err := NewItem(uuid.New(), "old title", "old", PriorityLow, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	owner := item.OwnerID
	version := item.Version
	categoryID := uuid.New()

	if err := item.Apply("new title", "new", PriorityHigh, nil, &categoryID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.Title != "new title" || item.Priority != PriorityHigh {
		t.Error("Expected fields to be replaced")
	}

	if item.OwnerID != owner {
		t.Error("Expected owner to be immutable across updates")
	}

	if item.Version != version {
		t.Error("Expected Apply to leave version bookkeeping to the store")
	}

	// Invalid replacement must leave the item untouched
	if err := item.Apply("", "", PriorityHigh, nil, nil); err != ErrItemTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemTitleEmpty, err)
	}
	if item.Title != "new title" {
		t.Error("Expected failed Apply to leave item unchanged")
	}
}

func TestItemToggleCompleted(t *testing.T) {
	t.Parallel()

	item, err := NewItem(uuid.New(), "title", "", PriorityMedium, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	item.ToggleCompleted()
	if !item.Completed {
		t.Error("Expected first toggle to complete the item")
	}

	item.ToggleCompleted()
	if item.Completed {
		t.Error("Expected second toggle to reopen the item")
	}
}

func TestItemDueSoon(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"no due date", nil, false},
		{"due today", timePtr(now), true},
		{"due at horizon", timePtr(now.AddDate(0, 0, 3)), true},
		{"past horizon", timePtr(now.AddDate(0, 0, 4)), false},
		{"overdue", timePtr(now.AddDate(0, 0, -1)), false},
	}

	for _, tc := range cases {
		item := &Item{DueDate: tc.due}
		if got := item.DueSoon(now, 3); got != tc.want {
			t.Errorf("%s: DueSoon = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestItemDueSoonIgnoresCompletion(t *testing.T) {
	t.Parallel()

	now := time.Now()
	due := now.AddDate(0, 0, 1)
	item := &Item{DueDate: &due, Completed: true}

	if !item.DueSoon(now, 3) {
		t.Error("Expected completed items to still count as due soon")
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
