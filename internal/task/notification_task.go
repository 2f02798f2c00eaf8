package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/store"
)

// ItemNotificationTask publishes an item-created event to the
// notification sink. Delivery is best effort; a failed publish is
// surfaced to the pool's error handler and goes no further.
type ItemNotificationTask struct {
	id    uuid.UUID
	owner *domain.Actor
	item  *domain.Item
	sink  store.NotificationSink
}

// NewItemNotificationTask creates a task announcing that owner created item.
func NewItemNotificationTask(owner *domain.Actor, item *domain.Item, sink store.NotificationSink) (*ItemNotificationTask, error) {
	if owner == nil {
		return nil, fmt.Errorf("owner cannot be nil")
	}
	if item == nil {
		return nil, fmt.Errorf("item cannot be nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("notification sink cannot be nil")
	}

	return &ItemNotificationTask{
		id:    uuid.New(),
		owner: owner,
		item:  item,
		sink:  sink,
	}, nil
}

// ID implements Task.ID
func (t *ItemNotificationTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *ItemNotificationTask) Type() string {
	return TaskTypeItemNotification
}

// Execute implements Task.Execute
func (t *ItemNotificationTask) Execute(ctx context.Context) error {
	if err := t.sink.ItemCreated(ctx, t.owner, t.item); err != nil {
		return fmt.Errorf("failed to publish item created event for %s: %w", t.item.ID, err)
	}
	return nil
}
