package store

import (
	"context"

	"github.com/taskledger/taskledger-api/internal/domain"
)

// NotificationSink publishes domain events to interested consumers.
// Implementations must be safe for concurrent use. Publishing is best
// effort from the caller's point of view: a failed publish never fails
// the operation that produced the event.
type NotificationSink interface {
	// ItemCreated announces that owner created item.
	ItemCreated(ctx context.Context, owner *domain.Actor, item *domain.Item) error
}
