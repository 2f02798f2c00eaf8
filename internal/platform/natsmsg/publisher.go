// Package natsmsg implements the notification sink port over NATS.
// Events are plain JSON on a configurable subject; consumers are free to
// come and go, nothing in the server depends on anyone listening.
package natsmsg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/taskledger/taskledger-api/internal/config"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/store"
)

// itemCreatedEvent is the wire shape of an item-created notification.
type itemCreatedEvent struct {
	ItemID    string    `json:"item_id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher implements store.NotificationSink over a NATS connection.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// Ensure Publisher implements store.NotificationSink interface
var _ store.NotificationSink = (*Publisher)(nil)

// Connect dials the configured NATS server and returns a Publisher.
func Connect(cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats url must be configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("taskledger-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", cfg.URL, err)
	}

	subject := cfg.Subject
	if subject == "" {
		subject = "taskledger.items.created"
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With(slog.String("component", "nats_publisher")),
	}, nil
}

// ItemCreated implements store.NotificationSink.ItemCreated
func (p *Publisher) ItemCreated(ctx context.Context, owner *domain.Actor, item *domain.Item) error {
	event := itemCreatedEvent{
		ItemID:    item.ID.String(),
		Title:     item.Title,
		Priority:  string(item.Priority),
		OwnerID:   owner.ID.String(),
		OwnerName: owner.Username,
		CreatedAt: item.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode item created event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}

	p.logger.Debug("item created event published",
		slog.String("item_id", event.ItemID),
		slog.String("subject", p.subject))
	return nil
}

// Close drains the connection, letting buffered publishes flush.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("failed to drain nats connection", slog.String("error", err.Error()))
	}
}

// NoopSink is the sink used when NATS is not configured. It accepts and
// discards every event.
type NoopSink struct{}

// Ensure NoopSink implements store.NotificationSink interface
var _ store.NotificationSink = (*NoopSink)(nil)

// ItemCreated implements store.NotificationSink.ItemCreated
func (NoopSink) ItemCreated(ctx context.Context, owner *domain.Actor, item *domain.Item) error {
	return nil
}
