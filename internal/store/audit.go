package store

import (
	"context"

	"github.com/taskledger/taskledger-api/internal/domain"
)

// AuditStore defines the interface for the append-only audit log.
//
// Appends are durable and independent of any caller transaction: a rolled
// back business operation never has an audit row to begin with (the record
// is only written after success), and a failed append never rolls back the
// business operation. Records are never updated or deleted by the core.
type AuditStore interface {
	// Append durably writes one audit record.
	Append(ctx context.Context, record *domain.AuditRecord) error

	// List returns up to limit records, newest first. A non-positive limit
	// applies the store default.
	List(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}
