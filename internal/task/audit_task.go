package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/store"
)

// AuditAppendTask persists one audit record in the background. The
// record was built synchronously when the audited operation succeeded;
// only the database write is deferred.
type AuditAppendTask struct {
	id     uuid.UUID
	record *domain.AuditRecord
	store  store.AuditStore
}

// NewAuditAppendTask creates a task that appends record via auditStore.
func NewAuditAppendTask(record *domain.AuditRecord, auditStore store.AuditStore) (*AuditAppendTask, error) {
	if record == nil {
		return nil, fmt.Errorf("audit record cannot be nil")
	}
	if auditStore == nil {
		return nil, fmt.Errorf("audit store cannot be nil")
	}

	return &AuditAppendTask{
		id:     uuid.New(),
		record: record,
		store:  auditStore,
	}, nil
}

// ID implements Task.ID
func (t *AuditAppendTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *AuditAppendTask) Type() string {
	return TaskTypeAuditAppend
}

// Execute implements Task.Execute
func (t *AuditAppendTask) Execute(ctx context.Context) error {
	if err := t.store.Append(ctx, t.record); err != nil {
		return fmt.Errorf("failed to append audit record %s: %w", t.record.ID, err)
	}
	return nil
}
