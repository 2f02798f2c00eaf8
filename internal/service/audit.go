package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/store"
	"github.com/taskledger/taskledger-api/internal/task"
)

// AuditRecorder records that an actor performed an action on an item.
// Recording happens strictly after the audited operation succeeded and
// never influences its outcome: a failed record is logged and dropped.
type AuditRecorder interface {
	// Record captures one audit entry. itemID may be nil for actions
	// with no surviving item. actor may be nil; the record then carries
	// the system fallback username.
	Record(ctx context.Context, action string, itemID *uuid.UUID, actor *domain.Actor)
}

// syncAuditTimeout bounds the synchronous fallback append when the
// task queue refuses an audit task.
const syncAuditTimeout = 5 * time.Second

// asyncAuditRecorder submits audit appends to the background worker
// pool. When the queue refuses the task, it appends synchronously
// rather than losing the entry.
type asyncAuditRecorder struct {
	queue      task.TaskQueueWriter
	auditStore store.AuditStore
	logger     *slog.Logger
}

// NewAuditRecorder creates an AuditRecorder backed by queue and
// auditStore. Returns an error if either dependency is nil.
func NewAuditRecorder(
	queue task.TaskQueueWriter,
	auditStore store.AuditStore,
	logger *slog.Logger,
) (AuditRecorder, error) {
	if queue == nil {
		return nil, domain.NewValidationError("queue", "cannot be nil", domain.ErrValidation)
	}
	if auditStore == nil {
		return nil, domain.NewValidationError("auditStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &asyncAuditRecorder{
		queue:      queue,
		auditStore: auditStore,
		logger:     logger.With(slog.String("component", "audit_recorder")),
	}, nil
}

// Record implements AuditRecorder.Record
func (r *asyncAuditRecorder) Record(ctx context.Context, action string, itemID *uuid.UUID, actor *domain.Actor) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	username := ""
	if actor != nil {
		username = actor.Username
	}

	record, err := domain.NewAuditRecord(action, itemID, username)
	if err != nil {
		log.Error("failed to build audit record",
			slog.String("action", action),
			slog.String("error", err.Error()))
		return
	}

	appendTask, err := task.NewAuditAppendTask(record, r.auditStore)
	if err != nil {
		log.Error("failed to build audit task",
			slog.String("record_id", record.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := r.queue.Enqueue(appendTask); err != nil {
		log.Warn("audit queue unavailable, appending synchronously",
			slog.String("record_id", record.ID.String()),
			slog.String("error", err.Error()))

		// The audited operation already succeeded, so the append must
		// outlive the request; a client disconnect must not cancel it.
		fallbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncAuditTimeout)
		defer cancel()

		if appendErr := r.auditStore.Append(fallbackCtx, record); appendErr != nil {
			log.Error("failed to append audit record",
				slog.String("record_id", record.ID.String()),
				slog.String("action", action),
				slog.String("error", appendErr.Error()))
		}
	}
}

// AuditService exposes the audit trail for administrators.
type AuditService interface {
	// ListRecent returns up to limit audit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}

type auditServiceImpl struct {
	auditStore store.AuditStore
	logger     *slog.Logger
}

// NewAuditService creates an AuditService over auditStore.
func NewAuditService(auditStore store.AuditStore, logger *slog.Logger) (AuditService, error) {
	if auditStore == nil {
		return nil, domain.NewValidationError("auditStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &auditServiceImpl{
		auditStore: auditStore,
		logger:     logger.With(slog.String("component", "audit_service")),
	}, nil
}

// ListRecent implements AuditService.ListRecent
func (s *auditServiceImpl) ListRecent(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	records, err := s.auditStore.List(ctx, limit)
	if err != nil {
		return nil, NewItemServiceError("list_audit", "failed to list audit records", err)
	}
	return records, nil
}
