package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/store"
	"github.com/taskledger/taskledger-api/internal/task"
)

// mockItemStore is a testify mock for store.ItemStore.
type mockItemStore struct {
	mock.Mock
}

func (m *mockItemStore) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if item := args.Get(0); item != nil {
		return item.(*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemStore) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockItemStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItemStore) List(ctx context.Context, query store.ItemQuery) ([]*domain.Item, error) {
	args := m.Called(ctx, query)
	if items := args.Get(0); items != nil {
		return items.([]*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItemStore) CountCompletedByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItemStore) CountDueBetween(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	args := m.Called(tx)
	return args.Get(0).(store.ItemStore)
}

// mockCategoryStore is a testify mock for store.CategoryStore.
type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if category := args.Get(0); category != nil {
		return category.(*domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if categories := args.Get(0); categories != nil {
		return categories.([]*domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockAuditStore is a testify mock for store.AuditStore.
type mockAuditStore struct {
	mock.Mock
}

func (m *mockAuditStore) Append(ctx context.Context, record *domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAuditStore) List(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	args := m.Called(ctx, limit)
	if records := args.Get(0); records != nil {
		return records.([]*domain.AuditRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockAttachmentStore is a testify mock for store.AttachmentStore.
type mockAttachmentStore struct {
	mock.Mock
}

func (m *mockAttachmentStore) Create(ctx context.Context, attachment *domain.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *mockAttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	args := m.Called(ctx, id)
	if attachment := args.Get(0); attachment != nil {
		return attachment.(*domain.Attachment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttachmentStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Attachment, error) {
	args := m.Called(ctx, itemID)
	if attachments := args.Get(0); attachments != nil {
		return attachments.([]*domain.Attachment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttachmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockBlobStore is a testify mock for store.BlobStore.
type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) PresignPut(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockBlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// mockNotificationSink is a testify mock for store.NotificationSink.
type mockNotificationSink struct {
	mock.Mock
}

func (m *mockNotificationSink) ItemCreated(ctx context.Context, owner *domain.Actor, item *domain.Item) error {
	args := m.Called(ctx, owner, item)
	return args.Error(0)
}

// auditCall captures one invocation of the recorder.
type auditCall struct {
	Action string
	ItemID *uuid.UUID
	Actor  *domain.Actor
}

// spyAuditRecorder records calls for assertion instead of persisting.
type spyAuditRecorder struct {
	mu    sync.Mutex
	calls []auditCall
}

func (r *spyAuditRecorder) Record(ctx context.Context, action string, itemID *uuid.UUID, actor *domain.Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, auditCall{Action: action, ItemID: itemID, Actor: actor})
}

func (r *spyAuditRecorder) recorded() []auditCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]auditCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// stubQueue is a TaskQueueWriter double with a scriptable Enqueue error.
type stubQueue struct {
	mu         sync.Mutex
	enqueueErr error
	tasks      []task.Task
}

func (q *stubQueue) Enqueue(t task.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.tasks = append(q.tasks, t)
	return nil
}

func (q *stubQueue) Close() {}

func (q *stubQueue) enqueued() []task.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]task.Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}
