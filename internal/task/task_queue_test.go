package task

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTask is a controllable Task implementation for queue and pool tests.
type fakeTask struct {
	id       uuid.UUID
	taskType string
	execErr  error
	execFn   func(ctx context.Context) error
	executed atomic.Int32
}

func newFakeTask() *fakeTask {
	return &fakeTask{id: uuid.New(), taskType: "fake"}
}

func (t *fakeTask) ID() uuid.UUID { return t.id }
func (t *fakeTask) Type() string  { return t.taskType }

func (t *fakeTask) Execute(ctx context.Context) error {
	t.executed.Add(1)
	if t.execFn != nil {
		return t.execFn(ctx)
	}
	return t.execErr
}

func (t *fakeTask) executions() int32 {
	return t.executed.Load()
}

func TestTaskQueueEnqueue(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(2, nil)

	require.NoError(t, queue.Enqueue(newFakeTask()))
	require.NoError(t, queue.Enqueue(newFakeTask()))

	err := queue.Enqueue(newFakeTask())
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestTaskQueueEnqueueAfterClose(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(2, nil)
	queue.Close()

	assert.ErrorIs(t, queue.Enqueue(newFakeTask()), ErrQueueClosed)
}

func TestTaskQueueCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(1, nil)
	queue.Close()
	assert.NotPanics(t, func() { queue.Close() })
}

func TestTaskQueueBufferedTasksSurviveClose(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(2, nil)
	first := newFakeTask()
	require.NoError(t, queue.Enqueue(first))
	queue.Close()

	got, ok := <-queue.GetChannel()
	require.True(t, ok)
	assert.Equal(t, first.ID(), got.ID())

	_, ok = <-queue.GetChannel()
	assert.False(t, ok)
}

func TestTaskQueueConcurrentEnqueue(t *testing.T) {
	t.Parallel()

	const producers = 8
	queue := NewTaskQueue(producers, nil)

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, queue.Enqueue(newFakeTask()))
		}()
	}
	wg.Wait()

	assert.Len(t, queue.GetChannel(), producers)
}

func TestWorkerPoolProcessesTasks(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(10, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 3}, nil)

	const taskCount = 10
	done := make(chan struct{}, taskCount)
	tasks := make([]*fakeTask, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		ft := newFakeTask()
		ft.execFn = func(ctx context.Context) error {
			done <- struct{}{}
			return nil
		}
		tasks = append(tasks, ft)
		require.NoError(t, queue.Enqueue(ft))
	}

	pool.Start()
	defer pool.Stop()

	for i := 0; i < taskCount; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks to complete")
		}
	}

	for _, ft := range tasks {
		assert.Equal(t, int32(1), ft.executions())
	}
}

func TestWorkerPoolErrorHandler(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(1, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, nil)

	handled := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		handled <- err
	})

	failing := newFakeTask()
	failing.execErr = assert.AnError
	require.NoError(t, queue.Enqueue(failing))

	pool.Start()
	defer pool.Stop()

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not invoked")
	}
}

func TestWorkerPoolRecoversFromPanic(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(2, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, nil)

	handled := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		handled <- err
	})

	panicking := newFakeTask()
	panicking.execFn = func(ctx context.Context) error {
		panic("boom")
	}
	require.NoError(t, queue.Enqueue(panicking))

	// A second task proves the worker survived the panic.
	survivor := newFakeTask()
	executed := make(chan struct{})
	survivor.execFn = func(ctx context.Context) error {
		close(executed)
		return nil
	}
	require.NoError(t, queue.Enqueue(survivor))

	pool.Start()
	defer pool.Stop()

	select {
	case err := <-handled:
		assert.Contains(t, err.Error(), "task panicked")
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not invoked for panic")
	}

	select {
	case <-executed:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestWorkerPoolStopWaitsForWorkers(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(1, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 2}, nil)

	started := make(chan struct{})
	slow := newFakeTask()
	slow.execFn = func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return nil
	}
	require.NoError(t, queue.Enqueue(slow))

	pool.Start()
	<-started
	pool.Stop()

	assert.Equal(t, int32(1), slow.executions())
}

func TestWorkerPoolDefaultsInvalidWorkerCount(t *testing.T) {
	t.Parallel()

	pool := NewWorkerPool(NewTaskQueue(1, nil), WorkerPoolConfig{WorkerCount: -1}, nil)
	assert.Equal(t, 1, pool.workerCount)
}
