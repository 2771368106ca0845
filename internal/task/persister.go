package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
)

// PersisterConfig configures an AsyncPersister.
type PersisterConfig struct {
	// Workers is the number of concurrent writers.
	Workers int
	// QueueSize bounds the number of writes waiting for a worker.
	QueueSize int
	// WriteTimeout bounds a single write. Zero means no timeout.
	WriteTimeout time.Duration
}

// DefaultPersisterConfig returns a PersisterConfig with reasonable defaults
func DefaultPersisterConfig() PersisterConfig {
	return PersisterConfig{
		Workers:      DefaultWorkers,
		QueueSize:    256,
		WriteTimeout: 5 * time.Second,
	}
}

// AsyncPersister writes schedule states in the background. Each write is an
// UpsertScheduleTask processed by a WorkerPool, and Persist hands back the
// task's Future instead of waiting for storage.
type AsyncPersister struct {
	writer    ScheduleWriter
	queue     *TaskQueue
	pool      *WorkerPool
	timeout   time.Duration
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewAsyncPersister creates an AsyncPersister and starts its workers.
func NewAsyncPersister(writer ScheduleWriter, config PersisterConfig, log *slog.Logger) *AsyncPersister {
	if writer == nil {
		panic("writer cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		panic("logger cannot be nil") // ALLOW-PANIC
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultPersisterConfig().QueueSize
	}

	log = log.With(slog.String("component", "schedule_persister"))
	queue := NewTaskQueue(config.QueueSize, log)
	pool := NewWorkerPool(queue, config.Workers, log)

	p := &AsyncPersister{
		writer:  writer,
		queue:   queue,
		pool:    pool,
		timeout: config.WriteTimeout,
		logger:  log,
	}
	pool.OnError(p.handleFailure)
	pool.Start()

	return p
}

// Persist schedules a write of state for (userID, wordID) and returns
// immediately. The returned Future resolves with the storage outcome, or
// at once with ErrQueueFull or ErrQueueClosed when the write could not be
// queued. ctx only supplies the request-scoped logger; canceling it does
// not cancel the write.
func (p *AsyncPersister) Persist(
	ctx context.Context,
	userID, wordID uuid.UUID,
	state domain.ScheduleState,
) *Future {
	t := NewUpsertScheduleTask(p.writer, userID, wordID, state, p.timeout)

	if err := p.queue.Enqueue(t); err != nil {
		logger.FromContextOrDefault(ctx, p.logger).Warn("schedule write not queued",
			slog.String("key", t.Key()),
			slog.String("error", err.Error()))
		t.abandon(err)
	}

	return t.Future()
}

// Pending returns the number of writes waiting for a worker.
func (p *AsyncPersister) Pending() int {
	return p.queue.Len()
}

// Close stops accepting writes and waits for queued ones to finish until
// ctx ends. Writes still queued after that resolve with ErrQueueClosed.
func (p *AsyncPersister) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.queue.Close()
		p.closeErr = p.pool.Drain(ctx)

		// Stop left these in the channel; release anyone waiting on them.
		for t := range p.queue.Tasks() {
			if u, ok := t.(*UpsertScheduleTask); ok {
				u.abandon(ErrQueueClosed)
			}
		}
	})
	return p.closeErr
}

func (p *AsyncPersister) handleFailure(t Task, err error) {
	p.logger.Warn("schedule write failed",
		slog.String("task_id", t.ID().String()),
		slog.String("key", t.Key()),
		slog.String("error", err.Error()))
}
