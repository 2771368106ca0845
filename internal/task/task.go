package task

import (
	"context"

	"github.com/google/uuid"
)

// Status is the lifecycle stage of a task.
type Status string

// Task lifecycle stages.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// TypeScheduleUpsert identifies writes of a reviewed word's schedule state.
const TypeScheduleUpsert = "schedule_upsert"

// Task is one unit of background work run by a WorkerPool.
type Task interface {
	ID() uuid.UUID
	Type() string
	// Key names the record the task touches, for logs.
	Key() string
	Status() Status
	Execute(ctx context.Context) error
}

// Source hands queued tasks to workers.
type Source interface {
	// Tasks is closed once the source is closed and drained.
	Tasks() <-chan Task
}

// Sink accepts tasks for background execution.
type Sink interface {
	// Enqueue fails with ErrQueueFull or ErrQueueClosed instead of blocking.
	Enqueue(t Task) error
	Close()
}
