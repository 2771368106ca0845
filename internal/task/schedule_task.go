package task

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
)

// ScheduleWriter stores a schedule state with create-or-update semantics
// keyed by (userID, wordID).
type ScheduleWriter interface {
	UpsertSchedule(
		ctx context.Context,
		userID, wordID uuid.UUID,
		state *domain.ScheduleState,
	) (*domain.ScheduleState, error)
}

// UpsertScheduleTask writes one reviewed word's schedule state and resolves
// its Future with the outcome.
type UpsertScheduleTask struct {
	id      uuid.UUID
	userID  uuid.UUID
	wordID  uuid.UUID
	state   domain.ScheduleState
	writer  ScheduleWriter
	timeout time.Duration
	status  atomic.Value
	future  *Future
}

var _ Task = (*UpsertScheduleTask)(nil)

// NewUpsertScheduleTask creates a pending upsert task. A zero timeout means
// the write is bounded only by the worker context.
func NewUpsertScheduleTask(
	writer ScheduleWriter,
	userID, wordID uuid.UUID,
	state domain.ScheduleState,
	timeout time.Duration,
) *UpsertScheduleTask {
	if writer == nil {
		panic("writer cannot be nil") // ALLOW-PANIC
	}

	t := &UpsertScheduleTask{
		id:      uuid.New(),
		userID:  userID,
		wordID:  wordID,
		state:   state,
		writer:  writer,
		timeout: timeout,
		future:  NewFuture(),
	}
	t.status.Store(StatusPending)
	return t
}

// ID implements Task.
func (t *UpsertScheduleTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *UpsertScheduleTask) Type() string { return TypeScheduleUpsert }

// Key returns "<user>/<word>", the row the upsert replaces.
func (t *UpsertScheduleTask) Key() string {
	return t.userID.String() + "/" + t.wordID.String()
}

// Status implements Task.
func (t *UpsertScheduleTask) Status() Status {
	return t.status.Load().(Status)
}

// Future is resolved once the write finished or was abandoned.
func (t *UpsertScheduleTask) Future() *Future { return t.future }

// Execute performs the upsert and resolves the Future with its outcome.
func (t *UpsertScheduleTask) Execute(ctx context.Context) error {
	t.status.Store(StatusProcessing)
	defer func() {
		if r := recover(); r != nil {
			t.abandon(fmt.Errorf("task panic: %v", r))
			panic(r)
		}
	}()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	state := t.state
	_, err := t.writer.UpsertSchedule(ctx, t.userID, t.wordID, &state)
	if err != nil {
		err = fmt.Errorf("failed to persist schedule for word %s: %w", t.wordID, err)
		t.status.Store(StatusFailed)
		t.future.resolve(err)
		return err
	}

	t.status.Store(StatusCompleted)
	t.future.resolve(nil)
	return nil
}

// abandon resolves the Future for a task that will never run.
func (t *UpsertScheduleTask) abandon(err error) {
	t.status.Store(StatusFailed)
	t.future.resolve(err)
}
