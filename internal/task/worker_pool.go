package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// DefaultWorkers is the worker count of DefaultPersisterConfig.
const DefaultWorkers = 2

// WorkerPool runs the tasks of a Source on a fixed set of goroutines.
// Every task receives the pool context, which Stop cancels.
type WorkerPool struct {
	source  Source
	workers int
	onError func(t Task, err error)
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool creates a stopped pool. A non-positive worker count runs a
// single worker.
func NewWorkerPool(source Source, workers int, logger *slog.Logger) *WorkerPool {
	if workers <= 0 {
		logger.Warn("invalid worker count, using a single worker", slog.Int("configured", workers))
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		source:  source,
		workers: workers,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// OnError registers fn to be called after a task fails or panics. It must
// be set before Start.
func (p *WorkerPool) OnError(fn func(t Task, err error)) {
	p.onError = fn
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", slog.Int("workers", p.workers))
	for i := range p.workers {
		p.wg.Add(1)
		go p.work(i)
	}
}

// Stop cancels running tasks and waits for the workers to exit. Tasks
// still queued are left in the source.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Drain waits for the workers to finish a closed source. If ctx ends first
// the pool is stopped and ctx's error returned. On an open source Drain
// only returns through ctx.
func (p *WorkerPool) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool drained")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool drain interrupted", slog.String("error", ctx.Err().Error()))
		p.Stop()
		return ctx.Err()
	}
}

func (p *WorkerPool) work(id int) {
	defer p.wg.Done()

	log := p.logger.With(slog.Int("worker_id", id))
	tasks := p.source.Tasks()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			p.run(log, t)
		}
	}
}

// run executes t, turning a panic into an error so the worker survives.
func (p *WorkerPool) run(log *slog.Logger, t Task) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panic: %v", r)
			}
		}()
		return t.Execute(p.ctx)
	}()

	log = log.With(slog.String("task_type", t.Type()), slog.String("key", t.Key()))
	if err != nil {
		log.Error("task failed", slog.String("error", err.Error()))
		if p.onError != nil {
			p.onError(t, err)
		}
		return
	}
	log.Debug("task completed")
}
