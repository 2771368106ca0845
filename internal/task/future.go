package task

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Future.Err while the work has not finished.
var ErrPending = errors.New("task still pending")

// Future is the eventual outcome of background work. It resolves exactly
// once; later resolutions are ignored.
type Future struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewFuture returns an unresolved Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// ResolvedFuture returns a Future that is already resolved with err.
func ResolvedFuture(err error) *Future {
	f := NewFuture()
	f.resolve(err)
	return f
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the work has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the work finishes or ctx ends. It returns the work's
// error, or ctx's error if ctx ended first.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the work's error without blocking, or ErrPending.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return ErrPending
	}
}
