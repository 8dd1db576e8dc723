// Package future provides a single-assignment result cell which may be
// settled from one goroutine and waited on from another.
package future

import (
	"context"
	"sync"
)

// Future is settled exactly once, with either a value or an error.
//
// Settling an already-settled Future is a programming error and panics.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool

	val T
	err error
}

// New returns a pending Future.
func New[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Resolve fulfills the future with the given value.
func (f *Future[T]) Resolve(val T) {
	f.settle(val, nil)
}

// Reject fails the future with the given error.
func (f *Future[T]) Reject(err error) {
	if err == nil {
		panic("future: reject with nil error")
	}

	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(val T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.settled {
		panic("future: settled twice")
	}

	f.settled = true
	f.val = val
	f.err = err
	close(f.done)
}

// Settled reports whether Resolve or Reject has been called.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Done returns a channel which is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or the context is done.
//
// If the context is done first its error is returned and the future remains
// pending; a later Wait will still observe the eventual result.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		// prefer the result if both are ready
		select {
		case <-f.done:
		default:
			var zero T
			return zero, ctx.Err()
		}
	}

	// fields are immutable once done is closed
	return f.val, f.err
}
