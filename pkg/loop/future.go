package loop

import (
	"errors"
	"time"
)

// ErrPending is returned by Result when the future has not settled yet.
var ErrPending = errors.New("loop: result is not ready")

// Awaitable is anything a task may suspend on.
//
// All methods must be called on the loop goroutine.
type Awaitable interface {
	// AddDoneCallback arranges for fn to be called on the loop once the
	// awaitable settles. If it has already settled, fn is scheduled
	// immediately.
	AddDoneCallback(fn func(any, error))

	// Cancel settles a pending awaitable with ErrCancelled. It returns false
	// if the awaitable had already settled.
	Cancel() bool

	// Done reports whether the awaitable has settled.
	Done() bool
}

// Future is a single-assignment result owned by the loop goroutine.
//
// Unlike future.Future it is not safe for concurrent use; it is settled and
// observed only from callbacks running on its loop.
type Future struct {
	loop *Loop

	done      bool
	result    any
	err       error
	observed  bool
	callbacks []func(any, error)
	onCancel  []func()
}

// NewFuture returns a pending future bound to the loop.
func (l *Loop) NewFuture() *Future {
	return &Future{loop: l}
}

var _ Awaitable = (*Future)(nil)

// Resolve settles the future with a value. It returns false if the future
// had already settled.
func (f *Future) Resolve(val any) bool {
	return f.settle(val, nil)
}

// Reject settles the future with an error. It returns false if the future
// had already settled.
func (f *Future) Reject(err error) bool {
	return f.settle(nil, err)
}

// Cancel runs any cancellation hooks and rejects the future with
// ErrCancelled.
func (f *Future) Cancel() bool {
	if f.done {
		return false
	}

	hooks := f.onCancel
	f.onCancel = nil
	for _, hook := range hooks {
		hook()
	}

	return f.settle(nil, ErrCancelled)
}

// OnCancel registers a hook to run if the future is cancelled, typically to
// release whatever would have settled it.
func (f *Future) OnCancel(hook func()) {
	f.onCancel = append(f.onCancel, hook)
}

// Done reports whether the future has settled.
func (f *Future) Done() bool {
	return f.done
}

// Cancelled reports whether the future settled by cancellation.
func (f *Future) Cancelled() bool {
	return f.done && errors.Is(f.err, ErrCancelled)
}

// Result returns the settled value or error, or ErrPending.
func (f *Future) Result() (any, error) {
	if !f.done {
		return nil, ErrPending
	}

	f.observed = true

	return f.result, f.err
}

// AddDoneCallback implements Awaitable.
func (f *Future) AddDoneCallback(fn func(any, error)) {
	f.observed = true

	if f.done {
		f.schedule(fn)
		return
	}

	f.callbacks = append(f.callbacks, fn)
}

func (f *Future) settle(val any, err error) bool {
	if f.done {
		return false
	}

	f.done = true
	f.result = val
	f.err = err
	f.onCancel = nil

	callbacks := f.callbacks
	f.callbacks = nil
	for _, cb := range callbacks {
		f.schedule(cb)
	}

	return true
}

func (f *Future) schedule(fn func(any, error)) {
	val, err := f.result, f.err
	_ = f.loop.Submit(func() {
		fn(val, err)
	})
}

// Sleep returns a future which resolves with val after d has elapsed on the
// loop's clock. Cancelling the future releases its timer.
func (l *Loop) Sleep(d time.Duration, val any) *Future {
	f := l.NewFuture()

	if d <= 0 {
		_ = l.Submit(func() {
			f.Resolve(val)
		})

		return f
	}

	stop := make(chan struct{})
	f.OnCancel(func() {
		close(stop)
	})

	fired := l.clock.After(d)

	go func() {
		select {
		case <-fired:
			_ = l.Submit(func() {
				f.Resolve(val)
			})
		case <-stop:
		case <-l.closing:
		}
	}()

	return f
}

// Gather returns a future resolving to the results of all awaitables, in
// order. It fails with the first error. Cancelling it cancels every
// awaitable still pending.
func (l *Loop) Gather(aws ...Awaitable) *Future {
	f := l.NewFuture()

	if len(aws) == 0 {
		_ = l.Submit(func() {
			f.Resolve([]any{})
		})

		return f
	}

	results := make([]any, len(aws))
	remaining := len(aws)

	for i, aw := range aws {
		i := i
		aw.AddDoneCallback(func(val any, err error) {
			if f.Done() {
				return
			}

			if err != nil {
				f.Reject(err)
				return
			}

			results[i] = val
			remaining--

			if remaining == 0 {
				f.Resolve(results)
			}
		})
	}

	f.OnCancel(func() {
		for _, aw := range aws {
			aw.Cancel()
		}
	})

	return f
}
