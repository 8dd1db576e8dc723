// Package loop implements a single-goroutine cooperative scheduler.
//
// All callbacks, timers and task steps run on the goroutine which calls
// RunForever, one at a time. Other goroutines hand work to the loop with
// Submit.
package loop

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by Submit once the loop has been closed.
	ErrClosed = errors.New("loop: closed")

	// ErrAlreadyRunning is returned by RunForever when another goroutine is
	// already running the loop.
	ErrAlreadyRunning = errors.New("loop: already running")

	// ErrCancelled is the error a future or task settles with when it is
	// cancelled.
	ErrCancelled = errors.New("cancelled")
)

// Loop is a callback queue drained by a single goroutine.
type Loop struct {
	clock  clockwork.Clock
	logger *zap.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake    chan struct{}
	closing chan struct{}

	running  *atomic.Bool
	stopping *atomic.Bool

	closeOnce sync.Once
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the clock used for timers.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Loop) {
		l.clock = clock
	}
}

// WithLogger sets the logger used for reporting panics and lost errors.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New constructs an idle loop. Nothing runs until RunForever is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:  clockwork.NewRealClock(),
		logger: zap.NewNop(),

		wake:    make(chan struct{}, 1),
		closing: make(chan struct{}),

		running:  atomic.NewBool(false),
		stopping: atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Clock returns the clock the loop schedules timers against.
func (l *Loop) Clock() clockwork.Clock {
	return l.clock
}

// Submit enqueues cb to run on the loop goroutine. It is safe to call from
// any goroutine. Callbacks submitted from one goroutine run in the order
// they were submitted.
func (l *Loop) Submit(cb func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}

	l.queue = append(l.queue, cb)
	l.mu.Unlock()

	l.notify()

	return nil
}

// Stop requests RunForever to return once the callback currently executing
// finishes. Callbacks still queued are kept for a later RunForever.
//
// Stop is safe to call from any goroutine, including from a callback.
func (l *Loop) Stop() {
	l.stopping.Store(true)
	l.notify()
}

// Running reports whether a goroutine is inside RunForever.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// RunForever runs callbacks until Stop is observed or ctx is done.
func (l *Loop) RunForever(ctx context.Context) error {
	if !l.running.CAS(false, true) {
		return ErrAlreadyRunning
	}

	defer l.running.Store(false)

	// pin to the OS thread; everything the loop owns is touched from here
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.logger.Debug("loop running")

	for {
		if l.stopping.CAS(true, false) {
			l.logger.Debug("loop stopped")
			return nil
		}

		cb, ok := l.pop()
		if !ok {
			select {
			case <-l.wake:
				continue
			case <-ctx.Done():
				l.logger.Debug("loop interrupted", zap.Error(ctx.Err()))
				return ctx.Err()
			}
		}

		l.safeExecute(cb)
	}
}

// Close rejects further submissions and stops pending timers. Queued
// callbacks which have not yet run are dropped.
func (l *Loop) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		dropped := len(l.queue)
		l.queue = nil
		l.mu.Unlock()

		close(l.closing)

		if dropped > 0 {
			l.logger.Debug("dropped queued callbacks", zap.Int("count", dropped))
		}
	})

	return nil
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}

	cb := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]

	return cb, true
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) safeExecute(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("callback panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	cb()
}

type loopKey struct{}

// ToContext returns a context carrying the loop.
func ToContext(ctx context.Context, l *Loop) context.Context {
	return context.WithValue(ctx, loopKey{}, l)
}

// FromContext returns the loop carried by the context, if any.
func FromContext(ctx context.Context) (*Loop, bool) {
	l, ok := ctx.Value(loopKey{}).(*Loop)
	return l, ok
}
