package loop

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resumable is a computation which can be advanced one step at a time.
//
// Step is called on the loop goroutine with the outcome of whatever the
// previous step awaited (nil, nil for the first step). It returns exactly
// one of: a final result, an Awaitable to suspend on, or an error.
type Resumable interface {
	Step(ctx context.Context, val any, err error) (result any, await Awaitable, fail error)
}

// Task drives a Resumable to completion on the loop, settling its embedded
// Future with the final outcome.
type Task struct {
	*Future

	ID   string
	Name string

	ctx  context.Context
	coro Resumable

	waiting    Awaitable
	cancelling bool
}

var _ Awaitable = (*Task)(nil)

// Spawn starts a task for the resumable under the given execution context.
// The first step is scheduled rather than run inline.
//
// Spawn must be called on the loop goroutine.
func (l *Loop) Spawn(ctx context.Context, name string, coro Resumable) *Task {
	task := &Task{
		Future: l.NewFuture(),

		ID:   uuid.New().String(),
		Name: name,

		ctx:  ctx,
		coro: coro,
	}

	err := l.Submit(func() {
		task.step(nil, nil)
	})
	if err != nil {
		task.Future.Reject(fmt.Errorf("spawn %s: %w", name, err))
	}

	return task
}

func (task *Task) String() string {
	return fmt.Sprintf("<task %s: %s>", task.Name, task.ID[:8])
}

// Cancel requests cancellation. If the task is suspended, whatever it awaits
// is cancelled; either way ErrCancelled is delivered to the task at its next
// step. Cancelling a task which is already being cancelled is a no-op.
func (task *Task) Cancel() bool {
	if task.Done() {
		return false
	}

	if task.cancelling {
		return true
	}

	task.cancelling = true

	if task.waiting != nil {
		task.waiting.Cancel()
	}

	return true
}

func (task *Task) step(val any, err error) {
	if task.Done() {
		return
	}

	if task.cancelling && err == nil {
		err = ErrCancelled
	}

	task.cancelling = false
	task.waiting = nil

	res, aw, fail := task.coro.Step(task.ctx, val, err)
	switch {
	case fail != nil:
		task.Future.Reject(fail)

		if !task.observed {
			task.loop.logger.Debug("task failed with nobody waiting",
				zap.String("task", task.Name),
				zap.String("id", task.ID),
				zap.Error(fail))
		}
	case aw != nil:
		task.waiting = aw
		aw.AddDoneCallback(task.step)
	default:
		task.Future.Resolve(res)
	}
}
