package lang

import (
	"context"
	"fmt"

	"github.com/vito/arepl/pkg/loop"
)

// Suspension is produced by await: the evaluation is parked until Awaiting
// settles, after which Cont receives its outcome.
//
// A Suspension only makes progress when it reaches Run directly. A Go call
// means something tried to trampoline through it, which cannot wait.
type Suspension struct {
	Awaiting loop.Awaitable
	Cont     Cont
}

var _ ReadyCont = (*Suspension)(nil)

func (value *Suspension) String() string {
	return fmt.Sprintf("<suspended: %s>", Promise{Awaitable: value.Awaiting})
}

func (value *Suspension) Equal(other Value) bool {
	var o *Suspension
	return other.Decode(&o) == nil && value == o
}

func (value *Suspension) Decode(dest any) error {
	switch x := dest.(type) {
	case **Suspension:
		*x = value
		return nil
	case *ReadyCont:
		*x = value
		return nil
	case *Value:
		*x = value
		return nil
	default:
		return DecodeError{
			Source:      value,
			Destination: dest,
		}
	}
}

func (value *Suspension) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

func (value *Suspension) Go() (Value, error) {
	value.Awaiting.Cancel()
	return nil, ErrCannotSuspend
}

// Coroutine is an evaluation run as a loop task, resumed each time the
// promise it awaits settles.
type Coroutine struct {
	start func(context.Context) Value

	susp   *Suspension
	parked bool
}

var _ loop.Resumable = (*Coroutine)(nil)

// Resume returns a coroutine which continues an evaluation that has already
// suspended.
func Resume(susp *Suspension) *Coroutine {
	return &Coroutine{susp: susp}
}

// Start returns a coroutine which begins by running the evaluation returned
// by start.
func Start(start func(context.Context) Value) *Coroutine {
	return &Coroutine{start: start}
}

func (coro *Coroutine) Step(ctx context.Context, val any, err error) (any, loop.Awaitable, error) {
	var next Value
	switch {
	case coro.start != nil:
		start := coro.start
		coro.start = nil

		if err != nil {
			return nil, nil, err
		}

		next = start(ctx)
	case !coro.parked:
		coro.parked = true

		if err == nil {
			return nil, coro.susp.Awaiting, nil
		}

		coro.susp.Awaiting.Cancel()
		next = coro.susp.Cont.Call(nil, err)
	default:
		res, convErr := ValueOf(val)
		if err == nil && convErr != nil {
			err = convErr
		}

		if err != nil {
			res = nil
		}

		next = coro.susp.Cont.Call(res, err)
	}

	res, susp, err := Run(ctx, next)
	if err != nil {
		return nil, nil, err
	}

	if susp != nil {
		coro.susp = susp
		coro.parked = true
		return nil, susp.Awaiting, nil
	}

	return res, nil, nil
}
