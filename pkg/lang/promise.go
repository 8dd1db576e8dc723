package lang

import (
	"context"
	"fmt"

	"github.com/vito/arepl/pkg/loop"
)

// Promise is a value wrapping something that can be awaited: a sleep, a
// gather, or a spawned task.
type Promise struct {
	Awaitable loop.Awaitable
}

var _ Value = Promise{}

func (value Promise) String() string {
	if stringer, ok := value.Awaitable.(fmt.Stringer); ok {
		return stringer.String()
	}

	state := "pending"
	if value.Awaitable.Done() {
		state = "done"
	}

	return fmt.Sprintf("<promise: %s>", state)
}

func (value Promise) Equal(other Value) bool {
	var o Promise
	return other.Decode(&o) == nil && value.Awaitable == o.Awaitable
}

func (value Promise) Decode(dest any) error {
	switch x := dest.(type) {
	case *Promise:
		*x = value
		return nil
	case *loop.Awaitable:
		*x = value.Awaitable
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

// Eval returns the value.
func (value Promise) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}
