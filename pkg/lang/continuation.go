package lang

import (
	"context"
	"fmt"
)

// Cont receives the result of an evaluation step.
type Cont interface {
	Value

	Call(Value, error) ReadyCont

	Traced(*Trace) Cont
}

// ReadyCont is a continuation paired with its input, waiting to be run by a
// trampoline.
type ReadyCont interface {
	Value

	Go() (Value, error)
}

// Continuation is a Go callback awaiting a value. Trace and TracedDepth
// point at the frames recorded on the way to it.
type Continuation struct {
	Continue    func(Value) Value
	Trace       *Trace
	TracedDepth int
}

func Continue(cont func(Value) Value) Cont {
	return &Continuation{
		Continue: cont,
	}
}

// Identity is the continuation which yields its input.
var Identity = Continue(func(v Value) Value {
	return v
})

func (value *Continuation) String() string {
	return "<cont>"
}

func (value *Continuation) Equal(other Value) bool {
	var o *Continuation
	return other.Decode(&o) == nil && value == o
}

func (value *Continuation) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

func (value *Continuation) Decode(dest any) error {
	switch x := dest.(type) {
	case **Continuation:
		*x = value
	case *Cont:
		*x = value
	case *Value:
		*x = value
	default:
		return DecodeError{
			Destination: dest,
			Source:      value,
		}
	}

	return nil
}

func (value *Continuation) Traced(trace *Trace) Cont {
	traced := *value
	traced.Trace = trace
	traced.TracedDepth++
	return &traced
}

// Call pops the frames this continuation traced on success; on failure they
// stay behind for the error report.
func (value *Continuation) Call(res Value, err error) ReadyCont {
	if value.Trace != nil && err == nil {
		value.Trace.Pop(value.TracedDepth)
	}

	return step{cont: value, res: res, err: err}
}

// step is a continuation applied to its input, run by the trampoline.
type step struct {
	cont *Continuation
	res  Value
	err  error
}

func (value step) Go() (Value, error) {
	if value.err != nil {
		return nil, value.err
	}

	return value.cont.Continue(value.res), nil
}

func (value step) String() string {
	if value.err != nil {
		return fmt.Sprintf("<step: %s>", value.err)
	}

	return fmt.Sprintf("<step: %s>", value.res)
}

func (value step) Equal(Value) bool {
	return false
}

func (value step) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

func (value step) Decode(dest any) error {
	switch x := dest.(type) {
	case *ReadyCont:
		*x = value
	case *Value:
		*x = value
	default:
		return DecodeError{
			Destination: dest,
			Source:      value,
		}
	}

	return nil
}
