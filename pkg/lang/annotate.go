package lang

import (
	"context"
	"fmt"

	"github.com/spy16/slurp/reader"
)

// Annotate wraps a value read from source with the range it was read from.
type Annotate struct {
	Value

	Range Range
}

var _ Value = Annotate{}

func (value Annotate) Equal(other Value) bool {
	return value.Value.Equal(other)
}

func (value Annotate) Decode(dest any) error {
	switch x := dest.(type) {
	case *Annotate:
		*x = value
		return nil
	case *Value:
		// keep the range, so calls nested in forms passed to operatives
		// still record frames
		*x = value
		return nil
	default:
		return value.Value.Decode(dest)
	}
}

// Eval evaluates the inner value. Calls are recorded as frames in the trace.
func (value Annotate) Eval(ctx context.Context, scope *Scope, cont Cont) ReadyCont {
	if _, isCall := value.Value.(Pair); isCall {
		cont = WithFrame(ctx, &value, cont)
	}

	return value.Value.Eval(ctx, scope, cont)
}

type Range struct {
	Start, End reader.Position
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%d:%d..%d:%d", r.Start.File, r.Start.Ln, r.Start.Col, r.End.Ln, r.End.Col)
}

// IsWithin reports whether the range falls inside the outer range.
func (inner Range) IsWithin(outer Range) bool {
	if inner.Start.File != outer.Start.File {
		return false
	}

	if inner.Start.Ln < outer.Start.Ln || inner.End.Ln > outer.End.Ln {
		return false
	}

	if inner.Start.Ln == outer.Start.Ln && inner.Start.Col < outer.Start.Col {
		return false
	}

	if inner.End.Ln == outer.End.Ln && inner.End.Col > outer.End.Col {
		return false
	}

	return true
}
