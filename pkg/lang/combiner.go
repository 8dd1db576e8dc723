package lang

import "context"

// Combiner is a value which can be called with a list of arguments.
type Combiner interface {
	Value

	Call(context.Context, Value, *Scope, Cont) ReadyCont
}

// Applicative is a combiner which evaluates its arguments before passing
// them to the underlying combiner.
type Applicative interface {
	Combiner

	Unwrap() Combiner
}

type Wrapped struct {
	Underlying Combiner
}

func Wrap(comb Combiner) Applicative {
	return Wrapped{comb}
}

var _ Applicative = Wrapped{}

func (app Wrapped) Unwrap() Combiner {
	return app.Underlying
}

func (value Wrapped) Equal(other Value) bool {
	var o Wrapped
	return other.Decode(&o) == nil && value.Underlying.Equal(o.Underlying)
}

func (value Wrapped) String() string {
	var op *Operative
	if err := value.Underlying.Decode(&op); err == nil {
		return op.String()
	}

	return value.Underlying.String()
}

func (value Wrapped) Decode(dest any) error {
	switch x := dest.(type) {
	case *Wrapped:
		*x = value
		return nil
	case *Applicative:
		*x = value
		return nil
	case *Combiner:
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

// Eval returns the value.
func (value Wrapped) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

// Call evaluates the value in the scope and calls the underlying
// combiner with the result.
func (combiner Wrapped) Call(ctx context.Context, val Value, scope *Scope, cont Cont) ReadyCont {
	call := Continue(func(res Value) Value {
		return combiner.Underlying.Call(ctx, res, scope, cont)
	})

	if pair, ok := val.(Pair); ok {
		return EvalPair(ctx, scope, pair, call)
	}

	return val.Eval(ctx, scope, call)
}

// EvalPair evaluates each element of a list, passing the resulting list to
// the continuation.
func EvalPair(ctx context.Context, scope *Scope, pair Pair, cont Cont) ReadyCont {
	return pair.A.Eval(ctx, scope, Continue(func(a Value) Value {
		pair.A = a

		cont := Continue(func(d Value) Value {
			pair.D = d
			return cont.Call(pair, nil)
		})

		if dp, ok := pair.D.(Pair); ok {
			return EvalPair(ctx, scope, dp, cont)
		}

		return pair.D.Eval(ctx, scope, cont)
	}))
}

// Apply calls a combiner with arguments which have already been evaluated.
func Apply(ctx context.Context, comb Combiner, args List, cont Cont) ReadyCont {
	var app Applicative
	if err := comb.Decode(&app); err == nil {
		comb = app.Unwrap()
	}

	return comb.Call(ctx, args, NewEmptyScope(), cont)
}
