package lang

import "context"

type Symbol string

var _ Value = Symbol("")

// Ignore is the symbol which binds nothing.
const Ignore = Symbol("_")

func (value Symbol) String() string {
	return string(value)
}

func (value Symbol) Equal(other Value) bool {
	var o Symbol
	return other.Decode(&o) == nil && value == o
}

func (value Symbol) Decode(dest any) error {
	switch x := dest.(type) {
	case *Symbol:
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

// Eval looks up the symbol's value in the scope.
func (value Symbol) Eval(_ context.Context, scope *Scope, cont Cont) ReadyCont {
	res, found := scope.Get(value)
	if !found {
		return cont.Call(nil, UnboundError{
			Symbol: value,
			Scope:  scope,
		})
	}

	return cont.Call(res, nil)
}
