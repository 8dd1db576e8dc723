package lang

import (
	"context"
	"fmt"
)

// Operative is a combiner defined by fn. It binds its formals in a child of
// the scope it was defined in and evaluates its body there.
type Operative struct {
	Formals Value
	Body    []Value
	Scope   *Scope
}

var _ Combiner = (*Operative)(nil)

func (value *Operative) String() string {
	return NewList(append([]Value{Symbol("fn"), value.Formals}, value.Body...)...).String()
}

func (value *Operative) Equal(other Value) bool {
	var o *Operative
	return other.Decode(&o) == nil && value == o
}

func (value *Operative) Decode(dest any) error {
	switch x := dest.(type) {
	case **Operative:
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
func (value *Operative) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

func (value *Operative) Call(ctx context.Context, args Value, _ *Scope, cont Cont) ReadyCont {
	sub := NewEmptyScope(value.Scope)

	if err := BindFormals(sub, value.Formals, args); err != nil {
		return cont.Call(nil, err)
	}

	return do(ctx, cont, sub, value.Body)
}

// BindFormals destructures val according to the formals: a symbol binds the
// whole value, a list binds element-wise, and _ binds nothing.
func BindFormals(scope *Scope, formals Value, val Value) error {
	var sym Symbol
	if err := formals.Decode(&sym); err == nil {
		if sym != Ignore {
			scope.Set(sym, val)
		}

		return nil
	}

	var flist List
	if err := formals.Decode(&flist); err != nil {
		return fmt.Errorf("%w: cannot bind to %s", ErrBadSyntax, formals)
	}

	var vlist List
	if err := val.Decode(&vlist); err != nil {
		return fmt.Errorf("bind: need list, have %s", val)
	}

	if flist == (Empty{}) {
		if vlist != (Empty{}) {
			return fmt.Errorf("bind: too many values: %s", val)
		}

		return nil
	}

	if vlist == (Empty{}) {
		return fmt.Errorf("bind: missing value for %s", flist.First())
	}

	if err := BindFormals(scope, flist.First(), vlist.First()); err != nil {
		return err
	}

	return BindFormals(scope, flist.Rest(), vlist.Rest())
}
