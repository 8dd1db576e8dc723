// Package lang implements the small Lisp evaluated by the REPL.
//
// Evaluation is continuation-passing: Eval returns a ReadyCont rather than a
// result, and Run bounces those until it reaches a value or an await. An
// await yields a *Suspension, which a Coroutine parks on the loop until the
// awaited promise settles.
package lang

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vito/arepl/pkg/loop"
)

type Value interface {
	fmt.Stringer

	// Equal checks whether two values are equal, i.e. same type and equivalent
	// value.
	Equal(Value) bool

	// Decode coerces and assigns the Value into the given type, analogous to
	// unmarshaling.
	//
	// If the given type is a direct implementor of Value, it must only
	// succeed if the value is of the same type.
	Decode(any) error

	// Eval evaluates the value in the given scope and passes the result to the
	// continuation.
	Eval(context.Context, *Scope, Cont) ReadyCont
}

// ValueOf converts a Go value into a Value.
func ValueOf(src any) (Value, error) {
	switch x := src.(type) {
	case Value:
		return x, nil
	case nil:
		return Null{}, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case string:
		return String(x), nil
	case loop.Awaitable:
		return Promise{Awaitable: x}, nil
	default:
		rt := reflect.TypeOf(src)
		rv := reflect.ValueOf(src)

		switch rt.Kind() {
		case reflect.Slice:
			return valueOfSlice(rv)
		default:
			return nil, fmt.Errorf("cannot convert %T to Value: %+v", x, x)
		}
	}
}

func valueOfSlice(rv reflect.Value) (Value, error) {
	var list List = Empty{}
	for i := rv.Len() - 1; i >= 0; i-- {
		val, err := ValueOf(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}

		list = Pair{
			A: val,
			D: list,
		}
	}

	return list, nil
}

// Display renders a value the way print and str do: strings verbatim,
// everything else in its readable form.
func Display(val Value) string {
	var str string
	if err := val.Decode(&str); err == nil {
		return str
	}

	return val.String()
}
