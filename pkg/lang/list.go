package lang

import (
	"context"
	"fmt"
)

type List interface {
	Value

	First() Value
	Rest() Value
}

// NewList builds a Pair list of the given values.
func NewList(vals ...Value) List {
	var list List = Empty{}
	for i := len(vals) - 1; i >= 0; i-- {
		list = Pair{
			A: vals[i],
			D: list,
		}
	}

	return list
}

// Each calls cb for each value in the list. It fails with ErrBadSyntax if the
// list is improper.
func Each(list List, cb func(Value) error) error {
	for list != (Empty{}) {
		if err := cb(list.First()); err != nil {
			return err
		}

		var rest List
		if err := list.Rest().Decode(&rest); err != nil {
			return fmt.Errorf("%w: improper list: %s", ErrBadSyntax, list)
		}

		list = rest
	}

	return nil
}

// ToSlice collects a list's values.
func ToSlice(list List) ([]Value, error) {
	var vals []Value
	err := Each(list, func(v Value) error {
		vals = append(vals, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return vals, nil
}

func formatList(list List, odelim, cdelim string) string {
	out := odelim

	for list != (Empty{}) {
		out += list.First().String()

		var rest List
		if err := list.Rest().Decode(&rest); err != nil {
			out += " & " + list.Rest().String()
			break
		}

		if rest != (Empty{}) {
			out += " "
		}

		list = rest
	}

	return out + cdelim
}

// Empty is the end of every list.
type Empty struct{}

var _ List = Empty{}

func (Empty) String() string {
	return "()"
}

func (value Empty) Equal(other Value) bool {
	var o Empty
	return other.Decode(&o) == nil
}

func (value Empty) Decode(dest any) error {
	switch x := dest.(type) {
	case *Empty:
		*x = value
		return nil
	case *List:
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
func (value Empty) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

func (Empty) First() Value {
	return Empty{}
}

func (Empty) Rest() Value {
	return Empty{}
}

// Pair is a list cell. Evaluating a Pair applies its head to its tail.
type Pair struct {
	A Value
	D Value
}

var _ List = Pair{}

func (value Pair) String() string {
	return formatList(value, "(", ")")
}

func (value Pair) Equal(other Value) bool {
	var o Pair
	return other.Decode(&o) == nil &&
		value.A.Equal(o.A) &&
		value.D.Equal(o.D)
}

func (value Pair) Decode(dest any) error {
	switch x := dest.(type) {
	case *Pair:
		*x = value
		return nil
	case *List:
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

// Eval evaluates the head of the pair to a combiner and calls it with the
// tail.
func (value Pair) Eval(ctx context.Context, scope *Scope, cont Cont) ReadyCont {
	return value.A.Eval(ctx, scope, Continue(func(f Value) Value {
		var combiner Combiner
		if err := f.Decode(&combiner); err != nil {
			return cont.Call(nil, NotCombinerError{Value: f})
		}

		return combiner.Call(ctx, value.D, scope, cont)
	}))
}

func (value Pair) First() Value {
	return value.A
}

func (value Pair) Rest() Value {
	return value.D
}

// Cons is a list cell read from [...]. Unlike a Pair, evaluating it
// evaluates each element and yields a list.
type Cons struct {
	A Value
	D Value
}

var _ List = Cons{}

func (value Cons) String() string {
	return formatList(value, "[", "]")
}

func (value Cons) Equal(other Value) bool {
	var o List
	return other.Decode(&o) == nil &&
		o != (Empty{}) &&
		value.A.Equal(o.First()) &&
		value.D.Equal(o.Rest())
}

func (value Cons) Decode(dest any) error {
	switch x := dest.(type) {
	case *Cons:
		*x = value
		return nil
	case *List:
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

// Eval evaluates each element, yielding a Pair list.
func (value Cons) Eval(ctx context.Context, scope *Scope, cont Cont) ReadyCont {
	return EvalPair(ctx, scope, Pair(value), cont)
}

func (value Cons) First() Value {
	return value.A
}

func (value Cons) Rest() Value {
	return value.D
}
