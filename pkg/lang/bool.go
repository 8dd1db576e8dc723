package lang

import "context"

type Bool bool

var _ Value = Bool(false)

func (value Bool) String() string {
	if value {
		return "true"
	}

	return "false"
}

func (value Bool) Equal(other Value) bool {
	var o Bool
	return other.Decode(&o) == nil && value == o
}

func (value Bool) Decode(dest any) error {
	switch x := dest.(type) {
	case *Bool:
		*x = value
		return nil
	case *bool:
		*x = bool(value)
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
func (value Bool) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

// Truthy reports whether a value counts as true in a condition: anything but
// false and null.
func Truthy(val Value) bool {
	var b bool
	if err := val.Decode(&b); err != nil {
		return true
	}

	return b
}
