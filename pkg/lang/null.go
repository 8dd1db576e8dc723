package lang

import "context"

type Null struct{}

var _ Value = Null{}

func (Null) String() string {
	return "null"
}

func (value Null) Equal(other Value) bool {
	var o Null
	return other.Decode(&o) == nil
}

func (value Null) Decode(dest any) error {
	switch x := dest.(type) {
	case *Null:
		*x = value
		return nil
	case *bool:
		*x = false
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
func (value Null) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}
