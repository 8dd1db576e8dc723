package lang

import (
	"context"
	"fmt"
	"time"
)

type Int int

var _ Value = Int(0)

func (value Int) String() string {
	return fmt.Sprintf("%d", value)
}

func (value Int) Equal(other Value) bool {
	var o Int
	return other.Decode(&o) == nil && value == o
}

func (value Int) Decode(dest any) error {
	switch x := dest.(type) {
	case *Int:
		*x = value
		return nil
	case *int:
		*x = int(value)
		return nil
	case *int64:
		*x = int64(value)
		return nil
	case *time.Duration:
		*x = time.Duration(value) * time.Second
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
func (value Int) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}
