package lang

import (
	"context"
	"strconv"
	"time"
)

type String string

var _ Value = String("")

func (value String) String() string {
	return strconv.Quote(string(value))
}

func (value String) Equal(other Value) bool {
	var o String
	return other.Decode(&o) == nil && value == o
}

func (value String) Decode(dest any) error {
	switch x := dest.(type) {
	case *String:
		*x = value
		return nil
	case *string:
		*x = string(value)
		return nil
	case *time.Duration:
		d, err := time.ParseDuration(string(value))
		if err != nil {
			return err
		}

		*x = d
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
func (value String) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}
