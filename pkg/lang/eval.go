package lang

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
)

func EvalFile(ctx context.Context, scope *Scope, filePath string) (Value, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	return EvalReader(ctx, scope, file, filePath)
}

func EvalString(ctx context.Context, scope *Scope, str string, file string) (Value, error) {
	return EvalReader(ctx, scope, bytes.NewBufferString(str), file)
}

// EvalReader evaluates each form read from r, returning the last result.
// Forms which await fail with ErrCannotSuspend.
func EvalReader(ctx context.Context, scope *Scope, r io.Reader, file string) (Value, error) {
	reader := NewReader(r, file)

	var res Value = Null{}
	for {
		val, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		res, err = Trampoline(ctx, val.Eval(ctx, scope, Identity))
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Trampoline runs the continuation to completion without suspending.
func Trampoline(ctx context.Context, val Value) (Value, error) {
	res, susp, err := Run(ctx, val)
	if err != nil {
		return nil, err
	}

	if susp != nil {
		susp.Awaiting.Cancel()
		return nil, ErrCannotSuspend
	}

	return res, nil
}

// Run bounces continuations until it reaches a final value, an error, or a
// suspension. It fails with ErrInterrupted once ctx is done.
func Run(ctx context.Context, val Value) (Value, *Suspension, error) {
	var err error
	for ctx.Err() == nil {
		switch x := val.(type) {
		case *Suspension:
			return nil, x, nil
		case ReadyCont:
			val, err = x.Go()
			if err != nil {
				return nil, nil, err
			}
		default:
			return val, nil, nil
		}
	}

	return nil, nil, ErrInterrupted
}
