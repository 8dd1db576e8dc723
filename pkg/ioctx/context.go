// Package ioctx carries the session's output streams through a
// context.Context, so code running on the loop writes where the console
// points it.
package ioctx

import (
	"context"
	"io"
)

type stdoutKey struct{}
type stderrKey struct{}

func StdoutFromContext(ctx context.Context) io.Writer {
	w := ctx.Value(stdoutKey{})
	if w == nil {
		return io.Discard
	}

	return w.(io.Writer)
}

func StdoutToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func StderrFromContext(ctx context.Context) io.Writer {
	w := ctx.Value(stderrKey{})
	if w == nil {
		return io.Discard
	}

	return w.(io.Writer)
}

func StderrToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stderrKey{}, w)
}
