package ioctx_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/is"
)

func TestDefaultsDiscard(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()
	is.Equal(ioctx.StdoutFromContext(ctx), io.Discard)
	is.Equal(ioctx.StderrFromContext(ctx), io.Discard)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)

	out := new(bytes.Buffer)
	errs := new(bytes.Buffer)

	ctx := ioctx.StdoutToContext(context.Background(), out)
	ctx = ioctx.StderrToContext(ctx, errs)

	_, _ = io.WriteString(ioctx.StdoutFromContext(ctx), "out")
	_, _ = io.WriteString(ioctx.StderrFromContext(ctx), "err")

	is.Equal(out.String(), "out")
	is.Equal(errs.String(), "err")
}
