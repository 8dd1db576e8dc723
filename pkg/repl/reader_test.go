package repl_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/vito/arepl/pkg/repl"
	"github.com/vito/is"
)

func TestPlainReader(t *testing.T) {
	is := is.New(t)

	out := new(syncBuffer)
	reader := repl.NewPlainReader(strings.NewReader("one\r\ntwo\nthree"), out)
	defer reader.Close()

	ctx := context.Background()

	for _, expected := range []string{"one", "two", "three"} {
		line, err := reader.ReadLine(ctx, "> ")
		is.NoErr(err)
		is.Equal(line, expected)
	}

	_, err := reader.ReadLine(ctx, "> ")
	is.True(errors.Is(err, io.EOF))

	is.Equal(out.String(), "> > > > ")
}

func TestPlainReaderInterrupt(t *testing.T) {
	is := is.New(t)

	stdin, input := io.Pipe()
	defer input.Close()

	out := new(syncBuffer)
	reader := repl.NewPlainReader(stdin, out)
	defer reader.Close()

	// ignored while idle
	reader.Interrupt()

	errs := make(chan error, 1)
	go func() {
		_, err := reader.ReadLine(context.Background(), "> ")
		errs <- err
	}()

	out.eventually(t, "> ")
	reader.Interrupt()

	is.True(errors.Is(<-errs, repl.ErrReadInterrupted))

	go func() {
		_, _ = io.WriteString(input, "after\n")
	}()

	line, err := reader.ReadLine(context.Background(), "> ")
	is.NoErr(err)
	is.Equal(line, "after")
}

func TestPlainReaderContext(t *testing.T) {
	is := is.New(t)

	stdin, input := io.Pipe()
	defer input.Close()

	reader := repl.NewPlainReader(stdin, io.Discard)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.ReadLine(ctx, "> ")
	is.True(errors.Is(err, context.Canceled))
}
