package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/zapctx"
	"go.uber.org/zap"
)

// Thread is the interactive side of the session: it reads statements and
// hands them to the console, echoing their results.
type Thread struct {
	Console *Console
	Reader  LineReader
	Config  Config

	Stdout io.Writer
	Stderr io.Writer

	// Startup is a script run before the first prompt.
	Startup string
}

// Run reads and executes statements until end of input, an exit, or ctx
// being done. A nil error means the session ended normally.
func (thread *Thread) Run(ctx context.Context) error {
	logger := zapctx.FromContext(ctx)

	if thread.Startup != "" {
		logger.Debug("running startup script", zap.String("path", thread.Startup))

		err := thread.Console.RunFile(ctx, thread.Startup)
		if err != nil {
			if done, internalErr := thread.finished(ctx, err); done {
				return internalErr
			}
		}
	}

	var buf strings.Builder
	for {
		prompt := thread.Config.Prompt
		if buf.Len() > 0 {
			prompt = thread.Config.ContinuationPrompt
		}

		line, err := thread.Reader.ReadLine(ctx, prompt)
		if err != nil {
			switch {
			case errors.Is(err, ErrReadInterrupted):
				buf.Reset()
				fmt.Fprint(thread.Stderr, InterruptedNotice)
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(thread.Stdout)
				return nil
			case ctx.Err() != nil:
				return nil
			default:
				return InternalError{Err: err}
			}
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		units, err := thread.Console.Compile(buf.String())
		if errors.Is(err, ErrIncomplete) {
			continue
		}

		buf.Reset()

		if err != nil {
			thread.Console.Report(err)
			continue
		}

		for _, unit := range units {
			val, err := thread.Console.Execute(ctx, unit)
			if err != nil {
				if done, internalErr := thread.finished(ctx, err); done {
					return internalErr
				}

				// skip the rest of the line's statements
				break
			}

			if _, isNull := val.(lang.Null); !isNull {
				fmt.Fprintln(thread.Stdout, val)
			}
		}
	}
}

// Interrupt abandons the line being read and cancels the statement being
// executed, whichever is happening.
func (thread *Thread) Interrupt() {
	thread.Reader.Interrupt()
	thread.Console.Interrupt()
}

// finished reports whether err ends the session, and with which error.
func (thread *Thread) finished(ctx context.Context, err error) (bool, error) {
	var exit lang.ExitError
	if errors.As(err, &exit) {
		return true, nil
	}

	var internal InternalError
	if errors.As(err, &internal) {
		return true, err
	}

	if ctx.Err() != nil {
		return true, nil
	}

	return false, nil
}
