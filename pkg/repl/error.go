package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alecthomas/chroma/formatters"
	"github.com/morikuni/aec"
	"github.com/segmentio/textio"
	"github.com/spf13/pflag"
	"github.com/vito/arepl/pkg/hl"
	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/arepl/pkg/lang"
)

// ErrIncomplete is returned by Compile when the input ends in the middle of
// a form.
var ErrIncomplete = errors.New("incomplete input")

// ErrReadInterrupted is returned by a LineReader when the read is
// interrupted; whatever was typed so far is discarded.
var ErrReadInterrupted = errors.New("read interrupted")

// InternalError is a failure of the REPL itself rather than of the code it
// runs. It ends the session.
type InternalError struct {
	Err error
}

func (err InternalError) Error() string {
	return err.Err.Error()
}

func (err InternalError) Unwrap() error {
	return err.Err
}

type FlagError struct {
	Err   error
	Flags *pflag.FlagSet
}

func (err FlagError) Error() string {
	return err.Err.Error()
}

func (err FlagError) NiceError(w io.Writer) error {
	fmt.Fprintln(w, aec.RedF.Apply(err.Error()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")

	cp := *err.Flags
	cp.SetOutput(w)
	cp.PrintDefaults()

	return nil
}

// WriteError prints the error to the context's stderr, preceded by the call
// trace which led to it.
func WriteError(ctx context.Context, err error) {
	out := ioctx.StderrFromContext(ctx)

	trace, found := lang.TraceFrom(ctx)
	if found && !errors.Is(err, lang.ErrInterrupted) {
		if !trace.IsEmpty() {
			WriteTrace(out, trace, SourcesFromContext(ctx))
			trace.Reset()
		}
	}

	var nice lang.NiceError
	if errors.As(err, &nice) {
		if metaErr := nice.NiceError(out); metaErr != nil {
			fmt.Fprintln(out, aec.RedF.Apply(fmt.Sprintf("errored while erroring: %s", metaErr)))
			fmt.Fprintln(out, aec.RedF.Apply(fmt.Sprintf("original error: %T: %s", err, err)))
		}

		return
	}

	msg := strings.TrimRight(err.Error(), "\n")
	first, rest, multiline := strings.Cut(msg, "\n")
	fmt.Fprintln(out, aec.RedF.Apply(first))

	if multiline {
		pw := textio.NewPrefixWriter(out, "  ")
		fmt.Fprintln(pw, rest)
		_ = pw.Flush()
	}
}

// WriteTrace prints each frame's range followed by its highlighted source
// lines, oldest first.
func WriteTrace(out io.Writer, trace *lang.Trace, sources *Sources) {
	frames := trace.Frames()

	fmt.Fprintf(out, "%s call trace (oldest first):\n\n", aec.YellowF.Apply("error!"))

	for _, frame := range frames {
		numLen := int(math.Log10(float64(frame.Range.End.Ln))) + 1
		if numLen < 2 {
			numLen = 2
		}

		pad := strings.Repeat(" ", numLen)

		fmt.Fprintln(out, aec.YellowF.Apply(fmt.Sprintf("%s ┆ %s", pad, frame.Range)))

		lines, found := sources.Lines(frame.Range.Start.File)
		if !found {
			fmt.Fprintln(out)
			continue
		}

		startLn := frame.Range.Start.Ln
		endLn := frame.Range.End.Ln

		if endLn != startLn {
			startLn--
			if startLn < 1 {
				startLn = 1
			}
		}

		var maxErrLen int
		for ln := startLn; ln <= endLn && ln <= len(lines); ln++ {
			line := lines[ln-1]

			linePrefix := fmt.Sprintf("%[2]*[1]d │ ", ln, numLen)
			if ln >= frame.Range.Start.Ln {
				if len(line) > maxErrLen {
					maxErrLen = len(line)
				}

				fmt.Fprint(out, aec.RedF.Apply(linePrefix))
			} else {
				fmt.Fprint(out, linePrefix)
			}

			writeHighlighted(out, line)

			if ln == frame.Range.End.Ln {
				startCol := frame.Range.Start.Col

				carets := frame.Range.End.Col - startCol
				if maxErrLen > startCol && frame.Range.Start.Ln != frame.Range.End.Ln {
					carets = maxErrLen - startCol
				}

				if carets < 1 {
					carets = 1
				}

				fmt.Fprintf(out,
					"%s   %s\n",
					strings.Repeat(" ", numLen+startCol),
					aec.RedF.Apply(strings.Repeat("^", carets)))
			}
		}

		fmt.Fprintln(out)
	}
}

func writeHighlighted(out io.Writer, line string) {
	tokens, err := hl.AreplLexer.Tokenise(nil, line)
	if err != nil {
		fmt.Fprintln(out, line)
		return
	}

	if err := formatters.TTY16.Format(out, hl.TTYStyle, tokens); err != nil {
		fmt.Fprintln(out, line)
		return
	}

	fmt.Fprintln(out)
}
