package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// LineReader reads lines of input for the interactive thread.
type LineReader interface {
	// ReadLine shows the prompt and returns the next line without its
	// newline. It returns io.EOF at end of input and ErrReadInterrupted if
	// Interrupt is called while it waits.
	ReadLine(ctx context.Context, prompt string) (string, error)

	// Interrupt abandons a ReadLine in progress. It may be called from any
	// goroutine and does nothing when no read is in progress.
	Interrupt()

	Close() error
}

// PlainReader reads lines from any io.Reader, writing prompts to out.
type PlainReader struct {
	in  io.Reader
	out io.Writer

	lines      chan readResult
	interrupts chan struct{}
	done       chan struct{}

	reading *atomic.Bool

	startOnce sync.Once
	closeOnce sync.Once
}

type readResult struct {
	line string
	err  error
}

var _ LineReader = (*PlainReader)(nil)

func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{
		in:  in,
		out: out,

		lines:      make(chan readResult),
		interrupts: make(chan struct{}, 1),
		done:       make(chan struct{}),

		reading: atomic.NewBool(false),
	}
}

func (reader *PlainReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	reader.startOnce.Do(func() {
		go reader.pump()
	})

	// an interrupt that arrived between reads is for the statement, not us
	select {
	case <-reader.interrupts:
	default:
	}

	reader.reading.Store(true)
	defer reader.reading.Store(false)

	fmt.Fprint(reader.out, prompt)

	select {
	case res, ok := <-reader.lines:
		if !ok {
			return "", io.EOF
		}

		return res.line, res.err
	case <-reader.interrupts:
		return "", ErrReadInterrupted
	case <-ctx.Done():
		return "", ctx.Err()
	case <-reader.done:
		return "", io.EOF
	}
}

func (reader *PlainReader) Interrupt() {
	if !reader.reading.Load() {
		return
	}

	select {
	case reader.interrupts <- struct{}{}:
	default:
	}
}

// Close stops delivering lines. The goroutine reading the underlying
// io.Reader exits once its current read returns.
func (reader *PlainReader) Close() error {
	reader.closeOnce.Do(func() {
		close(reader.done)
	})

	return nil
}

func (reader *PlainReader) pump() {
	defer close(reader.lines)

	buf := bufio.NewReader(reader.in)
	for {
		line, err := buf.ReadString('\n')
		if line != "" {
			if !reader.send(readResult{line: strings.TrimRight(line, "\r\n")}) {
				return
			}
		}

		if err != nil {
			if err != io.EOF {
				reader.send(readResult{err: InternalError{Err: fmt.Errorf("read stdin: %w", err)}})
			}

			return
		}
	}
}

func (reader *PlainReader) send(res readResult) bool {
	select {
	case reader.lines <- res:
		return true
	case <-reader.done:
		return false
	}
}
