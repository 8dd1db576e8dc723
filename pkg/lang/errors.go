package lang

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gertd/go-pluralize"
	"github.com/morikuni/aec"
	"github.com/spy16/slurp/reader"
)

// NiceError is an error that is able to provide some extra guidance to the
// user.
type NiceError interface {
	error

	NiceError(io.Writer) error
}

var (
	ErrBadSyntax = errors.New("bad syntax")

	// ErrInterrupted is returned when evaluation stops because its context
	// was cancelled, and by the interrupt builtin.
	ErrInterrupted = errors.New("interrupted")

	// ErrCannotSuspend is returned when an await is reached somewhere that
	// cannot be parked on the loop, such as a nested trampoline or a plain
	// Trampoline call.
	ErrCannotSuspend = errors.New("await outside of a suspendable context")

	// ErrNoLoop is returned by the async builtins when no loop is in the
	// context.
	ErrNoLoop = errors.New("no event loop in context")
)

type DecodeError struct {
	Source      any
	Destination any
}

func (err DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s (%T) into %T", err.Source, err.Source, err.Destination)
}

type UnboundError struct {
	Symbol Symbol
	Scope  *Scope
}

func (err UnboundError) Error() string {
	return fmt.Sprintf("unbound symbol: %s", err.Symbol)
}

func (err UnboundError) NiceError(w io.Writer) error {
	fmt.Fprintln(w, aec.RedF.Apply(err.Error()))

	if err.Scope == nil {
		return nil
	}

	similar := err.Scope.Similar(err.Symbol, maxTypoDistance)
	if len(similar) == 0 {
		return nil
	}

	names := make([]string, 0, len(similar))
	for _, sym := range similar {
		names = append(names, string(sym))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "similar bindings: %s\n", strings.Join(names, " "))

	return nil
}

// maxTypoDistance is how many edits away a binding may be to be suggested.
const maxTypoDistance = 2

type ArityError struct {
	Name     string
	Need     int
	Variadic bool
	Have     int
}

func (err ArityError) Error() string {
	need := plural.Pluralize("argument", err.Need, true)
	if err.Variadic {
		need = "at least " + need
	}

	return fmt.Sprintf("%s arity: need %s, given %d", err.Name, need, err.Have)
}

var plural = pluralize.NewClient()

type NotCombinerError struct {
	Value Value
}

func (err NotCombinerError) Error() string {
	return fmt.Sprintf("not callable: %s", err.Value)
}

// ExitError is raised by the exit builtin to end the session.
type ExitError struct {
	Code int
}

func (err ExitError) Error() string {
	return fmt.Sprintf("exit status %d", err.Code)
}

// ReadError is returned when the reader trips on a syntax token.
type ReadError struct {
	Err   reader.Error
	Range Range
}

func (err ReadError) Error() string {
	return fmt.Sprintf("%s: %s", err.Range, err.Err.Cause)
}

func (err ReadError) Unwrap() error {
	return err.Err.Cause
}

// IsIncomplete reports whether a read failed only because the source ended
// in the middle of a form.
func IsIncomplete(err error) bool {
	var rErr ReadError
	if errors.As(err, &rErr) {
		err = rErr.Err
	}

	for {
		sErr, ok := err.(reader.Error)
		if !ok {
			break
		}

		err = sErr.Cause
	}

	return errors.Is(err, reader.ErrEOF)
}
