package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/vito/arepl/pkg/future"
	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/loop"
	"github.com/vito/arepl/pkg/zapctx"
	"go.uber.org/zap"
)

// InterruptedNotice is printed when a statement is interrupted.
const InterruptedNotice = "\ninterrupted\n"

// SessionResult is how the session ended.
type SessionResult struct {
	ExitCode    int
	Exited      bool
	Interrupted bool
}

// Unit is one compiled top-level form.
type Unit struct {
	Form lang.Value
	Name string
}

// Console compiles statements on the interactive goroutine and executes
// them on the loop, blocking until each one settles.
type Console struct {
	loop    *loop.Loop
	scope   *lang.Scope
	sources *Sources
	execCtx context.Context

	mu           sync.Mutex
	pending      *loop.Task
	cancelStmt   context.CancelFunc
	interrupting bool
	result       SessionResult
	chunks       int
}

// NewConsole builds the namespace and execution context shared by every
// statement run through the console.
func NewConsole(ctx context.Context, l *loop.Loop, version string, locals map[string]any, stdout, stderr io.Writer) (*Console, error) {
	scope := lang.NewEmptyScope(lang.Ground)
	scope.Name = "__main__"
	scope.Set("*name*", lang.String("__main__"))
	scope.Set("*file*", lang.String("<stdin>"))
	scope.Set("*version*", lang.String(version))

	for _, name := range sortedKeys(locals) {
		val, err := lang.ValueOf(locals[name])
		if err != nil {
			return nil, fmt.Errorf("local %s: %w", name, err)
		}

		scope.Set(lang.Symbol(name), val)
	}

	sources := NewSources()

	execCtx := loop.ToContext(ctx, l)
	execCtx = ioctx.StdoutToContext(execCtx, stdout)
	execCtx = ioctx.StderrToContext(execCtx, stderr)
	execCtx = lang.WithContextVars(execCtx, lang.NewContextVars())
	execCtx = SourcesToContext(execCtx, sources)
	execCtx = lang.WithSpawnContext(execCtx, execCtx)

	return &Console{
		loop:    l,
		scope:   scope,
		sources: sources,
		execCtx: execCtx,
	}, nil
}

// Scope returns the namespace statements are evaluated in.
func (c *Console) Scope() *lang.Scope {
	return c.scope
}

// Result returns how the session has ended so far.
func (c *Console) Result() SessionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Compile reads every form from src. If src ends in the middle of a form it
// returns ErrIncomplete, and the caller should read another line and try
// again with the accumulated input.
func (c *Console) Compile(src string) ([]*Unit, error) {
	c.mu.Lock()
	name := fmt.Sprintf("(repl:%d)", c.chunks+1)
	c.mu.Unlock()

	units, err := compile(src, name)
	if err != nil {
		if lang.IsIncomplete(err) {
			return nil, ErrIncomplete
		}

		c.register(name, src)
		return nil, err
	}

	c.register(name, src)

	return units, nil
}

func (c *Console) register(name, src string) {
	c.mu.Lock()
	c.chunks++
	c.mu.Unlock()

	c.sources.Register(name, src)
}

func compile(src, name string) ([]*Unit, error) {
	reader := lang.NewReader(strings.NewReader(src), name)

	var units []*Unit
	for {
		form, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return units, nil
			}

			return nil, err
		}

		units = append(units, &Unit{
			Form: form,
			Name: name,
		})
	}
}

// RunFile executes each form in the file through Execute, stopping at the
// first error.
func (c *Console) RunFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	units, err := compile(string(content), path)
	c.sources.Register(path, string(content))
	if err != nil {
		WriteError(c.execCtx, err)
		return err
	}

	for _, unit := range units {
		if _, err := c.Execute(ctx, unit); err != nil {
			return err
		}
	}

	return nil
}

// Execute runs the unit on the loop and waits for it to settle, including
// any awaiting it does. ctx is the session's context; when it is done
// Execute gives up waiting.
//
// User errors are printed and returned. An ExitError ends the session.
func (c *Console) Execute(ctx context.Context, unit *Unit) (lang.Value, error) {
	fut := future.New[lang.Value]()

	stmtCtx, cancel := context.WithCancel(c.execCtx)
	defer cancel()

	stmtCtx = lang.WithTrace(stmtCtx, &lang.Trace{})

	stmtCtx, logger := zapctx.With(stmtCtx, zap.String("unit", unit.Name))
	logger.Debug("executing")

	c.mu.Lock()
	c.cancelStmt = cancel
	c.interrupting = false
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.cancelStmt = nil
		c.interrupting = false
		c.mu.Unlock()
	}()

	err := c.loop.Submit(func() {
		c.runOnLoop(stmtCtx, unit, fut)
	})
	if err != nil {
		return nil, InternalError{Err: fmt.Errorf("submit: %w", err)}
	}

	val, err := fut.Wait(ctx)

	c.mu.Lock()
	exited := c.result.Exited
	code := c.result.ExitCode
	interrupted := c.interrupting
	c.mu.Unlock()

	if exited {
		return nil, lang.ExitError{Code: code}
	}

	if err == nil {
		return val, nil
	}

	var exit lang.ExitError
	switch {
	case errors.As(err, &exit):
		c.exit(exit.Code)
		return nil, exit
	case errors.Is(err, lang.ErrInterrupted),
		interrupted && errors.Is(err, loop.ErrCancelled):
		// a task cancelled by (cancel ...) is an ordinary error; only an
		// interrupt of this statement gets the notice
		c.mu.Lock()
		c.result.Interrupted = true
		c.mu.Unlock()

		fmt.Fprint(ioctx.StderrFromContext(stmtCtx), InterruptedNotice)
	case errors.Is(err, ctx.Err()):
		return nil, err
	default:
		WriteError(stmtCtx, err)
	}

	return nil, err
}

func (c *Console) runOnLoop(ctx context.Context, unit *Unit, fut *future.Future[lang.Value]) {
	defer func() {
		if r := recover(); r != nil {
			zapctx.FromContext(ctx).Error("statement panicked",
				zap.String("unit", unit.Name),
				zap.Any("panic", r),
				zap.Stack("stack"))

			if !fut.Settled() {
				fut.Reject(fmt.Errorf("panic: %v", r))
			}
		}
	}()

	res, susp, err := lang.Run(ctx, unit.Form.Eval(ctx, c.scope, lang.Identity))
	if err != nil {
		var exit lang.ExitError
		if errors.As(err, &exit) {
			c.exit(exit.Code)
			return
		}

		fut.Reject(err)
		return
	}

	if susp == nil {
		fut.Resolve(res)
		return
	}

	task := c.loop.Spawn(ctx, unit.Name, recovering{lang.Resume(susp)})

	zapctx.FromContext(ctx).Debug("statement suspended", zap.String("task", task.ID))

	c.mu.Lock()
	c.pending = task
	cancelled := c.interrupting || ctx.Err() != nil
	c.mu.Unlock()

	if cancelled {
		task.Cancel()
	}

	task.AddDoneCallback(func(val any, err error) {
		c.mu.Lock()
		if c.pending == task {
			c.pending = nil
		}
		c.mu.Unlock()

		if err != nil {
			fut.Reject(err)
			return
		}

		res, err := lang.ValueOf(val)
		if err != nil {
			fut.Reject(err)
			return
		}

		fut.Resolve(res)
	})
}

// Interrupt cancels the statement currently executing, if any. Repeated
// interrupts while one is in flight are coalesced.
func (c *Console) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelStmt == nil || c.interrupting {
		return
	}

	c.interrupting = true
	c.result.Interrupted = true
	c.cancelStmt()

	_ = c.loop.Submit(func() {
		c.mu.Lock()
		task := c.pending
		c.mu.Unlock()

		if task != nil {
			task.Cancel()
		}
	})
}

func (c *Console) exit(code int) {
	c.mu.Lock()
	c.result.Exited = true
	c.result.ExitCode = code
	c.mu.Unlock()

	c.loop.Stop()
}

// recovering turns a panic in a step into the task's error, so the
// statement waiting on the task still settles.
type recovering struct {
	loop.Resumable
}

func (r recovering) Step(ctx context.Context, val any, err error) (res any, aw loop.Awaitable, fail error) {
	defer func() {
		if p := recover(); p != nil {
			zapctx.FromContext(ctx).Error("task panicked", zap.Any("panic", p), zap.Stack("stack"))
			res, aw, fail = nil, nil, fmt.Errorf("panic: %v", p)
		}
	}()

	return r.Resumable.Step(ctx, val, err)
}

// Completion is a binding whose name matches a prefix.
type Completion struct {
	Binding     lang.Symbol
	Description string
}

// Complete returns the bindings visible in the namespace starting with
// prefix. The namespace is read on the loop goroutine, since tasks may be
// mutating it.
func (c *Console) Complete(ctx context.Context, prefix string) ([]Completion, error) {
	fut := future.New[[]Completion]()

	err := c.loop.Submit(func() {
		completions := []Completion{}
		for _, sym := range c.scope.Complete(prefix) {
			var desc string
			if val, found := c.scope.Get(sym); found {
				desc = describe(val)
			}

			completions = append(completions, Completion{
				Binding:     sym,
				Description: desc,
			})
		}

		fut.Resolve(completions)
	})
	if err != nil {
		return nil, err
	}

	return fut.Wait(ctx)
}

// Report prints an error which happened outside of any statement.
func (c *Console) Report(err error) {
	WriteError(c.execCtx, err)
}

func describe(val lang.Value) string {
	runes := []rune(val.String())
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}

	return string(runes)
}
