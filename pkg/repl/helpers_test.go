package repl_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/loop"
	"github.com/vito/arepl/pkg/repl"
)

// syncBuffer is written from the loop goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// eventually polls until the buffer contains str.
func (b *syncBuffer) eventually(t *testing.T, str string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(b.String(), str) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q in %q", str, b.String())
		}

		time.Sleep(time.Millisecond)
	}
}

type consoleEnv struct {
	console *repl.Console
	ctx     context.Context
	clock   clockwork.FakeClock
	stdout  *syncBuffer
	stderr  *syncBuffer
}

func startConsole(t *testing.T, locals map[string]any) *consoleEnv {
	t.Helper()

	clock := clockwork.NewFakeClock()
	l := loop.New(loop.WithClock(clock))

	stdout := new(syncBuffer)
	stderr := new(syncBuffer)

	ctx, cancel := context.WithCancel(context.Background())

	console, err := repl.NewConsole(ctx, l, "dev", locals, stdout, stderr)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		_ = l.RunForever(ctx)
	}()

	t.Cleanup(func() {
		l.Stop()
		cancel()
		<-done
		_ = l.Close()
	})

	return &consoleEnv{
		console: console,
		ctx:     ctx,
		clock:   clock,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// execute compiles src and executes each unit, returning the last result.
func (env *consoleEnv) execute(t *testing.T, src string) (lang.Value, error) {
	t.Helper()

	units, err := env.console.Compile(src)
	if err != nil {
		t.Fatalf("compile %q: %s", src, err)
	}

	var res lang.Value = lang.Null{}
	for _, unit := range units {
		res, err = env.console.Execute(env.ctx, unit)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

type outcome struct {
	val lang.Value
	err error
}

// executeAsync runs execute on another goroutine.
func (env *consoleEnv) executeAsync(t *testing.T, src string) <-chan outcome {
	t.Helper()

	units, err := env.console.Compile(src)
	if err != nil {
		t.Fatalf("compile %q: %s", src, err)
	}

	if len(units) != 1 {
		t.Fatalf("expected one unit, got %d", len(units))
	}

	res := make(chan outcome, 1)
	go func() {
		val, err := env.console.Execute(env.ctx, units[0])
		res <- outcome{val, err}
	}()

	return res
}

func pending(t *testing.T, res <-chan outcome) {
	t.Helper()

	select {
	case out := <-res:
		t.Fatalf("settled early: %v, %v", out.val, out.err)
	case <-time.After(10 * time.Millisecond):
	}
}
