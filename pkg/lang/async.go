package lang

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/vito/arepl/pkg/loop"
)

type spawnKey struct{}

// WithSpawnContext sets the context that spawned tasks derive from, so they
// outlive the statement which spawned them.
func WithSpawnContext(ctx context.Context, base context.Context) context.Context {
	return context.WithValue(ctx, spawnKey{}, base)
}

func spawnContext(ctx context.Context) context.Context {
	base, ok := ctx.Value(spawnKey{}).(context.Context)
	if !ok {
		base = ctx
	}

	if trace, ok := TraceFrom(ctx); ok {
		base = ForkTrace(WithTrace(base, trace))
	}

	if vars, ok := ContextVarsFrom(ctx); ok {
		base = WithContextVars(base, vars.Fork())
	}

	return base
}

func init() {
	Ground.Set("await",
		Func("await", "[promise]", func(cont Cont, promise Promise) ReadyCont {
			return &Suspension{
				Awaiting: promise.Awaitable,
				Cont:     cont,
			}
		}))

	Ground.Set("sleep",
		Func("sleep", "[duration & value]", func(ctx context.Context, d time.Duration, val ...Value) (Promise, error) {
			l, ok := loop.FromContext(ctx)
			if !ok {
				return Promise{}, ErrNoLoop
			}

			var res Value = Null{}
			if len(val) > 0 {
				res = val[0]
			}

			return Promise{Awaitable: l.Sleep(d, res)}, nil
		}))

	Ground.Set("spawn",
		Func("spawn", "[f & args]", func(ctx context.Context, f Combiner, args ...Value) (Promise, error) {
			l, ok := loop.FromContext(ctx)
			if !ok {
				return Promise{}, ErrNoLoop
			}

			task := l.Spawn(spawnContext(ctx), f.String(), Start(func(ctx context.Context) Value {
				return Apply(ctx, f, NewList(args...), Identity)
			}))

			return Promise{Awaitable: task}, nil
		}))

	Ground.Set("gather",
		Func("gather", "promises", func(ctx context.Context, promises ...Promise) (Promise, error) {
			l, ok := loop.FromContext(ctx)
			if !ok {
				return Promise{}, ErrNoLoop
			}

			aws := make([]loop.Awaitable, len(promises))
			for i, p := range promises {
				aws[i] = p.Awaitable
			}

			return Promise{Awaitable: l.Gather(aws...)}, nil
		}))

	Ground.Set("cancel",
		Func("cancel", "[promise]", func(promise Promise) bool {
			return promise.Awaitable.Cancel()
		}))

	Ground.Set("done?",
		Func("done?", "[promise]", func(promise Promise) bool {
			return promise.Awaitable.Done()
		}))

	Ground.Set("now",
		Func("now", "[]", func(ctx context.Context) string {
			var clock clockwork.Clock = clockwork.NewRealClock()
			if l, ok := loop.FromContext(ctx); ok {
				clock = l.Clock()
			}

			return clock.Now().UTC().Format(time.RFC3339)
		}))
}
