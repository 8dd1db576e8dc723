package lang

import (
	"context"
	"sync"
)

// ContextVars are the session's context variables. Each statement sees the
// same set; spawned tasks get a snapshot taken when they are spawned.
type ContextVars struct {
	mu   sync.Mutex
	vars map[Symbol]Value
}

func NewContextVars() *ContextVars {
	return &ContextVars{
		vars: map[Symbol]Value{},
	}
}

func (vars *ContextVars) Get(name Symbol) (Value, bool) {
	vars.mu.Lock()
	defer vars.mu.Unlock()
	val, found := vars.vars[name]
	return val, found
}

func (vars *ContextVars) Set(name Symbol, val Value) {
	vars.mu.Lock()
	vars.vars[name] = val
	vars.mu.Unlock()
}

// Fork copies the variables.
func (vars *ContextVars) Fork() *ContextVars {
	vars.mu.Lock()
	defer vars.mu.Unlock()

	cp := NewContextVars()
	for k, v := range vars.vars {
		cp.vars[k] = v
	}

	return cp
}

type varsKey struct{}

func WithContextVars(ctx context.Context, vars *ContextVars) context.Context {
	return context.WithValue(ctx, varsKey{}, vars)
}

func ContextVarsFrom(ctx context.Context) (*ContextVars, bool) {
	vars, ok := ctx.Value(varsKey{}).(*ContextVars)
	return vars, ok
}
