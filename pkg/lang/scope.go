package lang

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Scope contains bindings from symbols to values, and parent scopes to
// delegate to during symbol lookup.
type Scope struct {
	// an optional name for the scope, used to prettify .String on standard
	// scopes
	Name string

	Parents  []*Scope
	Bindings Bindings
	Order    []Symbol

	printing bool
}

// Bindings maps Symbols to Values in a scope.
type Bindings map[Symbol]Value

// Scope constructs a new *Scope with the bindings.
func (bindings Bindings) Scope(parents ...*Scope) *Scope {
	return NewScope(bindings, parents...)
}

// NewEmptyScope constructs a new scope with no bindings and
// optional parents.
func NewEmptyScope(parents ...*Scope) *Scope {
	return &Scope{
		Parents:  parents,
		Bindings: Bindings{},
	}
}

// NewScope constructs a new scope with the given bindings and
// optional parents.
func NewScope(bindings Bindings, parents ...*Scope) *Scope {
	scope := NewEmptyScope(parents...)

	keys := make([]Symbol, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		scope.Set(k, bindings[k])
	}

	return scope
}

var _ Value = (*Scope)(nil)

func (value *Scope) String() string {
	if value.Name != "" {
		return fmt.Sprintf("<scope: %s>", value.Name)
	}

	if value.printing {
		return "{...}"
	}

	value.printing = true
	defer func() { value.printing = false }()

	bind := []Value{}
	_ = value.Each(func(k Symbol, v Value) error {
		bind = append(bind, k, v)
		return nil
	})

	return formatList(NewList(bind...), "{", "}")
}

func (value *Scope) Equal(o Value) bool {
	var other *Scope
	return o.Decode(&other) == nil && other == value
}

func (value *Scope) Decode(dest any) error {
	switch x := dest.(type) {
	case **Scope:
		*x = value
		return nil
	case *Value:
		*x = value
		return nil
	default:
		return DecodeError{
			Source:      value,
			Destination: dest,
		}
	}
}

// Eval returns the value.
func (value *Scope) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

// Each calls f for each binding visible from the scope, parents first.
// Shadowed bindings are visited once, with the value visible from the scope.
func (value *Scope) Each(f func(Symbol, Value) error) error {
	return value.eachShadow(value, f, map[Symbol]bool{})
}

func (value *Scope) eachShadow(top *Scope, f func(Symbol, Value) error, called map[Symbol]bool) error {
	for _, p := range value.Parents {
		if err := p.eachShadow(top, f, called); err != nil {
			return err
		}
	}

	for _, k := range value.Order {
		if called[k] {
			continue
		}

		called[k] = true

		v, found := top.Get(k)
		if !found {
			continue
		}

		if err := f(k, v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}

	return nil
}

// Set assigns the value in the local bindings.
func (scope *Scope) Set(binding Symbol, value Value) {
	if _, found := scope.Bindings[binding]; !found {
		scope.Order = append(scope.Order, binding)
	}

	scope.Bindings[binding] = value
}

// Assign rebinds an existing binding in whichever scope holds it.
func (scope *Scope) Assign(binding Symbol, value Value) bool {
	if _, found := scope.Bindings[binding]; found {
		scope.Bindings[binding] = value
		return true
	}

	for _, parent := range scope.Parents {
		if parent.Assign(binding, value) {
			return true
		}
	}

	return false
}

// Get fetches the given binding.
//
// If a value is set in the local bindings, it is returned.
//
// If not, the parent scopes are queried in order.
//
// If no value is found, false is returned.
func (scope *Scope) Get(binding Symbol) (Value, bool) {
	val, found := scope.Bindings[binding]
	if found {
		return val, found
	}

	for _, parent := range scope.Parents {
		val, found = parent.Get(binding)
		if found {
			return val, found
		}
	}

	return nil, false
}

// GetDecode fetches the given binding and Decodes its value.
func (scope *Scope) GetDecode(binding Symbol, dest any) error {
	val, found := scope.Get(binding)
	if !found {
		return UnboundError{Symbol: binding, Scope: scope}
	}

	return val.Decode(dest)
}

// Complete queries the scope for bindings beginning with the given prefix.
//
// Local bindings are listed before parent bindings, with shorter binding names
// listed first.
func (scope *Scope) Complete(prefix string) []Symbol {
	shadowed := map[Symbol]bool{}

	var local []Symbol
	for name := range scope.Bindings {
		if strings.HasPrefix(string(name), prefix) {
			local = append(local, name)
			shadowed[name] = true
		}
	}

	sort.Slice(local, func(i, j int) bool {
		if len(local[i]) != len(local[j]) {
			return len(local[i]) < len(local[j])
		}

		return local[i] < local[j]
	})

	opts := local
	for _, parent := range scope.Parents {
		for _, opt := range parent.Complete(prefix) {
			if shadowed[opt] {
				continue
			}

			opts = append(opts, opt)
			shadowed[opt] = true
		}
	}

	return opts
}

// Similar returns the visible bindings within maxDistance edits of the
// symbol, closest first.
func (scope *Scope) Similar(sym Symbol, maxDistance int) []Symbol {
	type candidate struct {
		sym      Symbol
		distance int
	}

	var candidates []candidate
	_ = scope.Each(func(name Symbol, _ Value) error {
		if name == sym {
			return nil
		}

		distance := levenshtein.Distance(string(sym), string(name), nil)
		if distance <= maxDistance {
			candidates = append(candidates, candidate{name, distance})
		}

		return nil
	})

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}

		return candidates[i].sym < candidates[j].sym
	})

	similar := make([]Symbol, len(candidates))
	for i, c := range candidates {
		similar[i] = c.sym
	}

	return similar
}
