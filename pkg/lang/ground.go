package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/arepl/pkg/zapctx"
	"go.uber.org/zap"
)

// Ground is the scope providing the builtins.
var Ground = NewEmptyScope()

// NewStandardScope returns a new empty scope with Ground as its sole parent.
func NewStandardScope() *Scope {
	return NewEmptyScope(Ground)
}

func init() {
	Ground.Name = "ground"

	Ground.Set("def",
		Op("def", "[binding value]", func(ctx context.Context, cont Cont, scope *Scope, formals, val Value) ReadyCont {
			return val.Eval(ctx, scope, Continue(func(res Value) Value {
				if err := BindFormals(scope, formals, res); err != nil {
					return cont.Call(nil, err)
				}

				return cont.Call(formals, nil)
			}))
		}))

	Ground.Set("set!",
		Op("set!", "[binding value]", func(ctx context.Context, cont Cont, scope *Scope, binding Symbol, val Value) ReadyCont {
			return val.Eval(ctx, scope, Continue(func(res Value) Value {
				if !scope.Assign(binding, res) {
					return cont.Call(nil, UnboundError{Symbol: binding, Scope: scope})
				}

				return cont.Call(res, nil)
			}))
		}))

	Ground.Set("if",
		Op("if", "[cond yes no]", func(ctx context.Context, cont Cont, scope *Scope, cond, yes, no Value) ReadyCont {
			return cond.Eval(ctx, scope, Continue(func(res Value) Value {
				if Truthy(res) {
					return yes.Eval(ctx, scope, cont)
				}

				return no.Eval(ctx, scope, cont)
			}))
		}))

	Ground.Set("do",
		Op("do", "body", func(ctx context.Context, cont Cont, scope *Scope, body ...Value) ReadyCont {
			return do(ctx, cont, scope, body)
		}))

	Ground.Set("fn",
		Op("fn", "[formals & body]", func(scope *Scope, formals Value, body ...Value) Combiner {
			return Wrap(&Operative{
				Formals: formals,
				Body:    body,
				Scope:   scope,
			})
		}))

	Ground.Set("let",
		Op("let", "[bindings & body]", func(ctx context.Context, cont Cont, scope *Scope, bindings List, body ...Value) ReadyCont {
			return let(ctx, cont, NewEmptyScope(scope), bindings, body)
		}))

	Ground.Set("quote",
		Op("quote", "[form]", func(_ *Scope, form Value) Value {
			return form
		}))

	Ground.Set("list",
		Func("list", "vals", func(vals ...Value) Value {
			return NewList(vals...)
		}))

	Ground.Set("cons",
		Func("cons", "[a d]", func(a, d Value) Value {
			return Pair{A: a, D: d}
		}))

	Ground.Set("first",
		Func("first", "[list]", func(list List) (Value, error) {
			if list == (Empty{}) {
				return nil, errors.New("first: empty list")
			}

			return list.First(), nil
		}))

	Ground.Set("rest",
		Func("rest", "[list]", func(list List) (Value, error) {
			if list == (Empty{}) {
				return nil, errors.New("rest: empty list")
			}

			return list.Rest(), nil
		}))

	Ground.Set("length",
		Func("length", "[list]", func(list List) (int, error) {
			vals, err := ToSlice(list)
			if err != nil {
				return 0, err
			}

			return len(vals), nil
		}))

	Ground.Set("str",
		Func("str", "vals", func(vals ...Value) string {
			var out strings.Builder
			for _, val := range vals {
				out.WriteString(Display(val))
			}

			return out.String()
		}))

	Ground.Set("=",
		Func("=", "[val & vals]", func(val Value, others ...Value) bool {
			for _, other := range others {
				if !val.Equal(other) {
					return false
				}
			}

			return true
		}))

	Ground.Set("<", Func("<", "[num & nums]", ordered(func(a, b int) bool { return a < b })))
	Ground.Set(">", Func(">", "[num & nums]", ordered(func(a, b int) bool { return a > b })))
	Ground.Set("<=", Func("<=", "[num & nums]", ordered(func(a, b int) bool { return a <= b })))
	Ground.Set(">=", Func(">=", "[num & nums]", ordered(func(a, b int) bool { return a >= b })))

	Ground.Set("+",
		Func("+", "nums", func(nums ...int) int {
			sum := 0
			for _, num := range nums {
				sum += num
			}

			return sum
		}))

	Ground.Set("-",
		Func("-", "[num & nums]", func(num int, nums ...int) int {
			if len(nums) == 0 {
				return -num
			}

			for _, n := range nums {
				num -= n
			}

			return num
		}))

	Ground.Set("*",
		Func("*", "nums", func(nums ...int) int {
			product := 1
			for _, num := range nums {
				product *= num
			}

			return product
		}))

	Ground.Set("quot",
		Func("quot", "[num denom]", func(num, denom int) (int, error) {
			if denom == 0 {
				return 0, errors.New("quot: division by zero")
			}

			return num / denom, nil
		}))

	Ground.Set("not",
		Func("not", "[val]", func(val Value) bool {
			return !Truthy(val)
		}))

	Ground.Set("null?",
		Func("null?", "[val]", func(val Value) bool {
			var null Null
			return val.Decode(&null) == nil
		}))

	Ground.Set("print",
		Func("print", "vals", func(ctx context.Context, vals ...Value) error {
			strs := make([]string, len(vals))
			for i, val := range vals {
				strs[i] = Display(val)
			}

			_, err := fmt.Fprintln(ioctx.StdoutFromContext(ctx), strings.Join(strs, " "))
			return err
		}))

	Ground.Set("dump",
		Func("dump", "[val]", func(ctx context.Context, val Value) Value {
			fmt.Fprintln(ioctx.StderrFromContext(ctx), val.String())
			return val
		}))

	Ground.Set("log",
		Func("log", "[val & fields]", func(ctx context.Context, v Value, kv ...Value) (Value, error) {
			logger := zapctx.FromContext(ctx)

			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("log: odd number of field arguments")
			}

			for i := 0; i < len(kv); i += 2 {
				var key string
				if err := kv[i].Decode(&key); err != nil {
					var sym Symbol
					if err := kv[i].Decode(&sym); err != nil {
						return nil, fmt.Errorf("log: field name: %w", err)
					}

					key = string(sym)
				}

				logger = logger.With(zapField(key, kv[i+1]))
			}

			logger.Info(Display(v))

			return v, nil
		}))

	Ground.Set("error",
		Func("error", "[msg]", func(msg string) error {
			return errors.New(msg)
		}))

	Ground.Set("exit",
		Func("exit", "[& code]", func(codes ...int) error {
			switch len(codes) {
			case 0:
				return ExitError{Code: 0}
			case 1:
				return ExitError{Code: codes[0]}
			default:
				return ArityError{Name: "exit", Need: 1, Have: len(codes)}
			}
		}))

	Ground.Set("interrupt",
		Func("interrupt", "[]", func() error {
			return ErrInterrupted
		}))

	Ground.Set("context-set",
		Func("context-set", "[name val]", func(ctx context.Context, name string, val Value) (Value, error) {
			vars, ok := ContextVarsFrom(ctx)
			if !ok {
				return nil, errors.New("context-set: no context variables")
			}

			vars.Set(Symbol(name), val)

			return val, nil
		}))

	Ground.Set("context-get",
		Func("context-get", "[name & default]", func(ctx context.Context, name string, def ...Value) (Value, error) {
			if vars, ok := ContextVarsFrom(ctx); ok {
				if val, found := vars.Get(Symbol(name)); found {
					return val, nil
				}
			}

			if len(def) > 0 {
				return def[0], nil
			}

			return nil, fmt.Errorf("context-get: %s is not set", name)
		}))
}

func do(ctx context.Context, cont Cont, scope *Scope, body []Value) ReadyCont {
	switch len(body) {
	case 0:
		return cont.Call(Null{}, nil)
	case 1:
		return body[0].Eval(ctx, scope, cont)
	default:
		return body[0].Eval(ctx, scope, Continue(func(Value) Value {
			return do(ctx, cont, scope, body[1:])
		}))
	}
}

func let(ctx context.Context, cont Cont, scope *Scope, bindings List, body []Value) ReadyCont {
	if bindings == (Empty{}) {
		return do(ctx, cont, scope, body)
	}

	var rest List
	if err := bindings.Rest().Decode(&rest); err != nil || rest == (Empty{}) {
		return cont.Call(nil, fmt.Errorf("%w: let: odd number of binding forms", ErrBadSyntax))
	}

	var next List
	if err := rest.Rest().Decode(&next); err != nil {
		return cont.Call(nil, fmt.Errorf("%w: let: improper bindings", ErrBadSyntax))
	}

	formals := bindings.First()
	return rest.First().Eval(ctx, scope, Continue(func(res Value) Value {
		if err := BindFormals(scope, formals, res); err != nil {
			return cont.Call(nil, err)
		}

		return let(ctx, cont, scope, next, body)
	}))
}

func ordered(cmp func(a, b int) bool) func(int, ...int) bool {
	return func(num int, nums ...int) bool {
		for _, n := range nums {
			if !cmp(num, n) {
				return false
			}

			num = n
		}

		return true
	}
}

func zapField(key string, val Value) zap.Field {
	var s string
	if err := val.Decode(&s); err == nil {
		return zap.String(key, s)
	}

	var i int
	if err := val.Decode(&i); err == nil {
		return zap.Int(key, i)
	}

	var b Bool
	if err := val.Decode(&b); err == nil {
		return zap.Bool(key, bool(b))
	}

	return zap.Stringer(key, val)
}
