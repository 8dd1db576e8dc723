package lang_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/langtest"
	"github.com/vito/is"
)

func TestBuiltinBinding(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()
	scope := lang.NewStandardScope()

	scope.Set("join",
		lang.Func("join", "[sep & strs]", func(ctx context.Context, sep string, strs ...string) string {
			is.True(ctx != nil)
			return strings.Join(strs, sep)
		}))

	scope.Set("check",
		lang.Func("check", "[ok]", func(ok bool) error {
			if !ok {
				return errors.New("check failed")
			}

			return nil
		}))

	scope.Set("quoted",
		lang.Op("quoted", "[form]", func(_ *lang.Scope, form lang.Value) lang.Value {
			return form
		}))

	val, err := lang.EvalString(ctx, scope, `(join "-" "a" "b" "c")`, "test")
	is.NoErr(err)
	langtest.Equal(t, val, lang.String("a-b-c"))

	val, err = lang.EvalString(ctx, scope, `(join ",")`, "test")
	is.NoErr(err)
	langtest.Equal(t, val, lang.String(""))

	_, err = lang.EvalString(ctx, scope, "(join)", "test")
	var arity lang.ArityError
	is.True(errors.As(err, &arity))
	is.Equal(arity.Need, 1)
	is.Equal(arity.Have, 0)
	is.True(arity.Variadic)

	_, err = lang.EvalString(ctx, scope, `(join "-" "a" 2)`, "test")
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "join: argument 3"))

	val, err = lang.EvalString(ctx, scope, "(check true)", "test")
	is.NoErr(err)
	langtest.Equal(t, val, lang.Null{})

	_, err = lang.EvalString(ctx, scope, "(check false)", "test")
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "check failed"))

	val, err = lang.EvalString(ctx, scope, "(quoted (f x))", "test")
	is.NoErr(err)
	langtest.Equal(t, val, lang.NewList(lang.Symbol("f"), lang.Symbol("x")))
}
