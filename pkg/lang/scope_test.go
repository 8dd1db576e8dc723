package lang_test

import (
	"testing"

	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/is"
)

func TestScopeGetSet(t *testing.T) {
	is := is.New(t)

	parent := lang.NewEmptyScope()
	parent.Set("a", lang.Int(1))

	child := lang.NewEmptyScope(parent)
	child.Set("b", lang.Int(2))

	val, found := child.Get("a")
	is.True(found)
	is.Equal(val, lang.Int(1))

	_, found = parent.Get("b")
	is.True(!found)

	is.True(child.Assign("a", lang.Int(10)))
	val, _ = parent.Get("a")
	is.Equal(val, lang.Int(10))

	is.True(!child.Assign("c", lang.Int(3)))
}

func TestScopeComplete(t *testing.T) {
	is := is.New(t)

	parent := lang.NewEmptyScope()
	parent.Set("prompt", lang.Null{})
	parent.Set("print", lang.Null{})

	child := lang.NewEmptyScope(parent)
	child.Set("printer", lang.Null{})
	child.Set("print", lang.Null{})
	child.Set("other", lang.Null{})

	is.Equal(child.Complete("pr"), []lang.Symbol{"print", "printer", "prompt"})
}

func TestScopeString(t *testing.T) {
	is := is.New(t)

	scope := lang.NewScope(lang.Bindings{
		"b": lang.Int(2),
		"a": lang.String("x"),
	})

	is.Equal(scope.String(), `{a "x" b 2}`)
	is.Equal(lang.Ground.String(), "<scope: ground>")
}

func TestGroundCompletes(t *testing.T) {
	is := is.New(t)

	opts := lang.NewStandardScope().Complete("aw")
	is.Equal(opts, []lang.Symbol{"await"})
}

func TestScopeSimilar(t *testing.T) {
	is := is.New(t)

	parent := lang.NewEmptyScope()
	parent.Set("sleep", lang.Null{})
	parent.Set("spawn", lang.Null{})

	child := lang.NewEmptyScope(parent)
	child.Set("slept", lang.Null{})
	child.Set("unrelated", lang.Null{})

	is.Equal(child.Similar("slep", 2), []lang.Symbol{"sleep", "slept"})
	is.Equal(child.Similar("zzz", 2), []lang.Symbol{})
}

func TestArityErrorMessage(t *testing.T) {
	is := is.New(t)

	is.Equal(lang.ArityError{Name: "f", Need: 1, Have: 2}.Error(), "f arity: need 1 argument, given 2")
	is.Equal(lang.ArityError{Name: "g", Need: 2, Variadic: true, Have: 0}.Error(), "g arity: need at least 2 arguments, given 0")
}
