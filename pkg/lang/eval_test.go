package lang_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/langtest"
	"github.com/vito/is"
)

func TestEval(t *testing.T) {
	for _, example := range []struct {
		Name   string
		Src    string
		Result lang.Value
	}{
		{"int", "42", lang.Int(42)},
		{"arithmetic", "(+ 1 (* 2 3) (- 10 4))", lang.Int(13)},
		{"negate", "(- 5)", lang.Int(-5)},
		{"quot", "(quot 7 2)", lang.Int(3)},
		{"def returns binding", "(def x 1)", lang.Symbol("x")},
		{"def then lookup", "(def x 1) (+ x 1)", lang.Int(2)},
		{"set!", "(def x 1) (set! x 5) x", lang.Int(5)},
		{"if true", "(if true 1 2)", lang.Int(1)},
		{"if null", "(if null 1 2)", lang.Int(2)},
		{"if truthy", "(if 0 1 2)", lang.Int(1)},
		{"do", "(do 1 2 3)", lang.Int(3)},
		{"empty do", "(do)", lang.Null{}},
		{"fn", "((fn [a b] (+ a b)) 1 2)", lang.Int(3)},
		{"fn rest", "((fn [a & more] more) 1 2 3)", lang.NewList(lang.Int(2), lang.Int(3))},
		{"closure", "(def mk (fn [n] (fn [m] (+ n m)))) ((mk 10) 5)", lang.Int(15)},
		{"let", "(let [a 1 b (+ a 1)] (* a b))", lang.Int(2)},
		{"quote", "(quote (f x))", lang.NewList(lang.Symbol("f"), lang.Symbol("x"))},
		{"list", "(list 1 2)", lang.NewList(lang.Int(1), lang.Int(2))},
		{"cons literal", "[1 (+ 1 1)]", lang.NewList(lang.Int(1), lang.Int(2))},
		{"first", "(first [1 2])", lang.Int(1)},
		{"rest", "(rest [1 2])", lang.NewList(lang.Int(2))},
		{"length", "(length [1 2 3])", lang.Int(3)},
		{"str", `(str "a" 1 "b")`, lang.String("a1b")},
		{"equal", "(= 1 1 1)", lang.Bool(true)},
		{"not equal", "(= 1 2)", lang.Bool(false)},
		{"less", "(< 1 2 3)", lang.Bool(true)},
		{"not less", "(< 1 3 2)", lang.Bool(false)},
		{"not", "(not false)", lang.Bool(true)},
		{"null?", "(null? null)", lang.Bool(true)},
		{"context vars", `(context-set "k" 1) (context-get "k")`, lang.Int(1)},
		{"context default", `(context-get "missing" 2)`, lang.Int(2)},
		{
			"tail recursion",
			`(def loop (fn [n] (if (= n 0) "done" (loop (- n 1))))) (loop 100000)`,
			lang.String("done"),
		},
	} {
		example := example
		t.Run(example.Name, func(t *testing.T) {
			is := is.New(t)

			ctx := lang.WithContextVars(context.Background(), lang.NewContextVars())

			res, err := lang.EvalString(ctx, lang.NewStandardScope(), example.Src, "test")
			is.NoErr(err)
			langtest.Equal(t, res, example.Result)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()
	scope := lang.NewStandardScope()

	_, err := lang.EvalString(ctx, scope, "nope", "test")
	var unbound lang.UnboundError
	is.True(errors.As(err, &unbound))
	is.Equal(unbound.Symbol, lang.Symbol("nope"))

	_, err = lang.EvalString(ctx, scope, "(quot 1 2 3)", "test")
	var arity lang.ArityError
	is.True(errors.As(err, &arity))
	is.Equal(arity.Need, 2)
	is.Equal(arity.Have, 3)

	_, err = lang.EvalString(ctx, scope, "(1 2)", "test")
	var notComb lang.NotCombinerError
	is.True(errors.As(err, &notComb))

	_, err = lang.EvalString(ctx, scope, `(error "boom")`, "test")
	is.Equal(err.Error(), "boom")

	_, err = lang.EvalString(ctx, scope, "(exit 7)", "test")
	var exit lang.ExitError
	is.True(errors.As(err, &exit))
	is.Equal(exit.Code, 7)

	_, err = lang.EvalString(ctx, scope, "(exit)", "test")
	is.True(errors.As(err, &exit))
	is.Equal(exit.Code, 0)

	_, err = lang.EvalString(ctx, scope, "(interrupt)", "test")
	is.True(errors.Is(err, lang.ErrInterrupted))

	_, err = lang.EvalString(ctx, scope, "(sleep 1)", "test")
	is.True(errors.Is(err, lang.ErrNoLoop))
}

func TestEvalCancelled(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lang.EvalString(ctx, lang.NewStandardScope(), "(+ 1 2)", "test")
	is.True(errors.Is(err, lang.ErrInterrupted))
}

func TestPrint(t *testing.T) {
	is := is.New(t)

	out := new(bytes.Buffer)
	ctx := ioctx.StdoutToContext(context.Background(), out)

	res, err := lang.EvalString(ctx, lang.NewStandardScope(), `(print "hello" 42 "world")`, "test")
	is.NoErr(err)
	langtest.Equal(t, res, lang.Null{})
	is.Equal(out.String(), "hello 42 world\n")
}

func TestDump(t *testing.T) {
	is := is.New(t)

	errs := new(bytes.Buffer)
	ctx := ioctx.StderrToContext(context.Background(), errs)

	res, err := lang.EvalString(ctx, lang.NewStandardScope(), `(dump "hi")`, "test")
	is.NoErr(err)
	langtest.Equal(t, res, lang.String("hi"))
	is.Equal(errs.String(), "\"hi\"\n")
}

func TestTraceRecordsFailingFrames(t *testing.T) {
	is := is.New(t)

	trace := &lang.Trace{}
	ctx := lang.WithTrace(context.Background(), trace)

	_, err := lang.EvalString(ctx, lang.NewStandardScope(), "(do\n  (+ 1 2)\n  (first []))", "test")
	is.True(err != nil)

	frames := trace.Frames()
	is.Equal(len(frames), 2)
	is.Equal(frames[0].Range.Start.Ln, 1)
	is.Equal(frames[1].Range.Start.Ln, 3)
}

func TestTraceRecordsNestedCalls(t *testing.T) {
	is := is.New(t)

	trace := &lang.Trace{}
	ctx := lang.WithTrace(context.Background(), trace)

	_, err := lang.EvalString(ctx, lang.NewStandardScope(), "(do\n (def f (fn [] (first [])))\n (f))", "test")
	is.True(err != nil)

	lines := []int{}
	for _, frame := range trace.Frames() {
		lines = append(lines, frame.Range.Start.Ln)
	}

	// the statement, the call to f, then the call inside f's body
	is.Equal(lines, []int{1, 3, 2})
}

func TestTracePopsOnSuccess(t *testing.T) {
	is := is.New(t)

	trace := &lang.Trace{}
	ctx := lang.WithTrace(context.Background(), trace)

	_, err := lang.EvalString(ctx, lang.NewStandardScope(), "(+ 1 (* 2 3))", "test")
	is.NoErr(err)
	is.True(trace.IsEmpty())
}
