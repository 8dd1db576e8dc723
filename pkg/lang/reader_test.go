package lang_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/langtest"
	"github.com/vito/is"
)

func readAll(t *testing.T, src string) ([]lang.Value, error) {
	t.Helper()

	reader := lang.NewReader(bytes.NewBufferString(src), "test")

	var vals []lang.Value
	for {
		val, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return vals, nil
		}

		if err != nil {
			return vals, err
		}

		vals = append(vals, val)
	}
}

func TestReaderForms(t *testing.T) {
	for _, example := range []struct {
		Src    string
		Result lang.Value
	}{
		{"42", lang.Int(42)},
		{"-7", lang.Int(-7)},
		{"0x10", lang.Int(16)},
		{`"hello\n\"world\""`, lang.String("hello\n\"world\"")},
		{`"caf\u00e9 \x41\t"`, lang.String("café A\t")},
		{"\"two\nlines\"", lang.String("two\nlines")},
		{`"né"`, lang.String("né")},
		{"null", lang.Null{}},
		{"true", lang.Bool(true)},
		{"false", lang.Bool(false)},
		{"sym", lang.Symbol("sym")},
		{"set!", lang.Symbol("set!")},
		{"()", lang.Empty{}},
		{"[]", lang.Empty{}},
		{
			"(f 1 2)",
			lang.Pair{
				A: lang.Symbol("f"),
				D: lang.Pair{A: lang.Int(1), D: lang.Pair{A: lang.Int(2), D: lang.Empty{}}},
			},
		},
		{
			"[a & b]",
			lang.Cons{A: lang.Symbol("a"), D: lang.Symbol("b")},
		},
	} {
		example := example
		t.Run(example.Src, func(t *testing.T) {
			is := is.New(t)

			vals, err := readAll(t, example.Src)
			is.NoErr(err)
			is.Equal(len(vals), 1)
			langtest.Equal(t, vals[0], example.Result)
		})
	}
}

func TestReaderComments(t *testing.T) {
	is := is.New(t)

	vals, err := readAll(t, "; leading\n1 ; trailing\n(f ; inside\n 2)\n; last")
	is.NoErr(err)
	is.Equal(len(vals), 2)
	langtest.Equal(t, vals[0], lang.Int(1))
	langtest.Equal(t, vals[1], lang.NewList(lang.Symbol("f"), lang.Int(2)))
}

func TestReaderRanges(t *testing.T) {
	is := is.New(t)

	vals, err := readAll(t, "1\n  (f x)")
	is.NoErr(err)
	is.Equal(len(vals), 2)

	var ann lang.Annotate
	is.NoErr(vals[1].Decode(&ann))
	is.Equal(ann.Range.Start.File, "test")
	is.Equal(ann.Range.Start.Ln, 2)
}

func TestReaderIncomplete(t *testing.T) {
	for _, src := range []string{
		"(def x",
		"(do (f 1)",
		"[1 2",
		`"unterminated`,
	} {
		src := src
		t.Run(src, func(t *testing.T) {
			is := is.New(t)

			_, err := readAll(t, src)
			is.True(err != nil)
			is.True(lang.IsIncomplete(err))
		})
	}
}

func TestReaderMalformed(t *testing.T) {
	is := is.New(t)

	_, err := readAll(t, ")")
	is.True(err != nil)
	is.True(!lang.IsIncomplete(err))
}

func TestReaderInvalidEscape(t *testing.T) {
	is := is.New(t)

	_, err := readAll(t, `"bad \q escape"`)
	is.True(err != nil)
	is.True(!lang.IsIncomplete(err))
	is.True(strings.Contains(err.Error(), "invalid escape"))
}
