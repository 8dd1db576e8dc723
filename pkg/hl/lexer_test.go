package hl_test

import (
	"testing"

	"github.com/alecthomas/chroma"
	"github.com/vito/arepl/pkg/hl"
	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/is"
)

func tokenTypes(t *testing.T, src string) map[string]chroma.TokenType {
	t.Helper()

	iter, err := hl.AreplLexer.Tokenise(nil, src)
	if err != nil {
		t.Fatal(err)
	}

	types := map[string]chroma.TokenType{}
	for _, tok := range iter.Tokens() {
		types[tok.Value] = tok.Type
	}

	return types
}

func TestLexer(t *testing.T) {
	is := is.New(t)

	types := tokenTypes(t, `(def x (await (sleep 1 "hi"))) ; done`)
	is.Equal(types["def"], chroma.KeywordDeclaration)
	is.Equal(types["await"], chroma.NameBuiltinPseudo)
	is.Equal(types["sleep"], chroma.NameBuiltinPseudo)
	is.Equal(types["1"], chroma.LiteralNumberInteger)
	is.Equal(types[`"hi"`], chroma.LiteralString)
	is.Equal(types["; done"], chroma.CommentSingle)
}

func TestClassify(t *testing.T) {
	is := is.New(t)

	classes := hl.Classify(lang.Ground)
	is.Equal(classes[hl.Bool], []lang.Symbol{"true", "false"})
	is.True(contains(classes[hl.Def], "def"))
	is.True(contains(classes[hl.Fn], "print"))
	is.True(contains(classes[hl.Special], "do"))
	is.True(!contains(classes[hl.Fn], "await"))
	is.Equal(hl.Async.String(), "async")
}

func contains(syms []lang.Symbol, needle lang.Symbol) bool {
	for _, s := range syms {
		if s == needle {
			return true
		}
	}

	return false
}
