package hl

import (
	"fmt"

	"github.com/alecthomas/chroma"
	. "github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/vito/arepl/pkg/lang"
)

// AreplLexer highlights source for the REPL's language, coloring builtins by
// class.
var AreplLexer = lexers.Register(MustNewLazyLexer(
	&Config{
		Name:      "arepl",
		Aliases:   []string{"arepl"},
		Filenames: []string{"*.arepl"},
		MimeTypes: []string{"text/x-arepl"},
	},
	rules,
))

var class2chroma = map[Class]chroma.TokenType{
	Bool:    chroma.KeywordConstant,
	Const:   chroma.KeywordConstant,
	Cond:    chroma.Keyword,
	Async:   chroma.NameBuiltinPseudo,
	Def:     chroma.KeywordDeclaration,
	Fn:      chroma.NameFunction,
	Special: chroma.Keyword,
}

// taken from chroma's TTY formatter
var ttyMap = map[string]string{
	"30m": "#000000", "31m": "#7f0000", "32m": "#007f00", "33m": "#7f7fe0",
	"34m": "#00007f", "35m": "#7f007f", "36m": "#007f7f", "37m": "#e5e5e5",
	"90m": "#555555", "91m": "#ff0000", "92m": "#00ff00", "93m": "#ffff00",
	"94m": "#0000ff", "95m": "#ff00ff", "96m": "#00ffff", "97m": "#ffffff",
}

// TTY style matches to hex codes used by the TTY formatter to map them to
// specific ANSI escape codes.
var TTYStyle = styles.Register(chroma.MustNewStyle("tty", chroma.StyleEntries{
	chroma.Comment:             ttyMap["95m"] + " italic",
	chroma.CommentPreproc:      ttyMap["90m"],
	chroma.KeywordConstant:     ttyMap["33m"],
	chroma.Keyword:             ttyMap["31m"],
	chroma.KeywordDeclaration:  ttyMap["35m"],
	chroma.NameBuiltin:         ttyMap["31m"],
	chroma.NameBuiltinPseudo:   ttyMap["36m"],
	chroma.NameFunction:        ttyMap["34m"],
	chroma.NameNamespace:       ttyMap["34m"],
	chroma.LiteralNumber:       ttyMap["31m"],
	chroma.LiteralString:       ttyMap["32m"],
	chroma.LiteralStringSymbol: ttyMap["33m"],
	chroma.Operator:            ttyMap["31m"],
	chroma.Punctuation:         ttyMap["90m"],
}))

// earlier classes take precedence
var classOrder = []Class{Bool, Const, Cond, Async, Def, Special, Fn}

const symChars = `\w!$%*+<=>?.#\-`

func rules() Rules {
	rootRules := []Rule{
		{Pattern: `^#!.*$`, Type: CommentPreproc, Mutator: nil},
		{Pattern: `;.*$`, Type: CommentSingle, Mutator: nil},
		{Pattern: `[\s]+`, Type: Text, Mutator: nil},
		{Pattern: `-?\d+`, Type: LiteralNumberInteger, Mutator: nil},
		{Pattern: `0x-?[abcdef\d]+`, Type: LiteralNumberHex, Mutator: nil},
		{Pattern: `"(\\\\|\\"|[^"])*"`, Type: LiteralString, Mutator: nil},
		{Pattern: "&", Type: Operator, Mutator: nil},
	}

	for _, class := range classOrder {
		names := Bindings(lang.Ground, class)
		if len(names) == 0 {
			continue
		}

		words := make([]string, len(names))
		for i := range names {
			words[i] = string(names[i])
		}

		tokenType, found := class2chroma[class]
		if !found {
			panic(fmt.Sprintf("unknown chroma token type for class: %s", class))
		}

		pattern := Words(`((?<![`+symChars+`/])|^)`, `((?![`+symChars+`])|$)`, words...)
		rootRules = append(rootRules, Rule{
			Pattern: pattern,
			Type:    tokenType,
			Mutator: nil,
		})
	}

	rootRules = append(rootRules,
		Rule{Pattern: `(?<=\()[` + symChars + `]+`, Type: NameFunction, Mutator: nil},
		Rule{Pattern: `[` + symChars + `]+`, Type: NameVariable, Mutator: nil},
		Rule{Pattern: `(\[|\])`, Type: Punctuation, Mutator: nil},
		Rule{Pattern: `(\{|\})`, Type: Punctuation, Mutator: nil},
		Rule{Pattern: `(\(|\))`, Type: Punctuation, Mutator: nil})

	return Rules{
		"root": rootRules,
	}
}
