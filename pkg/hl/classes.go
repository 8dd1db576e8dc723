package hl

import (
	"fmt"

	"github.com/vito/arepl/pkg/lang"
)

type Class int

const (
	Invalid Class = iota
	Bool
	Const
	Cond
	Async
	Def
	Fn
	Special
)

var classNames = map[Class]string{
	Invalid: "invalid",
	Bool:    "bool",
	Const:   "const",
	Cond:    "cond",
	Async:   "async",
	Def:     "def",
	Fn:      "fn",
	Special: "special",
}

func (class Class) String() string {
	if name, found := classNames[class]; found {
		return name
	}

	return fmt.Sprintf("Class(%d)", int(class))
}

type Classes map[Class][]lang.Symbol

// Classify groups the scope's bindings by how they should be highlighted.
func Classify(scope *lang.Scope) Classes {
	cs := Classes{}

	for class, names := range staticClasses {
		cs[class] = names
	}

	for class := range dynamicClasses {
		cs[class] = Bindings(scope, class)
	}

	return cs
}

func Bindings(scope *lang.Scope, class Class) []lang.Symbol {
	if names, found := staticClasses[class]; found {
		return names
	}

	fn, found := dynamicClasses[class]
	if !found {
		panic(fmt.Errorf("unknown class: %s", class))
	}

	names := []lang.Symbol{}
	_ = scope.Each(func(s lang.Symbol, v lang.Value) error {
		if fn(s, v) {
			names = append(names, s)
		}

		return nil
	})

	return names
}

var staticClasses = Classes{
	Bool:  {"true", "false"},
	Const: {"null", "_"},
	Cond:  {"if"},
	Async: {"await", "spawn", "gather", "sleep", "cancel"},
}

type classifyFunc func(lang.Symbol, lang.Value) bool

var dynamicClasses = map[Class]classifyFunc{
	Def: func(s lang.Symbol, _ lang.Value) bool {
		return !isStatic(s) && isDefine(s)
	},
	Fn: func(s lang.Symbol, v lang.Value) bool {
		var app lang.Applicative
		return !isStatic(s) && !isDefine(s) && v.Decode(&app) == nil
	},
	Special: func(s lang.Symbol, v lang.Value) bool {
		var builtin *lang.Builtin
		return !isStatic(s) && !isDefine(s) && v.Decode(&builtin) == nil
	},
}

func isDefine(s lang.Symbol) bool {
	switch s {
	case "def", "set!", "let", "fn":
		return true
	default:
		return false
	}
}

func isStatic(s lang.Symbol) bool {
	for _, names := range staticClasses {
		for _, n := range names {
			if n == s {
				return true
			}
		}
	}

	return false
}
