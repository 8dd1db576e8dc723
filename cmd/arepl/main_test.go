package main

import (
	"context"
	"testing"

	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/langtest"
	"github.com/vito/is"
)

func TestParseLocals(t *testing.T) {
	is := is.New(t)

	bindings, err := parseLocals(context.Background(), []string{
		"n=42",
		`s="quoted"`,
		"word=bob",
		"list=[1 2]",
		"empty=",
	})
	is.NoErr(err)

	langtest.Equal(t, bindings["n"].(lang.Value), lang.Int(42))
	langtest.Equal(t, bindings["s"].(lang.Value), lang.String("quoted"))
	is.Equal(bindings["word"], "bob")
	langtest.Equal(t, bindings["list"].(lang.Value), lang.NewList(lang.Int(1), lang.Int(2)))
	langtest.Equal(t, bindings["empty"].(lang.Value), lang.Null{})
}

func TestParseLocalsMalformed(t *testing.T) {
	is := is.New(t)

	_, err := parseLocals(context.Background(), []string{"nope"})
	is.True(err != nil)

	_, err = parseLocals(context.Background(), []string{"=1"})
	is.True(err != nil)
}
