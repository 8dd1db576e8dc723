package repl_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/morikuni/aec"
	"github.com/spf13/pflag"
	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/arepl/pkg/repl"
	"github.com/vito/is"
)

func TestWriteErrorMultiline(t *testing.T) {
	is := is.New(t)

	stderr := new(bytes.Buffer)
	ctx := ioctx.StderrToContext(context.Background(), stderr)

	repl.WriteError(ctx, errors.New("first\nsecond\nthird"))

	out := stderr.String()
	is.True(strings.HasPrefix(out, aec.RedF.Apply("first")+"\n"))
	is.True(strings.Contains(out, "  second\n  third"))
}

func TestWriteErrorNice(t *testing.T) {
	is := is.New(t)

	flags := pflag.NewFlagSet("arepl", pflag.ContinueOnError)
	flags.Bool("basic", false, "use the plain line reader")

	stderr := new(bytes.Buffer)
	ctx := ioctx.StderrToContext(context.Background(), stderr)

	repl.WriteError(ctx, repl.FlagError{
		Err:   errors.New("unknown flag: --nope"),
		Flags: flags,
	})

	out := stderr.String()
	is.True(strings.Contains(out, "unknown flag: --nope"))
	is.True(strings.Contains(out, "--basic"))
	is.True(strings.Contains(out, "use the plain line reader"))
}
