package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/spf13/pflag"
	"github.com/vito/arepl/pkg/ioctx"
	"github.com/vito/arepl/pkg/lang"
	"github.com/vito/arepl/pkg/repl"
	"github.com/vito/arepl/pkg/zapctx"
	"go.uber.org/zap/zapcore"
)

var Stderr = colorable.NewColorableStderr()

var flags = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)

var banner string
var exitMsg string
var basic bool
var startup string
var locals []string
var debug bool
var showVersion bool

func init() {
	flags.SortFlags = false

	flags.StringVar(&banner, "banner", "", "text to print before the first prompt")
	flags.StringVar(&exitMsg, "exitmsg", "", "text to print when the session ends")
	flags.BoolVarP(&basic, "basic", "b", false, "read plain lines instead of using the line editor")
	flags.StringVarP(&startup, "startup", "s", "", "script to run before the first prompt")
	flags.StringArrayVarP(&locals, "local", "l", nil, "bind name=value in the namespace; the value is read as a literal")
	flags.BoolVarP(&debug, "debug", "d", false, "log debug messages")
	flags.BoolVarP(&showVersion, "version", "v", false, "print the version")
}

func main() {
	ctx := ioctx.StdoutToContext(context.Background(), os.Stdout)
	ctx = ioctx.StderrToContext(ctx, Stderr)

	err := flags.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}

		repl.WriteError(ctx, repl.FlagError{
			Err:   err,
			Flags: flags,
		})

		os.Exit(2)
	}

	if showVersion {
		version(ctx)
		return
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	logger := lang.Logger(level)
	defer logger.Sync() // nolint: errcheck

	ctx = zapctx.ToContext(ctx, logger)

	bindings, err := parseLocals(ctx, locals)
	if err != nil {
		repl.WriteError(ctx, repl.FlagError{
			Err:   err,
			Flags: flags,
		})

		os.Exit(2)
	}

	opts := repl.Options{
		Locals:  bindings,
		Basic:   basic,
		Startup: startup,
		Version: versionString(),
	}

	if flags.Changed("banner") {
		opts.Banner = &banner
	}

	if flags.Changed("exitmsg") {
		opts.ExitMsg = &exitMsg
	}

	os.Exit(repl.Interact(ctx, opts))
}

// parseLocals reads each name=value pair. A value which does not evaluate
// on its own, like a bare word, is bound as a string.
func parseLocals(ctx context.Context, pairs []string) (map[string]any, error) {
	bindings := map[string]any{}

	for _, pair := range pairs {
		name, src, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed --local %q: expected name=value", pair)
		}

		val, err := lang.EvalString(ctx, lang.NewEmptyScope(lang.Ground), src, "--local")
		if err != nil {
			bindings[name] = src
			continue
		}

		bindings[name] = val
	}

	return bindings, nil
}
