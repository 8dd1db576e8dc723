package repl

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/jonboulle/clockwork"
)

// BasicEnv forces the plain line reader when set to anything non-empty.
const BasicEnv = "AREPL_BASIC_REPL"

// StartupEnv names a script to run before the first prompt.
const StartupEnv = "AREPL_STARTUP"

// DefaultExitMsg is printed when the session ends unless overridden.
const DefaultExitMsg = "exiting arepl..."

// Options configures an interactive session.
type Options struct {
	// Banner is printed before the first prompt. Nil prints the default
	// banner; an empty string prints nothing.
	Banner *string

	// ExitMsg is printed once the session ends. Nil prints DefaultExitMsg;
	// an empty string prints nothing.
	ExitMsg *string

	// Locals are bound in the namespace before anything runs.
	Locals map[string]any

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Basic forces the plain line reader even on a terminal.
	Basic bool

	// Startup is a script to run before the first prompt.
	Startup string

	// Clock drives sleep timers; defaults to the real clock.
	Clock clockwork.Clock

	// Config overrides the user's config file.
	Config *Config

	// Interrupts delivers interrupt signals. If nil, os.Interrupt is
	// subscribed to.
	Interrupts <-chan os.Signal

	Version string
}

func (opts Options) banner() string {
	if opts.Banner != nil {
		return *opts.Banner
	}

	return DefaultBanner(opts.Version)
}

func (opts Options) exitMsg() string {
	if opts.ExitMsg != nil {
		return *opts.ExitMsg
	}

	return DefaultExitMsg
}

// DefaultBanner describes the build and how to use await.
func DefaultBanner(version string) string {
	return fmt.Sprintf(
		"arepl %s on %s/%s\n"+
			"Use (await ...) directly; statements run on the event loop.",
		version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
