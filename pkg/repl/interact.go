package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/vito/arepl/pkg/loop"
	"github.com/vito/arepl/pkg/zapctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Interact runs an interactive session: statements are read on one
// goroutine and executed on an event loop running on another. It returns
// the process exit status.
func Interact(ctx context.Context, opts Options) int {
	ctx, logger := zapctx.Named(ctx, "repl")

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	config := opts.Config
	if config == nil {
		loaded, err := LoadConfig(DefaultConfig)
		if err != nil {
			logger.Warn("failed to load config", zap.Error(err))
			loaded = &Config{}
			*loaded = DefaultConfig
		}

		config = loaded
	}

	if !config.ColorEnabled(isTerminal(stderr)) {
		stderr = colorable.NewNonColorable(stderr)
	} else if stderr == os.Stderr {
		stderr = colorable.NewColorableStderr()
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	l := loop.New(
		loop.WithClock(clock),
		loop.WithLogger(logger.Named("loop")),
	)

	console, err := NewConsole(ctx, l, opts.Version, opts.Locals, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Internal error, %s\n", err)
		return 1
	}

	startup := opts.Startup
	if startup == "" {
		startup = os.Getenv(StartupEnv)
	}

	reader := newLineReader(opts, *config, console, stdin, stdout)

	thread := &Thread{
		Console: console,
		Reader:  reader,
		Config:  *config,
		Stdout:  stdout,
		Stderr:  stderr,
		Startup: startup,
	}

	if banner := opts.banner(); banner != "" {
		fmt.Fprintln(stdout, banner)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupts := opts.Interrupts
	if interrupts == nil {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		defer signal.Stop(sigs)
		interrupts = sigs
	}

	go func() {
		for {
			select {
			case <-interrupts:
				logger.Debug("interrupt")
				thread.Interrupt()
			case <-sessionCtx.Done():
				return
			}
		}
	}()

	eg := new(errgroup.Group)

	eg.Go(func() error {
		// once the loop stops, nothing can settle a pending statement
		defer cancel()

		err := l.RunForever(sessionCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	})

	eg.Go(func() error {
		defer l.Stop()
		return thread.Run(sessionCtx)
	})

	runErr := eg.Wait()

	var teardown error
	if err := reader.Close(); err != nil {
		teardown = multierror.Append(teardown, fmt.Errorf("close reader: %w", err))
	}

	if err := l.Close(); err != nil {
		teardown = multierror.Append(teardown, fmt.Errorf("close loop: %w", err))
	}

	if teardown != nil {
		logger.Warn("teardown failed", zap.Error(teardown))
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "Internal error, %s\n", runErr)
		return 1
	}

	if msg := opts.exitMsg(); msg != "" {
		fmt.Fprintln(stdout, msg)
	}

	res := console.Result()

	logger.Debug("session ended",
		zap.Int("code", res.ExitCode),
		zap.Bool("exited", res.Exited),
		zap.Bool("interrupted", res.Interrupted))

	return res.ExitCode
}

func newLineReader(opts Options, config Config, console *Console, stdin io.Reader, stdout io.Writer) LineReader {
	if opts.Basic || os.Getenv(BasicEnv) != "" {
		return NewPlainReader(stdin, stdout)
	}

	// go-prompt drives the process's own terminal
	if stdin != os.Stdin || stdout != os.Stdout || !isTerminal(stdin) {
		return NewPlainReader(stdin, stdout)
	}

	return NewPromptReader(console, config)
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
