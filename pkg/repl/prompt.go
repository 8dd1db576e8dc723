package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/c-bata/go-prompt"
	"go.uber.org/atomic"
	"golang.org/x/term"
)

const wordsep = "()[]{} "

// completeTimeout bounds how long completion waits for a busy loop.
const completeTimeout = 100 * time.Millisecond

const complColor = prompt.Green
const textColor = prompt.White

// PromptReader edits lines on a terminal with history and completion.
//
// Ctrl-C while editing clears the line in place, so Interrupt has nothing
// to do.
type PromptReader struct {
	console *Console
	config  Config

	mu     sync.Mutex
	prefix string
	p      *prompt.Prompt

	// lines is set while a p.Input call is outstanding. go-prompt can't
	// abort Input, so a cancelled read leaves it running and the next
	// ReadLine picks up its line instead of starting a second reader.
	lines chan string

	entered *atomic.Bool
}

var _ LineReader = (*PromptReader)(nil)

func NewPromptReader(console *Console, config Config) *PromptReader {
	return &PromptReader{
		console: console,
		config:  config,
		entered: atomic.NewBool(false),
	}
}

func (reader *PromptReader) ReadLine(ctx context.Context, prefix string) (string, error) {
	reader.mu.Lock()
	reader.prefix = prefix
	if reader.p == nil {
		reader.p = reader.newPrompt()
	}
	p := reader.p
	reader.mu.Unlock()

	fd := int(os.Stdin.Fd())
	before, err := term.GetState(fd)
	if err != nil {
		return "", InternalError{Err: fmt.Errorf("get terminal state: %w", err)}
	}

	reader.entered.Store(false)

	line, err := reader.input(ctx, p.Input)
	if err != nil {
		_ = term.Restore(fd, before)
		return "", err
	}

	// restore terminal state manually; go-prompt doesn't restore isig, which
	// breaks Ctrl-C while a statement runs
	if err := term.Restore(fd, before); err != nil {
		return "", InternalError{Err: fmt.Errorf("restore terminal state: %w", err)}
	}

	// Input returns "" for Ctrl-D too; only Enter sets the flag
	if line == "" && !reader.entered.Load() {
		return "", io.EOF
	}

	if strings.TrimSpace(line) != "" {
		if err := appendHistory(line); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to append to history: %s\n", err)
		}
	}

	return line, nil
}

// input waits for read to return a line, starting it only if no earlier
// call is still outstanding.
func (reader *PromptReader) input(ctx context.Context, read func() string) (string, error) {
	reader.mu.Lock()
	lines := reader.lines
	if lines == nil {
		lines = make(chan string, 1)
		reader.lines = lines

		go func() {
			lines <- read()
		}()
	}
	reader.mu.Unlock()

	select {
	case line := <-lines:
		reader.mu.Lock()
		reader.lines = nil
		reader.mu.Unlock()
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (reader *PromptReader) Interrupt() {}

// Close is a no-op. A read abandoned by a cancelled ReadLine keeps
// blocking on stdin; that only happens at session teardown, right before
// the process exits.
func (reader *PromptReader) Close() error {
	return nil
}

func (reader *PromptReader) livePrefix() (string, bool) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	return reader.prefix, true
}

func (reader *PromptReader) complete(doc prompt.Document) []prompt.Suggest {
	word := doc.GetWordBeforeCursorUntilSeparator(wordsep)
	if word == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	completions, err := reader.console.Complete(ctx, word)
	if err != nil {
		return nil
	}

	suggestions := []prompt.Suggest{}
	for _, compl := range completions {
		suggestions = append(suggestions, prompt.Suggest{
			Text:        compl.Binding.String(),
			Description: compl.Description,
		})
	}

	return suggestions
}

func (reader *PromptReader) newPrompt() *prompt.Prompt {
	markEntered := func(*prompt.Buffer) {
		reader.entered.Store(true)
	}

	return prompt.New(
		func(string) {},
		reader.complete,
		prompt.OptionHistory(loadHistory(reader.config.HistoryLimit)),
		prompt.OptionPrefix(reader.config.Prompt),
		prompt.OptionLivePrefix(reader.livePrefix),
		prompt.OptionCompletionWordSeparator(wordsep),
		prompt.OptionAddKeyBind(
			prompt.KeyBind{Key: prompt.Enter, Fn: markEntered},
			prompt.KeyBind{Key: prompt.ControlJ, Fn: markEntered},
			prompt.KeyBind{Key: prompt.ControlM, Fn: markEntered},
		),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSuggestionTextColor(complColor),
		prompt.OptionDescriptionBGColor(prompt.DarkGray),
		prompt.OptionDescriptionTextColor(textColor),
		prompt.OptionSelectedSuggestionBGColor(complColor),
		prompt.OptionSelectedSuggestionTextColor(prompt.Black),
		prompt.OptionSelectedDescriptionBGColor(complColor),
		prompt.OptionSelectedDescriptionTextColor(prompt.Black),
		prompt.OptionPreviewSuggestionTextColor(complColor),
		prompt.OptionPrefixTextColor(prompt.Purple),
		prompt.OptionScrollbarBGColor(prompt.DarkGray),
		prompt.OptionScrollbarThumbColor(prompt.White))
}
