package repl

import (
	"context"
	"strings"
	"sync"
)

// Sources remembers the text of every chunk of input the console has
// compiled, so tracebacks can quote the lines a frame points at.
type Sources struct {
	mu    sync.Mutex
	files map[string][]string
}

func NewSources() *Sources {
	return &Sources{
		files: map[string][]string{},
	}
}

// Register records the text read under the file name.
func (sources *Sources) Register(file, text string) {
	sources.mu.Lock()
	sources.files[file] = strings.Split(text, "\n")
	sources.mu.Unlock()
}

// Lines returns the registered lines for the file.
func (sources *Sources) Lines(file string) ([]string, bool) {
	sources.mu.Lock()
	defer sources.mu.Unlock()

	lines, found := sources.files[file]
	return lines, found
}

type sourcesKey struct{}

func SourcesToContext(ctx context.Context, sources *Sources) context.Context {
	return context.WithValue(ctx, sourcesKey{}, sources)
}

func SourcesFromContext(ctx context.Context) *Sources {
	sources, ok := ctx.Value(sourcesKey{}).(*Sources)
	if !ok {
		return NewSources()
	}

	return sources
}
