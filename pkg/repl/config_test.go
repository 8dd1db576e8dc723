package repl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/vito/arepl/pkg/repl"
	"github.com/vito/is"
)

func withConfigHome(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return dir
}

func TestLoadConfigDefault(t *testing.T) {
	is := is.New(t)

	withConfigHome(t)

	config, err := repl.LoadConfig(repl.DefaultConfig)
	is.NoErr(err)
	is.Equal(config.Prompt, repl.DefaultConfig.Prompt)
	is.Equal(config.HistoryLimit, repl.DefaultConfig.HistoryLimit)
	is.True(config.ColorEnabled(true))
	is.True(!config.ColorEnabled(false))
}

func TestLoadConfigOverrides(t *testing.T) {
	is := is.New(t)

	dir := withConfigHome(t)

	is.NoErr(os.MkdirAll(filepath.Join(dir, "arepl"), 0700))
	is.NoErr(os.WriteFile(
		filepath.Join(dir, "arepl", "config.json"),
		[]byte(`{"prompt": "λ ", "color": false}`),
		0600,
	))

	config, err := repl.LoadConfig(repl.DefaultConfig)
	is.NoErr(err)
	is.Equal(config.Prompt, "λ ")
	is.Equal(config.ContinuationPrompt, repl.DefaultConfig.ContinuationPrompt)
	is.True(!config.ColorEnabled(true))
}

func TestLoadConfigMalformed(t *testing.T) {
	is := is.New(t)

	dir := withConfigHome(t)

	is.NoErr(os.MkdirAll(filepath.Join(dir, "arepl"), 0700))
	is.NoErr(os.WriteFile(filepath.Join(dir, "arepl", "config.json"), []byte(`{`), 0600))

	_, err := repl.LoadConfig(repl.DefaultConfig)
	is.True(err != nil)
}
