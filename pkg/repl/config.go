package repl

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/adrg/xdg"
)

// Config is set by the user to tweak the interactive session.
type Config struct {
	Prompt             string `json:"prompt,omitempty"`
	ContinuationPrompt string `json:"continuation_prompt,omitempty"`
	HistoryLimit       int    `json:"history_limit,omitempty"`
	Color              *bool  `json:"color,omitempty"`
}

// DefaultConfig is used for anything the user's config leaves unset.
var DefaultConfig = Config{
	Prompt:             "=> ",
	ContinuationPrompt: "...",
	HistoryLimit:       1000,
}

// LoadConfig loads a Config from $XDG_CONFIG_HOME/arepl/config.json,
// falling back to defaultConfig when the file does not exist.
func LoadConfig(defaultConfig Config) (*Config, error) {
	path, err := xdg.ConfigFile("arepl/config.json")
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaultConfig, nil
		}

		return nil, err
	}

	config := defaultConfig
	err = json.Unmarshal(payload, &config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &config, nil
}

// ColorEnabled reports whether output should be colorized, given whether it
// goes to a terminal.
func (config Config) ColorEnabled(tty bool) bool {
	if config.Color != nil {
		return *config.Color
	}

	return tty
}
