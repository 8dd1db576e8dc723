package repl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

const historyFile = "arepl/history"

func appendHistory(line string) error {
	logPath, err := xdg.DataFile(historyFile)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(logPath), 0700)
	if err != nil {
		return err
	}

	// other sessions may be appending at the same time
	lock := flock.New(logPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock history: %w", err)
	}

	defer lock.Unlock() // nolint: errcheck

	history, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(history, line)
	if err != nil {
		history.Close()
		return err
	}

	return history.Close()
}

// loadHistory returns at most the last limit entries.
func loadHistory(limit int) []string {
	logPath, err := xdg.DataFile(historyFile)
	if err != nil {
		return []string{}
	}

	file, err := os.Open(logPath)
	if err != nil {
		return []string{}
	}

	defer file.Close()

	history := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		history = append(history, scanner.Text())
	}

	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	return history
}
