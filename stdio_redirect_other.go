//go:build !unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// redirectStdIO swaps os.Stdout and os.Stderr for the log file. Runtime panics
// still go to the original stderr on these platforms.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("stdio log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open stdio log %s: %w", path, err)
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
