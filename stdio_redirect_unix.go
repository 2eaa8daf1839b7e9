//go:build unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// redirectStdIO points fds 1 and 2 at path, so panics from any goroutine land
// in the file while the console shows the watch face.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("stdio log dir: %w", err)
	}
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_APPEND|unix.O_WRONLY|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return fmt.Errorf("open stdio log %s: %w", path, err)
	}
	defer unix.Close(fd)

	for _, target := range []int{unix.Stdout, unix.Stderr} {
		if err := unix.Dup2(fd, target); err != nil {
			return fmt.Errorf("dup2 stdio log onto fd %d: %w", target, err)
		}
	}
	fmt.Fprintf(os.Stderr, "--- ungesund started %s pid %d\n", time.Now().Format(time.RFC3339), os.Getpid())
	return nil
}
