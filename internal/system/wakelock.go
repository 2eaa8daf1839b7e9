package system

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// WakeLock keeps the display from blanking while held.
type WakeLock interface {
	Acquire() error
	Release() error
}

type NoopWakeLock struct{}

func (NoopWakeLock) Acquire() error { return nil }
func (NoopWakeLock) Release() error { return nil }

const (
	// setterm --blank 0 / --blank 10 as console escapes.
	escBlankOff     = "\x1b[9;0]"
	escBlankDefault = "\x1b[9;10]"
	fbBlankPath     = "/sys/class/graphics/fb0/blank"
)

// ConsoleWakeLock disables console blanking and unblanks the framebuffer.
// Release restores the kernel's default blank timeout. Both steps are
// best-effort; an error is returned only if neither worked.
type ConsoleWakeLock struct {
	VTPaths   []string
	BlankPath string
	Logger    logger

	mu   sync.Mutex
	held bool
}

func NewConsoleWakeLock(l logger) *ConsoleWakeLock {
	return &ConsoleWakeLock{VTPaths: vtPaths, BlankPath: fbBlankPath, Logger: l}
}

func (w *ConsoleWakeLock) Acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.held {
		return nil
	}
	errVT := w.writeVT(escBlankOff)
	var errFB error
	if w.BlankPath != "" {
		errFB = writeFile(w.BlankPath, "0")
	}
	if errVT != nil && (errFB != nil || w.BlankPath == "") {
		return fmt.Errorf("wake lock: %w", errors.Join(errVT, errFB))
	}
	w.held = true
	w.infof("display blanking disabled")
	return nil
}

func (w *ConsoleWakeLock) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.held {
		return nil
	}
	w.held = false
	if err := w.writeVT(escBlankDefault); err != nil {
		return fmt.Errorf("wake lock release: %w", err)
	}
	w.infof("display blanking restored")
	return nil
}

// Held reports whether Acquire succeeded and Release was not called since.
func (w *ConsoleWakeLock) Held() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.held
}

func (w *ConsoleWakeLock) writeVT(s string) error {
	var lastErr error
	for _, p := range w.VTPaths {
		if err := writeFile(p, s); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no console")
	}
	return lastErr
}

func (w *ConsoleWakeLock) infof(format string, args ...interface{}) {
	if w.Logger != nil {
		w.Logger.Infof("wakelock", format, args...)
	}
}

// CommandWakeLock runs configured commands on acquire and release,
// e.g. "vcgencmd display_power 1". Empty commands are skipped.
type CommandWakeLock struct {
	Runner    Runner
	OnAcquire []string
	OnRelease []string
	Timeout   time.Duration
}

func (w CommandWakeLock) Acquire() error { return w.run(w.OnAcquire) }
func (w CommandWakeLock) Release() error { return w.run(w.OnRelease) }

func (w CommandWakeLock) run(argv []string) error {
	if len(argv) == 0 || w.Runner == nil {
		return nil
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, stderr, err := w.Runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", argv[0], err, strings.TrimSpace(stderr))
	}
	return nil
}
