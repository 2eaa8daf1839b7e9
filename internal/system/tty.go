package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Active VT first, then the current console.
var vtPaths = []string{"/dev/tty", "/dev/tty0"}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// SetGraphicsMode switches the active console to graphics mode so the kernel
// stops drawing the text cursor and console over the face.
func SetGraphicsMode() error { return setKDMode(kdGraphics, "KD_GRAPHICS") }

// RestoreTextMode gives the console back.
func RestoreTextMode() error { return setKDMode(kdText, "KD_TEXT") }

func SetGraphicsModeWithLog(l logger) error {
	return logResult(l, SetGraphicsMode(), "KD_GRAPHICS set", "KD_GRAPHICS failed")
}

func RestoreTextModeWithLog(l logger) error {
	return logResult(l, RestoreTextMode(), "KD_TEXT set", "KD_TEXT failed")
}

func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

func HideCursorWithLog(l logger) error {
	return logResult(l, HideCursor(), "cursor hidden", "hide cursor failed")
}

func ShowCursorWithLog(l logger) error {
	return logResult(l, ShowCursor(), "cursor shown", "show cursor failed")
}

func setKDMode(mode int, name string) error {
	var lastErr error
	for _, p := range vtPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("%s on %s: %w", name, p, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%s failed: no console", name)
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range vtPaths {
		if err := writeFile(p, s); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("write VT failed: %w", lastErr)
	}
	return fmt.Errorf("write VT failed: no console")
}

func writeFile(path, s string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(s)
	return err
}

func logResult(l logger, err error, okMsg, failMsg string) error {
	if l == nil {
		return err
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failMsg, err)
	} else {
		l.Infof("tty", "%s", okMsg)
	}
	return err
}
