//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// StartKeyWatch watches evdev devices under /dev/input/event* and calls
// onKey for every key press whose code is in keys. It returns immediately;
// watchers stop when ctx is done. Without input devices it logs and returns.
func StartKeyWatch(ctx context.Context, logger logger, keys []uint16, onKey func(code uint16)) {
	if onKey == nil || len(keys) == 0 {
		return
	}
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found")
		}
		return
	}
	layout := newEventLayout()
	var mu sync.Mutex
	deliver := func(code uint16) {
		mu.Lock()
		defer mu.Unlock()
		onKey(code)
	}
	for _, path := range paths {
		go watchDevice(ctx, path, layout, keys, deliver)
	}
}

func watchDevice(ctx context.Context, path string, layout eventLayout, keys []uint16, deliver func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range layout.presses(buf[:n], keys) {
			deliver(code)
		}
		// Debounce auto-repeat bursts.
		time.Sleep(10 * time.Millisecond)
	}
}

// eventLayout describes struct input_event: timeval, u16 type, u16 code, s32 value.
type eventLayout struct {
	tvSize int
	size   int
}

func newEventLayout() eventLayout {
	tvSize := binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}
	return eventLayout{tvSize: tvSize, size: tvSize + 8}
}

// presses returns the codes of key-down events in buf that are in keys.
func (l eventLayout) presses(buf []byte, keys []uint16) []uint16 {
	var out []uint16
	for off := 0; off+l.size <= len(buf); off += l.size {
		rec := buf[off : off+l.size]
		typ := binary.LittleEndian.Uint16(rec[l.tvSize : l.tvSize+2])
		code := binary.LittleEndian.Uint16(rec[l.tvSize+2 : l.tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[l.tvSize+4 : l.tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		for _, k := range keys {
			if k == code {
				out = append(out, code)
				break
			}
		}
	}
	return out
}
