//go:build !linux

package system

import "context"

// StartKeyWatch is only supported on Linux.
func StartKeyWatch(ctx context.Context, logger logger, keys []uint16, onKey func(code uint16)) {
	if logger != nil {
		logger.Infof("input", "key watch not supported on this platform")
	}
}
