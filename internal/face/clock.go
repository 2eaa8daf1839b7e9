// Package face implements the watch face session: the frame scheduler and the
// engine that reacts to host lifecycle callbacks and paints each frame.
package face

import "time"

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the timer was
	// still pending.
	Stop() bool
}

// Clock is the time source of a session. Callbacks registered with AfterFunc
// must run on the same goroutine as every other engine call.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
