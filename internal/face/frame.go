package face

import "time"

// FrameClock turns wall-clock time into the (elapsed, rate) pair a gesundlet
// is drawn with. Start is the session start, not process start.
type FrameClock struct {
	Start    time.Time
	Interval time.Duration
}

func NewFrameClock(start time.Time, interval time.Duration) FrameClock {
	return FrameClock{Start: start, Interval: interval}
}

func (f FrameClock) Elapsed(now time.Time) time.Duration { return now.Sub(f.Start) }

// Seconds is the elapsed session time in seconds.
func (f FrameClock) Seconds(now time.Time) float64 { return f.Elapsed(now).Seconds() }

func (f FrameClock) Rate() float64 { return FrameRate(f.Interval) }

// FrameRate is frames per second for a redraw interval, 1000/intervalMs.
func FrameRate(interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(interval)
}
