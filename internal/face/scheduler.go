package face

import "time"

// Scheduler triggers onFrame at a fixed interval while visible. Wake-ups after
// the first land on multiples of the interval in absolute time, so they do not
// drift. At most one wake-up is pending at any time.
//
// A Scheduler is not safe for concurrent use; it expects all calls and all
// timer callbacks on one goroutine.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	onFrame  func()

	visible bool
	closed  bool
	timer   Timer
	seq     uint64
}

func NewScheduler(clock Clock, interval time.Duration, onFrame func()) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{clock: clock, interval: interval, onFrame: onFrame}
}

// SetVisible drops any pending wake-up and, when visible, schedules an
// immediate one.
func (s *Scheduler) SetVisible(visible bool) {
	s.visible = visible
	s.Cancel()
	if visible && !s.closed {
		s.schedule(0)
	}
}

// Cancel drops the pending wake-up. It is a no-op when idle.
func (s *Scheduler) Cancel() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
	s.seq++
}

// Close cancels and refuses to schedule again. Used on session teardown.
func (s *Scheduler) Close() {
	s.closed = true
	s.visible = false
	s.Cancel()
}

func (s *Scheduler) Pending() bool           { return s.timer != nil }
func (s *Scheduler) Visible() bool           { return s.visible }
func (s *Scheduler) Interval() time.Duration { return s.interval }
func (s *Scheduler) FrameRate() float64      { return FrameRate(s.interval) }

func (s *Scheduler) schedule(d time.Duration) {
	s.seq++
	seq := s.seq
	s.timer = s.clock.AfterFunc(d, func() { s.fire(seq) })
}

func (s *Scheduler) fire(seq uint64) {
	// A superseded or cancelled timer that still got dispatched.
	if s.closed || seq != s.seq || s.timer == nil {
		return
	}
	s.timer = nil
	if s.onFrame != nil {
		s.onFrame()
	}
	if s.visible && !s.closed && s.timer == nil {
		s.schedule(NextDelay(s.clock.Now(), s.interval))
	}
}

// NextDelay is the time from now to the next absolute multiple of interval.
// It is never zero: on an exact boundary the following one is returned.
func NextDelay(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	rem := now.UnixNano() % int64(interval)
	if rem < 0 {
		rem += int64(interval)
	}
	return interval - time.Duration(rem)
}
