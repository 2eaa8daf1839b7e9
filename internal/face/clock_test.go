package face

import (
	"sort"
	"time"
)

// manualClock is a Clock whose time only moves on Advance. Timer callbacks
// run synchronously inside Advance, in deadline order.
type manualClock struct {
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func newManualClock(start time.Time) *manualClock { return &manualClock{now: start} }

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// pending returns the timers that can still fire.
func (c *manualClock) pending() []*manualTimer {
	var out []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	return out
}

func (c *manualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		p := c.pending()
		if len(p) == 0 || p[0].at.After(target) {
			break
		}
		t := p[0]
		c.now = t.at
		t.fired = true
		t.f()
	}
	c.now = target
}
