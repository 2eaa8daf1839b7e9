package face

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDelay(t *testing.T) {
	interval := 500 * time.Millisecond
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"epoch", time.UnixMilli(0), 500 * time.Millisecond},
		{"mid interval", time.UnixMilli(130), 370 * time.Millisecond},
		{"just before boundary", time.UnixMilli(999), time.Millisecond},
		{"on boundary", time.UnixMilli(1500), 500 * time.Millisecond},
		{"before epoch", time.UnixMilli(-100), 100 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextDelay(tt.now, interval))
		})
	}
	assert.Equal(t, time.Duration(0), NextDelay(time.UnixMilli(10), 0))
}

func TestFirstWakeUpLandsOnBoundary(t *testing.T) {
	clock := newManualClock(time.UnixMilli(0))
	var fired []int64
	s := NewScheduler(clock, 500*time.Millisecond, func() { fired = append(fired, clock.Now().UnixMilli()) })

	s.SetVisible(true)
	require.Len(t, clock.pending(), 1)
	assert.Equal(t, int64(0), clock.pending()[0].at.UnixMilli(), "becoming visible redraws immediately")

	clock.Advance(0)
	require.Len(t, clock.pending(), 1)
	assert.Equal(t, int64(500), clock.pending()[0].at.UnixMilli())

	clock.Advance(1200 * time.Millisecond)
	assert.Equal(t, []int64{0, 500, 1000}, fired)
	assert.Equal(t, int64(1500), clock.pending()[0].at.UnixMilli())
}

func TestWakeUpsDoNotDrift(t *testing.T) {
	clock := newManualClock(time.UnixMilli(130))
	var fired []int64
	s := NewScheduler(clock, 20*time.Millisecond, func() {
		fired = append(fired, clock.Now().UnixMilli())
		clock.now = clock.now.Add(7 * time.Millisecond) // slow frame
	})

	s.SetVisible(true)
	clock.Advance(65 * time.Millisecond)

	assert.Equal(t, []int64{130, 140, 160, 180}, fired)
}

func TestVisibilityTogglesKeepOnePendingWakeUp(t *testing.T) {
	clock := newManualClock(time.UnixMilli(0))
	frames := 0
	s := NewScheduler(clock, 500*time.Millisecond, func() { frames++ })

	s.SetVisible(true)
	assert.Len(t, clock.pending(), 1)
	s.SetVisible(false)
	assert.Len(t, clock.pending(), 0)
	assert.False(t, s.Pending())
	s.SetVisible(true)
	assert.Len(t, clock.pending(), 1)
	s.SetVisible(true)
	assert.Len(t, clock.pending(), 1)

	clock.Advance(2 * time.Second)
	assert.Len(t, clock.pending(), 1)
	assert.Equal(t, 5, frames)
}

func TestCancelIsIdempotent(t *testing.T) {
	clock := newManualClock(time.UnixMilli(0))
	s := NewScheduler(clock, time.Second, nil)

	seq := s.seq
	s.Cancel()
	s.Cancel()
	assert.False(t, s.Pending())
	assert.Equal(t, seq, s.seq)
	assert.Empty(t, clock.timers)

	s.SetVisible(true)
	s.Cancel()
	seq = s.seq
	s.Cancel()
	assert.Equal(t, seq, s.seq)
	assert.Empty(t, clock.pending())
}

func TestStaleDispatchIsNoop(t *testing.T) {
	clock := newManualClock(time.UnixMilli(0))
	frames := 0
	s := NewScheduler(clock, time.Second, func() { frames++ })

	s.SetVisible(true)
	stale := clock.pending()[0]
	s.SetVisible(false)

	// A host that already dequeued the callback still runs it.
	stale.f()
	assert.Equal(t, 0, frames)
	assert.False(t, s.Pending())

	s.SetVisible(true)
	superseded := clock.pending()[0]
	s.SetVisible(true)
	superseded.f()
	assert.Equal(t, 0, frames)
	assert.True(t, s.Pending())
}

func TestCloseStopsScheduling(t *testing.T) {
	clock := newManualClock(time.UnixMilli(0))
	frames := 0
	s := NewScheduler(clock, time.Second, func() { frames++ })

	s.SetVisible(true)
	pending := clock.pending()[0]
	s.Close()
	pending.f()
	s.SetVisible(true)
	clock.Advance(5 * time.Second)

	assert.Equal(t, 0, frames)
	assert.False(t, s.Pending())
	assert.Empty(t, clock.pending())
}

func TestSchedulerFrameRate(t *testing.T) {
	assert.InDelta(t, 2.0, NewScheduler(nil, 500*time.Millisecond, nil).FrameRate(), 1e-12)
	assert.InDelta(t, 50.0, NewScheduler(nil, 20*time.Millisecond, nil).FrameRate(), 1e-12)
	assert.Equal(t, time.Second, NewScheduler(nil, 0, nil).Interval())
}

func TestFrameClock(t *testing.T) {
	start := time.UnixMilli(1000)
	f := NewFrameClock(start, 20*time.Millisecond)

	assert.Equal(t, 1.5, f.Seconds(start.Add(1500*time.Millisecond)))
	assert.InDelta(t, 50.0, f.Rate(), 1e-12)
	assert.Equal(t, 0.0, FrameRate(0))

	for _, ms := range []int{20, 33, 500} {
		interval := time.Duration(ms) * time.Millisecond
		assert.InDelta(t, 1000.0/float64(ms), FrameRate(interval), 1e-9)
	}
}
