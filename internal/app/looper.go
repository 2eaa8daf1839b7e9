package app

import (
	"context"
	"sync"
	"time"

	"github.com/corebounce/ungesund/internal/face"
)

// Looper runs posted functions one at a time on a single goroutine. Every
// engine callback, timer dispatch and draw goes through it, so the watch face
// never needs locks.
//
// The queue is unbounded: Post never blocks, including from the loop itself.
type Looper struct {
	mu     sync.Mutex
	queue  []func()
	notify chan struct{}
	quit   chan struct{}
	done   chan struct{}

	quitOnce sync.Once
	runOnce  sync.Once
}

// NewLooper creates a looper; size is the initial queue capacity.
func NewLooper(size int) *Looper {
	if size <= 0 {
		size = 64
	}
	return &Looper{
		queue:  make([]func(), 0, size),
		notify: make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Post queues f. It reports false once the looper has quit; f is then dropped.
func (l *Looper) Post(f func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	l.mu.Lock()
	l.queue = append(l.queue, f)
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
	return true
}

// Call runs f on the loop and waits for it. It must not be called from the
// loop goroutine. It reports false if f did not run.
func (l *Looper) Call(f func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() { f(); close(ran) }) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted functions until ctx is done or Quit is called.
// Functions still queued at that point are dropped.
func (l *Looper) Run(ctx context.Context) {
	l.runOnce.Do(func() {
		defer close(l.done)
		for {
			select {
			case <-ctx.Done():
				l.Quit()
				return
			case <-l.quit:
				return
			case <-l.notify:
				if !l.drain(ctx) {
					return
				}
			}
		}
	})
}

// drain runs the queued functions in order, including ones they post.
// It reports false when the looper must stop.
func (l *Looper) drain(ctx context.Context) bool {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return true
		}
		for i, f := range batch {
			select {
			case <-ctx.Done():
				l.Quit()
				return false
			case <-l.quit:
				return false
			default:
			}
			f()
			batch[i] = nil
		}
	}
}

// Pending is the number of queued functions.
func (l *Looper) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Looper) Quit() { l.quitOnce.Do(func() { close(l.quit) }) }

// Done is closed when Run has returned.
func (l *Looper) Done() <-chan struct{} { return l.done }

// LoopClock is a wall clock whose timer callbacks run on the looper.
type LoopClock struct {
	Looper *Looper
}

func (c LoopClock) Now() time.Time { return time.Now() }

func (c LoopClock) AfterFunc(d time.Duration, f func()) face.Timer {
	return time.AfterFunc(d, func() { c.Looper.Post(f) })
}
