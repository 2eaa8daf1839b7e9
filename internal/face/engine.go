package face

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/corebounce/ungesund/internal/gesundlet"
	"github.com/corebounce/ungesund/internal/render"
)

var ErrNoClock = errors.New("engine: no clock")

// Symbolic colors of the clock itself.
const (
	ColorBackground = "ungesund_background"
	ColorForeground = "ungesund_foreground"
)

// Host is the surface owner. Invalidate requests a call to OnDraw soon; it
// must not draw synchronously.
type Host interface {
	Invalidate()
}

// WakeLock keeps the display on while a session exists.
type WakeLock interface {
	Acquire() error
	Release() error
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type Options struct {
	Host     Host
	Clock    Clock
	Kind     gesundlet.Kind
	Interval time.Duration // zero selects gesundlet.DefaultInterval(Kind)
	Colors   gesundlet.ColorResolver
	WakeLock WakeLock
	Logger   logger

	// GesundletOptions are passed to gesundlet.New, e.g. a seeded source.
	GesundletOptions []gesundlet.Option

	// LowBitAmbient renders ambient text without anti-aliasing.
	LowBitAmbient bool
	// ShowCounter appends the frame counter to the interactive time.
	ShowCounter bool
	TextSize    float64
	// Zone is consulted whenever the face becomes visible. Defaults to time.Local.
	Zone func() *time.Location
}

// Engine is one watch face session from OnCreate to OnDestroy. All methods
// must be called from the host's loop goroutine.
type Engine struct {
	opts Options

	ctx       gesundlet.Context
	strategy  gesundlet.Gesundlet
	scheduler *Scheduler
	frame     FrameClock
	loc       *time.Location

	background color.Color
	foreground color.Color

	created   bool
	destroyed bool
	visible   bool
	ambient   bool
	frames    uint64
}

func NewEngine(opts Options) *Engine {
	if opts.Kind == "" {
		opts.Kind = gesundlet.KindSweep
	}
	if opts.Interval <= 0 {
		opts.Interval = gesundlet.DefaultInterval(opts.Kind)
	}
	if opts.Zone == nil {
		opts.Zone = func() *time.Location { return time.Local }
	}
	if opts.TextSize <= 0 {
		opts.TextSize = render.DefaultTextSize
	}
	return &Engine{opts: opts, loc: opts.Zone()}
}

// OnCreate starts the session for the given face bounds.
func (e *Engine) OnCreate(bounds render.Rect) error {
	if e.created {
		return nil
	}
	if e.opts.Clock == nil {
		return ErrNoClock
	}
	e.ctx = gesundlet.Context{Bounds: bounds, Colors: e.opts.Colors}
	strategy, err := gesundlet.New(e.opts.Kind, e.ctx, e.opts.GesundletOptions...)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.strategy = strategy
	e.background = resolve(e.opts.Colors, ColorBackground, color.Black)
	e.foreground = resolve(e.opts.Colors, ColorForeground, color.White)
	e.frame = NewFrameClock(e.opts.Clock.Now(), e.opts.Interval)
	e.scheduler = NewScheduler(e.opts.Clock, e.opts.Interval, e.invalidate)
	e.created = true

	if e.opts.WakeLock != nil {
		if err := e.opts.WakeLock.Acquire(); err != nil {
			e.errorf("wake lock acquire failed: %v", err)
		}
	}
	e.infof("session created: face=%s interval=%s bounds=%.0fx%.0f", e.opts.Kind, e.opts.Interval, bounds.Width(), bounds.Height())
	return nil
}

func (e *Engine) OnVisibilityChanged(visible bool) {
	if !e.live() {
		return
	}
	e.visible = visible
	if visible {
		e.loc = e.opts.Zone()
	}
	e.scheduler.SetVisible(visible)
}

func (e *Engine) OnAmbientModeChanged(ambient bool) {
	if !e.live() {
		return
	}
	e.ambient = ambient
	e.invalidate()
	e.scheduler.SetVisible(e.visible)
}

// OnTimeTick is the host's once-a-minute tick.
func (e *Engine) OnTimeTick() {
	if !e.live() {
		return
	}
	e.invalidate()
}

// OnDraw paints one frame. surface is the whole canvas; the gesundlet is drawn
// into the bounds given to OnCreate.
func (e *Engine) OnDraw(c render.Canvas, surface render.Rect) {
	if !e.live() {
		return
	}
	c.FillRect(render.Rect{Right: surface.Width(), Bottom: surface.Height()}, e.background)

	now := e.opts.Clock.Now()
	local := now.In(e.loc)
	style := render.TextStyle{Color: e.foreground, Size: e.opts.TextSize, Align: render.TextAlignCenter}
	var text string
	if e.ambient {
		text = fmt.Sprintf("%d:%02d", local.Hour(), local.Minute())
		style.Aliased = e.opts.LowBitAmbient
	} else {
		e.strategy.Draw(c, e.ctx.Bounds, e.frame.Seconds(now), e.frame.Rate())
		text = fmt.Sprintf("%d:%02d:%02d", local.Hour(), local.Minute(), local.Second())
		if e.opts.ShowCounter {
			text = fmt.Sprintf("%s:%d", text, e.frames)
		}
	}
	c.DrawText(text, e.ctx.Bounds.CenterX(), e.ctx.Bounds.CenterY()+style.Size/3, style)
	e.frames++
}

// OnDestroy ends the session. Later callbacks are ignored.
func (e *Engine) OnDestroy() {
	if !e.live() {
		return
	}
	e.destroyed = true
	e.scheduler.Close()
	e.strategy = nil
	if e.opts.WakeLock != nil {
		if err := e.opts.WakeLock.Release(); err != nil {
			e.errorf("wake lock release failed: %v", err)
		}
	}
	e.infof("session destroyed after %d frames", e.frames)
}

func (e *Engine) Visible() bool        { return e.visible }
func (e *Engine) Ambient() bool        { return e.ambient }
func (e *Engine) Frames() uint64       { return e.frames }
func (e *Engine) Kind() gesundlet.Kind { return e.opts.Kind }

// Interval is the redraw cadence of this session.
func (e *Engine) Interval() time.Duration { return e.opts.Interval }

// Pending reports whether a wake-up is scheduled.
func (e *Engine) Pending() bool { return e.scheduler != nil && e.scheduler.Pending() }

func (e *Engine) live() bool { return e.created && !e.destroyed }

func (e *Engine) invalidate() {
	if e.opts.Host != nil {
		e.opts.Host.Invalidate()
	}
}

func (e *Engine) infof(format string, args ...interface{}) {
	if e.opts.Logger != nil {
		e.opts.Logger.Infof("face", format, args...)
	}
}

func (e *Engine) errorf(format string, args ...interface{}) {
	if e.opts.Logger != nil {
		e.opts.Logger.Errorf("face", format, args...)
	}
}

func resolve(r gesundlet.ColorResolver, id string, fallback color.Color) color.Color {
	if r == nil {
		return fallback
	}
	if c := r.Color(id); c != nil {
		return c
	}
	return fallback
}
