// Package gesundlet contains the pluggable visuals painted behind the clock.
package gesundlet

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/corebounce/ungesund/internal/render"
)

// Gesundlet paints one frame into bounds. t is the elapsed session time in
// seconds and rate the nominal frames per second of the scheduler.
type Gesundlet interface {
	Draw(c render.Canvas, bounds render.Rect, t, rate float64)
}

type Kind string

const (
	KindSweep  Kind = "sweep"
	KindRadar  Kind = "radar"
	KindSimple Kind = "simple"
)

var ErrUnknownKind = errors.New("unknown gesundlet")

// Kinds lists all available visuals in display order.
func Kinds() []Kind { return []Kind{KindSweep, KindRadar, KindSimple} }

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DefaultInterval is the redraw cadence each visual was designed for.
func DefaultInterval(kind Kind) time.Duration {
	if kind == KindSweep {
		return 500 * time.Millisecond
	}
	return 20 * time.Millisecond
}

// Symbolic color ids looked up through the render context.
const (
	ColorRadarStart = "radar_start"
	ColorRadarEnd   = "radar_end"
)

// ColorResolver maps symbolic color ids to colors.
type ColorResolver interface {
	Color(id string) color.Color
}

// Context is the per-session render context. It is built once when the face
// is created and not modified afterwards.
type Context struct {
	Bounds render.Rect
	Colors ColorResolver
}

func (c Context) color(id string, fallback color.Color) color.Color {
	if c.Colors == nil {
		return fallback
	}
	if col := c.Colors.Color(id); col != nil {
		return col
	}
	return fallback
}

// Source provides uniformly distributed numbers in [0,1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic Source.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type options struct {
	src        Source
	blips      []Blip
	blipCount  int
	speed      float64
	alphaStep  float64
	radiusStep float64
}

type Option func(*options)

// WithSource replaces the random source used for blip placement and jitter.
func WithSource(src Source) Option {
	return func(o *options) {
		if src != nil {
			o.src = src
		}
	}
}

// WithBlips sets explicit initial blips for the radar.
func WithBlips(blips ...Blip) Option {
	return func(o *options) { o.blips = append([]Blip(nil), blips...) }
}

// WithBlipCount sets the number of randomly placed radar blips.
func WithBlipCount(n int) Option {
	return func(o *options) { o.blipCount = n }
}

// WithSpeed sets the angular speed in degrees per second for the animated visuals.
func WithSpeed(degPerSec float64) Option {
	return func(o *options) { o.speed = degPerSec }
}

// WithSteps sets the maximum blip jitter per revisit.
func WithSteps(alphaDeg, radius float64) Option {
	return func(o *options) {
		o.alphaStep = alphaDeg
		o.radiusStep = radius
	}
}

// New creates the visual of the given kind for a session.
func New(kind Kind, ctx Context, opts ...Option) (Gesundlet, error) {
	o := options{
		src:        globalSource{},
		blipCount:  DefaultBlipCount,
		alphaStep:  AlphaStep,
		radiusStep: RadiusStep,
	}
	for _, opt := range opts {
		opt(&o)
	}
	switch kind {
	case KindSweep:
		return NewSweep(ctx), nil
	case KindRadar:
		if o.speed == 0 {
			o.speed = RadarSpeed
		}
		return newRadar(ctx, o), nil
	case KindSimple:
		if o.speed == 0 {
			o.speed = SweepSpeed
		}
		return NewSimple(ctx, o.speed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

// sweepShader builds the radar gradient: a short bright edge at the end of the
// turn fading back into the end color.
func sweepShader(bounds render.Rect, start, end color.Color, rotation float64) *render.SweepGradient {
	return &render.SweepGradient{
		CX:        bounds.CenterX(),
		CY:        bounds.CenterY(),
		Colors:    []color.Color{end, end, start, end},
		Positions: []float64{0, 0.4, 0.99, 1},
		Rotation:  rotation,
	}
}
