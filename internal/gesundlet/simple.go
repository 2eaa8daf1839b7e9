package gesundlet

import (
	"image/color"

	"github.com/corebounce/ungesund/internal/render"
)

// SweepSpeed is the default angular speed of the simplified sweep in degrees per second.
const SweepSpeed = 90.0

// Simple is the sweep without blips. It advances speed/rate degrees per frame
// so one turn takes the same wall time at any frame rate.
type Simple struct {
	start, end color.Color
	speed      float64
	angle      float64
}

func NewSimple(ctx Context, speed float64) *Simple {
	return &Simple{
		start: ctx.color(ColorRadarStart, color.RGBA{R: 0xFF, A: 0xFF}),
		end:   ctx.color(ColorRadarEnd, color.Black),
		speed: speed,
	}
}

func (s *Simple) Draw(c render.Canvas, bounds render.Rect, t, rate float64) {
	s.angle += step(s.speed, rate)
	c.FillOval(bounds, sweepShader(bounds, s.start, s.end, s.angle))
}

func (s *Simple) Angle() float64 { return s.angle }

// step is the per-frame rotation for speed degrees per second. A non-positive
// rate does not advance.
func step(speed, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return speed / rate
}
