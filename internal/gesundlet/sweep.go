package gesundlet

import (
	"image/color"

	"github.com/corebounce/ungesund/internal/render"
)

// SweepStep is the rotation in degrees added on every draw of the static sweep.
const SweepStep = 4.0

// Sweep is the static sweep: it turns by a fixed step per call, no matter how
// much time has passed.
type Sweep struct {
	start, end color.Color
	angle      float64
}

func NewSweep(ctx Context) *Sweep {
	return &Sweep{
		start: ctx.color(ColorRadarStart, color.RGBA{R: 0xFF, A: 0xFF}),
		end:   ctx.color(ColorRadarEnd, color.Black),
	}
}

func (s *Sweep) Draw(c render.Canvas, bounds render.Rect, t, rate float64) {
	s.angle += SweepStep
	c.FillOval(bounds, sweepShader(bounds, s.start, s.end, s.angle))
}

// Angle is the accumulated rotation in degrees.
func (s *Sweep) Angle() float64 { return s.angle }
