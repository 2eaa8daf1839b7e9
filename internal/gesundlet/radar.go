package gesundlet

import (
	"image/color"
	"math"

	"github.com/corebounce/ungesund/internal/render"
)

const (
	// RadarSpeed is the default sweep speed in degrees per second.
	RadarSpeed = 90.0
	// DefaultBlipCount is the number of blips placed when none are given.
	DefaultBlipCount = 12
	// AlphaStep is the maximum angular jitter in degrees applied to a revisited blip.
	AlphaStep = 10.0
	// RadiusStep is the maximum radial jitter applied to a revisited blip.
	RadiusStep = 0.1

	// Blip trace: full brightness right behind the sweep, fading by
	// intensityRange over one turn. Values above PerturbThreshold mean the
	// sweep has just passed the blip.
	maxIntensity     = 255.0
	intensityRange   = 200.0
	PerturbThreshold = 253.0
)

// Blip is a radar contact in polar coordinates. Alpha is in degrees,
// Radius is relative to the half extents of the bounds.
type Blip struct {
	Alpha  float64
	Radius float64
}

// Radar rotates the sweep at a fixed angular speed and animates a set of
// blips that jump a little each time the sweep passes over them.
//
// The rotation angle is accumulated without wrapping. A rotated sweep looks the
// same at a+360, and the float only loses precision after years of uptime.
type Radar struct {
	start, end color.Color
	speed      float64
	alphaStep  float64
	radiusStep float64
	src        Source

	angle float64
	blips []Blip
}

func newRadar(ctx Context, o options) *Radar {
	r := &Radar{
		start:      ctx.color(ColorRadarStart, color.RGBA{R: 0xFF, A: 0xFF}),
		end:        ctx.color(ColorRadarEnd, color.Black),
		speed:      o.speed,
		alphaStep:  o.alphaStep,
		radiusStep: o.radiusStep,
		src:        o.src,
		blips:      o.blips,
	}
	if r.blips == nil {
		r.blips = make([]Blip, max(0, o.blipCount))
		for i := range r.blips {
			r.blips[i] = Blip{Alpha: r.src.Float64() * 360, Radius: r.src.Float64()}
		}
	}
	for i := range r.blips {
		r.blips[i].Radius = clamp01(r.blips[i].Radius)
	}
	return r
}

func (r *Radar) Draw(c render.Canvas, bounds render.Rect, t, rate float64) {
	r.angle += step(r.speed, rate)
	c.FillOval(bounds, sweepShader(bounds, r.start, r.end, r.angle))

	halfW, halfH := bounds.Width()/2, bounds.Height()/2
	cx, cy := bounds.CenterX(), bounds.CenterY()
	base := color.NRGBAModel.Convert(r.start).(color.NRGBA)
	for i := range r.blips {
		b := &r.blips[i]
		// The point is drawn where the blip jumped to, lit with the intensity
		// it had before the jump.
		intensity := Intensity(r.angle, b.Alpha)
		if intensity > PerturbThreshold {
			r.perturb(b)
		}
		rad := b.Alpha * math.Pi / 180
		x := cx + math.Cos(rad)*b.Radius*halfW
		y := cy + math.Sin(rad)*b.Radius*halfH
		c.DrawPoint(x, y, color.NRGBA{R: base.R, G: base.G, B: base.B, A: uint8(intensity)})
	}
}

func (r *Radar) perturb(b *Blip) {
	sign := 1.0
	if r.src.Float64() < 0.5 {
		sign = -1
	}
	b.Alpha += sign * r.src.Float64() * r.alphaStep
	b.Radius = clamp01(b.Radius + sign*r.src.Float64()*r.radiusStep)
}

// Angle is the accumulated sweep rotation in degrees.
func (r *Radar) Angle() float64 { return r.angle }

// Blips returns a copy of the current blips.
func (r *Radar) Blips() []Blip { return append([]Blip(nil), r.blips...) }

// Intensity is the brightness of a blip at alpha when the sweep is at angle:
// 255 right after the sweep passed, down to 55 just before it arrives.
func Intensity(angle, alpha float64) float64 {
	return maxIntensity - mod360(angle-alpha)/360*intensityRange
}

// mod360 normalizes to [0,360).
func mod360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 {
		m = 0
	}
	return m
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
