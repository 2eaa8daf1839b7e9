package gesundlet

import (
	"image/color"
	"math"
	"testing"

	"github.com/corebounce/ungesund/internal/render"
	"github.com/corebounce/ungesund/internal/render/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = render.Rect{Left: 0, Top: 0, Right: 320, Bottom: 200}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

type palette map[string]color.Color

func (p palette) Color(id string) color.Color { return p[id] }

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Radar ")
	require.NoError(t, err)
	assert.Equal(t, KindRadar, k)

	_, err = ParseKind("analog")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(Kind("analog"), Context{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, int64(500), DefaultInterval(KindSweep).Milliseconds())
	assert.Equal(t, int64(20), DefaultInterval(KindRadar).Milliseconds())
	assert.Equal(t, int64(20), DefaultInterval(KindSimple).Milliseconds())
}

func TestSweepCoversBoundsRegardlessOfTime(t *testing.T) {
	g, err := New(KindSweep, Context{Bounds: bounds})
	require.NoError(t, err)
	rec := rendertest.NewRecorder(320, 200)

	for _, elapsed := range []float64{0, 0.5, 1000, -3} {
		g.Draw(rec, bounds, elapsed, 2)
	}

	ovals := rec.Filter(rendertest.OpOval)
	require.Len(t, ovals, 4)
	for i, op := range ovals {
		assert.Equal(t, bounds, op.Rect)
		sg, ok := op.Shader.(*render.SweepGradient)
		require.True(t, ok)
		assert.Equal(t, float64(i+1)*SweepStep, sg.Rotation)
		assert.Equal(t, bounds.CenterX(), sg.CX)
		assert.Equal(t, bounds.CenterY(), sg.CY)
	}
}

func TestSweepGradientStops(t *testing.T) {
	start := color.RGBA{G: 0xFF, A: 0xFF}
	end := color.RGBA{B: 0x40, A: 0xFF}
	g := NewSweep(Context{Colors: palette{ColorRadarStart: start, ColorRadarEnd: end}})
	rec := rendertest.NewRecorder(320, 200)

	g.Draw(rec, bounds, 0, 2)

	sg := rec.Filter(rendertest.OpOval)[0].Shader.(*render.SweepGradient)
	assert.Equal(t, []color.Color{end, end, start, end}, sg.Colors)
	assert.Equal(t, []float64{0, 0.4, 0.99, 1}, sg.Positions)
}

func TestDefaultColorsWithoutResolver(t *testing.T) {
	g := NewSweep(Context{Colors: palette{}})
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, g.start)
	assert.Equal(t, color.Color(color.Black), g.end)
}

func TestSpeedIsFrameRateInvariant(t *testing.T) {
	for _, rate := range []float64{1, 2, 24, 50, 60.5, 1000} {
		radar, err := New(KindRadar, Context{}, WithBlipCount(0))
		require.NoError(t, err)
		simple, err := New(KindSimple, Context{})
		require.NoError(t, err)
		rec := rendertest.NewRecorder(320, 200)

		radar.Draw(rec, bounds, 0, rate)
		simple.Draw(rec, bounds, 0, rate)

		assert.InDelta(t, RadarSpeed, radar.(*Radar).Angle()*rate, 1e-9, "rate %v", rate)
		assert.InDelta(t, SweepSpeed, simple.(*Simple).Angle()*rate, 1e-9, "rate %v", rate)
	}
}

func TestRateRoundTripFromInterval(t *testing.T) {
	for _, intervalMs := range []float64{20, 33, 500, 1000} {
		rate := 1000 / intervalMs
		g, err := New(KindSimple, Context{}, WithSpeed(45))
		require.NoError(t, err)
		rec := rendertest.NewRecorder(1, 1)

		frames := int(rate * 4)
		for i := 0; i < frames; i++ {
			g.Draw(rec, bounds, 0, rate)
		}
		perSecond := g.(*Simple).Angle() / float64(frames) * rate
		assert.InDelta(t, 45.0, perSecond, 1e-9)
	}
}

func TestZeroRateDoesNotAdvance(t *testing.T) {
	g := NewSimple(Context{}, SweepSpeed)
	g.Draw(rendertest.NewRecorder(1, 1), bounds, 0, 0)
	assert.Equal(t, 0.0, g.Angle())
}

func TestIntensity(t *testing.T) {
	assert.InDelta(t, 255.0, Intensity(10, 10), 1e-9)
	assert.InDelta(t, 155.0, Intensity(190, 10), 1e-9)
	assert.InDelta(t, 255.0-200.0/360, Intensity(0, 359), 1e-9)
	assert.InDelta(t, 255.0-200.0/360, Intensity(721, 0), 1e-9)
	assert.InDelta(t, 55.0+200.0/360, Intensity(9, 10), 1e-9)
}

func TestBlipPerturbedAfterSweepPasses(t *testing.T) {
	g, err := New(KindRadar, Context{},
		WithBlips(Blip{Alpha: 10, Radius: 0.5}),
		WithSource(constSource(0.5)),
		WithSpeed(11))
	require.NoError(t, err)
	radar := g.(*Radar)
	rec := rendertest.NewRecorder(320, 200)

	radar.Draw(rec, bounds, 0, 1)

	assert.Equal(t, 11.0, radar.Angle())
	blip := radar.Blips()[0]
	assert.InDelta(t, 15.0, blip.Alpha, 1e-9)
	assert.InDelta(t, 0.55, blip.Radius, 1e-9)
}

func TestJumpedBlipKeepsPreJumpIntensity(t *testing.T) {
	g, err := New(KindRadar, Context{},
		WithBlips(Blip{Alpha: 10, Radius: 0.5}),
		WithSource(constSource(0.5)),
		WithSpeed(11))
	require.NoError(t, err)
	rec := rendertest.NewRecorder(320, 200)

	g.Draw(rec, bounds, 0, 1)

	points := rec.Filter(rendertest.OpPoint)
	require.Len(t, points, 1)
	rad := 15.0 * math.Pi / 180
	assert.InDelta(t, 160+math.Cos(rad)*0.55*160, points[0].X, 1e-9)
	assert.InDelta(t, 100+math.Sin(rad)*0.55*100, points[0].Y, 1e-9)

	c := points[0].Color.(color.NRGBA)
	assert.Equal(t, uint8(Intensity(11, 10)), c.A)
	assert.Equal(t, uint8(254), c.A)
}

func TestBlipUntouchedBeforeSweepArrives(t *testing.T) {
	g, err := New(KindRadar, Context{},
		WithBlips(Blip{Alpha: 10, Radius: 0.5}),
		WithSource(constSource(0.5)),
		WithSpeed(5))
	require.NoError(t, err)
	radar := g.(*Radar)

	radar.Draw(rendertest.NewRecorder(320, 200), bounds, 0, 1)

	assert.Equal(t, Blip{Alpha: 10, Radius: 0.5}, radar.Blips()[0])
}

func TestBlipRadiusStaysClamped(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 42} {
		g, err := New(KindRadar, Context{},
			WithSource(NewSeededSource(seed)),
			WithSteps(AlphaStep, 0.5))
		require.NoError(t, err)
		radar := g.(*Radar)
		rec := rendertest.NewRecorder(1, 1)

		for i := 0; i < 5000; i++ {
			radar.Draw(rec, bounds, 0, 50)
			for _, b := range radar.Blips() {
				require.GreaterOrEqual(t, b.Radius, 0.0)
				require.LessOrEqual(t, b.Radius, 1.0)
			}
		}
		rec.Reset()
	}
}

func TestBlipPerturbationIsBounded(t *testing.T) {
	g, err := New(KindRadar, Context{}, WithSource(NewSeededSource(7)))
	require.NoError(t, err)
	radar := g.(*Radar)
	rec := rendertest.NewRecorder(1, 1)

	prev := radar.Blips()
	for i := 0; i < 1000; i++ {
		radar.Draw(rec, bounds, 0, 50)
		next := radar.Blips()
		for j := range next {
			assert.LessOrEqual(t, abs(next[j].Alpha-prev[j].Alpha), AlphaStep)
			assert.LessOrEqual(t, abs(next[j].Radius-prev[j].Radius), RadiusStep+1e-12)
		}
		prev = next
	}
}

func TestRadarDrawsBlipsAsPoints(t *testing.T) {
	start := color.RGBA{R: 0xFF, A: 0xFF}
	g, err := New(KindRadar, Context{Colors: palette{ColorRadarStart: start}},
		WithBlips(Blip{Alpha: 0, Radius: 1}, Blip{Alpha: 90, Radius: 0.5}),
		WithSource(constSource(0.5)),
		WithSpeed(180))
	require.NoError(t, err)
	rec := rendertest.NewRecorder(320, 200)

	g.Draw(rec, bounds, 0, 1)

	points := rec.Filter(rendertest.OpPoint)
	require.Len(t, points, 2)

	// angle 180: blip at 0 is half a turn behind the sweep.
	assert.InDelta(t, 320.0, points[0].X, 1e-9)
	assert.InDelta(t, 100.0, points[0].Y, 1e-9)
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 155}, points[0].Color)

	// blip at 90 with half radius on a 320x200 ellipse.
	assert.InDelta(t, 160.0, points[1].X, 1e-9)
	assert.InDelta(t, 150.0, points[1].Y, 1e-9)
	assert.Equal(t, uint8(205), points[1].Color.(color.NRGBA).A)
}

func TestRadarPlacesDefaultBlips(t *testing.T) {
	g, err := New(KindRadar, Context{}, WithSource(NewSeededSource(1)))
	require.NoError(t, err)
	blips := g.(*Radar).Blips()
	require.Len(t, blips, DefaultBlipCount)
	for _, b := range blips {
		assert.True(t, b.Alpha >= 0 && b.Alpha < 360)
		assert.True(t, b.Radius >= 0 && b.Radius <= 1)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
