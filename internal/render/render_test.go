package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRectGeometry(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 60}
	assert.Equal(t, 100.0, r.Width())
	assert.Equal(t, 40.0, r.Height())
	assert.Equal(t, 60.0, r.CenterX())
	assert.Equal(t, 40.0, r.CenterY())
	assert.False(t, r.Empty())
	assert.True(t, Rect{Left: 5, Right: 5, Bottom: 10}.Empty())

	assert.Equal(t, image.Rect(0, 1, 3, 4), Rect{Left: 0.5, Top: 1.2, Right: 2.1, Bottom: 3.9}.Image())
	assert.Equal(t, Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}, RectFrom(image.Rect(1, 2, 3, 4)))
}

func TestGGCanvasFillRect(t *testing.T) {
	c := NewGGCanvas(40, 40, nil)
	defer c.Close()

	c.FillRect(Rect{Right: 40, Bottom: 40}, color.RGBA{R: 255, A: 255})
	frame := c.Frame()

	require.Equal(t, image.Rect(0, 0, 40, 40), frame.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, frame.RGBAAt(20, 20))
}

func TestGGCanvasFillOvalStaysInsideBounds(t *testing.T) {
	c := NewGGCanvas(100, 100, nil)
	defer c.Close()

	c.FillOval(Rect{Left: 10, Top: 10, Right: 90, Bottom: 90}, &SweepGradient{
		CX:        50,
		CY:        50,
		Colors:    []color.Color{color.Black, color.Black, color.RGBA{R: 255, A: 255}, color.Black},
		Positions: []float64{0, 0.4, 0.99, 1},
	})
	frame := c.Frame()

	assert.Equal(t, uint8(0), frame.RGBAAt(1, 1).A, "corner outside the oval")
	assert.Equal(t, uint8(255), frame.RGBAAt(50, 30).A, "inside the oval")
}

func TestGGCanvasResetClears(t *testing.T) {
	c := NewGGCanvas(10, 10, nil)
	defer c.Close()

	c.FillRect(Rect{Right: 10, Bottom: 10}, color.White)
	c.Reset()
	assert.Equal(t, uint8(0), c.Frame().RGBAAt(5, 5).A)
}

func TestGGCanvasIgnoresTextWithoutRenderer(t *testing.T) {
	c := NewGGCanvas(10, 10, nil)
	defer c.Close()

	c.DrawText("12:00", 5, 5, TextStyle{})
	assert.Empty(t, c.labels)
}

func TestToBrush(t *testing.T) {
	assert.Nil(t, toBrush(nil))
	assert.Nil(t, toBrush(&SweepGradient{}))
	assert.NotNil(t, toBrush(Solid{Color: color.White}))
	assert.NotNil(t, toBrush(&SweepGradient{Colors: []color.Color{color.White}}))
}

func TestTextRendererDrawsGlyphs(t *testing.T) {
	tr := NewTextRenderer(goregular.TTF, nil)
	img := image.NewRGBA(image.Rect(0, 0, 200, 80))

	tr.Draw(img, "12:34", 100, 60, TextStyle{Size: 40, Align: TextAlignCenter, Color: color.White})

	assert.True(t, countOpaque(img) > 0)
	assert.True(t, tr.Measure("12:34", 40) > tr.Measure("1", 40))
}

func TestTextRendererAliasedIsOneBit(t *testing.T) {
	tr := NewTextRenderer(goregular.TTF, nil)
	img := image.NewRGBA(image.Rect(0, 0, 200, 80))

	tr.Draw(img, "8:88", 10, 60, TextStyle{Size: 40, Aliased: true})

	for i := 3; i < len(img.Pix); i += 4 {
		a := img.Pix[i]
		require.True(t, a == 0 || a == 255, "alpha %d at %d", a, i)
	}
	assert.True(t, countOpaque(img) > 0)
}

func TestTextRendererFallsBackWithoutFont(t *testing.T) {
	tr := NewTextRenderer(nil, nil)
	img := image.NewRGBA(image.Rect(0, 0, 100, 40))

	tr.Draw(img, "10:10", 0, 20, TextStyle{})
	assert.True(t, countOpaque(img) > 0)
}

func TestScaleIntoCompositesOverBlack(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	scaleInto(dst, src)

	assert.Equal(t, color.RGBA{G: 255, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(3, 3))
}

func TestFBRendererPresentBeforeStart(t *testing.T) {
	r := NewFBRenderer("")
	assert.ErrorIs(t, r.Present(image.NewRGBA(image.Rect(0, 0, 1, 1))), ErrNotStarted)
	assert.NoError(t, r.Stop())
}

func TestQRCodePNG(t *testing.T) {
	_, err := QRCodePNG("", 0)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	png, err := QRCodePNG("http://watch.local:8080/", 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func countOpaque(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}
