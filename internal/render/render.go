package render

import (
	"context"
	"image"
	"image/color"
	"math"
)

// Display receives finished frames. It is the only place pixels leave the process.
type Display interface {
	Start(ctx context.Context) error
	Stop() error
	Present(frame *image.RGBA) error
}

// NoopDisplay discards frames.
type NoopDisplay struct{}

func (NoopDisplay) Start(ctx context.Context) error  { return nil }
func (NoopDisplay) Stop() error                      { return nil }
func (NoopDisplay) Present(frame *image.RGBA) error { return nil }

// Canvas is what a watch face draws into. Implementations own the pixels;
// callers only emit primitives.
type Canvas interface {
	// Size returns the logical canvas size in pixels.
	Size() (width int, height int)

	FillRect(rect Rect, fill color.Color)
	FillOval(rect Rect, shader Shader)
	DrawPoint(x, y float64, c color.Color)
	DrawText(text string, x, y float64, style TextStyle)
}

// Rect is a float rectangle in canvas coordinates.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectFrom converts an integer rectangle.
func RectFrom(r image.Rectangle) Rect {
	return Rect{Left: float64(r.Min.X), Top: float64(r.Min.Y), Right: float64(r.Max.X), Bottom: float64(r.Max.Y)}
}

func (r Rect) Width() float64   { return r.Right - r.Left }
func (r Rect) Height() float64  { return r.Bottom - r.Top }
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Image rounds the rectangle outwards to pixel coordinates.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(math.Floor(r.Left)), int(math.Floor(r.Top)), int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom)))
}

// Shader describes how a filled shape is colored.
type Shader interface {
	isShader()
}

// Solid fills with a single color.
type Solid struct {
	Color color.Color
}

func (Solid) isShader() {}

// SweepGradient is an angular gradient around (CX, CY).
// Positions are in [0,1] along one full turn starting at Rotation degrees.
type SweepGradient struct {
	CX, CY    float64
	Colors    []color.Color
	Positions []float64
	Rotation  float64 // degrees
}

func (*SweepGradient) isShader() {}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
// Y is the baseline; Align controls how X is interpreted.
type TextStyle struct {
	Color color.Color
	Size  float64 // points; 0 means renderer default
	Align TextAlign
	// Aliased disables anti-aliasing (low-bit ambient displays).
	Aliased bool
}
