package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
)

// GGCanvas is an offscreen Canvas rasterized by gg's software renderer.
// Text is rasterized separately and composited on top when the frame is taken.
type GGCanvas struct {
	dc     *gg.Context
	text   *TextRenderer
	labels []label
}

type label struct {
	text  string
	x, y  float64
	style TextStyle
}

var _ Canvas = (*GGCanvas)(nil)

// NewGGCanvas allocates a width x height canvas. text may be nil, in which case
// DrawText is ignored.
func NewGGCanvas(width, height int, text *TextRenderer) *GGCanvas {
	return &GGCanvas{dc: gg.NewContext(width, height), text: text}
}

func (c *GGCanvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

// Reset clears the canvas to transparent and drops pending text.
func (c *GGCanvas) Reset() {
	c.dc.Clear()
	c.dc.ClearPath()
	c.labels = c.labels[:0]
}

func (c *GGCanvas) FillRect(rect Rect, fill color.Color) {
	c.dc.SetFillBrush(gg.Solid(toRGBA(fill)))
	c.dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	_ = c.dc.Fill()
}

func (c *GGCanvas) FillOval(rect Rect, shader Shader) {
	if rect.Empty() {
		return
	}
	brush := toBrush(shader)
	if brush == nil {
		return
	}
	c.dc.SetFillBrush(brush)
	c.dc.DrawEllipse(rect.CenterX(), rect.CenterY(), rect.Width()/2, rect.Height()/2)
	_ = c.dc.Fill()
}

func (c *GGCanvas) DrawPoint(x, y float64, col color.Color) {
	c.dc.SetFillBrush(gg.Solid(toRGBA(col)))
	c.dc.DrawPoint(x, y, PointRadius)
	_ = c.dc.Fill()
}

func (c *GGCanvas) DrawText(text string, x, y float64, style TextStyle) {
	if c.text == nil {
		return
	}
	c.labels = append(c.labels, label{text: text, x: x, y: y, style: style})
}

// Frame returns the rendered frame as a fresh RGBA image.
func (c *GGCanvas) Frame() *image.RGBA {
	_ = c.dc.FlushGPU()
	img, ok := c.dc.Image().(*image.RGBA)
	if !ok {
		src := c.dc.Image()
		img = image.NewRGBA(src.Bounds())
		draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	}
	for _, l := range c.labels {
		c.text.Draw(img, l.text, l.x, l.y, l.style)
	}
	return img
}

// Close releases the gg context.
func (c *GGCanvas) Close() error { return c.dc.Close() }

func toBrush(shader Shader) gg.Brush {
	switch s := shader.(type) {
	case Solid:
		return gg.Solid(toRGBA(s.Color))
	case *SweepGradient:
		if s == nil || len(s.Colors) == 0 {
			return nil
		}
		brush := gg.NewSweepGradientBrush(s.CX, s.CY, s.Rotation*math.Pi/180)
		for i, col := range s.Colors {
			pos := float64(i) / float64(max(1, len(s.Colors)-1))
			if i < len(s.Positions) {
				pos = s.Positions[i]
			}
			brush.AddColorStop(pos, toRGBA(col))
		}
		return brush
	default:
		return nil
	}
}

// toRGBA converts to gg's straight-alpha float color.
func toRGBA(c color.Color) gg.RGBA {
	if c == nil {
		return gg.Transparent
	}
	if n, ok := c.(color.NRGBA); ok {
		return gg.RGBA2(float64(n.R)/255, float64(n.G)/255, float64(n.B)/255, float64(n.A)/255)
	}
	return gg.FromColor(c).Unpremultiply()
}
