package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const textDPI = 72

type textLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// TextRenderer rasterizes strings onto an RGBA frame. Glyphs are drawn with
// freetype into an alpha mask, metrics come from an opentype face of the same font.
// When the font cannot be parsed it falls back to basicfont.
type TextRenderer struct {
	ttFont *truetype.Font
	otFont *opentype.Font
	faces  map[float64]font.Face
	Logger textLogger
}

// NewTextRenderer parses fontData (TTF/OTF). A nil or broken font still yields a usable
// renderer backed by basicfont.Face7x13.
func NewTextRenderer(fontData []byte, logger textLogger) *TextRenderer {
	tr := &TextRenderer{faces: map[float64]font.Face{}, Logger: logger}
	if len(fontData) == 0 {
		tr.errorf("no font data, using basicfont")
		return tr
	}
	if ot, err := opentype.Parse(fontData); err != nil {
		tr.errorf("font parse failed, using basicfont: %v", err)
	} else {
		tr.otFont = ot
	}
	if tt, err := truetype.Parse(fontData); err != nil {
		tr.errorf("truetype parse failed: %v", err)
	} else {
		tr.ttFont = tt
	}
	if tr.otFont != nil && tr.ttFont != nil && tr.Logger != nil {
		tr.Logger.Infof("text", "font loaded for freetype rendering")
	}
	return tr
}

// face returns a cached metrics face for size.
func (tr *TextRenderer) face(size float64) font.Face {
	if tr.otFont == nil {
		return basicfont.Face7x13
	}
	if f, ok := tr.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(tr.otFont, &opentype.FaceOptions{Size: size, DPI: textDPI, Hinting: font.HintingFull})
	if err != nil {
		tr.errorf("font face create failed, using basicfont: %v", err)
		return basicfont.Face7x13
	}
	tr.faces[size] = f
	return f
}

// Measure returns the advance width of text in pixels.
func (tr *TextRenderer) Measure(text string, size float64) int {
	return font.MeasureString(tr.face(sizeOrDefault(size)), text).Ceil()
}

// Draw renders text with its baseline at y. X is interpreted according to style.Align.
func (tr *TextRenderer) Draw(dst *image.RGBA, text string, x, y float64, style TextStyle) {
	if text == "" {
		return
	}
	size := sizeOrDefault(style.Size)
	width := tr.Measure(text, size)
	startX := int(x)
	switch style.Align {
	case TextAlignCenter:
		startX -= width / 2
	case TextAlignRight:
		startX -= width
	}

	mask := image.NewAlpha(dst.Bounds())
	if tr.ttFont != nil {
		ctx := freetype.NewContext()
		ctx.SetDPI(textDPI)
		ctx.SetFont(tr.ttFont)
		ctx.SetFontSize(size)
		ctx.SetClip(mask.Bounds())
		ctx.SetDst(mask)
		ctx.SetSrc(image.Opaque)
		ctx.SetHinting(font.HintingFull)
		if _, err := ctx.DrawString(text, freetype.Pt(startX, int(y))); err != nil {
			tr.errorf("draw string failed: %v", err)
			return
		}
	} else {
		drawer := &font.Drawer{Dst: mask, Src: image.Opaque, Face: tr.face(size)}
		drawer.Dot = fixed.P(startX, int(y))
		drawer.DrawString(text)
	}
	if style.Aliased {
		threshold(mask)
	}

	fg := style.Color
	if fg == nil {
		fg = color.White
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(fg), image.Point{}, mask, dst.Bounds().Min, draw.Over)
}

// threshold turns an anti-aliased coverage mask into a 1-bit one.
func threshold(mask *image.Alpha) {
	for i, a := range mask.Pix {
		if a >= 0x80 {
			mask.Pix[i] = 0xFF
		} else {
			mask.Pix[i] = 0
		}
	}
}

func sizeOrDefault(size float64) float64 {
	if size <= 0 {
		return DefaultTextSize
	}
	return size
}

func (tr *TextRenderer) errorf(format string, args ...interface{}) {
	if tr.Logger != nil {
		tr.Logger.Errorf("text", format, args...)
	}
}
