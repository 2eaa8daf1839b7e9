// Package rendertest provides a Canvas that records draw calls.
package rendertest

import (
	"image/color"
	"sync"

	"github.com/corebounce/ungesund/internal/render"
)

type OpKind string

const (
	OpRect  OpKind = "rect"
	OpOval  OpKind = "oval"
	OpPoint OpKind = "point"
	OpText  OpKind = "text"
)

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Rect   render.Rect
	Shader render.Shader
	X, Y   float64
	Color  color.Color
	Text   string
	Style  render.TextStyle
}

// Recorder implements render.Canvas by remembering every call.
type Recorder struct {
	W, H int

	mu  sync.Mutex
	ops []Op
}

var _ render.Canvas = (*Recorder)(nil)

func NewRecorder(w, h int) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) FillRect(rect render.Rect, fill color.Color) {
	r.add(Op{Kind: OpRect, Rect: rect, Color: fill})
}

func (r *Recorder) FillOval(rect render.Rect, shader render.Shader) {
	r.add(Op{Kind: OpOval, Rect: rect, Shader: shader})
}

func (r *Recorder) DrawPoint(x, y float64, c color.Color) {
	r.add(Op{Kind: OpPoint, X: x, Y: y, Color: c})
}

func (r *Recorder) DrawText(text string, x, y float64, style render.TextStyle) {
	r.add(Op{Kind: OpText, Text: text, X: x, Y: y, Style: style})
}

func (r *Recorder) add(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Ops returns a copy of the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Filter returns the recorded calls of one kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops() {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}
