package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"
)

// DefaultFramebuffer is the device opened when FBRenderer.Device is empty.
const DefaultFramebuffer = "/dev/fb0"

// ErrNotStarted is returned by Present before Start succeeded.
var ErrNotStarted = errors.New("framebuffer not started")

// FBRenderer presents frames on the Linux framebuffer. Frames are composited over
// black and nearest-neighbor scaled to the device resolution.
type FBRenderer struct {
	Device string
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
	Debug bool

	mu      sync.Mutex
	fbDev   *fb.Device
	scratch *image.RGBA
	frames  uint64
}

var _ Display = (*FBRenderer)(nil)

func NewFBRenderer(device string) *FBRenderer { return &FBRenderer{Device: device} }

func (r *FBRenderer) Start(ctx context.Context) error {
	path := r.Device
	if path == "" {
		path = DefaultFramebuffer
	}
	dev, err := fb.Open(path)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", path, err)
	}
	r.mu.Lock()
	r.fbDev = dev
	r.scratch = image.NewRGBA(dev.Bounds())
	r.mu.Unlock()
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", path, bounds.Dx(), bounds.Dy())
	}
	return nil
}

func (r *FBRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

func (r *FBRenderer) Present(frame *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev == nil {
		return ErrNotStarted
	}
	if frame == nil {
		return nil
	}
	scaleInto(r.scratch, frame)
	draw.Draw(r.fbDev, r.fbDev.Bounds(), r.scratch, r.scratch.Bounds().Min, draw.Src)
	r.frames++
	if r.Debug && r.Logger != nil && r.frames%100 == 0 {
		r.Logger.Infof("fb", "presented %d frames", r.frames)
	}
	return nil
}

// scaleInto fills dst with black and scales src over it.
func scaleInto(dst *image.RGBA, src image.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if src.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
}
