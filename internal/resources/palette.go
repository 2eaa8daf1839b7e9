// Package resources resolves the symbolic colors used by the watch face.
package resources

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gg"
)

// Default symbolic colors.
var defaults = map[string]string{
	"ungesund_background": "#000000",
	"ungesund_foreground": "#FFFFFF",
	"radar_start":         "#FF0000",
	"radar_end":           "#000000",
}

// Palette maps color ids to colors. Lookups of unknown ids return nil so the
// caller can fall back.
type Palette struct {
	mu     sync.RWMutex
	colors map[string]color.NRGBA
}

// Default returns the built-in palette.
func Default() *Palette {
	p, _ := FromHex(nil)
	return p
}

// FromHex builds a palette from hex strings ("#RGB", "#RRGGBB", "#RRGGBBAA"),
// on top of the defaults.
func FromHex(overrides map[string]string) (*Palette, error) {
	p := &Palette{colors: map[string]color.NRGBA{}}
	for id, hex := range defaults {
		c, _ := ParseHex(hex)
		p.colors[id] = c
	}
	for id, hex := range overrides {
		c, err := ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("color %s: %w", id, err)
		}
		p.colors[id] = c
	}
	return p, nil
}

func (p *Palette) Color(id string) color.Color {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.colors[id]
	if !ok {
		return nil
	}
	return c
}

func (p *Palette) Set(id string, c color.Color) {
	p.mu.Lock()
	p.colors[id] = color.NRGBAModel.Convert(c).(color.NRGBA)
	p.mu.Unlock()
}

// Hex returns the id's color formatted as #RRGGBB or #RRGGBBAA.
func (p *Palette) Hex(id string) (string, bool) {
	p.mu.RLock()
	c, ok := p.colors[id]
	p.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), true
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A), true
}

// IDs lists all known color ids, sorted.
func (p *Palette) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.colors))
	for id := range p.colors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseHex validates and parses a hex color.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
	}
	c := gg.Hex(hex)
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}, nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
