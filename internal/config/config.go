// Package config holds the watch face settings: a YAML file overlaid on the
// defaults, then UNGESUND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/corebounce/ungesund/internal/gesundlet"
	"github.com/corebounce/ungesund/internal/resources"
	"gopkg.in/yaml.v3"
)

const (
	EnvFace          = "UNGESUND_FACE"
	EnvIntervalMs    = "UNGESUND_INTERVAL_MS"
	EnvFramebuffer   = "UNGESUND_FB"
	EnvLowBitAmbient = "UNGESUND_LOW_BIT"
	EnvSeed          = "UNGESUND_SEED"
	EnvShowCounter   = "UNGESUND_COUNTER"
)

type Display struct {
	Device  string `yaml:"device"` // e.g. /dev/fb0
	Width   int    `yaml:"width"`  // logical canvas size
	Height  int    `yaml:"height"`
	Padding int    `yaml:"padding"`
	Round   bool   `yaml:"round"` // draw the face into the centered square
}

// Buttons names GPIO pins as understood by periph's gpioreg, e.g. "GPIO17".
// Empty names are not watched.
type Buttons struct {
	Visibility string `yaml:"visibility"`
	Ambient    string `yaml:"ambient"`
	NextFace   string `yaml:"next_face"`
}

type Config struct {
	Face       string  `yaml:"face"`        // sweep | radar | simple
	IntervalMs int     `yaml:"interval_ms"` // 0 selects the face default
	Speed      float64 `yaml:"speed"`       // degrees per second, 0 selects the face default
	Blips      int     `yaml:"blips"`
	Seed       uint64  `yaml:"seed"` // 0 uses a random seed

	ShowCounter   bool    `yaml:"show_counter"`
	LowBitAmbient bool    `yaml:"low_bit_ambient"`
	TextSize      float64 `yaml:"text_size"`
	WakeLock      bool    `yaml:"wake_lock"`

	Display Display           `yaml:"display"`
	Buttons Buttons           `yaml:"buttons,omitempty"`
	Colors  map[string]string `yaml:"colors,omitempty"`
}

func Default() *Config {
	return &Config{
		Face:     string(gesundlet.KindRadar),
		Blips:    gesundlet.DefaultBlipCount,
		TextSize: 40,
		WakeLock: true,
		Display: Display{
			Device: "/dev/fb0",
			Width:  320,
			Height: 320,
			Round:  true,
		},
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv overrides fields from UNGESUND_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvFace); v != "" {
		c.Face = v
	}
	if v := os.Getenv(EnvFramebuffer); v != "" {
		c.Display.Device = v
	}
	if raw := os.Getenv(EnvIntervalMs); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer (got %q): %w", EnvIntervalMs, raw, err)
		}
		c.IntervalMs = ms
	}
	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%s must be an unsigned integer (got %q): %w", EnvSeed, raw, err)
		}
		c.Seed = seed
	}
	for env, dst := range map[string]*bool{EnvLowBitAmbient: &c.LowBitAmbient, EnvShowCounter: &c.ShowCounter} {
		raw := os.Getenv(env)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean (got %q): %w", env, raw, err)
		}
		*dst = parsed
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := gesundlet.ParseKind(c.Face); err != nil {
		return err
	}
	if c.IntervalMs < 0 {
		return fmt.Errorf("interval_ms must not be negative (got %d)", c.IntervalMs)
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed must not be negative (got %v)", c.Speed)
	}
	if c.Blips < 0 {
		return fmt.Errorf("blips must not be negative (got %d)", c.Blips)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive (got %dx%d)", c.Display.Width, c.Display.Height)
	}
	if c.Display.Padding < 0 {
		return fmt.Errorf("display padding must not be negative (got %d)", c.Display.Padding)
	}
	if _, err := resources.FromHex(c.Colors); err != nil {
		return err
	}
	return nil
}

// Kind is the configured face; an invalid name falls back to the radar.
func (c *Config) Kind() gesundlet.Kind {
	k, err := gesundlet.ParseKind(c.Face)
	if err != nil {
		return gesundlet.KindRadar
	}
	return k
}

// Interval is the configured redraw interval, or the face default.
func (c *Config) Interval() time.Duration {
	if c.IntervalMs > 0 {
		return time.Duration(c.IntervalMs) * time.Millisecond
	}
	return gesundlet.DefaultInterval(c.Kind())
}

// GesundletOptions translates the animation settings.
func (c *Config) GesundletOptions() []gesundlet.Option {
	opts := []gesundlet.Option{gesundlet.WithBlipCount(c.Blips)}
	if c.Speed > 0 {
		opts = append(opts, gesundlet.WithSpeed(c.Speed))
	}
	if c.Seed != 0 {
		opts = append(opts, gesundlet.WithSource(gesundlet.NewSeededSource(c.Seed)))
	}
	return opts
}

// Palette builds the color resolver from the configured overrides.
func (c *Config) Palette() (*resources.Palette, error) {
	return resources.FromHex(c.Colors)
}
