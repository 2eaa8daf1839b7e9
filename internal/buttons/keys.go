package buttons

import (
	"context"

	"github.com/corebounce/ungesund/internal/system"
)

// DefaultKeys maps keyboard keys to events for benches without GPIO buttons.
var DefaultKeys = map[uint16]Event{
	system.KeySpace: ToggleVisibility,
	system.KeyA:     ToggleAmbient,
	system.KeyN:     NextFace,
	system.KeyF4:    Exit,
}

// KeyButtons reads key presses from evdev devices.
type KeyButtons struct {
	Keys   map[uint16]Event
	Logger logger

	ch chan Event
}

func NewKeyButtons(l logger) *KeyButtons {
	return &KeyButtons{Keys: DefaultKeys, Logger: l, ch: make(chan Event, 4)}
}

func (k *KeyButtons) Start(ctx context.Context) error {
	codes := make([]uint16, 0, len(k.Keys))
	for code := range k.Keys {
		codes = append(codes, code)
	}
	system.StartKeyWatch(ctx, k.Logger, codes, k.press)
	return nil
}

func (k *KeyButtons) press(code uint16) {
	ev, ok := k.Keys[code]
	if !ok {
		return
	}
	select {
	case k.ch <- ev:
	default:
	}
}

func (k *KeyButtons) Stop() error          { return nil }
func (k *KeyButtons) Events() <-chan Event { return k.ch }
