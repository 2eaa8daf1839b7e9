package buttons

import (
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const defaultDebounce = 150 * time.Millisecond

// GPIOButtons watches active-low push buttons wired between a GPIO pin and
// ground. Pins maps each event to a pin name understood by gpioreg.
type GPIOButtons struct {
	Pins     map[Event]string
	Debounce time.Duration
	Logger   logger

	// Lookup resolves pin names; nil initializes periph's host drivers and
	// uses gpioreg.ByName.
	Lookup func(name string) gpio.PinIO

	ch     chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGPIOButtons(pins map[Event]string, l logger) *GPIOButtons {
	return &GPIOButtons{Pins: pins, Logger: l, ch: make(chan Event, 4)}
}

func (b *GPIOButtons) Start(ctx context.Context) error {
	if b.ch == nil {
		b.ch = make(chan Event, 4)
	}
	lookup := b.Lookup
	if lookup == nil {
		if _, err := host.Init(); err != nil {
			return fmt.Errorf("periph host init: %w", err)
		}
		lookup = gpioreg.ByName
	}
	debounce := b.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	pins := map[Event]gpio.PinIO{}
	for ev, name := range b.Pins {
		if name == "" {
			continue
		}
		p := lookup(name)
		if p == nil {
			return fmt.Errorf("gpio pin %s not found", name)
		}
		if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return fmt.Errorf("gpio %s input: %w", name, err)
		}
		pins[ev] = p
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	for ev, p := range pins {
		b.wg.Add(1)
		go b.watch(ctx, ev, p, debounce)
		if b.Logger != nil {
			b.Logger.Infof("buttons", "watching %s for %s", p.Name(), ev)
		}
	}
	return nil
}

func (b *GPIOButtons) watch(ctx context.Context, ev Event, p gpio.PinIO, debounce time.Duration) {
	defer b.wg.Done()
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !p.WaitForEdge(100 * time.Millisecond) {
			continue
		}
		if p.Read() != gpio.Low {
			continue
		}
		now := time.Now()
		if now.Sub(last) < debounce {
			continue
		}
		last = now
		select {
		case b.ch <- ev:
		default:
			if b.Logger != nil {
				b.Logger.Errorf("buttons", "dropped %s: queue full", ev)
			}
		}
	}
}

func (b *GPIOButtons) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	return nil
}

func (b *GPIOButtons) Events() <-chan Event { return b.ch }
