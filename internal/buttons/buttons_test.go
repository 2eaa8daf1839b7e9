package buttons

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestGPIOButtonsEmitOnFallingEdge(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17", EdgesChan: make(chan gpio.Level)}
	b := NewGPIOButtons(map[Event]string{ToggleVisibility: "GPIO17"}, nil)
	b.Debounce = time.Millisecond
	b.Lookup = func(name string) gpio.PinIO {
		if name == "GPIO17" {
			return pin
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Start(ctx))

	pin.EdgesChan <- gpio.High
	pin.EdgesChan <- gpio.Low

	select {
	case ev := <-b.Events():
		assert.Equal(t, ToggleVisibility, ev)
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}
	select {
	case ev := <-b.Events():
		t.Fatalf("unexpected event %s", ev)
	default:
	}
	assert.NoError(t, b.Stop())
}

func TestGPIOButtonsUnknownPin(t *testing.T) {
	b := NewGPIOButtons(map[Event]string{Exit: "GPIO99", NextFace: ""}, nil)
	b.Lookup = func(string) gpio.PinIO { return nil }
	assert.Error(t, b.Start(context.Background()))
}

func TestKeyButtonsMapsCodes(t *testing.T) {
	k := NewKeyButtons(nil)
	k.press(62)
	k.press(1) // ESC is not mapped
	assert.Equal(t, Exit, <-k.Events())
	assert.Len(t, k.Events(), 0)
}

type chanButtons struct{ ch chan Event }

func (c chanButtons) Start(context.Context) error { return nil }
func (c chanButtons) Stop() error                 { return nil }
func (c chanButtons) Events() <-chan Event        { return c.ch }

func TestMultiMergesSources(t *testing.T) {
	a := chanButtons{ch: make(chan Event, 1)}
	b := chanButtons{ch: make(chan Event, 1)}
	m := NewMulti(a, b, NewNoopButtons())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Start(ctx))

	a.ch <- NextFace
	b.ch <- Exit

	got := map[Event]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-m.Events():
			got[ev] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timeout")
		}
	}
	assert.Equal(t, map[Event]bool{NextFace: true, Exit: true}, got)
	assert.NoError(t, m.Stop())
}
