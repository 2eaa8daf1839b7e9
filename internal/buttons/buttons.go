// Package buttons turns hardware inputs into watch face events.
package buttons

import "context"

type Event string

const (
	ToggleVisibility Event = "visibility"
	ToggleAmbient    Event = "ambient"
	NextFace         Event = "next_face"
	Exit             Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// Multi merges several button sources into one event stream.
type Multi struct {
	sources []Buttons
	ch      chan Event
}

func NewMulti(sources ...Buttons) *Multi {
	return &Multi{sources: sources, ch: make(chan Event, 8)}
}

func (m *Multi) Start(ctx context.Context) error {
	for _, s := range m.sources {
		if err := s.Start(ctx); err != nil {
			return err
		}
		go func(events <-chan Event) {
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-events:
					select {
					case m.ch <- ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}(s.Events())
	}
	return nil
}

func (m *Multi) Stop() error {
	var first error
	for _, s := range m.sources {
		if err := s.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) Events() <-chan Event { return m.ch }
