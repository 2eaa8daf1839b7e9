package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// flickerToggles is the number of visibility flips of the flicker scenario.
// It ends visible.
const flickerToggles = 6

// SimFaults makes the simulated display misbehave.
type SimFaults struct {
	PresentFail    bool `json:"presentFail"`
	PresentDelayMs int  `json:"presentDelayMs"`
}

// faceControl is the part of the app the simulator drives.
type faceControl interface {
	SetVisible(visible bool)
	SetAmbient(ambient bool)
}

type SimControl struct {
	processCtx      context.Context
	face            faceControl
	display         *simDisplay
	startupScenario string
	currentScenario atomic.Value // string
}

func NewSimControl(processCtx context.Context, face faceControl, display *simDisplay, startupScenario string) *SimControl {
	if processCtx == nil {
		processCtx = context.Background()
	}
	if display == nil {
		display = &simDisplay{}
	}
	c := &SimControl{processCtx: processCtx, face: face, display: display, startupScenario: strings.TrimSpace(startupScenario)}
	if c.startupScenario == "" {
		c.startupScenario = "visible"
	}
	c.currentScenario.Store(c.startupScenario)
	return c
}

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	switch name {
	case "visible":
		c.face.SetAmbient(false)
		c.face.SetVisible(true)
	case "hidden":
		c.face.SetVisible(false)
	case "ambient":
		c.face.SetVisible(true)
		c.face.SetAmbient(true)
	case "flicker":
		c.face.SetAmbient(false)
		for i := 0; i < flickerToggles; i++ {
			c.face.SetVisible(i%2 == 1)
		}
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
	c.currentScenario.Store(name)
	return nil
}

func (c *SimControl) Reset() error {
	c.display.SetFaults(SimFaults{})
	return c.ApplyScenario(c.startupScenario)
}

// simDisplay stands in for the framebuffer behind the frame hub.
type simDisplay struct {
	mu     sync.RWMutex
	faults SimFaults
	frames atomic.Uint64
}

var errSimulatedPresent = errors.New("simulated present failure")

func (d *simDisplay) Start(ctx context.Context) error { return nil }
func (d *simDisplay) Stop() error                     { return nil }

func (d *simDisplay) Present(frame *image.RGBA) error {
	faults := d.Faults()
	if faults.PresentDelayMs > 0 {
		time.Sleep(time.Duration(faults.PresentDelayMs) * time.Millisecond)
	}
	if faults.PresentFail {
		return errSimulatedPresent
	}
	d.frames.Add(1)
	return nil
}

func (d *simDisplay) Faults() SimFaults {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.faults
}

func (d *simDisplay) SetFaults(v SimFaults) {
	d.mu.Lock()
	d.faults = v
	d.mu.Unlock()
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.currentScenario.Load()})
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/sim/scenario/")
		name = strings.Trim(name, "/")
		if err := control.ApplyScenario(name); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.currentScenario.Load()})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.display.Faults())
			return
		case http.MethodPost:
			var patch struct {
				PresentFail    *bool `json:"presentFail"`
				PresentDelayMs *int  `json:"presentDelayMs"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.display.Faults()
			if patch.PresentFail != nil {
				current.PresentFail = *patch.PresentFail
			}
			if patch.PresentDelayMs != nil {
				current.PresentDelayMs = max(0, *patch.PresentDelayMs)
			}
			control.display.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
			return
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
