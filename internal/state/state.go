package state

import (
	"sync"
	"time"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	STOPPED
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case STOPPED:
		return "stopped"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

type FaceInfo struct {
	Kind       string
	IntervalMs int64
	Visible    bool
	Ambient    bool
	Frames     uint64
	LastFrame  time.Time
}

type NetworkInfo struct {
	URL string
}

type State struct {
	Phase   Phase
	Face    FaceInfo
	Network NetworkInfo
	Err     string
}

// Store is the snapshot of the running face shared with the web API.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) UpdateFace(face FaceInfo) {
	store.mu.Lock()
	store.state.Face = face
	store.mu.Unlock()
}

// RecordFrame bumps the frame counters after a present.
func (store *Store) RecordFrame(frames uint64, at time.Time) {
	store.mu.Lock()
	store.state.Face.Frames = frames
	store.state.Face.LastFrame = at
	store.mu.Unlock()
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}

// Fail moves to ERROR and records err.
func (store *Store) Fail(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}
