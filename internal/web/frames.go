package web

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/corebounce/ungesund/internal/render"
)

const frameWriteTimeout = 2 * time.Second

// FrameHub is a render.Display that keeps the latest frame as PNG and streams
// every presented frame to websocket clients.
type FrameHub struct {
	mu      sync.RWMutex
	png     []byte
	frames  uint64
	clients map[*websocket.Conn]chan []byte

	// Next, when set, also receives every frame (e.g. the framebuffer).
	Next render.Display
}

var _ render.Display = (*FrameHub)(nil)

func NewFrameHub(next render.Display) *FrameHub {
	return &FrameHub{Next: next, clients: map[*websocket.Conn]chan []byte{}}
}

func (h *FrameHub) Start(ctx context.Context) error {
	if h.Next != nil {
		return h.Next.Start(ctx)
	}
	return nil
}

func (h *FrameHub) Stop() error {
	h.mu.Lock()
	for conn, ch := range h.clients {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	if h.Next != nil {
		return h.Next.Stop()
	}
	return nil
}

func (h *FrameHub) Present(frame *image.RGBA) error {
	if frame == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return err
	}
	data := buf.Bytes()

	h.mu.Lock()
	h.png = data
	h.frames++
	for _, ch := range h.clients {
		// Slow clients skip frames.
		select {
		case ch <- data:
		default:
		}
	}
	h.mu.Unlock()

	if h.Next != nil {
		return h.Next.Present(frame)
	}
	return nil
}

// Latest returns the last presented frame encoded as PNG, or nil.
func (h *FrameHub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.png
}

func (h *FrameHub) Frames() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frames
}

func (h *FrameHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleFramesWS upgrades the request and streams PNG frames as binary messages.
func (h *FrameHub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := make(chan []byte, 1)
	h.mu.Lock()
	h.clients[conn] = ch
	if h.png != nil {
		ch <- h.png
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[conn]; ok {
			delete(h.clients, conn)
			close(ch)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}
