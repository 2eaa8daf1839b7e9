package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/corebounce/ungesund/internal/assets"
	"github.com/corebounce/ungesund/internal/state"
)

type APIV1Config struct {
	Control Control
	Store   *state.Store
	Frames  *FrameHub

	// PreviewURL is encoded by /link.png when the store has no network URL.
	PreviewURL string
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg)))
}

// RegisterFrames exposes the live frame stream at /ws/frames.
func RegisterFrames(mux *http.ServeMux, frames *FrameHub) {
	if frames == nil {
		return
	}
	mux.HandleFunc("/ws/frames", frames.HandleFramesWS)
}

// RegisterUI serves either embedded UI assets or a directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux used by both the device and simulator:
// - /api/v1/* for the API
// - /ws/frames for the live preview
// - / for the web UI
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterFrames(mux, cfg.Frames)
	RegisterUI(mux, staticDir)
	return mux
}

// StaticUIHandler serves staticDir when it is an existing directory and the
// embedded preview page when staticDir is empty.
func StaticUIHandler(staticDir string) http.Handler {
	var fileServer http.Handler
	if staticDir == "" {
		fileServer = http.FileServer(http.FS(assets.WebUI))
	} else {
		if st, err := os.Stat(staticDir); err != nil || !st.IsDir() {
			return http.HandlerFunc(http.NotFound)
		}
		fileServer = http.FileServer(http.Dir(staticDir))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid parent directory traversal.
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		fileServer.ServeHTTP(w, r)
	})
}
