package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/corebounce/ungesund/internal/gesundlet"
	"github.com/corebounce/ungesund/internal/render"
	"github.com/corebounce/ungesund/internal/state"
)

const (
	maxRequestBytes = 4 << 10
	linkQRSizePx    = 256
)

// Control is the part of the app the API may drive.
type Control interface {
	SetVisible(visible bool)
	SetAmbient(ambient bool)
	SetFace(kind gesundlet.Kind) error
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type statusResponse struct {
	Phase      string `json:"phase"`
	Face       string `json:"face"`
	IntervalMs int64  `json:"intervalMs"`
	Visible    bool   `json:"visible"`
	Ambient    bool   `json:"ambient"`
	Frames     uint64 `json:"frames"`
	LastFrame  string `json:"lastFrame,omitempty"`
	URL        string `json:"url,omitempty"`
	Error      string `json:"error,omitempty"`
}

type facesResponse struct {
	Faces   []string `json:"faces"`
	Current string   `json:"current"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

type ambientRequest struct {
	Ambient *bool `json:"ambient"`
}

type faceRequest struct {
	Face string `json:"face"`
}

func apiV1Router(cfg APIV1Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, cfg.Store) })
	mux.HandleFunc("/visibility", func(w http.ResponseWriter, r *http.Request) { handleVisibility(w, r, cfg.Control) })
	mux.HandleFunc("/ambient", func(w http.ResponseWriter, r *http.Request) { handleAmbient(w, r, cfg.Control) })
	mux.HandleFunc("/faces", func(w http.ResponseWriter, r *http.Request) { handleFaces(w, r, cfg.Store) })
	mux.HandleFunc("/face", func(w http.ResponseWriter, r *http.Request) { handleFace(w, r, cfg.Control) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, cfg.Frames) })
	mux.HandleFunc("/link.png", func(w http.ResponseWriter, r *http.Request) { handleLink(w, r, cfg) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, store *state.Store) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if store == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "status not configured")
		return
	}
	snap := store.Snapshot()
	resp := statusResponse{
		Phase:      snap.Phase.String(),
		Face:       snap.Face.Kind,
		IntervalMs: snap.Face.IntervalMs,
		Visible:    snap.Face.Visible,
		Ambient:    snap.Face.Ambient,
		Frames:     snap.Face.Frames,
		URL:        snap.Network.URL,
		Error:      snap.Err,
	}
	if !snap.Face.LastFrame.IsZero() {
		resp.LastFrame = snap.Face.LastFrame.UTC().Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleVisibility(w http.ResponseWriter, r *http.Request, control Control) {
	if !requireControl(w, r, control) {
		return
	}
	var req visibilityRequest
	if err := decodeBody(r, &req); err != nil || req.Visible == nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", `expected {"visible": bool}`)
		return
	}
	control.SetVisible(*req.Visible)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleAmbient(w http.ResponseWriter, r *http.Request, control Control) {
	if !requireControl(w, r, control) {
		return
	}
	var req ambientRequest
	if err := decodeBody(r, &req); err != nil || req.Ambient == nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", `expected {"ambient": bool}`)
		return
	}
	control.SetAmbient(*req.Ambient)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleFaces(w http.ResponseWriter, r *http.Request, store *state.Store) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	resp := facesResponse{Faces: []string{}}
	for _, kind := range gesundlet.Kinds() {
		resp.Faces = append(resp.Faces, string(kind))
	}
	if store != nil {
		resp.Current = store.Snapshot().Face.Kind
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleFace(w http.ResponseWriter, r *http.Request, control Control) {
	if !requireControl(w, r, control) {
		return
	}
	var req faceRequest
	if err := decodeBody(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", `expected {"face": string}`)
		return
	}
	kind, err := gesundlet.ParseKind(req.Face)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "unknown_face", err.Error())
		return
	}
	if err := control.SetFace(kind); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "face_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleFrame(w http.ResponseWriter, r *http.Request, frames *FrameHub) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var data []byte
	if frames != nil {
		data = frames.Latest()
	}
	if data == nil {
		writeAPIError(w, http.StatusNotFound, "no_frame", "no frame presented yet")
		return
	}
	writePNG(w, data)
}

func handleLink(w http.ResponseWriter, r *http.Request, cfg APIV1Config) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	url := cfg.PreviewURL
	if cfg.Store != nil {
		if u := cfg.Store.Snapshot().Network.URL; u != "" {
			url = u
		}
	}
	data, err := render.QRCodePNG(url, linkQRSizePx)
	if errors.Is(err, render.ErrEmptyPayload) {
		writeAPIError(w, http.StatusNotFound, "no_url", "preview url unknown")
		return
	}
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	writePNG(w, data)
}

func requireControl(w http.ResponseWriter, r *http.Request, control Control) bool {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return false
	}
	if control == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "control not configured")
		return false
	}
	return true
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
