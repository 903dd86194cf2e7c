// Package httpapi exposes the frame server over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/tidwall/sjson"
	"github.com/tomz197/collisions/internal/server"
	"github.com/tomz197/collisions/internal/wire"
)

const usage = `POST a frame snapshot to /detect:

  {"player": {"id": 0, "position": {"x": 0, "y": 0}, "radius": 1},
   "enemies": [], "projectiles": [], "orbs": [], "chests": []}

The response is a JSON array of {"type_a", "id_a", "type_b", "id_b"} events.
`

// Handler serves /detect for a single server client shared by all requests.
type Handler struct {
	srv      server.FrameServer
	clientID int
	maxBytes int64
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewHandler registers an HTTP client with srv and returns the handler.
// Call Close to unregister it.
func NewHandler(srv server.FrameServer, maxBytes int, logger *log.Logger) *Handler {
	h := &Handler{
		srv:      srv,
		clientID: srv.RegisterClient("http").ID,
		maxBytes: int64(maxBytes),
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.serveUsage)
	h.mux.HandleFunc("POST /detect", h.serveDetect)
	return h
}

// Close unregisters the handler's client.
func (h *Handler) Close() {
	h.srv.UnregisterClient(h.clientID)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveUsage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, usage)
}

func (h *Handler) serveDetect(w http.ResponseWriter, r *http.Request) {
	// Read one byte past the limit so oversize bodies reach the server check.
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.srv.Detect(r.Context(), h.clientID, body)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("detect failed", "remote", r.RemoteAddr, "err", err)
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wire.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, server.ErrSnapshotTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, server.ErrServerClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	body, _ := sjson.SetBytes([]byte("{}"), "error", err.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
