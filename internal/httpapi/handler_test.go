package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tomz197/collisions/internal/server"
)

const frame = `{
	"player": {"id": 1, "position": {"x": 0, "y": 0}, "radius": 1},
	"enemies": [],
	"projectiles": [],
	"orbs": [],
	"chests": [{"id": 5, "position": {"x": 0, "y": 1.5}, "radius": 1}]
}`

func newTestHandler(t *testing.T, maxBytes int) (*Handler, *server.Server) {
	t.Helper()
	srv := server.NewServer(server.Options{MaxSnapshotBytes: maxBytes})
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Run(ctx)
	t.Cleanup(cancel)

	h := NewHandler(srv, maxBytes, log.New(io.Discard))
	t.Cleanup(h.Close)
	return h, srv
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDetect(t *testing.T) {
	h, _ := newTestHandler(t, 1<<16)

	rec := post(h, frame)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"type_a": "Player", "id_a": 1, "type_b": "TreasureChest", "id_b": 5}]`, rec.Body.String())
}

func TestDetect_BadSnapshot(t *testing.T) {
	h, srv := newTestHandler(t, 1<<16)

	rec := post(h, `{"player": {"id": "one"}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	msg := gjson.Get(rec.Body.String(), "error").String()
	assert.Contains(t, msg, "player.id")
	assert.Equal(t, uint64(1), srv.GetStats().Rejected)
}

func TestDetect_TooLarge(t *testing.T) {
	h, _ := newTestHandler(t, 32)

	rec := post(h, frame)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDetect_Closed(t *testing.T) {
	h, srv := newTestHandler(t, 1<<16)
	srv.Shutdown(0)

	rec := post(h, frame)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUsageAndMethods(t *testing.T) {
	h, _ := newTestHandler(t, 1<<16)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/detect")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/detect", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
