package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrief/skybrief/internal/config"
	"github.com/skybrief/skybrief/pkg/logger"
)

func TestNormalizeICAO(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"KLAX", "KLAX", true},
		{"klax", "KLAX", true},
		{" cyyz ", "CYYZ", true},
		{"K1G5", "K1G5", true},
		{"", "", false},
		{"LAX", "", false},
		{"KLAXX", "", false},
		{"KL-X", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeICAO(tt.in)
		assert.Equal(t, tt.valid, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStaticFileHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>map</html>"), 0644))

	h := NewStaticFileHandler(dir, logger.NewNop())

	t.Run("serves index for root", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "map")
		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("missing file is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope.js", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/assets/app.js", nil)
		req.URL.Path = "/../../etc/passwd"
		h.ServeHTTP(rec, req)
		assert.NotEqual(t, http.StatusOK, rec.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}

	rt := &Router{config: cfg, logger: logger.NewNop()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rt.corsMiddleware(next)

	t.Run("allowed origin echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/advisories", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/advisories", nil)
		req.Header.Set("Origin", "http://evil.example")
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/briefing/generate", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
