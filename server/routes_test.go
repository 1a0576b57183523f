package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/RemoteState/secondlife-server/dbHelpers"
	"github.com/RemoteState/secondlife-server/handlers"
	"github.com/RemoteState/secondlife-server/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	storage, err := media.NewLocalStorage(dir, "http://localhost:5000")
	require.NoError(t, err)

	h := handlers.New(dbHelpers.NewMemoryStore(), storage, "test")
	return SetupRoutes(h, Options{AllowedOrigins: []string{"http://localhost:3000"}, UploadsDir: dir}), dir
}

func TestSetupRoutes_health(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSetupRoutes_notFound(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	for _, tc := range []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/unknown"},
		{http.MethodGet, "/nothing/here?x=1"},
		{http.MethodPut, "/api/items"},
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))

		require.Equal(t, http.StatusNotFound, rec.Code, tc.target)
		var body struct {
			Success         bool     `json:"success"`
			Message         string   `json:"message"`
			AvailableRoutes []string `json:"availableRoutes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Route "+tc.target+" not found", body.Message)
		assert.Contains(t, body.AvailableRoutes, "GET /api/items")
		assert.Contains(t, body.AvailableRoutes, "PATCH /api/items/:id/like")
	}
}

func TestSetupRoutes_servesUploads(t *testing.T) {
	t.Parallel()
	srv, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png"), 0o644))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/photo.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestSetupRoutes_doesNotListUploads(t *testing.T) {
	t.Parallel()
	srv, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	for _, target := range []string{"/uploads/", "/uploads/nested/", "/uploads/nested"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "photo.png", target)
	}
}

func TestHTTPServer(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	hs := srv.HTTPServer(":5000")
	assert.Equal(t, ":5000", hs.Addr)
	assert.Equal(t, readTimeout, hs.ReadTimeout)
}
