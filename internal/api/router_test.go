package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rci-backend-go/internal/config"
	"github.com/jengzang/rci-backend-go/internal/database"
)

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	conn, err := database.Open(database.Config{Path: filepath.Join(dir, "rci.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	cfg.SpoolDir = filepath.Join(dir, "spool")
	return SetupRouter(cfg, conn)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t, &config.Config{
		DataSource:   config.SourceStore,
		MaxFileSize:  1024,
		MaxTotalSize: 4096,
	})

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/readings", http.StatusOK},
		{http.MethodGet, "/api/v1/map/grid", http.StatusOK},
		{http.MethodGet, "/api/v1/map/points", http.StatusOK},
		{http.MethodDelete, "/api/v1/readings", http.StatusOK},
		{http.MethodPost, "/api/v1/readings/calculate", http.StatusBadRequest},
		{http.MethodOptions, "/api/v1/merge", http.StatusNoContent},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.code, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouter_HTTPSource(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Ride_Comfort_Index": 3.2, "latitude": -7.8, "longitude": 110.36}]`))
	}))
	defer upstream.Close()

	r := newTestRouter(t, &config.Config{
		DataSource:    config.SourceHTTP,
		DataSourceURL: upstream.URL,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/map/grid", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reading_count":1`)
}
