package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/victornm/compass/internal/api"
)

// Init registers the collectors on the default registry, so it runs once per test binary.
func TestServer_SQLite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := DefaultConfig()
	c.SQLite.Path = filepath.Join(t.TempDir(), "compass.db")
	c.Auth.AdminToken = "admin"

	s, err := Init(c)
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	do := func(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		for k, v := range header {
			req.Header[k] = v
		}
		w := httptest.NewRecorder()
		s.http.Handler.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	answers := make([]int, 28)
	for i := range answers {
		answers[i] = 4
	}
	w = do(http.MethodPost, "/v1/results", map[string]any{"session_id": "s1", "answers": answers}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(http.MethodGet, "/v1/sessions/s1/result", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(http.MethodPost, "/v1/admin/recompute", nil, http.Header{"X-Admin-Token": {"admin"}})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	n, err := s.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s.eb.Stop()
	w = do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "compass_results_submitted_total")
	assert.Contains(t, w.Body.String(), "compass_http_request_duration_seconds")

	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ResultServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestInit_UnknownDriver(t *testing.T) {
	c := DefaultConfig()
	c.Store.Driver = "cassandra"

	_, err := initInfraOnly(c)
	assert.ErrorContains(t, err, `unknown store driver "cassandra"`)
}

func initInfraOnly(c Config) (*Server, error) {
	s := &Server{c: c}
	if err := s.initInfra(); err != nil {
		s.closeInfra()
		return nil, err
	}
	return s, nil
}
