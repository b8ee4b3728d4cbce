package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/compass/internal/domain"
	"github.com/victornm/compass/internal/event"
	"github.com/victornm/compass/internal/telemetry"
)

func TestMetrics_Subscribe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	eb := event.NewBus()
	m.Subscribe(eb)

	ctx := context.Background()
	eb.Publish(ctx, domain.EventResultSubmitted{Result: domain.Result{DominantType: "cowboy"}})
	eb.Publish(ctx, domain.EventResultSubmitted{Result: domain.Result{DominantType: "cowboy"}})
	eb.Publish(ctx, domain.EventResultSubmitted{Result: domain.Result{DominantType: "all four"}})
	eb.Publish(ctx, domain.EventResultsRecomputed{Patched: 5})
	eb.Stop()

	want := `
# HELP compass_results_submitted_total Number of submitted results by dominant type.
# TYPE compass_results_submitted_total counter
compass_results_submitted_total{dominant_type="all four"} 1
compass_results_submitted_total{dominant_type="cowboy"} 2
# HELP compass_results_recomputed_total Number of results patched by recompute runs.
# TYPE compass_results_recomputed_total counter
compass_results_recomputed_total 5
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"compass_results_submitted_total",
		"compass_results_recomputed_total",
	)
	require.NoError(t, err)
}

func TestMetrics_GinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	e := gin.New()
	e.Use(m.GinMiddleware())
	e.GET("/v1/sessions/:session_id/result", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for _, path := range []string{"/v1/sessions/s1/result", "/v1/sessions/s2/result", "/nowhere"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	n, err := testutil.GatherAndCount(reg, "compass_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "requests should be grouped by route template")
}
