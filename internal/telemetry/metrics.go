package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/victornm/compass/internal/domain"
	"github.com/victornm/compass/internal/event"
)

const namespace = "compass"

// Metrics holds the service collectors, fed by domain events and the HTTP middleware.
type Metrics struct {
	submitted  *prometheus.CounterVec
	recomputed prometheus.Counter
	requests   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		submitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_submitted_total",
			Help:      "Number of submitted results by dominant type.",
		}, []string{"dominant_type"}),

		recomputed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_recomputed_total",
			Help:      "Number of results patched by recompute runs.",
		}),

		requests: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Subscribe feeds the result counters from the event bus.
func (m *Metrics) Subscribe(eb *event.Bus) {
	eb.Subscribe(domain.EventNameResultSubmitted, func(_ context.Context, e event.Event) error {
		m.submitted.WithLabelValues(e.(domain.EventResultSubmitted).Result.DominantType).Inc()
		return nil
	})

	eb.Subscribe(domain.EventNameResultsRecomputed, func(_ context.Context, e event.Event) error {
		m.recomputed.Add(float64(e.(domain.EventResultsRecomputed).Patched))
		return nil
	})
}

// GinMiddleware observes the duration of every request, by route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.requests.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
