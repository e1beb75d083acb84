package request

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Responses       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kycmint_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds, labeled by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Responses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_http_responses_total",
			Help: "HTTP responses, labeled by route pattern and status code",
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ObserveEndpointLatency(route string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(route).Observe(durationSeconds)
}

func (m *Metrics) IncResponse(route string, status int) {
	m.Responses.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// LatencyMiddleware records latency and status per chi route pattern, so
// path parameters such as credential ids do not explode label cardinality.
func LatencyMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			if m == nil {
				return
			}
			route := routePattern(r)
			m.ObserveEndpointLatency(route, time.Since(start).Seconds())
			m.IncResponse(route, wrapped.statusCode)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
