package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the outbox worker. A nil *Metrics is a no-op.
type Metrics struct {
	PendingDepth    prometheus.Gauge
	PublishedTotal  prometheus.Counter
	PublishFailures prometheus.Counter
	PublishDuration prometheus.Histogram
	BatchSize       prometheus.Histogram
	PrunedTotal     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		PendingDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kycmint_outbox_pending_total",
			Help: "Current number of unpublished outbox entries",
		}),
		PublishedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycmint_outbox_published_total",
			Help: "Outbox entries published to Kafka",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycmint_outbox_publish_failures_total",
			Help: "Failed outbox fetches or publishes",
		}),
		PublishDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycmint_outbox_publish_duration_seconds",
			Help:    "Time taken to publish one outbox entry",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycmint_outbox_batch_size",
			Help:    "Entries fetched per poll",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		PrunedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycmint_outbox_pruned_total",
			Help: "Published entries removed by retention",
		}),
	}
}

func (m *Metrics) SetPendingDepth(count int64) {
	if m == nil {
		return
	}
	m.PendingDepth.Set(float64(count))
}

func (m *Metrics) IncPublished() {
	if m == nil {
		return
	}
	m.PublishedTotal.Inc()
}

func (m *Metrics) IncPublishFailures() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
}

func (m *Metrics) ObservePublishDuration(seconds float64) {
	if m == nil {
		return
	}
	m.PublishDuration.Observe(seconds)
}

func (m *Metrics) ObserveBatchSize(size int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
}

func (m *Metrics) AddPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.PrunedTotal.Add(float64(n))
}
