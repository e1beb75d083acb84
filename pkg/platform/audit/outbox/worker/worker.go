package worker

import (
	"context"
	"log/slog"
	"time"

	"kycmint/internal/platform/kafka/producer"
	"kycmint/pkg/platform/audit/outbox"
	"kycmint/pkg/platform/audit/outbox/metrics"
	"kycmint/pkg/platform/circuit"
)

// Publisher is satisfied by producer.Producer and producer.NoopProducer.
type Publisher interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Worker polls the outbox and publishes pending entries.
type Worker struct {
	store        outbox.Store
	publisher    Publisher
	topic        string
	batchSize    int
	pollInterval time.Duration
	retention    time.Duration
	drainTimeout time.Duration
	now          func() time.Time
	metrics      *metrics.Metrics
	logger       *slog.Logger
	breaker      *circuit.Breaker
}

type Option func(*Worker)

func WithTopic(topic string) Option {
	return func(w *Worker) { w.topic = topic }
}

func WithBatchSize(size int) Option {
	return func(w *Worker) { w.batchSize = size }
}

func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) { w.pollInterval = interval }
}

// WithRetention sets how long published entries are kept before pruning.
// Zero disables pruning.
func WithRetention(d time.Duration) Option {
	return func(w *Worker) { w.retention = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) { w.metrics = m }
}

// WithBreaker stops publishing while the broker keeps failing. Entries stay
// pending until the breaker lets a call through again.
func WithBreaker(b *circuit.Breaker) Option {
	return func(w *Worker) { w.breaker = b }
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

func New(store outbox.Store, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{
		store:        store,
		publisher:    publisher,
		topic:        "kycmint.audit.events",
		batchSize:    100,
		pollInterval: 100 * time.Millisecond,
		retention:    24 * time.Hour,
		drainTimeout: 10 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is cancelled, then drains what is left with a short
// detached deadline. It always returns nil so it can sit in an errgroup.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll publishes one batch and returns how many entries were marked processed.
func (w *Worker) Poll(ctx context.Context) int {
	if w.breaker != nil && !w.breaker.Allow() {
		return 0
	}
	entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
	if err != nil {
		w.logError(ctx, "failed to fetch outbox entries", err)
		w.metrics.IncPublishFailures()
		return 0
	}
	if len(entries) == 0 {
		w.refreshDepth(ctx)
		return 0
	}
	w.metrics.ObserveBatchSize(len(entries))

	published := 0
	for _, entry := range entries {
		if w.breaker != nil && !w.breaker.Allow() {
			break
		}
		if err := w.publish(ctx, entry); err != nil {
			w.logError(ctx, "failed to publish outbox entry", err,
				"id", entry.ID, "event_type", entry.EventType)
			w.metrics.IncPublishFailures()
			w.recordPublish(ctx, err)
			// retried on the next poll
			continue
		}
		w.recordPublish(ctx, nil)
		if err := w.store.MarkProcessed(ctx, entry.ID, w.now()); err != nil {
			// Published but not marked: the entry is published again later and
			// consumers dedupe on the entry id key.
			w.logError(ctx, "failed to mark outbox entry processed", err, "id", entry.ID)
			continue
		}
		w.metrics.IncPublished()
		published++
	}
	w.refreshDepth(ctx)
	return published
}

func (w *Worker) publish(ctx context.Context, entry *outbox.Entry) error {
	start := time.Now()
	err := w.publisher.Produce(ctx, &producer.Message{
		Topic: w.topic,
		Key:   []byte(entry.ID.String()),
		Value: entry.Payload,
		Headers: map[string]string{
			"aggregate_type": entry.AggregateType,
			"aggregate_id":   entry.AggregateID,
			"event_type":     entry.EventType,
		},
	})
	if err != nil {
		return err
	}
	w.metrics.ObservePublishDuration(time.Since(start).Seconds())
	return nil
}

// Prune deletes entries published before the retention window.
func (w *Worker) Prune(ctx context.Context) (int64, error) {
	if w.retention <= 0 {
		return 0, nil
	}
	n, err := w.store.DeleteProcessedBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		return 0, err
	}
	w.metrics.AddPruned(n)
	return n, nil
}

func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), w.drainTimeout)
	defer cancel()

	if w.logger != nil {
		w.logger.InfoContext(ctx, "draining outbox worker")
	}
	for ctx.Err() == nil {
		if w.Poll(ctx) == 0 {
			break
		}
	}
	if _, err := w.Prune(ctx); err != nil {
		w.logError(ctx, "failed to prune outbox", err)
	}
}

func (w *Worker) recordPublish(ctx context.Context, err error) {
	if w.breaker == nil {
		return
	}
	if err != nil {
		if w.breaker.RecordFailure() && w.logger != nil {
			w.logger.WarnContext(ctx, "outbox publisher circuit opened", "breaker", w.breaker.Name())
		}
		return
	}
	if w.breaker.RecordSuccess() && w.logger != nil {
		w.logger.InfoContext(ctx, "outbox publisher circuit closed", "breaker", w.breaker.Name())
	}
}

func (w *Worker) refreshDepth(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	if n, err := w.store.CountPending(ctx); err == nil {
		w.metrics.SetPendingDepth(n)
	}
}

func (w *Worker) logError(ctx context.Context, msg string, err error, attrs ...any) {
	if w.logger == nil {
		return
	}
	w.logger.ErrorContext(ctx, msg, append(attrs, "error", err)...)
}
