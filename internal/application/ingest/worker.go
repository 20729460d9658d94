// Package ingest processes record batches arriving on the stream and
// persists the normalized results.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medequity/pharmarisk/internal/application/normalize"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/internal/infrastructure/messaging/kafka"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/prometheus"
	"github.com/medequity/pharmarisk/pkg/errors"
)

// EventStore persists normalized events; satisfied by the postgres record
// repository.
type EventStore interface {
	SaveEvents(ctx context.Context, ticker string, events []regulatory.Event) error
	ListEvents(ctx context.Context, ticker string) ([]regulatory.Event, error)
}

// Worker consumes records.ingested envelopes and writes normalized events to
// the store.
type Worker struct {
	normalizer *normalize.Normalizer
	store      EventStore
	metrics    *prometheus.Metrics
	logger     logging.Logger
	now        func() time.Time
}

// NewWorker constructs a Worker.  metrics may be nil.
func NewWorker(store EventStore, metrics *prometheus.Metrics, logger logging.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Worker{
		normalizer: normalize.NewNormalizer(logger),
		store:      store,
		metrics:    metrics,
		logger:     logger.Named("ingest"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one envelope whose payload is a record batch.  The stored
// event set for the ticker grows by merging the new batch with what is
// already persisted, keyed purely by content: existing events are reloaded,
// the batch is normalized, and the union is written back.
func (w *Worker) Handle(ctx context.Context, env kafka.EventEnvelope) error {
	var batch normalize.RecordBatch
	if err := json.Unmarshal(env.Payload, &batch); err != nil {
		// A malformed payload will never succeed on redelivery.  Log and
		// drop rather than wedge the partition.
		w.logger.Warn("dropping malformed batch payload",
			logging.String("ticker", env.Ticker),
			logging.Err(err))
		return nil
	}

	now := w.now()
	events, skipped := w.normalizer.Normalize([]normalize.RecordBatch{batch}, now)
	if w.metrics != nil {
		for _, e := range events {
			w.metrics.RecordsNormalized.WithLabelValues(batch.Source, string(e.Kind)).Inc()
		}
		if skipped > 0 {
			w.metrics.RecordsSkipped.WithLabelValues(batch.Source, "unclassifiable").Add(float64(skipped))
		}
	}
	if len(events) == 0 {
		w.logger.Info("batch contained no usable records",
			logging.String("ticker", env.Ticker),
			logging.Int("skipped", skipped))
		return nil
	}

	existing, err := w.store.ListEvents(ctx, env.Ticker)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "load existing events for %s", env.Ticker)
	}
	merged := append(existing, events...)

	if err := w.store.SaveEvents(ctx, env.Ticker, merged); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "persist events for %s", env.Ticker)
	}
	w.logger.Info("batch ingested",
		logging.String("ticker", env.Ticker),
		logging.String("source", batch.Source),
		logging.Int("events", len(events)),
		logging.Int("skipped", skipped))
	return nil
}
