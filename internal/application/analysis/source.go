package analysis

import (
	"context"
	"time"

	"github.com/medequity/pharmarisk/internal/application/normalize"
	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/pkg/errors"
)

// EventSource supplies the normalized event stream for a company.  Two
// implementations exist: a feed source that normalizes raw batches on the
// fly, and a store source that reads events the ingest worker already
// persisted.
type EventSource interface {
	FetchEvents(ctx context.Context, ticker string, now time.Time) ([]regulatory.Event, error)
}

type feedSource struct {
	records    normalize.RecordSource
	normalizer *normalize.Normalizer
	logger     logging.Logger
}

// NewFeedEventSource wraps a raw record source with normalization.
func NewFeedEventSource(records normalize.RecordSource, logger logging.Logger) EventSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &feedSource{
		records:    records,
		normalizer: normalize.NewNormalizer(logger),
		logger:     logger.Named("feed"),
	}
}

func (s *feedSource) FetchEvents(ctx context.Context, ticker string, now time.Time) ([]regulatory.Event, error) {
	batches, err := s.records.FetchRecords(ctx, ticker)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "fetch records for %s", ticker)
	}
	events, skipped := s.normalizer.Normalize(batches, now)
	if skipped > 0 {
		s.logger.Warn("records skipped during normalization",
			logging.String("ticker", ticker),
			logging.Int("skipped", skipped))
	}
	return events, nil
}

// EventLister is the read side of the persisted event store.
type EventLister interface {
	ListEvents(ctx context.Context, ticker string) ([]regulatory.Event, error)
}

type storeSource struct {
	store EventLister
}

// NewStoreEventSource reads events the ingest worker persisted.
func NewStoreEventSource(store EventLister) EventSource {
	return &storeSource{store: store}
}

func (s *storeSource) FetchEvents(ctx context.Context, ticker string, _ time.Time) ([]regulatory.Event, error) {
	return s.store.ListEvents(ctx, ticker)
}

// PatentLister is the read side of the persisted patent store.
type PatentLister interface {
	ListPatents(ctx context.Context, ticker string) ([]patent.Patent, error)
}

type storePatentSource struct {
	store PatentLister
}

// NewStorePatentSource adapts the patent store to the source contract.
func NewStorePatentSource(store PatentLister) normalize.PatentSource {
	return &storePatentSource{store: store}
}

func (s *storePatentSource) FetchPatents(ctx context.Context, ticker string) ([]patent.Patent, error) {
	return s.store.ListPatents(ctx, ticker)
}
