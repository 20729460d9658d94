package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medequity/pharmarisk/internal/application/normalize"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/internal/infrastructure/messaging/kafka"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

type fakeStore struct {
	events map[string][]regulatory.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: map[string][]regulatory.Event{}}
}

func (f *fakeStore) SaveEvents(_ context.Context, ticker string, events []regulatory.Event) error {
	f.events[ticker] = events
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, ticker string) ([]regulatory.Event, error) {
	return f.events[ticker], nil
}

func newWorker(store EventStore) *Worker {
	w := NewWorker(store, nil, logging.NewNopLogger())
	w.now = func() time.Time { return now }
	return w
}

func envelope(t *testing.T, ticker string, batch normalize.RecordBatch) kafka.EventEnvelope {
	t.Helper()
	env, err := kafka.NewEnvelope("records.ingested", ticker, batch)
	require.NoError(t, err)
	return env
}

func TestHandle_PersistsNormalizedEvents(t *testing.T) {
	store := newFakeStore()
	w := newWorker(store)

	batch := normalize.RecordBatch{
		Source: "fda",
		Records: []normalize.RawRecord{
			{"type": "approval", "approval_date": "2025-06-01", "drug_name": "Drugol"},
			{"type": "inspection", "inspection_date": "2025-12-01", "classification": "OAI"},
		},
	}
	require.NoError(t, w.Handle(context.Background(), envelope(t, "PFE", batch)))

	events := store.events["PFE"]
	require.Len(t, events, 2)
	assert.Equal(t, regulatory.KindApproval, events[0].Kind)
	assert.Equal(t, regulatory.KindInspection, events[1].Kind)
}

func TestHandle_MergesWithExisting(t *testing.T) {
	store := newFakeStore()
	store.events["PFE"] = []regulatory.Event{
		{Kind: regulatory.KindWarningLetter, Date: now.AddDate(0, -1, 0)},
	}
	w := newWorker(store)

	batch := normalize.RecordBatch{
		Source:  "fda",
		Records: []normalize.RawRecord{{"type": "approval", "approval_date": "2025-06-01"}},
	}
	require.NoError(t, w.Handle(context.Background(), envelope(t, "PFE", batch)))

	require.Len(t, store.events["PFE"], 2)
	assert.Equal(t, regulatory.KindWarningLetter, store.events["PFE"][0].Kind)
}

func TestHandle_MalformedPayloadDropped(t *testing.T) {
	store := newFakeStore()
	w := newWorker(store)

	env := kafka.EventEnvelope{Ticker: "PFE", Type: "records.ingested", Payload: []byte("not json")}
	require.NoError(t, w.Handle(context.Background(), env))
	assert.Empty(t, store.events)
}

func TestHandle_EmptyBatchIsNoop(t *testing.T) {
	store := newFakeStore()
	w := newWorker(store)

	batch := normalize.RecordBatch{Source: "fda", Records: []normalize.RawRecord{{"mystery": true}}}
	require.NoError(t, w.Handle(context.Background(), envelope(t, "PFE", batch)))
	assert.Empty(t, store.events)
}
