// Package kafka carries the event streaming layer: alert publication and
// raw record ingestion.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/medequity/pharmarisk/pkg/types/common"
)

// Topic names.
const (
	// TopicRecordsIngested carries raw regulatory record batches pushed
	// by upstream collectors; the worker consumes it.
	TopicRecordsIngested = "pharmarisk.records.ingested"

	// TopicAlertGenerated carries alerts produced by analysis runs.
	TopicAlertGenerated = "pharmarisk.alert.generated"
)

// EventEnvelope wraps every message on the wire with routing metadata.
type EventEnvelope struct {
	ID         common.ID       `json:"id"`
	Type       string          `json:"type"`
	Ticker     string          `json:"ticker"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload, serializing it to JSON.
func NewEnvelope(eventType, ticker string, payload interface{}) (EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		ID:         common.NewID(),
		Type:       eventType,
		Ticker:     ticker,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}
