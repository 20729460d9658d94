// Package normalize converts heterogeneous source records into the canonical
// regulatory event model.  Normalization is fail-soft: a record that cannot
// be classified is logged and skipped, and a record with a missing or
// unparsable date is kept with the analysis time substituted, so one bad feed
// entry never aborts an analysis run.
package normalize

import (
	"context"
	"strings"
	"time"

	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// RawRecord is one untyped record as delivered by a source feed.
type RawRecord map[string]any

// RecordBatch groups the raw records retrieved from a single feed.
type RecordBatch struct {
	Source  string      `json:"source"`
	Records []RawRecord `json:"records"`
}

// RecordSource supplies regulatory record batches for a company.
type RecordSource interface {
	FetchRecords(ctx context.Context, ticker string) ([]RecordBatch, error)
}

// PatentSource supplies the patent portfolio for a company.
type PatentSource interface {
	FetchPatents(ctx context.Context, ticker string) ([]patent.Patent, error)
}

// dateFormats are tried in order against string date fields.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// Normalizer maps raw feed records onto regulatory events.
type Normalizer struct {
	logger logging.Logger
}

// NewNormalizer constructs a Normalizer.
func NewNormalizer(logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Normalizer{logger: logger.Named("normalize")}
}

// Normalize converts every record in the batches into events, preserving
// batch order and record order within each batch.  now is the analysis time
// used as the fallback date.  The returned count is the number of records
// skipped because their type could not be determined.
func (n *Normalizer) Normalize(batches []RecordBatch, now time.Time) ([]regulatory.Event, int) {
	var events []regulatory.Event
	skipped := 0
	for _, batch := range batches {
		for _, rec := range batch.Records {
			ev, ok := n.normalizeOne(batch.Source, rec, now)
			if !ok {
				skipped++
				continue
			}
			events = append(events, ev)
		}
	}
	return events, skipped
}

func (n *Normalizer) normalizeOne(source string, rec RawRecord, now time.Time) (regulatory.Event, bool) {
	kind, ok := classify(rec)
	if !ok {
		n.logger.Warn("skipping unclassifiable record",
			logging.String("source", source),
			logging.Any("record", rec))
		return regulatory.Event{}, false
	}

	ev := regulatory.Event{
		ID:         common.NewID(),
		Kind:       kind,
		Date:       n.parseDate(source, rec, now),
		Descriptor: stringField(rec, "descriptor", "product", "facility", "drug_name"),
		Source:     source,
	}

	switch kind {
	case regulatory.KindWarningLetter, regulatory.KindComplianceAction:
		ev.Status = letterStatus(stringField(rec, "status"))
		ev.Severity = severity(stringField(rec, "severity"))
	case regulatory.KindInspection:
		ev.Classification = classification(stringField(rec, "classification", "result"))
	case regulatory.KindPendingDecision:
		ev.ApplicationType = strings.ToUpper(stringField(rec, "application_type", "submission_type"))
		ev.Indication = stringField(rec, "indication")
		ev.PriorityReview = boolField(rec, "priority_review")
	}
	return ev, true
}

// classify determines the event kind from the record's explicit type field,
// falling back to discriminating keys when the field is absent.
func classify(rec RawRecord) (regulatory.EventKind, bool) {
	switch strings.ToLower(stringField(rec, "type", "record_type", "kind")) {
	case "approval":
		return regulatory.KindApproval, true
	case "warning_letter", "warning letter":
		return regulatory.KindWarningLetter, true
	case "inspection":
		return regulatory.KindInspection, true
	case "pending_decision", "pending decision", "pdufa":
		return regulatory.KindPendingDecision, true
	case "compliance_action", "compliance action":
		return regulatory.KindComplianceAction, true
	}
	if _, ok := rec["pdufa_date"]; ok {
		return regulatory.KindPendingDecision, true
	}
	if _, ok := rec["classification"]; ok {
		return regulatory.KindInspection, true
	}
	if _, ok := rec["approval_date"]; ok {
		return regulatory.KindApproval, true
	}
	return "", false
}

// dateKeys are the field names that may carry the record's date, in priority
// order.  pdufa_date comes before generic date so pending decisions keep
// their decision date even when the feed also stamps a publication date.
var dateKeys = []string{"pdufa_date", "approval_date", "inspection_date", "letter_date", "action_date", "date"}

func (n *Normalizer) parseDate(source string, rec RawRecord, now time.Time) time.Time {
	for _, key := range dateKeys {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case time.Time:
			return v
		case string:
			for _, layout := range dateFormats {
				if t, err := time.Parse(layout, v); err == nil {
					return t
				}
			}
			n.logger.Warn("unparsable record date, using analysis time",
				logging.String("source", source),
				logging.String("field", key),
				logging.String("value", v))
			return now
		}
	}
	return now
}

func stringField(rec RawRecord, keys ...string) string {
	for _, key := range keys {
		if v, ok := rec[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func boolField(rec RawRecord, key string) bool {
	switch v := rec[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	return false
}

func letterStatus(s string) regulatory.LetterStatus {
	switch strings.ToLower(s) {
	case "responded":
		return regulatory.StatusResponded
	case "closed", "resolved":
		return regulatory.StatusClosed
	default:
		return regulatory.StatusOpen
	}
}

func severity(s string) common.Severity {
	switch strings.ToLower(s) {
	case "high":
		return common.SeverityHigh
	case "low":
		return common.SeverityLow
	default:
		return common.SeverityMedium
	}
}

func classification(s string) regulatory.InspectionClassification {
	switch strings.ToUpper(s) {
	case "NAI":
		return regulatory.ClassificationNAI
	case "OAI":
		return regulatory.ClassificationOAI
	default:
		return regulatory.ClassificationVAI
	}
}
