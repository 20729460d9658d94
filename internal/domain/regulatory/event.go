// Package regulatory defines the canonical regulatory event model.  All
// heterogeneous source records (FDA approvals, warning letters, facility
// inspections, pending PDUFA decisions, compliance actions) are normalized
// into Event values before any scoring runs; downstream components never see
// raw records and may assume every Event carries a concrete date.
package regulatory

import (
	"time"

	"github.com/medequity/pharmarisk/pkg/types/common"
)

// EventKind discriminates the regulatory event variants.
type EventKind string

const (
	KindApproval         EventKind = "approval"
	KindWarningLetter    EventKind = "warning_letter"
	KindInspection       EventKind = "inspection"
	KindPendingDecision  EventKind = "pending_decision"
	KindComplianceAction EventKind = "compliance_action"
)

// InspectionClassification is the FDA district decision for an inspection.
type InspectionClassification string

const (
	// ClassificationNAI — No Action Indicated.
	ClassificationNAI InspectionClassification = "NAI"
	// ClassificationVAI — Voluntary Action Indicated.
	ClassificationVAI InspectionClassification = "VAI"
	// ClassificationOAI — Official Action Indicated, the adverse outcome
	// that drives inspection risk.
	ClassificationOAI InspectionClassification = "OAI"
)

// LetterStatus tracks the lifecycle of a warning letter or compliance action.
type LetterStatus string

const (
	StatusOpen      LetterStatus = "Open"
	StatusResponded LetterStatus = "Responded"
	StatusClosed    LetterStatus = "Closed"
)

// Event is the canonical point-in-time regulatory record.  The variant
// fields beyond the common set are meaningful only for the matching Kind and
// are zero otherwise.
type Event struct {
	ID   common.ID `json:"id"`
	Kind EventKind `json:"kind"`

	// Date is always a concrete calendar date.  The normalizer substitutes
	// the analysis time when a source record's date is missing or
	// unparsable, so no downstream aggregation needs a nil check.
	Date time.Time `json:"date"`

	// Descriptor is the free-text facility or product identification from
	// the source record.
	Descriptor string `json:"descriptor"`

	// Source labels the originating feed ("fda", "ema", ...).
	Source string `json:"source"`

	// Warning letters and compliance actions.
	Status   LetterStatus    `json:"status,omitempty"`
	Severity common.Severity `json:"severity,omitempty"`

	// Inspections.
	Classification InspectionClassification `json:"classification,omitempty"`

	// Pending decisions.
	ApplicationType string `json:"application_type,omitempty"` // NDA | BLA | ANDA
	Indication      string `json:"indication,omitempty"`
	PriorityReview  bool   `json:"priority_review,omitempty"`
}

// DaysUntil returns the whole days from now until the event date; negative
// when the date is in the past.
func (e Event) DaysUntil(now time.Time) int {
	return int(e.Date.Sub(now).Hours() / 24)
}

// WithinTrailingDays reports whether the event date falls inside the
// trailing window [now-days, now].
func (e Event) WithinTrailingDays(now time.Time, days int) bool {
	if e.Date.After(now) {
		return false
	}
	return now.Sub(e.Date).Hours() <= float64(days)*24
}

// ByKind returns the subset of events with the given kind, preserving input
// order.
func ByKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CountWithinTrailingDays counts events of the given kind inside the
// trailing window.
func CountWithinTrailingDays(events []Event, kind EventKind, now time.Time, days int) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind && e.WithinTrailingDays(now, days) {
			n++
		}
	}
	return n
}
