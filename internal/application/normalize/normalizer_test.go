package normalize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func TestNormalize_AllKinds(t *testing.T) {
	n := NewNormalizer(logging.NewNopLogger())
	batches := []RecordBatch{{
		Source: "fda",
		Records: []RawRecord{
			{"type": "approval", "approval_date": "2025-06-01", "drug_name": "Drugol"},
			{"type": "warning_letter", "letter_date": "2025/11/20", "facility": "Plant A", "status": "Open", "severity": "High"},
			{"type": "inspection", "inspection_date": "12/01/2025", "facility": "Plant B", "classification": "OAI"},
			{"type": "pending_decision", "pdufa_date": "2026-03-01", "application_type": "nda", "priority_review": true},
			{"type": "compliance_action", "action_date": "2025-10-05", "status": "Responded"},
		},
	}}

	events, skipped := n.Normalize(batches, now)
	require.Len(t, events, 5)
	assert.Zero(t, skipped)

	assert.Equal(t, regulatory.KindApproval, events[0].Kind)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, "Drugol", events[0].Descriptor)

	letter := events[1]
	assert.Equal(t, regulatory.StatusOpen, letter.Status)
	assert.Equal(t, common.SeverityHigh, letter.Severity)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), letter.Date)

	insp := events[2]
	assert.Equal(t, regulatory.ClassificationOAI, insp.Classification)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), insp.Date)

	pending := events[3]
	assert.Equal(t, "NDA", pending.ApplicationType)
	assert.True(t, pending.PriorityReview)

	assert.Equal(t, regulatory.StatusResponded, events[4].Status)
}

func TestNormalize_FailSoft(t *testing.T) {
	n := NewNormalizer(nil)
	batches := []RecordBatch{{
		Source: "fda",
		Records: []RawRecord{
			{"mystery": "no type at all"},
			{"type": "approval", "approval_date": "not-a-date"},
			{"type": "inspection"},
		},
	}}

	events, skipped := n.Normalize(batches, now)
	require.Len(t, events, 2)
	assert.Equal(t, 1, skipped)

	// Unparsable and missing dates fall back to the analysis time.
	assert.Equal(t, now, events[0].Date)
	assert.Equal(t, now, events[1].Date)
}

func TestNormalize_ClassifyByDiscriminatingKey(t *testing.T) {
	n := NewNormalizer(nil)
	batches := []RecordBatch{{
		Source: "ema",
		Records: []RawRecord{
			{"pdufa_date": "2026-02-10"},
			{"classification": "NAI", "inspection_date": "2025-09-09"},
			{"approval_date": "2025-01-01"},
		},
	}}

	events, skipped := n.Normalize(batches, now)
	require.Len(t, events, 3)
	assert.Zero(t, skipped)
	assert.Equal(t, regulatory.KindPendingDecision, events[0].Kind)
	assert.Equal(t, regulatory.KindInspection, events[1].Kind)
	assert.Equal(t, regulatory.KindApproval, events[2].Kind)
}

func TestNormalize_PreservesOrderAcrossBatches(t *testing.T) {
	n := NewNormalizer(nil)
	batches := []RecordBatch{
		{Source: "fda", Records: []RawRecord{{"type": "approval", "drug_name": "first"}}},
		{Source: "ema", Records: []RawRecord{{"type": "approval", "drug_name": "second"}}},
	}
	events, _ := n.Normalize(batches, now)
	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Descriptor)
	assert.Equal(t, "fda", events[0].Source)
	assert.Equal(t, "second", events[1].Descriptor)
	assert.Equal(t, "ema", events[1].Source)
}

func TestSyntheticSource_Deterministic(t *testing.T) {
	src := &SyntheticSource{Anchor: now}
	ctx := context.Background()

	a, err := src.FetchRecords(ctx, "PFE")
	require.NoError(t, err)
	b, err := src.FetchRecords(ctx, "PFE")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := src.FetchRecords(ctx, "MRK")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	p1, err := src.FetchPatents(ctx, "PFE")
	require.NoError(t, err)
	p2, err := src.FetchPatents(ctx, "PFE")
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	for _, p := range p1 {
		assert.NoError(t, p.Validate())
	}
}
