package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medequity/pharmarisk/internal/domain/regulatory"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func approval(daysAgo int) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindApproval, Date: now.AddDate(0, 0, -daysAgo)}
}

func pending(daysAhead int, drug string, priority bool) regulatory.Event {
	return regulatory.Event{
		Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, daysAhead),
		Descriptor: drug, ApplicationType: "NDA", PriorityReview: priority,
	}
}

func letter(daysAgo int) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindWarningLetter, Date: now.AddDate(0, 0, -daysAgo)}
}

func oai(daysAgo int) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindInspection, Date: now.AddDate(0, 0, -daysAgo), Classification: regulatory.ClassificationOAI}
}

func nai(daysAgo int) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindInspection, Date: now.AddDate(0, 0, -daysAgo), Classification: regulatory.ClassificationNAI}
}

func TestPredict_StrongTrackRecordWithPriority(t *testing.T) {
	events := []regulatory.Event{
		approval(100), approval(400), approval(800),
		nai(50), nai(150), nai(250), nai(350),
		pending(60, "drug-a", true),
	}
	preds := NewPredictor(Config{}).Predict(events, now)
	require.Len(t, preds, 1)

	// 0.65 + 0.15 strong + 0.10 priority.
	assert.InDelta(t, 0.90, preds[0].Probability, 1e-9)
	assert.Equal(t, TrackRecordStrong, preds[0].TrackRecord)
	// Three signals: >2 recent approvals, strong record, good inspections.
	assert.Equal(t, ConfidenceHigh, preds[0].Confidence)
	assert.Equal(t, []string{
		"Strong recent approval track record",
		"Priority review designation",
		"Good inspection history",
	}, preds[0].PositiveFactors)
	assert.Empty(t, preds[0].RiskFactors)
}

func TestPredict_CeilingClamp(t *testing.T) {
	events := []regulatory.Event{
		approval(10), approval(20), approval(30), approval(40),
		pending(60, "drug-a", true),
	}
	preds := NewPredictor(Config{BaseRate: 0.80}).Predict(events, now)
	require.Len(t, preds, 1)
	// 0.80 + 0.15 + 0.10 = 1.05, clamped.
	assert.Equal(t, 0.95, preds[0].Probability)
}

func TestPredict_FloorClamp(t *testing.T) {
	events := []regulatory.Event{
		letter(30),
		oai(60),
		pending(90, "drug-b", false),
	}
	preds := NewPredictor(Config{BaseRate: 0.35}).Predict(events, now)
	require.Len(t, preds, 1)
	// 0.35 - 0.20 weak - 0.10 recent letter = 0.05, clamped to floor.
	assert.Equal(t, 0.10, preds[0].Probability)
	assert.Equal(t, TrackRecordWeak, preds[0].TrackRecord)
	assert.Equal(t, ConfidenceLow, preds[0].Confidence)
	assert.Equal(t, []string{
		"Weak recent approval track record",
		"Warning letter issued in the past year",
		"Poor inspection history",
	}, preds[0].RiskFactors)
	assert.Empty(t, preds[0].PositiveFactors)
}

func TestPredict_AverageBaseline(t *testing.T) {
	events := []regulatory.Event{
		approval(100),
		pending(60, "drug-c", false),
		pending(120, "drug-d", true),
	}
	preds := NewPredictor(Config{}).Predict(events, now)
	require.Len(t, preds, 2)
	assert.InDelta(t, 0.65, preds[0].Probability, 1e-9)
	assert.InDelta(t, 0.75, preds[1].Probability, 1e-9)
	// Order follows the pending decisions in the stream.
	assert.Equal(t, "drug-c", preds[0].Drug)
	assert.Equal(t, "drug-d", preds[1].Drug)
}

func TestPredict_NoPendingDecisions(t *testing.T) {
	preds := NewPredictor(Config{}).Predict([]regulatory.Event{approval(30)}, now)
	assert.Empty(t, preds)
}

func TestAssessTrackRecord(t *testing.T) {
	// Three recent approvals but an OAI blocks Strong.
	events := []regulatory.Event{approval(10), approval(20), approval(30), oai(40)}
	assert.Equal(t, TrackRecordAverage, AssessTrackRecord(events, now))

	// Stale approvals outside the window plus a letter: Weak.
	events = []regulatory.Event{approval(4 * 365), letter(100)}
	assert.Equal(t, TrackRecordWeak, AssessTrackRecord(events, now))

	// Nothing on record at all: Average, not Weak.
	assert.Equal(t, TrackRecordAverage, AssessTrackRecord(nil, now))
}

func TestAssessInspectionHistory(t *testing.T) {
	assert.Equal(t, InspectionUnknown, AssessInspectionHistory(nil))

	good := []regulatory.Event{nai(1), nai(2), nai(3), oai(4)}
	assert.Equal(t, InspectionGood, AssessInspectionHistory(good))

	poor := []regulatory.Event{nai(1), oai(2), oai(3)}
	assert.Equal(t, InspectionPoor, AssessInspectionHistory(poor))

	average := []regulatory.Event{
		nai(1), nai(2),
		{Kind: regulatory.KindInspection, Date: now.AddDate(0, 0, -3), Classification: regulatory.ClassificationVAI},
		{Kind: regulatory.KindInspection, Date: now.AddDate(0, 0, -4), Classification: regulatory.ClassificationVAI},
	}
	assert.Equal(t, InspectionAverage, AssessInspectionHistory(average))
}
