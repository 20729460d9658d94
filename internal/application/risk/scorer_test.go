package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func letter(daysAgo int, status regulatory.LetterStatus) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindWarningLetter, Date: now.AddDate(0, 0, -daysAgo), Status: status}
}

func inspection(daysAgo int, class regulatory.InspectionClassification) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindInspection, Date: now.AddDate(0, 0, -daysAgo), Classification: class}
}

func approval(daysAgo int) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindApproval, Date: now.AddDate(0, 0, -daysAgo)}
}

func pending(daysAhead int) regulatory.Event {
	return regulatory.Event{Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, daysAhead)}
}

func TestWarningLetterRisk(t *testing.T) {
	cases := []struct {
		name   string
		events []regulatory.Event
		want   float64
	}{
		{"none", nil, 0},
		{"one recent", []regulatory.Event{letter(30, regulatory.StatusOpen)}, 25},
		{"three recent", []regulatory.Event{letter(10, ""), letter(100, ""), letter(300, "")}, 75},
		{"five recent caps at 100", []regulatory.Event{letter(1, ""), letter(2, ""), letter(3, ""), letter(4, ""), letter(5, "")}, 100},
		{"old letters ignored", []regulatory.Event{letter(400, "")}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comps := ComputeComponents(Config{}, tc.events, now)
			assert.Equal(t, tc.want, comps.WarningLetterRisk)
		})
	}
}

func TestInspectionRisk(t *testing.T) {
	comps := ComputeComponents(Config{}, nil, now)
	assert.Zero(t, comps.InspectionRisk)

	events := []regulatory.Event{
		inspection(10, regulatory.ClassificationNAI),
		inspection(20, regulatory.ClassificationVAI),
		inspection(30, regulatory.ClassificationOAI),
		inspection(40, regulatory.ClassificationOAI),
	}
	comps = ComputeComponents(Config{}, events, now)
	assert.InDelta(t, 50.0, comps.InspectionRisk, 0.0001)
}

func TestApprovalHistoryRisk(t *testing.T) {
	// Two pending, no recent approvals: deficit of 2.
	events := []regulatory.Event{pending(60), pending(120)}
	comps := ComputeComponents(Config{}, events, now)
	assert.Equal(t, 50.0, comps.ApprovalHistoryRisk)

	// Approvals inside the three-year window offset the pending queue.
	events = append(events, approval(200), approval(700))
	comps = ComputeComponents(Config{}, events, now)
	assert.Zero(t, comps.ApprovalHistoryRisk)

	// Approvals older than the window do not count.
	stale := []regulatory.Event{pending(60), approval(4 * 365)}
	comps = ComputeComponents(Config{}, stale, now)
	assert.Equal(t, 25.0, comps.ApprovalHistoryRisk)
}

func TestComplianceRisk(t *testing.T) {
	events := []regulatory.Event{
		{Kind: regulatory.KindComplianceAction, Date: now, Status: regulatory.StatusOpen},
		{Kind: regulatory.KindComplianceAction, Date: now, Status: regulatory.StatusClosed},
		{Kind: regulatory.KindComplianceAction, Date: now, Status: regulatory.StatusOpen},
	}
	comps := ComputeComponents(Config{}, events, now)
	assert.Equal(t, 40.0, comps.ComplianceRisk)
}

func TestScore_OverallIsMeanOfComponents(t *testing.T) {
	events := []regulatory.Event{
		letter(10, regulatory.StatusOpen),
		letter(20, regulatory.StatusOpen),
		letter(30, regulatory.StatusOpen),
		inspection(40, regulatory.ClassificationOAI),
	}
	a := NewScorer(Config{}).Score("PFE", events, now)

	// Components: letters 75, inspections 100, approvals 0, compliance 0.
	assert.InDelta(t, 43.75, a.OverallScore, 0.0001)
	assert.Equal(t, common.RiskMedium, a.RiskLevel)
	assert.Equal(t, "PFE", a.Ticker)
}

func TestScore_RiskLevelBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  common.RiskLevel
	}{
		{0, common.RiskLow},
		{30, common.RiskLow},
		{30.01, common.RiskMedium},
		{50, common.RiskMedium},
		{50.01, common.RiskHigh},
		{70, common.RiskHigh},
		{70.01, common.RiskVeryHigh},
		{100, common.RiskVeryHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, common.RiskLevelForScore(tc.score), "score %v", tc.score)
	}
}

func TestScore_ConcernsAndMitigations(t *testing.T) {
	events := []regulatory.Event{
		letter(10, regulatory.StatusOpen),
		letter(20, regulatory.StatusOpen),
		letter(30, regulatory.StatusOpen),
		inspection(40, regulatory.ClassificationNAI),
		inspection(50, regulatory.ClassificationOAI),
		pending(60),
	}
	a := NewScorer(Config{}).Score("XYZ", events, now)

	assert.Contains(t, a.KeyConcerns, "3 warning letter(s) issued in the past year")
	assert.Contains(t, a.KeyConcerns, "1 of 2 inspection(s) classified OAI")
	assert.Contains(t, a.KeyConcerns, "1 pending application(s) against 0 approval(s) in the last 3 years")

	// Letters at 75 and inspections at 50 (not above threshold): only the
	// letter mitigation fires.
	assert.Equal(t, []string{"Accelerate remediation of facilities cited in warning letters"}, a.Mitigations)
}

func TestScore_CleanCompany(t *testing.T) {
	a := NewScorer(Config{}).Score("CLEAN", nil, now)
	assert.Zero(t, a.OverallScore)
	assert.Equal(t, common.RiskLow, a.RiskLevel)
	assert.Empty(t, a.KeyConcerns)
	assert.Equal(t, []string{defaultMitigation}, a.Mitigations)
}
