package risk

import (
	"fmt"
	"time"

	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// mitigationThreshold is the component score above which a targeted
// mitigation is recommended instead of the baseline advice.
const mitigationThreshold = 50

// defaultMitigation is returned when no component crosses the threshold.
const defaultMitigation = "Maintain current regulatory compliance standards"

// Assessment is the composite regulatory risk result for one company.
type Assessment struct {
	Ticker       string           `json:"ticker"`
	Components   Components       `json:"components"`
	OverallScore float64          `json:"overall_score"`
	RiskLevel    common.RiskLevel `json:"risk_level"`
	KeyConcerns  []string         `json:"key_concerns"`
	Mitigations  []string         `json:"mitigations"`
	AnalyzedAt   common.Timestamp `json:"analyzed_at"`
}

// Scorer folds component scores into the composite assessment.
type Scorer struct {
	cfg Config
}

// NewScorer constructs a Scorer.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults()}
}

// Score computes the full assessment from normalized events at the given
// analysis time.  The overall score is the unweighted mean of the four
// components.
func (s *Scorer) Score(ticker string, events []regulatory.Event, now time.Time) Assessment {
	comps := ComputeComponents(s.cfg, events, now)
	overall := (comps.WarningLetterRisk + comps.InspectionRisk +
		comps.ApprovalHistoryRisk + comps.ComplianceRisk) / 4

	return Assessment{
		Ticker:       ticker,
		Components:   comps,
		OverallScore: overall,
		RiskLevel:    common.RiskLevelForScore(overall),
		KeyConcerns:  s.concerns(comps, events, now),
		Mitigations:  s.mitigations(comps),
		AnalyzedAt:   common.Timestamp(now),
	}
}

// concerns emits one human-readable finding per component with a nonzero
// score, in fixed component order.
func (s *Scorer) concerns(comps Components, events []regulatory.Event, now time.Time) []string {
	var out []string
	if comps.WarningLetterRisk > 0 {
		n := regulatory.CountWithinTrailingDays(events, regulatory.KindWarningLetter, now, s.cfg.WarningLetterWindowDays)
		out = append(out, fmt.Sprintf("%d warning letter(s) issued in the past year", n))
	}
	if comps.InspectionRisk > 0 {
		inspections := regulatory.ByKind(events, regulatory.KindInspection)
		oai := 0
		for _, e := range inspections {
			if e.Classification == regulatory.ClassificationOAI {
				oai++
			}
		}
		out = append(out, fmt.Sprintf("%d of %d inspection(s) classified OAI", oai, len(inspections)))
	}
	if comps.ApprovalHistoryRisk > 0 {
		approvals := regulatory.CountWithinTrailingDays(events, regulatory.KindApproval, now, s.cfg.ApprovalWindowYears*365)
		pending := len(regulatory.ByKind(events, regulatory.KindPendingDecision))
		out = append(out, fmt.Sprintf("%d pending application(s) against %d approval(s) in the last %d years",
			pending, approvals, s.cfg.ApprovalWindowYears))
	}
	if comps.ComplianceRisk > 0 {
		open := 0
		for _, e := range regulatory.ByKind(events, regulatory.KindComplianceAction) {
			if e.Status == regulatory.StatusOpen {
				open++
			}
		}
		out = append(out, fmt.Sprintf("%d open compliance action(s)", open))
	}
	return out
}

// mitigations recommends one action per component above the threshold.  When
// nothing crosses it, a single baseline recommendation is returned.
func (s *Scorer) mitigations(comps Components) []string {
	var out []string
	if comps.WarningLetterRisk > mitigationThreshold {
		out = append(out, "Accelerate remediation of facilities cited in warning letters")
	}
	if comps.InspectionRisk > mitigationThreshold {
		out = append(out, "Engage third-party quality audit across manufacturing sites")
	}
	if comps.ApprovalHistoryRisk > mitigationThreshold {
		out = append(out, "Review pending submissions for approvability gaps before PDUFA dates")
	}
	if comps.ComplianceRisk > mitigationThreshold {
		out = append(out, "Close out open compliance actions with documented corrective plans")
	}
	if len(out) == 0 {
		out = append(out, defaultMitigation)
	}
	return out
}
