// Package risk computes the regulatory risk components and folds them into
// the composite company risk assessment.
package risk

import (
	"time"

	"github.com/medequity/pharmarisk/internal/domain/regulatory"
)

// Component names the four scored dimensions.
type Component string

const (
	ComponentWarningLetters  Component = "warning_letters"
	ComponentInspections     Component = "inspections"
	ComponentApprovalHistory Component = "approval_history"
	ComponentCompliance      Component = "compliance"
)

// Components carries the four 0-100 sub-scores.
type Components struct {
	WarningLetterRisk   float64 `json:"warning_letter_risk"`
	InspectionRisk      float64 `json:"inspection_risk"`
	ApprovalHistoryRisk float64 `json:"approval_history_risk"`
	ComplianceRisk      float64 `json:"compliance_risk"`
}

// Config holds the component weights and windows.  Zero values are replaced
// by the documented defaults so a zero Config scores sensibly.
type Config struct {
	// WarningLetterWeight is the score added per warning letter in the
	// trailing year.  Default 25.
	WarningLetterWeight float64 `mapstructure:"warning_letter_weight"`

	// WarningLetterWindowDays is the trailing window for letter counting.
	// Default 365.
	WarningLetterWindowDays int `mapstructure:"warning_letter_window_days"`

	// ApprovalWindowYears is the trailing window for approval history.
	// Default 3.
	ApprovalWindowYears int `mapstructure:"approval_window_years"`

	// ApprovalDeficitWeight is the score added per pending application in
	// excess of recent approvals.  Default 25.
	ApprovalDeficitWeight float64 `mapstructure:"approval_deficit_weight"`

	// ComplianceWeight is the score added per open compliance action.
	// Default 20.
	ComplianceWeight float64 `mapstructure:"compliance_weight"`
}

func (c Config) withDefaults() Config {
	if c.WarningLetterWeight == 0 {
		c.WarningLetterWeight = 25
	}
	if c.WarningLetterWindowDays == 0 {
		c.WarningLetterWindowDays = 365
	}
	if c.ApprovalWindowYears == 0 {
		c.ApprovalWindowYears = 3
	}
	if c.ApprovalDeficitWeight == 0 {
		c.ApprovalDeficitWeight = 25
	}
	if c.ComplianceWeight == 0 {
		c.ComplianceWeight = 20
	}
	return c
}

func clamp100(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// ComputeComponents evaluates all four component scores at the given
// analysis time.
func ComputeComponents(cfg Config, events []regulatory.Event, now time.Time) Components {
	cfg = cfg.withDefaults()
	return Components{
		WarningLetterRisk:   warningLetterRisk(cfg, events, now),
		InspectionRisk:      inspectionRisk(events),
		ApprovalHistoryRisk: approvalHistoryRisk(cfg, events, now),
		ComplianceRisk:      complianceRisk(cfg, events),
	}
}

// warningLetterRisk scores the trailing-year warning letter count, capped at
// 100 (four or more letters).
func warningLetterRisk(cfg Config, events []regulatory.Event, now time.Time) float64 {
	n := regulatory.CountWithinTrailingDays(events, regulatory.KindWarningLetter, now, cfg.WarningLetterWindowDays)
	return clamp100(cfg.WarningLetterWeight * float64(n))
}

// inspectionRisk is the share of inspections classified OAI, scaled to
// 0-100.  No inspections on record means no signal, scored zero.
func inspectionRisk(events []regulatory.Event) float64 {
	inspections := regulatory.ByKind(events, regulatory.KindInspection)
	if len(inspections) == 0 {
		return 0
	}
	oai := 0
	for _, e := range inspections {
		if e.Classification == regulatory.ClassificationOAI {
			oai++
		}
	}
	return 100 * float64(oai) / float64(len(inspections))
}

// approvalHistoryRisk scores the backlog of pending applications that recent
// approvals do not offset.  A company whose pending queue exceeds its
// trailing approval count carries execution risk on every excess filing.
func approvalHistoryRisk(cfg Config, events []regulatory.Event, now time.Time) float64 {
	approvals := regulatory.CountWithinTrailingDays(events, regulatory.KindApproval, now, cfg.ApprovalWindowYears*365)
	pending := len(regulatory.ByKind(events, regulatory.KindPendingDecision))
	deficit := pending - approvals
	if deficit < 0 {
		deficit = 0
	}
	return clamp100(cfg.ApprovalDeficitWeight * float64(deficit))
}

// complianceRisk scores the count of compliance actions still open.
func complianceRisk(cfg Config, events []regulatory.Event) float64 {
	open := 0
	for _, e := range regulatory.ByKind(events, regulatory.KindComplianceAction) {
		if e.Status == regulatory.StatusOpen {
			open++
		}
	}
	return clamp100(cfg.ComplianceWeight * float64(open))
}
