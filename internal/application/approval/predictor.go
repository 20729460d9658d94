// Package approval predicts the likelihood that pending regulatory
// applications are approved, from the company's observable track record.
package approval

import (
	"time"

	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// TrackRecord grades a company's recent approval performance.
type TrackRecord string

const (
	TrackRecordStrong  TrackRecord = "Strong"
	TrackRecordAverage TrackRecord = "Average"
	TrackRecordWeak    TrackRecord = "Weak"
)

// InspectionHistory grades the company's inspection outcomes.  Unknown means
// no inspections are on record at all.
type InspectionHistory string

const (
	InspectionGood    InspectionHistory = "Good"
	InspectionAverage InspectionHistory = "Average"
	InspectionPoor    InspectionHistory = "Poor"
	InspectionUnknown InspectionHistory = "Unknown"
)

// Confidence grades how well supported a probability estimate is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Prediction is the approval outlook for one pending application.
type Prediction struct {
	Drug            string           `json:"drug"`
	ApplicationType string           `json:"application_type"`
	Indication      string           `json:"indication,omitempty"`
	DecisionDate    common.Timestamp `json:"decision_date"`
	PriorityReview  bool             `json:"priority_review"`
	Probability     float64          `json:"probability"`
	Confidence      Confidence       `json:"confidence"`
	TrackRecord     TrackRecord      `json:"track_record"`
	PositiveFactors []string         `json:"positive_factors,omitempty"`
	RiskFactors     []string         `json:"risk_factors,omitempty"`
}

// Config holds the prediction parameters.  Zero values take the documented
// defaults.
type Config struct {
	// BaseRate is the prior approval probability.  Default 0.65.
	BaseRate float64 `mapstructure:"base_rate"`
}

func (c Config) withDefaults() Config {
	if c.BaseRate == 0 {
		c.BaseRate = 0.65
	}
	return c
}

const (
	strongAdjustment        = 0.15
	weakAdjustment          = -0.20
	priorityAdjustment      = 0.10
	recentLetterAdjustment  = -0.10
	probabilityFloor        = 0.10
	probabilityCeiling      = 0.95
	trackRecordWindowYears  = 3
	recentLetterWindowDays  = 365
	strongApprovalThreshold = 2
)

// Predictor estimates approval probabilities for pending decisions.
type Predictor struct {
	cfg Config
}

// NewPredictor constructs a Predictor.
func NewPredictor(cfg Config) *Predictor {
	return &Predictor{cfg: cfg.withDefaults()}
}

// Predict returns one prediction per pending decision in the event stream,
// preserving input order.  All predictions for a company share its track
// record, inspection history, and confidence grade; only the priority-review
// adjustment varies per application.
func (p *Predictor) Predict(events []regulatory.Event, now time.Time) []Prediction {
	track := AssessTrackRecord(events, now)
	history := AssessInspectionHistory(events)
	recentApprovals := regulatory.CountWithinTrailingDays(events, regulatory.KindApproval, now, trackRecordWindowYears*365)
	recentLetter := regulatory.CountWithinTrailingDays(events, regulatory.KindWarningLetter, now, recentLetterWindowDays) > 0
	confidence := assessConfidence(recentApprovals, track, history)

	var out []Prediction
	for _, e := range regulatory.ByKind(events, regulatory.KindPendingDecision) {
		prob := p.cfg.BaseRate
		var positive, risks []string
		switch track {
		case TrackRecordStrong:
			prob += strongAdjustment
			positive = append(positive, "Strong recent approval track record")
		case TrackRecordWeak:
			prob += weakAdjustment
			risks = append(risks, "Weak recent approval track record")
		}
		if e.PriorityReview {
			prob += priorityAdjustment
			positive = append(positive, "Priority review designation")
		}
		if recentLetter {
			prob += recentLetterAdjustment
			risks = append(risks, "Warning letter issued in the past year")
		}
		switch history {
		case InspectionGood:
			positive = append(positive, "Good inspection history")
		case InspectionPoor:
			risks = append(risks, "Poor inspection history")
		}
		if prob < probabilityFloor {
			prob = probabilityFloor
		}
		if prob > probabilityCeiling {
			prob = probabilityCeiling
		}

		out = append(out, Prediction{
			Drug:            e.Descriptor,
			ApplicationType: e.ApplicationType,
			Indication:      e.Indication,
			DecisionDate:    common.Timestamp(e.Date),
			PriorityReview:  e.PriorityReview,
			Probability:     prob,
			Confidence:      confidence,
			TrackRecord:     track,
			PositiveFactors: positive,
			RiskFactors:     risks,
		})
	}
	return out
}

// AssessTrackRecord grades the approval track record: Strong needs more than
// two approvals in the trailing three years and a clean inspection slate (no
// OAI); Weak means no recent approvals alongside an adverse signal (any
// warning letter or OAI inspection on record); everything else is Average.
func AssessTrackRecord(events []regulatory.Event, now time.Time) TrackRecord {
	approvals := regulatory.CountWithinTrailingDays(events, regulatory.KindApproval, now, trackRecordWindowYears*365)
	hasOAI := false
	for _, e := range regulatory.ByKind(events, regulatory.KindInspection) {
		if e.Classification == regulatory.ClassificationOAI {
			hasOAI = true
			break
		}
	}
	hasLetter := len(regulatory.ByKind(events, regulatory.KindWarningLetter)) > 0

	if approvals > strongApprovalThreshold && !hasOAI {
		return TrackRecordStrong
	}
	if approvals == 0 && (hasLetter || hasOAI) {
		return TrackRecordWeak
	}
	return TrackRecordAverage
}

// AssessInspectionHistory grades inspection outcomes by classification mix:
// Good when more than 70% are NAI, Poor when more than 30% are OAI, Average
// otherwise.  With no inspections on record the history is Unknown.
func AssessInspectionHistory(events []regulatory.Event) InspectionHistory {
	inspections := regulatory.ByKind(events, regulatory.KindInspection)
	if len(inspections) == 0 {
		return InspectionUnknown
	}
	nai, oai := 0, 0
	for _, e := range inspections {
		switch e.Classification {
		case regulatory.ClassificationNAI:
			nai++
		case regulatory.ClassificationOAI:
			oai++
		}
	}
	total := float64(len(inspections))
	if float64(nai)/total > 0.7 {
		return InspectionGood
	}
	if float64(oai)/total > 0.3 {
		return InspectionPoor
	}
	return InspectionAverage
}

// assessConfidence counts the supporting signals behind the estimate.
func assessConfidence(recentApprovals int, track TrackRecord, history InspectionHistory) Confidence {
	signals := 0
	if recentApprovals > 2 {
		signals++
	}
	if track == TrackRecordStrong {
		signals++
	}
	if history == InspectionGood {
		signals++
	}
	switch {
	case signals >= 2:
		return ConfidenceHigh
	case signals == 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
