// Package alerting turns imminent regulatory and patent deadlines into
// actionable alerts.
package alerting

import (
	"fmt"
	"time"

	"github.com/medequity/pharmarisk/internal/application/cliff"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// AlertType discriminates the alert variants.
type AlertType string

const (
	TypePDUFADate     AlertType = "pdufa_date"
	TypePatentExpiry  AlertType = "patent_expiry"
	TypeWarningLetter AlertType = "warning_letter"
)

// Urgency grades how quickly an alert needs attention.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
)

// Alert is one actionable finding.  Entity identifies the originating record:
// the drug for a PDUFA alert, the patent number for an expiry alert, the
// facility for a warning letter.
type Alert struct {
	ID           common.ID        `json:"id"`
	Ticker       string           `json:"ticker"`
	Type         AlertType        `json:"type"`
	Urgency      Urgency          `json:"urgency"`
	Message      string           `json:"message"`
	Entity       string           `json:"entity"`
	Severity     common.Severity  `json:"severity,omitempty"`
	RevenueShare float64          `json:"revenue_share,omitempty"`
	DueDate      common.Timestamp `json:"due_date"`
	CreatedAt    common.Timestamp `json:"created_at"`
}

// Config holds the alert window parameters.  Zero values take defaults.
type Config struct {
	// PDUFAWindowDays is how far ahead pending decisions raise alerts.
	// Default 30, critical within PDUFACriticalDays (default 7).
	PDUFAWindowDays   int `mapstructure:"pdufa_window_days"`
	PDUFACriticalDays int `mapstructure:"pdufa_critical_days"`

	// ExpiryWindowYears is how far ahead major patent cliffs raise alerts.
	// Default 2, critical within ExpiryCriticalYears (default 1).
	ExpiryWindowYears   int `mapstructure:"expiry_window_years"`
	ExpiryCriticalYears int `mapstructure:"expiry_critical_years"`
}

func (c Config) withDefaults() Config {
	if c.PDUFAWindowDays == 0 {
		c.PDUFAWindowDays = 30
	}
	if c.PDUFACriticalDays == 0 {
		c.PDUFACriticalDays = 7
	}
	if c.ExpiryWindowYears == 0 {
		c.ExpiryWindowYears = 2
	}
	if c.ExpiryCriticalYears == 0 {
		c.ExpiryCriticalYears = 1
	}
	return c
}

// Generator produces alerts from normalized events and the cliff timeline.
type Generator struct {
	cfg Config
}

// NewGenerator constructs a Generator.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg.withDefaults()}
}

// Generate emits every qualifying alert at the given analysis time.  Only
// major cliffs alert on expiry; patents below the major share threshold never
// do, however soon they lapse.  Alerts are not deduplicated: a repeat
// analysis raises the same findings again so the consumer decides suppression
// policy.  Output order is pending decisions, then major cliffs, then warning
// letters, each in input order.
func (g *Generator) Generate(ticker string, events []regulatory.Event, cliffs []cliff.MajorCliff, now time.Time) []Alert {
	var alerts []Alert

	for _, e := range regulatory.ByKind(events, regulatory.KindPendingDecision) {
		days := e.DaysUntil(now)
		if days < 0 || days > g.cfg.PDUFAWindowDays {
			continue
		}
		urgency := UrgencyHigh
		if days <= g.cfg.PDUFACriticalDays {
			urgency = UrgencyCritical
		}
		a := g.newAlert(ticker, TypePDUFADate, urgency, e.Date, now,
			fmt.Sprintf("PDUFA decision for %s due in %d day(s)", e.Descriptor, days))
		a.Entity = e.Descriptor
		alerts = append(alerts, a)
	}

	for _, mc := range cliffs {
		if mc.YearsRemaining <= 0 || mc.YearsRemaining > float64(g.cfg.ExpiryWindowYears) {
			continue
		}
		urgency := UrgencyHigh
		if mc.YearsRemaining <= float64(g.cfg.ExpiryCriticalYears) {
			urgency = UrgencyCritical
		}
		expiry := time.Time(mc.ExpiryDate)
		a := g.newAlert(ticker, TypePatentExpiry, urgency, expiry, now,
			fmt.Sprintf("Patent %s (%.0f%% of revenue) expires %s",
				mc.PatentNumber, mc.RevenueShare*100, expiry.Format("2006-01-02")))
		a.Entity = mc.PatentNumber
		a.Severity = mc.Severity
		a.RevenueShare = mc.RevenueShare
		alerts = append(alerts, a)
	}

	for _, e := range regulatory.ByKind(events, regulatory.KindWarningLetter) {
		if e.Status != regulatory.StatusOpen {
			continue
		}
		urgency := UrgencyMedium
		if e.Severity == common.SeverityHigh {
			urgency = UrgencyHigh
		}
		a := g.newAlert(ticker, TypeWarningLetter, urgency, e.Date, now,
			fmt.Sprintf("Open warning letter for %s dated %s", e.Descriptor, e.Date.Format("2006-01-02")))
		a.Entity = e.Descriptor
		a.Severity = e.Severity
		alerts = append(alerts, a)
	}

	return alerts
}

func (g *Generator) newAlert(ticker string, typ AlertType, urgency Urgency, due, now time.Time, msg string) Alert {
	return Alert{
		ID:        common.NewID(),
		Ticker:    ticker,
		Type:      typ,
		Urgency:   urgency,
		Message:   msg,
		DueDate:   common.Timestamp(due),
		CreatedAt: common.Timestamp(now),
	}
}
