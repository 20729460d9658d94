// Package patent defines the patent entity and the expiry predicates used by
// the cliff timeline aggregator.
package patent

import (
	"time"

	"github.com/medequity/pharmarisk/pkg/errors"
)

// StandardTermYears is the statutory patent term from filing.  It is used
// only when generating synthetic placeholder records; real records keep the
// source-provided expiry date.
const StandardTermYears = 20

// daysPerYear converts a duration into fractional years the same way the
// timeline buckets do, so "years to expiry" agrees everywhere.
const daysPerYear = 365.25

// Patent is a normalized patent record attributed to the analyzed company.
type Patent struct {
	Number         string    `json:"patent_number"`
	Title          string    `json:"title"`
	TechnologyArea string    `json:"technology_area"`
	FilingDate     time.Time `json:"filing_date"`
	ExpiryDate     time.Time `json:"expiry_date"`

	// RevenueShare is the fraction of company revenue attributed to the
	// patent, in [0, 1].
	RevenueShare float64 `json:"revenue_share"`

	// Blockbuster flags products with >$1B peak-sales potential.
	Blockbuster bool `json:"blockbuster"`
}

// Validate checks the entity invariants.
func (p Patent) Validate() error {
	if p.Number == "" {
		return errors.NewValidation("patent number is required")
	}
	if p.ExpiryDate.Before(p.FilingDate) {
		return errors.NewValidation("patent %s expiry %s precedes filing %s",
			p.Number, p.ExpiryDate.Format("2006-01-02"), p.FilingDate.Format("2006-01-02"))
	}
	if p.RevenueShare < 0 || p.RevenueShare > 1 {
		return errors.NewValidation("patent %s revenue share %.3f outside [0,1]", p.Number, p.RevenueShare)
	}
	return nil
}

// YearsToExpiry returns the fractional years until expiry; negative once the
// patent has lapsed.
func (p Patent) YearsToExpiry(now time.Time) float64 {
	return p.ExpiryDate.Sub(now).Hours() / 24 / daysPerYear
}

// Active reports whether the patent is still in force at the given time.
func (p Patent) Active(now time.Time) bool {
	return p.ExpiryDate.After(now)
}

// AtRisk reports whether the patent expires inside the cliff horizon:
// 0 < years-to-expiry <= horizonYears.
func (p Patent) AtRisk(now time.Time, horizonYears int) bool {
	y := p.YearsToExpiry(now)
	return y > 0 && y <= float64(horizonYears)
}
