// Package company defines the company reference entity that anchors every
// analysis invocation.  A Company is created once at analysis start from an
// external lookup and is immutable for the lifetime of that analysis.
package company

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/medequity/pharmarisk/pkg/errors"
)

// Company identifies the analyzed issuer.
type Company struct {
	// Ticker is the exchange symbol, upper-cased.
	Ticker string `json:"ticker"`

	// Name is the display name; falls back to the ticker when the lookup
	// has no long name.
	Name string `json:"name"`

	// AnnualRevenue is the current annual revenue in USD.  Zero means
	// unknown; the financial impact projector treats unknown and zero
	// identically (it refuses to project rather than fabricate).
	AnnualRevenue decimal.Decimal `json:"annual_revenue"`
}

// New constructs a Company, normalizing the ticker and defaulting the name.
func New(ticker, name string, annualRevenue decimal.Decimal) (Company, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Company{}, errors.NewValidation("ticker is required")
	}
	if annualRevenue.IsNegative() {
		return Company{}, errors.NewValidation("annual revenue must not be negative")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = ticker
	}
	return Company{Ticker: ticker, Name: name, AnnualRevenue: annualRevenue}, nil
}

// HasRevenueData reports whether a financial projection is possible.
func (c Company) HasRevenueData() bool {
	return c.AnnualRevenue.IsPositive()
}
