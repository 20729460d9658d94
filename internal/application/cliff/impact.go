package cliff

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/medequity/pharmarisk/internal/domain/company"
	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/pkg/errors"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// PatentImpact is the projected loss attributable to one at-risk patent.
type PatentImpact struct {
	PatentNumber   string           `json:"patent_number"`
	Title          string           `json:"title"`
	ExpiryDate     common.Timestamp `json:"expiry_date"`
	YearsRemaining float64          `json:"years_remaining"`
	RevenueAtRisk  decimal.Decimal  `json:"revenue_at_risk"`
	ExpectedLoss   decimal.Decimal  `json:"expected_loss"`
}

// ImpactScenario aggregates the projected loss for one expiry year.
type ImpactScenario struct {
	PatentsExpiring  int             `json:"patents_expiring"`
	RevenueAtRisk    decimal.Decimal `json:"revenue_at_risk"`
	ExpectedLoss     decimal.Decimal `json:"expected_loss"`
	PercentOfRevenue float64         `json:"percent_of_revenue"`
}

// Impact is the portfolio-wide financial projection.  All money values are
// annual USD amounts.
type Impact struct {
	Ticker              string                 `json:"ticker"`
	AnnualRevenue       decimal.Decimal        `json:"annual_revenue"`
	TotalRevenueAtRisk  decimal.Decimal        `json:"total_revenue_at_risk"`
	ExpectedGenericLoss decimal.Decimal        `json:"expected_generic_loss"`
	ByExpiryYear        map[int]ImpactScenario `json:"by_expiry_year,omitempty"`
	PortfolioRiskScore  float64                `json:"portfolio_risk_score"`
	RiskLevel           common.RiskLevel       `json:"risk_level"`
	Patents             []PatentImpact         `json:"patents"`
	AnalyzedAt          common.Timestamp       `json:"analyzed_at"`
}

// ProjectImpact prices the cliff timeline against company revenue.  Each
// at-risk patent contributes revenue x share once; the expected loss applies
// the generic erosion factor on top.  Companies without revenue data cannot
// be projected and get a typed error rather than a zero-filled result.
func (a *Analyzer) ProjectImpact(c company.Company, patents []patent.Patent, now time.Time) (Impact, error) {
	if !c.HasRevenueData() {
		return Impact{}, errors.MissingRevenueData(c.Ticker)
	}

	erosion := decimal.NewFromFloat(a.cfg.GenericErosionFactor)
	imp := Impact{
		Ticker:        c.Ticker,
		AnnualRevenue: c.AnnualRevenue,
		AnalyzedAt:    common.Timestamp(now),
	}

	totalAtRisk := decimal.Zero
	totalLoss := decimal.Zero
	for _, p := range patents {
		if !p.AtRisk(now, a.cfg.HorizonYears) {
			continue
		}
		atRisk := c.AnnualRevenue.Mul(decimal.NewFromFloat(p.RevenueShare))
		loss := atRisk.Mul(erosion)
		totalAtRisk = totalAtRisk.Add(atRisk)
		totalLoss = totalLoss.Add(loss)
		if imp.ByExpiryYear == nil {
			imp.ByExpiryYear = map[int]ImpactScenario{}
		}
		year := p.ExpiryDate.Year()
		sc := imp.ByExpiryYear[year]
		sc.PatentsExpiring++
		sc.RevenueAtRisk = sc.RevenueAtRisk.Add(atRisk)
		sc.ExpectedLoss = sc.ExpectedLoss.Add(loss)
		imp.ByExpiryYear[year] = sc
		imp.Patents = append(imp.Patents, PatentImpact{
			PatentNumber:   p.Number,
			Title:          p.Title,
			ExpiryDate:     common.Timestamp(p.ExpiryDate),
			YearsRemaining: p.YearsToExpiry(now),
			RevenueAtRisk:  atRisk,
			ExpectedLoss:   loss,
		})
	}

	for year, sc := range imp.ByExpiryYear {
		pct, _ := sc.RevenueAtRisk.Div(c.AnnualRevenue).Mul(decimal.NewFromInt(100)).Float64()
		sc.PercentOfRevenue = pct
		imp.ByExpiryYear[year] = sc
	}

	imp.TotalRevenueAtRisk = totalAtRisk
	imp.ExpectedGenericLoss = totalLoss

	score, _ := totalAtRisk.Div(c.AnnualRevenue).Mul(decimal.NewFromInt(100)).Float64()
	if score > 100 {
		score = 100
	}
	imp.PortfolioRiskScore = score
	imp.RiskLevel = common.RiskLevelForScore(score)
	return imp, nil
}
