// Package cliff aggregates patent expirations into the cliff timeline and
// projects the financial impact of generic entry.
package cliff

import (
	"sort"
	"time"

	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// Config holds the cliff analysis parameters.  Zero values take defaults.
type Config struct {
	// HorizonYears bounds the at-risk window.  Default 10.
	HorizonYears int `mapstructure:"horizon_years"`

	// MajorShareThreshold is the revenue share above which an expiring
	// patent counts as a major cliff.  Default 0.15.
	MajorShareThreshold float64 `mapstructure:"major_share_threshold"`

	// HighShareThreshold is the revenue share above which a major cliff
	// is graded High rather than Medium.  Default 0.25.
	HighShareThreshold float64 `mapstructure:"high_share_threshold"`

	// GenericErosionFactor is the fraction of at-risk revenue expected to
	// be lost to generics after expiry.  Default 0.85.
	GenericErosionFactor float64 `mapstructure:"generic_erosion_factor"`
}

func (c Config) withDefaults() Config {
	if c.HorizonYears == 0 {
		c.HorizonYears = 10
	}
	if c.MajorShareThreshold == 0 {
		c.MajorShareThreshold = 0.15
	}
	if c.HighShareThreshold == 0 {
		c.HighShareThreshold = 0.25
	}
	if c.GenericErosionFactor == 0 {
		c.GenericErosionFactor = 0.85
	}
	return c
}

// ExpiryBucket aggregates the at-risk patents expiring in one calendar year.
type ExpiryBucket struct {
	Count         int      `json:"count"`
	RevenueShare  float64  `json:"revenue_share"`
	PatentNumbers []string `json:"patent_numbers,omitempty"`
}

// MajorCliff is one at-risk patent whose revenue share crosses the major
// threshold.
type MajorCliff struct {
	PatentNumber   string           `json:"patent_number"`
	Title          string           `json:"title"`
	ExpiryDate     common.Timestamp `json:"expiry_date"`
	YearsRemaining float64          `json:"years_remaining"`
	RevenueShare   float64          `json:"revenue_share"`
	Severity       common.Severity  `json:"severity"`
}

// Timeline is the aggregated expiry outlook for a portfolio.
type Timeline struct {
	Ticker             string               `json:"ticker"`
	TotalPatents       int                  `json:"total_patents"`
	TotalPatentsAtRisk int                  `json:"total_patents_at_risk"`
	ExpiryByYear       map[int]ExpiryBucket `json:"expiry_by_year"`
	MajorCliffs        []MajorCliff         `json:"major_cliffs"`
	NextMajorCliff     *MajorCliff          `json:"next_major_cliff,omitempty"`
	AnalyzedAt         common.Timestamp     `json:"analyzed_at"`
}

// Analyzer builds cliff timelines and impact projections.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg.withDefaults()}
}

// BuildTimeline aggregates the portfolio at the given analysis time.  Major
// cliffs are ordered soonest-first; patents with identical years remaining
// keep their input order.
func (a *Analyzer) BuildTimeline(ticker string, patents []patent.Patent, now time.Time) Timeline {
	tl := Timeline{
		Ticker:       ticker,
		TotalPatents: len(patents),
		ExpiryByYear: map[int]ExpiryBucket{},
		AnalyzedAt:   common.Timestamp(now),
	}

	for _, p := range patents {
		if !p.AtRisk(now, a.cfg.HorizonYears) {
			continue
		}
		tl.TotalPatentsAtRisk++
		years := p.YearsToExpiry(now)

		year := p.ExpiryDate.Year()
		b := tl.ExpiryByYear[year]
		b.Count++
		b.RevenueShare += p.RevenueShare
		b.PatentNumbers = append(b.PatentNumbers, p.Number)
		tl.ExpiryByYear[year] = b

		if p.RevenueShare > a.cfg.MajorShareThreshold {
			sev := common.SeverityMedium
			if p.RevenueShare > a.cfg.HighShareThreshold {
				sev = common.SeverityHigh
			}
			tl.MajorCliffs = append(tl.MajorCliffs, MajorCliff{
				PatentNumber:   p.Number,
				Title:          p.Title,
				ExpiryDate:     common.Timestamp(p.ExpiryDate),
				YearsRemaining: years,
				RevenueShare:   p.RevenueShare,
				Severity:       sev,
			})
		}
	}

	sort.SliceStable(tl.MajorCliffs, func(i, j int) bool {
		return tl.MajorCliffs[i].YearsRemaining < tl.MajorCliffs[j].YearsRemaining
	})
	if len(tl.MajorCliffs) > 0 {
		next := tl.MajorCliffs[0]
		tl.NextMajorCliff = &next
	}
	return tl
}
