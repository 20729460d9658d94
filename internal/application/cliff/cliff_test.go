package cliff

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medequity/pharmarisk/internal/domain/company"
	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/pkg/errors"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func pat(number string, yearsOut int, share float64) patent.Patent {
	expiry := now.AddDate(yearsOut, 0, 0)
	return patent.Patent{
		Number:       number,
		Title:        number + " compound",
		FilingDate:   expiry.AddDate(-patent.StandardTermYears, 0, 0),
		ExpiryDate:   expiry,
		RevenueShare: share,
	}
}

func TestBuildTimeline_Buckets(t *testing.T) {
	patents := []patent.Patent{
		pat("US1", 1, 0.05),
		pat("US2", 3, 0.05),
		pat("US3", 8, 0.05),
		pat("US4", 12, 0.40), // beyond horizon
		pat("US5", -1, 0.40), // already expired
	}
	tl := NewAnalyzer(Config{}).BuildTimeline("PFE", patents, now)

	assert.Equal(t, 5, tl.TotalPatents)
	assert.Equal(t, 3, tl.TotalPatentsAtRisk)
	assert.Equal(t, map[int]ExpiryBucket{
		2027: {Count: 1, RevenueShare: 0.05, PatentNumbers: []string{"US1"}},
		2029: {Count: 1, RevenueShare: 0.05, PatentNumbers: []string{"US2"}},
		2034: {Count: 1, RevenueShare: 0.05, PatentNumbers: []string{"US3"}},
	}, tl.ExpiryByYear)
	assert.Empty(t, tl.MajorCliffs)
	assert.Nil(t, tl.NextMajorCliff)
}

func TestBuildTimeline_MajorCliffsSortedSoonestFirst(t *testing.T) {
	patents := []patent.Patent{
		pat("US-LATE", 7, 0.20),
		pat("US-BIG", 3, 0.30),
		pat("US-SMALL", 1, 0.10), // below major threshold
	}
	tl := NewAnalyzer(Config{}).BuildTimeline("MRK", patents, now)

	require.Len(t, tl.MajorCliffs, 2)
	assert.Equal(t, "US-BIG", tl.MajorCliffs[0].PatentNumber)
	assert.Equal(t, common.SeverityHigh, tl.MajorCliffs[0].Severity)
	assert.Equal(t, "US-LATE", tl.MajorCliffs[1].PatentNumber)
	assert.Equal(t, common.SeverityMedium, tl.MajorCliffs[1].Severity)

	require.NotNil(t, tl.NextMajorCliff)
	assert.Equal(t, "US-BIG", tl.NextMajorCliff.PatentNumber)
}

func TestBuildTimeline_TiedCliffsKeepInputOrder(t *testing.T) {
	patents := []patent.Patent{
		pat("US-FIRST", 2, 0.20),
		pat("US-SECOND", 2, 0.30),
		pat("US-THIRD", 2, 0.16),
	}
	tl := NewAnalyzer(Config{}).BuildTimeline("X", patents, now)

	// Identical expiry dates keep their input order.
	require.Len(t, tl.MajorCliffs, 3)
	assert.Equal(t, "US-FIRST", tl.MajorCliffs[0].PatentNumber)
	assert.Equal(t, "US-SECOND", tl.MajorCliffs[1].PatentNumber)
	assert.Equal(t, "US-THIRD", tl.MajorCliffs[2].PatentNumber)
}

func TestBuildTimeline_ThresholdIsExclusive(t *testing.T) {
	// Exactly at the major threshold does not qualify.
	tl := NewAnalyzer(Config{}).BuildTimeline("X", []patent.Patent{pat("US1", 2, 0.15)}, now)
	assert.Empty(t, tl.MajorCliffs)

	// Exactly at the high threshold stays Medium.
	tl = NewAnalyzer(Config{}).BuildTimeline("X", []patent.Patent{pat("US1", 2, 0.25)}, now)
	require.Len(t, tl.MajorCliffs, 1)
	assert.Equal(t, common.SeverityMedium, tl.MajorCliffs[0].Severity)
}

func TestProjectImpact(t *testing.T) {
	c, err := company.New("PFE", "Pfizer", decimal.NewFromInt(10_000_000_000))
	require.NoError(t, err)

	patents := []patent.Patent{
		pat("US-BIG", 3, 0.30),
		pat("US-EXPIRED", -2, 0.50), // ignored
	}
	imp, err := NewAnalyzer(Config{}).ProjectImpact(c, patents, now)
	require.NoError(t, err)

	assert.True(t, imp.TotalRevenueAtRisk.Equal(decimal.NewFromInt(3_000_000_000)),
		"got %s", imp.TotalRevenueAtRisk)
	assert.True(t, imp.ExpectedGenericLoss.Equal(decimal.NewFromInt(2_550_000_000)),
		"got %s", imp.ExpectedGenericLoss)
	assert.InDelta(t, 30.0, imp.PortfolioRiskScore, 0.0001)
	assert.Equal(t, common.RiskLow, imp.RiskLevel)
	require.Len(t, imp.Patents, 1)
	assert.Equal(t, "US-BIG", imp.Patents[0].PatentNumber)
	require.Len(t, imp.ByExpiryYear, 1)
	sc := imp.ByExpiryYear[2029]
	assert.Equal(t, 1, sc.PatentsExpiring)
	assert.True(t, sc.RevenueAtRisk.Equal(decimal.NewFromInt(3_000_000_000)), "got %s", sc.RevenueAtRisk)
	assert.True(t, sc.ExpectedLoss.Equal(decimal.NewFromInt(2_550_000_000)), "got %s", sc.ExpectedLoss)
	assert.InDelta(t, 30.0, sc.PercentOfRevenue, 0.0001)
}

func TestProjectImpact_MissingRevenue(t *testing.T) {
	c, err := company.New("XYZ", "NoRev Corp", decimal.Zero)
	require.NoError(t, err)

	_, err = NewAnalyzer(Config{}).ProjectImpact(c, []patent.Patent{pat("US1", 2, 0.2)}, now)
	require.Error(t, err)
	assert.True(t, errors.IsMissingRevenueData(err))
}

func TestProjectImpact_ScoreCapsAt100(t *testing.T) {
	c, err := company.New("ABC", "Concentrated", decimal.NewFromInt(1_000_000_000))
	require.NoError(t, err)

	patents := []patent.Patent{
		pat("US1", 1, 0.60),
		pat("US2", 2, 0.60),
	}
	imp, err := NewAnalyzer(Config{}).ProjectImpact(c, patents, now)
	require.NoError(t, err)
	assert.Equal(t, 100.0, imp.PortfolioRiskScore)
	assert.Equal(t, common.RiskVeryHigh, imp.RiskLevel)
}
