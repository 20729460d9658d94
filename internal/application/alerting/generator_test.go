package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medequity/pharmarisk/internal/application/cliff"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func majorCliff(number string, yearsOut float64, share float64) cliff.MajorCliff {
	expiry := now.Add(time.Duration(yearsOut * 365.25 * 24 * float64(time.Hour)))
	return cliff.MajorCliff{
		PatentNumber:   number,
		Title:          number + " compound",
		ExpiryDate:     common.Timestamp(expiry),
		YearsRemaining: yearsOut,
		RevenueShare:   share,
		Severity:       common.SeverityMedium,
	}
}

func TestGenerate_PDUFAWindow(t *testing.T) {
	events := []regulatory.Event{
		{Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, 5), Descriptor: "drug-a"},
		{Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, 20), Descriptor: "drug-b"},
		{Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, 45), Descriptor: "drug-c"},
		{Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, -3), Descriptor: "drug-past"},
	}
	alerts := NewGenerator(Config{}).Generate("PFE", events, nil, now)

	require.Len(t, alerts, 2)
	assert.Equal(t, TypePDUFADate, alerts[0].Type)
	assert.Equal(t, UrgencyCritical, alerts[0].Urgency)
	assert.Equal(t, "drug-a", alerts[0].Entity)
	assert.Contains(t, alerts[0].Message, "drug-a")
	assert.Equal(t, UrgencyHigh, alerts[1].Urgency)
	assert.Equal(t, "drug-b", alerts[1].Entity)
}

func TestGenerate_MajorCliffExpiry(t *testing.T) {
	cliffs := []cliff.MajorCliff{
		majorCliff("US-SOON", 0.5, 0.20),
		majorCliff("US-NEXT", 1.7, 0.18),
		majorCliff("US-FAR", 5, 0.30),
	}
	alerts := NewGenerator(Config{}).Generate("MRK", nil, cliffs, now)

	require.Len(t, alerts, 2)
	assert.Equal(t, TypePatentExpiry, alerts[0].Type)
	assert.Equal(t, UrgencyCritical, alerts[0].Urgency)
	assert.Equal(t, "US-SOON", alerts[0].Entity)
	assert.Equal(t, 0.20, alerts[0].RevenueShare)
	assert.Equal(t, UrgencyHigh, alerts[1].Urgency)
	assert.Equal(t, "US-NEXT", alerts[1].Entity)
}

func TestGenerate_OpenWarningLetters(t *testing.T) {
	events := []regulatory.Event{
		{Kind: regulatory.KindWarningLetter, Date: now.AddDate(0, -2, 0), Descriptor: "Plant A",
			Status: regulatory.StatusOpen, Severity: common.SeverityHigh},
		{Kind: regulatory.KindWarningLetter, Date: now.AddDate(-3, 0, 0), Descriptor: "Plant B",
			Status: regulatory.StatusOpen, Severity: common.SeverityLow},
		{Kind: regulatory.KindWarningLetter, Date: now.AddDate(0, -1, 0), Descriptor: "Plant C",
			Status: regulatory.StatusClosed, Severity: common.SeverityHigh},
	}
	alerts := NewGenerator(Config{}).Generate("XYZ", events, nil, now)

	// Open letters alert regardless of age; closed ones never do.
	require.Len(t, alerts, 2)
	assert.Equal(t, UrgencyHigh, alerts[0].Urgency)
	assert.Equal(t, common.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, "Plant A", alerts[0].Entity)
	assert.Equal(t, UrgencyMedium, alerts[1].Urgency)
	for _, a := range alerts {
		assert.Equal(t, TypeWarningLetter, a.Type)
	}
}

func TestGenerate_NoFindings(t *testing.T) {
	alerts := NewGenerator(Config{}).Generate("CLEAN", nil, nil, now)
	assert.Empty(t, alerts)
}

func TestGenerate_NoDeduplication(t *testing.T) {
	events := []regulatory.Event{
		{Kind: regulatory.KindPendingDecision, Date: now.AddDate(0, 0, 10), Descriptor: "drug-a"},
	}
	g := NewGenerator(Config{})
	first := g.Generate("PFE", events, nil, now)
	second := g.Generate("PFE", events, nil, now)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Message, second[0].Message)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}
