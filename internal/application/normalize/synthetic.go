package normalize

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/medequity/pharmarisk/internal/domain/patent"
)

// SyntheticSource produces deterministic placeholder data for tickers that
// have no live feed wired up yet.  The same ticker always yields the same
// records, so analyses stay reproducible and cacheable.
type SyntheticSource struct {
	// Anchor fixes the reference time the generated dates hang off.  Zero
	// means time.Now is taken per call, which breaks reproducibility
	// across days; production wiring sets it to the analysis time.
	Anchor time.Time
}

var _ RecordSource = (*SyntheticSource)(nil)
var _ PatentSource = (*SyntheticSource)(nil)

func (s *SyntheticSource) anchor() time.Time {
	if s.Anchor.IsZero() {
		return time.Now().UTC()
	}
	return s.Anchor
}

func tickerSeed(ticker string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return int64(h.Sum64())
}

// FetchRecords generates a plausible regulatory history seeded by the ticker:
// a handful of approvals over the trailing three years, zero to three warning
// letters, several inspections with mixed classifications, and one or two
// pending PDUFA decisions.
func (s *SyntheticSource) FetchRecords(_ context.Context, ticker string) ([]RecordBatch, error) {
	rng := rand.New(rand.NewSource(tickerSeed(ticker)))
	now := s.anchor()

	var records []RawRecord

	for i, n := 0, 1+rng.Intn(5); i < n; i++ {
		records = append(records, RawRecord{
			"type":          "approval",
			"approval_date": now.AddDate(0, 0, -rng.Intn(3*365)).Format("2006-01-02"),
			"drug_name":     fmt.Sprintf("%s-%03d", ticker, i+1),
		})
	}

	for i, n := 0, rng.Intn(4); i < n; i++ {
		status := "Open"
		if rng.Float64() < 0.5 {
			status = "Closed"
		}
		records = append(records, RawRecord{
			"type":        "warning_letter",
			"letter_date": now.AddDate(0, 0, -rng.Intn(2*365)).Format("2006-01-02"),
			"facility":    fmt.Sprintf("%s plant %d", ticker, i+1),
			"status":      status,
			"severity":    []string{"Low", "Medium", "High"}[rng.Intn(3)],
		})
	}

	for i, n := 0, 2+rng.Intn(5); i < n; i++ {
		records = append(records, RawRecord{
			"type":            "inspection",
			"inspection_date": now.AddDate(0, 0, -rng.Intn(3*365)).Format("2006-01-02"),
			"facility":        fmt.Sprintf("%s site %d", ticker, i+1),
			"classification":  []string{"NAI", "NAI", "VAI", "OAI"}[rng.Intn(4)],
		})
	}

	for i, n := 0, 1+rng.Intn(2); i < n; i++ {
		records = append(records, RawRecord{
			"type":             "pending_decision",
			"pdufa_date":       now.AddDate(0, 0, 14+rng.Intn(300)).Format("2006-01-02"),
			"drug_name":        fmt.Sprintf("%s-candidate-%d", ticker, i+1),
			"application_type": []string{"NDA", "BLA", "ANDA"}[rng.Intn(3)],
			"indication":       []string{"oncology", "immunology", "cardiology", "neurology"}[rng.Intn(4)],
			"priority_review":  rng.Float64() < 0.3,
		})
	}

	return []RecordBatch{{Source: "synthetic", Records: records}}, nil
}

// FetchPatents generates a deterministic portfolio of three to eight patents
// with expiry dates spread across the next twelve years and revenue shares
// that sum to well under one.
func (s *SyntheticSource) FetchPatents(_ context.Context, ticker string) ([]patent.Patent, error) {
	rng := rand.New(rand.NewSource(tickerSeed(ticker) + 1))
	now := s.anchor()

	areas := []string{"small molecule", "biologic", "formulation", "delivery device"}

	n := 3 + rng.Intn(6)
	patents := make([]patent.Patent, 0, n)
	for i := 0; i < n; i++ {
		expiry := now.AddDate(0, 0, rng.Intn(12*365)-365)
		filing := expiry.AddDate(-patent.StandardTermYears, 0, 0)
		share := 0.02 + rng.Float64()*0.28
		patents = append(patents, patent.Patent{
			Number:         fmt.Sprintf("US%d%04d", 9000000+rng.Intn(999999), i),
			Title:          fmt.Sprintf("%s compound %d", ticker, i+1),
			TechnologyArea: areas[rng.Intn(len(areas))],
			FilingDate:     filing,
			ExpiryDate:     expiry,
			RevenueShare:   share,
			Blockbuster:    share > 0.2,
		})
	}
	return patents, nil
}
