package regulatory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func TestEvent_WithinTrailingDays(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
		days int
		want bool
	}{
		{"today", now, 365, true},
		{"exactly at window edge", now.AddDate(0, 0, -365), 365, true},
		{"one day outside", now.AddDate(0, 0, -366), 365, false},
		{"future date", now.AddDate(0, 0, 1), 365, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Event{Kind: KindWarningLetter, Date: tc.date}
			assert.Equal(t, tc.want, e.WithinTrailingDays(now, tc.days))
		})
	}
}

func TestEvent_DaysUntil(t *testing.T) {
	e := Event{Kind: KindPendingDecision, Date: now.AddDate(0, 0, 30)}
	assert.Equal(t, 30, e.DaysUntil(now))

	past := Event{Kind: KindApproval, Date: now.AddDate(0, 0, -10)}
	assert.Equal(t, -10, past.DaysUntil(now))
}

func TestByKind(t *testing.T) {
	events := []Event{
		{Kind: KindApproval, Descriptor: "a"},
		{Kind: KindWarningLetter, Descriptor: "b"},
		{Kind: KindApproval, Descriptor: "c"},
	}
	approvals := ByKind(events, KindApproval)
	assert.Len(t, approvals, 2)
	// Insertion order preserved.
	assert.Equal(t, "a", approvals[0].Descriptor)
	assert.Equal(t, "c", approvals[1].Descriptor)

	assert.Empty(t, ByKind(events, KindInspection))
}

func TestCountWithinTrailingDays(t *testing.T) {
	events := []Event{
		{Kind: KindWarningLetter, Date: now.AddDate(0, 0, -30)},
		{Kind: KindWarningLetter, Date: now.AddDate(0, 0, -400)},
		{Kind: KindInspection, Date: now.AddDate(0, 0, -30)},
	}
	assert.Equal(t, 1, CountWithinTrailingDays(events, KindWarningLetter, now, 365))
	assert.Equal(t, 2, CountWithinTrailingDays(events, KindWarningLetter, now, 3650))
}
