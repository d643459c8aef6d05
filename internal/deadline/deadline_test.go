package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A fixed reference clock keeps relative expressions deterministic.
var now = time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "by month day year",
			text:   "BTC hits $100k by March 15, 2027",
			want:   "2027-03-15",
			wantOK: true,
		},
		{
			name:   "before month day",
			text:   "this resolves before December 1, 2026",
			want:   "2026-12-01",
			wantOK: true,
		},
		{
			name:   "quarter",
			text:   "merger closes by Q1 2027",
			want:   "2027-03-31",
			wantOK: true,
		},
		{
			name:   "by end of year",
			text:   "flying cars by end of 2027",
			want:   "2027-12-31",
			wantOK: true,
		},
		{
			name:   "in year",
			text:   "AGI arrives in 2029 they say",
			want:   "2029-12-31",
			wantOK: true,
		},
		{
			name:   "ISO passthrough",
			text:   "deadline 2026-11-30 sharp",
			want:   "2026-11-30",
			wantOK: true,
		},
		{
			name:   "month and year resolves to first of following month",
			text:   "ETH flips BTC March 2027",
			want:   "2027-04-01",
			wantOK: true,
		},
		{
			name:   "december keeps year end",
			text:   "SOL at $500 December 2026",
			want:   "2026-12-31",
			wantOK: true,
		},
		{
			name:   "within N days",
			text:   "doubles within 30 days",
			want:   "2026-09-22",
			wantOK: true,
		},
		{
			name:   "in N days",
			text:   "doubles in 30 days",
			want:   "2026-09-22",
			wantOK: true,
		},
		{
			name:   "in N weeks",
			text:   "ships in 2 weeks",
			want:   "2026-09-06",
			wantOK: true,
		},
		{
			name:   "next month",
			text:   "next month this all unwinds",
			want:   "2026-09-22",
			wantOK: true,
		},
		{
			name:   "by end of week",
			text:   "by end of week we know",
			want:   "2026-08-30",
			wantOK: true,
		},
		{
			name:   "no deadline expression",
			text:   "something will happen eventually",
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.text, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_YearlessDateAdvancesWhenPassed(t *testing.T) {
	// June 1 has already passed relative to the reference clock, so the
	// date rolls to next year.
	got, ok := Normalize("done by June 1", now)
	require.True(t, ok)
	assert.Equal(t, "2027-06-01", got)

	// October 10 is still ahead, so it stays in the current year.
	got, ok = Normalize("done by October 10", now)
	require.True(t, ok)
	assert.Equal(t, "2026-10-10", got)
}

func TestNormalize_RelativeIsMonotonic(t *testing.T) {
	d30, ok := Normalize("within 30 days", now)
	require.True(t, ok)
	d60, ok := Normalize("within 60 days", now)
	require.True(t, ok)
	assert.Less(t, d30, d60)
}

func TestNormalize_CaseInsensitiveMonths(t *testing.T) {
	got, ok := Normalize("by march 15, 2027", now)
	require.True(t, ok)
	assert.Equal(t, "2027-03-15", got)
}

func TestComparable(t *testing.T) {
	tests := []struct {
		deadline string
		want     bool
	}{
		{"2026-12-31", true},
		{"soon", false},
		{"", false},
		{"Q1 2026", false},
		{"2026-13-45", false},
	}

	for _, tt := range tests {
		t.Run(tt.deadline, func(t *testing.T) {
			assert.Equal(t, tt.want, Comparable(tt.deadline))
		})
	}
}
