package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothsayer/adjudicator/internal/domain"
)

func TestExtractClaim(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "tagged claim wins",
			text: "[PREDICTION] BTC will hit $100k by March 2026 and nothing can stop it",
			want: "BTC will hit $100k by March 2026 and nothing can stop it",
		},
		{
			name: "lead-in claim",
			text: "hot take incoming. I predict the next model release changes everything for agents",
			want: "the next model release changes everything for agents",
		},
		{
			name: "fallback to raw text",
			text: "ETH $5k within 6 months",
			want: "ETH $5k within 6 months",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractClaim(tt.text))
		})
	}
}

func TestExtractClaim_Truncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	assert.Len(t, ExtractClaim(long), maxClaimLen)
}

func TestExtractClaim_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 400)
	got := ExtractClaim(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxClaimLen, utf8.RuneCountInString(got))
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		text string
		want domain.Category
	}{
		{"BTC will hit $100k", domain.CategoryCrypto},
		{"the election will be close", domain.CategoryPolitics},
		{"GPT-5 will pass the bar exam", domain.CategoryAI},
		{"the nasdaq closes green this week", domain.CategoryMarkets},
		{"it will snow tomorrow", domain.CategoryGeneral},
		// A dollar sign files under crypto even when stocks are mentioned.
		{"that stock hits $500 by June", domain.CategoryCrypto},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.text))
		})
	}
}

func TestExtractConfidence(t *testing.T) {
	conf, ok := ExtractConfidence("I'm 75% sure this happens")
	require.True(t, ok)
	assert.InDelta(t, 0.75, conf, 1e-9)

	_, ok = ExtractConfidence("no numbers here")
	assert.False(t, ok)

	// Values outside 1..100 are rejected, not clamped.
	_, ok = ExtractConfidence("0% chance")
	assert.False(t, ok)
}

func TestExtractPriceTarget(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *domain.PriceTarget
	}{
		{
			name: "k suffix expands",
			text: "BTC will break $100k by December",
			want: &domain.PriceTarget{Asset: "bitcoin", TargetPrice: 100000, Direction: domain.DirectionAbove},
		},
		{
			name: "comma separated",
			text: "ETH to $3,500 soon",
			want: &domain.PriceTarget{Asset: "ethereum", TargetPrice: 3500, Direction: domain.DirectionAbove},
		},
		{
			name: "bearish word flips direction",
			text: "SOL will drop below $80 this year",
			want: &domain.PriceTarget{Asset: "solana", TargetPrice: 80, Direction: domain.DirectionBelow},
		},
		{
			name: "no asset",
			text: "gold hits $3000",
			want: nil,
		},
		{
			name: "asset without price",
			text: "bitcoin is going to do something",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPriceTarget(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Asset, got.Asset)
			assert.InDelta(t, tt.want.TargetPrice, got.TargetPrice, 1e-9)
			assert.Equal(t, tt.want.Direction, got.Direction)
		})
	}
}

func TestExtractPriceTarget_FirstAssetWins(t *testing.T) {
	got := ExtractPriceTarget("BTC and ETH both moon to $10k")
	require.NotNil(t, got)
	assert.Equal(t, "bitcoin", got.Asset)
}
