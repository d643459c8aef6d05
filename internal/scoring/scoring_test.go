package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothsayer/adjudicator/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestFreeformReward(t *testing.T) {
	tests := []struct {
		name       string
		confidence *float64
		outcome    bool
		want       float64
	}{
		{"high confidence correct", ptr(0.8), true, 0.96},
		{"high confidence wrong", ptr(0.8), false, 0.36},
		{"default confidence correct", nil, true, 0.75},
		{"default confidence wrong", nil, false, 0.75},
		{"full confidence correct", ptr(1.0), true, 1.0},
		{"full confidence wrong", ptr(1.0), false, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FreeformReward(tt.confidence, tt.outcome), 1e-9)
		})
	}
}

func TestBrier(t *testing.T) {
	tests := []struct {
		name       string
		position   domain.Position
		confidence float64
		outcome    bool
		want       float64
	}{
		{"yes 75 correct", domain.PositionYes, 0.75, true, 0.0625},
		{"no 60 wrong", domain.PositionNo, 0.60, true, 0.36},
		{"no 60 correct", domain.PositionNo, 0.60, false, 0.16},
		{"yes 100 wrong", domain.PositionYes, 1.0, false, 1.0},
		{"coin flip", domain.PositionYes, 0.5, true, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Brier(tt.position, tt.confidence, tt.outcome), 1e-9)
		})
	}
}

func TestScoreMarket(t *testing.T) {
	m := &domain.Market{
		Commitments: []domain.Commitment{
			{Agent: "alpha", Position: domain.PositionYes, Confidence: 0.75},
			{Agent: "beta", Position: domain.PositionNo, Confidence: 0.60},
			{Agent: "gamma", Position: domain.PositionYes, Confidence: 0.95},
		},
	}

	scores := ScoreMarket(m, true)
	require.Len(t, scores, 3)

	// Sorted ascending by Brier score: gamma (0.0025), alpha (0.0625),
	// beta (0.36).
	assert.Equal(t, "gamma", scores[0].Agent)
	assert.Equal(t, "alpha", scores[1].Agent)
	assert.Equal(t, "beta", scores[2].Agent)

	assert.True(t, scores[0].Correct)
	assert.True(t, scores[1].Correct)
	assert.False(t, scores[2].Correct)

	assert.InDelta(t, 0.0025, scores[0].BrierScore, 1e-9)
	assert.InDelta(t, 0.36, scores[2].BrierScore, 1e-9)
}

func TestScoreMarket_NoCommitments(t *testing.T) {
	scores := ScoreMarket(&domain.Market{}, false)
	assert.Empty(t, scores)
}
