package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothsayer/adjudicator/internal/domain"
)

var updatedAt = time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestBuild(t *testing.T) {
	book := &domain.PredictionBook{Predictions: []*domain.Prediction{
		// alpha: 2 resolved (1 correct), 1 pending.
		{Agent: "alpha", Category: domain.CategoryCrypto, QualityScore: 6,
			Resolution: domain.ResolutionResolved, Outcome: boolPtr(true), Score: floatPtr(0.96)},
		{Agent: "alpha", Category: domain.CategoryCrypto, QualityScore: 4,
			Resolution: domain.ResolutionResolved, Outcome: boolPtr(false), Score: floatPtr(0.36)},
		{Agent: "alpha", Category: domain.CategoryAI, QualityScore: 2},
		// beta: 1 resolved correct, 1 expired.
		{Agent: "beta", Category: domain.CategoryCrypto, QualityScore: 8,
			Resolution: domain.ResolutionResolved, Outcome: boolPtr(true), Score: floatPtr(0.75)},
		{Agent: "beta", Category: domain.CategoryGeneral, QualityScore: 2,
			Resolution: domain.ResolutionExpired},
		// gamma: pending only.
		{Agent: "gamma", Category: domain.CategoryPolitics, QualityScore: 3},
	}}

	lb := Build(book, updatedAt)

	assert.Equal(t, 6, lb.TotalPredictions)
	assert.Equal(t, 3, lb.TotalResolved)
	assert.Equal(t, 2, lb.TotalPending)
	assert.Equal(t, 3, lb.TotalAgents)
	assert.Equal(t, updatedAt, lb.UpdatedAt)

	require.Len(t, lb.Agents, 3)

	// Most resolved ranks first, pending-only agents rank last.
	assert.Equal(t, "alpha", lb.Agents[0].Agent)
	assert.Equal(t, "beta", lb.Agents[1].Agent)
	assert.Equal(t, "gamma", lb.Agents[2].Agent)

	alpha := lb.Agents[0]
	assert.Equal(t, 2, alpha.Resolved)
	assert.Equal(t, 1, alpha.Correct)
	assert.Equal(t, 1, alpha.Pending)
	assert.InDelta(t, 50.0, alpha.Accuracy, 1e-9)
	assert.InDelta(t, 0.66, alpha.AvgScore, 1e-9)
	assert.InDelta(t, 4.0, alpha.AvgQuality, 1e-9)
	assert.Equal(t, 2, alpha.Categories[domain.CategoryCrypto])
	assert.Equal(t, 1, alpha.Categories[domain.CategoryAI])

	beta := lb.Agents[1]
	assert.InDelta(t, 100.0, beta.Accuracy, 1e-9)
	assert.Equal(t, 1, beta.Expired)

	gamma := lb.Agents[2]
	assert.Zero(t, gamma.Accuracy)
	assert.Equal(t, 1, gamma.Pending)
}

func TestBuild_AccuracyBreaksResolvedTies(t *testing.T) {
	book := &domain.PredictionBook{Predictions: []*domain.Prediction{
		{Agent: "low", Resolution: domain.ResolutionResolved, Outcome: boolPtr(false)},
		{Agent: "high", Resolution: domain.ResolutionResolved, Outcome: boolPtr(true)},
	}}

	lb := Build(book, updatedAt)
	require.Len(t, lb.Agents, 2)
	assert.Equal(t, "high", lb.Agents[0].Agent)
	assert.Equal(t, "low", lb.Agents[1].Agent)
}

func TestBuild_Empty(t *testing.T) {
	lb := Build(&domain.PredictionBook{}, updatedAt)
	assert.Empty(t, lb.Agents)
	assert.Zero(t, lb.TotalPredictions)
}

func TestUpdateMarketLeaderboard(t *testing.T) {
	resolvedAt := updatedAt
	book := &domain.MarketBook{Markets: map[string]*domain.Market{
		"m1": {
			ID: "m1", Status: domain.MarketStatusResolved, ResolvedAt: &resolvedAt,
			Scores: []domain.CommitmentScore{
				{Agent: "alpha", BrierScore: 0.04, Correct: true},
				{Agent: "beta", BrierScore: 0.49, Correct: false},
			},
		},
		"m2": {
			ID: "m2", Status: domain.MarketStatusResolved, ResolvedAt: &resolvedAt,
			Scores: []domain.CommitmentScore{
				{Agent: "alpha", BrierScore: 0.16, Correct: true},
			},
		},
		"open": {ID: "open", Status: domain.MarketStatusOpen},
	}}

	lb := &domain.MarketLeaderboard{}
	UpdateMarketLeaderboard(lb, book, updatedAt)

	require.Contains(t, lb.Agents, "alpha")
	require.Contains(t, lb.Agents, "beta")

	alpha := lb.Agents["alpha"]
	assert.Equal(t, 2, alpha.TotalPredictions)
	assert.Equal(t, 2, alpha.Correct)
	assert.InDelta(t, 0.20, alpha.TotalBrier, 1e-9)
	assert.InDelta(t, 0.10, alpha.AvgBrier, 1e-9)
	assert.InDelta(t, 1.0, alpha.Accuracy, 1e-9)
	assert.ElementsMatch(t, []string{"m1", "m2"}, alpha.Markets)

	beta := lb.Agents["beta"]
	assert.Equal(t, 1, beta.TotalPredictions)
	assert.Zero(t, beta.Correct)
	assert.InDelta(t, 0.49, beta.AvgBrier, 1e-9)

	// A second pass over the same resolved set changes nothing.
	UpdateMarketLeaderboard(lb, book, updatedAt.Add(time.Hour))
	assert.Equal(t, 2, lb.Agents["alpha"].TotalPredictions)
	assert.InDelta(t, 0.10, lb.Agents["alpha"].AvgBrier, 1e-9)
	assert.Equal(t, updatedAt.Add(time.Hour), lb.UpdatedAt)
}
