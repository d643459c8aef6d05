package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothsayer/adjudicator/internal/domain"
)

func TestLoadPredictions_MissingFileYieldsEmptyBook(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	book, err := store.LoadPredictions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, book.Predictions)
	assert.Empty(t, book.Predictions)
}

func TestPredictions_RoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	conf := 0.75
	book := &domain.PredictionBook{Version: 2, Predictions: []*domain.Prediction{
		{
			ID:           "pred_abc12345",
			Agent:        "alpha",
			SourcePostID: "post1",
			Claim:        "BTC will hit $100k",
			Category:     domain.CategoryCrypto,
			Deadline:     "2026-12-31",
			RegisteredAt: "2026-08-23",
			Confidence:   &conf,
			QualityScore: 6,
			PriceTarget:  &domain.PriceTarget{Asset: "bitcoin", TargetPrice: 100000, Direction: domain.DirectionAbove},
		},
	}}
	require.NoError(t, store.SavePredictions(ctx, book))

	got, err := store.LoadPredictions(ctx)
	require.NoError(t, err)
	require.Len(t, got.Predictions, 1)
	assert.Equal(t, book.Predictions[0], got.Predictions[0])
}

func TestMarkets_RoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	deadline := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	book := &domain.MarketBook{Version: 2, Markets: map[string]*domain.Market{
		"market_1": {
			ID:       "market_1",
			Question: "Will BTC close above $100k?",
			Deadline: deadline,
			Source:   "coingecko:bitcoin",
			Status:   domain.MarketStatusOpen,
			Commitments: []domain.Commitment{
				{Agent: "alpha", Position: domain.PositionYes, Confidence: 0.8, Timestamp: "2026-08-20T10:00:00Z"},
			},
			CreatedAt: deadline.AddDate(0, -4, 0),
		},
	}}
	require.NoError(t, store.SaveMarkets(ctx, book))

	got, err := store.LoadMarkets(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Markets, "market_1")
	assert.Equal(t, book.Markets["market_1"], got.Markets["market_1"])
}

func TestLoadMarkets_MissingFileYieldsEmptyBook(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	book, err := store.LoadMarkets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, book.Markets)
	assert.Empty(t, book.Markets)
}

func TestLoad_CorruptSnapshotFails(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, predictionsFile), []byte("{not json"), 0o644))

	_, err = store.LoadPredictions(context.Background())
	assert.Error(t, err)
}

func TestSaveLeaderboardPost(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveLeaderboardPost(context.Background(), "# leaderboard\n"))

	data, err := os.ReadFile(store.Path(leaderboardPostFile))
	require.NoError(t, err)
	assert.Equal(t, "# leaderboard\n", string(data))
}

func TestMarketLeaderboard_RoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	lb, err := store.LoadMarketLeaderboard(ctx)
	require.NoError(t, err)
	assert.NotNil(t, lb.Agents)

	lb.Agents["alpha"] = &domain.MarketAgentRecord{
		TotalPredictions: 2, Correct: 1, TotalBrier: 0.5, AvgBrier: 0.25, Accuracy: 0.5,
		Markets: []string{"m1", "m2"},
	}
	require.NoError(t, store.SaveMarketLeaderboard(ctx, lb))

	got, err := store.LoadMarketLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, lb.Agents["alpha"], got.Agents["alpha"])
}

func TestLock(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	lock := NewLock(store)
	ctx := context.Background()

	unlock, err := lock.Acquire(ctx)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	unlock()

	unlock2, err := lock.Acquire(ctx)
	require.NoError(t, err)
	unlock2()
}
