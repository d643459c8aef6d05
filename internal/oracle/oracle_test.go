package oracle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothsayer/adjudicator/internal/cache/memory"
	"github.com/soothsayer/adjudicator/internal/domain"
)

type fakePrices struct {
	prices map[string]float64
	calls  int
	err    error
}

func (f *fakePrices) SpotPrice(_ context.Context, assetID string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	p, ok := f.prices[assetID]
	if !ok {
		return 0, errors.New("unknown asset")
	}
	return p, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchOutcome_Coingecko(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"bitcoin": 105000}}
	o := New(prices, nil, 0, discard())

	out := o.FetchOutcome(context.Background(), "coingecko:bitcoin", 100000, domain.OperatorGTE)
	require.NotNil(t, out.Result)
	assert.True(t, *out.Result)
	require.NotNil(t, out.Value)
	assert.InDelta(t, 105000, *out.Value, 1e-9)
	assert.Contains(t, out.Description, "BITCOIN/USD")

	out = o.FetchOutcome(context.Background(), "coingecko:bitcoin", 100000, domain.OperatorLT)
	require.NotNil(t, out.Result)
	assert.False(t, *out.Result)
}

func TestFetchOutcome_NotAutoResolvable(t *testing.T) {
	o := New(&fakePrices{}, nil, 0, discard())

	tests := []struct {
		name   string
		source string
	}{
		{"manual source", "manual"},
		{"unknown source", "chainlink:eth-usd"},
		{"coingecko without identifier", "coingecko"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := o.FetchOutcome(context.Background(), tt.source, 100, domain.OperatorGTE)
			assert.Nil(t, out.Result)
			assert.NotEmpty(t, out.Description)
		})
	}
}

func TestFetchOutcome_PriceFetchFailure(t *testing.T) {
	prices := &fakePrices{err: errors.New("rate limited")}
	o := New(prices, nil, 0, discard())

	out := o.FetchOutcome(context.Background(), "coingecko:bitcoin", 100000, domain.OperatorGTE)
	assert.Nil(t, out.Result)
	assert.Contains(t, out.Description, "failed to fetch")
}

func TestResolveTarget(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"ethereum": 4200}}
	o := New(prices, nil, 0, discard())

	above := o.ResolveTarget(context.Background(), &domain.PriceTarget{
		Asset: "ethereum", TargetPrice: 4000, Direction: domain.DirectionAbove,
	})
	require.NotNil(t, above.Result)
	assert.True(t, *above.Result)

	below := o.ResolveTarget(context.Background(), &domain.PriceTarget{
		Asset: "ethereum", TargetPrice: 4000, Direction: domain.DirectionBelow,
	})
	require.NotNil(t, below.Result)
	assert.False(t, *below.Result)
}

func TestOracle_CachesPrices(t *testing.T) {
	prices := &fakePrices{prices: map[string]float64{"bitcoin": 99000}}
	cache := memory.NewPriceCache()
	o := New(prices, cache, time.Minute, discard())

	ctx := context.Background()
	o.FetchOutcome(ctx, "coingecko:bitcoin", 100000, domain.OperatorGTE)
	o.FetchOutcome(ctx, "coingecko:bitcoin", 100000, domain.OperatorGTE)

	// Second query is served from the cache.
	assert.Equal(t, 1, prices.calls)
}
