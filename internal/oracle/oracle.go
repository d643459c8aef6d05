// Package oracle determines real-world outcomes for markets and free-form
// predictions from their resolution source descriptors.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// PriceSource returns the current spot price for an asset identifier. Any
// failure is treated uniformly as "unavailable now" by the oracle.
type PriceSource interface {
	SpotPrice(ctx context.Context, assetID string) (float64, error)
}

// Outcome is the oracle's answer for a resolution query. Result is nil when
// the query is not auto-resolvable right now: manual sources, unknown source
// types, and transient fetch failures all land here, and the caller decides
// between expiry and retry.
type Outcome struct {
	Result      *bool
	Value       *float64
	Description string
}

// Oracle settles markets and predictions against external ground truth,
// currently a spot-price feed fronted by an optional TTL cache.
type Oracle struct {
	prices PriceSource
	cache  domain.PriceCache
	ttl    time.Duration
	logger *slog.Logger
}

// New creates an Oracle. cache may be nil to disable price caching.
func New(prices PriceSource, cache domain.PriceCache, ttl time.Duration, logger *slog.Logger) *Oracle {
	return &Oracle{
		prices: prices,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "oracle")),
	}
}

// FetchOutcome resolves a market resolution source descriptor against its
// threshold and operator.
func (o *Oracle) FetchOutcome(ctx context.Context, source string, threshold float64, op domain.Operator) Outcome {
	sourceType, identifier := domain.ParseSource(source)

	switch sourceType {
	case domain.SourceCoingecko:
		if identifier == "" {
			return Outcome{Description: "invalid coingecko source"}
		}

		price, err := o.price(ctx, identifier)
		if err != nil {
			return Outcome{Description: fmt.Sprintf("failed to fetch %s price", identifier)}
		}

		result := op.Compare(price, threshold)
		desc := fmt.Sprintf("%s/USD: $%.2f (threshold %s $%.0f)",
			strings.ToUpper(identifier), price, op.Symbol(), threshold)
		return Outcome{Result: &result, Value: &price, Description: desc}

	case domain.SourceManual:
		return Outcome{Description: "manual resolution required"}

	default:
		return Outcome{Description: fmt.Sprintf("unknown source type: %s", sourceType)}
	}
}

// ResolveTarget settles a free-form price target. Direction semantics are
// simpler than market operators: above means price >= target, below means
// price <= target.
func (o *Oracle) ResolveTarget(ctx context.Context, pt *domain.PriceTarget) Outcome {
	price, err := o.price(ctx, pt.Asset)
	if err != nil {
		return Outcome{Description: fmt.Sprintf("failed to fetch %s price", pt.Asset)}
	}

	var result bool
	if pt.Direction == domain.DirectionBelow {
		result = price <= pt.TargetPrice
	} else {
		result = price >= pt.TargetPrice
	}

	desc := fmt.Sprintf("%s/USD: $%.2f (target %s $%.0f)",
		strings.ToUpper(pt.Asset), price, pt.Direction, pt.TargetPrice)
	return Outcome{Result: &result, Value: &price, Description: desc}
}

// price consults the cache before the upstream source. Cache failures are
// logged and ignored; they never fail a resolution.
func (o *Oracle) price(ctx context.Context, assetID string) (float64, error) {
	if o.cache != nil {
		if price, ts, err := o.cache.GetPrice(ctx, assetID); err == nil {
			if o.ttl <= 0 || time.Since(ts) < o.ttl {
				return price, nil
			}
		}
	}

	price, err := o.prices.SpotPrice(ctx, assetID)
	if err != nil {
		return 0, err
	}

	if o.cache != nil {
		if err := o.cache.SetPrice(ctx, assetID, price, time.Now().UTC()); err != nil {
			o.logger.WarnContext(ctx, "price cache write failed",
				slog.String("asset", assetID),
				slog.String("error", err.Error()),
			)
		}
	}

	return price, nil
}
