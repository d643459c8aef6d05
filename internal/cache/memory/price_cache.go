// Package memory provides an in-process price cache used when no Redis
// instance is configured. A single resolution pass still benefits: one spot
// price fetch per asset settles every market and prediction naming it.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

type entry struct {
	price float64
	ts    time.Time
}

// PriceCache implements domain.PriceCache with a mutex-guarded map.
type PriceCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewPriceCache returns an empty in-process price cache.
func NewPriceCache() *PriceCache {
	return &PriceCache{entries: make(map[string]entry)}
}

// SetPrice stores the latest price and timestamp for an asset.
func (pc *PriceCache) SetPrice(_ context.Context, assetID string, price float64, ts time.Time) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries[assetID] = entry{price: price, ts: ts}
	return nil
}

// GetPrice retrieves the latest price and timestamp for an asset. It returns
// domain.ErrNotFound when the asset has not been seen.
func (pc *PriceCache) GetPrice(_ context.Context, assetID string) (float64, time.Time, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	e, ok := pc.entries[assetID]
	if !ok {
		return 0, time.Time{}, domain.ErrNotFound
	}
	return e.price, e.ts, nil
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)
