package domain

import "context"

// PredictionBook is the whole-document snapshot of tracked free-form
// predictions. The snapshot is read wholesale, mutated in memory, and written
// back wholesale; concurrent passes must be serialized by the caller.
type PredictionBook struct {
	Version     int           `json:"version"`
	Predictions []*Prediction `json:"predictions"`
}

// Index returns the set of prediction ids present in the book.
func (b *PredictionBook) Index() map[string]bool {
	idx := make(map[string]bool, len(b.Predictions))
	for _, p := range b.Predictions {
		idx[p.ID] = true
	}
	return idx
}

// MarketBook is the whole-document snapshot of structured markets, keyed by
// market id.
type MarketBook struct {
	Version int                `json:"version"`
	Markets map[string]*Market `json:"markets"`
}

// PredictionStore persists the free-form prediction snapshot.
type PredictionStore interface {
	LoadPredictions(ctx context.Context) (*PredictionBook, error)
	SavePredictions(ctx context.Context, book *PredictionBook) error
}

// MarketStore persists the market snapshot.
type MarketStore interface {
	LoadMarkets(ctx context.Context) (*MarketBook, error)
	SaveMarkets(ctx context.Context, book *MarketBook) error
}

// LeaderboardStore persists the derived leaderboard projections and the
// rendered leaderboard post.
type LeaderboardStore interface {
	SaveLeaderboard(ctx context.Context, lb *Leaderboard) error
	LoadMarketLeaderboard(ctx context.Context) (*MarketLeaderboard, error)
	SaveMarketLeaderboard(ctx context.Context, lb *MarketLeaderboard) error
	SaveLeaderboardPost(ctx context.Context, markdown string) error
}

// Locker serializes whole-document read/mutate/write passes. Acquire returns
// an unlock function, or ErrLockHeld when another pass holds the lock.
type Locker interface {
	Acquire(ctx context.Context) (unlock func(), err error)
}
