package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soothsayer/adjudicator/internal/deadline"
	"github.com/soothsayer/adjudicator/internal/domain"
	"github.com/soothsayer/adjudicator/internal/oracle"
	"github.com/soothsayer/adjudicator/internal/scoring"
)

// TargetResolver settles a free-form price target against ground truth.
type TargetResolver interface {
	ResolveTarget(ctx context.Context, pt *domain.PriceTarget) oracle.Outcome
}

// Resolver walks pending predictions whose deadlines have passed and settles
// them: price-target claims against the oracle, everything else to expired.
type Resolver struct {
	store  domain.PredictionStore
	oracle TargetResolver
	logger *slog.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver.
func NewResolver(store domain.PredictionStore, target TargetResolver, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		oracle: target,
		logger: logger.With(slog.String("component", "resolver")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the resolver clock. Intended for tests.
func (r *Resolver) SetClock(now func() time.Time) {
	r.now = now
}

// ResolveStats summarizes one resolution pass.
type ResolveStats struct {
	Resolved int
	Expired  int
	Skipped  int
}

// Run executes a single resolution pass. Only pending predictions with a
// comparable deadline on or before today are touched. Each record resolves
// independently; an oracle failure for one asset expires that record without
// affecting the rest. Resolved fields are written exactly once.
func (r *Resolver) Run(ctx context.Context) (ResolveStats, error) {
	var stats ResolveStats

	book, err := r.store.LoadPredictions(ctx)
	if err != nil {
		return stats, err
	}

	today := r.now().Format(deadline.ISODate)

	for _, p := range book.Predictions {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("pipeline: resolve cancelled: %w", err)
		}
		if !p.Pending() {
			continue
		}
		if p.Deadline == "" || !deadline.Comparable(p.Deadline) {
			stats.Skipped++
			continue
		}
		if p.Deadline > today {
			continue
		}

		r.settle(ctx, p, today, &stats)
	}

	if err := r.store.SavePredictions(ctx, book); err != nil {
		return stats, err
	}

	r.logger.InfoContext(ctx, "resolution pass complete",
		slog.Int("resolved", stats.Resolved),
		slog.Int("expired", stats.Expired),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// settle decides one overdue prediction's terminal resolution.
func (r *Resolver) settle(ctx context.Context, p *domain.Prediction, today string, stats *ResolveStats) {
	if p.PriceTarget == nil || p.PriceTarget.Asset == "" {
		p.Resolution = domain.ResolutionExpired
		p.ResolvedAt = today
		stats.Expired++
		r.logger.InfoContext(ctx, "prediction expired",
			slog.String("prediction_id", p.ID),
			slog.String("reason", "no price target"),
		)
		return
	}

	out := r.oracle.ResolveTarget(ctx, p.PriceTarget)
	if out.Result == nil {
		p.Resolution = domain.ResolutionExpired
		p.ResolvedAt = today
		stats.Expired++
		r.logger.InfoContext(ctx, "prediction expired",
			slog.String("prediction_id", p.ID),
			slog.String("reason", out.Description),
		)
		return
	}

	outcome := *out.Result
	score := scoring.FreeformReward(p.Confidence, outcome)

	p.Resolution = domain.ResolutionResolved
	p.ResolvedAt = today
	p.Outcome = &outcome
	p.Score = &score
	stats.Resolved++

	r.logger.InfoContext(ctx, "prediction resolved",
		slog.String("prediction_id", p.ID),
		slog.String("agent", p.Agent),
		slog.Bool("outcome", outcome),
		slog.Float64("score", score),
		slog.String("detail", out.Description),
	)
}
