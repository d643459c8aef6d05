// Package scoring computes calibration-aware results for resolved forecasts.
//
// Two distinct conventions live here and must not be unified: the free-form
// reward is maximised (1 = best) while the market Brier score is minimised
// (0 = best). Keeping them as separate named operations avoids silent sign
// errors.
package scoring

import (
	"math"
	"sort"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// DefaultConfidence is assumed when a free-form prediction states none.
const DefaultConfidence = 0.5

// FreeformReward scores a resolved free-form prediction in [0,1], higher is
// better: 1-(1-c)^2 when the outcome is true, 1-c^2 otherwise. High
// confidence is rewarded when correct and penalised when wrong, bounded away
// from zero at c=0.5.
func FreeformReward(confidence *float64, outcome bool) float64 {
	c := DefaultConfidence
	if confidence != nil {
		c = *confidence
	}
	if outcome {
		return round4(1 - (1-c)*(1-c))
	}
	return round4(1 - c*c)
}

// Brier scores a market commitment in [0,1], lower is better. The position
// and confidence convert to an implied YES-probability (p = confidence for
// YES, 1-confidence for NO) squared against the realised outcome.
func Brier(position domain.Position, confidence float64, outcome bool) float64 {
	pYes := confidence
	if position != domain.PositionYes {
		pYes = 1.0 - confidence
	}

	actual := 0.0
	if outcome {
		actual = 1.0
	}

	return (pYes - actual) * (pYes - actual)
}

// ScoreMarket produces the per-commitment Brier results for a resolved
// market, sorted ascending by score (best predictor first). It is invoked
// exactly once, at the closed-to-resolved transition; commitments arriving
// later are never retroactively scored.
func ScoreMarket(m *domain.Market, outcome bool) []domain.CommitmentScore {
	scores := make([]domain.CommitmentScore, 0, len(m.Commitments))

	for _, c := range m.Commitments {
		scores = append(scores, domain.CommitmentScore{
			Agent:      c.Agent,
			Position:   c.Position,
			Confidence: c.Confidence,
			BrierScore: round4(Brier(c.Position, c.Confidence, outcome)),
			Correct:    (c.Position == domain.PositionYes) == outcome,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].BrierScore < scores[j].BrierScore
	})

	return scores
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
