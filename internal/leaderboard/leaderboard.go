// Package leaderboard derives the ranked agent projections from the
// prediction and market snapshots. Both projections are deterministic
// functions of their snapshot; the free-form one is rebuilt from scratch each
// pass, the market one folds in each resolved market exactly once.
package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

const leaderboardVersion = 2

// Build computes the free-form leaderboard from the full prediction
// population. Agents with at least one resolved prediction rank first, by
// accuracy; within a tie, more total predictions ranks higher. Ties beyond
// that keep a stable order.
func Build(book *domain.PredictionBook, now time.Time) *domain.Leaderboard {
	type accum struct {
		summary   domain.AgentSummary
		scores    []float64
		qualities []int
	}

	byAgent := map[string]*accum{}
	var order []string

	for _, p := range book.Predictions {
		a, ok := byAgent[p.Agent]
		if !ok {
			a = &accum{summary: domain.AgentSummary{
				Agent:      p.Agent,
				Categories: map[domain.Category]int{},
			}}
			byAgent[p.Agent] = a
			order = append(order, p.Agent)
		}

		a.summary.TotalPredictions++
		cat := p.Category
		if cat == "" {
			cat = domain.CategoryGeneral
		}
		a.summary.Categories[cat]++
		a.qualities = append(a.qualities, p.QualityScore)

		switch {
		case p.Resolution == domain.ResolutionResolved && p.Outcome != nil:
			a.summary.Resolved++
			if *p.Outcome {
				a.summary.Correct++
			}
			if p.Score != nil {
				a.scores = append(a.scores, *p.Score)
			}
		case p.Resolution == domain.ResolutionExpired:
			a.summary.Expired++
		default:
			a.summary.Pending++
		}
	}

	agents := make([]domain.AgentSummary, 0, len(order))
	for _, name := range order {
		a := byAgent[name]
		if a.summary.Resolved > 0 {
			a.summary.Accuracy = round1(float64(a.summary.Correct) / float64(a.summary.Resolved) * 100)
			if len(a.scores) > 0 {
				a.summary.AvgScore = round4(mean(a.scores))
			}
		}
		if len(a.qualities) > 0 {
			sum := 0
			for _, q := range a.qualities {
				sum += q
			}
			a.summary.AvgQuality = round1(float64(sum) / float64(len(a.qualities)))
		}
		agents = append(agents, a.summary)
	}

	sort.SliceStable(agents, func(i, j int) bool {
		if agents[i].Resolved != agents[j].Resolved {
			return agents[i].Resolved > agents[j].Resolved
		}
		if agents[i].Accuracy != agents[j].Accuracy {
			return agents[i].Accuracy > agents[j].Accuracy
		}
		return agents[i].TotalPredictions > agents[j].TotalPredictions
	})

	lb := &domain.Leaderboard{
		Version:     leaderboardVersion,
		UpdatedAt:   now,
		Agents:      agents,
		TotalAgents: len(agents),
	}
	for _, a := range agents {
		lb.TotalPredictions += a.TotalPredictions
		lb.TotalResolved += a.Resolved
		lb.TotalPending += a.Pending
	}
	return lb
}

// UpdateMarketLeaderboard folds every resolved market's scores into the
// market leaderboard. Markets already counted for an agent are skipped, so
// running the update repeatedly over the same snapshot is a no-op.
func UpdateMarketLeaderboard(lb *domain.MarketLeaderboard, book *domain.MarketBook, now time.Time) {
	if lb.Agents == nil {
		lb.Agents = map[string]*domain.MarketAgentRecord{}
	}

	for id, m := range book.Markets {
		if m.Status != domain.MarketStatusResolved {
			continue
		}

		for _, s := range m.Scores {
			rec, ok := lb.Agents[s.Agent]
			if !ok {
				rec = &domain.MarketAgentRecord{}
				lb.Agents[s.Agent] = rec
			}
			if rec.Counted(id) {
				continue
			}

			rec.TotalPredictions++
			rec.TotalBrier += s.BrierScore
			if s.Correct {
				rec.Correct++
			}
			rec.Markets = append(rec.Markets, id)
		}
	}

	for _, rec := range lb.Agents {
		if rec.TotalPredictions > 0 {
			rec.AvgBrier = round4(rec.TotalBrier / float64(rec.TotalPredictions))
			rec.Accuracy = round4(float64(rec.Correct) / float64(rec.TotalPredictions))
		}
	}

	lb.UpdatedAt = now
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
