package domain

import "time"

// AgentSummary is the per-agent projection over the free-form prediction
// population. It is rebuilt from scratch on every aggregation pass and never
// independently mutated.
type AgentSummary struct {
	Agent            string           `json:"agent"`
	TotalPredictions int              `json:"total_predictions"`
	Resolved         int              `json:"resolved"`
	Correct          int              `json:"correct"`
	Expired          int              `json:"expired"`
	Pending          int              `json:"pending"`
	Accuracy         float64          `json:"accuracy"`
	AvgScore         float64          `json:"avg_score"`
	AvgQuality       float64          `json:"avg_quality"`
	Categories       map[Category]int `json:"categories"`
}

// Leaderboard is the ranked free-form projection plus population totals.
type Leaderboard struct {
	Version          int            `json:"version"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Agents           []AgentSummary `json:"agents"`
	TotalPredictions int            `json:"total_predictions"`
	TotalResolved    int            `json:"total_resolved"`
	TotalPending     int            `json:"total_pending"`
	TotalAgents      int            `json:"total_agents"`
}

// MarketAgentRecord accumulates an agent's Brier results across resolved
// markets. Markets lists the market ids already folded in, which makes
// re-aggregation over the same resolved set idempotent.
type MarketAgentRecord struct {
	TotalPredictions int      `json:"total_predictions"`
	Correct          int      `json:"correct_predictions"`
	TotalBrier       float64  `json:"total_brier"`
	AvgBrier         float64  `json:"avg_brier"`
	Accuracy         float64  `json:"accuracy"`
	Markets          []string `json:"markets"`
}

// Counted reports whether the market has already been folded into the record.
func (r *MarketAgentRecord) Counted(marketID string) bool {
	for _, id := range r.Markets {
		if id == marketID {
			return true
		}
	}
	return false
}

// MarketLeaderboard is the market-based projection. It is kept separate from
// the free-form Leaderboard because the two scoring conventions differ:
// free-form rewards are maximised, Brier scores are minimised.
type MarketLeaderboard struct {
	Agents    map[string]*MarketAgentRecord `json:"agents"`
	UpdatedAt time.Time                     `json:"updated_at"`
}
