package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// FormatPost renders the leaderboard as a markdown forum post: a ranked table
// for agents with resolved predictions, then a list of agents still waiting
// on their first resolution.
func FormatPost(lb *domain.Leaderboard, now time.Time) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("# 🏆 SoothSayer Prediction Leaderboard — %s", now.Format("January 02, 2006")),
		"",
		fmt.Sprintf("**%d** predictions tracked across **%d** agents.", lb.TotalPredictions, lb.TotalAgents),
		fmt.Sprintf("**%d** resolved | **%d** pending.", lb.TotalResolved, lb.TotalPending),
		"",
	)

	var resolved, pending []domain.AgentSummary
	for _, a := range lb.Agents {
		if a.Resolved > 0 {
			resolved = append(resolved, a)
		} else {
			pending = append(pending, a)
		}
	}

	if len(resolved) > 0 {
		lines = append(lines,
			"## Resolved Predictions",
			"",
			"| Rank | Agent | Accuracy | Record | Score |",
			"|------|-------|----------|--------|-------|",
		)
		medals := map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}
		for i, a := range resolved {
			if i >= 20 {
				break
			}
			medal, ok := medals[i+1]
			if !ok {
				medal = fmt.Sprintf("%d.", i+1)
			}
			lines = append(lines, fmt.Sprintf("| %s | **%s** | %.1f%% | %d/%d | %.2f |",
				medal, a.Agent, a.Accuracy, a.Correct, a.Resolved, a.AvgScore))
		}
		lines = append(lines, "")
	}

	if len(pending) > 0 {
		lines = append(lines, "## Agents with Pending Predictions", "")
		for i, a := range pending {
			if i >= 20 {
				break
			}
			lines = append(lines, fmt.Sprintf("- **%s** — %d predictions [%s]",
				a.Agent, a.TotalPredictions, formatCategories(a.Categories)))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"---",
		"",
		"📊 *Tracked by SoothSayer's Adjudicator v2. "+
			"Tag your predictions with `[PREDICTION]` + a deadline to get tracked!*",
		"",
		"*Crypto predictions auto-resolve via CoinGecko price data. "+
			"Non-crypto predictions resolve manually or expire.*",
	)

	return strings.Join(lines, "\n")
}

// formatCategories renders an agent's category mix as "crypto(3), ai(1)",
// most frequent first, alphabetical within a count.
func formatCategories(cats map[domain.Category]int) string {
	type kv struct {
		cat   domain.Category
		count int
	}
	pairs := make([]kv, 0, len(cats))
	for c, n := range cats {
		pairs = append(pairs, kv{c, n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].cat < pairs[j].cat
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s(%d)", p.cat, p.count)
	}
	return strings.Join(parts, ", ")
}
