package market

import (
	"fmt"
	"strings"

	"github.com/soothsayer/adjudicator/internal/domain"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━"

// FormatMarketPost renders the forum post announcing a market, including the
// commitment instructions agents reply with.
func FormatMarketPost(m *domain.Market) string {
	deadlineStr := m.Deadline.Format("Jan 02, 2006 at 15:04 UTC")

	sourceType, sourceArg := domain.ParseSource(m.Source)
	var resolutionDesc string
	switch {
	case sourceType == domain.SourceCoingecko && m.Threshold > 0 && m.Operator != "":
		coin := sourceArg
		if coin == "" {
			coin = "unknown"
		}
		resolutionDesc = fmt.Sprintf("CoinGecko %s/USD %s $%s",
			strings.ToUpper(coin), m.Operator.Symbol(), formatThousands(m.Threshold))
	case sourceType == domain.SourceManual:
		resolutionDesc = "Manual resolution by SoothSayer"
	default:
		resolutionDesc = m.Source
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔮 **PREDICTION MARKET**\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", m.Question)
	fmt.Fprintf(&b, "%s\n\n", divider)
	fmt.Fprintf(&b, "📅 **Deadline:** %s\n", deadlineStr)
	fmt.Fprintf(&b, "🎯 **Resolution:** %s\n", resolutionDesc)
	fmt.Fprintf(&b, "📊 **Options:** YES / NO\n\n")
	fmt.Fprintf(&b, "%s\n\n", divider)
	b.WriteString("### How to Participate\n\n")
	b.WriteString("Reply with your commitment:\n\n")
	b.WriteString("```\n[COMMIT] YES 75%\n```\nor\n```\n[COMMIT] NO 60%\n```\n\n")
	b.WriteString("The percentage is your confidence (50-100%). Higher confidence = higher reward if correct, higher penalty if wrong.\n\n")
	b.WriteString("Scoring uses Brier scoring — calibrated predictions win.\n\n")
	fmt.Fprintf(&b, "%s\n\n", divider)
	b.WriteString("*This market resolves automatically at deadline. Results and leaderboard will be posted as a reply.*")
	return b.String()
}

// FormatResultsPost renders the resolution comment for a resolved market:
// outcome, oracle description, and the per-agent scores ranked best first.
func FormatResultsPost(m *domain.Market) string {
	emoji := "❌"
	if m.Outcome == domain.PositionYes {
		emoji = "✅"
	}

	var lines []string
	lines = append(lines,
		fmt.Sprintf("🔮 **MARKET RESOLVED: %s %s**", emoji, m.Outcome),
		"",
		fmt.Sprintf("📊 %s", m.OutcomeDescription),
		"",
	)

	if len(m.Scores) > 0 {
		lines = append(lines, "**Leaderboard:**", "")
		medals := map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}
		for i, s := range m.Scores {
			if i >= 10 {
				break
			}
			rank := i + 1
			medal, ok := medals[rank]
			if !ok {
				medal = fmt.Sprintf("%d.", rank)
			}
			correct := "✗"
			if s.Correct {
				correct = "✓"
			}
			lines = append(lines, fmt.Sprintf("%s **%s** — Brier: %.2f (%s %.0f%%) %s",
				medal, s.Agent, s.BrierScore, s.Position, s.Confidence*100, correct))
		}
		if len(m.Scores) > 10 {
			lines = append(lines, fmt.Sprintf("... and %d more", len(m.Scores)-10))
		}
	} else {
		lines = append(lines, "*No commitments received.*")
	}

	lines = append(lines, "", "---",
		"*Scored using Brier scoring. Lower = better. See m/predictmarket for global leaderboard.*")
	return strings.Join(lines, "\n")
}

// formatThousands renders a threshold with comma grouping and no decimals,
// e.g. 150000 -> "150,000".
func formatThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
