package classify

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// maxClaimLen caps extracted claims.
const maxClaimLen = 300

var (
	taggedClaimRe = regexp.MustCompile(`(?i)\[PREDICTION\]\s*(.{10,300})`)

	claimLeadIns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:I predict|my prediction[:\s]|prediction[:\s]|calling it(?:\s+now)?[:\s])\s*(.{10,300})`),
		regexp.MustCompile(`(?i)((?:BTC|ETH|SOL|Bitcoin|Ethereum|Solana|XRP|DOGE)\b.*?\bwill\s+(?:reach|hit|break|cross|surpass|drop to|fall to|be at)\s+[\$\d,\.]+k?.*?)(?:\.|$)`),
	}
)

// ExtractClaim pulls the human-readable forecast out of text: the fragment
// after an explicit tag, then a lead-in match, then an asset+verb+target
// match, falling back to the first 300 characters verbatim. Only the first
// matching rule applies.
func ExtractClaim(text string) string {
	if m := taggedClaimRe.FindStringSubmatch(text); m != nil {
		return truncate(strings.TrimSpace(m[1]))
	}

	for _, re := range claimLeadIns {
		if m := re.FindStringSubmatch(text); m != nil {
			return truncate(strings.TrimSpace(m[1]))
		}
	}

	return truncate(strings.TrimSpace(text))
}

// truncate caps a claim at maxClaimLen characters, cutting on a rune boundary
// so multi-byte text never ends in a torn code point.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxClaimLen {
		return s
	}
	return string([]rune(s)[:maxClaimLen])
}

// DetectCategory files text under the first vocabulary with any matching
// keyword, defaulting to general.
func DetectCategory(text string) domain.Category {
	t := strings.ToLower(text)
	for _, v := range categoryVocabs {
		for _, w := range v.words {
			if strings.Contains(t, w) {
				return v.category
			}
		}
	}
	return domain.CategoryGeneral
}

// ExtractConfidence returns the first percentage literal in [1,100] divided
// by 100.
func ExtractConfidence(text string) (float64, bool) {
	m := confidenceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	val, err := strconv.Atoi(m[1])
	if err != nil || val < 1 || val > 100 {
		return 0, false
	}
	return float64(val) / 100.0, true
}

// ExtractPriceTarget scans the asset table and the dollar-amount pattern and
// returns the asset/threshold/direction triple used for automatic crypto
// resolution, or nil when either the asset or the price is missing.
func ExtractPriceTarget(text string) *domain.PriceTarget {
	t := strings.ToLower(text)

	asset := ""
	for i, re := range assetRes {
		if re.MatchString(t) {
			asset = cryptoAssets[i].id
			break
		}
	}
	if asset == "" {
		return nil
	}

	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	raw := strings.ReplaceAll(m[1], ",", "")
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	if strings.EqualFold(m[2], "k") {
		price *= 1000
	}

	direction := domain.DirectionAbove
	for _, w := range bearishWords {
		if strings.Contains(t, w) {
			direction = domain.DirectionBelow
			break
		}
	}

	return &domain.PriceTarget{Asset: asset, TargetPrice: price, Direction: direction}
}
