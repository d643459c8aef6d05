package classify

import "strings"

// DefaultMinQuality is the minimum quality score required to register a
// prediction when no override is configured.
const DefaultMinQuality = 2

const explicitTag = "[PREDICTION]"

// Classifier applies the two-stage indicator+time gate and the additive
// quality score to free-form text. The gate and the score are independent so
// the registration threshold can be tuned without touching accept/reject
// semantics.
type Classifier struct {
	minQuality int
}

// New returns a Classifier that registers predictions scoring at least
// minQuality. Values below 1 fall back to DefaultMinQuality.
func New(minQuality int) *Classifier {
	if minQuality < 1 {
		minQuality = DefaultMinQuality
	}
	return &Classifier{minQuality: minQuality}
}

// Classify reports whether text is a real prediction and its quality score.
//
// Rules, in order: the text must match a prediction indicator; an explicit
// [PREDICTION] tag qualifies without a time element; everything else must
// also contain a time element; and the quality score must meet the minimum.
func (c *Classifier) Classify(text string) (bool, int) {
	if !hasIndicator(text) {
		return false, 0
	}

	quality := QualityScore(text)

	if hasTag(text) {
		return quality >= c.minQuality, quality
	}

	if !hasTimeElement(text) {
		return false, quality
	}

	return quality >= c.minQuality, quality
}

// QualityScore is the additive heuristic confidence that text is a genuine,
// trackable forecast: +3 explicit tag, +2 price figure, +2 time element,
// +1 confidence percentage. A bare "I think X will happen" scores 0.
func QualityScore(text string) int {
	score := 0

	if hasTag(text) {
		score += 3
	}

	if priceRe.MatchString(text) {
		score += 2
	}

	if hasTimeElement(text) {
		score += 2
	}

	if _, ok := ExtractConfidence(text); ok {
		score++
	}

	return score
}

func hasTag(text string) bool {
	return strings.Contains(strings.ToUpper(text), explicitTag)
}

func hasIndicator(text string) bool {
	for _, re := range predictionIndicators {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func hasTimeElement(text string) bool {
	for _, re := range timePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
