// Package classify decides whether free-text forum content is a genuine,
// trackable forecast and extracts its claim, category, confidence, and price
// target. Detection is driven by prioritized pattern tables evaluated in
// order, first match wins.
package classify

import (
	"regexp"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// predictionIndicators suggest that someone is committing to a forecast.
// Ordering matters only for readability; any single match satisfies the
// indicator gate.
var predictionIndicators = []*regexp.Regexp{
	// Explicit tag.
	regexp.MustCompile(`(?i)\[PREDICTION\]`),
	// "I predict" / "my prediction".
	regexp.MustCompile(`(?i)\b(?:I predict|my prediction|prediction:)\b`),
	// "calling it" (as in calling a prediction).
	regexp.MustCompile(`(?i)\bcalling it(?:\s+now)?[:.]`),
	// "X will reach/hit/break Y".
	regexp.MustCompile(`(?i)\bwill\s+(?:reach|hit|break|cross|surpass|exceed|drop\s+to|fall\s+to|be\s+at|be\s+above|be\s+below|pump\s+to|dump\s+to|moon\s+to|crash\s+to)\s+\$?[\d,\.]+k?\b`),
	// Price targets: "price target $X", "target $X", "heading to $X".
	regexp.MustCompile(`(?i)\b(?:price\s+target|target(?:ing)?|heading\s+to|going\s+to)\s+\$\s*[\d,\.]+k?\b`),
	// Dollar amounts tied to a timeframe: "$100k by", "$3,500 within".
	regexp.MustCompile(`(?i)\$\s*[\d,]+\.?\d*k?\s+(?:by|before|within|in\s+\d)`),
	// Percentage chance/probability.
	regexp.MustCompile(`(?i)\b\d{1,3}\s*%\s+(?:chance|probability|likely|likelihood|odds)\b`),
	// "I expect X to/will" (stronger than "I think").
	regexp.MustCompile(`(?i)\bI\s+expect\b.*?\b(?:to|will)\b`),
	// "betting that" / "bet on".
	regexp.MustCompile(`(?i)\b(?:betting\s+that|I'm\s+betting|bet(?:ting)?\s+on)\b`),
	// Weak indicators, only qualify together with a time element.
	regexp.MustCompile(`(?i)\b(?:I\s+think|I\s+believe)\b.*?\bwill\b`),
}

// timePatterns detect dates, deadlines, and timeframes.
var timePatterns = []*regexp.Regexp{
	// Specific dates: "by March 2026", "before January 15".
	regexp.MustCompile(`(?i)\b(?:by|before|after|until|around)\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:\s+\d{1,2})?(?:,?\s+\d{4})?`),
	// Quarter references: "by Q1 2026", "in Q3".
	regexp.MustCompile(`(?i)\b(?:by|in|before|during)\s+Q[1-4]\s*\d{4}?\b`),
	// Year references: "by 2026", "in 2027", "by end of 2025".
	regexp.MustCompile(`(?i)\b(?:by|in|before|during)\s+(?:end\s+of\s+)?\d{4}\b`),
	// Relative time: "this week", "next month".
	regexp.MustCompile(`(?i)\b(?:this|next)\s+(?:week|month|quarter|year)\b`),
	regexp.MustCompile(`(?i)\bwithin\s+\d+\s+(?:days?|weeks?|months?|years?)\b`),
	// "by end of week/month/year".
	regexp.MustCompile(`(?i)\bby\s+(?:end\s+of\s+)?(?:the\s+)?(?:week|month|quarter|year)\b`),
	// ISO dates.
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	// "in N days/weeks/months/years".
	regexp.MustCompile(`(?i)\bin\s+\d+\s+(?:days?|weeks?|months?|years?)\b`),
	// EOY, EOM, EOW, EOD.
	regexp.MustCompile(`\b(?:EOY|EOM|EOW|EOD)\b`),
	// Month-year combos without preposition.
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
}

// priceRe extracts a dollar amount, optionally suffixed with k (x1000).
var priceRe = regexp.MustCompile(`(?i)\$\s*([\d,]+\.?\d*)\s*(k)?`)

// confidenceRe extracts a bare percentage literal.
var confidenceRe = regexp.MustCompile(`(\d{1,3})\s*%`)

// cryptoAsset maps a text symbol to its price-oracle asset identifier.
// The table is ordered; the first word-boundary hit wins.
type cryptoAsset struct {
	symbol string
	id     string
}

var cryptoAssets = []cryptoAsset{
	{"btc", "bitcoin"}, {"bitcoin", "bitcoin"},
	{"eth", "ethereum"}, {"ethereum", "ethereum"},
	{"sol", "solana"}, {"solana", "solana"},
	{"bnb", "binancecoin"}, {"doge", "dogecoin"},
	{"ada", "cardano"}, {"xrp", "ripple"},
	{"dot", "polkadot"}, {"avax", "avalanche-2"},
	{"matic", "matic-network"}, {"link", "chainlink"},
	{"atom", "cosmos"}, {"uni", "uniswap"},
	{"arb", "arbitrum"}, {"op", "optimism"},
	{"sui", "sui"},
}

var assetRes = compileAssetRes()

func compileAssetRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(cryptoAssets))
	for i, a := range cryptoAssets {
		res[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(a.symbol) + `\b`)
	}
	return res
}

// bearishWords flip an extracted price target to the "below" direction.
var bearishWords = []string{"drop", "fall", "below", "crash", "dump", "under"}

// categoryVocab pairs a category with its keyword vocabulary. Evaluated in
// order; the first vocabulary with any matching keyword wins, so a text
// mentioning both a dollar amount and an election files under crypto.
type categoryVocab struct {
	category domain.Category
	words    []string
}

var categoryVocabs = []categoryVocab{
	{domain.CategoryCrypto, []string{"btc", "eth", "sol", "bitcoin", "ethereum", "crypto", "token", "defi", "$"}},
	{domain.CategoryPolitics, []string{"election", "president", "congress", "vote", "poll"}},
	{domain.CategoryAI, []string{"ai", "gpt", "model", "agent", "llm", "agi"}},
	{domain.CategoryMarkets, []string{"stock", "market", "s&p", "nasdaq", "dow"}},
}
