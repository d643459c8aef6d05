package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// MarketStatus is the state-machine position of a structured market.
// Transitions only ever advance: open -> closed -> resolved.
type MarketStatus string

const (
	MarketStatusOpen     MarketStatus = "open"
	MarketStatusClosed   MarketStatus = "closed"
	MarketStatusResolved MarketStatus = "resolved"
)

// Position is a participant's declared side on a market.
type Position string

const (
	PositionYes Position = "YES"
	PositionNo  Position = "NO"
)

// Operator compares a fetched value against the market threshold.
type Operator string

const (
	OperatorGTE Operator = "gte"
	OperatorGT  Operator = "gt"
	OperatorLTE Operator = "lte"
	OperatorLT  Operator = "lt"
	OperatorEQ  Operator = "eq"
)

// eqTolerance is the absolute tolerance for the eq operator.
const eqTolerance = 0.01

// Compare applies the operator to (value, threshold). Unknown operators fall
// back to gte.
func (o Operator) Compare(value, threshold float64) bool {
	switch o {
	case OperatorGT:
		return value > threshold
	case OperatorLTE:
		return value <= threshold
	case OperatorLT:
		return value < threshold
	case OperatorEQ:
		return math.Abs(value-threshold) < eqTolerance
	default:
		return value >= threshold
	}
}

// Symbol returns the display glyph for the operator.
func (o Operator) Symbol() string {
	switch o {
	case OperatorGTE:
		return "≥"
	case OperatorGT:
		return ">"
	case OperatorLTE:
		return "≤"
	case OperatorLT:
		return "<"
	case OperatorEQ:
		return "="
	default:
		return "?"
	}
}

// ValidOperator reports whether s is a recognised operator name.
func ValidOperator(s string) bool {
	switch Operator(s) {
	case OperatorGTE, OperatorGT, OperatorLTE, OperatorLT, OperatorEQ:
		return true
	}
	return false
}

// Commitment is a participant's directional position and stated confidence on
// an open market. At most one commitment per agent is kept; the first wins.
type Commitment struct {
	Agent      string   `json:"agent"`
	Position   Position `json:"position"`
	Confidence float64  `json:"confidence"`
	Timestamp  string   `json:"timestamp"`
	CommentID  string   `json:"comment_id,omitempty"`
}

// CommitmentScore is the Brier result for one commitment, produced once at
// resolution and never recomputed.
type CommitmentScore struct {
	Agent      string   `json:"agent"`
	Position   Position `json:"position"`
	Confidence float64  `json:"confidence"`
	BrierScore float64  `json:"brier_score"`
	Correct    bool     `json:"correct"`
}

// Market is an explicitly declared prediction market with a question, a
// deadline, and a mechanical resolution rule.
type Market struct {
	ID                 string            `json:"id"`
	Question           string            `json:"question"`
	Deadline           time.Time         `json:"deadline"`
	Source             string            `json:"source"`
	Threshold          float64           `json:"threshold,omitempty"`
	Operator           Operator          `json:"operator,omitempty"`
	Status             MarketStatus      `json:"status"`
	PostID             string            `json:"moltbook_post_id,omitempty"`
	Submolt            string            `json:"submolt,omitempty"`
	Commitments        []Commitment      `json:"commitments"`
	Outcome            Position          `json:"outcome,omitempty"`
	OutcomeValue       *float64          `json:"outcome_value,omitempty"`
	OutcomeDescription string            `json:"outcome_description,omitempty"`
	Scores             []CommitmentScore `json:"scores,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	ClosedAt           *time.Time        `json:"closed_at,omitempty"`
	ResolvedAt         *time.Time        `json:"resolved_at,omitempty"`
	ResultsPosted      bool              `json:"results_posted,omitempty"`
	ResultsCommentID   string            `json:"results_comment_id,omitempty"`
	GraduationReady    bool              `json:"graduation_ready,omitempty"`
}

// HasCommitment reports whether the agent already committed on this market.
func (m *Market) HasCommitment(agent string) bool {
	for _, c := range m.Commitments {
		if c.Agent == agent {
			return true
		}
	}
	return false
}

// MarketFingerprint derives the stable identity of a market from its question
// and deadline string.
func MarketFingerprint(question, deadline string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", question, deadline)))
	return "market_" + hex.EncodeToString(sum[:])[:8]
}

// Resolution source descriptor types.
const (
	SourceCoingecko = "coingecko"
	SourceManual    = "manual"
)

// ParseSource splits a resolution source descriptor of the form
// "<type>:<identifier>" (e.g. "coingecko:ethereum") or the bare literal
// "manual" into its type and identifier.
func ParseSource(source string) (sourceType, identifier string) {
	parts := strings.SplitN(source, ":", 2)
	sourceType = parts[0]
	if len(parts) == 2 {
		identifier = parts[1]
	}
	return sourceType, identifier
}
