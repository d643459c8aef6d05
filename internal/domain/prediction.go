package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Category is the heuristic topic classification of a free-form prediction.
type Category string

const (
	CategoryCrypto   Category = "crypto"
	CategoryPolitics Category = "politics"
	CategoryAI       Category = "ai"
	CategoryMarkets  Category = "markets"
	CategoryGeneral  Category = "general"
)

// Resolution is the terminal disposition of a free-form prediction. The empty
// string means the prediction is still pending.
type Resolution string

const (
	ResolutionNone          Resolution = ""
	ResolutionResolved      Resolution = "resolved"
	ResolutionExpired       Resolution = "expired_unresolved"
	ResolutionPendingManual Resolution = "pending_manual"
)

// Direction says which side of the target price makes a crypto claim true.
type Direction string

const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// PriceTarget is the asset/threshold/direction triple extracted from a crypto
// claim, used for automatic resolution against the price oracle.
type PriceTarget struct {
	Asset       string    `json:"asset"`
	TargetPrice float64   `json:"target_price"`
	Direction   Direction `json:"direction"`
}

// Prediction is a forecast inferred from unstructured forum text.
//
// A prediction transitions exactly once from pending to a terminal resolution;
// Outcome, Score, and ResolvedAt are write-once and set only by the resolution
// pass. Deadline is a canonical YYYY-MM-DD string where the normalizer could
// parse the expression, or the raw captured text otherwise (such records are
// excluded from chronological comparison).
type Prediction struct {
	ID              string       `json:"id"`
	Agent           string       `json:"agent"`
	SourcePostID    string       `json:"source_post_id"`
	SourceCommentID string       `json:"source_comment_id,omitempty"`
	Claim           string       `json:"claim"`
	Category        Category     `json:"category"`
	Deadline        string       `json:"deadline,omitempty"`
	RegisteredAt    string       `json:"registered_at"`
	Confidence      *float64     `json:"confidence,omitempty"`
	QualityScore    int          `json:"quality_score"`
	Resolution      Resolution   `json:"resolution,omitempty"`
	ResolvedAt      string       `json:"resolved_at,omitempty"`
	Outcome         *bool        `json:"outcome,omitempty"`
	Score           *float64     `json:"score,omitempty"`
	PriceTarget     *PriceTarget `json:"price_target,omitempty"`
}

// Pending reports whether the prediction is still awaiting resolution.
// pending_manual records remain eligible for the automatic resolution pass.
func (p *Prediction) Pending() bool {
	return p.Resolution == ResolutionNone || p.Resolution == ResolutionPendingManual
}

// PredictionFingerprint derives the stable identity of a prediction from the
// author, normalized claim, and source item. It is deterministic across runs
// and serves as the deduplication key.
func PredictionFingerprint(agent, claim, source string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", agent, claim, source)))
	return "pred_" + hex.EncodeToString(sum[:])[:8]
}
