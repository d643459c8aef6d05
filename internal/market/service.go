// Package market governs the structured-market lifecycle: creation, commitment
// sync from forum comments, the open -> closed -> resolved state machine, and
// oracle-driven resolution with Brier scoring.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
	"github.com/soothsayer/adjudicator/internal/oracle"
	"github.com/soothsayer/adjudicator/internal/platform/moltbook"
	"github.com/soothsayer/adjudicator/internal/scoring"
)

// commitRe matches commitment comments such as "[COMMIT] YES 75%".
var commitRe = regexp.MustCompile(`(?i)\[COMMIT\]\s*(YES|NO)\s*(\d{1,3})%?`)

// Forum is the narrow slice of the platform client the service needs.
type Forum interface {
	ListComments(ctx context.Context, postID string) ([]moltbook.Comment, error)
	CreatePost(ctx context.Context, submolt, title, content string) (string, error)
	CreateComment(ctx context.Context, postID, content string) (string, error)
}

// OutcomeFetcher resolves a market's source descriptor to an outcome.
type OutcomeFetcher interface {
	FetchOutcome(ctx context.Context, source string, threshold float64, op domain.Operator) oracle.Outcome
}

// Service owns market lifecycle operations over the market snapshot store.
type Service struct {
	store  domain.MarketStore
	forum  Forum
	oracle OutcomeFetcher
	logger *slog.Logger
	now    func() time.Time
}

// New creates a market Service. forum may be nil for offline operations
// (list, show, advance, resolve without posting).
func New(store domain.MarketStore, forum Forum, fetcher OutcomeFetcher, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		forum:  forum,
		oracle: fetcher,
		logger: logger.With(slog.String("component", "market")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the service clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateParams are the inputs for declaring a new market.
type CreateParams struct {
	Question  string
	Deadline  time.Time
	Source    string
	Threshold float64
	Operator  domain.Operator
	Submolt   string
	DryRun    bool
}

// Create declares a new market, posts it to the forum (unless DryRun), and
// persists it in open state with no commitments. An existing market with the
// same question and deadline is returned with domain.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, p CreateParams) (*domain.Market, error) {
	if !p.Deadline.After(s.now()) {
		return nil, fmt.Errorf("market: %w: deadline must be in the future", domain.ErrInvalidDeadline)
	}
	sourceType, _ := domain.ParseSource(p.Source)
	if sourceType != domain.SourceCoingecko && sourceType != domain.SourceManual {
		return nil, fmt.Errorf("market: unknown resolution source %q", p.Source)
	}
	if sourceType == domain.SourceCoingecko && !domain.ValidOperator(string(p.Operator)) {
		return nil, fmt.Errorf("market: operator required for %s sources", domain.SourceCoingecko)
	}

	deadlineStr := p.Deadline.UTC().Format(time.RFC3339)
	id := domain.MarketFingerprint(p.Question, deadlineStr)

	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return nil, err
	}
	if existing, ok := book.Markets[id]; ok {
		return existing, fmt.Errorf("market: %s %w", id, domain.ErrAlreadyExists)
	}

	m := &domain.Market{
		ID:          id,
		Question:    p.Question,
		Deadline:    p.Deadline.UTC(),
		Source:      p.Source,
		Threshold:   p.Threshold,
		Operator:    p.Operator,
		Status:      domain.MarketStatusOpen,
		Submolt:     p.Submolt,
		Commitments: []domain.Commitment{},
		CreatedAt:   s.now(),
	}

	content := FormatMarketPost(m)
	if p.DryRun {
		s.logger.InfoContext(ctx, "dry run, market not posted", slog.String("market_id", id))
		fmt.Println(content)
		return m, nil
	}

	if s.forum == nil {
		return nil, fmt.Errorf("market: no forum client configured")
	}
	postID, err := s.forum.CreatePost(ctx, p.Submolt, "🔮 "+p.Question, content)
	if err != nil {
		return nil, fmt.Errorf("market: create post: %w", err)
	}
	m.PostID = postID

	book.Markets[id] = m
	if err := s.store.SaveMarkets(ctx, book); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "market created",
		slog.String("market_id", id),
		slog.String("post_id", postID),
	)
	return m, nil
}

// Get returns a market by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Market, error) {
	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := book.Markets[id]
	if !ok {
		return nil, fmt.Errorf("market: %s: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

// List returns all markets.
func (s *Service) List(ctx context.Context) (map[string]*domain.Market, error) {
	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return nil, err
	}
	return book.Markets, nil
}

// SyncCommitments scans the comments under every open market's forum post for
// "[COMMIT] YES 75%" declarations and records them. At most one commitment
// per agent is kept; the first wins and later duplicates are ignored.
func (s *Service) SyncCommitments(ctx context.Context) error {
	if s.forum == nil {
		return fmt.Errorf("market: no forum client configured")
	}

	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return err
	}

	for id, m := range book.Markets {
		if m.Status != domain.MarketStatusOpen || m.PostID == "" {
			continue
		}

		comments, err := s.forum.ListComments(ctx, m.PostID)
		if err != nil {
			// One market's sync failure must not abort the rest.
			s.logger.WarnContext(ctx, "commitment sync failed",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}

		added := s.recordCommitments(m, comments)
		if added > 0 {
			s.logger.InfoContext(ctx, "commitments synced",
				slog.String("market_id", id),
				slog.Int("added", added),
			)
		}
	}

	return s.store.SaveMarkets(ctx, book)
}

// recordCommitments appends new, valid commitments from comments to m and
// returns the number added.
func (s *Service) recordCommitments(m *domain.Market, comments []moltbook.Comment) int {
	added := 0
	for i := range comments {
		c := &comments[i]
		agent := c.AgentName()
		if m.HasCommitment(agent) {
			continue
		}

		match := commitRe.FindStringSubmatch(c.Content)
		if match == nil {
			continue
		}

		pct, err := strconv.Atoi(match[2])
		if err != nil || pct < 1 || pct > 100 {
			continue
		}

		position := domain.PositionYes
		if strings.EqualFold(match[1], "NO") {
			position = domain.PositionNo
		}

		ts := c.CreatedAt
		if ts == "" {
			ts = s.now().Format(time.RFC3339)
		}

		m.Commitments = append(m.Commitments, domain.Commitment{
			Agent:      agent,
			Position:   position,
			Confidence: float64(pct) / 100.0,
			Timestamp:  ts,
			CommentID:  c.ID,
		})
		added++
	}
	return added
}

// AdvanceStates moves every open market whose deadline has passed to closed.
// Already-closed and resolved markets are untouched, so the check is
// idempotent and status only ever advances. It returns the ids of markets
// that just closed.
func (s *Service) AdvanceStates(book *domain.MarketBook) []string {
	now := s.now()
	var newlyClosed []string

	for id, m := range book.Markets {
		if m.Status != domain.MarketStatusOpen {
			continue
		}
		if now.Before(m.Deadline) {
			continue
		}

		closedAt := now
		m.Status = domain.MarketStatusClosed
		m.ClosedAt = &closedAt
		newlyClosed = append(newlyClosed, id)
		s.logger.Info("market closed",
			slog.String("market_id", id),
			slog.Time("deadline", m.Deadline),
		)
	}

	return newlyClosed
}

// Resolve settles a single closed market: the oracle produces the outcome,
// every commitment recorded so far is Brier-scored once, and the market
// becomes resolved. When the oracle cannot produce a usable outcome the
// market stays closed for a later retry; that is a recoverable condition, not
// a failure state.
func (s *Service) Resolve(ctx context.Context, m *domain.Market) (bool, error) {
	switch m.Status {
	case domain.MarketStatusResolved:
		return false, nil
	case domain.MarketStatusClosed:
		// eligible
	default:
		return false, fmt.Errorf("market: %s: %w (status %s)", m.ID, domain.ErrMarketNotClosed, m.Status)
	}

	out := s.oracle.FetchOutcome(ctx, m.Source, m.Threshold, m.Operator)
	if out.Result == nil {
		s.logger.InfoContext(ctx, "market not auto-resolvable",
			slog.String("market_id", m.ID),
			slog.String("reason", out.Description),
		)
		return false, nil
	}

	resolvedAt := s.now()
	m.Scores = scoring.ScoreMarket(m, *out.Result)
	m.Status = domain.MarketStatusResolved
	m.Outcome = domain.PositionNo
	if *out.Result {
		m.Outcome = domain.PositionYes
	}
	m.OutcomeValue = out.Value
	m.OutcomeDescription = out.Description
	m.ResolvedAt = &resolvedAt

	s.logger.InfoContext(ctx, "market resolved",
		slog.String("market_id", m.ID),
		slog.String("outcome", string(m.Outcome)),
		slog.String("description", out.Description),
		slog.Int("scored", len(m.Scores)),
	)
	return true, nil
}

// ResolveAll advances states and then attempts to resolve every closed
// market. A single market's oracle failure never prevents the rest from being
// processed; the mutated snapshot is persisted regardless of partial
// completion. It returns the resolved market ids.
func (s *Service) ResolveAll(ctx context.Context, only string) ([]string, error) {
	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return nil, err
	}

	s.AdvanceStates(book)

	var resolved []string
	for id, m := range book.Markets {
		if only != "" && id != only {
			continue
		}
		if m.Status != domain.MarketStatusClosed {
			continue
		}
		ok, err := s.Resolve(ctx, m)
		if err != nil {
			s.logger.WarnContext(ctx, "market resolution failed",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok {
			resolved = append(resolved, id)
		}
	}

	if err := s.store.SaveMarkets(ctx, book); err != nil {
		return resolved, err
	}
	return resolved, nil
}

// PostResults publishes a resolved market's outcome and per-agent scores as a
// comment on the market post. Posting is recorded so reruns do not duplicate
// the comment.
func (s *Service) PostResults(ctx context.Context, id string) error {
	if s.forum == nil {
		return fmt.Errorf("market: no forum client configured")
	}

	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return err
	}
	m, ok := book.Markets[id]
	if !ok {
		return fmt.Errorf("market: %s: %w", id, domain.ErrNotFound)
	}
	if m.Status != domain.MarketStatusResolved {
		return fmt.Errorf("market: %s not resolved yet (status %s)", id, m.Status)
	}
	if m.PostID == "" {
		return fmt.Errorf("market: %s has no forum post", id)
	}
	if m.ResultsPosted {
		return nil
	}

	commentID, err := s.forum.CreateComment(ctx, m.PostID, FormatResultsPost(m))
	if err != nil {
		return fmt.Errorf("market: post results for %s: %w", id, err)
	}

	m.ResultsPosted = true
	m.ResultsCommentID = commentID
	return s.store.SaveMarkets(ctx, book)
}
