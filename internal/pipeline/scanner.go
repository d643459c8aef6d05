// Package pipeline runs the periodic passes over the forum and the prediction
// snapshot: scanning posts and comments for new predictions, and resolving
// pending predictions whose deadlines have passed.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soothsayer/adjudicator/internal/classify"
	"github.com/soothsayer/adjudicator/internal/deadline"
	"github.com/soothsayer/adjudicator/internal/domain"
	"github.com/soothsayer/adjudicator/internal/platform/moltbook"
)

// PostSource retrieves posts and their comments from the forum.
type PostSource interface {
	ListPosts(ctx context.Context, sort string, limit int) ([]moltbook.Post, error)
	ListComments(ctx context.Context, postID string) ([]moltbook.Comment, error)
}

// ScannerConfig tunes a scan pass.
type ScannerConfig struct {
	Sorts          []string
	PostLimit      int
	CommentWorkers int
	MinQuality     int
}

// Scanner ingests forum posts and comments, classifies them, and appends new
// pending predictions to the prediction snapshot.
type Scanner struct {
	store      domain.PredictionStore
	source     PostSource
	classifier *classify.Classifier
	cfg        ScannerConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewScanner creates a Scanner. Zero config fields fall back to the defaults
// used in production: hot and new feeds, 50 posts per feed, 8 comment workers.
func NewScanner(store domain.PredictionStore, source PostSource, cfg ScannerConfig, logger *slog.Logger) *Scanner {
	if len(cfg.Sorts) == 0 {
		cfg.Sorts = []string{"hot", "new"}
	}
	if cfg.PostLimit <= 0 {
		cfg.PostLimit = 50
	}
	if cfg.CommentWorkers <= 0 {
		cfg.CommentWorkers = 8
	}
	if cfg.MinQuality <= 0 {
		cfg.MinQuality = classify.DefaultMinQuality
	}
	return &Scanner{
		store:      store,
		source:     source,
		classifier: classify.New(cfg.MinQuality),
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "scanner")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the scanner clock. Intended for tests.
func (s *Scanner) SetClock(now func() time.Time) {
	s.now = now
}

// ScanStats summarizes one scan pass.
type ScanStats struct {
	RunID           string
	ScannedPosts    int
	ScannedComments int
	NewPredictions  int
	TotalTracked    int
}

// Run executes a single scan pass: fetch the configured feeds, classify every
// post and comment, and append predictions not already tracked. The pass is
// idempotent; fingerprints dedupe across feeds and across runs. A feed or
// comment fetch failure skips that item and the pass continues.
func (s *Scanner) Run(ctx context.Context) (ScanStats, error) {
	stats := ScanStats{RunID: uuid.NewString()}
	logger := s.logger.With(slog.String("run_id", stats.RunID))

	book, err := s.store.LoadPredictions(ctx)
	if err != nil {
		return stats, err
	}
	existing := book.Index()

	for _, sort := range s.cfg.Sorts {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("pipeline: scan cancelled: %w", err)
		}

		posts, err := s.source.ListPosts(ctx, sort, s.cfg.PostLimit)
		if err != nil {
			logger.WarnContext(ctx, "feed fetch failed",
				slog.String("sort", sort),
				slog.String("error", err.Error()),
			)
			continue
		}

		comments := s.fetchComments(ctx, logger, posts)

		for i := range posts {
			post := &posts[i]
			stats.ScannedPosts++

			fullText := post.Title + " " + post.Content
			if p := s.evaluate(post.AgentName(), fullText, post.ID, ""); p != nil {
				if s.append(book, existing, p) {
					stats.NewPredictions++
					logger.InfoContext(ctx, "prediction registered",
						slog.String("prediction_id", p.ID),
						slog.String("agent", p.Agent),
						slog.Int("quality", p.QualityScore),
					)
				}
			}

			for j := range comments[i] {
				c := &comments[i][j]
				stats.ScannedComments++

				if p := s.evaluate(c.AgentName(), c.Content, post.ID, c.ID); p != nil {
					if s.append(book, existing, p) {
						stats.NewPredictions++
						logger.InfoContext(ctx, "prediction registered",
							slog.String("prediction_id", p.ID),
							slog.String("agent", p.Agent),
							slog.Int("quality", p.QualityScore),
						)
					}
				}
			}
		}
	}

	stats.TotalTracked = len(book.Predictions)
	if err := s.store.SavePredictions(ctx, book); err != nil {
		return stats, err
	}

	logger.InfoContext(ctx, "scan complete",
		slog.Int("scanned_posts", stats.ScannedPosts),
		slog.Int("scanned_comments", stats.ScannedComments),
		slog.Int("new_predictions", stats.NewPredictions),
		slog.Int("total_tracked", stats.TotalTracked),
	)
	return stats, nil
}

// fetchComments retrieves comment threads for all posts with a bounded worker
// pool. A failed thread yields nil at its index; the scan treats that post as
// having no comments.
func (s *Scanner) fetchComments(ctx context.Context, logger *slog.Logger, posts []moltbook.Post) [][]moltbook.Comment {
	results := make([][]moltbook.Comment, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.CommentWorkers)

	for i := range posts {
		i := i
		g.Go(func() error {
			comments, err := s.source.ListComments(gctx, posts[i].ID)
			if err != nil {
				logger.WarnContext(gctx, "comment fetch failed",
					slog.String("post_id", posts[i].ID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = comments
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	_ = g.Wait()
	return results
}

// evaluate classifies one piece of text and, when it passes the prediction
// gate, builds the pending record. commentID is empty for post bodies.
func (s *Scanner) evaluate(agent, text, postID, commentID string) *domain.Prediction {
	isPred, quality := s.classifier.Classify(text)
	if !isPred {
		return nil
	}

	claim := classify.ExtractClaim(text)
	source := postID
	if commentID != "" {
		source = commentID
	}

	p := &domain.Prediction{
		ID:              domain.PredictionFingerprint(agent, claim, source),
		Agent:           agent,
		SourcePostID:    postID,
		SourceCommentID: commentID,
		Claim:           claim,
		Category:        classify.DetectCategory(claim),
		RegisteredAt:    s.now().Format(deadline.ISODate),
		QualityScore:    quality,
		PriceTarget:     classify.ExtractPriceTarget(text),
	}

	if dl, ok := deadline.Normalize(text, s.now()); ok {
		p.Deadline = dl
	}
	if conf, ok := classify.ExtractConfidence(text); ok {
		p.Confidence = &conf
	}
	return p
}

// append adds p to the book unless its fingerprint is already tracked.
func (s *Scanner) append(book *domain.PredictionBook, existing map[string]bool, p *domain.Prediction) bool {
	if existing[p.ID] {
		return false
	}
	book.Predictions = append(book.Predictions, p)
	existing[p.ID] = true
	return true
}
