package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothsayer/adjudicator/internal/domain"
	"github.com/soothsayer/adjudicator/internal/platform/moltbook"
	"github.com/soothsayer/adjudicator/internal/store/jsonfile"
)

var scanNow = time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	posts      map[string][]moltbook.Post
	comments   map[string][]moltbook.Comment
	commentErr map[string]error
	feedErr    map[string]error
}

func (f *fakeSource) ListPosts(_ context.Context, sort string, _ int) ([]moltbook.Post, error) {
	if err := f.feedErr[sort]; err != nil {
		return nil, err
	}
	return f.posts[sort], nil
}

func (f *fakeSource) ListComments(_ context.Context, postID string) ([]moltbook.Comment, error) {
	if err := f.commentErr[postID]; err != nil {
		return nil, err
	}
	return f.comments[postID], nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newScanner(t *testing.T, source PostSource) (*Scanner, *jsonfile.Store) {
	t.Helper()
	store, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)

	s := NewScanner(store, source, ScannerConfig{}, discard())
	s.SetClock(func() time.Time { return scanNow })
	return s, store
}

func TestScanner_Run(t *testing.T) {
	source := &fakeSource{
		posts: map[string][]moltbook.Post{
			"hot": {
				{
					ID:      "post1",
					Title:   "[PREDICTION] BTC will hit $100k by March 15, 2027",
					Content: "I'm 80% sure about this one.",
					Agent:   &moltbook.Author{Name: "alpha"},
				},
				{
					ID:      "post2",
					Title:   "weekly open thread",
					Content: "what is everyone building?",
					Agent:   &moltbook.Author{Name: "mod"},
				},
			},
			// The same post in another feed must not double-register.
			"new": {
				{
					ID:      "post1",
					Title:   "[PREDICTION] BTC will hit $100k by March 15, 2027",
					Content: "I'm 80% sure about this one.",
					Agent:   &moltbook.Author{Name: "alpha"},
				},
			},
		},
		comments: map[string][]moltbook.Comment{
			"post1": {
				{
					ID:      "c1",
					Content: "I predict ETH will reach $5,000 by Q2 2027",
					Author:  &moltbook.Author{Name: "beta"},
				},
				{ID: "c2", Content: "bold call", Author: &moltbook.Author{Name: "gamma"}},
			},
		},
	}

	scanner, store := newScanner(t, source)
	ctx := context.Background()

	stats, err := scanner.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.ScannedPosts)
	assert.Equal(t, 4, stats.ScannedComments)
	assert.Equal(t, 2, stats.NewPredictions)
	assert.Equal(t, 2, stats.TotalTracked)
	assert.NotEmpty(t, stats.RunID)

	book, err := store.LoadPredictions(ctx)
	require.NoError(t, err)
	require.Len(t, book.Predictions, 2)

	btc := book.Predictions[0]
	assert.Equal(t, "alpha", btc.Agent)
	assert.Equal(t, "post1", btc.SourcePostID)
	assert.Empty(t, btc.SourceCommentID)
	assert.Equal(t, domain.CategoryCrypto, btc.Category)
	assert.Equal(t, "2027-03-15", btc.Deadline)
	assert.Equal(t, "2026-08-23", btc.RegisteredAt)
	require.NotNil(t, btc.Confidence)
	assert.InDelta(t, 0.80, *btc.Confidence, 1e-9)
	require.NotNil(t, btc.PriceTarget)
	assert.Equal(t, "bitcoin", btc.PriceTarget.Asset)
	assert.InDelta(t, 100000, btc.PriceTarget.TargetPrice, 1e-9)

	eth := book.Predictions[1]
	assert.Equal(t, "beta", eth.Agent)
	assert.Equal(t, "c1", eth.SourceCommentID)
	assert.Equal(t, "2027-06-30", eth.Deadline)

	// A second run over the same feeds registers nothing new.
	stats, err = scanner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.NewPredictions)
	assert.Equal(t, 2, stats.TotalTracked)
}

func TestScanner_FeedFailureSkipsFeed(t *testing.T) {
	source := &fakeSource{
		posts: map[string][]moltbook.Post{
			"new": {
				{
					ID:    "post1",
					Title: "[PREDICTION] SOL will break $500 by end of 2027",
					Agent: &moltbook.Author{Name: "alpha"},
				},
			},
		},
		feedErr: map[string]error{"hot": errors.New("503")},
	}

	scanner, _ := newScanner(t, source)
	stats, err := scanner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewPredictions)
}

func TestScanner_CommentFailureSkipsThread(t *testing.T) {
	source := &fakeSource{
		posts: map[string][]moltbook.Post{
			"hot": {
				{ID: "post1", Title: "discussion", Agent: &moltbook.Author{Name: "mod"}},
			},
			"new": {},
		},
		commentErr: map[string]error{"post1": errors.New("timeout")},
	}

	scanner, _ := newScanner(t, source)
	stats, err := scanner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ScannedPosts)
	assert.Zero(t, stats.ScannedComments)
}
