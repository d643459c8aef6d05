// Package jsonfile persists the prediction, market, and leaderboard documents
// as whole-file JSON snapshots. Each snapshot is read wholesale, mutated in
// memory by the caller, and written back wholesale via an atomic
// temp-file-and-rename, so a crashed pass never leaves a torn document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// snapshotVersion is stamped into newly created documents.
const snapshotVersion = 2

// File names inside the data directory.
const (
	predictionsFile       = "predictions.json"
	marketsFile           = "markets.json"
	leaderboardFile       = "leaderboard.json"
	marketLeaderboardFile = "market_leaderboard.json"
	leaderboardPostFile   = "leaderboard_post.md"
)

// Store implements the domain snapshot store interfaces over a data
// directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadPredictions reads the prediction snapshot. A missing file yields an
// empty book; absent optional fields decode to their zero values and are
// treated as "not yet computed", not corruption.
func (s *Store) LoadPredictions(ctx context.Context) (*domain.PredictionBook, error) {
	book := &domain.PredictionBook{Version: snapshotVersion}
	if err := s.load(ctx, predictionsFile, book); err != nil {
		return nil, err
	}
	if book.Predictions == nil {
		book.Predictions = []*domain.Prediction{}
	}
	return book, nil
}

// SavePredictions atomically replaces the prediction snapshot.
func (s *Store) SavePredictions(ctx context.Context, book *domain.PredictionBook) error {
	return s.save(ctx, predictionsFile, book)
}

// LoadMarkets reads the market snapshot. A missing file yields an empty book.
func (s *Store) LoadMarkets(ctx context.Context) (*domain.MarketBook, error) {
	book := &domain.MarketBook{Version: snapshotVersion}
	if err := s.load(ctx, marketsFile, book); err != nil {
		return nil, err
	}
	if book.Markets == nil {
		book.Markets = map[string]*domain.Market{}
	}
	return book, nil
}

// SaveMarkets atomically replaces the market snapshot.
func (s *Store) SaveMarkets(ctx context.Context, book *domain.MarketBook) error {
	return s.save(ctx, marketsFile, book)
}

// SaveLeaderboard atomically replaces the free-form leaderboard projection.
func (s *Store) SaveLeaderboard(ctx context.Context, lb *domain.Leaderboard) error {
	return s.save(ctx, leaderboardFile, lb)
}

// LoadMarketLeaderboard reads the market leaderboard projection. A missing
// file yields an empty projection.
func (s *Store) LoadMarketLeaderboard(ctx context.Context) (*domain.MarketLeaderboard, error) {
	lb := &domain.MarketLeaderboard{}
	if err := s.load(ctx, marketLeaderboardFile, lb); err != nil {
		return nil, err
	}
	if lb.Agents == nil {
		lb.Agents = map[string]*domain.MarketAgentRecord{}
	}
	return lb, nil
}

// SaveMarketLeaderboard atomically replaces the market leaderboard projection.
func (s *Store) SaveMarketLeaderboard(ctx context.Context, lb *domain.MarketLeaderboard) error {
	return s.save(ctx, marketLeaderboardFile, lb)
}

// SaveLeaderboardPost writes the rendered markdown leaderboard post.
func (s *Store) SaveLeaderboardPost(ctx context.Context, markdown string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.dir, leaderboardPostFile), []byte(markdown))
}

// Path returns the absolute path of a snapshot file inside the data dir.
// Used by the archiver to upload raw snapshot bytes.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SnapshotFiles lists the snapshot file names the store manages.
func SnapshotFiles() []string {
	return []string{predictionsFile, marketsFile, leaderboardFile, marketLeaderboardFile}
}

func (s *Store) load(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jsonfile: read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("jsonfile: decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", name, err)
	}

	if err := writeAtomic(filepath.Join(s.dir, name), data); err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	return nil
}

// writeAtomic writes data to a sibling temp file and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
