package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// SnapshotSource exposes the local snapshot files to archive.
type SnapshotSource interface {
	// Path resolves a snapshot file name to its absolute path.
	Path(name string) string
}

// SnapshotArchiver implements domain.Archiver by uploading dated copies of
// the JSON snapshot files after a pass. The archive is append-only history;
// restoring from it is a manual operation.
type SnapshotArchiver struct {
	writer domain.BlobWriter
	source SnapshotSource
	files  []string
	logger *slog.Logger
}

// NewSnapshotArchiver creates a SnapshotArchiver over the named snapshot
// files.
func NewSnapshotArchiver(writer domain.BlobWriter, source SnapshotSource, files []string, logger *slog.Logger) *SnapshotArchiver {
	return &SnapshotArchiver{
		writer: writer,
		source: source,
		files:  files,
		logger: logger.With(slog.String("component", "archiver")),
	}
}

// ArchiveSnapshots uploads every snapshot file that exists locally to
// archive/YYYY-MM-DD/<run-id>/<file>. Files not yet created (for example
// before the first scan) are skipped, not errors.
func (a *SnapshotArchiver) ArchiveSnapshots(ctx context.Context, runID string, when time.Time) error {
	prefix := path.Join("archive", when.Format("2006-01-02"), runID)
	uploaded := 0

	for _, name := range a.files {
		data, err := os.ReadFile(a.source.Path(name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("s3blob: read snapshot %s: %w", name, err)
		}

		key := path.Join(prefix, name)
		if err := a.writer.Put(ctx, key, bytes.NewReader(data), contentTypeFor(name)); err != nil {
			return fmt.Errorf("s3blob: archive snapshot %s: %w", name, err)
		}
		uploaded++
	}

	a.logger.InfoContext(ctx, "snapshots archived",
		slog.String("prefix", prefix),
		slog.Int("files", uploaded),
	)
	return nil
}

func contentTypeFor(name string) string {
	if strings.HasSuffix(name, ".md") {
		return "text/markdown"
	}
	return "application/json"
}

// Compile-time interface check.
var _ domain.Archiver = (*SnapshotArchiver)(nil)
