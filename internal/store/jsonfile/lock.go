package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/soothsayer/adjudicator/internal/domain"
)

const lockFile = "adjudicator.lock"

// Lock implements domain.Locker with an exclusively created lock file in the
// data directory. The snapshot documents assume a single writer; the lock
// makes that assumption explicit instead of relying on process accident.
type Lock struct {
	dir string
}

// NewLock creates a Lock for the store's data directory.
func NewLock(s *Store) *Lock {
	return &Lock{dir: s.dir}
}

// Acquire takes the lock or returns domain.ErrLockHeld when another pass
// already holds it. The returned unlock removes the lock file and is safe to
// call once.
func (l *Lock) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, lockFile)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("jsonfile: %w (lock file %s)", domain.ErrLockHeld, path)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: create lock: %w", err)
	}

	_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
	_ = f.Close()

	return func() {
		_ = os.Remove(path)
	}, nil
}

// Compile-time interface check.
var _ domain.Locker = (*Lock)(nil)
