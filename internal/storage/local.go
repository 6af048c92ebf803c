// Package storage persists encoded buffers to a local directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/AnyUserName/imgshrink/internal/errors"
)

// DefaultKeepPattern matches files that eviction never removes.
const DefaultKeepPattern = "*.log"

// Persister is the collaborator the compressor uses when a caller asks for
// a file path instead of a buffer.
type Persister interface {
	Persist(buf []byte, ext string) (string, error)
}

// Local writes buffers into Dir under random file names. When Quota is
// positive, the directory may hold at most Quota bytes.
type Local struct {
	dir         string
	quota       int64
	keepPattern string
	perm        os.FileMode
	logger      *zap.Logger

	mu sync.Mutex // serializes quota checks with writes
}

// Option configures a Local store.
type Option func(*Local)

// WithQuota caps the total bytes held in the directory.
func WithQuota(n int64) Option { return func(l *Local) { l.quota = n } }

// WithKeepPattern sets the glob of files eviction leaves in place.
func WithKeepPattern(p string) Option { return func(l *Local) { l.keepPattern = p } }

// WithLogger sets the logger used to report evictions.
func WithLogger(log *zap.Logger) Option { return func(l *Local) { l.logger = log } }

// NewLocal creates a Local store rooted at dir.
func NewLocal(dir string, opts ...Option) (*Local, error) {
	l := &Local{
		dir:         dir,
		keepPattern: DefaultKeepPattern,
		perm:        0o644,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "local.new", fmt.Errorf("mkdir %s: %w", dir, err))
	}
	return l, nil
}

// Dir returns the storage root.
func (l *Local) Dir() string { return l.dir }

// Persist writes buf to a new file with the given extension and returns
// its path. On a quota failure every file not matching the keep pattern is
// evicted and the write is retried once.
func (l *Local) Persist(buf []byte, ext string) (string, error) {
	name := uuid.NewString() + "." + strings.TrimPrefix(ext, ".")
	path := filepath.Join(l.dir, name)

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.write(path, buf)
	if err == nil {
		return path, nil
	}
	if !isQuota(err) {
		return "", apperrors.Wrap(apperrors.CategoryStorage, "local.persist", err)
	}

	removed, evictErr := l.evict()
	l.logger.Warn("storage quota hit, evicted files",
		zap.String("dir", l.dir),
		zap.Int("removed", removed),
		zap.Error(evictErr),
	)

	if err := l.write(path, buf); err != nil {
		if isQuota(err) {
			return "", apperrors.New(apperrors.CategoryStorageQuota, "local.persist", err)
		}
		return "", apperrors.Wrap(apperrors.CategoryStorage, "local.persist.retry", err)
	}
	return path, nil
}

func (l *Local) write(path string, buf []byte) error {
	if l.quota > 0 {
		used, err := l.usage()
		if err != nil {
			return err
		}
		if used+int64(len(buf)) > l.quota {
			return fmt.Errorf("%w: %d used + %d new > %d", apperrors.ErrStorageQuota, used, len(buf), l.quota)
		}
	}
	if err := os.WriteFile(path, buf, l.perm); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func (l *Local) usage() (int64, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// evict removes every regular file in the directory that does not match
// the keep pattern.
func (l *Local) evict() (int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if keep, _ := filepath.Match(l.keepPattern, e.Name()); keep {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func isQuota(err error) bool {
	return errors.Is(err, apperrors.ErrStorageQuota) ||
		errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EDQUOT)
}
