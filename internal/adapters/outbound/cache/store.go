// Package cache keeps extracted document text on disk so that unchanged
// files are not parsed again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/logging"
)

// Store is a file-based cache of extractions under <dir>/.a11ykraft/cache.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the cached extraction for key. Returns (nil, nil) if none exists.
func (s *Store) Load(key string) (*domain.CachedExtraction, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no cache is not an error
		}
		return nil, err
	}

	var c domain.CachedExtraction
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes an extraction under key, creating directories as needed.
func (s *Store) Save(key string, c *domain.CachedExtraction) error {
	if err := os.MkdirAll(s.cacheDir(), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(key), data, 0644)
}

// Invalidate removes the entry for key.
func (s *Store) Invalidate(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) cacheDir() string {
	return filepath.Join(s.dir, ".a11ykraft", "cache")
}

func (s *Store) path(key string) string {
	return filepath.Join(s.cacheDir(), key+".json")
}

// Extractor wraps a domain.DocumentExtractor and serves repeat extractions
// of unchanged files from a Store.
type Extractor struct {
	next   domain.DocumentExtractor
	store  *Store
	logger *slog.Logger
}

func NewExtractor(next domain.DocumentExtractor, store *Store) *Extractor {
	return &Extractor{next: next, store: store, logger: logging.New("cache")}
}

func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	hash, err := fileHash(path)
	if err != nil {
		// Let the wrapped extractor produce its own error.
		return e.next.Extract(ctx, path)
	}
	key := pathKey(path)

	cached, err := e.store.Load(key)
	if err != nil {
		e.logger.Debug("cache unreadable", slog.String("path", path), slog.String("error", err.Error()))
	}
	if cached != nil && !cached.IsInvalidated(hash) {
		e.logger.Debug("cache hit", slog.String("path", path))
		return cached.Document(), nil
	}

	doc, err := e.next.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(key, domain.NewCachedExtraction(hash, doc)); err != nil {
		e.logger.Warn("saving cache failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	return doc, nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// pathKey names the cache entry for a file path.
func pathKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:8])
}
