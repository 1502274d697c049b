package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/cache"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

type countingExtractor struct {
	calls int
	err   error
}

func (c *countingExtractor) Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.ExtractedDocument{Filename: filepath.Base(path), Text: string(data), PageCount: 1, ByteLength: int64(len(data))}, nil
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := cache.New(t.TempDir())
	original := &domain.CachedExtraction{SourceHash: "abc123", Filename: "report.pdf", Text: "Hello", PageCount: 3}

	require.NoError(t, store.Save("k1", original))

	loaded, err := store.Load("k1")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStore_LoadNonExistent(t *testing.T) {
	loaded, err := cache.New(t.TempDir()).Load("missing")

	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Invalidate(t *testing.T) {
	store := cache.New(t.TempDir())
	require.NoError(t, store.Save("k1", &domain.CachedExtraction{SourceHash: "abc"}))

	require.NoError(t, store.Invalidate("k1"))

	loaded, err := store.Load("k1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_InvalidateNonExistent(t *testing.T) {
	assert.NoError(t, cache.New(t.TempDir()).Invalidate("missing"))
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".a11ykraft", "cache"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".a11ykraft", "cache", "bad.json"), []byte("{"), 0644))

	_, err := cache.New(dir).Load("bad")

	assert.Error(t, err)
}

func TestExtractor_ServesUnchangedFileFromCache(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(doc, []byte("first version"), 0644))
	inner := &countingExtractor{}
	ext := cache.NewExtractor(inner, cache.New(dir))

	first, err := ext.Extract(context.Background(), doc)
	require.NoError(t, err)
	second, err := ext.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestExtractor_ReextractsChangedFile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(doc, []byte("first version"), 0644))
	inner := &countingExtractor{}
	ext := cache.NewExtractor(inner, cache.New(dir))

	_, err := ext.Extract(context.Background(), doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(doc, []byte("second version"), 0644))
	got, err := ext.Extract(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "second version", got.Text)
}

func TestExtractor_ErrorsAreNotCached(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-garbage"), 0644))
	inner := &countingExtractor{err: domain.ErrExtraction}
	ext := cache.NewExtractor(inner, cache.New(dir))

	_, err := ext.Extract(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	_, err = ext.Extract(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrExtraction)

	assert.Equal(t, 2, inner.calls)
	assert.NoDirExists(t, filepath.Join(dir, ".a11ykraft", "cache"))
}

func TestExtractor_MissingFilePassesThrough(t *testing.T) {
	inner := &countingExtractor{err: domain.ErrExtraction}
	ext := cache.NewExtractor(inner, cache.New(t.TempDir()))

	_, err := ext.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Equal(t, 1, inner.calls)
}
