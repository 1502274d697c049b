// Package extractor turns document files into plain text for analysis.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/logging"
)

// DefaultMaxBytes rejects files larger than this before extraction.
const DefaultMaxBytes int64 = 64 << 20

var (
	plainExts    = map[string]bool{".txt": true, ".text": true, ".md": true, ".markdown": true}
	documentExts = map[string]bool{".pdf": true, ".docx": true, ".odt": true}
)

// FileExtractor implements domain.DocumentExtractor. Plain text files are
// read directly; PDF, DOCX and ODT files go through tabula.
type FileExtractor struct {
	maxBytes int64
	logger   *slog.Logger
}

func New() *FileExtractor {
	return &FileExtractor{maxBytes: DefaultMaxBytes, logger: logging.New("extractor")}
}

// NewWithLimit rejects files larger than maxBytes. maxBytes <= 0 disables
// the limit.
func NewWithLimit(maxBytes int64) *FileExtractor {
	e := New()
	e.maxBytes = maxBytes
	return e
}

// Supported reports whether the file extension can be extracted.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return plainExts[ext] || documentExts[ext]
}

func (e *FileExtractor) Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrExtraction, path)
	}
	if e.maxBytes > 0 && info.Size() > e.maxBytes {
		return nil, fmt.Errorf("%w: file is %d bytes (limit %d)", domain.ErrExtraction, info.Size(), e.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var doc *domain.ExtractedDocument
	switch {
	case plainExts[ext]:
		doc, err = e.extractPlain(path)
	case documentExts[ext]:
		doc, err = e.extractDocument(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrExtraction, ext)
	}
	if err != nil {
		return nil, err
	}

	doc.Filename = filepath.Base(path)
	doc.ByteLength = info.Size()
	return doc, nil
}

func (e *FileExtractor) extractPlain(path string) (*domain.ExtractedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	return &domain.ExtractedDocument{Text: string(data), PageCount: 1}, nil
}

type extraction struct {
	text  string
	pages int
	err   error
}

// extractDocument runs tabula in a goroutine so a canceled context returns
// promptly. The goroutine finishes on its own.
func (e *FileExtractor) extractDocument(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	done := make(chan extraction, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- extraction{err: fmt.Errorf("extractor panicked: %v", r)}
			}
		}()
		done <- e.runTabula(path)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, res.err)
		}
		return &domain.ExtractedDocument{Text: res.text, PageCount: res.pages}, nil
	}
}

func (e *FileExtractor) runTabula(path string) extraction {
	ext := tabula.Open(path)
	defer ext.Close()

	pages, err := ext.PageCount()
	if err != nil {
		return extraction{err: err}
	}

	text, warnings, err := ext.Text()
	if err != nil {
		return extraction{err: err}
	}
	if len(warnings) > 0 {
		e.logger.Debug("extraction warnings",
			slog.String("file", filepath.Base(path)),
			slog.Int("count", len(warnings)),
		)
	}
	return extraction{text: text, pages: pages}
}
