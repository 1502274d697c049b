package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidContext is returned when an AnalysisContext cannot be built.
	ErrInvalidContext = errors.New("invalid analysis context")

	// ErrExtraction wraps failures of the document extraction provider
	// (corrupt, encrypted or unsupported files).
	ErrExtraction = errors.New("document extraction failed")

	// ErrUnsupportedFormat is returned for unknown export formats.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrQuotaExceeded is returned by fix generators when the provider
	// rejects requests for rate or quota reasons.
	ErrQuotaExceeded = errors.New("fix generator quota exceeded")
)

// ExtractedDocument is what the extraction provider returns for a file.
type ExtractedDocument struct {
	Filename   string
	Text       string
	PageCount  int
	ByteLength int64
}

// AnalysisContext is the immutable per-document input shared by all
// analyzers. Fields are unexported so that analyzers can only read it.
type AnalysisContext struct {
	filename   string
	text       string
	pageCount  int
	byteLength int64
	hasImages  bool
	hasTables  bool
	hasLinks   bool
	language   string
	level      Level
}

// ContextOptions carries caller-declared properties of the document. Nil
// flags are inferred from the text.
type ContextOptions struct {
	Language  string
	Level     Level
	HasImages *bool
	HasTables *bool
	HasLinks  *bool
}

// NewAnalysisContext validates and normalises an extracted document. The
// text is converted to valid UTF-8 in NFC form and line endings become "\n".
func NewAnalysisContext(doc ExtractedDocument, opts ContextOptions) (*AnalysisContext, error) {
	if doc.PageCount < 0 {
		return nil, fmt.Errorf("%w: page count %d is negative", ErrInvalidContext, doc.PageCount)
	}
	if doc.ByteLength < 0 {
		return nil, fmt.Errorf("%w: byte length %d is negative", ErrInvalidContext, doc.ByteLength)
	}

	level := opts.Level
	if level == "" {
		level = LevelAA
	}
	if _, err := ParseLevel(string(level)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}

	text := doc.Text
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	flags := DetectContentFlags(text)
	if opts.HasImages != nil {
		flags.HasImages = *opts.HasImages
	}
	if opts.HasTables != nil {
		flags.HasTables = *opts.HasTables
	}
	if opts.HasLinks != nil {
		flags.HasLinks = *opts.HasLinks
	}

	byteLength := doc.ByteLength
	if byteLength == 0 {
		byteLength = int64(len(doc.Text))
	}

	return &AnalysisContext{
		filename:   doc.Filename,
		text:       text,
		pageCount:  doc.PageCount,
		byteLength: byteLength,
		hasImages:  flags.HasImages,
		hasTables:  flags.HasTables,
		hasLinks:   flags.HasLinks,
		language:   strings.TrimSpace(opts.Language),
		level:      level,
	}, nil
}

func (c *AnalysisContext) Filename() string  { return c.filename }
func (c *AnalysisContext) Text() string      { return c.text }
func (c *AnalysisContext) PageCount() int    { return c.pageCount }
func (c *AnalysisContext) ByteLength() int64 { return c.byteLength }
func (c *AnalysisContext) HasImages() bool   { return c.hasImages }
func (c *AnalysisContext) HasTables() bool   { return c.hasTables }
func (c *AnalysisContext) HasLinks() bool    { return c.hasLinks }
func (c *AnalysisContext) Language() string  { return c.language }
func (c *AnalysisContext) Level() Level      { return c.level }

// Lines splits the text into lines without trailing carriage returns.
func (c *AnalysisContext) Lines() []string {
	return strings.Split(c.text, "\n")
}

// ContentFlags records which kinds of content a document appears to contain.
type ContentFlags struct {
	HasImages bool `json:"has_images"`
	HasTables bool `json:"has_tables"`
	HasLinks  bool `json:"has_links"`
}

var (
	imageHintRe = regexp.MustCompile(`(?i)\b(figure|fig\.|image|chart|graph|diagram|photo|illustration|screenshot)\s*\d`)
	linkHintRe  = regexp.MustCompile(`(?i)(https?://|www\.|[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,})`)
)

// DetectContentFlags infers content presence from plain text.
func DetectContentFlags(text string) ContentFlags {
	var f ContentFlags
	f.HasImages = imageHintRe.MatchString(text)
	f.HasLinks = linkHintRe.MatchString(text)
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "|") >= 2 || strings.Count(line, "\t") >= 2 {
			f.HasTables = true
			break
		}
	}
	return f
}

// DocumentInfo identifies the audited document in reports.
type DocumentInfo struct {
	Filename   string `json:"filename"`
	PageCount  int    `json:"page_count"`
	ByteLength int64  `json:"byte_length"`
	Language   string `json:"language,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
}

// Info returns the DocumentInfo for this context.
func (c *AnalysisContext) Info() DocumentInfo {
	return DocumentInfo{
		Filename:   c.filename,
		PageCount:  c.pageCount,
		ByteLength: c.byteLength,
		Language:   c.language,
	}
}
