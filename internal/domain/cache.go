package domain

// CachedExtraction is extracted text stored alongside the hash of the file
// it came from.
type CachedExtraction struct {
	SourceHash string `json:"source_hash"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	PageCount  int    `json:"page_count"`
	ByteLength int64  `json:"byte_length"`
}

// IsInvalidated reports whether the source file changed since extraction.
func (c *CachedExtraction) IsInvalidated(sourceHash string) bool {
	return c.SourceHash != sourceHash
}

// Document returns the cached extraction as a document.
func (c *CachedExtraction) Document() *ExtractedDocument {
	return &ExtractedDocument{
		Filename:   c.Filename,
		Text:       c.Text,
		PageCount:  c.PageCount,
		ByteLength: c.ByteLength,
	}
}

// NewCachedExtraction records doc under sourceHash.
func NewCachedExtraction(sourceHash string, doc *ExtractedDocument) *CachedExtraction {
	return &CachedExtraction{
		SourceHash: sourceHash,
		Filename:   doc.Filename,
		Text:       doc.Text,
		PageCount:  doc.PageCount,
		ByteLength: doc.ByteLength,
	}
}
