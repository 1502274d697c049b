// Package export renders audit reports as JSON, HTML, Markdown or CSV.
// Rendering is pure: every number comes from the report.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Formats lists the export formats.
var Formats = []string{FormatJSON, FormatHTML, FormatMarkdown, FormatCSV}

// ParseFormat normalises a format name. "md" is accepted for markdown.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if f == "md" {
		f = FormatMarkdown
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", domain.ErrUnsupportedFormat, s, strings.Join(Formats, ", "))
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json"
	}
}

// Export renders the report in the given format.
func Export(r domain.AuditReport, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatHTML:
		return HTML(r)
	case FormatMarkdown:
		return []byte(MarkdownReport(r)), nil
	case FormatCSV:
		return CSV(r)
	default:
		return JSON(r)
	}
}

// JSON renders the report as indented JSON.
func JSON(r domain.AuditReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(data, '\n'), nil
}
