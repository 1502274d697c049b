package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

const htmlStyle = `body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#1b1b1b;line-height:1.5}
table{border-collapse:collapse;width:100%;margin:1rem 0}
th,td{border:1px solid #767676;padding:.4rem .6rem;text-align:left;vertical-align:top}
th{background:#f0f0f0}`

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the Markdown report through goldmark and wraps it in a
// standalone page. Raw HTML in issue text is not passed through.
func HTML(r domain.AuditReport) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(MarkdownReport(r)), &body); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}

	title := "Accessibility Audit Report"
	if r.Document.Filename != "" {
		title += ": " + r.Document.Filename
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&out, "<style>%s</style>\n</head>\n<body>\n<main>\n", htmlStyle)
	out.Write(body.Bytes())
	out.WriteString("</main>\n</body>\n</html>\n")
	return out.Bytes(), nil
}
