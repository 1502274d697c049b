package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// CSVHeader is the first record of the CSV export.
var CSVHeader = []string{"report_id", "document", "severity", "category", "location", "criteria", "description", "suggestion"}

// CSV renders one record per issue, most severe first.
func CSV(r domain.AuditReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	for _, sev := range domain.Severities {
		for _, is := range r.Findings.BySeverity.For(sev) {
			rec := []string{
				r.ReportID,
				r.Document.Filename,
				string(is.Severity),
				string(is.Category),
				is.Location,
				strings.Join(is.Rules, ";"),
				is.Description,
				is.Suggestion,
			}
			if err := w.Write(rec); err != nil {
				return nil, fmt.Errorf("writing csv: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}
