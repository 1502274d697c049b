package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// Table is one inferred table: a run of consecutive table-like lines.
type Table struct {
	StartLine    int      `json:"start_line"`
	EndLine      int      `json:"end_line"`
	Rows         int      `json:"rows"`
	Columns      int      `json:"columns"`
	HeaderRow    []string `json:"header_row,omitempty"`
	HasHeaders   bool     `json:"has_headers"`
	HasCaption   bool     `json:"has_caption"`
	IsDataTable  bool     `json:"is_data_table"`
	IsComplex    bool     `json:"is_complex"`
	NumericRatio float64  `json:"numeric_ratio"`
}

// TableAnalysis lists the tables found in a document.
type TableAnalysis struct {
	Tables       []Table `json:"tables"`
	DataTables   int     `json:"data_tables"`
	LayoutTables int     `json:"layout_tables"`
	Truncated    bool    `json:"truncated"`
}

const (
	maxTables         = 10
	sampleRows        = 10
	dataTableRatio    = 0.3
	complexMaxColumns = 5
	complexMaxRows    = 10
)

var (
	aggregationRe  = regexp.MustCompile(`(?i)\b(total|sum|average)\b|[%$]`)
	numericCellRe  = regexp.MustCompile(`^[-+(]?[$€£¥]?\s?\d[\d,]*(\.\d+)?\s?%?\)?$`)
	headerWordRe   = regexp.MustCompile(`(?i)\b(name|type|date|value|description|id|category|status)\b`)
	spaceColumnsRe = regexp.MustCompile(`\s{2,}`)
)

// AnalyzeTables finds runs of at least two table-like lines and classifies
// each run.
func AnalyzeTables(text string) TableAnalysis {
	a := TableAnalysis{Tables: []Table{}}
	lines := strings.Split(text, "\n")

	var run [][]string
	start := 0
	flush := func(end int) {
		defer func() { run = nil }()
		if len(run) < 2 {
			return
		}
		if len(a.Tables) == maxTables {
			a.Truncated = true
			return
		}
		t := classifyTable(run)
		t.StartLine, t.EndLine = start+1, end
		a.Tables = append(a.Tables, t)
		if t.IsDataTable {
			a.DataTables++
		} else {
			a.LayoutTables++
		}
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !isTableLine(raw) {
			flush(i)
			continue
		}
		if run == nil {
			start = i
		}
		run = append(run, splitCells(line, raw))
	}
	flush(len(lines))
	return a
}

func isTableLine(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return strings.Count(raw, "|") >= 2 || strings.Count(raw, "\t") >= 2 || aggregationRe.MatchString(raw)
}

func splitCells(line, raw string) []string {
	var cells []string
	switch {
	case strings.Count(line, "|") >= 2:
		line = strings.TrimPrefix(strings.TrimSuffix(line, "|"), "|")
		cells = strings.Split(line, "|")
	case strings.Count(raw, "\t") >= 2:
		cells = strings.Split(strings.Trim(raw, " \t"), "\t")
	default:
		cells = spaceColumnsRe.Split(line, -1)
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func classifyTable(rows [][]string) Table {
	t := Table{Rows: len(rows)}
	for _, r := range rows {
		if len(r) > t.Columns {
			t.Columns = len(r)
		}
	}

	sample := rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}
	numeric, total := 0, 0
	for _, r := range sample {
		for _, c := range r {
			if c == "" {
				continue
			}
			total++
			if numericCellRe.MatchString(c) {
				numeric++
			}
		}
	}
	if total > 0 {
		t.NumericRatio = float64(numeric) / float64(total)
	}
	t.IsDataTable = t.NumericRatio > dataTableRatio

	first := rows[0]
	restRatio := 0.0
	for _, r := range rows[1:] {
		restRatio += numericRatio(r)
	}
	restRatio /= float64(len(rows) - 1)
	t.HasHeaders = headerWordRe.MatchString(strings.Join(first, " ")) || numericRatio(first) < restRatio
	if t.HasHeaders {
		t.HeaderRow = first
	}

	t.IsComplex = t.Columns > complexMaxColumns || t.Rows > complexMaxRows
	return t
}

func numericRatio(cells []string) float64 {
	numeric, total := 0, 0
	for _, c := range cells {
		if c == "" {
			continue
		}
		total++
		if numericCellRe.MatchString(c) {
			numeric++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(numeric) / float64(total)
}

// TableAnalyzer detects tables in plain text and checks their structure.
type TableAnalyzer struct {
	s settings
}

func NewTableAnalyzer(opts ...Option) *TableAnalyzer {
	return &TableAnalyzer{s: newSettings(opts)}
}

func (a *TableAnalyzer) Describe() domain.AnalyzerInfo {
	return domain.AnalyzerInfo{
		Name:    domain.AnalyzerTables,
		Purpose: "Detects delimited tables and checks data tables for headers, captions and complexity",
		Rules: []string{
			domain.RuleInfoRelationships, domain.RuleMeaningfulSequence, domain.RuleHeadingsLabels,
		},
	}
}

// Eligible requires the tables flag or a line with two or more pipes or tabs.
func (a *TableAnalyzer) Eligible(actx *domain.AnalysisContext) bool {
	if actx == nil {
		return false
	}
	if actx.HasTables() {
		return true
	}
	for _, line := range actx.Lines() {
		if strings.Count(line, "|") >= 2 || strings.Count(line, "\t") >= 2 {
			return true
		}
	}
	return false
}

// Run reports failures and recovered panics as Success=false, keeping
// the issues found so far.
func (a *TableAnalyzer) Run(ctx context.Context, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	return run(ctx, a.s, domain.AnalyzerTables, actx, gen, func(res *domain.Result) error {
		analysis := AnalyzeTables(actx.Text())
		res.Details = analysis
		for i, t := range analysis.Tables {
			if !t.IsDataTable {
				continue
			}
			issues, fixes := tableFindings(i+1, t)
			res.Issues = append(res.Issues, issues...)
			res.Fixes = append(res.Fixes, fixes...)
		}
		return nil
	})
}

func tableFindings(n int, t Table) ([]domain.Issue, []domain.Fix) {
	var issues []domain.Issue
	var fixes []domain.Fix
	loc := fmt.Sprintf("table %d (lines %d-%d)", n, t.StartLine, t.EndLine)

	if t.HasHeaders {
		fixes = append(fixes, domain.Fix{
			Kind:        "table_headers",
			Description: fmt.Sprintf("Tag the first row of table %d as column headers", n),
			Rules:       []string{domain.RuleInfoRelationships},
			Before:      "row 1 tagged as data cells",
			After:       fmt.Sprintf("row 1 tagged as header cells: %s", strings.Join(t.HeaderRow, ", ")),
		})
	} else {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryTableHeaders,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("Data table %d has no identifiable header row", n),
			Location:    loc,
			Rules:       []string{domain.RuleInfoRelationships},
			Suggestion:  "Add a header row and tag it so screen readers can announce column names",
		})
	}

	if !t.HasCaption {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryTableHeaders,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Data table %d has no caption", n),
			Location:    loc,
			Rules:       []string{domain.RuleInfoRelationships},
			Suggestion:  "Add a caption that summarises what the table shows",
		})
	}

	if t.IsComplex {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryTableHeaders,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Data table %d is complex (%d rows, %d columns)", n, t.Rows, t.Columns),
			Location:    loc,
			Rules:       []string{domain.RuleInfoRelationships},
			Suggestion:  "Split the table or associate cells with headers explicitly (scope or headers attributes)",
		})
	}

	return issues, fixes
}
