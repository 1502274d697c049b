package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// Heading is one inferred heading.
type Heading struct {
	Text    string `json:"text"`
	Level   int    `json:"level"`
	Line    int    `json:"line"`
	Pattern string `json:"pattern"`
}

// Heading detection patterns, in the order they are tried.
const (
	PatternNumbered  = "numbered"
	PatternKeyword   = "keyword"
	PatternAllCaps   = "all_caps"
	PatternTitleCase = "title_case"
	PatternIsolated  = "isolated"
)

// HeadingAnalysis is the inferred heading outline of a document.
type HeadingAnalysis struct {
	Headings            []Heading `json:"headings"`
	HasLogicalStructure bool      `json:"has_logical_structure"`
	SkippedLevels       []int     `json:"skipped_levels"`
	DuplicateHeadings   []string  `json:"duplicate_headings"`
	EmptyHeadings       []Heading `json:"empty_headings"`
	H1Count             int       `json:"h1_count"`
	MultipleH1          bool      `json:"multiple_h1"`
}

var (
	numberedHeadingRe = regexp.MustCompile(`^((?:\d{1,3}\.)+\d{0,3})(?:\s+(.*))?$`)
	keywordHeadingRe  = regexp.MustCompile(`(?i)^(?:chapter|section|part)\s+(\d+|x{0,3}(?:ix|iv|v?i{0,3}))\b(.*)$`)
)

// noHeadingsMinLength is the text length above which a document without any
// heading is reported.
const noHeadingsMinLength = 2000

const maxHeadingLevel = 6

// AnalyzeHeadings infers headings from text and checks their hierarchy.
func AnalyzeHeadings(text string) HeadingAnalysis {
	lines := strings.Split(text, "\n")
	a := HeadingAnalysis{
		Headings:          []Heading{},
		SkippedLevels:     []int{},
		DuplicateHeadings: []string{},
		EmptyHeadings:     []Heading{},
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.ContainsAny(line, "|\t") {
			continue
		}
		nextBlank := i+1 >= len(lines) || strings.TrimSpace(lines[i+1]) == ""
		h, ok := classifyHeading(line, nextBlank, float64(i)/float64(len(lines)))
		if !ok {
			continue
		}
		h.Line = i + 1
		a.Headings = append(a.Headings, h)
	}

	a.HasLogicalStructure = true
	skipped := map[int]bool{}
	seen := map[string]int{}
	maxLevel := 0
	for _, h := range a.Headings {
		if h.Level > maxLevel+1 {
			a.HasLogicalStructure = false
			for l := maxLevel + 1; l < h.Level; l++ {
				skipped[l] = true
			}
		}
		if h.Level > maxLevel {
			maxLevel = h.Level
		}
		if h.Level == 1 {
			a.H1Count++
		}
		if strings.TrimSpace(h.Text) == "" {
			a.EmptyHeadings = append(a.EmptyHeadings, h)
			continue
		}
		seen[strings.ToLower(strings.TrimSpace(h.Text))]++
	}
	for l := range skipped {
		a.SkippedLevels = append(a.SkippedLevels, l)
	}
	sort.Ints(a.SkippedLevels)
	a.DuplicateHeadings = append(a.DuplicateHeadings, sortedKeys(seen, 2)...)
	a.MultipleH1 = a.H1Count > 1
	return a
}

func classifyHeading(line string, nextBlank bool, position float64) (Heading, bool) {
	if m := numberedHeadingRe.FindStringSubmatch(line); m != nil {
		prefix, rest := m[1], strings.TrimSpace(m[2])
		// "3.14" alone is a number; "3." alone is an empty numbered heading.
		if rest == "" && !strings.HasSuffix(prefix, ".") {
			return Heading{}, false
		}
		if runeLen(line) < 100 && (rest == "" || !endsSentence(rest)) {
			return Heading{Text: rest, Level: numberedLevel(prefix), Pattern: PatternNumbered}, true
		}
		return Heading{}, false
	}

	// The numeral group matches empty for prose such as "Part did".
	if m := keywordHeadingRe.FindStringSubmatch(line); m != nil && m[1] != "" {
		if runeLen(line) < 100 && !endsSentence(m[2]) {
			return Heading{Text: line, Level: 1, Pattern: PatternKeyword}, true
		}
		return Heading{}, false
	}

	n := runeLen(line)
	if n >= 3 && n <= 80 && isAllCaps(line) {
		return Heading{Text: line, Level: positionLevel(position), Pattern: PatternAllCaps}, true
	}

	if n < 100 && !endsSentence(line) && isTitleCase(line) {
		return Heading{Text: line, Level: positionLevel(position), Pattern: PatternTitleCase}, true
	}

	if n < 80 && nextBlank && !endsSentence(line) && hasLetter(line) {
		return Heading{Text: line, Level: positionLevel(position), Pattern: PatternIsolated}, true
	}

	return Heading{}, false
}

// numberedLevel counts the numeric components of a prefix: "1." is 1,
// "1.1" is 2, "1.1.1" is 3. Levels stop at 6.
func numberedLevel(prefix string) int {
	n := 0
	for _, part := range strings.Split(prefix, ".") {
		if part != "" {
			n++
		}
	}
	return min(n, maxHeadingLevel)
}

// positionLevel maps the relative position of a line to a heading level.
func positionLevel(pos float64) int {
	switch {
	case pos < 0.1:
		return 1
	case pos < 0.3:
		return 2
	case pos < 0.6:
		return 3
	default:
		return 4
	}
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 0
}

// isTitleCase reports whether more than 70% of the words start uppercase.
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		for _, r := range w {
			if unicode.IsUpper(r) {
				capitalized++
			}
			break
		}
	}
	return float64(capitalized)/float64(len(words)) > 0.7
}

// HeadingAnalyzer infers heading structure from text layout.
type HeadingAnalyzer struct {
	s settings
}

func NewHeadingAnalyzer(opts ...Option) *HeadingAnalyzer {
	return &HeadingAnalyzer{s: newSettings(opts)}
}

func (a *HeadingAnalyzer) Describe() domain.AnalyzerInfo {
	return domain.AnalyzerInfo{
		Name:    domain.AnalyzerHeadings,
		Purpose: "Infers heading hierarchy from numbering, capitalization and layout and checks it for gaps and duplicates",
		Rules: []string{
			domain.RuleInfoRelationships, domain.RuleBypassBlocks,
			domain.RuleHeadingsLabels, domain.RuleSectionHeadings,
		},
	}
}

// Eligible requires at least 50 characters of text.
func (a *HeadingAnalyzer) Eligible(actx *domain.AnalysisContext) bool {
	return actx != nil && len(strings.TrimSpace(actx.Text())) >= 50
}

// Run reports failures and recovered panics as Success=false, keeping
// the issues found so far.
func (a *HeadingAnalyzer) Run(ctx context.Context, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	return run(ctx, a.s, domain.AnalyzerHeadings, actx, gen, func(res *domain.Result) error {
		text := actx.Text()
		analysis := AnalyzeHeadings(text)
		res.Details = analysis
		res.Issues = append(res.Issues, headingIssues(analysis, len(text))...)
		return nil
	})
}

func headingIssues(a HeadingAnalysis, textLen int) []domain.Issue {
	var issues []domain.Issue

	if len(a.Headings) == 0 {
		if textLen > noHeadingsMinLength {
			issues = append(issues, domain.Issue{
				Category:    domain.CategoryHeadingStructure,
				Severity:    domain.SeverityHigh,
				Description: "No headings were detected in a long document",
				Rules:       []string{domain.RuleInfoRelationships, domain.RuleBypassBlocks},
				Suggestion:  "Structure the document with tagged headings so readers can navigate between sections",
			})
		}
		return issues
	}

	if a.MultipleH1 {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryHeadingStructure,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Document has %d top-level headings", a.H1Count),
			Location:    lineList(headingLines(a.Headings, func(h Heading) bool { return h.Level == 1 })),
			Rules:       []string{domain.RuleInfoRelationships, domain.RuleHeadingsLabels},
			Suggestion:  "Use a single level 1 heading for the document title and demote the others",
		})
	}

	if len(a.SkippedLevels) > 0 {
		levels := make([]string, len(a.SkippedLevels))
		for i, l := range a.SkippedLevels {
			levels[i] = fmt.Sprint(l)
		}
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryHeadingStructure,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Heading %s %s skipped", plural(len(levels), "level", "levels"), strings.Join(levels, ", ")),
			Rules:       []string{domain.RuleInfoRelationships, domain.RuleSectionHeadings},
			Suggestion:  "Nest headings one level at a time (H1, then H2, then H3)",
		})
	}

	if len(a.DuplicateHeadings) > 0 {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryHeadingStructure,
			Severity:    domain.SeverityLow,
			Description: fmt.Sprintf("Duplicate heading text: %s", quoteList(a.DuplicateHeadings, 5)),
			Rules:       []string{domain.RuleHeadingsLabels},
			Suggestion:  "Make each heading describe its own section",
		})
	}

	if len(a.EmptyHeadings) > 0 {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryHeadingStructure,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("%d %s no text", len(a.EmptyHeadings), plural(len(a.EmptyHeadings), "heading has", "headings have")),
			Location:    lineList(headingLines(a.EmptyHeadings, nil)),
			Rules:       []string{domain.RuleInfoRelationships, domain.RuleHeadingsLabels},
			Suggestion:  "Give every heading descriptive text or remove it",
		})
	}

	if !a.HasLogicalStructure {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryHeadingStructure,
			Severity:    domain.SeverityMedium,
			Description: "Heading hierarchy is not logical",
			Rules:       []string{domain.RuleInfoRelationships, domain.RuleSectionHeadings},
			Suggestion:  "Reorder heading levels so that no level appears before its parent",
		})
	}

	return issues
}

func headingLines(hs []Heading, keep func(Heading) bool) []int {
	var out []int
	for _, h := range hs {
		if keep == nil || keep(h) {
			out = append(out, h.Line)
		}
	}
	return out
}
