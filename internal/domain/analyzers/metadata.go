package analyzers

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/camelcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// DocumentMetadata is the document property set as far as it can be inferred
// from a filename and a declared language. Author, subject and keywords are
// never available from plain text and the document is never tagged.
type DocumentMetadata struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Keywords []string `json:"keywords"`
	Language string   `json:"language"`
	Tagged   bool     `json:"tagged"`
}

// MetadataRecommendations are values derived from the content.
type MetadataRecommendations struct {
	Title    string   `json:"title,omitempty"`
	Subject  string   `json:"subject"`
	Keywords []string `json:"keywords"`
}

// MetadataAnalysis is the outcome of inspecting document properties.
type MetadataAnalysis struct {
	Metadata        DocumentMetadata        `json:"metadata"`
	Missing         []string                `json:"missing"`
	Inadequate      []string                `json:"inadequate"`
	Recommendations MetadataRecommendations `json:"recommendations"`
}

// Metadata property names used in Missing and Inadequate.
const (
	PropTitle    = "title"
	PropAuthor   = "author"
	PropSubject  = "subject"
	PropKeywords = "keywords"
	PropLanguage = "language"
	PropTagged   = "tagged"
)

const (
	minTitleLen     = 10
	maxTitleLen     = 100
	titleScanLines  = 5
	minSubjectLen   = 10
	minKeywordTerms = 3
	minKeywordLen   = 4
	minKeywordCount = 2
	maxKeywords     = 8
)

var (
	filenameSepRe      = regexp.MustCompile(`[_\-.]+`)
	leadingNumberRe    = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+`)
	keywordTokenRe     = regexp.MustCompile(`\p{L}[\p{L}\p{N}'-]*`)
	placeholderTitleRe = regexp.MustCompile(`(?i)\b(untitled|document)\b`)
)

var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "because": true, "been": true,
	"before": true, "between": true, "both": true, "could": true, "does": true,
	"done": true, "during": true, "each": true, "from": true, "have": true,
	"here": true, "into": true, "just": true, "many": true, "more": true,
	"most": true, "much": true, "must": true, "only": true, "other": true,
	"over": true, "page": true, "shall": true, "should": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "upon": true, "very": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"while": true, "will": true, "with": true, "within": true, "without": true,
	"would": true, "your": true,
}

// subjectRules are tried in order; the first whose terms appear wins.
var subjectRules = []struct {
	re      *regexp.Regexp
	subject string
}{
	{regexp.MustCompile(`(?i)\breports?\b`), "Report document containing analysis and findings"},
	{regexp.MustCompile(`(?i)\b(manual|guide|handbook|instructions?)\b`), "Instructional manual providing guidance and procedures"},
	{regexp.MustCompile(`(?i)\b(policy|policies|regulations?|compliance)\b`), "Policy document outlining rules and guidelines"},
	{regexp.MustCompile(`(?i)\b(financial|budget|revenue|fiscal|expenses?)\b`), "Financial document containing monetary information and analysis"},
	{regexp.MustCompile(`(?i)\b(research|study|studies|hypothesis|methodology)\b`), "Research document presenting studies and results"},
	{regexp.MustCompile(`(?i)\b(technical|specifications?|architecture|system)\b`), "Technical documentation describing systems and specifications"},
	{regexp.MustCompile(`(?i)\b(training|course|lesson|curriculum)\b`), "Training material for educational purposes"},
}

const defaultSubject = "Document containing information and content"

// InferMetadata derives the document properties available without parsing
// the original file.
func InferMetadata(filename, lang string) DocumentMetadata {
	return DocumentMetadata{
		Title:    TitleFromFilename(filename),
		Keywords: []string{},
		Language: strings.TrimSpace(lang),
	}
}

// TitleFromFilename turns "annual_report-2024.pdf" or "AnnualReport2024.pdf"
// into "Annual Report 2024".
func TitleFromFilename(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var words []string
	for _, field := range strings.Fields(filenameSepRe.ReplaceAllString(base, " ")) {
		for _, w := range camelcase.Split(field) {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
	}
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}

// RecommendMetadata derives a title, subject and keywords from content.
func RecommendMetadata(text string) MetadataRecommendations {
	return MetadataRecommendations{
		Title:    recommendTitle(text),
		Subject:  recommendSubject(text),
		Keywords: extractKeywords(text),
	}
}

func recommendTitle(text string) string {
	seen := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		seen++
		if seen > titleScanLines {
			break
		}
		line = strings.TrimSpace(leadingNumberRe.ReplaceAllString(line, ""))
		n := runeLen(line)
		if n < minTitleLen || n > maxTitleLen {
			continue
		}
		if strings.Contains(strings.ToLower(line), "page") || strings.ContainsAny(line, "\t|") {
			continue
		}
		return line
	}
	return ""
}

func recommendSubject(text string) string {
	for _, r := range subjectRules {
		if r.re.MatchString(text) {
			return r.subject
		}
	}
	return defaultSubject
}

func extractKeywords(text string) []string {
	counts := map[string]int{}
	for _, tok := range keywordTokenRe.FindAllString(strings.ToLower(text), -1) {
		tok = strings.Trim(tok, "'-")
		if runeLen(tok) < minKeywordLen || stopWords[tok] {
			continue
		}
		counts[tok]++
	}
	keywords := make([]string, 0, len(counts))
	for w, n := range counts {
		if n >= minKeywordCount {
			keywords = append(keywords, w)
		}
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// AnalyzeMetadata checks inferred properties for presence and adequacy.
func AnalyzeMetadata(filename, lang, text string) MetadataAnalysis {
	meta := InferMetadata(filename, lang)
	a := MetadataAnalysis{
		Metadata:        meta,
		Missing:         []string{},
		Inadequate:      []string{},
		Recommendations: RecommendMetadata(text),
	}

	switch {
	case meta.Title == "":
		a.Missing = append(a.Missing, PropTitle)
	case runeLen(meta.Title) < minTitleLen || placeholderTitleRe.MatchString(meta.Title):
		a.Inadequate = append(a.Inadequate, PropTitle)
	}
	if meta.Author == "" {
		a.Missing = append(a.Missing, PropAuthor)
	}
	switch {
	case meta.Subject == "":
		a.Missing = append(a.Missing, PropSubject)
	case runeLen(meta.Subject) < minSubjectLen:
		a.Inadequate = append(a.Inadequate, PropSubject)
	}
	switch {
	case len(meta.Keywords) == 0:
		a.Missing = append(a.Missing, PropKeywords)
	case len(setOf(meta.Keywords)) < minKeywordTerms:
		a.Inadequate = append(a.Inadequate, PropKeywords)
	}
	switch {
	case meta.Language == "":
		a.Missing = append(a.Missing, PropLanguage)
	case !validLanguageTag(meta.Language):
		a.Inadequate = append(a.Inadequate, PropLanguage)
	}
	if !meta.Tagged {
		a.Missing = append(a.Missing, PropTagged)
	}
	return a
}

func validLanguageTag(tag string) bool {
	_, err := language.Parse(tag)
	return err == nil
}

// MetadataAnalyzer checks document-level properties.
type MetadataAnalyzer struct {
	s settings
}

func NewMetadataAnalyzer(opts ...Option) *MetadataAnalyzer {
	return &MetadataAnalyzer{s: newSettings(opts)}
}

func (a *MetadataAnalyzer) Describe() domain.AnalyzerInfo {
	return domain.AnalyzerInfo{
		Name:    domain.AnalyzerMetadata,
		Purpose: "Checks title, language, subject, keywords and tagging, and recommends values derived from the content",
		Rules: []string{
			domain.RuleInfoRelationships, domain.RulePageTitled,
			domain.RuleLanguageOfPage, domain.RuleNameRoleValue,
		},
	}
}

// Eligible requires non-blank text.
func (a *MetadataAnalyzer) Eligible(actx *domain.AnalysisContext) bool {
	return actx != nil && strings.TrimSpace(actx.Text()) != ""
}

func (a *MetadataAnalyzer) Run(ctx context.Context, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	return run(ctx, a.s, domain.AnalyzerMetadata, actx, gen, func(res *domain.Result) error {
		analysis := AnalyzeMetadata(actx.Filename(), actx.Language(), actx.Text())
		res.Details = analysis
		issues, fixes := metadataFindings(analysis)
		res.Issues = append(res.Issues, issues...)
		res.Fixes = append(res.Fixes, fixes...)
		return nil
	})
}

func metadataFindings(a MetadataAnalysis) ([]domain.Issue, []domain.Fix) {
	var issues []domain.Issue
	var fixes []domain.Fix
	rec := a.Recommendations
	missing := setOf(a.Missing)
	inadequate := setOf(a.Inadequate)

	titleSuggestion := "Set a descriptive document title"
	if rec.Title != "" {
		titleSuggestion = fmt.Sprintf("Set the document title, for example %q", rec.Title)
	}
	switch {
	case missing[PropTitle]:
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityHigh,
			Description: "Document has no title",
			Location:    "document properties",
			Rules:       []string{domain.RulePageTitled},
			Suggestion:  titleSuggestion,
		})
	case inadequate[PropTitle]:
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Document title %q is not descriptive", a.Metadata.Title),
			Location:    "document properties",
			Rules:       []string{domain.RulePageTitled},
			Suggestion:  titleSuggestion,
		})
	}
	if (missing[PropTitle] || inadequate[PropTitle]) && rec.Title != "" {
		fixes = append(fixes, domain.Fix{
			Kind:        "metadata_title",
			Description: "Set the title from the first heading-like line",
			Rules:       []string{domain.RulePageTitled},
			Before:      a.Metadata.Title,
			After:       rec.Title,
		})
	}

	switch {
	case missing[PropLanguage]:
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityHigh,
			Description: "Document language is not declared",
			Location:    "document properties",
			Rules:       []string{domain.RuleLanguageOfPage},
			Suggestion:  "Declare the primary language with a BCP 47 tag such as en-US",
		})
	case inadequate[PropLanguage]:
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Document language %q is not a valid language tag", a.Metadata.Language),
			Location:    "document properties",
			Rules:       []string{domain.RuleLanguageOfPage},
			Suggestion:  "Use a BCP 47 tag such as en, en-US or de-DE",
		})
	}

	if missing[PropAuthor] {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityMedium,
			Description: "Document author is not set",
			Location:    "document properties",
			Rules:       []string{domain.RulePageTitled},
			Suggestion:  "Set the author property",
		})
	}

	if missing[PropSubject] {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityMedium,
			Description: "Document subject is not set",
			Location:    "document properties",
			Rules:       []string{domain.RulePageTitled},
			Suggestion:  fmt.Sprintf("Set the subject, for example %q", rec.Subject),
		})
		fixes = append(fixes, domain.Fix{
			Kind:        "metadata_subject",
			Description: "Set the subject from the document type",
			Rules:       []string{domain.RulePageTitled},
			After:       rec.Subject,
		})
	}

	if missing[PropKeywords] {
		issue := domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityLow,
			Description: "Document keywords are not set",
			Location:    "document properties",
			Rules:       []string{domain.RulePageTitled},
			Suggestion:  "Add keywords describing the main topics",
		}
		if len(rec.Keywords) > 0 {
			issue.Suggestion = "Add keywords such as " + strings.Join(rec.Keywords, ", ")
			fixes = append(fixes, domain.Fix{
				Kind:        "metadata_keywords",
				Description: "Set keywords from the most frequent terms",
				Rules:       []string{domain.RulePageTitled},
				After:       strings.Join(rec.Keywords, ", "),
			})
		}
		issues = append(issues, issue)
	}

	if missing[PropTagged] {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryMetadata,
			Severity:    domain.SeverityHigh,
			Description: "Document is not tagged for accessibility",
			Location:    "document structure",
			Rules:       []string{domain.RuleInfoRelationships, domain.RuleNameRoleValue},
			Suggestion:  "Export the document as a tagged file so assistive technology can read its structure",
		})
	}

	return issues, fixes
}

func setOf(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}
