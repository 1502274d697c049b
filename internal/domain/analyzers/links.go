package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// LinkKind says which pattern recognised a link.
type LinkKind string

const (
	LinkURL    LinkKind = "url"
	LinkEmail  LinkKind = "email"
	LinkPhone  LinkKind = "phone"
	LinkPhrase LinkKind = "phrase"
)

// Link is one link-like span in the text.
type Link struct {
	Text           string   `json:"text"`
	Kind           LinkKind `json:"kind"`
	Line           int      `json:"line"`
	ContextBefore  string   `json:"context_before"`
	ContextAfter   string   `json:"context_after"`
	Generic        bool     `json:"generic"`
	NonDescriptive bool     `json:"non_descriptive"`
	External       bool     `json:"external"`
	HasWarning     bool     `json:"has_warning"`
	ThinContext    bool     `json:"thin_context"`
}

// LinkAnalysis summarises the links of a document.
type LinkAnalysis struct {
	Links                  []Link   `json:"links"`
	Truncated              bool     `json:"truncated"`
	GenericCount           int      `json:"generic_count"`
	NonDescriptiveCount    int      `json:"non_descriptive_count"`
	DuplicateTexts         []string `json:"duplicate_texts"`
	ExternalWithoutWarning int      `json:"external_without_warning"`
	ThinContextCount       int      `json:"thin_context_count"`
}

const (
	maxLinks        = 50
	contextWindow   = 100
	minContextChars = 20
)

var linkPatterns = []struct {
	kind LinkKind
	re   *regexp.Regexp
}{
	{LinkURL, regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"')\]]+`)},
	{LinkEmail, regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)},
	{LinkPhone, regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)},
	{LinkPhrase, regexp.MustCompile(`(?i)\b(click here|read more|learn more|download|link)\b`)},
}

var genericLinkTexts = map[string]bool{
	"click here": true,
	"click":      true,
	"here":       true,
	"read more":  true,
	"learn more": true,
	"more":       true,
	"more info":  true,
	"download":   true,
	"link":       true,
	"this link":  true,
}

var genericPhrases = []string{"click here", "read more", "learn more", "download", "link"}

var warningWords = []string{"external", "new window", "new tab", "opens in", "leaves this"}

type span struct{ start, end int }

// AnalyzeLinks finds URLs, emails, phone numbers and link phrases and
// evaluates how well each is described by its text and surroundings.
func AnalyzeLinks(text string) LinkAnalysis {
	a := LinkAnalysis{Links: []Link{}, DuplicateTexts: []string{}}
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		var taken []span
		type hit struct {
			span
			kind LinkKind
		}
		var hits []hit
		for _, p := range linkPatterns {
			for _, loc := range p.re.FindAllStringIndex(line, -1) {
				s := span{loc[0], loc[1]}
				if overlaps(taken, s) {
					continue
				}
				taken = append(taken, s)
				hits = append(hits, hit{s, p.kind})
			}
		}
		sort.Slice(hits, func(x, y int) bool { return hits[x].start < hits[y].start })

		prev, next := "", ""
		if i > 0 {
			prev = strings.TrimSpace(lines[i-1])
		}
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}

		for _, h := range hits {
			if len(a.Links) == maxLinks {
				a.Truncated = true
				break
			}
			before := strings.TrimSpace(lastRunes(strings.TrimSpace(prev+" "+line[:h.start]), contextWindow))
			after := strings.TrimSpace(firstRunes(strings.TrimSpace(line[h.end:]+" "+next), contextWindow))
			a.Links = append(a.Links, evaluateLink(line[h.start:h.end], h.kind, i+1, before, after))
		}
		if a.Truncated {
			break
		}
	}

	texts := map[string]int{}
	for _, l := range a.Links {
		if l.Generic {
			a.GenericCount++
		}
		if l.NonDescriptive {
			a.NonDescriptiveCount++
		}
		if l.External && !l.HasWarning {
			a.ExternalWithoutWarning++
		}
		if l.ThinContext {
			a.ThinContextCount++
		}
		key := strings.ToLower(strings.TrimSpace(l.Text))
		if len(key) > 3 {
			texts[key]++
		}
	}
	a.DuplicateTexts = append(a.DuplicateTexts, sortedKeys(texts, 2)...)
	return a
}

func overlaps(taken []span, s span) bool {
	for _, t := range taken {
		if s.start < t.end && t.start < s.end {
			return true
		}
	}
	return false
}

func evaluateLink(text string, kind LinkKind, line int, before, after string) Link {
	l := Link{
		Text:          text,
		Kind:          kind,
		Line:          line,
		ContextBefore: before,
		ContextAfter:  after,
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	l.Generic = genericLinkTexts[lower]
	if !l.Generic {
		l.NonDescriptive = len(strings.Fields(lower)) < 2 || len(lower) < 4 || containsGenericPhrase(lower)
	}
	if kind == LinkURL {
		l.External = !strings.Contains(lower, "#") && !strings.HasPrefix(lower, "/") && !strings.Contains(lower, "localhost")
	}
	surround := strings.ToLower(before + " " + after)
	for _, w := range warningWords {
		if strings.Contains(surround, w) {
			l.HasWarning = true
			break
		}
	}
	l.ThinContext = len(before)+len(after) < minContextChars
	return l
}

func containsGenericPhrase(s string) bool {
	for _, p := range genericPhrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// LinkAnalyzer checks link text for purpose and context.
type LinkAnalyzer struct {
	s settings
}

func NewLinkAnalyzer(opts ...Option) *LinkAnalyzer {
	return &LinkAnalyzer{s: newSettings(opts)}
}

func (a *LinkAnalyzer) Describe() domain.AnalyzerInfo {
	return domain.AnalyzerInfo{
		Name:    domain.AnalyzerLinks,
		Purpose: "Finds URLs, emails, phone numbers and link phrases and checks that their purpose is clear",
		Rules:   []string{domain.RuleLinkPurpose, domain.RuleLinkPurposeOnly},
	}
}

// Eligible requires the links flag or any link pattern in the text.
func (a *LinkAnalyzer) Eligible(actx *domain.AnalysisContext) bool {
	if actx == nil {
		return false
	}
	if actx.HasLinks() {
		return true
	}
	text := actx.Text()
	for _, p := range linkPatterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

func (a *LinkAnalyzer) Run(ctx context.Context, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	return run(ctx, a.s, domain.AnalyzerLinks, actx, gen, func(res *domain.Result) error {
		analysis := AnalyzeLinks(actx.Text())
		res.Details = analysis
		res.Issues = append(res.Issues, linkIssues(analysis)...)
		return nil
	})
}

// linkIssues raises at most one issue per defect kind.
func linkIssues(a LinkAnalysis) []domain.Issue {
	var issues []domain.Issue

	collect := func(keep func(Link) bool) ([]string, []int) {
		var texts []string
		var lines []int
		seen := map[string]bool{}
		for _, l := range a.Links {
			if !keep(l) {
				continue
			}
			lines = append(lines, l.Line)
			if !seen[l.Text] {
				seen[l.Text] = true
				texts = append(texts, l.Text)
			}
		}
		return texts, lines
	}

	if a.GenericCount > 0 {
		texts, lines := collect(func(l Link) bool { return l.Generic })
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryLinkText,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("%d %s generic text such as %s", a.GenericCount, plural(a.GenericCount, "link uses", "links use"), quoteList(texts, 3)),
			Location:    lineList(lines),
			Rules:       []string{domain.RuleLinkPurpose, domain.RuleLinkPurposeOnly},
			Suggestion:  "Replace generic link text with words that describe the destination",
		})
	}

	if a.NonDescriptiveCount > 0 {
		texts, lines := collect(func(l Link) bool { return l.NonDescriptive })
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryLinkText,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("%d %s not descriptive: %s", a.NonDescriptiveCount, plural(a.NonDescriptiveCount, "link is", "links are"), quoteList(texts, 3)),
			Location:    lineList(lines),
			Rules:       []string{domain.RuleLinkPurpose},
			Suggestion:  "Label raw addresses with meaningful text describing where they lead",
		})
	}

	if len(a.DuplicateTexts) > 0 {
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryLinkText,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Link text repeated for several links: %s", quoteList(a.DuplicateTexts, 3)),
			Rules:       []string{domain.RuleLinkPurpose, domain.RuleLinkPurposeOnly},
			Suggestion:  "Give links to different destinations distinct text",
		})
	}

	if a.ExternalWithoutWarning > 0 {
		_, lines := collect(func(l Link) bool { return l.External && !l.HasWarning })
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryLinkText,
			Severity:    domain.SeverityLow,
			Description: fmt.Sprintf("%d external %s without a warning", a.ExternalWithoutWarning, plural(a.ExternalWithoutWarning, "link", "links")),
			Location:    lineList(lines),
			Rules:       []string{domain.RuleLinkPurpose},
			Suggestion:  "Tell readers when a link leaves the document or opens a new window",
		})
	}

	if a.ThinContextCount > 0 {
		_, lines := collect(func(l Link) bool { return l.ThinContext })
		issues = append(issues, domain.Issue{
			Category:    domain.CategoryLinkText,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("%d %s too little surrounding context", a.ThinContextCount, plural(a.ThinContextCount, "link has", "links have")),
			Location:    lineList(lines),
			Rules:       []string{domain.RuleLinkPurpose},
			Suggestion:  "Introduce links with a sentence that explains their purpose",
		})
	}

	return issues
}
