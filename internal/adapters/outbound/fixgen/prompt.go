package fixgen

import (
	"fmt"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// excerptRunes bounds the document text sent with each prompt.
const excerptRunes = 600

func systemPrompt() string {
	return `You are a document accessibility specialist. You receive one accessibility issue found in a document and must propose a concrete remedy the author can apply.

Requirements:
- Answer with plain text only: no markdown, no code fences, no preamble.
- At most three sentences.
- When the remedy is replacement text (a title, alt text, link text, a caption), give the exact text to use.
- Do not restate the issue.`
}

func userPrompt(issue domain.Issue, actx *domain.AnalysisContext) string {
	var b strings.Builder
	if actx != nil {
		fmt.Fprintf(&b, "Document: %s\n", actx.Filename())
		if lang := actx.Language(); lang != "" {
			fmt.Fprintf(&b, "Language: %s\n", lang)
		}
		fmt.Fprintf(&b, "Target conformance level: %s\n", actx.Level())
	}
	fmt.Fprintf(&b, "Category: %s\n", issue.Category)
	fmt.Fprintf(&b, "Severity: %s\n", issue.Severity)
	fmt.Fprintf(&b, "Issue: %s\n", issue.Description)
	if issue.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", issue.Location)
	}
	if len(issue.Rules) > 0 {
		fmt.Fprintf(&b, "Success criteria: %s\n", strings.Join(ruleNames(issue.Rules), "; "))
	}
	if issue.Suggestion != "" {
		fmt.Fprintf(&b, "Generic advice: %s\n", issue.Suggestion)
	}
	if actx != nil {
		if ex := excerpt(actx.Text(), excerptRunes); ex != "" {
			fmt.Fprintf(&b, "\nDocument excerpt:\n%s\n", ex)
		}
	}
	return b.String()
}

func ruleNames(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := domain.LookupRule(id); ok {
			out = append(out, fmt.Sprintf("%s %s (%s)", r.ID, r.Name, r.Level))
			continue
		}
		out = append(out, id)
	}
	return out
}

func excerpt(text string, n int) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
