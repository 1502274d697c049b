package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderRecommendation renders the analyzer selection for a document.
func RenderRecommendation(filename string, rec domain.Recommendation) string {
	var b strings.Builder

	header := titleStyle.Render(filename) + "  " +
		dimStyle.Render(fmt.Sprintf("complexity: %s", rec.Complexity))
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %s\n",
		sectionHeaderStyle.Render("Recommended analyzers"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(rec.Analyzers))),
	)
	if len(rec.Analyzers) == 0 {
		b.WriteString("    " + dimStyle.Render("none are eligible for this document") + "\n")
	}
	for i, name := range rec.Analyzers {
		reason := ""
		if i < len(rec.Reasons) {
			reason = strings.TrimPrefix(rec.Reasons[i], name+": ")
		}
		fmt.Fprintf(&b, "    %s %s  %s\n", passStyle.Render("●"), catNameStyle.Render(padRight(name, 10)), faintStyle.Render(reason))
	}

	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render("Run `a11ykraft audit` to execute them."))
	b.WriteString("\n")
	return b.String()
}

// RenderAnalyzers lists registered analyzers and the rule catalog.
func RenderAnalyzers(infos []domain.AnalyzerInfo, rules []domain.Rule) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n  %s %s\n\n",
		sectionHeaderStyle.Render("Analyzers"),
		dimStyle.Render(fmt.Sprintf("(%d, priority order)", len(infos))),
	)
	for i, a := range infos {
		fmt.Fprintf(&b, "    %s %s  %s\n",
			dimStyle.Render(fmt.Sprintf("%d.", i+1)),
			catNameStyle.Render(padRight(a.Name, 10)),
			a.Purpose,
		)
		fmt.Fprintf(&b, "       %s\n", faintStyle.Render(strings.Join(a.Rules, ", ")))
	}

	fmt.Fprintf(&b, "\n  %s %s\n\n",
		sectionHeaderStyle.Render("Success criteria"),
		dimStyle.Render(fmt.Sprintf("(%s)", domain.RuleCatalogVersion)),
	)
	for _, r := range rules {
		fmt.Fprintf(&b, "    %s  %s  %s\n",
			warnStyle.Render(padRight(string(r.Level), 3)),
			padRight(r.ID, 7),
			r.Name,
		)
	}
	b.WriteString("\n")
	return b.String()
}
