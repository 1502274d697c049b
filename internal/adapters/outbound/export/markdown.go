package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

var severityTitles = map[domain.Severity]string{
	domain.SeverityCritical: "Critical",
	domain.SeverityHigh:     "High",
	domain.SeverityMedium:   "Medium",
	domain.SeverityLow:      "Low",
}

// MarkdownReport renders the report as a Markdown document.
func MarkdownReport(r domain.AuditReport) string {
	var b strings.Builder
	s := r.ExecutiveSummary

	b.WriteString("# Accessibility Audit Report\n\n")
	fmt.Fprintf(&b, "- **Document:** %s\n", orDash(r.Document.Filename))
	if r.Document.CommitHash != "" {
		fmt.Fprintf(&b, "- **Commit:** %s\n", r.Document.CommitHash)
	}
	fmt.Fprintf(&b, "- **Report ID:** %s\n", r.ReportID)
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Target level:** WCAG %s (%s)\n\n", r.TargetLevel, r.RuleCatalog)

	b.WriteString("## Executive Summary\n\n")
	t := NewTable(Markdown)
	t.Header("Metric", "Value")
	t.Row("Overall score", fmt.Sprintf("%d/100", s.OverallScore))
	t.Row("Grade", s.Grade)
	t.Row("Compliance status", s.ComplianceStatus)
	t.Row("Before score", s.BeforeScore)
	t.Row("Improvement", fmt.Sprintf("%d%%", s.ImprovementPercentage))
	t.Row("Total issues", s.TotalIssues)
	t.Row("Critical / High / Medium / Low", fmt.Sprintf("%d / %d / %d / %d", s.CriticalIssues, s.HighIssues, s.MediumIssues, s.LowIssues))
	t.Row("Fixes suggested (applied)", fmt.Sprintf("%d (%d)", s.TotalFixes, s.AppliedFixes))
	t.Row("Analyzers succeeded", fmt.Sprintf("%d of %d", s.AnalyzersSucceeded, s.AnalyzersRun))
	b.WriteString(t.String())
	b.WriteString("\n\n")

	b.WriteString("## Findings by Severity\n\n")
	if s.TotalIssues == 0 {
		b.WriteString("No issues found.\n\n")
	}
	for _, sev := range domain.Severities {
		issues := r.Findings.BySeverity.For(sev)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s (%d)\n\n", severityTitles[sev], len(issues))
		t := NewTable(Markdown)
		t.Header("Category", "Location", "Description", "Criteria", "Suggestion")
		for _, is := range issues {
			t.Row(is.Category, orDash(is.Location), is.Description, strings.Join(is.Rules, ", "), is.Suggestion)
		}
		b.WriteString(t.String())
		b.WriteString("\n\n")
	}

	b.WriteString("## Findings by Compliance Level\n\n")
	t = NewTable(Markdown)
	t.Header("Level", "Issues")
	for _, l := range []domain.Level{domain.LevelA, domain.LevelAA, domain.LevelAAA} {
		t.Row(l, len(r.Findings.ByLevel.For(l)))
	}
	b.WriteString(t.String())
	b.WriteString("\n\n")

	if len(r.FixesByKind) > 0 {
		b.WriteString("## Suggested Fixes\n\n")
		for _, kind := range sortedKinds(r.FixesByKind) {
			fixes := r.FixesByKind[kind]
			fmt.Fprintf(&b, "### %s (%d)\n\n", kind, len(fixes))
			t := NewTable(Markdown)
			t.Header("Description", "Before", "After", "Applied")
			for _, f := range fixes {
				t.Row(f.Description, orDash(f.Before), orDash(f.After), yesNo(f.Applied))
			}
			b.WriteString(t.String())
			b.WriteString("\n\n")
		}
	}

	b.WriteString("## Tool Performance\n\n")
	t = NewTable(Markdown)
	t.Header("Analyzer", "Status", "Issues", "Fixes", "Duration", "Error")
	for _, p := range r.Performance {
		status := "ok"
		if !p.Success {
			status = "failed"
		}
		t.Row(p.Analyzer, status, p.Issues, p.Fixes, p.Duration.Round(time.Microsecond), orDash(p.Error))
	}
	b.WriteString(t.String())
	b.WriteString("\n\n")

	b.WriteString("## Recommendations\n\n")
	writeList(&b, "Immediate Actions", r.Recommendations.ImmediateActions)
	writeList(&b, "Long-term Improvements", r.Recommendations.LongTermImprovements)
	writeList(&b, "Best Practices", r.Recommendations.BestPractices)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func sortedKinds(m map[string][]domain.Fix) []string {
	kinds := make([]string, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
