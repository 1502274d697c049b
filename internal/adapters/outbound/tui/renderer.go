package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/export"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lipgloss.Color("#A3E635"), // lime
		"C":  warning,
		"D":  lipgloss.Color("#FB923C"), // orange
		"F":  danger,
	}

	severityStyles = map[domain.Severity]lipgloss.Style{
		domain.SeverityCritical: lipgloss.NewStyle().Foreground(danger).Bold(true).Reverse(true),
		domain.SeverityHigh:     lipgloss.NewStyle().Foreground(danger).Bold(true),
		domain.SeverityMedium:   lipgloss.NewStyle().Foreground(warning).Bold(true),
		domain.SeverityLow:      lipgloss.NewStyle().Foreground(info),
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderAudit formats an audit report for terminal output.
func RenderAudit(r domain.AuditReport) string {
	var b strings.Builder
	s := r.ExecutiveSummary

	// ── Header ──
	title := headerStyle.Render("a11ykraft")
	subtitle := dimStyle.Render(fmt.Sprintf("Accessibility Audit · WCAG %s", r.TargetLevel))
	doc := titleStyle.Render(r.Document.Filename)
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(s.Grade)).
		Render(fmt.Sprintf("%d / 100", s.OverallScore))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(s.Grade)).
		Render(s.Grade)
	status := statusStyle(s.ComplianceStatus).Render(strings.ReplaceAll(s.ComplianceStatus, "_", " "))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n" + doc + "\n\n" + scoreStyled + "  " + gradeStyled + "\n" + status))
	b.WriteString("\n\n")

	if s.BeforeScore != s.OverallScore {
		fmt.Fprintf(&b, "  %s %d → %d  %s\n\n",
			dimStyle.Render("previous"),
			s.BeforeScore, s.OverallScore,
			delta(s.OverallScore-s.BeforeScore),
		)
	}

	// ── Analyzers ──
	b.WriteString("  " + titleStyle.Render("Analyzers") + "\n\n")
	for _, p := range r.Performance {
		renderPerformance(&b, p)
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Issues ──
	if s.TotalIssues > 0 {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render("Issues"))
		b.WriteString("  ")
		counts := []int{s.CriticalIssues, s.HighIssues, s.MediumIssues, s.LowIssues}
		for i, sev := range domain.Severities {
			if counts[i] > 0 {
				b.WriteString(severityStyles[sev].Render(fmt.Sprintf("%d %s", counts[i], sev)))
				b.WriteString("  ")
			}
		}
		b.WriteString("\n\n")

		for _, sev := range domain.Severities {
			for _, issue := range r.Findings.BySeverity.For(sev) {
				renderIssue(&b, issue)
			}
		}
	} else {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	}

	// ── Fixes ──
	if len(r.FixesByKind) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Suggested fixes") + "\n\n")
		kinds := make([]string, 0, len(r.FixesByKind))
		for k := range r.FixesByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			for _, f := range r.FixesByKind[k] {
				renderFix(&b, k, f)
			}
		}
	}

	// ── Next steps ──
	if len(r.Recommendations.ImmediateActions) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Immediate actions") + "\n\n")
		for i, a := range r.Recommendations.ImmediateActions {
			fmt.Fprintf(&b, "    %s %s\n", warnStyle.Render(fmt.Sprintf("%d.", i+1)), a)
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderPerformance(b *strings.Builder, p domain.ToolPerformance) {
	name := catNameStyle.Render(padRight(p.Analyzer, 12))
	dur := faintStyle.Render(p.Duration.Round(time.Microsecond).String())
	if !p.Success {
		fmt.Fprintf(b, "    %s %s %s  %s\n", failStyle.Render("●"), name, failStyle.Render(p.Error), dur)
		return
	}

	icon := passStyle.Render("●")
	if p.Issues > 0 {
		icon = warnStyle.Render("●")
	}
	counts := dimStyle.Render(fmt.Sprintf("%d issues, %d fixes", p.Issues, p.Fixes))
	fmt.Fprintf(b, "    %s %s %s  %s\n", icon, name, counts, dur)
}

func renderIssue(b *strings.Builder, issue domain.Issue) {
	tag := severityTag(issue.Severity)
	meta := strings.Join(issue.Rules, ", ")
	if issue.Location != "" {
		meta = issue.Location + " · " + meta
	}
	fmt.Fprintf(b, "    %s %s\n", tag, issue.Description)
	fmt.Fprintf(b, "             %s\n", faintStyle.Render(meta))
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "             %s\n", dimStyle.Render("→ "+issue.Suggestion))
	}
}

func renderFix(b *strings.Builder, kind string, f domain.Fix) {
	line := fmt.Sprintf("    %s %s", passStyle.Render("+"), dimStyle.Render(kind))
	if f.After != "" {
		line += "  " + f.After
	} else if f.Description != "" {
		line += "  " + f.Description
	}
	b.WriteString(line + "\n")
}

// severityTag renders a fixed-width severity label.
func severityTag(s domain.Severity) string {
	style, ok := severityStyles[s]
	if !ok {
		style = dimStyle
	}
	return style.Render(padRight(string(s), 8))
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case domain.StatusCompliant:
		return passStyle.Bold(true)
	case domain.StatusPartial:
		return warnStyle.Bold(true)
	default:
		return failStyle.Bold(true)
	}
}

func delta(d int) string {
	switch {
	case d > 0:
		return passStyle.Render(fmt.Sprintf("↑%d", d))
	case d < 0:
		return failStyle.Render(fmt.Sprintf("↓%d", -d))
	default:
		return ""
	}
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lipgloss.Color("#A3E635") // lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats audit history for terminal output.
func RenderHistory(entries []domain.AuditEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No audit history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Audit History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	prev := map[string]int{}
	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.Score)).
			Render(fmt.Sprintf("%d/100", e.Score))

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(padRight(day, 10)),
			faintStyle.Render(hash),
			scoreStyled,
			padRight(e.Document, 24),
			dimStyle.Render(fmt.Sprintf("%d issues", e.Issues)),
		)

		if p, ok := prev[e.Document]; ok {
			if d := delta(e.Score - p); d != "" {
				line += "  " + d
			}
		}
		prev[e.Document] = e.Score

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderPerformanceTable renders the per-analyzer table in plain ASCII.
func RenderPerformanceTable(perf []domain.ToolPerformance) string {
	t := export.NewTable(export.ASCII)
	t.Header("Analyzer", "Status", "Issues", "Fixes", "Duration")
	t.AlignRight(3, 4, 5)
	for _, p := range perf {
		status := "ok"
		if !p.Success {
			status = "failed"
		}
		t.Row(p.Analyzer, status, p.Issues, p.Fixes, p.Duration.Round(time.Microsecond))
	}
	return t.String() + "\n"
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
