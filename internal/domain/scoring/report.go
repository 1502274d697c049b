package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// maxHighActions is how many high-severity suggestions become immediate actions.
const maxHighActions = 3

var longTermImprovements = []string{
	"Author documents with semantic headings, lists and tables in the source application",
	"Adopt an accessible template with tagged export enabled for all new documents",
	"Add an accessibility check to the document review and publishing workflow",
	"Train authors to write alternative text and descriptive link text",
}

var bestPractices = []string{
	"Use a single level 1 heading and nest headings without skipping levels",
	"Give every informative image alternative text and describe complex graphics in full",
	"Mark table header rows and caption every data table",
	"Write link text that makes sense out of context",
	"Set the document title and primary language in the document properties",
}

type reportSettings struct {
	now   func() time.Time
	newID func() string
}

// ReportOption customises report generation.
type ReportOption func(*reportSettings)

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) ReportOption {
	return func(s *reportSettings) { s.now = now }
}

// WithReportID sets the generator for report IDs.
func WithReportID(newID func() string) ReportOption {
	return func(s *reportSettings) { s.newID = newID }
}

// BuildAuditReport aggregates results into a report. It performs no I/O and
// the returned report is not modified by any renderer.
func BuildAuditReport(results []domain.Result, doc domain.DocumentInfo, level domain.Level, before, after int, opts ...ReportOption) domain.AuditReport {
	s := reportSettings{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&s)
	}

	r := domain.AuditReport{
		ReportID:    s.newID(),
		GeneratedAt: s.now().UTC(),
		RuleCatalog: domain.RuleCatalogVersion,
		TargetLevel: level,
		Document:    doc,
		Findings: domain.Findings{
			BySeverity: domain.SeverityGroups{
				Critical: []domain.Issue{}, High: []domain.Issue{},
				Medium: []domain.Issue{}, Low: []domain.Issue{},
			},
			ByLevel: domain.LevelGroups{
				A: []domain.Issue{}, AA: []domain.Issue{}, AAA: []domain.Issue{},
			},
		},
		FixesByKind: map[string][]domain.Fix{},
		Performance: make([]domain.ToolPerformance, 0, len(results)),
	}

	sum := &r.ExecutiveSummary
	sum.OverallScore = after
	sum.BeforeScore = before
	sum.ImprovementPercentage = Improvement(before, after)
	sum.Grade = domain.GradeFor(after)
	sum.ComplianceStatus = domain.ComplianceStatusFor(after)
	sum.AnalyzersRun = len(results)

	for _, res := range results {
		if res.Success {
			sum.AnalyzersSucceeded++
		}
		r.Performance = append(r.Performance, domain.ToolPerformance{
			Analyzer: res.Analyzer,
			Success:  res.Success,
			Issues:   len(res.Issues),
			Fixes:    len(res.Fixes),
			Duration: res.Duration,
			Error:    res.Error,
		})

		for _, issue := range res.Issues {
			sum.TotalIssues++
			addBySeverity(&r.Findings.BySeverity, issue)
			addByLevel(&r.Findings.ByLevel, issue)
		}
		for _, fix := range res.Fixes {
			sum.TotalFixes++
			if fix.Applied {
				sum.AppliedFixes++
			}
			r.FixesByKind[fix.Kind] = append(r.FixesByKind[fix.Kind], fix)
		}
	}

	g := r.Findings.BySeverity
	sum.CriticalIssues = len(g.Critical)
	sum.HighIssues = len(g.High)
	sum.MediumIssues = len(g.Medium)
	sum.LowIssues = len(g.Low)

	r.Recommendations = domain.Recommendations{
		ImmediateActions:     immediateActions(g),
		LongTermImprovements: append([]string(nil), longTermImprovements...),
		BestPractices:        append([]string(nil), bestPractices...),
	}
	return r
}

func addBySeverity(g *domain.SeverityGroups, issue domain.Issue) {
	switch issue.Severity {
	case domain.SeverityCritical:
		g.Critical = append(g.Critical, issue)
	case domain.SeverityHigh:
		g.High = append(g.High, issue)
	case domain.SeverityMedium:
		g.Medium = append(g.Medium, issue)
	default:
		g.Low = append(g.Low, issue)
	}
}

// addByLevel files the issue under every level one of its rules belongs to.
func addByLevel(g *domain.LevelGroups, issue domain.Issue) {
	seen := map[domain.Level]bool{}
	for _, id := range issue.Rules {
		rule, ok := domain.LookupRule(id)
		if !ok || seen[rule.Level] {
			continue
		}
		seen[rule.Level] = true
		switch rule.Level {
		case domain.LevelA:
			g.A = append(g.A, issue)
		case domain.LevelAA:
			g.AA = append(g.AA, issue)
		case domain.LevelAAA:
			g.AAA = append(g.AAA, issue)
		}
	}
}

// immediateActions lists every critical suggestion followed by the
// suggestions of the first few high-severity issues. Repeats are dropped
// after the cap is applied.
func immediateActions(g domain.SeverityGroups) []string {
	actions := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		actions = append(actions, s)
	}
	for _, issue := range g.Critical {
		add(issue.Suggestion)
	}
	for i, issue := range g.High {
		if i == maxHighActions {
			break
		}
		add(issue.Suggestion)
	}
	return actions
}
