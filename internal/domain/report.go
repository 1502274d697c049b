package domain

import "time"

// AuditReport is the read-only aggregate of one audit run. It is computed
// once and rendered by every export format without further computation.
type AuditReport struct {
	ReportID         string            `json:"report_id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	RuleCatalog      string            `json:"rule_catalog"`
	TargetLevel      Level             `json:"target_level"`
	Document         DocumentInfo      `json:"document"`
	ExecutiveSummary ExecutiveSummary  `json:"executive_summary"`
	Findings         Findings          `json:"findings"`
	FixesByKind      map[string][]Fix  `json:"fixes_by_kind"`
	Performance      []ToolPerformance `json:"tool_performance"`
	Recommendations  Recommendations   `json:"recommendations"`
}

// ExecutiveSummary is the headline section of the report.
type ExecutiveSummary struct {
	OverallScore          int    `json:"overall_score"`
	BeforeScore           int    `json:"before_score"`
	ImprovementPercentage int    `json:"improvement_percentage"`
	Grade                 string `json:"grade"`
	ComplianceStatus      string `json:"compliance_status"`
	TotalIssues           int    `json:"total_issues"`
	CriticalIssues        int    `json:"critical_issues"`
	HighIssues            int    `json:"high_issues"`
	MediumIssues          int    `json:"medium_issues"`
	LowIssues             int    `json:"low_issues"`
	TotalFixes            int    `json:"total_fixes"`
	AppliedFixes          int    `json:"applied_fixes"`
	AnalyzersRun          int    `json:"analyzers_run"`
	AnalyzersSucceeded    int    `json:"analyzers_succeeded"`
}

// Findings groups issues by severity and by conformance level.
type Findings struct {
	BySeverity SeverityGroups `json:"by_severity"`
	ByLevel    LevelGroups    `json:"by_compliance_level"`
}

// SeverityGroups partitions issues by severity.
type SeverityGroups struct {
	Critical []Issue `json:"critical"`
	High     []Issue `json:"high"`
	Medium   []Issue `json:"medium"`
	Low      []Issue `json:"low"`
}

// For returns the group for a severity.
func (g SeverityGroups) For(s Severity) []Issue {
	switch s {
	case SeverityCritical:
		return g.Critical
	case SeverityHigh:
		return g.High
	case SeverityMedium:
		return g.Medium
	default:
		return g.Low
	}
}

// LevelGroups partitions issues by the conformance level of their rules. An
// issue citing rules from several levels appears in each of them.
type LevelGroups struct {
	A   []Issue `json:"level_a"`
	AA  []Issue `json:"level_aa"`
	AAA []Issue `json:"level_aaa"`
}

// For returns the group for a level.
func (g LevelGroups) For(l Level) []Issue {
	switch l {
	case LevelA:
		return g.A
	case LevelAA:
		return g.AA
	default:
		return g.AAA
	}
}

// ToolPerformance is one row of the per-analyzer performance table.
type ToolPerformance struct {
	Analyzer string        `json:"analyzer"`
	Success  bool          `json:"success"`
	Issues   int           `json:"issues"`
	Fixes    int           `json:"fixes"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Recommendations lists follow-up actions.
type Recommendations struct {
	ImmediateActions     []string `json:"immediate_actions"`
	LongTermImprovements []string `json:"long_term_improvements"`
	BestPractices        []string `json:"best_practices"`
}
