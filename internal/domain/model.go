package domain

import (
	"time"
)

// Severity grades how badly an issue blocks access to the document.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Weight returns the scoring weight of the severity (critical=4 ... low=1).
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Rank orders severities for presentation; lower is more severe.
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if sev == s {
			return i
		}
	}
	return len(Severities)
}

// Category is the accessibility dimension an issue belongs to.
type Category string

const (
	CategoryMissingAltText   Category = "missing_alt_text"
	CategoryHeadingStructure Category = "heading_structure"
	CategoryTableHeaders     Category = "table_headers"
	CategoryLinkText         Category = "link_text"
	CategoryMetadata         Category = "metadata"
	CategoryReadingOrder     Category = "reading_order"
	CategoryColorContrast    Category = "color_contrast"
)

// Issue is one detected accessibility defect.
type Issue struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Rules       []string `json:"rules"`
	Suggestion  string   `json:"suggestion"`
}

// Fix is a proposed remedy. Applied is only true when the change was written
// back into the document, which the analysis engine never does.
type Fix struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Applied     bool     `json:"applied"`
	Rules       []string `json:"rules"`
	Before      string   `json:"before,omitempty"`
	After       string   `json:"after,omitempty"`
}

// Result is the envelope produced by exactly one analyzer invocation.
type Result struct {
	Analyzer string        `json:"analyzer"`
	Success  bool          `json:"success"`
	Issues   []Issue       `json:"issues"`
	Fixes    []Fix         `json:"fixes"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
	Details  any           `json:"details,omitempty"`
}

// FailedResult builds a failure envelope for an analyzer that did not run.
func FailedResult(analyzer, reason string) Result {
	return Result{
		Analyzer: analyzer,
		Success:  false,
		Issues:   []Issue{},
		Fixes:    []Fix{},
		Error:    reason,
	}
}

// AnalyzerInfo describes an analyzer and the rules it can raise.
type AnalyzerInfo struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Rules   []string `json:"rules"`
}

// Complexity estimates how much work an audit involves.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Recommendation is the orchestrator's selection of analyzers for a document.
type Recommendation struct {
	Analyzers  []string   `json:"analyzers"`
	Reasons    []string   `json:"reasons"`
	Complexity Complexity `json:"complexity"`
}

// ExecutionSummary aggregates a single Execute call.
type ExecutionSummary struct {
	TotalIssues int           `json:"total_issues"`
	TotalFixes  int           `json:"total_fixes"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Success     bool          `json:"success"`
}

// ExecutionStats summarises the execution log across runs.
type ExecutionStats struct {
	Runs         int           `json:"runs"`
	SuccessRate  float64       `json:"success_rate"`
	MeanDuration time.Duration `json:"mean_duration_ns"`
	MostUsed     []ToolUsage   `json:"most_used"`
}

// ToolUsage counts how often an analyzer was invoked.
type ToolUsage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Compliance statuses reported for a score.
const (
	StatusCompliant    = "compliant"
	StatusPartial      = "partial"
	StatusNonCompliant = "non_compliant"
)

// ComplianceStatusFor maps a score to its compliance status. This is the only
// threshold set used anywhere in the engine.
func ComplianceStatusFor(score int) string {
	switch {
	case score >= 90:
		return StatusCompliant
	case score >= 70:
		return StatusPartial
	default:
		return StatusNonCompliant
	}
}

func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func BadgeColor(score int) string {
	switch {
	case score >= 90:
		return "brightgreen"
	case score >= 80:
		return "green"
	case score >= 70:
		return "yellow"
	case score >= 60:
		return "orange"
	case score >= 50:
		return "red"
	default:
		return "critical"
	}
}

// CountIssues returns the number of issues across results.
func CountIssues(results []Result) int {
	n := 0
	for _, r := range results {
		n += len(r.Issues)
	}
	return n
}

// CountFixes returns the number of fixes across results.
func CountFixes(results []Result) int {
	n := 0
	for _, r := range results {
		n += len(r.Fixes)
	}
	return n
}
