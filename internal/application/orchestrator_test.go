package application_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/analyzers"
)

// stubAnalyzer is a configurable domain.Analyzer for orchestration tests.
type stubAnalyzer struct {
	name     string
	eligible bool
	panicRun bool
	delay    time.Duration
	issues   int
	calls    atomic.Int32
}

func (s *stubAnalyzer) Describe() domain.AnalyzerInfo {
	return domain.AnalyzerInfo{Name: s.name, Purpose: "stub", Rules: []string{domain.RuleInfoRelationships}}
}

func (s *stubAnalyzer) Eligible(*domain.AnalysisContext) bool { return s.eligible }

func (s *stubAnalyzer) Run(ctx context.Context, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	s.calls.Add(1)
	if s.panicRun {
		panic("stub exploded")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	res := domain.Result{Analyzer: s.name, Success: true, Duration: time.Millisecond}
	for i := 0; i < s.issues; i++ {
		res.Issues = append(res.Issues, domain.Issue{Category: domain.CategoryMetadata, Severity: domain.SeverityLow, Rules: []string{domain.RuleInfoRelationships}})
	}
	return res
}

func newContext(t *testing.T, text string) *domain.AnalysisContext {
	t.Helper()
	actx, err := domain.NewAnalysisContext(domain.ExtractedDocument{Filename: "annual_report.pdf", Text: text, PageCount: 2}, domain.ContextOptions{})
	require.NoError(t, err)
	return actx
}

func builtinOrchestrator(t *testing.T, opts ...application.OrchestratorOption) *application.Orchestrator {
	t.Helper()
	o := application.NewOrchestrator(opts...)
	for _, a := range analyzers.All() {
		require.NoError(t, o.Register(a))
	}
	return o
}

const sampleDoc = `Annual Accessibility Report

1. Introduction

This report reviews the accessibility of our published documents.

1.1 Scope

Click here to download the appendix. Contact access@example.org for help.

Name | Value | %
A | 1 | 10%
B | 2 | 20%

Figure 1: Trend chart
`

func TestRegister_RejectsDuplicates(t *testing.T) {
	o := application.NewOrchestrator()
	require.NoError(t, o.Register(&stubAnalyzer{name: "x"}))

	err := o.Register(&stubAnalyzer{name: "x"})

	assert.ErrorContains(t, err, `analyzer "x" already registered`)
}

func TestAnalyzers_PriorityOrder(t *testing.T) {
	o := builtinOrchestrator(t)

	var names []string
	for _, info := range o.Analyzers() {
		names = append(names, info.Name)
	}

	assert.Equal(t, domain.ValidAnalyzers, names)
}

func TestExecute_UnknownAnalyzerYieldsFailureEnvelope(t *testing.T) {
	o := builtinOrchestrator(t)
	actx := newContext(t, sampleDoc)

	results, summary := o.Execute(context.Background(), []string{"unregistered", "metadata"}, actx, nil)

	require.Len(t, results, 2)
	assert.Equal(t, "metadata", results[0].Analyzer)
	assert.True(t, results[0].Success)
	assert.Equal(t, "unregistered", results[1].Analyzer)
	assert.False(t, results[1].Success)
	assert.Equal(t, `analyzer "unregistered" not found`, results[1].Error)
	assert.False(t, summary.Success)
	assert.Equal(t, len(results[0].Issues), summary.TotalIssues)
}

func TestExecute_SortsByPriority(t *testing.T) {
	o := builtinOrchestrator(t)
	actx := newContext(t, sampleDoc)

	results, _ := o.Execute(context.Background(), []string{"links", "tables", "metadata", "headings", "images"}, actx, nil)

	var names []string
	for _, r := range results {
		names = append(names, r.Analyzer)
	}
	assert.Equal(t, domain.ValidAnalyzers, names)
}

func TestExecute_IneligibleAnalyzer(t *testing.T) {
	o := application.NewOrchestrator()
	stub := &stubAnalyzer{name: "tables", eligible: false}
	require.NoError(t, o.Register(stub))

	results, _ := o.Execute(context.Background(), []string{"tables"}, newContext(t, "text"), nil)

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "cannot process this document", results[0].Error)
	assert.Zero(t, stub.calls.Load())
}

func TestExecute_PanicIsIsolated(t *testing.T) {
	o := application.NewOrchestrator()
	require.NoError(t, o.Register(&stubAnalyzer{name: "metadata", eligible: true, panicRun: true}))
	require.NoError(t, o.Register(&stubAnalyzer{name: "links", eligible: true, issues: 2}))

	results, summary := o.Execute(context.Background(), []string{"metadata", "links"}, newContext(t, "text"), nil)

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "stub exploded")
	assert.NotNil(t, results[0].Issues)
	assert.True(t, results[1].Success)
	assert.Len(t, results[1].Issues, 2)
	assert.False(t, summary.Success)
	assert.Equal(t, 2, summary.TotalIssues)
}

func TestExecute_CanceledContext(t *testing.T) {
	o := application.NewOrchestrator()
	stub := &stubAnalyzer{name: "metadata", eligible: true}
	require.NoError(t, o.Register(stub))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _ := o.Execute(ctx, []string{"metadata"}, newContext(t, "text"), nil)

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "context canceled")
	assert.Zero(t, stub.calls.Load())
}

func TestExecute_Empty(t *testing.T) {
	results, summary := application.NewOrchestrator().Execute(context.Background(), nil, newContext(t, "text"), nil)

	assert.Empty(t, results)
	assert.True(t, summary.Success)
}

func TestExecute_Deterministic(t *testing.T) {
	o := builtinOrchestrator(t)
	actx := newContext(t, sampleDoc)
	names := domain.ValidAnalyzers

	first, _ := o.Execute(context.Background(), names, actx, nil)
	second, _ := o.Execute(context.Background(), names, actx, nil)

	ignoreDuration := cmpopts.IgnoreFields(domain.Result{}, "Duration")
	if diff := cmp.Diff(first, second, ignoreDuration); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestExecute_ParallelMatchesSequential(t *testing.T) {
	actx := newContext(t, sampleDoc)
	names := []string{"links", "metadata", "tables", "images", "headings"}

	seq, _ := builtinOrchestrator(t).Execute(context.Background(), names, actx, nil)
	par, _ := builtinOrchestrator(t, application.WithParallelism(4)).Execute(context.Background(), names, actx, nil)

	ignoreDuration := cmpopts.IgnoreFields(domain.Result{}, "Duration")
	assert.Empty(t, cmp.Diff(seq, par, ignoreDuration))
}

func TestExecute_ParallelRunsConcurrently(t *testing.T) {
	o := application.NewOrchestrator(application.WithParallelism(3))
	for _, n := range []string{"metadata", "headings", "images"} {
		require.NoError(t, o.Register(&stubAnalyzer{name: n, eligible: true, delay: 100 * time.Millisecond}))
	}

	start := time.Now()
	results, summary := o.Execute(context.Background(), []string{"images", "metadata", "headings"}, newContext(t, "text"), nil)

	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.True(t, summary.Success)
	assert.Equal(t, "metadata", results[0].Analyzer)
	assert.Equal(t, "images", results[2].Analyzer)
}

func TestRecommend(t *testing.T) {
	o := builtinOrchestrator(t)

	rec := o.Recommend(newContext(t, sampleDoc))

	assert.Equal(t, domain.ValidAnalyzers, rec.Analyzers)
	assert.Len(t, rec.Reasons, len(rec.Analyzers))
	assert.Equal(t, domain.ComplexityModerate, rec.Complexity)
}

func TestRecommend_ShortPlainDocument(t *testing.T) {
	o := builtinOrchestrator(t)
	actx, err := domain.NewAnalysisContext(domain.ExtractedDocument{Text: "Short note."}, domain.ContextOptions{Level: domain.LevelA})
	require.NoError(t, err)

	rec := o.Recommend(actx)

	assert.Equal(t, []string{"metadata"}, rec.Analyzers)
	assert.Equal(t, domain.ComplexitySimple, rec.Complexity)
}

func TestRecommend_AAAIsComplex(t *testing.T) {
	o := builtinOrchestrator(t)
	actx, err := domain.NewAnalysisContext(domain.ExtractedDocument{Text: "Short note."}, domain.ContextOptions{Level: domain.LevelAAA})
	require.NoError(t, err)

	assert.Equal(t, domain.ComplexityComplex, o.Recommend(actx).Complexity)
}

func TestStats(t *testing.T) {
	o := application.NewOrchestrator()
	require.NoError(t, o.Register(&stubAnalyzer{name: "metadata", eligible: true}))
	require.NoError(t, o.Register(&stubAnalyzer{name: "links", eligible: true}))
	actx := newContext(t, "text")

	o.Execute(context.Background(), []string{"metadata", "links"}, actx, nil)
	o.Execute(context.Background(), []string{"metadata", "missing"}, actx, nil)

	stats := o.Stats()
	assert.Equal(t, 4, stats.Runs)
	assert.InDelta(t, 0.75, stats.SuccessRate, 0.001)
	require.NotEmpty(t, stats.MostUsed)
	assert.Equal(t, domain.ToolUsage{Name: "metadata", Count: 2}, stats.MostUsed[0])
}

func TestStats_LogDisabled(t *testing.T) {
	o := application.NewOrchestrator(application.WithExecutionLog(nil))
	require.NoError(t, o.Register(&stubAnalyzer{name: "metadata", eligible: true}))

	o.Execute(context.Background(), []string{"metadata"}, newContext(t, "text"), nil)

	assert.Zero(t, o.Stats().Runs)
}
