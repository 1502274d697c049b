package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/scoring"
)

type stubExtractor struct {
	doc *domain.ExtractedDocument
	err error
}

func (e stubExtractor) Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	if e.err != nil {
		return nil, e.err
	}
	d := *e.doc
	d.Filename = path
	return &d, nil
}

type memoryHistory struct {
	entries []domain.AuditEntry
	dirs    []string
}

func (h *memoryHistory) Save(dir string, e domain.AuditEntry) error {
	h.dirs = append(h.dirs, dir)
	h.entries = append(h.entries, e)
	return nil
}

func (h *memoryHistory) Load(dir string) ([]domain.AuditEntry, error) {
	return h.entries, nil
}

type stubGit struct{}

func (stubGit) CommitHash(string) (string, error) { return "abc1234", nil }

func newService(t *testing.T, cfg domain.ProjectConfig, opts ...application.AuditServiceOption) *application.AuditService {
	t.Helper()
	orch, err := application.NewDefaultOrchestrator(cfg)
	require.NoError(t, err)
	ext := stubExtractor{doc: &domain.ExtractedDocument{Text: sampleDoc, PageCount: 2}}
	opts = append(opts, application.WithReportOptions(
		scoring.WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
	))
	return application.NewAuditService(orch, ext, cfg, opts...)
}

func TestAudit_FullPipeline(t *testing.T) {
	svc := newService(t, domain.DefaultConfig(), application.WithGitInfo(stubGit{}))

	out, err := svc.Audit(context.Background(), application.AuditRequest{Path: "docs/annual_report.txt"})

	require.NoError(t, err)
	assert.Equal(t, domain.ValidAnalyzers, out.Recommendation.Analyzers)
	assert.Len(t, out.Results, 5)
	assert.Equal(t, "docs/annual_report.txt", out.Report.Document.Filename)
	assert.Equal(t, "abc1234", out.Report.Document.CommitHash)
	assert.Equal(t, domain.LevelAA, out.Report.TargetLevel)
	assert.Equal(t, out.Summary.TotalIssues, out.Report.ExecutiveSummary.TotalIssues)
	// No fix is ever applied, so any in-scope issue drives the score to zero.
	assert.Equal(t, 0, out.Report.ExecutiveSummary.OverallScore)
	assert.Equal(t, domain.StatusNonCompliant, out.Report.ExecutiveSummary.ComplianceStatus)
	assert.Equal(t, out.Report.ExecutiveSummary.OverallScore, out.Report.ExecutiveSummary.BeforeScore)
}

func TestAudit_ExplicitAnalyzersAndSkip(t *testing.T) {
	cfg := domain.ProjectConfig{Skip: []string{"links"}}
	svc := newService(t, cfg)

	out, err := svc.Audit(context.Background(), application.AuditRequest{
		Path:      "doc.txt",
		Analyzers: []string{"links", "tables"},
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "tables", out.Results[0].Analyzer)
}

func TestAudit_ConfigAnalyzers(t *testing.T) {
	svc := newService(t, domain.ProjectConfig{Analyzers: []string{"metadata"}})

	out, err := svc.Audit(context.Background(), application.AuditRequest{Path: "doc.txt"})

	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "metadata", out.Results[0].Analyzer)
}

func TestAudit_InvalidLevel(t *testing.T) {
	svc := newService(t, domain.DefaultConfig())

	_, err := svc.Audit(context.Background(), application.AuditRequest{Path: "doc.txt", Level: "Z"})

	assert.ErrorContains(t, err, "unknown compliance level")
	assert.ErrorIs(t, err, domain.ErrInvalidContext)
}

func TestAudit_ExtractionError(t *testing.T) {
	orch, err := application.NewDefaultOrchestrator(domain.DefaultConfig())
	require.NoError(t, err)
	svc := application.NewAuditService(orch, stubExtractor{err: domain.ErrExtraction}, domain.DefaultConfig())

	_, err = svc.Audit(context.Background(), application.AuditRequest{Path: "broken.pdf"})

	assert.True(t, errors.Is(err, domain.ErrExtraction))
	assert.ErrorContains(t, err, "broken.pdf")
}

func TestAudit_HistoryProvidesBeforeScore(t *testing.T) {
	hist := &memoryHistory{entries: []domain.AuditEntry{
		{Document: "other.txt", Score: 10},
		{Document: "doc.txt", Score: 40},
	}}
	svc := newService(t, domain.DefaultConfig(), application.WithHistory(hist, "/project"))

	out, err := svc.AuditDocument(context.Background(),
		domain.ExtractedDocument{Filename: "doc.txt", Text: "Short note."},
		application.AuditRequest{Analyzers: []string{"headings"}, RecordHistory: true},
	)

	require.NoError(t, err)
	sum := out.Report.ExecutiveSummary
	// headings is ineligible for short text, so there are no issues.
	assert.Equal(t, 100, sum.OverallScore)
	assert.Equal(t, 40, sum.BeforeScore)
	assert.Equal(t, 150, sum.ImprovementPercentage)

	require.Len(t, hist.entries, 3)
	last := hist.entries[2]
	assert.Equal(t, "doc.txt", last.Document)
	assert.Equal(t, 100, last.Score)
	assert.Equal(t, domain.StatusCompliant, last.Status)
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Report.GeneratedAt.Format(time.RFC3339))
	assert.Equal(t, []string{"/project"}, hist.dirs)
}

func TestAudit_HistoryDisabled(t *testing.T) {
	off := false
	hist := &memoryHistory{}
	svc := newService(t, domain.ProjectConfig{History: &off}, application.WithHistory(hist, "."))

	_, err := svc.Audit(context.Background(), application.AuditRequest{Path: "doc.txt", RecordHistory: true})

	require.NoError(t, err)
	assert.Empty(t, hist.entries)
}

func TestAudit_LevelScopesScore(t *testing.T) {
	svc := newService(t, domain.DefaultConfig())
	doc := domain.ExtractedDocument{Filename: "Quarterly_Business_Review.txt", Text: "1. Overview\n\nThe overview explains the purpose of this review.\n\n1.1.1 Deep section\n"}

	out, err := svc.AuditDocument(context.Background(), doc, application.AuditRequest{
		Analyzers: []string{"headings"},
		Level:     "A",
	})

	require.NoError(t, err)
	// Skipped heading levels cite 1.3.1 (level A) so they stay in scope.
	assert.Equal(t, 0, out.Report.ExecutiveSummary.OverallScore)
	assert.Equal(t, domain.LevelA, out.Report.TargetLevel)
}

func TestAudit_FixGeneratorEnrichesIssues(t *testing.T) {
	svc := newService(t, domain.DefaultConfig())
	gen := domain.FixGeneratorFunc(func(ctx context.Context, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
		return "Suggested remedy", nil
	})

	out, err := svc.Audit(context.Background(), application.AuditRequest{
		Path:         "doc.txt",
		Analyzers:    []string{"links"},
		FixGenerator: gen,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Report.FixesByKind["suggested_link_text"])
}

func TestAuditService_Recommend(t *testing.T) {
	svc := newService(t, domain.DefaultConfig())

	rec, err := svc.Recommend(context.Background(), application.AuditRequest{Path: "doc.txt", Level: "AAA"})

	require.NoError(t, err)
	assert.Equal(t, domain.ComplexityComplex, rec.Complexity)
	assert.NotEmpty(t, rec.Analyzers)
}
