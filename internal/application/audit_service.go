package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/analyzers"
	"github.com/a11ykraft/a11ykraft/internal/domain/scoring"
	"github.com/a11ykraft/a11ykraft/internal/logging"
)

// AuditService runs the audit pipeline:
// extract → build context → select analyzers → execute → score → report → record history.
type AuditService struct {
	orch       *Orchestrator
	extractor  domain.DocumentExtractor
	cfg        domain.ProjectConfig
	history    domain.AuditHistory
	historyDir string
	git        domain.GitInfo
	logger     *slog.Logger
	reportOpts []scoring.ReportOption
	now        func() time.Time
}

// AuditServiceOption configures an AuditService.
type AuditServiceOption func(*AuditService)

// WithHistory records scores under dir and reads the previous score from it.
func WithHistory(h domain.AuditHistory, dir string) AuditServiceOption {
	return func(s *AuditService) {
		s.history = h
		s.historyDir = dir
	}
}

// WithGitInfo stamps reports with the commit of the audited file.
func WithGitInfo(g domain.GitInfo) AuditServiceOption {
	return func(s *AuditService) { s.git = g }
}

// WithReportOptions passes options through to the report builder.
func WithReportOptions(opts ...scoring.ReportOption) AuditServiceOption {
	return func(s *AuditService) { s.reportOpts = append(s.reportOpts, opts...) }
}

func NewAuditService(orch *Orchestrator, extractor domain.DocumentExtractor, cfg domain.ProjectConfig, opts ...AuditServiceOption) *AuditService {
	s := &AuditService{
		orch:      orch,
		extractor: extractor,
		cfg:       cfg,
		logger:    logging.New("audit"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDefaultOrchestrator registers every built-in analyzer configured from cfg.
func NewDefaultOrchestrator(cfg domain.ProjectConfig, opts ...OrchestratorOption) (*Orchestrator, error) {
	all := []OrchestratorOption{WithParallelism(cfg.Parallelism)}
	o := NewOrchestrator(append(all, opts...)...)

	aopts := []analyzers.Option{
		analyzers.WithFixTimeout(cfg.FixGenerator.EffectiveFixTimeout()),
		analyzers.WithLogger(logging.New("analyzers")),
	}
	if cfg.FixGenerator.MaxFixes > 0 {
		aopts = append(aopts, analyzers.WithMaxFixes(cfg.FixGenerator.MaxFixes))
	}
	for _, a := range analyzers.All(aopts...) {
		if err := o.Register(a); err != nil {
			return nil, fmt.Errorf("registering analyzers: %w", err)
		}
	}
	return o, nil
}

// AuditRequest describes one audit. Empty fields fall back to the project
// config.
type AuditRequest struct {
	Path      string
	Level     string
	Language  string
	Analyzers []string
	HasImages *bool
	HasTables *bool
	HasLinks  *bool
	// FixGenerator enriches issues with suggested remedies when set.
	FixGenerator domain.FixGenerator
	// RecordHistory saves the score when history is configured and enabled.
	RecordHistory bool
}

// AuditOutcome is everything produced by one audit.
type AuditOutcome struct {
	Report         domain.AuditReport
	Results        []domain.Result
	Summary        domain.ExecutionSummary
	Recommendation domain.Recommendation
}

// Audit extracts the document at req.Path and audits it.
func (s *AuditService) Audit(ctx context.Context, req AuditRequest) (*AuditOutcome, error) {
	doc, err := s.extract(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	return s.AuditDocument(ctx, *doc, req)
}

// AuditDocument audits an already extracted document.
func (s *AuditService) AuditDocument(ctx context.Context, doc domain.ExtractedDocument, req AuditRequest) (*AuditOutcome, error) {
	// 1. Build the analysis context
	actx, err := s.buildContext(doc, req)
	if err != nil {
		return nil, err
	}

	// 2. Select analyzers: explicit request, then config, then recommendation
	rec := s.orch.Recommend(actx)
	names := s.selectAnalyzers(req, rec)

	// 3. Execute
	results, summary := s.orch.Execute(ctx, names, actx, req.FixGenerator)

	// 4. Score issues within the target level
	after := scoring.ScoreAt(results, actx.Level())
	before := s.previousScore(doc.Filename, after)

	// 5. Report
	info := actx.Info()
	if s.git != nil && req.Path != "" {
		if hash, err := s.git.CommitHash(req.Path); err == nil {
			info.CommitHash = hash
		}
	}
	report := scoring.BuildAuditReport(results, info, actx.Level(), before, after, s.reportOpts...)

	// 6. Record history (best effort)
	if req.RecordHistory {
		s.recordHistory(report)
	}

	s.logger.Info("audit complete",
		slog.String("document", doc.Filename),
		slog.Int("score", after),
		slog.String("status", report.ExecutiveSummary.ComplianceStatus),
		slog.Int("issues", summary.TotalIssues),
	)

	return &AuditOutcome{
		Report:         report,
		Results:        results,
		Summary:        summary,
		Recommendation: rec,
	}, nil
}

// Recommend extracts the document at req.Path and returns the analyzers the
// orchestrator would select for it.
func (s *AuditService) Recommend(ctx context.Context, req AuditRequest) (domain.Recommendation, error) {
	doc, err := s.extract(ctx, req.Path)
	if err != nil {
		return domain.Recommendation{}, err
	}
	return s.RecommendDocument(*doc, req)
}

// RecommendDocument is Recommend for an already extracted document.
func (s *AuditService) RecommendDocument(doc domain.ExtractedDocument, req AuditRequest) (domain.Recommendation, error) {
	actx, err := s.buildContext(doc, req)
	if err != nil {
		return domain.Recommendation{}, err
	}
	return s.orch.Recommend(actx), nil
}

func (s *AuditService) extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("no document extractor configured")
	}
	doc, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	return doc, nil
}

func (s *AuditService) buildContext(doc domain.ExtractedDocument, req AuditRequest) (*domain.AnalysisContext, error) {
	level := s.cfg.EffectiveLevel()
	if req.Level != "" {
		l, err := domain.ParseLevel(req.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidContext, err)
		}
		level = l
	}
	lang := s.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	actx, err := domain.NewAnalysisContext(doc, domain.ContextOptions{
		Language:  lang,
		Level:     level,
		HasImages: req.HasImages,
		HasTables: req.HasTables,
		HasLinks:  req.HasLinks,
	})
	if err != nil {
		return nil, fmt.Errorf("building analysis context: %w", err)
	}
	return actx, nil
}

func (s *AuditService) selectAnalyzers(req AuditRequest, rec domain.Recommendation) []string {
	candidates := rec.Analyzers
	switch {
	case len(req.Analyzers) > 0:
		candidates = req.Analyzers
	case len(s.cfg.Analyzers) > 0:
		candidates = s.cfg.Analyzers
	}
	var names []string
	for _, n := range candidates {
		if !s.cfg.IsSkipped(n) {
			names = append(names, n)
		}
	}
	return names
}

// previousScore returns the last recorded score for the document, or
// current when there is none.
func (s *AuditService) previousScore(document string, current int) int {
	if s.history == nil || !s.cfg.HistoryEnabled() {
		return current
	}
	entries, err := s.history.Load(s.historyDir)
	if err != nil {
		s.logger.Debug("history unavailable", slog.String("error", err.Error()))
		return current
	}
	key := historyKey(document)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Document == key {
			return entries[i].Score
		}
	}
	return current
}

func (s *AuditService) recordHistory(r domain.AuditReport) {
	if s.history == nil || !s.cfg.HistoryEnabled() {
		return
	}
	entry := domain.AuditEntry{
		Timestamp:  s.now().UTC().Format(time.RFC3339),
		ReportID:   r.ReportID,
		Document:   historyKey(r.Document.Filename),
		CommitHash: r.Document.CommitHash,
		Score:      r.ExecutiveSummary.OverallScore,
		Status:     r.ExecutiveSummary.ComplianceStatus,
		Issues:     r.ExecutiveSummary.TotalIssues,
	}
	if err := s.history.Save(s.historyDir, entry); err != nil {
		s.logger.Warn("saving history failed", slog.String("error", err.Error()))
	}
}

func historyKey(document string) string {
	if document == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(document))
}
