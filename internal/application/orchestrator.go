package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/logging"
)

// Orchestrator owns the analyzer registry and runs analyzers against a
// document in priority order. A failing analyzer never stops the others.
type Orchestrator struct {
	mu          sync.RWMutex
	analyzers   map[string]domain.Analyzer
	parallelism int
	logger      *slog.Logger
	log         *ExecutionLog
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithParallelism runs up to n analyzers at once. Values below 2 keep
// execution sequential.
func WithParallelism(n int) OrchestratorOption {
	return func(o *Orchestrator) { o.parallelism = n }
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithExecutionLog records every invocation into log. A nil log disables
// recording.
func WithExecutionLog(log *ExecutionLog) OrchestratorOption {
	return func(o *Orchestrator) { o.log = log }
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		analyzers: make(map[string]domain.Analyzer),
		logger:    logging.New("orchestrator"),
		log:       NewExecutionLog(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register adds an analyzer. Names must be unique.
func (o *Orchestrator) Register(a domain.Analyzer) error {
	name := a.Describe().Name
	if name == "" {
		return fmt.Errorf("analyzer has no name")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.analyzers[name]; ok {
		return fmt.Errorf("analyzer %q already registered", name)
	}
	o.analyzers[name] = a
	return nil
}

// Analyzers describes the registered analyzers in priority order.
func (o *Orchestrator) Analyzers() []domain.AnalyzerInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	infos := make([]domain.AnalyzerInfo, 0, len(o.analyzers))
	for _, name := range o.sortedNamesLocked() {
		infos = append(infos, o.analyzers[name].Describe())
	}
	return infos
}

func (o *Orchestrator) sortedNamesLocked() []string {
	names := make([]string, 0, len(o.analyzers))
	for name := range o.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	sortByPriority(names)
	return names
}

func (o *Orchestrator) lookup(name string) (domain.Analyzer, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	a, ok := o.analyzers[name]
	return a, ok
}

// sortByPriority orders names by analyzer priority, keeping the relative
// order of equal priorities.
func sortByPriority(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return domain.AnalyzerPriority(names[i]) < domain.AnalyzerPriority(names[j])
	})
}

var recommendReasons = map[string]string{
	domain.AnalyzerMetadata: "document properties are checked for every document",
	domain.AnalyzerHeadings: "document has enough text to infer a heading structure",
	domain.AnalyzerImages:   "document contains images or figure references",
	domain.AnalyzerTables:   "document contains tabular content",
	domain.AnalyzerLinks:    "document contains links, emails or link phrases",
}

// Recommend selects the eligible analyzers for a document.
func (o *Orchestrator) Recommend(actx *domain.AnalysisContext) domain.Recommendation {
	rec := domain.Recommendation{Analyzers: []string{}, Reasons: []string{}}

	o.mu.RLock()
	names := o.sortedNamesLocked()
	o.mu.RUnlock()

	for _, name := range names {
		a, _ := o.lookup(name)
		ok, err := eligible(a, actx)
		if err != nil || !ok {
			continue
		}
		reason, known := recommendReasons[name]
		if !known {
			reason = "analyzer is eligible for this document"
		}
		rec.Analyzers = append(rec.Analyzers, name)
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("%s: %s", name, reason))
	}

	level := domain.LevelAA
	if actx != nil {
		level = actx.Level()
	}
	rec.Complexity = complexityFor(level, len(rec.Analyzers))
	return rec
}

func complexityFor(level domain.Level, n int) domain.Complexity {
	switch {
	case level == domain.LevelAAA || n > 5:
		return domain.ComplexityComplex
	case level == domain.LevelAA || n > 3:
		return domain.ComplexityModerate
	default:
		return domain.ComplexitySimple
	}
}

// Execute runs the named analyzers and returns one envelope per name in
// priority order. Unknown and ineligible names produce failure envelopes.
func (o *Orchestrator) Execute(ctx context.Context, names []string, actx *domain.AnalysisContext, gen domain.FixGenerator) ([]domain.Result, domain.ExecutionSummary) {
	start := time.Now()
	ordered := append([]string(nil), names...)
	sortByPriority(ordered)

	results := make([]domain.Result, len(ordered))
	if o.parallelism > 1 && len(ordered) > 1 {
		// Plain group: one analyzer failing must not cancel the others.
		var g errgroup.Group
		g.SetLimit(o.parallelism)
		for i, name := range ordered {
			g.Go(func() error {
				results[i] = o.runOne(ctx, name, actx, gen)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, name := range ordered {
			results[i] = o.runOne(ctx, name, actx, gen)
		}
	}

	summary := domain.ExecutionSummary{
		TotalIssues: domain.CountIssues(results),
		TotalFixes:  domain.CountFixes(results),
		Elapsed:     time.Since(start),
		Success:     true,
	}
	for _, r := range results {
		if !r.Success {
			summary.Success = false
		}
	}
	o.log.Append(results...)

	o.logger.Debug("execution finished",
		slog.Int("analyzers", len(results)),
		slog.Int("issues", summary.TotalIssues),
		slog.Int("fixes", summary.TotalFixes),
		slog.Bool("success", summary.Success),
		slog.Duration("elapsed", summary.Elapsed),
	)
	return results, summary
}

func (o *Orchestrator) runOne(ctx context.Context, name string, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	a, ok := o.lookup(name)
	if !ok {
		return domain.FailedResult(name, fmt.Sprintf("analyzer %q not found", name))
	}
	if err := ctx.Err(); err != nil {
		return domain.FailedResult(name, err.Error())
	}
	if actx == nil {
		return domain.FailedResult(name, "no analysis context")
	}

	ok, err := eligible(a, actx)
	if err != nil {
		return domain.FailedResult(name, err.Error())
	}
	if !ok {
		return domain.FailedResult(name, "cannot process this document")
	}

	res := safeRun(ctx, name, a, actx, gen)
	res.Analyzer = name
	if res.Issues == nil {
		res.Issues = []domain.Issue{}
	}
	if res.Fixes == nil {
		res.Fixes = []domain.Fix{}
	}
	if !res.Success {
		o.logger.Warn("analyzer failed", slog.String("analyzer", name), slog.String("error", res.Error))
	}
	return res
}

func eligible(a domain.Analyzer, actx *domain.AnalysisContext) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eligibility check panicked: %v", r)
		}
	}()
	return a.Eligible(actx), nil
}

func safeRun(ctx context.Context, name string, a domain.Analyzer, actx *domain.AnalysisContext, gen domain.FixGenerator) (res domain.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = domain.FailedResult(name, fmt.Sprintf("analyzer panicked: %v", r))
			res.Duration = time.Since(start)
		}
	}()
	return a.Run(ctx, actx, gen)
}

// Stats summarises the execution log. It is empty when logging is disabled.
func (o *Orchestrator) Stats() domain.ExecutionStats {
	return o.log.Stats()
}
