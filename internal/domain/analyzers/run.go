// Package analyzers holds the heuristic detectors that infer one structural
// dimension of a document (headings, tables, links, images, metadata) from
// its extracted plain text.
package analyzers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

type settings struct {
	fixTimeout time.Duration
	maxFixes   int
	logger     *slog.Logger
}

// Option configures an analyzer.
type Option func(*settings)

// WithFixTimeout bounds each fix generation call.
func WithFixTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.fixTimeout = d
		}
	}
}

// WithMaxFixes caps how many issues per run are sent to the fix generator.
// Zero means no cap.
func WithMaxFixes(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.maxFixes = n
		}
	}
}

// WithLogger sets the logger used for enrichment diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		fixTimeout: domain.DefaultFixTimeout,
		maxFixes:   domain.DefaultMaxFixes,
		logger:     slog.Default().With(slog.String("component", "analyzers")),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// All returns one instance of every built-in analyzer in priority order.
func All(opts ...Option) []domain.Analyzer {
	return []domain.Analyzer{
		NewMetadataAnalyzer(opts...),
		NewHeadingAnalyzer(opts...),
		NewImageAnalyzer(opts...),
		NewTableAnalyzer(opts...),
		NewLinkAnalyzer(opts...),
	}
}

// run executes fn with panic recovery. Whatever fn appended to the result
// before failing is kept. Issues are then offered to gen for enrichment.
func run(ctx context.Context, s settings, name string, actx *domain.AnalysisContext, gen domain.FixGenerator, fn func(res *domain.Result) error) (res domain.Result) {
	start := time.Now()
	res = domain.Result{
		Analyzer: name,
		Success:  true,
		Issues:   []domain.Issue{},
		Fixes:    []domain.Fix{},
	}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("analyzer panicked: %v", r)
		}
		res.Duration = time.Since(start)
	}()

	if actx == nil {
		res.Success = false
		res.Error = "no analysis context"
		return res
	}

	if err := fn(&res); err != nil {
		res.Success = false
		res.Error = err.Error()
	}

	enrich(ctx, s, &res, actx, gen)
	return res
}

// enrich asks gen for one remedy per issue. Failures and timeouts skip the
// issue; they never fail the run.
func enrich(ctx context.Context, s settings, res *domain.Result, actx *domain.AnalysisContext, gen domain.FixGenerator) {
	if gen == nil {
		return
	}
	for i, issue := range res.Issues {
		if s.maxFixes > 0 && i >= s.maxFixes {
			return
		}
		if ctx.Err() != nil {
			return
		}
		text, err := generateFix(ctx, s.fixTimeout, gen, issue, actx)
		if err != nil {
			s.logger.Debug("fix generation skipped",
				slog.String("analyzer", res.Analyzer),
				slog.String("category", string(issue.Category)),
				slog.String("error", err.Error()),
			)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		res.Fixes = append(res.Fixes, domain.Fix{
			Kind:        "suggested_" + string(issue.Category),
			Description: text,
			Rules:       issue.Rules,
			Before:      issue.Location,
		})
	}
}

// generateFix calls gen in its own goroutine so the timeout holds even for
// generators that ignore their context.
func generateFix(ctx context.Context, timeout time.Duration, gen domain.FixGenerator, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- reply{err: fmt.Errorf("fix generator panicked: %v", r)}
			}
		}()
		text, err := gen.GenerateFix(ctx, issue, actx)
		ch <- reply{text: text, err: err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
