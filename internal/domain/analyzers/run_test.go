package analyzers_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/analyzers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestedFixes(res domain.Result) []domain.Fix {
	var out []domain.Fix
	for _, f := range res.Fixes {
		if strings.HasPrefix(f.Kind, "suggested_") {
			out = append(out, f)
		}
	}
	return out
}

func TestRun_PanicKeepsPartialIssues(t *testing.T) {
	actx := newContext(t, "doc.txt", "text", domain.ContextOptions{})

	res := analyzers.RunGuarded(context.Background(), "boom", actx, nil, func(res *domain.Result) error {
		res.Issues = append(res.Issues, domain.Issue{Category: domain.CategoryMetadata, Severity: domain.SeverityLow})
		panic("unexpected input")
	})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unexpected input")
	assert.Len(t, res.Issues, 1)
	assert.Equal(t, "boom", res.Analyzer)
}

func TestRun_ErrorMarksFailure(t *testing.T) {
	actx := newContext(t, "doc.txt", "text", domain.ContextOptions{})

	res := analyzers.RunGuarded(context.Background(), "x", actx, nil, func(res *domain.Result) error {
		return errors.New("bad table")
	})

	assert.False(t, res.Success)
	assert.Equal(t, "bad table", res.Error)
	assert.NotNil(t, res.Issues)
	assert.NotNil(t, res.Fixes)
}

func TestRun_NilContext(t *testing.T) {
	res := analyzers.RunGuarded(context.Background(), "x", nil, nil, func(res *domain.Result) error { return nil })
	assert.False(t, res.Success)
}

func TestEnrichment_AddsSuggestedFixPerIssue(t *testing.T) {
	actx := newContext(t, "doc.pdf", financialReport, domain.ContextOptions{})
	gen := domain.FixGeneratorFunc(func(ctx context.Context, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
		return "  Remedy for " + string(issue.Severity) + "  ", nil
	})

	res := analyzers.NewMetadataAnalyzer().Run(context.Background(), actx, gen)

	fixes := suggestedFixes(res)
	require.Len(t, fixes, len(res.Issues))
	assert.Equal(t, "suggested_metadata", fixes[0].Kind)
	assert.True(t, strings.HasPrefix(fixes[0].Description, "Remedy for"))
	assert.False(t, fixes[0].Applied)
	assert.Equal(t, res.Issues[0].Rules, fixes[0].Rules)
}

func TestEnrichment_FailuresAreSkipped(t *testing.T) {
	actx := newContext(t, "doc.pdf", financialReport, domain.ContextOptions{})
	var calls atomic.Int32
	gen := domain.FixGeneratorFunc(func(ctx context.Context, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
		switch calls.Add(1) {
		case 1:
			return "", errors.New("provider down")
		case 2:
			panic("provider bug")
		case 3:
			return "   ", nil
		default:
			return "ok", nil
		}
	})

	res := analyzers.NewMetadataAnalyzer().Run(context.Background(), actx, gen)

	assert.True(t, res.Success)
	assert.Len(t, suggestedFixes(res), len(res.Issues)-3)
}

func TestEnrichment_TimeoutBoundsSlowGenerator(t *testing.T) {
	actx := newContext(t, "doc.pdf", financialReport, domain.ContextOptions{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	gen := domain.FixGeneratorFunc(func(ctx context.Context, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
		<-release
		return "too late", nil
	})

	start := time.Now()
	res := analyzers.NewMetadataAnalyzer(analyzers.WithFixTimeout(5*time.Millisecond)).Run(context.Background(), actx, gen)

	assert.True(t, res.Success)
	assert.Empty(t, suggestedFixes(res))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestEnrichment_MaxFixes(t *testing.T) {
	actx := newContext(t, "doc.pdf", financialReport, domain.ContextOptions{})
	gen := domain.FixGeneratorFunc(func(ctx context.Context, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
		return "fix", nil
	})

	res := analyzers.NewMetadataAnalyzer(analyzers.WithMaxFixes(2)).Run(context.Background(), actx, gen)

	assert.Len(t, suggestedFixes(res), 2)
}

func TestAll_PriorityOrder(t *testing.T) {
	var names []string
	for _, a := range analyzers.All() {
		names = append(names, a.Describe().Name)
	}
	assert.Equal(t, domain.ValidAnalyzers, names)
}

func TestAll_RulesAreInCatalog(t *testing.T) {
	for _, a := range analyzers.All() {
		info := a.Describe()
		assert.NotEmpty(t, info.Purpose, info.Name)
		for _, r := range info.Rules {
			assert.True(t, domain.IsKnownRule(r), "%s cites unknown rule %s", info.Name, r)
		}
	}
}
