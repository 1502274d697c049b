package scoring_test

import (
	"testing"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
)

func issue(sev domain.Severity, rules ...string) domain.Issue {
	return domain.Issue{Category: domain.CategoryMetadata, Severity: sev, Rules: rules, Suggestion: "fix " + string(sev)}
}

func appliedFixes(n int) []domain.Fix {
	fixes := make([]domain.Fix, n)
	for i := range fixes {
		fixes[i] = domain.Fix{Kind: "metadata_title", Applied: true}
	}
	return fixes
}

func TestScore_NoResults(t *testing.T) {
	assert.Equal(t, 100, scoring.Score(nil))
	assert.Equal(t, 100, scoring.Score([]domain.Result{}))
}

func TestScore_NoIssues(t *testing.T) {
	results := []domain.Result{{Analyzer: "links", Success: true}}
	assert.Equal(t, 100, scoring.Score(results))
}

func TestScore_IssuesWithoutAppliedFixes(t *testing.T) {
	results := []domain.Result{{
		Issues: []domain.Issue{issue(domain.SeverityHigh, "1.3.1")},
		Fixes:  []domain.Fix{{Kind: "suggested_metadata", Applied: false}},
	}}
	assert.Equal(t, 0, scoring.Score(results))
}

func TestScore_AppliedFixesEarnTwoPoints(t *testing.T) {
	// max = 3 + 2 + 1 + 4 = 10
	issues := []domain.Issue{
		issue(domain.SeverityHigh), issue(domain.SeverityMedium),
		issue(domain.SeverityLow), issue(domain.SeverityCritical),
	}
	tests := []struct {
		applied int
		want    int
	}{
		{0, 0}, {1, 20}, {2, 40}, {4, 80}, {5, 100}, {9, 100},
	}
	for _, tt := range tests {
		results := []domain.Result{{Issues: issues, Fixes: appliedFixes(tt.applied)}}
		assert.Equal(t, tt.want, scoring.Score(results), "applied=%d", tt.applied)
	}
}

func TestScore_MonotonicInAppliedFixes(t *testing.T) {
	issues := []domain.Issue{issue(domain.SeverityHigh), issue(domain.SeverityHigh), issue(domain.SeverityLow)}
	prev := -1
	for n := 0; n <= 10; n++ {
		s := scoring.Score([]domain.Result{{Issues: issues, Fixes: appliedFixes(n)}})
		assert.GreaterOrEqual(t, s, prev, "applied=%d", n)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
		prev = s
	}
}

func TestScore_Rounds(t *testing.T) {
	// max = 3, one applied fix: round(100*2/3) = 67
	results := []domain.Result{{Issues: []domain.Issue{issue(domain.SeverityHigh)}, Fixes: appliedFixes(1)}}
	assert.Equal(t, 67, scoring.Score(results))
}

func TestScoreAt_IgnoresOutOfScopeIssues(t *testing.T) {
	results := []domain.Result{{
		Issues: []domain.Issue{issue(domain.SeverityMedium, domain.RuleSectionHeadings)},
	}}

	assert.Equal(t, 100, scoring.ScoreAt(results, domain.LevelAA))
	assert.Equal(t, 0, scoring.ScoreAt(results, domain.LevelAAA))
}

func TestImprovement(t *testing.T) {
	assert.Equal(t, 0, scoring.Improvement(0, 80))
	assert.Equal(t, 60, scoring.Improvement(50, 80))
	assert.Equal(t, -50, scoring.Improvement(80, 40))
	assert.Equal(t, 0, scoring.Improvement(70, 70))
}

func TestImprovement_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, -12, scoring.Improvement(8, 7))
	assert.Equal(t, -2, scoring.Improvement(40, 39))
	assert.Equal(t, 13, scoring.Improvement(8, 9))
	assert.Equal(t, 33, scoring.Improvement(3, 4))
	assert.Equal(t, -33, scoring.Improvement(3, 2))
}
