// Package scoring turns analyzer results into a compliance score and an
// audit report.
package scoring

import (
	"math"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// appliedFixCredit is the number of points an applied fix earns back.
const appliedFixCredit = 2

// Score computes the compliance score of results in [0,100].
//
// The maximum is the severity-weighted issue total (critical=4, high=3,
// medium=2, low=1). Achieved points come only from applied fixes, two each,
// capped at the maximum. A run without issues scores 100.
func Score(results []domain.Result) int {
	maxScore := 0
	for _, r := range results {
		for _, issue := range r.Issues {
			maxScore += issue.Severity.Weight()
		}
	}
	return scoreFrom(maxScore, appliedFixes(results))
}

// ScoreAt is Score restricted to issues with at least one rule within the
// target level. Issues outside the level neither cost nor earn points.
func ScoreAt(results []domain.Result, level domain.Level) int {
	maxScore := 0
	for _, r := range results {
		for _, issue := range r.Issues {
			if domain.IssueInScope(issue, level) {
				maxScore += issue.Severity.Weight()
			}
		}
	}
	return scoreFrom(maxScore, appliedFixes(results))
}

func scoreFrom(maxScore, applied int) int {
	if maxScore <= 0 {
		return 100
	}
	achieved := max(0, min(maxScore, appliedFixCredit*applied))
	score := int(math.Round(100 * float64(achieved) / float64(maxScore)))
	return max(0, min(100, score))
}

func appliedFixes(results []domain.Result) int {
	n := 0
	for _, r := range results {
		for _, f := range r.Fixes {
			if f.Applied {
				n++
			}
		}
	}
	return n
}

// Improvement returns 100*(after-before)/before rounded half up, so -12.5
// becomes -12. It is 0 when before is 0.
func Improvement(before, after int) int {
	if before == 0 {
		return 0
	}
	// floor((2*100*(after-before) + before) / (2*before)) in integers.
	n := 200*(after-before) + before
	d := 2 * before
	q := n / d
	if n%d != 0 && (n < 0) != (d < 0) {
		q--
	}
	return q
}
