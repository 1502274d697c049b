package analyzers_test

import (
	"context"
	"strings"
	"testing"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/analyzers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, filename, text string, opts domain.ContextOptions) *domain.AnalysisContext {
	t.Helper()
	actx, err := domain.NewAnalysisContext(domain.ExtractedDocument{Filename: filename, Text: text, PageCount: 1}, opts)
	require.NoError(t, err)
	return actx
}

func issuesWithRule(issues []domain.Issue, rule string) []domain.Issue {
	var out []domain.Issue
	for _, i := range issues {
		for _, r := range i.Rules {
			if r == rule {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

func TestAnalyzeHeadings_NumberedOutline(t *testing.T) {
	text := "1. Introduction\n\nThis is text.\n\n1.1 Background\n\nMore text.\n\n1.1.1 Details\n"

	a := analyzers.AnalyzeHeadings(text)

	require.Len(t, a.Headings, 3)
	assert.Equal(t, 1, a.Headings[0].Level)
	assert.Equal(t, "Introduction", a.Headings[0].Text)
	assert.Equal(t, 2, a.Headings[1].Level)
	assert.Equal(t, "Background", a.Headings[1].Text)
	assert.Equal(t, 3, a.Headings[2].Level)
	assert.True(t, a.HasLogicalStructure)
	assert.Empty(t, a.SkippedLevels)
}

func TestAnalyzeHeadings_SkippedLevel(t *testing.T) {
	text := "1. Overview\n\nSome words here.\n\n1.1.1 Deep section\n"

	a := analyzers.AnalyzeHeadings(text)

	assert.False(t, a.HasLogicalStructure)
	assert.Equal(t, []int{2}, a.SkippedLevels)
}

func TestAnalyzeHeadings_NumberedLevelCapped(t *testing.T) {
	a := analyzers.AnalyzeHeadings("1.2.3.4.5.6.7.8 Very deep\n")

	require.Len(t, a.Headings, 1)
	assert.Equal(t, 6, a.Headings[0].Level)
}

func TestAnalyzeHeadings_ChapterKeyword(t *testing.T) {
	a := analyzers.AnalyzeHeadings("Chapter IV The Return\nbody text follows in lower case words.\n")

	require.NotEmpty(t, a.Headings)
	assert.Equal(t, analyzers.PatternKeyword, a.Headings[0].Pattern)
	assert.Equal(t, 1, a.Headings[0].Level)
}

func TestAnalyzeHeadings_SentencesAreNotHeadings(t *testing.T) {
	a := analyzers.AnalyzeHeadings("this line is prose.\n\nanother line of prose.\n")
	assert.Empty(t, a.Headings)
}

func TestAnalyzeHeadings_KeywordSentencesAreNotHeadings(t *testing.T) {
	lines := []string{
		"Part did not arrive on time.",
		"Section civil matters are handled elsewhere.",
		"Section 3 of the contract states that payment is due within thirty days of the invoice.",
		"Chapter mid-year review was postponed",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			a := analyzers.AnalyzeHeadings(line + "\nbody text follows in lower case words.\n")
			assert.Empty(t, a.Headings)
			assert.Zero(t, a.H1Count)
		})
	}
}

func TestAnalyzeHeadings_KeywordNumerals(t *testing.T) {
	a := analyzers.AnalyzeHeadings("Part 2\nbody text follows in lower case words.\nSection xii Appendices\nmore body text in lower case words.\n")

	require.Len(t, a.Headings, 2)
	assert.Equal(t, "Part 2", a.Headings[0].Text)
	assert.Equal(t, "Section xii Appendices", a.Headings[1].Text)
	assert.Equal(t, analyzers.PatternKeyword, a.Headings[1].Pattern)
}

func TestAnalyzeHeadings_DuplicatesAndEmpty(t *testing.T) {
	text := "1. Summary\n\n2. Summary\n\n3.\n"

	a := analyzers.AnalyzeHeadings(text)

	assert.Equal(t, []string{"summary"}, a.DuplicateHeadings)
	require.Len(t, a.EmptyHeadings, 1)
	assert.Equal(t, 5, a.EmptyHeadings[0].Line)
	assert.True(t, a.MultipleH1)
	assert.Equal(t, 3, a.H1Count)
}

func TestAnalyzeHeadings_DecimalNumberIsNotHeading(t *testing.T) {
	a := analyzers.AnalyzeHeadings("3.14\n")
	assert.Empty(t, a.Headings)
}

func TestHeadingAnalyzer_Eligible(t *testing.T) {
	h := analyzers.NewHeadingAnalyzer()

	assert.False(t, h.Eligible(newContext(t, "a.txt", "short text", domain.ContextOptions{})))
	assert.True(t, h.Eligible(newContext(t, "a.txt", strings.Repeat("word ", 12), domain.ContextOptions{})))
}

func TestHeadingAnalyzer_RunReportsSkippedLevels(t *testing.T) {
	text := "1. Overview\n\nThe overview explains the purpose of this report.\n\n1.1.1 Deep section\n"
	actx := newContext(t, "report.txt", text, domain.ContextOptions{})

	res := analyzers.NewHeadingAnalyzer().Run(context.Background(), actx, nil)

	assert.True(t, res.Success)
	assert.Equal(t, domain.AnalyzerHeadings, res.Analyzer)
	assert.NotEmpty(t, issuesWithRule(res.Issues, domain.RuleSectionHeadings))
	for _, i := range res.Issues {
		assert.Equal(t, domain.CategoryHeadingStructure, i.Category)
	}
	details, ok := res.Details.(analyzers.HeadingAnalysis)
	require.True(t, ok)
	assert.Equal(t, []int{2}, details.SkippedLevels)
}

func TestHeadingAnalyzer_NoHeadingsInLongDocument(t *testing.T) {
	text := strings.Repeat("plain prose without any structure at all, ", 60)
	actx := newContext(t, "long.txt", text, domain.ContextOptions{})

	res := analyzers.NewHeadingAnalyzer().Run(context.Background(), actx, nil)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, domain.SeverityHigh, res.Issues[0].Severity)
	assert.Contains(t, res.Issues[0].Rules, domain.RuleBypassBlocks)
}
