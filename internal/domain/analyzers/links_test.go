package analyzers_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/domain/analyzers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkAnalyzer_GenericPhrasesRaiseOneIssue(t *testing.T) {
	actx := newContext(t, "doc.txt", "Click here to download the report.", domain.ContextOptions{})
	la := analyzers.NewLinkAnalyzer()
	require.True(t, la.Eligible(actx))

	res := la.Run(context.Background(), actx, nil)

	require.True(t, res.Success)
	require.Len(t, res.Issues, 1)
	issue := res.Issues[0]
	assert.Equal(t, domain.CategoryLinkText, issue.Category)
	assert.Equal(t, domain.SeverityHigh, issue.Severity)
	assert.Contains(t, issue.Rules, domain.RuleLinkPurpose)
	assert.Contains(t, issue.Description, "Click here")
}

func TestAnalyzeLinks_KindsAndOverlap(t *testing.T) {
	text := "Visit https://example.com/download for files or write to help@example.org today."

	a := analyzers.AnalyzeLinks(text)

	require.Len(t, a.Links, 2)
	assert.Equal(t, analyzers.LinkURL, a.Links[0].Kind)
	assert.Equal(t, "https://example.com/download", a.Links[0].Text)
	assert.True(t, a.Links[0].External)
	assert.True(t, a.Links[0].NonDescriptive)
	assert.Equal(t, analyzers.LinkEmail, a.Links[1].Kind)
}

func TestAnalyzeLinks_ExternalWarning(t *testing.T) {
	a := analyzers.AnalyzeLinks("The portal (opens in a new window) lives at https://portal.example.com for all staff.")

	require.Len(t, a.Links, 1)
	assert.True(t, a.Links[0].HasWarning)
	assert.Equal(t, 0, a.ExternalWithoutWarning)
}

func TestAnalyzeLinks_AnchorsAndLocalhostAreInternal(t *testing.T) {
	a := analyzers.AnalyzeLinks("see http://localhost:8080/x and https://example.com/page#top")

	require.Len(t, a.Links, 2)
	assert.False(t, a.Links[0].External)
	assert.False(t, a.Links[1].External)
}

func TestAnalyzeLinks_Duplicates(t *testing.T) {
	a := analyzers.AnalyzeLinks("Download the guide.\nDownload the appendix.\n")

	assert.Equal(t, []string{"download"}, a.DuplicateTexts)
	assert.Equal(t, 2, a.GenericCount)
}

func TestAnalyzeLinks_ThinContext(t *testing.T) {
	a := analyzers.AnalyzeLinks("www.example.com")

	require.Len(t, a.Links, 1)
	assert.True(t, a.Links[0].ThinContext)
}

func TestAnalyzeLinks_Cap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "Entry %d is documented at https://example.com/items/%d in the catalogue.\n", i, i)
	}

	a := analyzers.AnalyzeLinks(b.String())

	assert.Len(t, a.Links, 50)
	assert.True(t, a.Truncated)
}

func TestLinkAnalyzer_NotEligibleWithoutLinks(t *testing.T) {
	no := false
	actx := newContext(t, "doc.txt", "Nothing to see in this plain paragraph.", domain.ContextOptions{HasLinks: &no})
	assert.False(t, analyzers.NewLinkAnalyzer().Eligible(actx))
}
