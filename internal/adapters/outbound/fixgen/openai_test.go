package fixgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/fixgen"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

var sampleIssue = domain.Issue{
	Category:    domain.CategoryLinkText,
	Severity:    domain.SeverityHigh,
	Description: `Generic link text "click here"`,
	Location:    "line 3",
	Rules:       []string{domain.RuleLinkPurpose},
	Suggestion:  "Describe the link destination",
}

type capturedRequest struct {
	Model               string `json:"model"`
	MaxTokens           int    `json:"max_tokens"`
	MaxCompletionTokens int    `json:"max_completion_tokens"`
	Messages            []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, seen *capturedRequest, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okBody = `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"  Rename the link to \"Download the 2025 annual report (PDF)\".  "},"finish_reason":"stop"}]}`

func newContext(t *testing.T) *domain.AnalysisContext {
	t.Helper()
	actx, err := domain.NewAnalysisContext(domain.ExtractedDocument{
		Filename: "annual_report.pdf",
		Text:     "Annual report\n\nClick here to download the report.",
	}, domain.ContextOptions{Language: "en"})
	require.NoError(t, err)
	return actx
}

func TestGenerateFix_ReturnsTrimmedContent(t *testing.T) {
	var seen capturedRequest
	srv := newServer(t, http.StatusOK, okBody, &seen, nil)
	gen, err := fixgen.New(domain.FixGeneratorConfig{Provider: "openai", BaseURL: srv.URL + "/v1"}, "test-key")
	require.NoError(t, err)

	fix, err := gen.GenerateFix(context.Background(), sampleIssue, newContext(t))

	require.NoError(t, err)
	assert.Equal(t, `Rename the link to "Download the 2025 annual report (PDF)".`, fix)
	assert.Equal(t, domain.DefaultModel, seen.Model)
	assert.Equal(t, 256, seen.MaxTokens)
	require.Len(t, seen.Messages, 2)
	user := seen.Messages[1].Content
	assert.Contains(t, user, "Document: annual_report.pdf")
	assert.Contains(t, user, "2.4.4 Link Purpose (In Context) (A)")
	assert.Contains(t, user, "Click here to download")
}

func TestGenerateFix_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var seen capturedRequest
	srv := newServer(t, http.StatusOK, okBody, &seen, nil)
	gen, err := fixgen.New(domain.FixGeneratorConfig{Provider: "openai", Model: "o3-mini", BaseURL: srv.URL + "/v1"}, "test-key")
	require.NoError(t, err)

	_, err = gen.GenerateFix(context.Background(), sampleIssue, nil)

	require.NoError(t, err)
	assert.Equal(t, 256, seen.MaxCompletionTokens)
	assert.Zero(t, seen.MaxTokens)
}

func TestGenerateFix_QuotaExceededShortCircuits(t *testing.T) {
	var calls atomic.Int32
	body := `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`
	srv := newServer(t, http.StatusTooManyRequests, body, nil, &calls)
	gen, err := fixgen.New(domain.FixGeneratorConfig{Provider: "openai", BaseURL: srv.URL + "/v1"}, "test-key")
	require.NoError(t, err)

	_, err = gen.GenerateFix(context.Background(), sampleIssue, nil)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	_, err = gen.GenerateFix(context.Background(), sampleIssue, nil)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateFix_ServerError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil, nil)
	gen, err := fixgen.New(domain.FixGeneratorConfig{Provider: "openai", BaseURL: srv.URL + "/v1"}, "test-key")
	require.NoError(t, err)

	_, err = gen.GenerateFix(context.Background(), sampleIssue, nil)

	assert.ErrorContains(t, err, "creating chat completion")
	assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestGenerateFix_EmptyChoices(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","choices":[]}`, nil, nil)
	gen, err := fixgen.New(domain.FixGeneratorConfig{Provider: "openai", BaseURL: srv.URL + "/v1"}, "test-key")
	require.NoError(t, err)

	_, err = gen.GenerateFix(context.Background(), sampleIssue, nil)

	assert.ErrorContains(t, err, "empty response")
}

func TestNew_Validation(t *testing.T) {
	_, err := fixgen.New(domain.FixGeneratorConfig{Provider: "none"}, "key")
	assert.ErrorContains(t, err, "unsupported fix generator provider")

	_, err = fixgen.New(domain.FixGeneratorConfig{Provider: "openai"}, "")
	assert.ErrorContains(t, err, "no API key")
}

func TestNewFromEnv(t *testing.T) {
	cfg := domain.FixGeneratorConfig{Provider: "openai", APIKeyEnv: "DOC_KEY"}

	_, err := fixgen.NewFromEnv(cfg, func(string) string { return "" })
	assert.ErrorContains(t, err, "DOC_KEY is not set")

	gen, err := fixgen.NewFromEnv(cfg, func(k string) string {
		if k == "DOC_KEY" {
			return "secret"
		}
		return ""
	})
	require.NoError(t, err)
	assert.NotNil(t, gen)
}
