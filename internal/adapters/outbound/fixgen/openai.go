// Package fixgen implements domain.FixGenerator on top of an OpenAI
// compatible chat completion API.
package fixgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/sashabaranov/go-openai"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/logging"
)

const maxTokens = 256

// Generator asks a chat completion model for remedies. Once the provider
// reports a quota error every later call fails fast with
// domain.ErrQuotaExceeded.
type Generator struct {
	client    *openai.Client
	model     string
	exhausted atomic.Bool
	logger    *slog.Logger
}

// New creates a Generator for cfg using apiKey.
func New(cfg domain.FixGeneratorConfig, apiKey string) (*Generator, error) {
	if cfg.Provider != domain.ProviderOpenAI {
		return nil, fmt.Errorf("unsupported fix generator provider %q", cfg.Provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("fix generator: no API key")
	}

	oc := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = domain.DefaultModel
	}
	return &Generator{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		logger: logging.New("fixgen"),
	}, nil
}

// NewFromEnv reads the API key from the variable named by cfg.APIKeyEnv.
func NewFromEnv(cfg domain.FixGeneratorConfig, getenv func(string) string) (*Generator, error) {
	name := cfg.APIKeyEnv
	if name == "" {
		name = domain.DefaultAPIKeyEnv
	}
	key := strings.TrimSpace(getenv(name))
	if key == "" {
		return nil, fmt.Errorf("fix generator: environment variable %s is not set", name)
	}
	return New(cfg, key)
}

func (g *Generator) GenerateFix(ctx context.Context, issue domain.Issue, actx *domain.AnalysisContext) (string, error) {
	if g.exhausted.Load() {
		return "", domain.ErrQuotaExceeded
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(issue, actx)},
		},
	}
	// Reasoning models reject MaxTokens.
	if isReasoningModel(g.model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuotaError(err) {
			if !g.exhausted.Swap(true) {
				g.logger.Warn("fix generator quota exceeded; skipping remaining fixes")
			}
			return "", fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("creating chat completion: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Code == "insufficient_quota"
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
