package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/metrics"
)

// ChatCompleter calls an OpenAI-compatible chat completion API (e.g. Groq)
// with bounded retries. Used by the attribute extractor; completions run at
// temperature 0 so repeated queries produce stable output.
type ChatCompleter struct {
	client       *openai.Client
	model        string
	provider     string
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// ChatConfig holds the chat completion provider settings.
type ChatConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Provider        string
	MaxRetries      int
	RetryBackoffSec int
	Logger          *zap.Logger
}

// NewChatCompleter creates an OpenAI-compatible chat completion provider.
func NewChatCompleter(cfg *ChatConfig) *ChatCompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := time.Duration(cfg.RetryBackoffSec) * time.Second
	if backoff <= 0 {
		backoff = 3 * time.Second
	}

	return &ChatCompleter{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		provider:     provider,
		maxRetries:   maxRetries,
		retryBackoff: backoff,
		logger:       cfg.Logger,
	}
}

// Complete sends a system+user message pair and returns the raw model
// output, trimmed. Provider failures are retried maxRetries times with a
// fixed backoff; exhausting retries wraps domain.ErrLLMProviderError.
func (c *ChatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			metrics.ExtractionRetriesTotal.WithLabelValues(c.provider, c.model).Inc()
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("completion canceled: %w", ctx.Err())
			case <-time.After(c.retryBackoff):
			}
		}

		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, req)
		duration := time.Since(start)

		if err != nil {
			lastErr = err
			metrics.ExtractionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
			c.logger.Warn("chat completion attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.maxRetries),
				zap.Error(err))
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion response")
			metrics.ExtractionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
			continue
		}

		metrics.ExtractionRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
		metrics.ExtractionRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("chat completion failed after %d attempts: %v: %w",
		c.maxRetries, lastErr, domain.ErrLLMProviderError)
}
