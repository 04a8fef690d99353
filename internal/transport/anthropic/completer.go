// Package anthropic generates text through the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	"github.com/kailas-cloud/riskdesk/internal/metrics"
)

// jsonSuffix is appended to the system prompt for JSON requests; the
// Messages API has no response format switch.
const jsonSuffix = "\n\nRespond with a single JSON object and nothing else."

// defaultMaxTokens is used when a request leaves MaxTokens unset; the API requires it.
const defaultMaxTokens = 1024

// Config holds the generation provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// Completer is a text generation provider backed by anthropic-sdk-go.
type Completer struct {
	client   sdk.Client
	model    string
	provider string
	logger   *zap.Logger
}

// NewCompleter creates an Anthropic completer. SDK retries are disabled.
// An empty model uses domain.DefaultAnthropicModel.
func NewCompleter(cfg *Config) *Completer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "anthropic"
	}
	model := cfg.Model
	if model == "" {
		model = domain.DefaultAnthropicModel
	}

	return &Completer{
		client:   sdk.NewClient(opts...),
		model:    model,
		provider: provider,
		logger:   cfg.Logger,
	}
}

// Complete implements domain.Completer with transport-level metrics.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   maxTokens,
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
		Temperature: sdk.Float(float64(req.Temperature)),
	}
	if system := systemPrompt(req); system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	start := time.Now()

	msg, err := c.client.Messages.New(ctx, params)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, c.model, "api_error").Inc()
		return domain.Completion{}, parseAPIError(err)
	}

	text := joinText(msg)
	if text == "" {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, c.model, "empty_response").Inc()
		return domain.Completion{}, fmt.Errorf("empty message response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())
	metrics.GenerationTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(msg.Usage.InputTokens))
	metrics.GenerationTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(msg.Usage.OutputTokens))

	if msg.StopReason == sdk.StopReasonMaxTokens {
		c.logger.Warn("Completion truncated by max tokens",
			zap.String("model", c.model),
			zap.Int64("max_tokens", maxTokens),
		)
	}

	return domain.Completion{
		Text:             text,
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
	}, nil
}

// HealthCheck verifies API availability by listing models.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx, sdk.ModelListParams{}); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func systemPrompt(req domain.CompletionRequest) string {
	if !req.JSON {
		return req.System
	}
	return strings.TrimSpace(req.System + jsonSuffix)
}

func joinText(msg *sdk.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// parseAPIError wraps every failure with domain.ErrGenerationFailed for 502 mapping.
func parseAPIError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %d: %w: %w", apiErr.StatusCode, domain.ErrGenerationFailed, err)
	}
	return fmt.Errorf("generation request failed: %w: %w", domain.ErrGenerationFailed, err)
}
