package riskdesk

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	anthropicGen "github.com/kailas-cloud/riskdesk/internal/transport/anthropic"
	openaiGen "github.com/kailas-cloud/riskdesk/internal/transport/openai"
)

// errNoGenerator is returned by the placeholder generator.
var errNoGenerator = errors.New("riskdesk: generator not configured (use WithGenerator)")

// NewOpenAIGenerator returns a Generator for an OpenAI-compatible chat API.
// baseURL may point at any compatible endpoint (Groq, vLLM); empty means
// api.openai.com. An empty model uses llama-3.3-70b-versatile.
func NewOpenAIGenerator(apiKey, baseURL, model string) Generator {
	if model == "" {
		model = domain.DefaultOpenAIModel
	}
	return &completerGenerator{
		inner: openaiGen.NewCompleter(&openaiGen.Config{
			APIKey:   apiKey,
			BaseURL:  baseURL,
			Model:    model,
			Provider: "openai",
			Logger:   zap.NewNop(),
		}),
	}
}

// NewAnthropicGenerator returns a Generator for the Anthropic Messages API.
// An empty model uses claude-haiku-4-5-20251001.
func NewAnthropicGenerator(apiKey, model string) Generator {
	if model == "" {
		model = domain.DefaultAnthropicModel
	}
	return &completerGenerator{
		inner: anthropicGen.NewCompleter(&anthropicGen.Config{
			APIKey:   apiKey,
			Model:    model,
			Provider: "anthropic",
			Logger:   zap.NewNop(),
		}),
	}
}

// providerCompleter is a built-in provider transport.
type providerCompleter interface {
	domain.Completer
	domain.HealthChecker
}

// completerGenerator exposes a built-in transport as a public Generator.
type completerGenerator struct {
	inner providerCompleter
}

func (g *completerGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	res, err := g.inner.Complete(ctx, domain.CompletionRequest{
		System:      req.System,
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSON:        req.JSON,
	})
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{
		Text:             res.Text,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
	}, nil
}

// HealthCheck reports provider availability.
func (g *completerGenerator) HealthCheck(ctx context.Context) error {
	return g.inner.HealthCheck(ctx)
}

// generatorAdapter wraps a public Generator to satisfy domain.Completer.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	r, err := a.inner.Generate(ctx, GenerateRequest{
		System:      req.System,
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSON:        req.JSON,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("generate: %w", err)
	}
	return domain.Completion{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
	}, nil
}

// HealthCheck delegates when the generator can report its own health.
func (a *generatorAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(interface{ HealthCheck(context.Context) error }); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("generator health check: %w", err)
		}
	}
	return nil
}

// noopGenerator fails every call (used when no generator is configured).
type noopGenerator struct{}

func (noopGenerator) Generate(context.Context, GenerateRequest) (GenerateResult, error) {
	return GenerateResult{}, errNoGenerator
}

func toDomainSettings(s GenerationSettings) domain.GenerationSettings {
	d := domain.DefaultGenerationSettings()
	if s == (GenerationSettings{}) {
		return d
	}
	if s.Model != "" {
		d.Model = s.Model
	}
	d.InquiryTemperature = s.InquiryTemperature
	d.ExplainTemperature = s.ExplainTemperature
	if s.InquiryMaxTokens > 0 {
		d.InquiryMaxTokens = s.InquiryMaxTokens
	}
	if s.ExplainMaxTokens > 0 {
		d.ExplainMaxTokens = s.ExplainMaxTokens
	}
	return d
}
