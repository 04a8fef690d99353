package generation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/domain/prompt"
	"github.com/kailas-cloud/riskdesk/internal/logger"
)

// ErrorLabel prefixes explanations that could not be generated.
const ErrorLabel = "LLM Error: "

// Service adapts a Completer to the two generation tasks of the pipeline.
// Inquiry translation and explanation may use different completers so that
// only explanations go through the cache.
type Service struct {
	inquiry  domain.Completer
	explain  domain.Completer
	settings domain.GenerationSettings
}

// New creates a generation service. explain defaults to inquiry when nil.
func New(inquiry, explain domain.Completer, settings domain.GenerationSettings) *Service {
	if explain == nil {
		explain = inquiry
	}
	return &Service{inquiry: inquiry, explain: explain, settings: settings}
}

// SummarizeInquiry asks for the JSON translation of query under instruction.
func (s *Service) SummarizeInquiry(ctx context.Context, instruction, query string) (string, error) {
	res, err := s.inquiry.Complete(ctx, domain.CompletionRequest{
		System:      instruction,
		Prompt:      prompt.InquiryQuery(query),
		Temperature: s.settings.InquiryTemperature,
		MaxTokens:   s.settings.InquiryMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: summarize inquiry: %w", domain.ErrGenerationFailed, err)
	}
	return res.Text, nil
}

// Explain writes the narrative for a risk decision. Failures are returned as
// an error-labelled explanation rather than an error.
func (s *Service) Explain(ctx context.Context, p patient.Attributes, reasons, evidence []string) string {
	res, err := s.explain.Complete(ctx, domain.CompletionRequest{
		System:      prompt.ExplanationSystem,
		Prompt:      prompt.Explanation(p, reasons, evidence),
		Temperature: s.settings.ExplainTemperature,
		MaxTokens:   s.settings.ExplainMaxTokens,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Explanation generation failed", zap.Error(err))
		return ErrorLabel + err.Error()
	}
	return res.Text
}
