package domain

import "context"

// Completer is the shared text generation contract between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// HealthChecker verifies generation provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is a single-turn generation call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a JSON object response where supported.
	JSON bool
}

// Completion carries generated text and token usage through the decorator chain.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// TotalTokens returns prompt plus completion tokens.
func (c Completion) TotalTokens() int {
	return c.PromptTokens + c.CompletionTokens
}
