package domain

// KeyPrefix namespaces every key riskdesk writes to the key-value store.
const KeyPrefix = "riskdesk:"

// Default models per provider.
const (
	DefaultOpenAIModel    = "llama-3.3-70b-versatile"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
)

// GenerationSettings holds per-task sampling parameters. Not exposed to clients.
type GenerationSettings struct {
	Model              string
	InquiryTemperature float32
	InquiryMaxTokens   int
	ExplainTemperature float32
	ExplainMaxTokens   int
}

// DefaultGenerationSettings returns settings tuned for llama-3.3-70b-versatile
// on an OpenAI-compatible endpoint. Inquiry translation is deterministic.
func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		Model:              DefaultOpenAIModel,
		InquiryTemperature: 0,
		InquiryMaxTokens:   512,
		ExplainTemperature: 0.3,
		ExplainMaxTokens:   900,
	}
}
