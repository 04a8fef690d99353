package riskdesk

import (
	"context"
	"time"
)

// Patient is one registry record keyed by column name. Integer columns hold
// int64, text columns hold string, and missing values are absent or nil.
type Patient map[string]any

// DisplayMode tells the presentation layer how to render an inquiry.
type DisplayMode string

// Display modes.
const (
	PatientSpotlight DisplayMode = "PATIENT_SPOTLIGHT"
	PolicyFocus      DisplayMode = "POLICY_FOCUS"
	AnalyticsGrid    DisplayMode = "ANALYTICS_GRID"
)

// Evidence holds the passages retrieved from the reference documents.
type Evidence struct {
	Clinical  []string
	Insurance []string
}

// Analysis is the decision support result for one patient.
type Analysis struct {
	Patient     Patient
	Decision    string // "<risk_level> Risk"
	Reasons     []string
	Explanation string
	Evidence    Evidence
}

// InquiryResult answers a free-text question about the registry.
type InquiryResult struct {
	Query        string
	TotalCount   int
	PatientNames []string
	Matched      []Patient // at most 10
	Evidence     Evidence
	Explanation  string
	Summary      string
	DisplayMode  DisplayMode
	PolicyQuery  bool
}

// ImportResult is the outcome of one CSV row.
type ImportResult struct {
	Line      int
	PatientID int64
	OK        bool
	Err       error
}

// GenerationSettings holds per-task sampling parameters.
type GenerationSettings struct {
	Model              string
	InquiryTemperature float32
	InquiryMaxTokens   int
	ExplainTemperature float32
	ExplainMaxTokens   int
}

// Generator produces text for the inquiry translation and explanation tasks.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// GenerateRequest is a single-turn generation call.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	JSON        bool // ask for a single JSON object
}

// GenerateResult carries generated text and token counts.
type GenerateResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
	At     time.Time
}
