package inquiry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DisplayMode tells the presentation layer how to render an inquiry response.
type DisplayMode string

// Display modes.
const (
	// PatientSpotlight focuses on a single named patient.
	PatientSpotlight DisplayMode = "PATIENT_SPOTLIGHT"
	// PolicyFocus emphasises insurance and hospital rules.
	PolicyFocus DisplayMode = "POLICY_FOCUS"
	// AnalyticsGrid lists many patients. Default.
	AnalyticsGrid DisplayMode = "ANALYTICS_GRID"
)

// IsValid checks if the mode is one of the supported values.
func (m DisplayMode) IsValid() bool {
	return m == PatientSpotlight || m == PolicyFocus || m == AnalyticsGrid
}

// ParseDisplayMode normalizes s, falling back to AnalyticsGrid.
func ParseDisplayMode(s string) DisplayMode {
	m := DisplayMode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return AnalyticsGrid
	}
	return m
}

// ParseFailedSummary is the summary of a filter whose generation could not be parsed.
const ParseFailedSummary = "Error parsing query"

// Filter is the structured form of a free-text inquiry.
type Filter struct {
	Conditions  []string
	Name        string // empty when no person was named
	DisplayMode DisplayMode
	PolicyQuery bool
	Summary     string
}

// HasName reports whether the inquiry named a specific person.
func (f Filter) HasName() bool { return f.Name != "" }

// Failed returns the filter used when translation could not be completed.
// It matches every record.
func Failed() Filter {
	return Filter{
		Conditions:  []string{},
		DisplayMode: AnalyticsGrid,
		Summary:     ParseFailedSummary,
	}
}

// Payload mirrors the JSON object the generator is instructed to return.
// Pointer fields distinguish absent values from zero values.
type Payload struct {
	SQLConditions []string `json:"sql_conditions"`
	SpecificName  *string  `json:"specific_name"`
	DisplayMode   *string  `json:"display_mode"`
	IsPolicyQuery *bool    `json:"is_policy_query"`
	Summary       *string  `json:"summary"`
}

// absentNames are placeholder strings models emit instead of JSON null.
var absentNames = map[string]struct{}{
	"":     {},
	"null": {},
	"none": {},
	"n/a":  {},
	"nil":  {},
}

// Filter applies defaults to missing fields.
func (p Payload) Filter() Filter {
	f := Filter{
		Conditions:  make([]string, 0, len(p.SQLConditions)),
		DisplayMode: AnalyticsGrid,
	}
	for _, c := range p.SQLConditions {
		if c = strings.TrimSpace(c); c != "" {
			f.Conditions = append(f.Conditions, c)
		}
	}
	if p.SpecificName != nil {
		name := strings.TrimSpace(*p.SpecificName)
		if _, absent := absentNames[strings.ToLower(name)]; !absent {
			f.Name = name
		}
	}
	if p.DisplayMode != nil {
		f.DisplayMode = ParseDisplayMode(*p.DisplayMode)
	}
	if p.IsPolicyQuery != nil {
		f.PolicyQuery = *p.IsPolicyQuery
	}
	if p.Summary != nil {
		f.Summary = strings.TrimSpace(*p.Summary)
	}
	return f
}

// DecodePayload extracts the JSON object from generated text and decodes it.
// Markdown code fences and text around the outermost object are ignored.
func DecodePayload(text string) (Payload, error) {
	raw, err := extractObject(text)
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, fmt.Errorf("decode inquiry payload: %w", err)
	}
	return p, nil
}

func extractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in generated text")
	}
	return text[start : end+1], nil
}
