package evidence

import (
	"strings"
	"unicode/utf8"
)

// Caps and thresholds for evidence collection.
const (
	MaxClinical  = 6
	MaxInsurance = 4
	// MinPolicyLineLength is exclusive: qualifying policy lines are longer than this.
	MinPolicyLineLength = 25
)

// FallbackNote is the clinical evidence entry used when nothing matched.
const FallbackNote = "Risk assessment based on standard hospital clinical guidelines and best practices."

// policyKeywords gate the insurance search and qualify policy lines.
var policyKeywords = []string{
	"insurance", "policy", "coverage", "claim",
	"billing", "premium", "deductible",
}

// PolicyKeywords returns the insurance keyword set.
func PolicyKeywords() []string {
	out := make([]string, len(policyKeywords))
	copy(out, policyKeywords)
	return out
}

// MentionsPolicy reports whether text contains a policy keyword, ignoring case.
func MentionsPolicy(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range policyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// QualifiesAsPolicyLine reports whether a trimmed policy document line may be
// used as insurance evidence.
func QualifiesAsPolicyLine(line string) bool {
	return line != "" &&
		utf8.RuneCountInString(line) > MinPolicyLineLength &&
		MentionsPolicy(line)
}

// Result holds the evidence lists for one retrieval.
type Result struct {
	Clinical  []string `json:"clinical_evidence"`
	Insurance []string `json:"insurance_evidence"`
}

// All returns clinical followed by insurance evidence.
func (r Result) All() []string {
	out := make([]string, 0, len(r.Clinical)+len(r.Insurance))
	out = append(out, r.Clinical...)
	return append(out, r.Insurance...)
}

// List is a capped, de-duplicated, insertion-ordered evidence sequence.
type List struct {
	items []string
	seen  map[string]struct{}
	limit int
}

// NewList creates a list that holds at most limit entries.
func NewList(limit int) *List {
	return &List{
		items: make([]string, 0, limit),
		seen:  make(map[string]struct{}, limit),
		limit: limit,
	}
}

// Add appends line unless it is already present or the list is full.
// Reports whether the line was added.
func (l *List) Add(line string) bool {
	if l.Full() {
		return false
	}
	if _, ok := l.seen[line]; ok {
		return false
	}
	l.seen[line] = struct{}{}
	l.items = append(l.items, line)
	return true
}

// Full reports whether the cap has been reached.
func (l *List) Full() bool { return len(l.items) >= l.limit }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.items) }

// Items returns the entries in insertion order. Never nil.
func (l *List) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}
