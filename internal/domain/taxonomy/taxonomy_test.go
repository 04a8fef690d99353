package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcepts_AllPresent(t *testing.T) {
	want := []Concept{Diabetes, Asthma, Obesity, Kidney, Cholesterol, Cardiac, Smoking}
	assert.Equal(t, want, Concepts())
	for _, c := range want {
		terms := Expand(c)
		assert.NotEmpty(t, terms, "concept %q has no terms", c)
		for _, term := range terms {
			assert.Equal(t, strings.ToLower(term), term, "term %q must be lowercase", term)
		}
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t, []string{"diabetes", "diabetic", "blood sugar", "glucose"}, Expand(Diabetes))
	assert.Empty(t, Expand("unknown"))
}

func TestExpand_ReturnsCopy(t *testing.T) {
	terms := Expand(Kidney)
	terms[0] = "mutated"
	assert.Equal(t, "kidney", Expand(Kidney)[0])
}

func TestMatches(t *testing.T) {
	tests := []struct {
		text    string
		concept Concept
		want    bool
	}{
		{"Elevated Blood Sugar noted", Diabetes, true},
		{"uses an INHALER twice daily", Asthma, true},
		{"Stage 3 CKD", Kidney, true},
		{"routine checkup", Cardiac, false},
		{"anything", "unknown", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Matches(tc.text, tc.concept), "Matches(%q, %q)", tc.text, tc.concept)
	}
}

func TestMentioned(t *testing.T) {
	got := Mentioned("What is the insurance coverage for Diabetic patients with heart issues?")
	assert.Equal(t, []string{"diabetic", "heart"}, got)
	assert.Nil(t, Mentioned(""))
}

func TestTermSet(t *testing.T) {
	s := NewTermSet()
	s.AddConcept(Cholesterol)
	s.Add("LDL", " statin ", "", "glucose")

	assert.Equal(t, 6, s.Len())
	assert.True(t, s.ContainsConcept(Cholesterol))
	assert.False(t, s.ContainsConcept(Diabetes))
	assert.True(t, s.Contains("GLUCOSE"))
	assert.Equal(t, []string{"cholesterol", "lipid", "hdl", "ldl", "statin", "glucose"}, s.Terms())
}
