package taxonomy

import "strings"

// Concept is a named clinical topic.
type Concept string

// Known concepts, in lookup order.
const (
	Diabetes    Concept = "diabetes"
	Asthma      Concept = "asthma"
	Obesity     Concept = "obesity"
	Kidney      Concept = "kidney"
	Cholesterol Concept = "cholesterol"
	Cardiac     Concept = "cardiac"
	Smoking     Concept = "smoking"
)

type entry struct {
	concept Concept
	terms   []string
}

// table is the concept -> synonym mapping. Terms are lowercase.
var table = []entry{
	{Diabetes, []string{"diabetes", "diabetic", "blood sugar", "glucose"}},
	{Asthma, []string{"asthma", "bronchial", "inhaler"}},
	{Obesity, []string{"obesity", "overweight", "bmi"}},
	{Kidney, []string{"kidney", "renal", "ckd"}},
	{Cholesterol, []string{"cholesterol", "lipid", "hdl", "ldl", "statin"}},
	{Cardiac, []string{"cardiac", "heart", "cardio", "hypertension"}},
	{Smoking, []string{"smoking", "smoker", "tobacco", "nicotine"}},
}

var byConcept = func() map[Concept][]string {
	m := make(map[Concept][]string, len(table))
	for _, e := range table {
		m[e.concept] = e.terms
	}
	return m
}()

// Concepts returns every concept in declaration order.
func Concepts() []Concept {
	out := make([]Concept, len(table))
	for i, e := range table {
		out[i] = e.concept
	}
	return out
}

// Expand returns the terms of a concept. Unknown concepts expand to nothing.
func Expand(c Concept) []string {
	terms := byConcept[c]
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// Matches reports whether text contains any term of the concept, ignoring case.
func Matches(text string, c Concept) bool {
	lower := strings.ToLower(text)
	for _, term := range byConcept[c] {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Mentioned returns every term, across all concepts, that occurs in text
// (case-insensitive), in declaration order.
func Mentioned(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var out []string
	for _, e := range table {
		for _, term := range e.terms {
			if strings.Contains(lower, term) {
				out = append(out, term)
			}
		}
	}
	return out
}
