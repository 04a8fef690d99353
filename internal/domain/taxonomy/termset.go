package taxonomy

import "strings"

// TermSet is a set of lowercase search terms that remembers first-insertion order.
type TermSet struct {
	order []string
	seen  map[string]struct{}
}

// NewTermSet creates an empty set.
func NewTermSet() *TermSet {
	return &TermSet{seen: make(map[string]struct{})}
}

// Add inserts terms, lowercased. Empty terms and duplicates are ignored.
func (s *TermSet) Add(terms ...string) {
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.order = append(s.order, t)
	}
}

// AddConcept inserts every term of the concept.
func (s *TermSet) AddConcept(c Concept) {
	s.Add(byConcept[c]...)
}

// Contains reports whether term is in the set (case-insensitive).
func (s *TermSet) Contains(term string) bool {
	_, ok := s.seen[strings.ToLower(term)]
	return ok
}

// ContainsConcept reports whether every term of the concept is in the set.
func (s *TermSet) ContainsConcept(c Concept) bool {
	terms := byConcept[c]
	if len(terms) == 0 {
		return false
	}
	for _, t := range terms {
		if !s.Contains(t) {
			return false
		}
	}
	return true
}

// Terms returns the terms in insertion order.
func (s *TermSet) Terms() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct terms.
func (s *TermSet) Len() int { return len(s.order) }
