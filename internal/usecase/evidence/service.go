package evidence

import (
	"strings"

	domev "github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/domain/taxonomy"
)

// Service retrieves supporting passages from the reference documents.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	docs Documents
}

// New creates an evidence service.
func New(docs Documents) *Service {
	return &Service{docs: docs}
}

// flagConcepts maps a categorical field and its truthy value to a concept,
// in taxonomy order.
var flagConcepts = []struct {
	field   string
	value   string
	concept taxonomy.Concept
}{
	{patient.FieldDiabetes, patient.Yes, taxonomy.Diabetes},
	{patient.FieldAsthma, patient.Yes, taxonomy.Asthma},
	{patient.FieldObesity, patient.Yes, taxonomy.Obesity},
	{patient.FieldKidney, patient.Yes, taxonomy.Kidney},
}

// SearchTerms derives the lookup terms for a patient and an optional question.
// Patient-derived concepts come first in taxonomy order, then question terms.
func SearchTerms(p patient.Attributes, question string) *taxonomy.TermSet {
	terms := taxonomy.NewTermSet()

	for _, fc := range flagConcepts {
		if p.Is(fc.field, fc.value) {
			terms.AddConcept(fc.concept)
		}
	}
	if p.Number(patient.FieldCholesterol) >= patient.HighCholesterol {
		terms.AddConcept(taxonomy.Cholesterol)
	}
	if strings.Contains(strings.ToLower(p.Text(patient.FieldDiagnosis)), string(taxonomy.Cardiac)) {
		terms.AddConcept(taxonomy.Cardiac)
	}
	if p.Is(patient.FieldSmoking, patient.Smoker) {
		terms.AddConcept(taxonomy.Smoking)
	}

	terms.Add(taxonomy.Mentioned(question)...)
	return terms
}

// Retrieve collects clinical and insurance evidence for a patient.
// Clinical evidence is never empty; insurance evidence is only searched when
// the question mentions a policy topic.
func (s *Service) Retrieve(p patient.Attributes, question string) domev.Result {
	clinical := s.clinical(SearchTerms(p, question).Terms())

	insurance := domev.NewList(domev.MaxInsurance)
	if domev.MentionsPolicy(question) {
		insurance = s.insurance()
	}

	res := domev.Result{Clinical: clinical.Items(), Insurance: insurance.Items()}
	if len(res.Clinical) == 0 {
		res.Clinical = []string{domev.FallbackNote}
	}
	return res
}

func (s *Service) clinical(terms []string) *domev.List {
	out := domev.NewList(domev.MaxClinical)
	lines := s.docs.Guidelines().Lines()
	if len(lines) == 0 {
		return out
	}

	lowered := make([]string, len(lines))
	for i, l := range lines {
		lowered[i] = strings.ToLower(strings.TrimSpace(l))
	}

	for _, term := range terms {
		for i, l := range lowered {
			if l == "" || !strings.Contains(l, term) {
				continue
			}
			out.Add(strings.TrimSpace(lines[i]))
			if out.Full() {
				return out
			}
		}
	}
	return out
}

func (s *Service) insurance() *domev.List {
	out := domev.NewList(domev.MaxInsurance)
	for _, l := range s.docs.Policy().Lines() {
		clean := strings.TrimSpace(l)
		if !domev.QualifiesAsPolicyLine(clean) {
			continue
		}
		out.Add(clean)
		if out.Full() {
			break
		}
	}
	return out
}
