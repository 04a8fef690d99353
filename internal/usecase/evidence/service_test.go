package evidence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domev "github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/domain/taxonomy"
	"github.com/kailas-cloud/riskdesk/internal/repository/refdoc"
)

// --- Mocks ---

type mockDocuments struct {
	guidelines refdoc.Text
	policy     refdoc.Text
}

func (m *mockDocuments) Guidelines() refdoc.Text { return m.guidelines }
func (m *mockDocuments) Policy() refdoc.Text     { return m.policy }

func newService(guidelines, policy string) *Service {
	return New(&mockDocuments{
		guidelines: refdoc.NewText("guidelines", guidelines),
		policy:     refdoc.NewText("policy", policy),
	})
}

const guidelinesDoc = `Clinical Guidelines

Diabetes management: measure HbA1c every three months.
Diabetic patients require annual foot examination.
Target blood sugar before meals is 80-130 mg/dL.
Cholesterol above 200 mg/dL warrants a lipid panel.
Start a statin when LDL exceeds 190 mg/dL.
   Diabetes management: measure HbA1c every three months.
Cardiac patients need an ECG at admission.
Smoking cessation counselling is mandatory for smokers.
`

const policyDoc = `Insurance Policy
Coverage: standard plans cover inpatient cardiac care.
Claims must be filed within 30 days of discharge.
Short policy note.
Billing disputes are resolved by the finance office.
Deductible amounts reset every calendar year for all plans.
The premium tier determines the level of coverage offered.
Visiting hours are from 9am to 8pm every day of the week.
`

// --- SearchTerms ---

func TestSearchTerms_CholesterolThreshold(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"absent", nil, false},
		{"below", int64(199), false},
		{"at threshold", int64(200), true},
		{"above", int64(250), true},
		{"float", 200.0, true},
		{"string", "201", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := patient.Attributes{}
			if tc.value != nil {
				p[patient.FieldCholesterol] = tc.value
			}
			assert.Equal(t, tc.want, SearchTerms(p, "").ContainsConcept(taxonomy.Cholesterol))
		})
	}
}

func TestSearchTerms_DiabetesAndCholesterolNotCardiac(t *testing.T) {
	p := patient.Attributes{
		patient.FieldDiabetes:    patient.Yes,
		patient.FieldCholesterol: int64(250),
		patient.FieldDiagnosis:   "Routine checkup",
	}
	terms := SearchTerms(p, "")

	assert.True(t, terms.ContainsConcept(taxonomy.Diabetes))
	assert.True(t, terms.ContainsConcept(taxonomy.Cholesterol))
	for _, term := range taxonomy.Expand(taxonomy.Cardiac) {
		assert.False(t, terms.Contains(term), term)
	}
	want := append(taxonomy.Expand(taxonomy.Diabetes), taxonomy.Expand(taxonomy.Cholesterol)...)
	assert.Equal(t, want, terms.Terms())
}

func TestSearchTerms_Flags(t *testing.T) {
	p := patient.Attributes{
		patient.FieldAsthma:    patient.Yes,
		patient.FieldObesity:   patient.Yes,
		patient.FieldKidney:    patient.Yes,
		patient.FieldSmoking:   patient.Smoker,
		patient.FieldDiagnosis: "CARDIAC Issue",
	}
	terms := SearchTerms(p, "")
	for _, c := range []taxonomy.Concept{
		taxonomy.Asthma, taxonomy.Obesity, taxonomy.Kidney, taxonomy.Cardiac, taxonomy.Smoking,
	} {
		assert.True(t, terms.ContainsConcept(c), c)
	}
	assert.False(t, terms.ContainsConcept(taxonomy.Diabetes))
}

func TestSearchTerms_SentinelsAreExact(t *testing.T) {
	p := patient.Attributes{
		patient.FieldDiabetes: "yes",
		patient.FieldSmoking:  "Former Smoker",
	}
	assert.Equal(t, 0, SearchTerms(p, "").Len())
}

func TestSearchTerms_QuestionAddsMatchedTerms(t *testing.T) {
	terms := SearchTerms(patient.DefaultContext(), "What is the insurance coverage for diabetic patients?")
	assert.True(t, terms.Contains("diabetic"))
	assert.False(t, terms.Contains("glucose"))
}

// --- Retrieve ---

func TestRetrieve_DiabetesCholesterolScenario(t *testing.T) {
	svc := newService(guidelinesDoc, policyDoc)
	p := patient.Attributes{
		patient.FieldDiabetes:    patient.Yes,
		patient.FieldCholesterol: int64(250),
		patient.FieldDiagnosis:   "Routine checkup",
	}

	res := svc.Retrieve(p, "")
	assert.Equal(t, []string{
		"Diabetes management: measure HbA1c every three months.",
		"Diabetic patients require annual foot examination.",
		"Target blood sugar before meals is 80-130 mg/dL.",
		"Cholesterol above 200 mg/dL warrants a lipid panel.",
		"Start a statin when LDL exceeds 190 mg/dL.",
	}, res.Clinical)
	assert.Empty(t, res.Insurance)
	assert.NotNil(t, res.Insurance)
}

func TestRetrieve_InsuranceQuestionScenario(t *testing.T) {
	svc := newService(guidelinesDoc, policyDoc)

	res := svc.Retrieve(patient.DefaultContext(), "What is the insurance coverage for diabetic patients?")
	assert.Equal(t, []string{"Diabetic patients require annual foot examination."}, res.Clinical)
	assert.Equal(t, []string{
		"Coverage: standard plans cover inpatient cardiac care.",
		"Claims must be filed within 30 days of discharge.",
		"Billing disputes are resolved by the finance office.",
		"Deductible amounts reset every calendar year for all plans.",
	}, res.Insurance)
}

func TestRetrieve_InsuranceGatedByQuestion(t *testing.T) {
	svc := newService(guidelinesDoc, policyDoc)
	for _, q := range []string{"", "show high risk patients", "who smokes?"} {
		res := svc.Retrieve(patient.DefaultContext(), q)
		assert.Empty(t, res.Insurance, "question %q", q)
	}
}

func TestRetrieve_MissingDocuments(t *testing.T) {
	svc := New(&mockDocuments{})
	p := patient.Attributes{patient.FieldDiabetes: patient.Yes}

	res := svc.Retrieve(p, "insurance policy?")
	assert.Equal(t, []string{domev.FallbackNote}, res.Clinical)
	assert.Empty(t, res.Insurance)
}

func TestRetrieve_NoMatchesFallsBack(t *testing.T) {
	svc := newService(guidelinesDoc, policyDoc)
	res := svc.Retrieve(patient.DefaultContext(), "")
	assert.Equal(t, []string{domev.FallbackNote}, res.Clinical)
}

func TestRetrieve_CapsAndDedup(t *testing.T) {
	var g, pol strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&g, "glucose reading %d\n", i%8)
		fmt.Fprintf(&pol, "insurance coverage clause number %d applies\n", i%7)
	}
	svc := newService(g.String(), pol.String())
	p := patient.Attributes{
		patient.FieldDiabetes:    patient.Yes,
		patient.FieldCholesterol: int64(300),
		patient.FieldSmoking:     patient.Smoker,
	}

	res := svc.Retrieve(p, "insurance and glucose")
	require.Len(t, res.Clinical, domev.MaxClinical)
	require.Len(t, res.Insurance, domev.MaxInsurance)
	assertUnique(t, res.Clinical)
	assertUnique(t, res.Insurance)
}

func assertUnique(t *testing.T, lines []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, l := range lines {
		assert.False(t, seen[l], "duplicate line %q", l)
		seen[l] = true
	}
}
