// Package prompt renders the instructions sent to the text generator.
package prompt

import (
	"strings"

	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
)

// Defaults used when an explanation has nothing to list.
const (
	NoReasons  = "General clinical indicators"
	NoEvidence = "Standard hospital protocols"
)

const inquiryRole = "You are an elite medical data scientist. " +
	"Parse the user's inquiry into a structured JSON query object."

const inquiryBody = `COLUMNS AVAILABLE:
- patient_name (TEXT)
- age (INTEGER)
- gender (TEXT: 'Male', 'Female')
- diagnosis (TEXT: 'Cardiac Issue', 'Infection', 'Asthma', 'Diabetes', 'Hypertension')
- diabetes (TEXT: 'Yes', 'No')
- smoking_status (TEXT: 'Smoker', 'Non-Smoker', 'Former Smoker')
- obesity (TEXT: 'Yes', 'No')
- chronic_kidney_disease (TEXT: 'Yes', 'No')
- asthma (TEXT: 'Yes', 'No')
- cholesterol (INTEGER, mg/dL)
- heart_rate (INTEGER)
- risk_level (TEXT: 'Low', 'Medium', 'High')
- care_priority (TEXT: 'Normal', 'Urgent')
- visit_date (TEXT: YYYY-MM-DD)

INSTRUCTIONS:
1. EXTRACT NAME: If a person's name is mentioned, put it in "specific_name". Do not add a patient_name condition for it.
2. SQL FILTERS: Create a list of conditions, one comparison each, in the form: column operator literal.
   - Operators: =, !=, <, <=, >, >=, LIKE, NOT LIKE, IN (...), BETWEEN x AND y
   - Literals are single-quoted strings or plain numbers.
   - For risk, use equals: "risk_level = 'High'"
   - For diagnosis, use LIKE: "diagnosis LIKE '%keyword%'"
   - Never combine comparisons with OR, never add semicolons or comments.
3. DISPLAY MODE: Determine the best visual mode:
   - "PATIENT_SPOTLIGHT": If the user is asking about a specific individual by name.
   - "POLICY_FOCUS": If the user is asking about insurance, coverage, or hospital rules.
   - "ANALYTICS_GRID": For general searches yielding multiple patients (e.g. "show high risk patients").
4. POLICY: If the user asks about coverage, insurance, or general policy rules, set "is_policy_query" to true.

OUTPUT FORMAT (JSON ONLY):
{
  "sql_conditions": ["condition1", "condition2"],
  "specific_name": "extracted_name or null",
  "display_mode": "PATIENT_SPOTLIGHT" | "POLICY_FOCUS" | "ANALYTICS_GRID",
  "is_policy_query": true/false,
  "summary": "Clinical summary of the search intent"
}`

// InquiryInstruction is the fixed contract given to the generator for
// inquiry translation.
const InquiryInstruction = inquiryRole + "\n\n" + inquiryBody

// InquiryQuery renders the user turn carrying the raw inquiry.
func InquiryQuery(query string) string {
	return "USER QUERY: " + quote(query)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// ExplanationSystem is the system role for decision explanations.
const ExplanationSystem = `You are a senior clinical decision support assistant working in a hospital.
Your explanations must be:
- Professional
- Clear
- Empathetic
- Evidence-based
- Easy for clinicians to understand`

const explanationInstructions = `INSTRUCTIONS:
1. Clearly explain **WHY** this risk level was assigned.
2. Connect risk factors with evidence logically.
3. Provide **actionable next steps** for the care team.
4. Use headings and bullet points.
5. Do NOT introduce new medical facts not present above.
6. Maintain a calm, professional, reassuring tone.
`

// Explanation renders the user turn for a risk decision explanation.
func Explanation(p patient.Attributes, reasons, evidence []string) string {
	var b strings.Builder

	b.WriteString("PATIENT PROFILE:\n")
	b.WriteString("- Name: " + p.TextOr(patient.FieldName, patient.NotAvailable) + "\n")
	b.WriteString("- Age: " + p.TextOr(patient.FieldAge, patient.NotAvailable) + "\n")
	b.WriteString("- Gender: " + p.TextOr(patient.FieldGender, patient.NotAvailable) + "\n")
	b.WriteString("- Diagnosis: " + p.TextOr(patient.FieldDiagnosis, patient.NotAvailable) + "\n")
	b.WriteString("- Assessed Risk Level: " + p.TextOr(patient.FieldRiskLevel, patient.NotAvailable) + "\n")

	b.WriteString("\nIDENTIFIED RISK FACTORS:\n")
	writeBullets(&b, reasons, NoReasons)

	b.WriteString("\nSUPPORTING CLINICAL & POLICY EVIDENCE:\n")
	writeBullets(&b, evidence, NoEvidence)

	b.WriteString("\n")
	b.WriteString(explanationInstructions)
	return b.String()
}

func writeBullets(b *strings.Builder, items []string, fallback string) {
	if len(items) == 0 {
		b.WriteString("- " + fallback + "\n")
		return
	}
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
}
