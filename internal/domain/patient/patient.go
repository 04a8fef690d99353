package patient

import (
	"fmt"
	"strconv"
	"strings"
)

// Registry column names.
const (
	FieldID          = "patient_id"
	FieldName        = "patient_name"
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldDiagnosis   = "diagnosis"
	FieldDiabetes    = "diabetes"
	FieldSmoking     = "smoking_status"
	FieldObesity     = "obesity"
	FieldKidney      = "chronic_kidney_disease"
	FieldAnemia      = "anemia"
	FieldAsthma      = "asthma"
	FieldBloodPress  = "blood_pressure"
	FieldHeartRate   = "heart_rate"
	FieldCholesterol = "cholesterol"
	FieldRiskLevel   = "risk_level"
	FieldPriority    = "care_priority"
	FieldVisitDate   = "visit_date"
)

// Truthy sentinels for categorical flags.
const (
	Yes    = "Yes"
	No     = "No"
	Smoker = "Smoker"
)

// NotAvailable is shown for profile fields missing from a snapshot.
const NotAvailable = "N/A"

// HighCholesterol is the inclusive threshold (mg/dL) for elevated cholesterol.
const HighCholesterol = 200

// Columns lists the registry columns in table order.
var Columns = []string{
	FieldID, FieldName, FieldAge, FieldGender, FieldDiagnosis,
	FieldDiabetes, FieldSmoking, FieldObesity, FieldKidney, FieldAnemia,
	FieldAsthma, FieldBloodPress, FieldHeartRate, FieldCholesterol,
	FieldRiskLevel, FieldPriority, FieldVisitDate,
}

// IntegerColumns lists the registry columns stored as integers.
var IntegerColumns = map[string]struct{}{
	FieldID:          {},
	FieldAge:         {},
	FieldHeartRate:   {},
	FieldCholesterol: {},
}

// Attributes is a read-only snapshot of one patient record keyed by column name.
type Attributes map[string]any

// Has reports whether the snapshot carries a non-nil value for key.
func (a Attributes) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// Text returns the value for key rendered as a string ("" when absent).
func (a Attributes) Text(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Number returns the value for key as an integer. Absent or non-numeric values yield 0.
func (a Attributes) Number(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

// Is reports whether the value for key equals sentinel exactly.
func (a Attributes) Is(key, sentinel string) bool {
	return a.Has(key) && a.Text(key) == sentinel
}

// TextOr returns the value for key, or fallback when absent.
func (a Attributes) TextOr(key, fallback string) string {
	if !a.Has(key) {
		return fallback
	}
	return a.Text(key)
}

// Decision returns the headline risk decision, e.g. "High Risk".
func (a Attributes) Decision() string {
	return a.Text(FieldRiskLevel) + " Risk"
}

// Clone returns a shallow copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// DefaultContext is the neutral snapshot used for evidence retrieval when an
// inquiry matches no records.
func DefaultContext() Attributes {
	return Attributes{
		FieldDiabetes:    No,
		FieldSmoking:     No,
		FieldObesity:     No,
		FieldKidney:      No,
		FieldCholesterol: 0,
		FieldDiagnosis:   "",
	}
}

// Placeholder is the explanation subject used when an inquiry matches no records.
func Placeholder() Attributes {
	return Attributes{
		FieldName:      NotAvailable,
		FieldAge:       NotAvailable,
		FieldGender:    NotAvailable,
		FieldDiagnosis: NotAvailable,
		FieldRiskLevel: NotAvailable,
	}
}

// FallbackReason is used when no individual risk factor is flagged.
const FallbackReason = "Risk derived from combined clinical indicators"

// RiskReasons lists the flagged risk factors behind a patient's risk level.
func RiskReasons(a Attributes) []string {
	var reasons []string
	if a.Is(FieldDiabetes, Yes) {
		reasons = append(reasons, "Patient has diabetes")
	}
	if a.Is(FieldSmoking, Smoker) {
		reasons = append(reasons, "Patient is an active smoker")
	}
	if a.Number(FieldCholesterol) >= HighCholesterol {
		reasons = append(reasons, "Elevated cholesterol level")
	}
	if a.Is(FieldObesity, Yes) {
		reasons = append(reasons, "Patient is obese")
	}
	if a.Is(FieldKidney, Yes) {
		reasons = append(reasons, "Chronic kidney disease present")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, FallbackReason)
	}
	return reasons
}
