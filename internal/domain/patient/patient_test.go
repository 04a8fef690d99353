package patient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributes_Number(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want int
	}{
		{"int", 250, 250},
		{"int64", int64(199), 199},
		{"float64 from json", float64(200), 200},
		{"numeric string", " 240 ", 240},
		{"garbage string", "high", 0},
		{"nil", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Attributes{FieldCholesterol: tc.val}
			assert.Equal(t, tc.want, a.Number(FieldCholesterol))
		})
	}

	assert.Equal(t, 0, Attributes{}.Number(FieldCholesterol), "missing value counts as 0")
}

func TestAttributes_Text(t *testing.T) {
	a := Attributes{
		FieldName: "Jane Smith",
		FieldAge:  int64(54),
		"blob":    []byte("raw"),
		"ratio":   1.5,
	}
	assert.Equal(t, "Jane Smith", a.Text(FieldName))
	assert.Equal(t, "54", a.Text(FieldAge))
	assert.Equal(t, "raw", a.Text("blob"))
	assert.Equal(t, "1.5", a.Text("ratio"))
	assert.Equal(t, "", a.Text(FieldDiagnosis))
	assert.Equal(t, NotAvailable, a.TextOr(FieldDiagnosis, NotAvailable))
}

func TestAttributes_Is_ExactMatch(t *testing.T) {
	a := Attributes{FieldDiabetes: "yes", FieldSmoking: Smoker}
	assert.False(t, a.Is(FieldDiabetes, Yes), "sentinel match is case-sensitive")
	assert.True(t, a.Is(FieldSmoking, Smoker))
	assert.False(t, a.Is(FieldObesity, Yes))
}

func TestRiskReasons(t *testing.T) {
	a := Attributes{
		FieldDiabetes:    Yes,
		FieldSmoking:     Smoker,
		FieldCholesterol: int64(200),
		FieldObesity:     Yes,
		FieldKidney:      Yes,
	}
	assert.Equal(t, []string{
		"Patient has diabetes",
		"Patient is an active smoker",
		"Elevated cholesterol level",
		"Patient is obese",
		"Chronic kidney disease present",
	}, RiskReasons(a))

	assert.Equal(t, []string{FallbackReason}, RiskReasons(Attributes{FieldCholesterol: 199}))
}

func TestDefaultContext_FlagsNothing(t *testing.T) {
	assert.Equal(t, []string{FallbackReason}, RiskReasons(DefaultContext()))
}

func TestDecision(t *testing.T) {
	assert.Equal(t, "High Risk", Attributes{FieldRiskLevel: "High"}.Decision())
}

func TestClone_Independent(t *testing.T) {
	a := Attributes{FieldName: "A"}
	b := a.Clone()
	b[FieldName] = "B"
	assert.Equal(t, "A", a.Text(FieldName))
}
