package predicate

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/riskdesk/internal/domain/inquiry"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in   string
		want Condition
	}{
		{"risk_level = 'High'", Condition{"risk_level", FoldNone, OpEq, []any{"High"}}},
		{"risk_level='High'", Condition{"risk_level", FoldNone, OpEq, []any{"High"}}},
		{`risk_level = "High"`, Condition{"risk_level", FoldNone, OpEq, []any{"High"}}},
		{"risk_level == 'High'", Condition{"risk_level", FoldNone, OpEq, []any{"High"}}},
		{"  AGE>=60 ", Condition{"age", FoldNone, OpGte, []any{int64(60)}}},
		{"cholesterol < 200.5", Condition{"cholesterol", FoldNone, OpLt, []any{200.5}}},
		{"diagnosis like '%Cardiac%'", Condition{"diagnosis", FoldNone, OpLike, []any{"%Cardiac%"}}},
		{"diagnosis NOT   LIKE '%Asthma%'", Condition{"diagnosis", FoldNone, OpNotLike, []any{"%Asthma%"}}},
		{"gender <> 'Male'", Condition{"gender", FoldNone, OpNe, []any{"Male"}}},
		{"patient_name = 'O''Brien'", Condition{"patient_name", FoldNone, OpEq, []any{"O'Brien"}}},
		{"heart_rate > -1", Condition{"heart_rate", FoldNone, OpGt, []any{int64(-1)}}},
		{"risk_level IN ('High', 'Medium')", Condition{"risk_level", FoldNone, OpIn, []any{"High", "Medium"}}},
		{"age NOT IN (1,2,3)", Condition{"age", FoldNone, OpNotIn, []any{int64(1), int64(2), int64(3)}}},
		{"age BETWEEN 40 AND 60", Condition{"age", FoldNone, OpBetween, []any{int64(40), int64(60)}}},
		{"age not between 40 and 60", Condition{"age", FoldNone, OpNotBetween, []any{int64(40), int64(60)}}},
		{"LOWER(diagnosis) LIKE '%cardiac%'", Condition{"diagnosis", FoldLower, OpLike, []any{"%cardiac%"}}},
		{"visit_date IS NOT NULL", Condition{"visit_date", FoldNone, OpIsNotNull, nil}},
		{`"risk_level" = 'Low'`, Condition{"risk_level", FoldNone, OpEq, []any{"Low"}}},
	}
	for _, tc := range tests {
		got, err := ParseCondition(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseConditions_SplitsTopLevelAnd(t *testing.T) {
	got, err := ParseConditions("risk_level = 'High' AND (care_priority = 'Urgent' AND age BETWEEN 40 AND 60)")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "risk_level", got[0].Column)
	assert.Equal(t, "care_priority", got[1].Column)
	assert.Equal(t, OpBetween, got[2].Op)

	_, err = ParseCondition("risk_level = 'High' AND age > 60")
	assert.Error(t, err, "ParseCondition wants exactly one comparison")
}

func TestParseCondition_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"1=1",
		"risk_level = 'High' OR 1=1",
		"risk_level = 'High'; DROP TABLE patients",
		"risk_level = High",
		"risk_level = 'unterminated",
		"patient_name LIKE '%a%' --",
		"likely = 'x' like 'y'",
		"age BETWEEN 1",
		"age IN ()",
		"age IN (SELECT age FROM patients)",
		"SUBSTR(diagnosis, 1) = 'x'",
		"(risk_level = 'High'",
		"age > 1abc",
	} {
		_, err := ParseConditions(in)
		assert.Error(t, err, "%q should be rejected", in)
	}
}

func TestCombine_Empty(t *testing.T) {
	p, rejected := Combine(inquiry.Failed(), patient.Columns)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "", p.Where())
	assert.Empty(t, p.Args())
	assert.Empty(t, rejected)
	assert.Equal(t, "TRUE", p.String())
}

func TestCombine_NameAppendedAfterConditions(t *testing.T) {
	f := inquiry.Filter{Conditions: []string{"risk_level = 'High'"}, Name: "Smith"}
	p, rejected := Combine(f, patient.Columns)
	require.Empty(t, rejected)

	assert.Equal(t, `risk_level = ? AND patient_name LIKE ? ESCAPE '\'`, p.Where())
	assert.Equal(t, []any{"High", "%Smith%"}, p.Args())
}

func TestCombine_NameOnly(t *testing.T) {
	p, _ := Combine(inquiry.Filter{Name: "Smith"}, patient.Columns)
	assert.Equal(t, `patient_name LIKE ? ESCAPE '\'`, p.Where())
	assert.Equal(t, []any{"%Smith%"}, p.Args())
}

func TestCombine_NameIsNeverInterpolated(t *testing.T) {
	name := "x' OR '1'='1"
	p, _ := Combine(inquiry.Filter{Name: name}, patient.Columns)
	assert.NotContains(t, p.Where(), "OR")
	assert.Equal(t, []any{"%" + name + "%"}, p.Args())
}

func TestCombine_RejectedConditionMatchesNothing(t *testing.T) {
	f := inquiry.Filter{Conditions: []string{
		"has_insurance = 1",
		"risk_level = 'High'",
		"1=1; DELETE FROM patients",
	}}
	p, rejected := Combine(f, patient.Columns)
	require.Len(t, rejected, 2)
	assert.Equal(t, "has_insurance = 1", rejected[0].Condition)
	assert.ErrorContains(t, rejected[0].Err, `unknown column "has_insurance"`)
	assert.Error(t, rejected[1].Err)

	assert.True(t, p.MatchesNone())
	assert.Equal(t, "risk_level = ? AND 1 = 0", p.Where())
	assert.Equal(t, []any{"High"}, p.Args())
}

func TestCombine_OnlyConditionRejectedNeverMatchesAll(t *testing.T) {
	p, rejected := Combine(inquiry.Filter{
		Conditions: []string{"risk_level = 'High' OR 1=1"},
		Name:       "Smith",
	}, patient.Columns)
	require.Len(t, rejected, 1)
	assert.False(t, p.IsEmpty())
	assert.True(t, p.MatchesNone())
	assert.Contains(t, p.Where(), "1 = 0")
}

func TestCombine_PartialUnknownColumnRejectsWholeCondition(t *testing.T) {
	p, rejected := Combine(inquiry.Filter{
		Conditions: []string{"risk_level = 'High' AND insurer = 'Acme'"},
	}, patient.Columns)
	require.Len(t, rejected, 1)
	assert.Equal(t, "1 = 0", p.Where(), "no half of a refused condition may survive")
}

func TestCombine_CommonModelForms(t *testing.T) {
	tests := []struct {
		cond  string
		where string
		args  []any
	}{
		{`risk_level = "High"`, "risk_level = ?", []any{"High"}},
		{"risk_level IN ('High', 'Medium')", "risk_level IN (?, ?)", []any{"High", "Medium"}},
		{"age BETWEEN 40 AND 60", "age BETWEEN ? AND ?", []any{int64(40), int64(60)}},
		{"LOWER(diagnosis) LIKE '%cardiac%'", "LOWER(diagnosis) LIKE ?", []any{"%cardiac%"}},
		{"risk_level = 'High' AND care_priority = 'Urgent'", "risk_level = ? AND care_priority = ?", []any{"High", "Urgent"}},
		{"visit_date IS NULL", "visit_date IS NULL", nil},
	}
	for _, tc := range tests {
		p, rejected := Combine(inquiry.Filter{Conditions: []string{tc.cond}}, patient.Columns)
		require.Empty(t, rejected, tc.cond)
		assert.False(t, p.MatchesNone(), tc.cond)
		assert.Equal(t, tc.where, p.Where(), tc.cond)
		assert.Equal(t, tc.args, p.Args(), tc.cond)
	}
}

func TestCombine_OrderIndependent(t *testing.T) {
	conds := []string{"risk_level = 'High'", "age > 60", "diagnosis LIKE '%Cardiac%'"}
	perms := [][]string{
		{conds[0], conds[1], conds[2]},
		{conds[2], conds[0], conds[1]},
		{conds[1], conds[2], conds[0]},
	}

	var want []string
	for i, perm := range perms {
		p, _ := Combine(inquiry.Filter{Conditions: perm, Name: "Lee"}, patient.Columns)
		clauses := p.Clauses()

		last := clauses[len(clauses)-1]
		assert.Equal(t, []any{"%Lee%"}, last.Args, "name must stay last")

		got := clauseKeys(clauses)
		if i == 0 {
			want = got
			continue
		}
		assert.Equal(t, want, got)
	}
}

func clauseKeys(clauses []Clause) []string {
	keys := make([]string, len(clauses))
	for i, c := range clauses {
		keys[i] = fmt.Sprintf("%s|%v", c.SQL, c.Args)
	}
	sort.Strings(keys)
	return keys
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, EscapeLike(`50%_off\`))
	assert.Equal(t, "Smith", EscapeLike("Smith"))
}
