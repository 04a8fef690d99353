package predicate

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/riskdesk/internal/domain/inquiry"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
)

// Operator is a supported comparison operator.
type Operator string

// Supported operators.
const (
	OpEq         Operator = "="
	OpNe         Operator = "!="
	OpLt         Operator = "<"
	OpLte        Operator = "<="
	OpGt         Operator = ">"
	OpGte        Operator = ">="
	OpLike       Operator = "LIKE"
	OpNotLike    Operator = "NOT LIKE"
	OpIn         Operator = "IN"
	OpNotIn      Operator = "NOT IN"
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT BETWEEN"
	OpIsNull     Operator = "IS NULL"
	OpIsNotNull  Operator = "IS NOT NULL"
)

// Fold is a case function wrapped around the column.
type Fold string

// Case functions.
const (
	FoldNone  Fold = ""
	FoldLower Fold = "LOWER"
	FoldUpper Fold = "UPPER"
)

// likeEscape is the escape character bound in LIKE clauses built from user text.
const likeEscape = `\`

// matchNone is the clause a predicate carries once any condition was refused.
const matchNone = "1 = 0"

// Condition is a single parsed field comparison.
type Condition struct {
	Column string
	Fold   Fold
	Op     Operator
	Values []any
}

// ParseConditions parses one generated condition into its conjuncts.
// Accepted forms, joined with AND and optionally parenthesized:
//
//	column op literal          (=, ==, !=, <>, <, <=, >, >=)
//	column [NOT] LIKE literal
//	column [NOT] IN (literal, ...)
//	column [NOT] BETWEEN literal AND literal
//	column IS [NOT] NULL
//
// column may be wrapped in LOWER() or UPPER(). Literals are single- or
// double-quoted text (a doubled quote escapes a quote) or numbers.
// Anything else, OR included, is an error.
func ParseConditions(s string) ([]Condition, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", s, err)
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty condition")
	}
	p := &parser{toks: toks}
	conds, err := p.conjunction()
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", s, err)
	}
	if t, ok := p.peek(); ok {
		return nil, fmt.Errorf("condition %q: unexpected %q", s, t.text)
	}
	return conds, nil
}

// ParseCondition parses a condition that must hold exactly one comparison.
func ParseCondition(s string) (Condition, error) {
	conds, err := ParseConditions(s)
	if err != nil {
		return Condition{}, err
	}
	if len(conds) != 1 {
		return Condition{}, fmt.Errorf("condition %q: expected one comparison, got %d", s, len(conds))
	}
	return conds[0], nil
}

// Clause is one parameterized SQL fragment.
type Clause struct {
	SQL  string
	Args []any
}

func (c Condition) clause() Clause {
	col := c.Column
	if c.Fold != FoldNone {
		col = string(c.Fold) + "(" + col + ")"
	}
	switch c.Op {
	case OpIsNull, OpIsNotNull:
		return Clause{SQL: col + " " + string(c.Op)}
	case OpIn, OpNotIn:
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(c.Values)), ", ")
		return Clause{SQL: col + " " + string(c.Op) + " (" + marks + ")", Args: c.Values}
	case OpBetween, OpNotBetween:
		return Clause{SQL: col + " " + string(c.Op) + " ? AND ?", Args: c.Values}
	default:
		return Clause{SQL: col + " " + string(c.Op) + " ?", Args: c.Values}
	}
}

// Predicate is a conjunction of parameterized clauses. The zero value matches everything.
type Predicate struct {
	clauses []Clause
	none    bool
}

// IsEmpty reports whether the predicate has no clauses.
func (p Predicate) IsEmpty() bool { return len(p.clauses) == 0 }

// MatchesNone reports whether the predicate was closed because a condition
// could not be applied.
func (p Predicate) MatchesNone() bool { return p.none }

// Clauses returns the clauses in insertion order.
func (p Predicate) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

// Where returns the clauses joined with AND, without the WHERE keyword.
func (p Predicate) Where() string {
	parts := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		parts[i] = c.SQL
	}
	return strings.Join(parts, " AND ")
}

// Args returns the bound values in placeholder order.
func (p Predicate) Args() []any {
	var args []any
	for _, c := range p.clauses {
		args = append(args, c.Args...)
	}
	return args
}

// String returns a debug representation.
func (p Predicate) String() string {
	if p.IsEmpty() {
		return "TRUE"
	}
	return fmt.Sprintf("%s %v", p.Where(), p.Args())
}

// Rejected records a condition the builder refused.
type Rejected struct {
	Condition string
	Err       error
}

// Builder assembles a Predicate from untrusted conditions.
type Builder struct {
	columns  map[string]struct{}
	clauses  []Clause
	rejected []Rejected
}

// NewBuilder starts a predicate restricted to the given columns.
func NewBuilder(columns []string) *Builder {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[strings.ToLower(c)] = struct{}{}
	}
	return &Builder{columns: set}
}

// Condition parses raw and adds its conjuncts. A condition that does not
// parse or names an unknown column is recorded in Rejected, and the built
// predicate then matches nothing.
func (b *Builder) Condition(raw string) *Builder {
	conds, err := ParseConditions(raw)
	if err != nil {
		b.rejected = append(b.rejected, Rejected{Condition: raw, Err: err})
		return b
	}
	for _, c := range conds {
		if _, ok := b.columns[c.Column]; !ok {
			b.rejected = append(b.rejected, Rejected{
				Condition: raw,
				Err:       fmt.Errorf("unknown column %q", c.Column),
			})
			return b
		}
	}
	for _, c := range conds {
		b.clauses = append(b.clauses, c.clause())
	}
	return b
}

// NameContains adds a case-insensitive substring match on the patient name.
// LIKE wildcards in name are escaped; the value is always bound.
func (b *Builder) NameContains(name string) *Builder {
	b.clauses = append(b.clauses, Clause{
		SQL:  patient.FieldName + " LIKE ? ESCAPE '" + likeEscape + "'",
		Args: []any{"%" + EscapeLike(name) + "%"},
	})
	return b
}

// Build returns the predicate. After any rejection it carries a false
// clause, so a refused conjunct never widens the match.
func (b *Builder) Build() Predicate {
	clauses := make([]Clause, len(b.clauses), len(b.clauses)+1)
	copy(clauses, b.clauses)
	if len(b.rejected) > 0 {
		clauses = append(clauses, Clause{SQL: matchNone})
	}
	return Predicate{clauses: clauses, none: len(b.rejected) > 0}
}

// Rejected returns the conditions that were refused.
func (b *Builder) Rejected() []Rejected { return b.rejected }

// EscapeLike escapes LIKE wildcards and the escape character itself.
func EscapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// Combine ANDs the filter's conditions and, when a name is present, appends a
// name match. The predicate matches nothing if any condition was rejected.
func Combine(f inquiry.Filter, columns []string) (Predicate, []Rejected) {
	b := NewBuilder(columns)
	for _, c := range f.Conditions {
		b.Condition(c)
	}
	if f.HasName() {
		b.NameContains(f.Name)
	}
	return b.Build(), b.Rejected()
}
