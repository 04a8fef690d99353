package predicate

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokQuotedIdent
	tokString
	tokNumber
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
}

// keyword reports whether t is the bare keyword kw (case-insensitive).
func (t token) keyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (t token) symbol(s string) bool {
	return t.kind == tokSymbol && t.text == s
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'' || c == '"':
			text, n, err := readQuoted(s[i:], c)
			if err != nil {
				return nil, err
			}
			kind := tokString
			if c == '"' {
				kind = tokQuotedIdent
			}
			toks = append(toks, token{kind: kind, text: text})
			i += n
		case isDigit(c) || (c == '.' && i+1 < len(s) && isDigit(s[i+1])):
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			if j < len(s) && s[j] == '.' {
				j++
				for j < len(s) && isDigit(s[j]) {
					j++
				}
			}
			if j < len(s) && isIdentStart(s[j]) {
				return nil, fmt.Errorf("malformed number at %q", s[i:])
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && (isIdentStart(s[j]) || isDigit(s[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: s[i:j]})
			i = j
		default:
			sym := ""
			for _, cand := range []string{"<=", ">=", "<>", "!=", "==", "=", "<", ">", "(", ")", ",", "-"} {
				if strings.HasPrefix(s[i:], cand) {
					sym = cand
					break
				}
			}
			if sym == "" {
				return nil, fmt.Errorf("unexpected character %q", c)
			}
			toks = append(toks, token{kind: tokSymbol, text: sym})
			i += len(sym)
		}
	}
	return toks, nil
}

// readQuoted reads a quoted run starting at s[0]; a doubled quote is a literal quote.
func readQuoted(s string, q byte) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != q {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			b.WriteByte(q)
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, fmt.Errorf("unterminated %c-quoted text", q)
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, error) {
	t, ok := p.peek()
	if !ok {
		return token{}, fmt.Errorf("unexpected end of condition")
	}
	p.pos++
	return t, nil
}

func (p *parser) acceptKeyword(kw string) bool {
	if t, ok := p.peek(); ok && t.keyword(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptSymbol(s string) bool {
	if t, ok := p.peek(); ok && t.symbol(s) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectSymbol(s string) error {
	if !p.acceptSymbol(s) {
		return fmt.Errorf("expected %q", s)
	}
	return nil
}

// conjunction := term (AND term)*
func (p *parser) conjunction() ([]Condition, error) {
	var out []Condition
	for {
		conds, err := p.term()
		if err != nil {
			return nil, err
		}
		out = append(out, conds...)
		if !p.acceptKeyword("AND") {
			return out, nil
		}
	}
}

// term := '(' conjunction ')' | comparison
func (p *parser) term() ([]Condition, error) {
	if p.acceptSymbol("(") {
		conds, err := p.conjunction()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return conds, nil
	}
	c, err := p.comparison()
	if err != nil {
		return nil, err
	}
	return []Condition{c}, nil
}

func (p *parser) comparison() (Condition, error) {
	c, err := p.operand()
	if err != nil {
		return Condition{}, err
	}

	t, err := p.next()
	if err != nil {
		return Condition{}, err
	}

	if t.kind == tokSymbol {
		op, ok := comparisonOps[t.text]
		if !ok {
			return Condition{}, fmt.Errorf("unexpected %q after column", t.text)
		}
		v, err := p.literal()
		if err != nil {
			return Condition{}, err
		}
		c.Op, c.Values = op, []any{v}
		return c, nil
	}

	negated := t.keyword("NOT")
	if negated {
		if t, err = p.next(); err != nil {
			return Condition{}, err
		}
	}

	switch {
	case t.keyword("LIKE"):
		v, err := p.literal()
		if err != nil {
			return Condition{}, err
		}
		c.Op, c.Values = pick(negated, OpNotLike, OpLike), []any{v}
	case t.keyword("IN"):
		vs, err := p.list()
		if err != nil {
			return Condition{}, err
		}
		c.Op, c.Values = pick(negated, OpNotIn, OpIn), vs
	case t.keyword("BETWEEN"):
		lo, err := p.literal()
		if err != nil {
			return Condition{}, err
		}
		if !p.acceptKeyword("AND") {
			return Condition{}, fmt.Errorf("BETWEEN without AND")
		}
		hi, err := p.literal()
		if err != nil {
			return Condition{}, err
		}
		c.Op, c.Values = pick(negated, OpNotBetween, OpBetween), []any{lo, hi}
	case t.keyword("IS") && !negated:
		not := p.acceptKeyword("NOT")
		if !p.acceptKeyword("NULL") {
			return Condition{}, fmt.Errorf("IS must be followed by NULL")
		}
		c.Op = pick(not, OpIsNotNull, OpIsNull)
	default:
		return Condition{}, fmt.Errorf("unsupported operator %q", t.text)
	}
	return c, nil
}

var comparisonOps = map[string]Operator{
	"=": OpEq, "==": OpEq, "!=": OpNe, "<>": OpNe,
	"<": OpLt, "<=": OpLte, ">": OpGt, ">=": OpGte,
}

func pick(negated bool, neg, pos Operator) Operator {
	if negated {
		return neg
	}
	return pos
}

// operand := column | "column" | LOWER(column) | UPPER(column)
func (p *parser) operand() (Condition, error) {
	t, err := p.next()
	if err != nil {
		return Condition{}, err
	}
	switch t.kind {
	case tokQuotedIdent:
		return Condition{Column: strings.ToLower(t.text)}, nil
	case tokIdent:
		fold := Fold(strings.ToUpper(t.text))
		if (fold == FoldLower || fold == FoldUpper) && p.acceptSymbol("(") {
			inner, err := p.next()
			if err != nil {
				return Condition{}, err
			}
			if inner.kind != tokIdent && inner.kind != tokQuotedIdent {
				return Condition{}, fmt.Errorf("%s expects a column", fold)
			}
			if err := p.expectSymbol(")"); err != nil {
				return Condition{}, err
			}
			return Condition{Column: strings.ToLower(inner.text), Fold: fold}, nil
		}
		if reserved[strings.ToUpper(t.text)] {
			return Condition{}, fmt.Errorf("expected column, got keyword %q", t.text)
		}
		return Condition{Column: strings.ToLower(t.text)}, nil
	default:
		return Condition{}, fmt.Errorf("expected column, got %q", t.text)
	}
}

var reserved = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "LIKE": true, "IN": true,
	"BETWEEN": true, "IS": true, "NULL": true, "SELECT": true,
}

// literal := 'text' | "text" | [-]number
// A double-quoted word on the value side reads as text, as SQLite does
// when no column has that name.
func (p *parser) literal() (any, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	negative := false
	if t.symbol("-") {
		negative = true
		if t, err = p.next(); err != nil {
			return nil, err
		}
		if t.kind != tokNumber {
			return nil, fmt.Errorf("expected number after '-'")
		}
	}
	switch t.kind {
	case tokString, tokQuotedIdent:
		return t.text, nil
	case tokNumber:
		text := t.text
		if negative {
			text = "-" + text
		}
		if strings.Contains(text, ".") {
			return strconv.ParseFloat(text, 64)
		}
		return strconv.ParseInt(text, 10, 64)
	default:
		return nil, fmt.Errorf("expected a quoted string or number, got %q", t.text)
	}
}

// list := '(' literal (',' literal)* ')'
func (p *parser) list() ([]any, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var vs []any
	for {
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
		if p.acceptSymbol(")") {
			return vs, nil
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
	}
}
