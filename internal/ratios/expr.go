// Package ratios loads ratio-rule files and evaluates their formulas against
// a canonical measure table. Formulas are restricted to numeric literals,
// measure names, the four arithmetic operators and parentheses; rule files
// can never inject anything executable.
package ratios

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/shopspring/decimal"
)

// Vars supplies measure values during evaluation. Satisfied by
// engine.MeasureTable.
type Vars interface {
	Get(name string) (decimal.Decimal, bool)
}

// UnknownMeasureError marks a formula referencing a measure absent from the
// table. Not a failure of the engine: the rule's result becomes NaN.
type UnknownMeasureError struct {
	Name string
}

func (e UnknownMeasureError) Error() string {
	return fmt.Sprintf("missing measure %q", e.Name)
}

// ErrDivisionByZero marks a denominator that evaluated to exactly zero.
var ErrDivisionByZero = errors.New("division by zero")

// Expr is a parsed formula, evaluatable against any Vars.
type Expr interface {
	Eval(vars Vars) (decimal.Decimal, error)
}

type literal struct {
	value decimal.Decimal
}

func (n literal) Eval(Vars) (decimal.Decimal, error) { return n.value, nil }

type ident struct {
	name string
}

func (n ident) Eval(vars Vars) (decimal.Decimal, error) {
	v, ok := vars.Get(n.name)
	if !ok {
		return decimal.Decimal{}, UnknownMeasureError{Name: n.name}
	}
	return v, nil
}

type negate struct {
	operand Expr
}

func (n negate) Eval(vars Vars) (decimal.Decimal, error) {
	v, err := n.operand.Eval(vars)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.Neg(), nil
}

type binary struct {
	op    byte // '+', '-', '*', '/'
	left  Expr
	right Expr
}

func (n binary) Eval(vars Vars) (decimal.Decimal, error) {
	l, err := n.left.Eval(vars)
	if err != nil {
		return decimal.Decimal{}, err
	}
	r, err := n.right.Eval(vars)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch n.op {
	case '+':
		return l.Add(r), nil
	case '-':
		return l.Sub(r), nil
	case '*':
		return l.Mul(r), nil
	default:
		if r.IsZero() {
			return decimal.Decimal{}, ErrDivisionByZero
		}
		return l.Div(r), nil
	}
}

// ParseExpr parses a formula into an expression tree.
//
// Grammar:
//
//	expr   := term (('+'|'-') term)*
//	term   := factor (('*'|'/') factor)*
//	factor := NUMBER | IDENT | '(' expr ')' | '-' factor
func ParseExpr(src string) (Expr, error) {
	p := &parser{src: src}
	e, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("expression %q: unexpected %q at position %d", src, p.src[p.pos], p.pos)
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseFactor() (Expr, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, errors.New("unexpected end of expression")
	}

	switch c := p.src[p.pos]; {
	case c == '-':
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return negate{operand: operand}, nil

	case c == '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, errors.New("missing closing parenthesis")
		}
		p.pos++
		return e, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case isIdentStart(rune(c)):
		return p.parseIdent(), nil

	default:
		return nil, fmt.Errorf("unexpected %q at position %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	v, err := decimal.NewFromString(p.src[start:p.pos])
	if err != nil {
		return nil, fmt.Errorf("bad number %q", p.src[start:p.pos])
	}
	return literal{value: v}, nil
}

func (p *parser) parseIdent() Expr {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	return ident{name: p.src[start:p.pos]}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// MeasureRefs returns the measure names an expression references, in first
// occurrence order. Used for diagnostics.
func MeasureRefs(e Expr) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case ident:
			if !seen[n.name] {
				seen[n.name] = true
				names = append(names, n.name)
			}
		case negate:
			walk(n.operand)
		case binary:
			walk(n.left)
			walk(n.right)
		}
	}
	walk(e)
	return names
}
