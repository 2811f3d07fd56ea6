// Package parse reads single-variable real functions written the way they
// are typed by hand: "x^2 - 4", "2x sin x", "(x-1)/(x-1)", "sqrt(x-4)".
//
// Powers are written ^ or **. Juxtaposition multiplies, so 2x, x(x+1) and
// (x+1)(x-1) are products. A function name applies to a parenthesized
// argument or to the power that follows it: sin x^2 is sin(x^2). Known
// functions are abs, sqrt, log (ln), exp, sin, cos, tan, asin, acos, atan,
// sinh, cosh and tanh; known constants are e and pi (π).
package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// DefaultVar is the variable used when none is given.
const DefaultVar = "x"

// Error describes a parse failure at a byte offset of Input.
type Error struct {
	Pos   int
	Msg   string
	Input string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

// Caret returns the input with a marker line under the offending offset.
func (e *Error) Caret() string {
	pos := e.Pos
	if pos > len(e.Input) {
		pos = len(e.Input)
	}
	width := len([]rune(e.Input[:pos]))
	return e.Input + "\n" + strings.Repeat(" ", width) + "^"
}

var constants = map[string]symbolic.Expr{
	"e":  symbolic.E,
	"pi": symbolic.Pi,
}

// Parse reads text as a function of varName. An empty varName means x.
func Parse(text, varName string) (symbolic.Expr, error) {
	if varName == "" {
		varName = DefaultVar
	}
	if err := checkVar(varName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Pos: 0, Msg: "empty expression", Input: text}
	}
	toks, err := newLexer(text, knownNames(varName)).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, input: text, varName: varName}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s", describe(t))
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text, varName string) symbolic.Expr {
	e, err := Parse(text, varName)
	if err != nil {
		panic(err)
	}
	return e
}

func checkVar(name string) error {
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return &Error{Msg: fmt.Sprintf("invalid variable name %q", name), Input: name}
		}
	}
	if name[0] >= '0' && name[0] <= '9' {
		return &Error{Msg: fmt.Sprintf("invalid variable name %q", name), Input: name}
	}
	if _, ok := constants[name]; ok {
		return &Error{Msg: fmt.Sprintf("variable %q is a constant", name), Input: name}
	}
	if _, ok := symbolic.FuncOf(name, symbolic.N(0)); ok {
		return &Error{Msg: fmt.Sprintf("variable %q is a function name", name), Input: name}
	}
	return nil
}

func knownNames(varName string) []string {
	names := append(symbolic.FuncNames(), varName)
	for c := range constants {
		names = append(names, c)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

func describe(t token) string {
	if t.text == "" {
		return t.kind.String()
	}
	return t.kind.String() + " " + quoteWord(t.text)
}

type parser struct {
	toks    []token
	i       int
	input   string
	varName string
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return &Error{Pos: t.pos, Msg: fmt.Sprintf(format, args...), Input: p.input}
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (symbolic.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = symbolic.AddOf(left, right)
		case tokMinus:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = symbolic.AddOf(left, symbolic.MulOf(symbolic.N(-1), right))
		default:
			return left, nil
		}
	}
}

// term := unary (('*' | '/')? unary)*
func (p *parser) term() (symbolic.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch t := p.peek(); t.kind {
		case tokStar:
			p.next()
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = symbolic.MulOf(left, right)
		case tokSlash:
			p.next()
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = symbolic.MulOf(left, symbolic.PowOf(right, symbolic.N(-1)))
		case tokNumber, tokIdent, tokLParen:
			right, err := p.power()
			if err != nil {
				return nil, err
			}
			left = symbolic.MulOf(left, right)
		default:
			return left, nil
		}
	}
}

// unary := ('-' | '+') unary | power
func (p *parser) unary() (symbolic.Expr, error) {
	switch p.peek().kind {
	case tokMinus:
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return symbolic.MulOf(symbolic.N(-1), operand), nil
	case tokPlus:
		p.next()
		return p.unary()
	}
	return p.power()
}

// power := primary ('^' unary)?
func (p *parser) power() (symbolic.Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return symbolic.PowOf(base, exp), nil
}

func (p *parser) primary() (symbolic.Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return symbolic.NRat(t.num), nil
	case tokLParen:
		return p.group(t)
	case tokIdent:
		if t.text == p.varName {
			return symbolic.S(t.text), nil
		}
		if c, ok := constants[t.text]; ok {
			return c, nil
		}
		return p.apply(t)
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of input")
	}
	return nil, p.errorf(t, "unexpected %s", describe(t))
}

func (p *parser) group(open token) (symbolic.Expr, error) {
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokRParen {
		return nil, p.errorf(p.peek(), "missing ')' for '(' at offset %d", open.pos)
	}
	p.next()
	return e, nil
}

// apply reads the argument of a named function: a parenthesized expression,
// or else the power that follows the name.
func (p *parser) apply(name token) (symbolic.Expr, error) {
	var arg symbolic.Expr
	var err error
	switch p.peek().kind {
	case tokLParen:
		arg, err = p.group(p.next())
	case tokNumber, tokIdent, tokMinus:
		arg, err = p.unary()
	default:
		return nil, p.errorf(name, "function %s needs an argument", name.text)
	}
	if err != nil {
		return nil, err
	}
	f, ok := symbolic.FuncOf(name.text, arg)
	if !ok {
		return nil, p.errorf(name, "unknown function %s", name.text)
	}
	return f, nil
}
