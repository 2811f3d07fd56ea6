// Package symbolic provides the expression kernel used by the function
// analyzer: an immutable tree over exact rationals and one real variable,
// with substitution, canonical simplification, differentiation, limits,
// real root solving and real sets.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), exact surds for roots
//   - Deterministic canonical form and stable output
//   - Every symbol is real-valued, so reality queries are meaningful
//   - Undefined results are values (±∞, complex infinity, NaN), never panics
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable expression node. Every operation returns a new value.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num: rational number, exact unless produced from a float
// ============================================================

type Num struct {
	val    *big.Rat
	approx bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NRat wraps a copy of r as an exact number.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// NFloat wraps a finite float as an approximate number.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		panic("symbolic: NFloat of non-finite value")
	}
	return &Num{val: r, approx: true}
}

// FloatExpr maps any float to an expression, including ±∞ and NaN.
func FloatExpr(f float64) Expr {
	switch {
	case math.IsNaN(f):
		return NaN
	case math.IsInf(f, 1):
		return Inf
	case math.IsInf(f, -1):
		return NegInf
	}
	return NFloat(f)
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return !n.approx && n.val.IsInt() }
func (n *Num) IsExact() bool         { return !n.approx }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.approx {
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.approx || n.val.IsInt() {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	m := map[string]interface{}{"type": "num", "value": n.val.RatString()}
	if n.approx {
		m["approx"] = true
	}
	return m
}

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), approx: a.approx || b.approx}
}
func numSub(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Sub(a.val, b.val), approx: a.approx || b.approx}
}
func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), approx: a.approx || b.approx}
}
func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), approx: a.approx} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val), approx: a.approx}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num {
	r := new(big.Rat).Abs(a.val)
	return &Num{val: r, approx: a.approx}
}
func numCmp(a, b *Num) int { return a.val.Cmp(b.val) }

// ============================================================
// Sym: real-valued symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named real constants
// ============================================================

type Const struct{ name string }

var (
	E  = &Const{name: "e"}
	Pi = &Const{name: "pi"}
)

func (c *Const) Float64() float64 {
	if c.name == "pi" {
		return math.Pi
	}
	return math.E
}
func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return NFloat(c.Float64()), true }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && o.name == c.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}
func (c *Const) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return "e"
}

// ============================================================
// Special values: ±∞, complex infinity, NaN
// ============================================================

// Infinity is +∞ or -∞ on the extended real line.
type Infinity struct{ neg bool }

// ComplexInfinity is the unsigned infinity produced by division by zero.
type ComplexInfinity struct{}

// NotANumber is the undefined value produced by indeterminate forms.
type NotANumber struct{}

var (
	Inf    = &Infinity{}
	NegInf = &Infinity{neg: true}
	Zoo    = &ComplexInfinity{}
	NaN    = &NotANumber{}
)

func (i *Infinity) Simplify() Expr        { return i }
func (i *Infinity) Sub(string, Expr) Expr { return i }
func (i *Infinity) Diff(string) Expr      { return N(0) }
func (i *Infinity) Eval() (*Num, bool)    { return nil, false }
func (i *Infinity) Equal(other Expr) bool { o, ok := other.(*Infinity); return ok && o.neg == i.neg }
func (i *Infinity) exprType() string      { return "inf" }
func (i *Infinity) IsNegative() bool      { return i.neg }
func (i *Infinity) String() string {
	if i.neg {
		return "-∞"
	}
	return "∞"
}
func (i *Infinity) LaTeX() string {
	if i.neg {
		return "-\\infty"
	}
	return "\\infty"
}
func (i *Infinity) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "inf", "negative": i.neg}
}

func (z *ComplexInfinity) Simplify() Expr        { return z }
func (z *ComplexInfinity) Sub(string, Expr) Expr { return z }
func (z *ComplexInfinity) Diff(string) Expr      { return NaN }
func (z *ComplexInfinity) Eval() (*Num, bool)    { return nil, false }
func (z *ComplexInfinity) Equal(other Expr) bool { _, ok := other.(*ComplexInfinity); return ok }
func (z *ComplexInfinity) exprType() string      { return "zoo" }
func (z *ComplexInfinity) String() string        { return "zoo" }
func (z *ComplexInfinity) LaTeX() string         { return "\\tilde{\\infty}" }
func (z *ComplexInfinity) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "zoo"}
}

func (n *NotANumber) Simplify() Expr        { return n }
func (n *NotANumber) Sub(string, Expr) Expr { return n }
func (n *NotANumber) Diff(string) Expr      { return n }
func (n *NotANumber) Eval() (*Num, bool)    { return nil, false }
func (n *NotANumber) Equal(other Expr) bool { _, ok := other.(*NotANumber); return ok }
func (n *NotANumber) exprType() string      { return "nan" }
func (n *NotANumber) String() string        { return "nan" }
func (n *NotANumber) LaTeX() string         { return "\\text{NaN}" }
func (n *NotANumber) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "nan"}
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	if special := addSpecials(flat); special != nil {
		return special
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	result := []Expr{}
	for _, key := range order {
		coeff := coeffs[key]
		if coeff.IsZero() {
			continue
		}
		if coeff.IsOne() && coeff.IsExact() {
			result = append(result, rests[key])
		} else {
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	sortTerms(result)
	if !numAccum.IsZero() || (numAccum.approx && len(result) == 0) {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// addSpecials resolves a sum containing ±∞, complex infinity or NaN.
func addSpecials(terms []Expr) Expr {
	var pos, neg, zoo bool
	for _, t := range terms {
		switch v := t.(type) {
		case *NotANumber:
			return NaN
		case *ComplexInfinity:
			zoo = true
		case *Infinity:
			if v.neg {
				neg = true
			} else {
				pos = true
			}
		}
	}
	switch {
	case zoo && (pos || neg):
		return NaN
	case zoo:
		return Zoo
	case pos && neg:
		return NaN
	case pos:
		return Inf
	case neg:
		return NegInf
	}
	return nil
}

// sortTerms orders terms by descending polynomial degree, keeping the
// first-seen order among equal degrees.
func sortTerms(terms []Expr) {
	sort.SliceStable(terms, func(i, j int) bool {
		return termDegree(terms[i]) > termDegree(terms[j])
	})
}

func termDegree(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.IsPositive() && n.val.Num().IsInt64() {
			return int(n.val.Num().Int64()) * termDegree(v.base)
		}
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += termDegree(f)
		}
		return d
	case *Add:
		d := 0
		for _, t := range v.terms {
			if td := termDegree(t); td > d {
				d = td
			}
		}
		return d
	}
	return 0
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numeric coefficients and merges
// repeated bases with positive integer exponents. Bases with negative or
// fractional exponents are never merged here, so (x-1)/(x-1) keeps its
// shape until DeepSimplify cancels it.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	others := []Expr{}
	var zoo bool
	infs, infSign := 0, 1
	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *NotANumber:
			return NaN
		case *ComplexInfinity:
			zoo = true
		case *Infinity:
			infs++
			if v.neg {
				infSign = -infSign
			}
		default:
			others = append(others, f)
		}
	}
	if zoo || infs > 0 {
		if coeff.IsZero() {
			return NaN
		}
		if zoo {
			return Zoo
		}
		if coeff.IsNegative() {
			infSign = -infSign
		}
		signed := Expr(Inf)
		if infSign < 0 {
			signed = NegInf
		}
		if len(others) == 0 {
			return signed
		}
		return &Mul{factors: append([]Expr{signed}, others...)}
	}
	if coeff.IsZero() {
		return coeff
	}
	others = mergePositivePowers(others)
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sortedOthers := make([]Expr, len(ks))
	for i := range ks {
		sortedOthers[i] = ks[i].e
	}
	others = sortedOthers

	if coeff.IsOne() && coeff.IsExact() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// mergePositivePowers combines x^a * x^b into x^(a+b) when both exponents
// are positive integers.
func mergePositivePowers(factors []Expr) []Expr {
	exps := map[string]*Num{}
	bases := map[string]Expr{}
	order := []string{}
	var rest []Expr
	merged := false
	for _, f := range factors {
		base, exp := splitPow(f)
		en, ok := exp.(*Num)
		if !ok || !en.IsInteger() || !en.IsPositive() {
			rest = append(rest, f)
			continue
		}
		key := base.String()
		if prev, seen := exps[key]; seen {
			exps[key] = numAdd(prev, en)
			merged = true
			continue
		}
		exps[key] = en
		bases[key] = base
		order = append(order, key)
	}
	if !merged {
		return factors
	}
	out := make([]Expr, 0, len(order)+len(rest))
	for _, key := range order {
		out = append(out, PowOf(bases[key], exps[key]))
	}
	return append(out, rest...)
}

// splitPow views any expression as base^exp.
func splitPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	if isNaN(base) || isNaN(exp) {
		return NaN
	}
	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() && en.IsExact() {
		return base
	}

	switch b := base.(type) {
	case *ComplexInfinity:
		if expIsNum {
			if en.IsNegative() {
				return N(0)
			}
			return Zoo
		}
	case *Infinity:
		if expIsNum {
			if en.IsNegative() {
				return N(0)
			}
			if !b.neg {
				return Inf
			}
			if en.IsInteger() {
				if new(big.Int).Rem(en.val.Num(), big.NewInt(2)).Sign() != 0 {
					return NegInf
				}
				return Inf
			}
			return Zoo
		}
	case *Num:
		if b.IsZero() {
			if expIsNum {
				if en.IsNegative() {
					return Zoo
				}
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		}
		if b.IsOne() && b.IsExact() {
			if hasSpecial(exp) {
				return NaN
			}
			return N(1)
		}
		if expIsNum {
			if r := numPow(b, en); r != nil {
				return r
			}
		}
	case *Pow:
		if expIsNum {
			if ie, ok := b.exp.(*Num); ok {
				if en.IsInteger() {
					return PowOf(b.base, numMul(ie, en))
				}
				if ie.IsInteger() && !isOddInt(ie) {
					return PowOf(AbsOf(b.base), numMul(ie, en))
				}
				return PowOf(b.base, numMul(ie, en))
			}
		}
	case *Mul:
		// (a*b)^n = a^n * b^n for closed products, so (-sqrt(2))^2 folds to 2.
		if expIsNum && en.IsInteger() && IsNumber(b) {
			parts := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				parts[i] = PowOf(f, en)
			}
			return MulOf(parts...)
		}
	case *Const:
		if b.name == "e" {
			return ExpOf(exp)
		}
	case *Func:
		// |g|^(2k) = g^(2k)
		if b.name == "abs" && expIsNum && en.IsInteger() && !isOddInt(en) {
			return PowOf(b.arg, en)
		}
	}
	return &Pow{base: base, exp: exp}
}

func isOddInt(n *Num) bool {
	return n.IsInteger() && new(big.Int).Rem(n.val.Num(), big.NewInt(2)).Sign() != 0
}

// numPow evaluates b^e for numeric b and e, returning nil when the result
// has no simpler form (for example sqrt(5) or the non-real sqrt(-3)).
// Roots with odd index of negative numbers take the real root.
func numPow(b, e *Num) Expr {
	if b.approx || e.approx {
		f := realPow(b.Float64(), e.Float64(), e)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return NFloat(f)
	}
	p := e.val.Num()
	q := e.val.Denom()
	if !p.IsInt64() || !q.IsInt64() || p.Int64() > 256 || p.Int64() < -256 || q.Int64() > 64 {
		return nil
	}
	if int64(b.val.Num().BitLen()+b.val.Denom().BitLen())*absInt64(p.Int64()) > 1<<16 {
		return nil
	}
	neg := b.IsNegative()
	qi := int(q.Int64())
	if neg && qi%2 == 0 {
		return nil
	}
	// r = |b|^|p|
	absB := new(big.Rat).Abs(b.val)
	pk := absInt64(p.Int64())
	num := new(big.Int).Exp(absB.Num(), big.NewInt(pk), nil)
	den := new(big.Int).Exp(absB.Denom(), big.NewInt(pk), nil)
	if p.Sign() < 0 {
		num, den = den, num
	}
	sign := int64(1)
	if neg && p.Bit(0) == 1 {
		sign = -1
	}
	if qi == 1 {
		r := new(big.Rat).SetFrac(num, den)
		if sign < 0 {
			r.Neg(r)
		}
		return &Num{val: r}
	}
	// Rationalize: (a/c)^(1/q) = (a*c^(q-1))^(1/q) / c.
	radicand := new(big.Int).Mul(num, new(big.Int).Exp(den, big.NewInt(int64(qi-1)), nil))
	k, m := extractRoot(radicand, qi)
	coeff := new(big.Rat).SetFrac(k, den)
	if sign < 0 {
		coeff.Neg(coeff)
	}
	if m.Cmp(big.NewInt(1)) == 0 {
		return &Num{val: coeff}
	}
	if coeff.Cmp(big.NewRat(1, 1)) == 0 && m.Cmp(b.val.Num()) == 0 && b.val.IsInt() && p.Int64() == 1 {
		return nil
	}
	root := &Pow{base: &Num{val: new(big.Rat).SetInt(m)}, exp: F(1, int64(qi))}
	return MulOf(&Num{val: coeff}, root)
}

// extractRoot writes a = k^q * m with m free of q-th powers of small primes.
func extractRoot(a *big.Int, q int) (k, m *big.Int) {
	k = big.NewInt(1)
	m = new(big.Int).Set(a)
	bigQ := big.NewInt(int64(q))
	zero := new(big.Int)
	rem := new(big.Int)
	for p := int64(2); p <= 10000; p++ {
		bp := big.NewInt(p)
		pq := new(big.Int).Exp(bp, bigQ, nil)
		if pq.Cmp(m) > 0 {
			break
		}
		for {
			quo, r := new(big.Int).QuoRem(m, pq, rem)
			if r.Cmp(zero) != 0 {
				break
			}
			m = quo
			k.Mul(k, bp)
		}
	}
	if m.BitLen() < 1000 && m.Cmp(big.NewInt(1)) > 0 {
		mf, _ := new(big.Float).SetInt(m).Float64()
		guess := int64(math.Round(math.Pow(mf, 1/float64(q))))
		for _, c := range []int64{guess - 1, guess, guess + 1} {
			if c < 2 {
				continue
			}
			if new(big.Int).Exp(big.NewInt(c), bigQ, nil).Cmp(m) == 0 {
				k.Mul(k, big.NewInt(c))
				m = big.NewInt(1)
				break
			}
		}
	}
	return k, m
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// realPow is math.Pow with real odd roots of negative bases.
func realPow(b, e float64, exact *Num) float64 {
	if b >= 0 || exact == nil || exact.approx {
		return math.Pow(b, e)
	}
	q := exact.val.Denom()
	if q.Bit(0) == 0 {
		return math.NaN()
	}
	r := math.Pow(-b, e)
	if exact.val.Num().Bit(0) == 1 {
		return -r
	}
	return r
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if isConstant(p.base) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if r := numPow(b, e); r != nil {
		if n, ok := r.(*Num); ok {
			return n, true
		}
	}
	pf := realPow(b.Float64(), e.Float64(), e)
	if math.IsNaN(pf) || math.IsInf(pf, 0) {
		return nil, false
	}
	return NFloat(pf), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

func isNaN(e Expr) bool { _, ok := e.(*NotANumber); return ok }

// isConstant reports whether e is a finite number or named constant.
func isConstant(e Expr) bool {
	switch e.(type) {
	case *Num, *Const:
		return true
	}
	return false
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}
