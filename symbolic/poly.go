package symbolic

import (
	"math"
	"math/big"
	"sort"
)

// ============================================================
// Polynomial utilities
// ============================================================

// Poly is a univariate polynomial with exact rational coefficients, lowest
// degree first. The zero polynomial has no coefficients.
type Poly []*big.Rat

const maxPolyDegree = 64

// ToPoly converts e into a polynomial in varName. It fails for anything that
// is not a polynomial with rational coefficients.
func ToPoly(e Expr, varName string) (Poly, bool) {
	switch v := e.(type) {
	case *Num:
		return Poly{new(big.Rat).Set(v.val)}.trim(), true
	case *Sym:
		if v.name != varName {
			return nil, false
		}
		return Poly{new(big.Rat), big.NewRat(1, 1)}, true
	case *Add:
		acc := Poly{}
		for _, t := range v.terms {
			p, ok := ToPoly(t, varName)
			if !ok {
				return nil, false
			}
			acc = acc.Add(p)
		}
		return acc, true
	case *Mul:
		acc := Poly{big.NewRat(1, 1)}
		for _, f := range v.factors {
			p, ok := ToPoly(f, varName)
			if !ok {
				return nil, false
			}
			acc = acc.Mul(p)
			if acc.Degree() > maxPolyDegree {
				return nil, false
			}
		}
		return acc, true
	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok || !en.IsInteger() || en.IsNegative() || !en.val.Num().IsInt64() {
			return nil, false
		}
		n := en.val.Num().Int64()
		base, ok := ToPoly(v.base, varName)
		if !ok || int64(base.Degree())*n > maxPolyDegree {
			return nil, false
		}
		acc := Poly{big.NewRat(1, 1)}
		for i := int64(0); i < n; i++ {
			acc = acc.Mul(base)
		}
		return acc, true
	}
	return nil, false
}

// Degree returns the degree, or -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.trim()) - 1 }

func (p Poly) IsZero() bool { return len(p.trim()) == 0 }

func (p Poly) Lead() *big.Rat {
	t := p.trim()
	if len(t) == 0 {
		return new(big.Rat)
	}
	return t[len(t)-1]
}

func (p Poly) trim() Poly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func (p Poly) Add(q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(p) {
			out[i].Add(out[i], p[i])
		}
		if i < len(q) {
			out[i].Add(out[i], q[i])
		}
	}
	return out.trim()
}

func (p Poly) Scale(c *big.Rat) Poly {
	out := make(Poly, len(p))
	for i, a := range p {
		out[i] = new(big.Rat).Mul(a, c)
	}
	return out.trim()
}

func (p Poly) Sub(q Poly) Poly { return p.Add(q.Scale(big.NewRat(-1, 1))) }

func (p Poly) Mul(q Poly) Poly {
	p, q = p.trim(), q.trim()
	if len(p) == 0 || len(q) == 0 {
		return Poly{}
	}
	out := make(Poly, len(p)+len(q)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	tmp := new(big.Rat)
	for i, a := range p {
		for j, b := range q {
			out[i+j].Add(out[i+j], tmp.Mul(a, b))
		}
	}
	return out.trim()
}

// DivMod returns quotient and remainder of polynomial long division.
func (p Poly) DivMod(d Poly) (q, r Poly) {
	d = d.trim()
	if len(d) == 0 {
		panic("symbolic: polynomial division by zero")
	}
	r = append(Poly{}, p.trim()...)
	for i := range r {
		r[i] = new(big.Rat).Set(r[i])
	}
	if len(r) < len(d) {
		return Poly{}, r
	}
	q = make(Poly, len(r)-len(d)+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	lead := d[len(d)-1]
	for len(r) >= len(d) && len(r) > 0 {
		shift := len(r) - len(d)
		c := new(big.Rat).Quo(r[len(r)-1], lead)
		q[shift] = c
		for i, a := range d {
			r[shift+i].Sub(r[shift+i], new(big.Rat).Mul(c, a))
		}
		r = r.trim()
	}
	return q.trim(), r
}

// Monic scales p to leading coefficient one.
func (p Poly) Monic() Poly {
	t := p.trim()
	if len(t) == 0 {
		return t
	}
	return t.Scale(new(big.Rat).Inv(t[len(t)-1]))
}

// GCD returns the monic greatest common divisor.
func (p Poly) GCD(q Poly) Poly {
	a, b := p.trim(), q.trim()
	for len(b) > 0 {
		_, r := a.DivMod(b)
		a, b = b, r
	}
	return a.Monic()
}

func (p Poly) Derivative() Poly {
	t := p.trim()
	if len(t) <= 1 {
		return Poly{}
	}
	out := make(Poly, len(t)-1)
	for i := 1; i < len(t); i++ {
		out[i-1] = new(big.Rat).Mul(t[i], big.NewRat(int64(i), 1))
	}
	return out.trim()
}

func (p Poly) EvalRat(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

func (p Poly) floats() []float64 {
	out := make([]float64, len(p))
	for i, c := range p {
		out[i], _ = c.Float64()
	}
	return out
}

// Expr rebuilds the polynomial as an expression in varName.
func (p Poly) Expr(varName string) Expr {
	t := p.trim()
	if len(t) == 0 {
		return N(0)
	}
	terms := make([]Expr, 0, len(t))
	x := S(varName)
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Sign() == 0 {
			continue
		}
		terms = append(terms, MulOf(NRat(t[i]), PowOf(x, N(int64(i)))))
	}
	return AddOf(terms...)
}

// SquareFree removes repeated factors.
func (p Poly) SquareFree() Poly {
	d := p.Derivative()
	if d.IsZero() {
		return p.trim()
	}
	g := p.GCD(d)
	q, _ := p.DivMod(g)
	return q
}

// RealRoots returns the distinct real roots of p in ascending order. Roots
// are exact for rational roots and for quadratic factors; higher-degree
// irreducible factors are solved numerically.
func (p Poly) RealRoots() []Expr {
	sf := p.SquareFree()
	if sf.Degree() < 1 {
		return nil
	}
	var roots []Expr
	rest := sf
	if rest[0].Sign() == 0 {
		roots = append(roots, N(0))
		rest, _ = rest.DivMod(Poly{new(big.Rat), big.NewRat(1, 1)})
	}
	for _, r := range rationalRootCandidates(rest) {
		if rest.Degree() < 1 {
			break
		}
		if rest.EvalRat(r).Sign() == 0 {
			roots = append(roots, NRat(r))
			rest, _ = rest.DivMod(Poly{new(big.Rat).Neg(r), big.NewRat(1, 1)})
		}
	}
	switch rest.Degree() {
	case 1:
		roots = append(roots, NRat(new(big.Rat).Quo(new(big.Rat).Neg(rest[0]), rest[1])))
	case 2:
		roots = append(roots, quadraticRoots(rest[2], rest[1], rest[0])...)
	default:
		if rest.Degree() > 2 {
			for _, f := range realRootsFloat(rest.floats()) {
				roots = append(roots, NFloat(f))
			}
		}
	}
	sortByValue(roots)
	return roots
}

// quadraticRoots solves a*x^2 + b*x + c = 0 exactly over the reals.
func quadraticRoots(a, b, c *big.Rat) []Expr {
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	if disc.Sign() < 0 {
		return nil
	}
	twoA := NRat(new(big.Rat).Mul(big.NewRat(2, 1), a))
	negB := NRat(new(big.Rat).Neg(b))
	sq := SqrtOf(NRat(disc))
	inv := PowOf(twoA, N(-1))
	r1 := MulOf(AddOf(negB, sq), inv)
	if disc.Sign() == 0 {
		return []Expr{r1}
	}
	r2 := MulOf(AddOf(negB, MulOf(N(-1), sq)), inv)
	return []Expr{r2, r1}
}

// rationalRootCandidates lists ±p/q for p | a0 and q | an, after clearing
// denominators. Large coefficients yield no candidates.
func rationalRootCandidates(p Poly) []*big.Rat {
	t := p.trim()
	if len(t) < 2 {
		return nil
	}
	lcm := big.NewInt(1)
	for _, c := range t {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	scale := new(big.Rat).SetInt(lcm)
	a0 := new(big.Rat).Mul(t[0], scale)
	an := new(big.Rat).Mul(t[len(t)-1], scale)
	if !a0.IsInt() || !an.IsInt() || a0.Sign() == 0 {
		return nil
	}
	ps := divisors(new(big.Int).Abs(a0.Num()))
	qs := divisors(new(big.Int).Abs(an.Num()))
	if ps == nil || qs == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []*big.Rat
	for _, pd := range ps {
		for _, qd := range qs {
			for _, sign := range []int64{1, -1} {
				r := big.NewRat(sign*pd, qd)
				key := r.RatString()
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, r)
			}
		}
	}
	return out
}

func divisors(n *big.Int) []int64 {
	if !n.IsInt64() || n.Int64() > 1_000_000 || n.Sign() == 0 {
		return nil
	}
	v := n.Int64()
	var out []int64
	for d := int64(1); d*d <= v; d++ {
		if v%d == 0 {
			out = append(out, d)
			if d != v/d {
				out = append(out, v/d)
			}
		}
	}
	return out
}

// realRootsFloat isolates the real roots of a float polynomial between the
// critical points given by its derivative.
func realRootsFloat(c []float64) []float64 {
	for len(c) > 0 && c[len(c)-1] == 0 {
		c = c[:len(c)-1]
	}
	deg := len(c) - 1
	if deg < 1 {
		return nil
	}
	if deg == 1 {
		return []float64{-c[0] / c[1]}
	}
	eval := func(x float64) float64 {
		acc := 0.0
		for i := deg; i >= 0; i-- {
			acc = acc*x + c[i]
		}
		return acc
	}
	bound := 0.0
	for i := 0; i < deg; i++ {
		bound = math.Max(bound, math.Abs(c[i]/c[deg]))
	}
	bound++
	d := make([]float64, deg)
	for i := 1; i <= deg; i++ {
		d[i-1] = float64(i) * c[i]
	}
	pts := []float64{-bound}
	for _, cp := range realRootsFloat(d) {
		if cp > -bound && cp < bound {
			pts = append(pts, cp)
		}
	}
	pts = append(pts, bound)
	sort.Float64s(pts)
	var roots []float64
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		fa, fb := eval(a), eval(b)
		switch {
		case fa == 0:
			roots = appendDistinct(roots, a)
		case fa*fb < 0:
			roots = appendDistinct(roots, bisect(eval, a, b))
		}
	}
	if eval(pts[len(pts)-1]) == 0 {
		roots = appendDistinct(roots, pts[len(pts)-1])
	}
	return roots
}

func bisect(f func(float64) float64, a, b float64) float64 {
	fa := f(a)
	for i := 0; i < 200; i++ {
		m := (a + b) / 2
		fm := f(m)
		if fm == 0 || b-a < 1e-15*math.Max(1, math.Abs(m)) {
			return m
		}
		if (fa < 0) == (fm < 0) {
			a, fa = m, fm
		} else {
			b = m
		}
	}
	return (a + b) / 2
}

func appendDistinct(xs []float64, x float64) []float64 {
	for _, y := range xs {
		if math.Abs(x-y) <= 1e-9*math.Max(1, math.Abs(x)) {
			return xs
		}
	}
	return append(xs, x)
}

// sortByValue orders closed numeric expressions ascending.
func sortByValue(xs []Expr) {
	sort.SliceStable(xs, func(i, j int) bool {
		a, _ := Float(xs[i])
		b, _ := Float(xs[j])
		return a < b
	})
}

// Degree returns the polynomial degree of expr in varName, treating
// non-polynomial subexpressions as constants.
func Degree(expr Expr, varName string) int {
	switch v := expr.(type) {
	case *Sym:
		if v.name == varName {
			return 1
		}
		return 0
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
			return int(n.val.Num().Int64()) * Degree(v.base, varName)
		}
		return 0
	case *Add:
		maxDeg := 0
		for _, t := range v.terms {
			if d := Degree(t, varName); d > maxDeg {
				maxDeg = d
			}
		}
		return maxDeg
	case *Mul:
		totalDeg := 0
		for _, f := range v.factors {
			totalDeg += Degree(f, varName)
		}
		return totalDeg
	}
	return 0
}
