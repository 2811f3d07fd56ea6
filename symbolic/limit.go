package symbolic

import (
	"fmt"
	"math"
	"math/big"
)

// ============================================================
// Limits
// ============================================================

// Direction selects a one- or two-sided limit.
type Direction int

const (
	BothSides Direction = iota
	FromLeft
	FromRight
)

func (d Direction) String() string {
	switch d {
	case FromLeft:
		return "-"
	case FromRight:
		return "+"
	}
	return "+-"
}

type LimitResult struct {
	Value    Expr
	Success  bool
	Strategy string
	Error    string
}

// Err returns the failure as an error wrapping ErrLimitUnknown.
func (r LimitResult) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%s: %w", r.Error, ErrLimitUnknown)
}

// Limit computes the two-sided lim_{varName -> point} expr.
func Limit(expr Expr, varName string, point Expr) LimitResult {
	return LimitDir(expr, varName, point, BothSides)
}

// LimitDir computes a limit from the given side. point may be ±∞. The
// strategies run in order and the first to produce a value wins:
// substitution, rational cancellation, L'Hôpital, pole sign analysis,
// the degree rule at infinity and numeric estimation.
func LimitDir(expr Expr, varName string, point Expr, dir Direction) LimitResult {
	return limitRecursive(expr.Simplify(), varName, point.Simplify(), dir, 5)
}

type limitStrategy struct {
	name string
	run  func(expr Expr, varName string, point Expr, dir Direction, rounds int) (Expr, bool)
}

// limitStrategies is filled in init: L'Hôpital recurses through
// limitRecursive, which ranges over this slice.
var limitStrategies []limitStrategy

func init() {
	limitStrategies = []limitStrategy{
		{"substitution", limitBySubstitution},
		{"cancel", limitByCancel},
		{"lhopital", limitByLHopital},
		{"pole", limitByPole},
		{"degree", limitByDegree},
		{"numeric", limitNumeric},
	}
}

func limitRecursive(expr Expr, varName string, point Expr, dir Direction, rounds int) LimitResult {
	if _, isInf := point.(*Infinity); !isInf {
		if _, ok := Float(point); !ok {
			return LimitResult{Error: "limit point must be a real number or ±∞, got " + point.String()}
		}
	}
	for _, s := range limitStrategies {
		if v, ok := s.run(expr, varName, point, dir, rounds); ok {
			return LimitResult{Value: v, Success: true, Strategy: s.name}
		}
	}
	return LimitResult{
		Error: "limit could not be determined: " + expr.String() + " as " + varName + " -> " + point.String(),
	}
}

func isInfinite(e Expr) bool { _, ok := e.(*Infinity); return ok }

// acceptLimit reports whether v is a usable limit value: a finite real
// number, or ±∞.
func acceptLimit(v Expr) bool {
	if isInfinite(v) {
		return true
	}
	return IsNumber(v) && !IsBad(v)
}

func limitBySubstitution(expr Expr, varName string, point Expr, _ Direction, _ int) (Expr, bool) {
	if !isInfinite(point) {
		if _, den := NumerDenom(expr); Has(den, varName) && IsZero(DeepSimplify(den.Sub(varName, point))) {
			return nil, false
		}
	}
	v := expr.Sub(varName, point)
	if !acceptLimit(v) {
		return nil, false
	}
	if isInfinite(point) {
		return v, true
	}
	// A pole can not be reached by substituting a finite point.
	return v, !isInfinite(v)
}

func limitByCancel(expr Expr, varName string, point Expr, dir Direction, rounds int) (Expr, bool) {
	s := DeepSimplify(expr)
	if s.String() == expr.String() {
		return nil, false
	}
	return limitBySubstitution(s, varName, point, dir, rounds)
}

func limitByLHopital(expr Expr, varName string, point Expr, dir Direction, rounds int) (Expr, bool) {
	if rounds <= 0 {
		return nil, false
	}
	num, den := NumerDenom(expr)
	if !Has(den, varName) {
		return nil, false
	}
	nl := limitRecursive(num, varName, point, dir, 0)
	dl := limitRecursive(den, varName, point, dir, 0)
	if !nl.Success || !dl.Success {
		return nil, false
	}
	zeroOverZero := IsZero(nl.Value) && IsZero(dl.Value)
	infOverInf := isInfinite(nl.Value) && isInfinite(dl.Value)
	if !zeroOverZero && !infOverInf {
		return nil, false
	}
	q := MulOf(DeepSimplify(num.Diff(varName)), PowOf(DeepSimplify(den.Diff(varName)), N(-1)))
	r := limitRecursive(q, varName, point, dir, rounds-1)
	if !r.Success {
		return nil, false
	}
	return r.Value, true
}

// limitByPole handles c/0 with c ≠ 0: the value is ±∞ by the sign of the
// function next to the point, and a two-sided limit needs both signs equal.
func limitByPole(expr Expr, varName string, point Expr, dir Direction, _ int) (Expr, bool) {
	p, ok := Float(point)
	if !ok {
		return nil, false
	}
	num, den := NumerDenom(DeepSimplify(expr))
	nv := num.Sub(varName, point)
	dv := den.Sub(varName, point)
	if !IsZero(dv) || !acceptLimit(nv) || IsZero(nv) || isInfinite(nv) {
		return nil, false
	}
	f := Compile(expr, varName)
	h := 1e-7 * math.Max(1, math.Abs(p))
	side := func(x float64) (Expr, bool) {
		v := f(x)
		if math.IsNaN(v) {
			return nil, false
		}
		if v > 0 {
			return Inf, true
		}
		return NegInf, true
	}
	switch dir {
	case FromLeft:
		return side(p - h)
	case FromRight:
		return side(p + h)
	}
	l, ok1 := side(p - h)
	r, ok2 := side(p + h)
	if !ok1 || !ok2 || !l.Equal(r) {
		return nil, false
	}
	return l, true
}

// limitByDegree compares leading terms of a rational function at ±∞.
func limitByDegree(expr Expr, varName string, point Expr, _ Direction, _ int) (Expr, bool) {
	inf, ok := point.(*Infinity)
	if !ok {
		return nil, false
	}
	num, den := NumerDenom(expr)
	pn, ok1 := ToPoly(num, varName)
	pd, ok2 := ToPoly(den, varName)
	if !ok1 || !ok2 || pd.IsZero() {
		return nil, false
	}
	dn, dd := pn.Degree(), pd.Degree()
	switch {
	case pn.IsZero() || dn < dd:
		return N(0), true
	case dn == dd:
		return NRat(new(big.Rat).Quo(pn.Lead(), pd.Lead())), true
	}
	sign := pn.Lead().Sign() * pd.Lead().Sign()
	if inf.neg && (dn-dd)%2 == 1 {
		sign = -sign
	}
	if sign > 0 {
		return Inf, true
	}
	return NegInf, true
}

// limitNumeric estimates the limit from function values approaching the
// point and recognizes simple exact values.
func limitNumeric(expr Expr, varName string, point Expr, dir Direction, _ int) (Expr, bool) {
	f := Compile(expr, varName)
	if inf, ok := point.(*Infinity); ok {
		sign := 1.0
		if inf.neg {
			sign = -1
		}
		return estimate([]float64{
			f(sign * 1e4), f(sign * 1e5), f(sign * 1e6), f(sign * 1e7), f(sign * 1e8),
		}, 1e-7)
	}
	p, _ := Float(point)
	scale := math.Max(1, math.Abs(p))
	side := func(sign float64) (Expr, bool) {
		vals := make([]float64, 0, 5)
		for _, h := range []float64{1e-4, 1e-5, 1e-6, 1e-7, 1e-8} {
			vals = append(vals, f(p+sign*h*scale))
		}
		return estimate(vals, 1e-6)
	}
	switch dir {
	case FromLeft:
		return side(-1)
	case FromRight:
		return side(1)
	}
	l, ok1 := side(-1)
	r, ok2 := side(1)
	if !ok1 || !ok2 {
		return nil, false
	}
	if l.Equal(r) {
		return l, true
	}
	lf, okl := Float(l)
	rf, okr := Float(r)
	if okl && okr && math.Abs(lf-rf) <= 1e-6*math.Max(1, math.Abs(lf)) {
		return l, true
	}
	return nil, false
}

// estimate reads a limit off a sequence of values approaching the point:
// the tail must settle, or grow past 1e6 monotonically in one direction.
func estimate(vals []float64, tol float64) (Expr, bool) {
	for _, v := range vals {
		if math.IsNaN(v) {
			return nil, false
		}
	}
	n := len(vals)
	last, prev := vals[n-1], vals[n-2]
	if math.IsInf(last, 0) || math.Abs(last) > 1e6 {
		grows := true
		for i := 1; i < n; i++ {
			if math.Abs(vals[i]) < math.Abs(vals[i-1]) || (vals[i] > 0) != (vals[n-1] > 0) {
				grows = false
				break
			}
		}
		if !grows {
			return nil, false
		}
		if last > 0 {
			return Inf, true
		}
		return NegInf, true
	}
	// Steps that do not shrink as the point is approached mean logarithmic
	// divergence; convergent sequences shrink roughly tenfold per step.
	first, final := vals[1]-vals[0], last-prev
	if math.Abs(final) > 1e-3 && (first > 0) == (final > 0) && math.Abs(final) >= 0.9*math.Abs(first) {
		monotone := true
		for i := 1; i < n; i++ {
			if d := vals[i] - vals[i-1]; d == 0 || (d > 0) != (final > 0) {
				monotone = false
				break
			}
		}
		if monotone {
			if final > 0 {
				return Inf, true
			}
			return NegInf, true
		}
	}
	if math.Abs(last-prev) > 100*tol*math.Max(1, math.Abs(last)) {
		return nil, false
	}
	if exact := Recognize(last, tol); exact != nil {
		return exact, true
	}
	return NFloat(last), true
}

// Recognize returns a simple exact number within relative tolerance tol of
// v: a rational with denominator at most 1000, a rational multiple of π or
// e, or the square root of a rational. It returns nil when none fits.
func Recognize(v, tol float64) Expr {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	near := func(x float64) bool { return math.Abs(x-v) <= tol*math.Max(1, math.Abs(v)) }
	if r := rationalApprox(v, 1000); r != nil {
		if f, _ := r.Float64(); near(f) {
			return NRat(r)
		}
	}
	for _, c := range []*Const{Pi, E} {
		if r := rationalApprox(v/c.Float64(), 100); r != nil && r.Sign() != 0 {
			if f, _ := r.Float64(); near(f * c.Float64()) {
				return MulOf(NRat(r), c)
			}
		}
	}
	if r := rationalApprox(v*v, 100); r != nil && r.Sign() > 0 {
		root := SqrtOf(NRat(r))
		if v < 0 {
			root = MulOf(N(-1), root)
		}
		if f, ok := Float(root); ok && near(f) {
			return root
		}
	}
	return nil
}

// rationalApprox returns the last continued-fraction convergent of v whose
// denominator does not exceed maxDen.
func rationalApprox(v float64, maxDen int64) *big.Rat {
	if math.Abs(v) > 1e12 {
		return nil
	}
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := v
	for i := 0; i < 64; i++ {
		a := math.Floor(x)
		if math.Abs(a) > 1e12 {
			break
		}
		ai := int64(a)
		h2 := ai*h1 + h0
		k2 := ai*k1 + k0
		if k2 > maxDen {
			break
		}
		h0, h1, k0, k1 = h1, h2, k1, k2
		frac := x - a
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		return nil
	}
	return big.NewRat(h1, k1)
}
