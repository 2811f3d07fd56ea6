package symbolic

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================
// Real root solving
// ============================================================

const maxSolveDepth = 8

// SolveReal returns the real solutions of e = 0 in varName. Polynomials
// are solved exactly where possible; products, powers, roots, logs and
// exponentials are reduced to simpler equations. Every candidate is
// checked by substitution. Periodic equations yield ErrUnsupported.
func SolveReal(e Expr, varName string) (Set, error) {
	e = e.Simplify()
	if hasSpecial(e) {
		return Set{}, fmt.Errorf("solve %s = 0: %w", e, ErrUnsupported)
	}
	if !Has(e, varName) {
		if IsZero(e) {
			return Reals(), nil
		}
		return Set{}, nil
	}
	cands, err := zeroCandidates(e, varName, 0)
	if err != nil {
		return Set{}, fmt.Errorf("solve %s = 0: %w", e, err)
	}
	var roots []Expr
	for _, c := range cands {
		if isRootOf(e, varName, c) {
			roots = append(roots, c)
		}
	}
	return FiniteSet(roots...), nil
}

func zeroCandidates(e Expr, varName string, depth int) ([]Expr, error) {
	if depth > maxSolveDepth {
		return nil, ErrUnsupported
	}
	if !Has(e, varName) {
		return nil, nil
	}
	num, _ := NumerDenom(e)
	if p, ok := ToPoly(num, varName); ok {
		if p.IsZero() {
			return nil, ErrUnsupported
		}
		return p.RealRoots(), nil
	}
	switch v := num.(type) {
	case *Mul:
		var out []Expr
		for _, f := range v.factors {
			c, err := zeroCandidates(f, varName, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, c...)
		}
		return out, nil
	case *Pow:
		if en, ok := v.exp.(*Num); ok && en.IsPositive() {
			return zeroCandidates(v.base, varName, depth+1)
		}
		if !Has(v.base, varName) {
			return nil, nil
		}
	case *Func:
		switch v.name {
		case "abs", "asin", "atan", "sinh", "tanh":
			return zeroCandidates(v.arg, varName, depth+1)
		case "log", "acos":
			return zeroCandidates(AddOf(v.arg, N(-1)), varName, depth+1)
		case "exp", "cosh":
			return nil, nil
		}
	case *Add:
		return isolate(v, varName, depth)
	}
	return nil, ErrUnsupported
}

// isolate solves g(x) + c = 0 where only one term depends on varName.
func isolate(a *Add, varName string, depth int) ([]Expr, error) {
	var core Expr
	var rest []Expr
	for _, t := range a.terms {
		if Has(t, varName) {
			if core != nil {
				return nil, ErrUnsupported
			}
			core = t
			continue
		}
		rest = append(rest, t)
	}
	if core == nil {
		return nil, nil
	}
	coeff, g := extractCoefficient(core)
	rhs := MulOf(N(-1), AddOf(rest...), numRecip(coeff))
	return invert(g, rhs, varName, depth)
}

// invert lists candidate solutions of g(x) = rhs for a closed number rhs.
func invert(g, rhs Expr, varName string, depth int) ([]Expr, error) {
	solve := func(inner, target Expr) ([]Expr, error) {
		return zeroCandidates(AddOf(inner, MulOf(N(-1), target)), varName, depth+1)
	}
	if IsBad(rhs) || IsReal(rhs) == False {
		return nil, nil
	}
	switch v := g.(type) {
	case *Sym:
		return []Expr{rhs}, nil
	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok {
			if b, ok := v.base.(*Const); ok && b.name == "e" {
				return invert(ExpOf(v.exp), rhs, varName, depth)
			}
			return nil, ErrUnsupported
		}
		root := PowOf(rhs, numRecip(en))
		a, err := solve(v.base, root)
		if err != nil {
			return nil, err
		}
		b, err := solve(v.base, MulOf(N(-1), root))
		if err != nil {
			return nil, err
		}
		return append(a, b...), nil
	case *Func:
		switch v.name {
		case "log":
			return solve(v.arg, ExpOf(rhs))
		case "exp":
			if f, ok := Float(rhs); ok && f <= 0 {
				return nil, nil
			}
			return solve(v.arg, LnOf(rhs))
		case "abs":
			a, err := solve(v.arg, rhs)
			if err != nil {
				return nil, err
			}
			b, err := solve(v.arg, MulOf(N(-1), rhs))
			if err != nil {
				return nil, err
			}
			return append(a, b...), nil
		case "atan":
			return solve(v.arg, TanOf(rhs))
		case "asin":
			return solve(v.arg, SinOf(rhs))
		case "sinh":
			// asinh(r) = log(r + sqrt(r^2 + 1))
			return solve(v.arg, LnOf(AddOf(rhs, SqrtOf(AddOf(PowOf(rhs, N(2)), N(1))))))
		}
	}
	return nil, ErrUnsupported
}

// isRootOf checks a candidate by substituting it back into e.
func isRootOf(e Expr, varName string, c Expr) bool {
	cf, ok := Float(c)
	if !ok || math.IsNaN(cf) {
		return false
	}
	v := e.Sub(varName, c)
	if IsBad(v) || IsReal(v) == False {
		return false
	}
	if IsZero(v) {
		return true
	}
	f, ok := Float(v)
	if !ok {
		return false
	}
	return math.Abs(f) <= 1e-9*math.Max(1, math.Abs(cf))
}

// SolveRealNumeric finds real roots of e = 0 in [lo, hi] numerically: a
// sign-change scan refined by bisection, plus Newton iterations seeded on
// the grid for roots of even multiplicity. Poles are rejected.
func SolveRealNumeric(e Expr, varName string, lo, hi float64) (Set, error) {
	if !(lo < hi) {
		return Set{}, fmt.Errorf("solve numerically on [%g, %g]: empty window", lo, hi)
	}
	f := Compile(e, varName)
	df := Compile(e.Diff(varName), varName)
	const steps = 2000
	const tol = 1e-10
	var roots []float64
	accept := func(x float64) {
		if x < lo || x > hi || math.IsNaN(x) {
			return
		}
		if fx := f(x); math.IsNaN(fx) || math.Abs(fx) > 1e-7 {
			return
		}
		roots = appendDistinct(roots, x)
	}
	prevX, prevF := lo, f(lo)
	for i := 1; i <= steps; i++ {
		x := lo + (hi-lo)*float64(i)/steps
		fx := f(x)
		switch {
		case prevF == 0:
			accept(prevX)
		case !math.IsNaN(prevF) && !math.IsNaN(fx) && !math.IsInf(prevF, 0) && !math.IsInf(fx, 0) && (prevF < 0) != (fx < 0) && fx != 0:
			accept(bisect(f, prevX, x))
		}
		prevX, prevF = x, fx
	}
	if prevF == 0 {
		accept(prevX)
	}
	for i := 0; i <= 200; i++ {
		x := lo + (hi-lo)*float64(i)/200
		for iter := 0; iter < 100; iter++ {
			fx := f(x)
			if math.IsNaN(fx) || math.IsInf(fx, 0) {
				break
			}
			if math.Abs(fx) < tol {
				accept(x)
				break
			}
			dfx := df(x)
			if math.IsNaN(dfx) || math.Abs(dfx) < 1e-15 {
				break
			}
			x -= fx / dfx
			if x < lo-(hi-lo) || x > hi+(hi-lo) {
				break
			}
		}
	}
	sort.Float64s(roots)
	pts := make([]Expr, 0, len(roots))
	for _, r := range roots {
		if exact := Recognize(r, 1e-9); exact != nil && isRootOf(e, varName, exact) {
			pts = append(pts, exact)
			continue
		}
		pts = append(pts, NFloat(r))
	}
	return FiniteSet(pts...), nil
}

// ============================================================
// Sign analysis
// ============================================================

// SolvePositive returns where e > 0 (strict) or e >= 0 over ℝ, by sign
// analysis between the real zeros of numerator and denominator.
func SolvePositive(e Expr, varName string, strict bool) (Set, error) {
	e = e.Simplify()
	if !Has(e, varName) {
		f, ok := Float(e)
		if !ok {
			return Set{}, fmt.Errorf("sign of %s: %w", e, ErrUnsupported)
		}
		if f > 0 || (!strict && f == 0) {
			return Reals(), nil
		}
		return Set{}, nil
	}
	num, den := NumerDenom(e)
	var crit []Expr
	for _, part := range []Expr{num, den} {
		if !Has(part, varName) {
			continue
		}
		zs, err := SolveReal(part, varName)
		if err != nil {
			return Set{}, fmt.Errorf("sign of %s: %w", e, err)
		}
		pts, ok := zs.Points()
		if !ok {
			return Set{}, fmt.Errorf("sign of %s: %w", e, ErrUnsupported)
		}
		crit = append(crit, pts...)
	}
	crit = FiniteSet(crit...).pointsOrNil()
	f := Compile(e, varName)
	positive := func(x float64) bool {
		v := f(x)
		return !math.IsNaN(v) && v > 0
	}
	var pieces []Set
	if len(crit) == 0 {
		if positive(0) || positive(1) {
			return Reals(), nil
		}
		return Set{}, nil
	}
	fs := make([]float64, len(crit))
	for i, c := range crit {
		fs[i], _ = Float(c)
	}
	bounds := append(append([]Expr{NegInf}, crit...), Inf)
	bf := append(append([]float64{math.Inf(-1)}, fs...), math.Inf(1))
	for i := 0; i+1 < len(bounds); i++ {
		var mid float64
		switch {
		case math.IsInf(bf[i], -1):
			mid = bf[i+1] - 1
		case math.IsInf(bf[i+1], 1):
			mid = bf[i] + 1
		default:
			mid = (bf[i] + bf[i+1]) / 2
		}
		if positive(mid) {
			pieces = append(pieces, NewInterval(bounds[i], bounds[i+1], true, true))
		}
	}
	for _, c := range crit {
		v := e.Sub(varName, c)
		if IsBad(v) || IsReal(v) == False {
			continue
		}
		if IsZero(v) {
			if !strict {
				pieces = append(pieces, FiniteSet(c))
			}
			continue
		}
		if x, ok := Float(v); ok && (x > 0 || (!strict && math.Abs(x) < 1e-12)) {
			pieces = append(pieces, FiniteSet(c))
		}
	}
	return Union(pieces...), nil
}

func (s Set) pointsOrNil() []Expr {
	pts, _ := s.Points()
	return pts
}
