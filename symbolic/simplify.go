package symbolic

import (
	"math/big"
)

// ============================================================
// Expansion
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		acc := Expr(N(1))
		for _, f := range v.factors {
			acc = distribute(acc, expandExpr(f))
		}
		return acc
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if exp >= 0 && exp <= 10 {
				result := Expr(N(1))
				base := expandExpr(v.base)
				for i := int64(0); i < exp; i++ {
					result = distribute(result, base)
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	}
	return e
}

// distribute multiplies out two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	ta, tb := addTerms(a), addTerms(b)
	products := make([]Expr, 0, len(ta)*len(tb))
	for _, x := range ta {
		for _, y := range tb {
			products = append(products, MulOf(x, y))
		}
	}
	return AddOf(products...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Numerator / denominator
// ============================================================

// NumerDenom writes e as num/den over a common denominator. Negative
// powers move to the denominator and sums are brought to one fraction.
func NumerDenom(e Expr) (num, den Expr) {
	switch v := e.(type) {
	case *Num:
		if v.approx || v.val.IsInt() {
			return v, N(1)
		}
		return NRat(ratFromInt(v.val.Num())), NRat(ratFromInt(v.val.Denom()))
	case *Mul:
		nums := make([]Expr, 0, len(v.factors))
		dens := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			n, d := NumerDenom(f)
			nums = append(nums, n)
			dens = append(dens, d)
		}
		return MulOf(nums...), MulOf(dens...)
	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok {
			return e, N(1)
		}
		if en.IsInteger() {
			bn, bd := NumerDenom(v.base)
			if en.IsNegative() {
				k := numNeg(en)
				return PowOf(bd, k), PowOf(bn, k)
			}
			return PowOf(bn, en), PowOf(bd, en)
		}
		if en.IsNegative() {
			return N(1), PowOf(v.base, numNeg(en))
		}
	case *Add:
		type part struct {
			num, den Expr
			key      string
		}
		parts := make([]part, len(v.terms))
		var dens []Expr
		seen := map[string]bool{}
		for i, t := range v.terms {
			n, d := NumerDenom(t)
			key := d.String()
			parts[i] = part{num: n, den: d, key: key}
			if !isNumEqual(d, 1) && !seen[key] {
				seen[key] = true
				dens = append(dens, d)
			}
		}
		if len(dens) == 0 {
			return e, N(1)
		}
		terms := make([]Expr, len(parts))
		for i, p := range parts {
			factors := []Expr{p.num}
			for _, d := range dens {
				if d.String() != p.key {
					factors = append(factors, d)
				}
			}
			terms[i] = MulOf(factors...)
		}
		return AddOf(terms...), MulOf(dens...)
	}
	return e, N(1)
}

// Denominator returns the denominator of NumerDenom.
func Denominator(e Expr) Expr {
	_, d := NumerDenom(e)
	return d
}

// Cancel divides numerator and denominator of a rational function in
// varName by their polynomial gcd. It reports false when nothing cancels.
func Cancel(e Expr, varName string) (Expr, bool) {
	n, d := NumerDenom(e)
	if isNumEqual(d, 1) {
		return e, false
	}
	pn, ok1 := ToPoly(n, varName)
	pd, ok2 := ToPoly(d, varName)
	if !ok1 || !ok2 || pd.IsZero() {
		return e, false
	}
	g := pn.GCD(pd)
	if g.Degree() < 1 {
		return e, false
	}
	qn, _ := pn.DivMod(g)
	qd, _ := pd.DivMod(g)
	lead := new(big.Rat).Inv(qd.Lead())
	qn, qd = qn.Scale(lead), qd.Monic()
	if qd.Degree() == 0 {
		return qn.Expr(varName), true
	}
	return MulOf(qn.Expr(varName), PowOf(qd.Expr(varName), N(-1))), true
}

// ============================================================
// Deep Simplification and Trig Identities
// ============================================================

// TrigSimplify applies sin²+cos²=1 throughout e.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigSimplifyExpr(f)
		}
		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		funcName string
		argStr   string
		coeff    *Num
		idx      int
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		coeff, inner := extractCoefficient(t)
		p, ok := inner.(*Pow)
		if !ok || !isNumEqual(p.exp, 2) {
			continue
		}
		if fn, ok := p.base.(*Func); ok && (fn.name == "sin" || fn.name == "cos") {
			trigTerms = append(trigTerms, trigTerm{fn.name, fn.arg.String(), coeff, idx})
		}
	}
	for i := 0; i < len(trigTerms); i++ {
		for j := i + 1; j < len(trigTerms); j++ {
			ti, tj := trigTerms[i], trigTerms[j]
			if ti.argStr != tj.argStr || ti.funcName == tj.funcName || numCmp(ti.coeff, tj.coeff) != 0 {
				continue
			}
			newTerms := []Expr{}
			for idx, t := range add.terms {
				if idx != ti.idx && idx != tj.idx {
					newTerms = append(newTerms, t)
				}
			}
			return AddOf(append(newTerms, ti.coeff)...)
		}
	}
	return e
}

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// DeepSimplify repeats algebraic simplification passes until the printed
// form is stable: like bases merge, rational functions of the single free
// symbol cancel common polynomial factors, products expand when that is
// shorter, and sin²+cos² collapses. The result is a fixpoint, so
// DeepSimplify(DeepSimplify(e)) prints the same as DeepSimplify(e).
//
// Cancellation removes removable singularities: (x-1)/(x-1) becomes 1.
func DeepSimplify(e Expr) Expr {
	varName := ""
	if syms := FreeSymbols(e); len(syms) == 1 {
		for name := range syms {
			varName = name
		}
	}
	prev := ""
	curr := e.Simplify()
	for i := 0; i < 10; i++ {
		str := curr.String()
		if str == prev {
			break
		}
		prev = str
		curr = simplifyPass(curr, varName)
	}
	return curr
}

func simplifyPass(e Expr, varName string) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = simplifyPass(t, varName)
		}
		e = trigFindPythagorean(AddOf(terms...))
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = simplifyPass(f, varName)
		}
		e = mergeLikeBases(MulOf(factors...))
	case *Pow:
		e = PowOf(simplifyPass(v.base, varName), simplifyPass(v.exp, varName))
	case *Func:
		e = funcOf(v.name, simplifyPass(v.arg, varName)).Simplify()
	default:
		return e
	}
	if varName != "" {
		if c, ok := Cancel(e, varName); ok {
			e = c
		}
	}
	if x := Expand(e); len(x.String()) < len(e.String()) {
		e = x
	}
	return e
}

// mergeLikeBases combines every repeated base with numeric exponents.
func mergeLikeBases(e Expr) Expr {
	m, ok := e.(*Mul)
	if !ok {
		return e
	}
	exps := map[string]*Num{}
	bases := map[string]Expr{}
	order := []string{}
	var rest []Expr
	merged := false
	for _, f := range m.factors {
		if _, isNum := f.(*Num); isNum {
			rest = append(rest, f)
			continue
		}
		base, exp := splitPow(f)
		en, ok := exp.(*Num)
		if !ok {
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
		return e
	}
	out := rest
	for _, key := range order {
		out = append(out, PowOf(bases[key], exps[key]))
	}
	return MulOf(out...)
}
