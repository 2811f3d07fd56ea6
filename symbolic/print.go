package symbolic

import (
	"strings"
)

// Operator binding strength used to decide where parentheses are needed.
const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

func precedence(e Expr) int {
	switch v := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		if neg, _, _ := splitFraction(v.factors); neg {
			return precAdd
		}
		return precMul
	case *Pow:
		if en, ok := v.exp.(*Num); ok {
			if en.Equal(F(1, 2)) {
				return precAtom
			}
			if en.IsNegative() {
				return precMul
			}
		}
		return precPow
	case *Num:
		if v.IsNegative() {
			return precAdd
		}
		if !v.approx && !v.val.IsInt() {
			return precMul
		}
	case *Infinity:
		if v.neg {
			return precAdd
		}
	}
	return precAtom
}

func wrap(e Expr, min int) string {
	if precedence(e) < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func wrapLaTeX(e Expr, min int) string {
	if precedence(e) < min {
		return "\\left(" + e.LaTeX() + "\\right)"
	}
	return e.LaTeX()
}

// isNegativeTerm reports whether a sum term prints with a leading minus.
func isNegativeTerm(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Infinity:
		return v.neg
	case *Mul:
		neg, _, _ := splitFraction(v.factors)
		return neg
	}
	return false
}

// ============================================================
// Add
// ============================================================

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		switch {
		case i == 0:
			sb.WriteString(t.String())
		case isNegativeTerm(t):
			sb.WriteString(" - ")
			sb.WriteString(wrap(MulOf(N(-1), t), precMul))
		default:
			sb.WriteString(" + ")
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		switch {
		case i == 0:
			sb.WriteString(t.LaTeX())
		case isNegativeTerm(t):
			sb.WriteString(" - ")
			sb.WriteString(wrapLaTeX(MulOf(N(-1), t), precMul))
		default:
			sb.WriteString(" + ")
			sb.WriteString(t.LaTeX())
		}
	}
	return sb.String()
}

// ============================================================
// Mul
// ============================================================

// splitFraction separates product factors into an overall sign, numerator
// factors and denominator factors (negative powers, exponent flipped).
func splitFraction(factors []Expr) (neg bool, num, den []Expr) {
	for _, f := range factors {
		switch v := f.(type) {
		case *Num:
			if v.IsNegative() {
				neg = !neg
				v = numAbs(v)
			}
			if v.approx || v.val.IsInt() {
				if !v.IsOne() || v.approx {
					num = append(num, v)
				}
				continue
			}
			if n := v.val.Num(); n.Cmp(bigOne) != 0 {
				num = append(num, NRat(ratFromInt(n)))
			}
			den = append(den, NRat(ratFromInt(v.val.Denom())))
		case *Infinity:
			if v.neg {
				neg = !neg
			}
			num = append(num, Inf)
		case *Pow:
			if en, ok := v.exp.(*Num); ok && en.IsNegative() {
				den = append(den, PowOf(v.base, numNeg(en)))
				continue
			}
			num = append(num, f)
		default:
			num = append(num, f)
		}
	}
	return neg, num, den
}

func joinFactors(factors []Expr, wrapSingle bool) string {
	if len(factors) == 0 {
		return "1"
	}
	if len(factors) == 1 && !wrapSingle {
		return factors[0].String()
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = wrap(f, precMul+1)
		if p, ok := f.(*Pow); ok && precedence(p) >= precPow {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	neg, num, den := splitFraction(m.factors)
	var s string
	if len(den) == 0 {
		s = joinFactors(num, neg)
	} else {
		numStr := joinFactors(num, false)
		if len(num) == 1 && precedence(num[0]) < precMul {
			numStr = "(" + numStr + ")"
		}
		denStr := joinFactors(den, false)
		if len(den) > 1 || precedence(den[0]) < precPow {
			denStr = "(" + denStr + ")"
		}
		s = numStr + "/" + denStr
	}
	if neg {
		return "-" + s
	}
	return s
}

func (m *Mul) LaTeX() string {
	neg, num, den := splitFraction(m.factors)
	latexJoin := func(fs []Expr) string {
		if len(fs) == 0 {
			return "1"
		}
		parts := make([]string, len(fs))
		for i, f := range fs {
			if len(fs) > 1 {
				parts[i] = wrapLaTeX(f, precMul+1)
			} else {
				parts[i] = f.LaTeX()
			}
		}
		return strings.Join(parts, " \\cdot ")
	}
	var s string
	if len(den) == 0 {
		s = latexJoin(num)
		if neg && len(num) == 1 && precedence(num[0]) < precMul {
			s = "\\left(" + s + "\\right)"
		}
	} else {
		s = "\\frac{" + latexJoin(num) + "}{" + latexJoin(den) + "}"
	}
	if neg {
		return "-" + s
	}
	return s
}

// ============================================================
// Pow
// ============================================================

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok {
		switch {
		case en.Equal(F(1, 2)):
			return "sqrt(" + p.base.String() + ")"
		case en.IsNegative():
			inv := &Pow{base: p.base, exp: numNeg(en)}
			if inv.exp.(*Num).IsOne() {
				return "1/" + wrap(p.base, precPow)
			}
			return "1/" + wrap(inv, precPow)
		}
	}
	expStr := p.exp.String()
	if precedence(p.exp) < precAtom || !isPlainExponent(p.exp) {
		expStr = "(" + expStr + ")"
	}
	return wrap(p.base, precAtom) + "^" + expStr
}

func isPlainExponent(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsInteger() && !v.IsNegative()
	case *Sym, *Const:
		return true
	}
	return false
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		switch {
		case en.Equal(F(1, 2)):
			return "\\sqrt{" + p.base.LaTeX() + "}"
		case en.Equal(F(1, 3)):
			return "\\sqrt[3]{" + p.base.LaTeX() + "}"
		case en.IsNegative():
			return "\\frac{1}{" + PowOf(p.base, numNeg(en)).LaTeX() + "}"
		}
	}
	return wrapLaTeX(p.base, precAtom) + "^{" + p.exp.LaTeX() + "}"
}
