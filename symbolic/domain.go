package symbolic

import (
	"fmt"
)

// ContinuousDomain returns the largest subset of ℝ on which e is
// continuous in varName, built structurally: sums and products intersect
// the domains of their parts, negative powers exclude the zeros of their
// base, even roots need a non-negative base and log a positive argument.
// Shapes it cannot decide (tan, variable exponents over bases that may be
// non-positive, equations the solver cannot handle) return ErrUnsupported.
func ContinuousDomain(e Expr, varName string) (Set, error) {
	switch v := e.(type) {
	case *Num, *Const, *Sym:
		return Reals(), nil
	case *Infinity, *ComplexInfinity, *NotANumber:
		return Set{}, nil
	case *Add:
		return intersectDomains(v.terms, varName)
	case *Mul:
		return intersectDomains(v.factors, varName)
	case *Pow:
		return powDomain(v, varName)
	case *Func:
		d, err := ContinuousDomain(v.arg, varName)
		if err != nil {
			return Set{}, err
		}
		if !Has(v.arg, varName) {
			return d, nil
		}
		switch v.name {
		case "log":
			pos, err := SolvePositive(v.arg, varName, true)
			if err != nil {
				return Set{}, fmt.Errorf("domain of %s: %w", v, err)
			}
			return Intersect(d, pos), nil
		case "asin", "acos":
			lo, err := SolvePositive(AddOf(v.arg, N(1)), varName, false)
			if err != nil {
				return Set{}, fmt.Errorf("domain of %s: %w", v, err)
			}
			hi, err := SolvePositive(AddOf(N(1), MulOf(N(-1), v.arg)), varName, false)
			if err != nil {
				return Set{}, fmt.Errorf("domain of %s: %w", v, err)
			}
			return Intersect(d, Intersect(lo, hi)), nil
		case "tan":
			return Set{}, fmt.Errorf("domain of %s: %w", v, ErrUnsupported)
		}
		return d, nil
	}
	return Set{}, fmt.Errorf("domain of %s: %w", e, ErrUnsupported)
}

func intersectDomains(parts []Expr, varName string) (Set, error) {
	d := Reals()
	for _, p := range parts {
		pd, err := ContinuousDomain(p, varName)
		if err != nil {
			return Set{}, err
		}
		d = Intersect(d, pd)
	}
	return d, nil
}

func powDomain(p *Pow, varName string) (Set, error) {
	bd, err := ContinuousDomain(p.base, varName)
	if err != nil {
		return Set{}, err
	}
	ed, err := ContinuousDomain(p.exp, varName)
	if err != nil {
		return Set{}, err
	}
	d := Intersect(bd, ed)
	if !Has(p.base, varName) {
		if f, ok := Float(p.base); ok && f > 0 {
			return d, nil
		}
		if Has(p.exp, varName) {
			return Set{}, fmt.Errorf("domain of %s: %w", p, ErrUnsupported)
		}
		return d, nil
	}
	if Has(p.exp, varName) {
		return Set{}, fmt.Errorf("domain of %s: %w", p, ErrUnsupported)
	}
	en, ok := p.exp.(*Num)
	if !ok || en.approx {
		// irrational exponent: real only for a non-negative base
		f, ok := Float(p.exp)
		if !ok {
			return Set{}, fmt.Errorf("domain of %s: %w", p, ErrUnsupported)
		}
		pos, err := SolvePositive(p.base, varName, f < 0)
		if err != nil {
			return Set{}, fmt.Errorf("domain of %s: %w", p, err)
		}
		return Intersect(d, pos), nil
	}
	evenRoot := !en.IsInteger() && en.val.Denom().Bit(0) == 0
	if evenRoot {
		pos, err := SolvePositive(p.base, varName, en.IsNegative())
		if err != nil {
			return Set{}, fmt.Errorf("domain of %s: %w", p, err)
		}
		return Intersect(d, pos), nil
	}
	if en.IsNegative() {
		zeros, err := SolveReal(p.base, varName)
		if err != nil {
			return Set{}, fmt.Errorf("domain of %s: %w", p, err)
		}
		return d.Minus(zeros), nil
	}
	return d, nil
}
