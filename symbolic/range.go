package symbolic

import (
	"fmt"
	"math"
)

// rangeCandidate is a value the function takes (attained) or approaches
// without taking (a limit at an open end of an interval).
type rangeCandidate struct {
	value    Expr
	f        float64
	attained bool
}

// FunctionRange computes the image of domain under e. On every interval of
// the domain, where e is continuous, the image is the hull of the values at
// critical points and the one-sided limits at the interval ends. Critical
// points are the zeros of the derivative and the points where the
// derivative is not continuous.
func FunctionRange(e Expr, varName string, domain Set) (Set, error) {
	e = e.Simplify()
	if !Has(e, varName) {
		if domain.IsEmpty() || IsBad(e) {
			return Set{}, nil
		}
		return FiniteSet(e), nil
	}
	d := DeepSimplify(e.Diff(varName))
	zeros, err := SolveReal(d, varName)
	if err != nil {
		return Set{}, fmt.Errorf("range of %s: critical points: %w", e, err)
	}
	if zeros.IsReals() {
		// constant on each interval
		zeros = Set{}
	}
	dd, err := ContinuousDomain(d, varName)
	if err != nil {
		return Set{}, fmt.Errorf("range of %s: derivative domain: %w", e, err)
	}
	kinks, ok := Intersect(dd.Complement(), domain).Points()
	if !ok {
		return Set{}, fmt.Errorf("range of %s: derivative undefined on an interval: %w", e, ErrUnsupported)
	}
	crit, ok := Union(zeros, FiniteSet(kinks...)).Points()
	if !ok {
		return Set{}, fmt.Errorf("range of %s: %w", e, ErrUnsupported)
	}

	var pieces []Set
	for _, iv := range domain.Intervals() {
		piece, err := intervalImage(e, varName, iv, crit)
		if err != nil {
			return Set{}, fmt.Errorf("range of %s on %s: %w", e, iv, err)
		}
		pieces = append(pieces, piece)
	}
	return Union(pieces...), nil
}

func intervalImage(e Expr, varName string, iv Interval, crit []Expr) (Set, error) {
	var cands []rangeCandidate
	attained := func(x Expr) error {
		v := DeepSimplify(e.Sub(varName, x))
		if IsBad(v) || IsReal(v) != True {
			return fmt.Errorf("value at %s is %s: %w", x, v, ErrUnsupported)
		}
		f, ok := Float(v)
		if !ok {
			return fmt.Errorf("value at %s: %w", x, ErrUnsupported)
		}
		cands = append(cands, rangeCandidate{value: v, f: f, attained: true})
		return nil
	}
	approached := func(x Expr, dir Direction) error {
		r := LimitDir(e, varName, x, dir)
		if !r.Success {
			return r.Err()
		}
		f, ok := boundFloat(r.Value)
		if !ok {
			return fmt.Errorf("limit at %s is %s: %w", x, r.Value, ErrUnsupported)
		}
		cands = append(cands, rangeCandidate{value: r.Value, f: f})
		return nil
	}

	if iv.IsPoint() {
		if err := attained(iv.Lo); err != nil {
			return Set{}, err
		}
		return FiniteSet(cands[0].value), nil
	}
	var err error
	if iv.LeftOpen {
		err = approached(iv.Lo, FromRight)
	} else {
		err = attained(iv.Lo)
	}
	if err != nil {
		return Set{}, err
	}
	if iv.RightOpen {
		err = approached(iv.Hi, FromLeft)
	} else {
		err = attained(iv.Hi)
	}
	if err != nil {
		return Set{}, err
	}
	for _, c := range crit {
		cf, _ := Float(c)
		if cf > iv.lo && cf < iv.hi {
			if err := attained(c); err != nil {
				return Set{}, err
			}
		}
	}

	lo, hi := cands[0], cands[0]
	for _, c := range cands[1:] {
		switch cmp := cmpBound(c.value, c.f, lo.value, lo.f); {
		case cmp < 0:
			lo = c
		case cmp == 0:
			lo.attained = lo.attained || c.attained
		}
		switch cmp := cmpBound(c.value, c.f, hi.value, hi.f); {
		case cmp > 0:
			hi = c
		case cmp == 0:
			hi.attained = hi.attained || c.attained
		}
	}
	if math.IsInf(lo.f, 1) || math.IsInf(hi.f, -1) {
		return Set{}, fmt.Errorf("image collapses to infinity: %w", ErrUnsupported)
	}
	if cmpBound(lo.value, lo.f, hi.value, hi.f) == 0 {
		// no interior extremum and equal ends: constant on the interval
		return FiniteSet(lo.value), nil
	}
	return NewInterval(lo.value, hi.value, !lo.attained, !hi.attained), nil
}
