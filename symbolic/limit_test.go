package symbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// ============================================================
// Limits
// ============================================================

func TestLimit_Substitution(t *testing.T) {
	r := symbolic.Limit(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(1)), "x", symbolic.N(3))
	if !r.Success || r.Value.String() != "10" {
		t.Errorf("want 10, got %+v", r)
	}
	if r.Strategy != "substitution" {
		t.Errorf("want substitution, got %s", r.Strategy)
	}
}

func TestLimit_PoleAtIrrationalPoint(t *testing.T) {
	e := quotient(symbolic.N(1), symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-2)))
	point := symbolic.MulOf(symbolic.N(-1), symbolic.SqrtOf(symbolic.N(2)))
	if r := symbolic.Limit(e, "x", point); r.Success {
		t.Errorf("two-sided limit at a sign-changing pole should fail, got %+v", r)
	}
	r := symbolic.LimitDir(e, "x", point, symbolic.FromLeft)
	if !r.Success || r.Value.String() != "∞" {
		t.Errorf("want ∞ from the left, got %+v", r)
	}
	if r.Strategy == "substitution" {
		t.Errorf("a vanishing denominator must not be substituted")
	}
}

func TestLimit_RemovableHole(t *testing.T) {
	e := quotient(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-1)), xMinus(1))
	r := symbolic.Limit(e, "x", symbolic.N(1))
	if !r.Success || r.Value.String() != "2" {
		t.Errorf("want 2, got %+v", r)
	}
	if r.Strategy != "cancel" {
		t.Errorf("want cancel, got %s", r.Strategy)
	}
}

func TestLimit_SinOverX(t *testing.T) {
	r := symbolic.Limit(quotient(symbolic.SinOf(x), x), "x", symbolic.N(0))
	if !r.Success || r.Value.String() != "1" {
		t.Errorf("want 1, got %+v", r)
	}
	if r.Strategy != "lhopital" {
		t.Errorf("want lhopital, got %s", r.Strategy)
	}
}

func TestLimit_TwoSidedPoleFails(t *testing.T) {
	r := symbolic.Limit(quotient(symbolic.N(1), xMinus(1)), "x", symbolic.N(1))
	if r.Success {
		t.Fatalf("1/(x-1) has no two-sided limit at 1, got %s", r.Value)
	}
	if !errors.Is(r.Err(), symbolic.ErrLimitUnknown) {
		t.Errorf("want ErrLimitUnknown, got %v", r.Err())
	}
}

func TestLimit_OneSidedPole(t *testing.T) {
	r := symbolic.LimitDir(quotient(symbolic.N(1), x), "x", symbolic.N(0), symbolic.FromRight)
	if !r.Success || !r.Value.Equal(symbolic.Inf) {
		t.Errorf("want ∞, got %+v", r)
	}
	r = symbolic.LimitDir(quotient(symbolic.N(1), x), "x", symbolic.N(0), symbolic.FromLeft)
	if !r.Success || !r.Value.Equal(symbolic.NegInf) {
		t.Errorf("want -∞, got %+v", r)
	}
}

func TestLimit_EvenPoleIsTwoSided(t *testing.T) {
	r := symbolic.Limit(symbolic.PowOf(x, symbolic.N(-2)), "x", symbolic.N(0))
	if !r.Success || !r.Value.Equal(symbolic.Inf) {
		t.Errorf("want ∞, got %+v", r)
	}
}

func TestLimit_AtInfinity(t *testing.T) {
	r := symbolic.Limit(quotient(x, symbolic.AddOf(x, symbolic.N(1))), "x", symbolic.Inf)
	if !r.Success || r.Value.String() != "1" {
		t.Errorf("want 1, got %+v", r)
	}
	r = symbolic.Limit(symbolic.ExpOf(x), "x", symbolic.NegInf)
	if !r.Success || r.Value.String() != "0" {
		t.Errorf("want 0, got %+v", r)
	}
}

func TestLimit_RejectsSymbolicPoint(t *testing.T) {
	r := symbolic.Limit(x, "x", symbolic.S("a"))
	if r.Success {
		t.Error("limit at a symbolic point should fail")
	}
}

// ============================================================
// Recognize
// ============================================================

func TestRecognize(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0.5, "1/2"},
		{-3, "-3"},
		{math.Pi / 2, "pi/2"},
		{math.Sqrt(2), "sqrt(2)"},
	}
	for _, c := range cases {
		got := symbolic.Recognize(c.v, 1e-9)
		if got == nil {
			t.Errorf("%v: want %s, got nil", c.v, c.want)
			continue
		}
		if got.String() != c.want {
			t.Errorf("%v: want %s, got %s", c.v, c.want, got)
		}
	}
	if symbolic.Recognize(math.NaN(), 1e-9) != nil {
		t.Error("NaN should not be recognized")
	}
}

// ============================================================
// Deep simplification
// ============================================================

func TestDeepSimplify_CancelsRemovableFactor(t *testing.T) {
	e := quotient(xMinus(1), xMinus(1))
	if got := symbolic.DeepSimplify(e); got.String() != "1" {
		t.Errorf("want 1, got %s", got)
	}
	e = quotient(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-9)), xMinus(3))
	if got := symbolic.DeepSimplify(e); got.String() != "x + 3" {
		t.Errorf("want x + 3, got %s", got)
	}
}

func TestDeepSimplify_Idempotent(t *testing.T) {
	exprs := []symbolic.Expr{
		quotient(symbolic.SinOf(x), x),
		symbolic.SqrtOf(xMinus(4)),
		symbolic.MulOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.AddOf(x, symbolic.N(-1))),
		symbolic.AddOf(symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)), symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2))),
	}
	for _, e := range exprs {
		once := symbolic.DeepSimplify(e)
		twice := symbolic.DeepSimplify(once)
		if once.String() != twice.String() {
			t.Errorf("%s: %s then %s", e, once, twice)
		}
	}
}

func TestTrigSimplify_Pythagorean(t *testing.T) {
	e := symbolic.AddOf(symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)), symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2)))
	if got := symbolic.TrigSimplify(e); got.String() != "1" {
		t.Errorf("want 1, got %s", got)
	}
}

func TestExpand(t *testing.T) {
	e := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2))
	if got := symbolic.Expand(e); got.String() != "x^2 + 2*x + 1" {
		t.Errorf("want x^2 + 2*x + 1, got %s", got)
	}
}
