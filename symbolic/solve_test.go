package symbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// ============================================================
// Real solving
// ============================================================

func TestSolveReal(t *testing.T) {
	cases := []struct {
		name string
		e    symbolic.Expr
		want string
	}{
		{"quadratic", symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-4)), "{-2, 2}"},
		{"no real roots", symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(1)), "∅"},
		{"surd roots", symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-5)), "{-sqrt(5), sqrt(5)}"},
		{"root", symbolic.AddOf(symbolic.SqrtOf(x), symbolic.N(-2)), "{4}"},
		{"log", symbolic.LnOf(x), "{1}"},
		{"exp", symbolic.ExpOf(x), "∅"},
		{"removable", quotient(xMinus(1), xMinus(1)), "∅"},
		{"identically zero", symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), x)), "ℝ"},
		{"even composition", symbolic.SqrtOf(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-2))), "{-sqrt(2), sqrt(2)}"},
	}
	for _, c := range cases {
		got, err := symbolic.SolveReal(c.e, "x")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("%s: want %s, got %s", c.name, c.want, got)
		}
	}
}

func TestSolveReal_Periodic(t *testing.T) {
	_, err := symbolic.SolveReal(symbolic.SinOf(x), "x")
	if !errors.Is(err, symbolic.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}

func TestSolveRealNumeric(t *testing.T) {
	// x^3 - 2x - 5 has a single real root near 2.0946
	e := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(3)), symbolic.MulOf(symbolic.N(-2), x), symbolic.N(-5))
	got, err := symbolic.SolveRealNumeric(e, "x", -10, 10)
	if err != nil {
		t.Fatal(err)
	}
	pts, ok := got.Points()
	if !ok || len(pts) != 1 {
		t.Fatalf("want one root, got %s", got)
	}
	if f, _ := symbolic.Float(pts[0]); math.Abs(f-2.0945514815) > 1e-6 {
		t.Errorf("want 2.0945514815, got %v", f)
	}
}

func TestSolveRealNumeric_SkipsPoles(t *testing.T) {
	got, err := symbolic.SolveRealNumeric(quotient(symbolic.N(1), x), "x", -10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsEmpty() {
		t.Errorf("1/x has no zeros, got %s", got)
	}
}

func TestSolvePositive(t *testing.T) {
	got, err := symbolic.SolvePositive(xMinus(4), "x", false)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "[4, ∞)" {
		t.Errorf("want [4, ∞), got %s", got)
	}
	got, err = symbolic.SolvePositive(quotient(symbolic.N(1), x), "x", true)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "(0, ∞)" {
		t.Errorf("want (0, ∞), got %s", got)
	}
}

// ============================================================
// Continuous domain
// ============================================================

func TestContinuousDomain(t *testing.T) {
	cases := []struct {
		name string
		e    symbolic.Expr
		want string
	}{
		{"polynomial", symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-4)), "ℝ"},
		{"pole", quotient(symbolic.N(1), xMinus(1)), "ℝ \\ {1}"},
		{"removable", quotient(xMinus(1), xMinus(1)), "ℝ \\ {1}"},
		{"sqrt", symbolic.SqrtOf(xMinus(4)), "[4, ∞)"},
		{"log", symbolic.LnOf(x), "(0, ∞)"},
		{"sinc", quotient(symbolic.SinOf(x), x), "ℝ \\ {0}"},
		{"cube root", symbolic.PowOf(x, symbolic.F(1, 3)), "ℝ"},
	}
	for _, c := range cases {
		got, err := symbolic.ContinuousDomain(c.e, "x")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("%s: want %s, got %s", c.name, c.want, got)
		}
	}
}

func TestContinuousDomain_Tan(t *testing.T) {
	if _, err := symbolic.ContinuousDomain(symbolic.TanOf(x), "x"); !errors.Is(err, symbolic.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}

// ============================================================
// Range
// ============================================================

func TestFunctionRange(t *testing.T) {
	minusPoint := func(p int64) symbolic.Set { return symbolic.Reals().Minus(symbolic.FiniteSet(symbolic.N(p))) }
	cases := []struct {
		name   string
		e      symbolic.Expr
		domain symbolic.Set
		want   string
	}{
		{"parabola", symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-4)), symbolic.Reals(), "[-4, ∞)"},
		{"line", symbolic.MulOf(symbolic.N(2), x), symbolic.Reals(), "ℝ"},
		{"hyperbola", quotient(symbolic.N(1), x), minusPoint(0), "ℝ \\ {0}"},
		{"hole", quotient(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-9)), xMinus(3)), minusPoint(3), "ℝ \\ {6}"},
		{"constant with hole", quotient(xMinus(1), xMinus(1)), minusPoint(1), "{1}"},
		{"restricted", symbolic.PowOf(x, symbolic.N(2)), symbolic.NewInterval(symbolic.N(-1), symbolic.N(2), false, false), "[0, 4]"},
	}
	for _, c := range cases {
		got, err := symbolic.FunctionRange(c.e, "x", c.domain)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("%s: want %s, got %s", c.name, c.want, got)
		}
	}
}

func TestFunctionRange_Periodic(t *testing.T) {
	if _, err := symbolic.FunctionRange(symbolic.SinOf(x), "x", symbolic.Reals()); err == nil {
		t.Error("expected an error for sin(x)")
	}
}
