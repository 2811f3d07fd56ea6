package symbolic_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/njchilds90/fnanalyze/symbolic"
)

var x = symbolic.S("x")

func xMinus(n int64) symbolic.Expr { return symbolic.AddOf(x, symbolic.N(-n)) }

func quotient(num, den symbolic.Expr) symbolic.Expr {
	return symbolic.MulOf(num, symbolic.PowOf(den, symbolic.N(-1)))
}

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := symbolic.F(2, 5)
	if n.LaTeX() != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNum_Float_PrintsDecimal(t *testing.T) {
	n := symbolic.NFloat(0.25)
	if n.String() != "0.25" {
		t.Errorf("want 0.25, got %s", n.String())
	}
	if n.IsExact() {
		t.Error("NFloat should be approximate")
	}
}

// ============================================================
// Canonical form
// ============================================================

func TestAdd_CombinesLikeTerms(t *testing.T) {
	e := symbolic.AddOf(x, symbolic.N(2), x)
	if e.String() != "2*x + 2" {
		t.Errorf("want 2*x + 2, got %s", e.String())
	}
}

func TestAdd_PrintsSubtraction(t *testing.T) {
	e := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-4))
	if e.String() != "x^2 - 4" {
		t.Errorf("want x^2 - 4, got %s", e.String())
	}
}

func TestMul_KeepsRemovableQuotient(t *testing.T) {
	e := quotient(xMinus(1), xMinus(1))
	if e.String() != "(x - 1)/(x - 1)" {
		t.Errorf("want (x - 1)/(x - 1), got %s", e.String())
	}
}

func TestMul_MergesPositivePowers(t *testing.T) {
	e := symbolic.MulOf(x, x, symbolic.N(3))
	if e.String() != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", e.String())
	}
}

func TestPow_ExactRoots(t *testing.T) {
	cases := []struct {
		base symbolic.Expr
		exp  symbolic.Expr
		want string
	}{
		{symbolic.N(8), symbolic.F(1, 2), "2*sqrt(2)"},
		{symbolic.N(5), symbolic.F(1, 2), "sqrt(5)"},
		{symbolic.N(9), symbolic.F(1, 2), "3"},
		{symbolic.N(-8), symbolic.F(1, 3), "-2"},
		{symbolic.N(-3), symbolic.F(1, 2), "sqrt(-3)"},
		{symbolic.N(2), symbolic.N(-1), "1/2"},
	}
	for _, c := range cases {
		got := symbolic.PowOf(c.base, c.exp).String()
		if got != c.want {
			t.Errorf("%s^%s: want %s, got %s", c.base, c.exp, c.want, got)
		}
	}
}

func TestSpecialValues(t *testing.T) {
	zoo := symbolic.PowOf(symbolic.N(0), symbolic.N(-1))
	if zoo.String() != "zoo" {
		t.Errorf("1/0: want zoo, got %s", zoo)
	}
	if got := symbolic.MulOf(symbolic.N(0), zoo); got.String() != "nan" {
		t.Errorf("0*zoo: want nan, got %s", got)
	}
	if got := symbolic.AddOf(symbolic.Inf, symbolic.NegInf); got.String() != "nan" {
		t.Errorf("oo - oo: want nan, got %s", got)
	}
	if got := symbolic.AddOf(symbolic.Inf, symbolic.N(3)); got.String() != "∞" {
		t.Errorf("oo + 3: want ∞, got %s", got)
	}
}

func TestFunc_ExactFolding(t *testing.T) {
	cases := []struct {
		e    symbolic.Expr
		want string
	}{
		{symbolic.SinOf(symbolic.N(0)), "0"},
		{symbolic.CosOf(symbolic.N(0)), "1"},
		{symbolic.LnOf(symbolic.N(1)), "0"},
		{symbolic.LnOf(symbolic.E), "1"},
		{symbolic.ExpOf(symbolic.LnOf(x)), "x"},
		{symbolic.AbsOf(symbolic.N(-3)), "3"},
		{symbolic.SinOf(symbolic.N(1)), "sin(1)"},
		{symbolic.LnOf(symbolic.N(0)), "zoo"},
		{symbolic.SinOf(symbolic.Pi), "0"},
		{symbolic.CosOf(symbolic.Pi), "-1"},
		{symbolic.SinOf(symbolic.MulOf(symbolic.F(1, 6), symbolic.Pi)), "1/2"},
		{symbolic.CosOf(symbolic.MulOf(symbolic.F(1, 3), symbolic.Pi)), "1/2"},
		{symbolic.CosOf(symbolic.MulOf(symbolic.F(1, 2), symbolic.Pi)), "0"},
		{symbolic.SinOf(symbolic.MulOf(symbolic.F(-1, 2), symbolic.Pi)), "-1"},
		{symbolic.SinOf(symbolic.MulOf(symbolic.F(7, 6), symbolic.Pi)), "-1/2"},
		{symbolic.TanOf(symbolic.MulOf(symbolic.F(1, 4), symbolic.Pi)), "1"},
		{symbolic.TanOf(symbolic.MulOf(symbolic.F(3, 4), symbolic.Pi)), "-1"},
		{symbolic.TanOf(symbolic.Pi), "0"},
		{symbolic.TanOf(symbolic.MulOf(symbolic.F(1, 2), symbolic.Pi)), "zoo"},
		{symbolic.TanOf(symbolic.MulOf(symbolic.F(-3, 2), symbolic.Pi)), "zoo"},
	}
	for _, c := range cases {
		if c.e.String() != c.want {
			t.Errorf("want %s, got %s", c.want, c.e.String())
		}
	}
}

func TestPow_ClosedProductDistributes(t *testing.T) {
	negRoot2 := symbolic.MulOf(symbolic.N(-1), symbolic.SqrtOf(symbolic.N(2)))
	cases := []struct {
		e    symbolic.Expr
		want string
	}{
		{symbolic.PowOf(negRoot2, symbolic.N(2)), "2"},
		{symbolic.PowOf(negRoot2, symbolic.N(3)), "-2*sqrt(2)"},
		{symbolic.PowOf(symbolic.MulOf(symbolic.F(1, 2), symbolic.SqrtOf(symbolic.N(10))), symbolic.N(4)), "25/4"},
		{symbolic.AddOf(symbolic.PowOf(negRoot2, symbolic.N(2)), symbolic.N(-2)), "0"},
		{symbolic.PowOf(symbolic.AddOf(symbolic.PowOf(negRoot2, symbolic.N(2)), symbolic.N(-2)), symbolic.N(-1)), "zoo"},
	}
	for _, c := range cases {
		if c.e.String() != c.want {
			t.Errorf("want %s, got %s", c.want, c.e)
		}
	}
}

func TestSub_IrrationalPoints(t *testing.T) {
	sq := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-2))
	if got := sq.Sub("x", symbolic.MulOf(symbolic.N(-1), symbolic.SqrtOf(symbolic.N(2)))); got.String() != "0" {
		t.Errorf("want 0, got %s", got)
	}
	if got := symbolic.TanOf(x).Sub("x", symbolic.MulOf(symbolic.F(1, 2), symbolic.Pi)); !symbolic.IsBad(got) {
		t.Errorf("tan(pi/2) should be undefined, got %s", got)
	}
	if got := quotient(symbolic.N(1), symbolic.CosOf(x)).Sub("x", symbolic.MulOf(symbolic.F(1, 2), symbolic.Pi)); !symbolic.IsBad(got) {
		t.Errorf("1/cos(pi/2) should be undefined, got %s", got)
	}
}

func TestPow_EulerBaseBecomesExp(t *testing.T) {
	e := symbolic.PowOf(symbolic.E, x)
	if e.String() != "exp(x)" {
		t.Errorf("want exp(x), got %s", e)
	}
}

// ============================================================
// Differentiation
// ============================================================

func TestDiff_Power(t *testing.T) {
	d := symbolic.Diff(symbolic.PowOf(x, symbolic.N(3)), "x")
	if d.String() != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", d)
	}
}

func TestDiff_Sin(t *testing.T) {
	d := symbolic.Diff(symbolic.SinOf(x), "x")
	if d.String() != "cos(x)" {
		t.Errorf("want cos(x), got %s", d)
	}
}

func TestDiff_Constant(t *testing.T) {
	if d := symbolic.Diff(symbolic.N(5), "x"); d.String() != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", d)
	}
}

// ============================================================
// LaTeX
// ============================================================

func TestLaTeX_Sqrt(t *testing.T) {
	e := symbolic.SqrtOf(x)
	if e.LaTeX() != `\sqrt{x}` {
		t.Errorf("want \\sqrt{x}, got %s", e.LaTeX())
	}
}

func TestLaTeX_Fraction(t *testing.T) {
	e := quotient(symbolic.N(1), xMinus(1))
	if e.LaTeX() != `\frac{1}{x - 1}` {
		t.Errorf("want \\frac{1}{x - 1}, got %s", e.LaTeX())
	}
}

// ============================================================
// Classification
// ============================================================

func TestIsBad(t *testing.T) {
	if !symbolic.IsBad(quotient(xMinus(1), xMinus(1)).Sub("x", symbolic.N(1))) {
		t.Error("(x-1)/(x-1) at 1 should be bad")
	}
	if symbolic.IsBad(symbolic.SqrtOf(symbolic.N(-3))) {
		t.Error("sqrt(-3) is non-real, not bad")
	}
	if symbolic.IsBad(x) {
		t.Error("a free symbol is not bad")
	}
}

func TestIsReal(t *testing.T) {
	cases := []struct {
		e    symbolic.Expr
		want symbolic.Tri
	}{
		{symbolic.SqrtOf(symbolic.N(5)), symbolic.True},
		{symbolic.SqrtOf(symbolic.N(-3)), symbolic.False},
		{symbolic.LnOf(symbolic.N(-1)), symbolic.False},
		{symbolic.AddOf(x, symbolic.N(1)), symbolic.True},
		{symbolic.SqrtOf(x), symbolic.Unknown},
		{symbolic.Inf, symbolic.False},
	}
	for _, c := range cases {
		if got := symbolic.IsReal(c.e); got != c.want {
			t.Errorf("IsReal(%s): want %s, got %s", c.e, c.want, got)
		}
	}
}

// ============================================================
// Numeric evaluation
// ============================================================

func TestCompile(t *testing.T) {
	f := symbolic.Compile(quotient(symbolic.N(1), xMinus(1)), "x")
	if got := f(3); got != 0.5 {
		t.Errorf("want 0.5, got %g", got)
	}
	if got := symbolic.Compile(symbolic.SqrtOf(x), "x")(-1); !math.IsNaN(got) {
		t.Errorf("sqrt(-1) should compile to NaN, got %g", got)
	}
}

func TestEvalf(t *testing.T) {
	got, err := symbolic.Evalf(symbolic.SqrtOf(symbolic.N(5)), 8)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2.2360680) > 1e-9 {
		t.Errorf("want 2.2360680, got %v", got)
	}
	if _, err := symbolic.Evalf(x, 8); err == nil {
		t.Error("Evalf of a free symbol should fail")
	}
}

// ============================================================
// JSON
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	e := quotient(symbolic.SinOf(x), symbolic.AddOf(x, symbolic.Pi))
	s, err := symbolic.ToJSON(e)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	back, err := symbolic.FromJSON(m)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip changed %s into %s", e, back)
	}
}

func TestJSON_UnknownFunction(t *testing.T) {
	_, err := symbolic.FromJSON(map[string]interface{}{
		"type": "func", "name": "gamma", "arg": map[string]interface{}{"type": "sym", "name": "x"},
	})
	if err == nil {
		t.Error("expected error for unknown function")
	}
}
