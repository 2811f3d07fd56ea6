package symbolic

import (
	"math"
	"math/big"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("log", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

// FuncOf applies a named function. It returns false for unknown names.
func FuncOf(name string, arg Expr) (Expr, bool) {
	if name == "ln" {
		name = "log"
	}
	if name == "sqrt" {
		return SqrtOf(arg), true
	}
	if _, ok := floatFuncs[name]; !ok {
		return nil, false
	}
	return funcOf(name, arg).Simplify(), true
}

// FuncNames lists the function names accepted by FuncOf.
func FuncNames() []string {
	return []string{"abs", "sqrt", "log", "ln", "exp", "sin", "cos", "tan", "asin", "acos", "atan", "sinh", "cosh", "tanh"}
}

var floatFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"log":  math.Log,
	"abs":  math.Abs,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch a := arg.(type) {
	case *NotANumber, *ComplexInfinity:
		return NaN
	case *Infinity:
		return funcAtInfinity(f.name, a.neg)
	case *Num:
		if a.approx {
			v := floatFuncs[f.name](a.Float64())
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &Func{name: f.name, arg: arg}
			}
			return NFloat(v)
		}
		if r := funcAtExact(f.name, a); r != nil {
			return r
		}
	}
	switch f.name {
	case "sin", "cos", "tan":
		if r := trigAtPiMultiple(f.name, arg); r != nil {
			return r
		}
	case "log":
		if arg.Equal(E) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.arg
		}
		if n, ok := arg.(*Num); ok && n.IsOne() {
			return E
		}
	case "abs":
		if _, ok := arg.(*Const); ok {
			return arg
		}
		if inner, ok := arg.(*Func); ok && (inner.name == "abs" || inner.name == "exp" || inner.name == "cosh") {
			return arg
		}
		if p, ok := arg.(*Pow); ok {
			if en, ok2 := p.exp.(*Num); ok2 && en.IsInteger() && !isOddInt(en) {
				return arg
			}
		}
		if coeff, rest := extractCoefficient(arg); coeff.IsNegative() {
			return AbsOf(MulOf(numAbs(coeff), rest))
		}
	}
	return &Func{name: f.name, arg: arg}
}

// funcAtExact folds exact numeric arguments whose values are exact.
func funcAtExact(name string, n *Num) Expr {
	switch name {
	case "abs":
		return numAbs(n)
	case "log":
		if n.IsZero() {
			return Zoo
		}
		if n.IsOne() {
			return N(0)
		}
		return nil
	case "exp", "cos", "cosh":
		if n.IsZero() {
			return N(1)
		}
	case "acos":
		if n.IsOne() {
			return N(0)
		}
		if n.IsZero() {
			return MulOf(F(1, 2), Pi)
		}
	default:
		if n.IsZero() {
			return N(0)
		}
	}
	return nil
}

// trigAtPiMultiple folds sin, cos and tan at rational multiples of π whose
// denominator divides 4 or 6. tan at an odd multiple of π/2 is zoo.
func trigAtPiMultiple(name string, arg Expr) Expr {
	coeff, rest := extractCoefficient(arg)
	if !rest.Equal(Pi) || !coeff.IsExact() {
		return nil
	}
	// The angle in units of π/12, reduced to one full turn.
	twelfths := new(big.Rat).Mul(coeff.val, big.NewRat(12, 1))
	if !twelfths.IsInt() {
		return nil
	}
	m := int(new(big.Int).Mod(twelfths.Num(), big.NewInt(24)).Int64())
	if m%2 != 0 && m%3 != 0 {
		return nil
	}
	switch name {
	case "sin":
		return sinTwelfths(m)
	case "cos":
		return sinTwelfths((m + 6) % 24)
	}
	m %= 12
	if m > 6 {
		return MulOf(N(-1), tanTwelfths(12-m))
	}
	return tanTwelfths(m)
}

// sinTwelfths returns sin(mπ/12) for 0 <= m < 24 with m a multiple of 2 or 3.
func sinTwelfths(m int) Expr {
	switch {
	case m <= 6:
		return sinQuadrant(m)
	case m <= 12:
		return sinQuadrant(12 - m)
	case m <= 18:
		return MulOf(N(-1), sinQuadrant(m-12))
	}
	return MulOf(N(-1), sinQuadrant(24-m))
}

func sinQuadrant(m int) Expr {
	switch m {
	case 0:
		return N(0)
	case 2:
		return F(1, 2)
	case 3:
		return MulOf(F(1, 2), SqrtOf(N(2)))
	case 4:
		return MulOf(F(1, 2), SqrtOf(N(3)))
	}
	return N(1)
}

// tanTwelfths returns tan(mπ/12) for 0 <= m <= 6.
func tanTwelfths(m int) Expr {
	switch m {
	case 0:
		return N(0)
	case 2:
		return MulOf(F(1, 3), SqrtOf(N(3)))
	case 3:
		return N(1)
	case 4:
		return SqrtOf(N(3))
	}
	return Zoo
}

func funcAtInfinity(name string, neg bool) Expr {
	sign := func(pos, negv Expr) Expr {
		if neg {
			return negv
		}
		return pos
	}
	switch name {
	case "exp":
		return sign(Inf, N(0))
	case "log":
		return Inf
	case "abs", "cosh":
		return Inf
	case "sinh":
		return sign(Inf, NegInf)
	case "tanh":
		return sign(N(1), N(-1))
	case "atan":
		return sign(MulOf(F(1, 2), Pi), MulOf(F(-1, 2), Pi))
	}
	return NaN
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "log", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if n, ok := du.(*Num); ok && n.IsZero() {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "log":
		outer = PowOf(f.arg, N(-1))
	case "abs":
		outer = MulOf(f.arg, PowOf(AbsOf(f.arg), N(-1)))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	default:
		return NaN
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	fn, known := floatFuncs[f.name]
	if !known {
		return nil, false
	}
	v := fn(n.Float64())
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return NFloat(v), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
