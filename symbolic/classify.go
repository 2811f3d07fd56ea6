package symbolic

import (
	"math"
	"math/cmplx"
)

// Tri is a three-valued answer to a classification query.
type Tri int

const (
	Unknown Tri = iota
	True
	False
)

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unknown"
}

func triOf(b bool) Tri {
	if b {
		return True
	}
	return False
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// Has reports whether varName occurs in e.
func Has(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

// IsNumber reports whether e has no free symbols.
func IsNumber(e Expr) bool { return len(FreeSymbols(e)) == 0 }

// hasSpecial reports whether ±∞, complex infinity or NaN occurs anywhere in e.
func hasSpecial(e Expr) bool {
	switch v := e.(type) {
	case *Infinity, *ComplexInfinity, *NotANumber:
		return true
	case *Add:
		for _, t := range v.terms {
			if hasSpecial(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasSpecial(f) {
				return true
			}
		}
	case *Pow:
		return hasSpecial(v.base) || hasSpecial(v.exp)
	case *Func:
		return hasSpecial(v.arg)
	}
	return false
}

// IsBad is the single predicate for "undefined at face value": e contains
// an infinity, complex infinity or NaN, or evaluates numerically to an
// infinite or undefined value.
func IsBad(e Expr) bool {
	if hasSpecial(e) {
		return true
	}
	if !IsNumber(e) {
		return false
	}
	c, ok := evalComplex(e)
	if !ok {
		return true
	}
	return cmplx.IsInf(c) || cmplx.IsNaN(c)
}

// IsReal classifies whether e takes a real value. Symbols are real, so a
// symbolic expression built only from real-preserving operations is real;
// closed numeric expressions are decided numerically.
func IsReal(e Expr) Tri {
	if hasSpecial(e) {
		return False
	}
	if IsNumber(e) {
		c, ok := evalComplex(e)
		if !ok || cmplx.IsNaN(c) || cmplx.IsInf(c) {
			return Unknown
		}
		return triOf(math.Abs(imag(c)) <= 1e-12*math.Max(1, math.Abs(real(c))))
	}
	if realPreserving(e) {
		return True
	}
	return Unknown
}

// realPreserving reports whether every operation in e maps reals to reals
// wherever it is defined.
func realPreserving(e Expr) bool {
	switch v := e.(type) {
	case *Num, *Sym, *Const:
		return true
	case *Add:
		for _, t := range v.terms {
			if !realPreserving(t) {
				return false
			}
		}
		return true
	case *Mul:
		for _, f := range v.factors {
			if !realPreserving(f) {
				return false
			}
		}
		return true
	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok || en.approx || (!en.IsInteger() && en.val.Denom().Bit(0) == 0) {
			return false
		}
		return realPreserving(v.base)
	case *Func:
		switch v.name {
		case "log", "asin", "acos":
			return false
		}
		return realPreserving(v.arg)
	}
	return false
}

// IsFinite reports whether e is a closed number with a finite value.
func IsFinite(e Expr) Tri {
	if hasSpecial(e) {
		return False
	}
	if !IsNumber(e) {
		return Unknown
	}
	c, ok := evalComplex(e)
	if !ok {
		return Unknown
	}
	return triOf(!cmplx.IsInf(c) && !cmplx.IsNaN(c))
}

// IsZero reports whether e is identically the exact number zero.
func IsZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// evalComplex evaluates a closed expression over the complex numbers, taking
// real odd roots of negative reals.
func evalComplex(e Expr) (complex128, bool) {
	switch v := e.(type) {
	case *Num:
		return complex(v.Float64(), 0), true
	case *Const:
		return complex(v.Float64(), 0), true
	case *Add:
		var acc complex128
		for _, t := range v.terms {
			c, ok := evalComplex(t)
			if !ok {
				return 0, false
			}
			acc += c
		}
		return acc, true
	case *Mul:
		acc := complex(1, 0)
		for _, f := range v.factors {
			c, ok := evalComplex(f)
			if !ok {
				return 0, false
			}
			acc *= c
		}
		return acc, true
	case *Pow:
		b, ok1 := evalComplex(v.base)
		x, ok2 := evalComplex(v.exp)
		if !ok1 || !ok2 {
			return 0, false
		}
		if b == 0 {
			if real(x) < 0 {
				return cmplx.Inf(), true
			}
			if real(x) == 0 {
				return 1, true
			}
			return 0, true
		}
		if en, ok := v.exp.(*Num); ok && imag(b) == 0 && real(b) < 0 {
			r := realPow(real(b), en.Float64(), en)
			if !math.IsNaN(r) {
				return complex(r, 0), true
			}
		}
		if imag(b) == 0 && imag(x) == 0 && real(b) > 0 {
			return complex(math.Pow(real(b), real(x)), 0), true
		}
		return cmplx.Pow(b, x), true
	case *Func:
		a, ok := evalComplex(v.arg)
		if !ok {
			return 0, false
		}
		if imag(a) == 0 {
			if r, ok := realFunc(v.name, real(a)); ok {
				return complex(r, 0), true
			}
		}
		switch v.name {
		case "sin":
			return cmplx.Sin(a), true
		case "cos":
			return cmplx.Cos(a), true
		case "tan":
			return cmplx.Tan(a), true
		case "exp":
			return cmplx.Exp(a), true
		case "log":
			if a == 0 {
				return cmplx.Inf(), true
			}
			return cmplx.Log(a), true
		case "abs":
			return complex(cmplx.Abs(a), 0), true
		case "asin":
			return cmplx.Asin(a), true
		case "acos":
			return cmplx.Acos(a), true
		case "atan":
			return cmplx.Atan(a), true
		case "sinh":
			return cmplx.Sinh(a), true
		case "cosh":
			return cmplx.Cosh(a), true
		case "tanh":
			return cmplx.Tanh(a), true
		}
	}
	return 0, false
}

// realFunc applies a named function to a real argument, failing when the
// result leaves the reals.
func realFunc(name string, a float64) (float64, bool) {
	switch name {
	case "log":
		if a <= 0 {
			return 0, false
		}
	case "asin", "acos":
		if a < -1 || a > 1 {
			return 0, false
		}
	}
	fn, ok := floatFuncs[name]
	if !ok {
		return 0, false
	}
	return fn(a), true
}
