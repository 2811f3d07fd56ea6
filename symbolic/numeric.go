package symbolic

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

var bigOne = big.NewInt(1)

func ratFromInt(i *big.Int) *big.Rat { return new(big.Rat).SetInt(i) }

// Compile turns e into a float64 function of varName. Points where e is
// undefined or non-real evaluate to NaN, poles to ±Inf.
func Compile(e Expr, varName string) func(float64) float64 {
	switch v := e.(type) {
	case *Num:
		f := v.Float64()
		return func(float64) float64 { return f }
	case *Const:
		f := v.Float64()
		return func(float64) float64 { return f }
	case *Sym:
		if v.name == varName {
			return func(x float64) float64 { return x }
		}
		return func(float64) float64 { return math.NaN() }
	case *Infinity:
		f := math.Inf(1)
		if v.neg {
			f = math.Inf(-1)
		}
		return func(float64) float64 { return f }
	case *Add:
		fs := make([]func(float64) float64, len(v.terms))
		for i, t := range v.terms {
			fs[i] = Compile(t, varName)
		}
		return func(x float64) float64 {
			acc := 0.0
			for _, f := range fs {
				acc += f(x)
			}
			return acc
		}
	case *Mul:
		fs := make([]func(float64) float64, len(v.factors))
		for i, f := range v.factors {
			fs[i] = Compile(f, varName)
		}
		return func(x float64) float64 {
			acc := 1.0
			for _, f := range fs {
				acc *= f(x)
			}
			return acc
		}
	case *Pow:
		base := Compile(v.base, varName)
		en, numeric := v.exp.(*Num)
		if numeric {
			e := en.Float64()
			if en.IsNegOne() {
				return func(x float64) float64 { return 1 / base(x) }
			}
			return func(x float64) float64 { return realPow(base(x), e, en) }
		}
		exp := Compile(v.exp, varName)
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }
	case *Func:
		arg := Compile(v.arg, varName)
		name := v.name
		return func(x float64) float64 {
			r, ok := realFunc(name, arg(x))
			if !ok {
				return math.NaN()
			}
			return r
		}
	}
	return func(float64) float64 { return math.NaN() }
}

// Float returns the real value of a closed expression.
func Float(e Expr) (float64, bool) {
	if !IsNumber(e) || hasSpecial(e) {
		return 0, false
	}
	f := Compile(e, "")(0)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ErrNotNumeric is returned by Evalf for expressions without a finite real value.
var ErrNotNumeric = errors.New("expression has no finite real value")

// Evalf approximates a closed expression to digits significant digits.
// Arithmetic runs at digits+2 decimal digits of working precision; the
// named functions and irrational powers fall back to float64.
func Evalf(e Expr, digits int) (float64, error) {
	if digits < 1 {
		return 0, fmt.Errorf("evalf: digits must be positive, got %d", digits)
	}
	if !IsNumber(e) || hasSpecial(e) {
		return 0, fmt.Errorf("evalf %s: %w", e, ErrNotNumeric)
	}
	prec := uint(math.Ceil(float64(digits+2)*math.Log2(10))) + 8
	bf, ok := evalBig(e, prec)
	if !ok || bf.IsInf() {
		return 0, fmt.Errorf("evalf %s: %w", e, ErrNotNumeric)
	}
	out, err := strconv.ParseFloat(bf.Text('g', digits), 64)
	if err != nil {
		return 0, fmt.Errorf("evalf %s: %w", e, err)
	}
	return out, nil
}

const (
	piDigits = "3.14159265358979323846264338327950288419716939937510582097494459"
	eDigits  = "2.71828182845904523536028747135266249775724709369995957496696763"
)

func evalBig(e Expr, prec uint) (*big.Float, bool) {
	switch v := e.(type) {
	case *Num:
		return new(big.Float).SetPrec(prec).SetRat(v.val), true
	case *Const:
		lit := eDigits
		if v.name == "pi" {
			lit = piDigits
		}
		f, _, err := big.ParseFloat(lit, 10, prec, big.ToNearestEven)
		return f, err == nil
	case *Add:
		acc := new(big.Float).SetPrec(prec)
		for _, t := range v.terms {
			tv, ok := evalBig(t, prec)
			if !ok {
				return nil, false
			}
			acc.Add(acc, tv)
		}
		return acc, true
	case *Mul:
		acc := new(big.Float).SetPrec(prec).SetInt64(1)
		for _, f := range v.factors {
			fv, ok := evalBig(f, prec)
			if !ok {
				return nil, false
			}
			acc.Mul(acc, fv)
		}
		return acc, true
	case *Pow:
		base, ok := evalBig(v.base, prec)
		if !ok {
			return nil, false
		}
		en, numeric := v.exp.(*Num)
		if numeric && en.IsInteger() && en.val.Num().IsInt64() {
			return bigIntPow(base, en.val.Num().Int64(), prec)
		}
		if numeric && en.Equal(F(1, 2)) {
			if base.Sign() < 0 {
				return nil, false
			}
			return new(big.Float).SetPrec(prec).Sqrt(base), true
		}
		if numeric && en.Equal(F(-1, 2)) {
			if base.Sign() <= 0 {
				return nil, false
			}
			root := new(big.Float).SetPrec(prec).Sqrt(base)
			return new(big.Float).SetPrec(prec).Quo(big.NewFloat(1), root), true
		}
	}
	f, ok := Float(e)
	if !ok {
		return nil, false
	}
	return new(big.Float).SetPrec(prec).SetFloat64(f), true
}

func bigIntPow(base *big.Float, n int64, prec uint) (*big.Float, bool) {
	if n < 0 {
		if base.Sign() == 0 {
			return nil, false
		}
		r, ok := bigIntPow(base, -n, prec)
		if !ok {
			return nil, false
		}
		return new(big.Float).SetPrec(prec).Quo(big.NewFloat(1), r), true
	}
	result := new(big.Float).SetPrec(prec).SetInt64(1)
	sq := new(big.Float).SetPrec(prec).Set(base)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, sq)
		}
		sq.Mul(sq, sq)
		n >>= 1
	}
	return result, true
}
