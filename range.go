package fnanalyze

import (
	"fmt"
	"math"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// denominatorMask is how close to zero a denominator may get before the
// sample point is skipped.
const denominatorMask = 1e-9

// RangeResult is an estimate of the image of a function. Sampled results
// are a single interval or empty: sampling cannot see gaps, so a
// disconnected range is reported as its convex hull.
type RangeResult struct {
	Set    symbolic.Set `json:"set"`
	Method string       `json:"method"`
	Detail string       `json:"detail,omitempty"`
}

// Window is a closed sampling interval [Lo, Hi].
type Window struct {
	Lo, Hi float64
}

type rangeOptions struct {
	domain    *symbolic.Set
	windows   []Window
	samples   int
	threshold float64
	symbolic  bool
}

// RangeOption adjusts a single Range call.
type RangeOption func(*rangeOptions)

// RangeDomain supplies the domain instead of computing it.
func RangeDomain(d symbolic.Set) RangeOption {
	return func(o *rangeOptions) { o.domain = &d }
}

// SamplingWindows replaces the default sampling intervals.
func SamplingWindows(w ...Window) RangeOption {
	return func(o *rangeOptions) { o.windows = append([]Window(nil), w...) }
}

// SamplesPerInterval sets the grid size of every sampling interval.
func SamplesPerInterval(n int) RangeOption {
	return func(o *rangeOptions) { o.samples = n }
}

// InfinityThreshold sets the magnitude beyond which samples count as
// evidence of an unbounded range.
func InfinityThreshold(t float64) RangeOption {
	return func(o *rangeOptions) { o.threshold = t }
}

// SamplingOnly skips the symbolic stage.
func SamplingOnly() RangeOption {
	return func(o *rangeOptions) { o.symbolic = false }
}

// Range estimates the range of e over its domain. The symbolic stage
// computes the exact image from critical points and one-sided limits; when
// it fails or finds nothing the function is sampled.
func (a *Analyzer) Range(e symbolic.Expr, varName string, opts ...RangeOption) RangeResult {
	varName = a.variable(varName)
	o := rangeOptions{
		samples:   a.cfg.SamplesPerInterval,
		threshold: a.cfg.InfinityThreshold,
		symbolic:  a.cfg.SymbolicRange,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var domain symbolic.Set
	if o.domain != nil {
		domain = *o.domain
	} else {
		domain = a.Domain(e, varName)
	}

	var detail string
	if o.symbolic {
		var set symbolic.Set
		err := protect(func() error {
			var err error
			set, err = symbolic.FunctionRange(e, varName, domain)
			return err
		})
		switch {
		case err != nil:
			detail = "symbolic range failed: " + err.Error()
			a.log.Debug("range falls back to sampling", "expr", e.String(), "err", err)
		case set.IsEmpty():
			detail = "symbolic range is empty"
			a.log.Debug("range falls back to sampling", "expr", e.String(), "reason", detail)
		default:
			return RangeResult{Set: set, Method: MethodSymbolic}
		}
	}

	windows := o.windows
	if windows == nil {
		windows = []Window{{-10, 10}}
		if domain.IsReals() {
			windows = append(windows, Window{-100, -10}, Window{10, 100})
		}
	}
	r := sampleRange(e, varName, windows, o.samples, o.threshold)
	if detail != "" {
		r.Detail = detail + "; " + r.Detail
	}
	return r
}

// sampleRange evaluates e on an even grid over every window and reports
// the hull of the finite values, opened to ±∞ when samples beyond the
// threshold were seen.
func sampleRange(e symbolic.Expr, varName string, windows []Window, n int, threshold float64) RangeResult {
	if n < 2 {
		n = 2
	}
	f := symbolic.Compile(e, varName)
	var mask func(float64) float64
	if den := symbolic.Denominator(e); symbolic.Has(den, varName) {
		mask = symbolic.Compile(den, varName)
	}

	var (
		seen               bool
		posInf, negInf     bool
		bounded            bool
		lo, hi             = math.Inf(1), math.Inf(-1)
		rawLo, rawHi       = math.Inf(1), math.Inf(-1)
		skipped, evaluated int
	)
	for _, w := range windows {
		xs := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			x := w.Lo + (w.Hi-w.Lo)*float64(i)/float64(n-1)
			if mask != nil && math.Abs(mask(x)) <= denominatorMask {
				skipped++
				continue
			}
			xs = append(xs, x)
		}
		if len(xs) == 0 {
			continue
		}
		ys, err := evalBulk(f, xs)
		if err != nil {
			ys = evalPointwise(f, xs)
		}
		for _, y := range ys {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			evaluated++
			seen = true
			rawLo, rawHi = math.Min(rawLo, y), math.Max(rawHi, y)
			switch {
			case y > threshold:
				posInf = true
			case y < -threshold:
				negInf = true
			default:
				bounded = true
				lo, hi = math.Min(lo, y), math.Max(hi, y)
			}
		}
	}
	if !seen {
		return RangeResult{Method: MethodSampled, Detail: "sampling failed: no finite values"}
	}
	if !bounded {
		lo, hi = rawLo, rawHi
	}
	left, right := symbolic.FloatExpr(lo), symbolic.FloatExpr(hi)
	if negInf {
		left = symbolic.NegInf
	}
	if posInf {
		right = symbolic.Inf
	}
	return RangeResult{
		Set:    symbolic.NewInterval(left, right, false, false),
		Method: MethodSampled,
		Detail: fmt.Sprintf("samples=%d evaluated=%d masked=%d", n, evaluated, skipped),
	}
}

// evalBulk evaluates f over xs, failing as a whole if any point panics.
func evalBulk(f func(float64) float64, xs []float64) (ys []float64, err error) {
	err = protect(func() error {
		ys = make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = f(x)
		}
		return nil
	})
	return ys, err
}

// evalPointwise evaluates f point by point and drops the points that fail.
func evalPointwise(f func(float64) float64, xs []float64) []float64 {
	ys := make([]float64, 0, len(xs))
	for _, x := range xs {
		var y float64
		if err := protect(func() error { y = f(x); return nil }); err == nil {
			ys = append(ys, y)
		}
	}
	return ys
}
