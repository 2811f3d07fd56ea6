package fnanalyze

import (
	"fmt"
	"strconv"

	"github.com/njchilds90/fnanalyze/parse"
	"github.com/njchilds90/fnanalyze/symbolic"
)

// State is the progress of a point evaluation. Resolved, OutOfDomain and
// Errored are terminal.
type State int

const (
	Pending State = iota
	Substituted
	LimitAttempted
	Resolved
	OutOfDomain
	Errored
)

var stateNames = [...]string{"pending", "substituted", "limit-attempted", "resolved", "out-of-domain", "errored"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool { return s >= Resolved }

// Keys of EvaluationResult.Labeled.
const (
	LabelOriginal    = "original"
	LabelDomain      = "domain"
	LabelSimplified  = "simplified"
	LabelSubstituted = "substituted"
	LabelLimit       = "limit"
	LabelExact       = "exact"
	LabelDecimal     = "decimal"
)

// RemovableMarker is part of the step that adopts a limit as the value at
// a removable discontinuity.
const RemovableMarker = "discontinuity removable"

// EvaluationResult is the outcome of evaluating a function at a point.
// Exactly one of Exact != nil, OutOfDomain and Err != "" holds. Steps is
// the numbered trace; Labeled maps the Label* keys to LaTeX.
type EvaluationResult struct {
	Point       symbolic.Expr
	Exact       symbolic.Expr
	Decimal     *float64
	Steps       []string
	Labeled     map[string]string
	OutOfDomain bool
	Removable   bool
	Err         string
	State       State
}

type evalOptions struct {
	digits        int
	domain        *symbolic.Set
	useLimit      bool
	simplifyFirst bool
	realOnly      bool
}

// EvalOption adjusts a single Evaluate call.
type EvalOption func(*evalOptions)

// Digits sets the number of significant digits of the decimal value.
func Digits(n int) EvalOption {
	return func(o *evalOptions) { o.digits = n }
}

// KnownDomain supplies a precomputed continuity domain.
func KnownDomain(d symbolic.Set) EvalOption {
	return func(o *evalOptions) { o.domain = &d }
}

// UseLimit enables or disables the limit fallback for undefined substitutions.
func UseLimit(on bool) EvalOption {
	return func(o *evalOptions) { o.useLimit = on }
}

// SimplifyFirst enables or disables simplification before substitution.
func SimplifyFirst(on bool) EvalOption {
	return func(o *evalOptions) { o.simplifyFirst = on }
}

// RealOnly enables or disables rejection of non-real values.
func RealOnly(on bool) EvalOption {
	return func(o *evalOptions) { o.realOnly = on }
}

type trace struct {
	steps  []string
	labels map[string]string
}

func (t *trace) step(format string, args ...interface{}) {
	t.steps = append(t.steps, strconv.Itoa(len(t.steps)+1)+". "+fmt.Sprintf(format, args...))
}

func (t *trace) label(key, latex string) { t.labels[key] = latex }

type evaluation struct {
	a       *Analyzer
	e, x0   symbolic.Expr
	varName string
	o       evalOptions
	t       *trace
	res     EvaluationResult
}

// Evaluate computes e at x0 and narrates every step. A substitution that
// is undefined is retried once as a two-sided limit; a finite real limit
// is adopted as the value of a removable discontinuity. Internal failures
// end in the Errored state with the trace recorded so far.
func (a *Analyzer) Evaluate(e, x0 symbolic.Expr, varName string, opts ...EvalOption) (res EvaluationResult) {
	ev := &evaluation{
		a:       a,
		e:       e,
		x0:      x0,
		varName: a.variable(varName),
		o: evalOptions{
			digits:        a.cfg.Digits,
			useLimit:      a.cfg.UseLimit,
			simplifyFirst: a.cfg.SimplifyFirst,
			realOnly:      a.cfg.RealOnly,
		},
		t: &trace{labels: map[string]string{}},
	}
	for _, opt := range opts {
		opt(&ev.o)
	}
	defer func() {
		if r := recover(); r != nil {
			a.log.Debug("evaluation panicked", "expr", exprString(e), "point", exprString(x0), "panic", r)
			ev.fail(fmt.Errorf("internal failure: %v", r))
		}
		res = ev.result()
	}()
	ev.run()
	return ev.result()
}

// EvaluateText parses the function and the point and evaluates. Parse
// failures are reported as Errored results.
func (a *Analyzer) EvaluateText(text, at, varName string, opts ...EvalOption) EvaluationResult {
	varName = a.variable(varName)
	failed := func(what string, err error) EvaluationResult {
		t := &trace{labels: map[string]string{}}
		t.step("Could not read the %s: %v", what, err)
		return EvaluationResult{Steps: t.steps, Labeled: t.labels, Err: err.Error(), State: Errored}
	}
	e, err := parse.Parse(text, varName)
	if err != nil {
		return failed("expression", err)
	}
	x0, err := parse.Parse(at, varName)
	if err != nil {
		return failed("point", err)
	}
	if symbolic.Has(x0, varName) {
		return failed("point", fmt.Errorf("%q depends on %s", at, varName))
	}
	return a.Evaluate(e, x0, varName, opts...)
}

func (ev *evaluation) result() EvaluationResult {
	r := ev.res
	r.Point = ev.x0
	r.Steps = append([]string(nil), ev.t.steps...)
	r.Labeled = make(map[string]string, len(ev.t.labels))
	for k, v := range ev.t.labels {
		r.Labeled[k] = v
	}
	return r
}

func (ev *evaluation) fail(err error) {
	ev.t.step("Evaluation failed: %v", err)
	ev.res = EvaluationResult{Err: err.Error(), State: Errored}
}

func (ev *evaluation) outOfDomain(format string, args ...interface{}) {
	ev.t.step(format, args...)
	ev.res.Exact, ev.res.Decimal = nil, nil
	ev.res.OutOfDomain = true
	ev.res.State = OutOfDomain
}

func (ev *evaluation) run() {
	v, x0, t := ev.varName, ev.x0, ev.t
	t.step("Original expression: f(%s) = %s", v, ev.e)
	t.label(LabelOriginal, fmt.Sprintf("f(%s) = %s", v, ev.e.LaTeX()))
	if !symbolic.IsNumber(x0) || symbolic.IsBad(x0) || symbolic.IsReal(x0) != symbolic.True {
		ev.fail(fmt.Errorf("evaluation point %s is not a real number", x0))
		return
	}

	domain, known := ev.domain()

	target, simplified := ev.e, false
	switch {
	case !ev.o.simplifyFirst:
		t.step("Simplification before substitution is disabled")
	default:
		s := symbolic.DeepSimplify(ev.e)
		if s.String() != ev.e.String() {
			t.step("Simplify before substituting: %s → %s", ev.e, s)
			target, simplified = s, true
		} else {
			t.step("Simplify before substituting: already simplified")
		}
		t.label(LabelSimplified, target.LaTeX())
	}

	if known {
		switch domain.Contains(x0) {
		case symbolic.True:
			t.step("%s = %s lies in the domain", v, x0)
		case symbolic.False:
			t.step("%s = %s is not in the domain; substitution decides", v, x0)
		default:
			t.step("Membership of %s = %s in the domain is undetermined; substitution decides", v, x0)
		}
	} else {
		t.step("No domain to check %s = %s against; substitution decides", v, x0)
	}

	sub := symbolic.Sub(target, v, x0)
	ev.res.State = Substituted
	t.step("Substitute %s = %s: f(%s) = %s", v, x0, x0, sub)
	t.label(LabelSubstituted, fmt.Sprintf("f(%s) = %s", x0.LaTeX(), sub.LaTeX()))

	if symbolic.IsBad(sub) {
		t.step("Direct substitution is undefined (%s)", sub)
		if !ev.o.useLimit {
			ev.outOfDomain("Limits are disabled, so %s = %s is outside the domain", v, x0)
			return
		}
		ev.viaLimit(target)
		return
	}

	val := symbolic.DeepSimplify(sub)
	if val.String() != sub.String() {
		t.step("Simplify the result: %s → %s", sub, val)
	} else {
		t.step("The result is already simplified")
	}
	if ev.o.realOnly && symbolic.IsReal(val) == symbolic.False {
		ev.outOfDomain("%s is not a real number, so %s = %s is outside the real domain", val, v, x0)
		return
	}
	var note string
	if simplified {
		if orig := symbolic.Sub(ev.e, v, x0); symbolic.IsBad(orig) {
			ev.res.Removable = true
			note = fmt.Sprintf("The original expression gives %s at %s = %s: %s, the simplified form supplies the limit value",
				orig, v, x0, RemovableMarker)
		}
	}
	ev.resolve(val, note)
}

// domain records the continuity domain, computing it unless one was given.
// It reports false when no domain could be determined.
func (ev *evaluation) domain() (symbolic.Set, bool) {
	if ev.o.domain != nil {
		ev.t.step("Continuity domain (given): %s", ev.o.domain)
		ev.t.label(LabelDomain, ev.o.domain.LaTeX())
		return *ev.o.domain, true
	}
	dr := ev.a.AnalyzeDomain(ev.e, ev.varName)
	if dr.Method == MethodFallback {
		ev.t.step("Continuity domain could not be determined (%s); assuming ℝ", dr.Detail)
		return dr.Set, false
	}
	ev.t.step("Continuity domain (%s): %s", dr.Method, dr.Set)
	ev.t.label(LabelDomain, dr.Set.LaTeX())
	return dr.Set, true
}

func (ev *evaluation) viaLimit(target symbolic.Expr) {
	v, x0, t := ev.varName, ev.x0, ev.t
	ev.res.State = LimitAttempted
	lim := symbolic.Limit(target, v, x0)
	if !lim.Success {
		ev.outOfDomain("The limit as %s → %s does not exist or could not be found (%s), so the point is outside the domain",
			v, x0, lim.Error)
		return
	}
	t.step("Limit as %s → %s: %s (by %s)", v, x0, lim.Value, lim.Strategy)
	t.label(LabelLimit, fmt.Sprintf(`\lim_{%s \to %s} f(%s) = %s`, v, x0.LaTeX(), v, lim.Value.LaTeX()))
	if symbolic.IsBad(lim.Value) {
		ev.outOfDomain("The limit is not finite, so %s = %s is outside the domain", v, x0)
		return
	}
	if ev.o.realOnly && symbolic.IsReal(lim.Value) != symbolic.True {
		ev.outOfDomain("The limit is not real, so %s = %s is outside the real domain", v, x0)
		return
	}
	ev.res.Removable = true
	ev.resolve(lim.Value, "Interpretation: "+RemovableMarker+", using the limit value")
}

func (ev *evaluation) resolve(val symbolic.Expr, note string) {
	t := ev.t
	ev.res.Exact = val
	t.step("Exact value: %s", val)
	t.label(LabelExact, val.LaTeX())
	if symbolic.IsNumber(val) && symbolic.IsReal(val) == symbolic.True {
		if d, err := symbolic.Evalf(val, ev.o.digits); err == nil {
			ev.res.Decimal = &d
			text := strconv.FormatFloat(d, 'g', ev.o.digits, 64)
			t.step("Decimal value (%d significant digits): %s", ev.o.digits, text)
			t.label(LabelDecimal, text)
		} else {
			t.step("No decimal approximation: %v", err)
		}
	}
	if note != "" {
		t.step("%s", note)
	}
	ev.res.State = Resolved
}
