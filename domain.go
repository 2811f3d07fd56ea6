package fnanalyze

import (
	"fmt"
	"strings"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// Method names reported in results.
const (
	MethodContinuity  = "continuity"
	MethodDenominator = "denominator"
	MethodFallback    = "fallback"
	MethodSymbolic    = "symbolic"
	MethodSampled     = "sampled"
	MethodExact       = "exact"
	MethodNumeric     = "numeric"
	MethodNone        = "none"
)

// DomainStrategy is one way of computing a continuity domain. Strategies
// run in order and the first that succeeds wins.
type DomainStrategy struct {
	Name    string
	Compute func(e symbolic.Expr, varName string) (symbolic.Set, error)
	// Note, if set, qualifies a successful result in DomainResult.Detail.
	Note func(e symbolic.Expr, varName string) string
}

// DomainResult is a domain together with the strategy that produced it.
// Method "fallback" means every strategy failed and Set is ℝ as a signal
// of that failure, not as a claim about the function.
type DomainResult struct {
	Set    symbolic.Set `json:"set"`
	Method string       `json:"method"`
	Detail string       `json:"detail,omitempty"`
}

// ContinuityStrategy analyzes continuity of every subexpression over ℝ.
func ContinuityStrategy() DomainStrategy {
	return DomainStrategy{Name: MethodContinuity, Compute: symbolic.ContinuousDomain}
}

// DenominatorStrategy removes the real zeros of the denominator from ℝ.
func DenominatorStrategy() DomainStrategy {
	return DomainStrategy{Name: MethodDenominator, Compute: denominatorDomain, Note: denominatorNote}
}

// DefaultDomainStrategies returns continuity analysis followed by
// denominator exclusion.
func DefaultDomainStrategies() []DomainStrategy {
	return []DomainStrategy{ContinuityStrategy(), DenominatorStrategy()}
}

func denominatorDomain(e symbolic.Expr, varName string) (symbolic.Set, error) {
	den := symbolic.Denominator(e)
	if !symbolic.Has(den, varName) {
		return symbolic.Reals(), nil
	}
	zeros, err := symbolic.SolveReal(den, varName)
	if err != nil {
		return symbolic.Set{}, fmt.Errorf("denominator %s: %w", den, err)
	}
	return symbolic.Reals().Minus(zeros), nil
}

// denominatorNote flags a denominator free of the variable: no point was
// excluded, which is not evidence that the function has no poles.
func denominatorNote(e symbolic.Expr, varName string) string {
	if symbolic.Has(symbolic.Denominator(e), varName) {
		return ""
	}
	return "denominator does not contain " + varName + ", nothing excluded"
}

// Domain returns the continuity domain of e. It never fails; see
// AnalyzeDomain for the method that produced the set.
func (a *Analyzer) Domain(e symbolic.Expr, varName string) symbolic.Set {
	return a.AnalyzeDomain(e, varName).Set
}

// AnalyzeDomain runs the domain strategies in order and falls back to ℝ
// when all of them fail.
func (a *Analyzer) AnalyzeDomain(e symbolic.Expr, varName string) DomainResult {
	varName = a.variable(varName)
	var failures []string
	for _, s := range a.domainStrategies {
		var set symbolic.Set
		err := protect(func() error {
			var err error
			set, err = s.Compute(e, varName)
			return err
		})
		if err == nil {
			if s.Note != nil {
				if note := s.Note(e, varName); note != "" {
					failures = append(failures, note)
				}
			}
			return DomainResult{Set: set, Method: s.Name, Detail: strings.Join(failures, "; ")}
		}
		a.log.Debug("domain strategy failed", "strategy", s.Name, "expr", e.String(), "err", err)
		failures = append(failures, s.Name+": "+err.Error())
	}
	detail := "no domain strategy succeeded"
	if len(failures) > 0 {
		detail += ": " + strings.Join(failures, "; ")
	}
	a.log.Debug("domain falls back to all reals", "expr", e.String())
	return DomainResult{Set: symbolic.Reals(), Method: MethodFallback, Detail: detail}
}
