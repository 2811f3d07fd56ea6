package fnanalyze

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/fnanalyze/parse"
	"github.com/njchilds90/fnanalyze/symbolic"
)

// Report is the full analysis of one function.
type Report struct {
	Text       string
	Var        string
	Expr       symbolic.Expr
	Domain     DomainResult
	Range      RangeResult
	Intercepts InterceptResult
	Evaluation *EvaluationResult
}

// Report parses text and runs every analysis on it. The domain is computed
// once and shared; range, intercepts and the optional evaluation at at then
// run concurrently. A nil at skips the evaluation.
func (a *Analyzer) Report(ctx context.Context, text, varName string, at symbolic.Expr) (Report, error) {
	varName = a.variable(varName)
	e, err := parse.Parse(text, varName)
	if err != nil {
		return Report{}, err
	}
	r := Report{Text: text, Var: varName, Expr: e}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.Domain = a.AnalyzeDomain(e, varName)
	a.log.Info("domain", "expr", e.String(), "set", r.Domain.Set.String(), "method", r.Domain.Method)

	var rangeOpts []RangeOption
	var evalOpts []EvalOption
	if r.Domain.Method != MethodFallback {
		rangeOpts = append(rangeOpts, RangeDomain(r.Domain.Set))
		evalOpts = append(evalOpts, KnownDomain(r.Domain.Set))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Range = a.Range(e, varName, rangeOpts...)
		a.log.Info("range", "expr", e.String(), "set", r.Range.Set.String(), "method", r.Range.Method)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Intercepts = a.Intercepts(e, varName)
		return nil
	})
	if at != nil {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ev := a.Evaluate(e, at, varName, evalOpts...)
			r.Evaluation = &ev
			a.log.Info("evaluate", "expr", e.String(), "at", at.String(), "state", ev.State.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Describe renders a report as plain text, one fact per line.
func Describe(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "f(%s) = %s\n", r.Var, exprString(r.Expr))
	if r.Domain.Method == MethodFallback {
		fmt.Fprintf(&b, "Domain: %s (could not be determined)\n", r.Domain.Set)
	} else {
		fmt.Fprintf(&b, "Domain: %s\n", r.Domain.Set)
	}
	if r.Range.Set.IsEmpty() && r.Range.Method == MethodSampled && r.Range.Detail != "" {
		fmt.Fprintf(&b, "Range: could not be estimated (method: %s)\n", r.Range.Method)
	} else {
		fmt.Fprintf(&b, "Range: %s (method: %s)\n", r.Range.Set, r.Range.Method)
	}
	fmt.Fprintf(&b, "Intercepts: x-axis: %s, y-axis: %s\n", r.Intercepts.XRoots, yText(r.Intercepts.YValue))
	if ev := r.Evaluation; ev != nil {
		b.WriteString(DescribeEvaluation(*ev))
	}
	return b.String()
}

// DescribeEvaluation renders the steps and outcome of an evaluation.
func DescribeEvaluation(ev EvaluationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation at %s:\n", exprString(ev.Point))
	for _, s := range ev.Steps {
		fmt.Fprintf(&b, "  %s\n", s)
	}
	switch ev.State {
	case Resolved:
		fmt.Fprintf(&b, "Result: %s", ev.Exact)
		if ev.Decimal != nil {
			fmt.Fprintf(&b, " ≈ %s", ev.Labeled[LabelDecimal])
		}
		if ev.Removable {
			b.WriteString(" (removable discontinuity)")
		}
		b.WriteString("\n")
	case OutOfDomain:
		b.WriteString("Result: outside the domain\n")
	default:
		fmt.Fprintf(&b, "Result: error: %s\n", ev.Err)
	}
	return b.String()
}

func yText(y symbolic.Expr) string {
	if y == nil {
		return "none"
	}
	return y.String()
}
