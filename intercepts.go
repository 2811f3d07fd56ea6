package fnanalyze

import (
	"github.com/njchilds90/fnanalyze/symbolic"
)

// InterceptResult holds the axis intercepts. YValue is nil when the
// function is undefined or not real at zero.
type InterceptResult struct {
	XRoots  symbolic.Set
	YValue  symbolic.Expr
	XMethod string
	Detail  string
}

// Intercepts finds the real zeros of e and its value at zero. The exact
// solver runs first, then a numeric scan over the configured window; if
// both fail the zero set is empty.
func (a *Analyzer) Intercepts(e symbolic.Expr, varName string) InterceptResult {
	varName = a.variable(varName)
	var r InterceptResult

	err := protect(func() error {
		var err error
		r.XRoots, err = symbolic.SolveReal(e, varName)
		return err
	})
	r.XMethod = MethodExact
	if err != nil {
		a.log.Debug("intercepts fall back to numeric roots", "expr", e.String(), "err", err)
		r.Detail = "exact roots failed: " + err.Error()
		w := a.cfg.RootWindow
		err = protect(func() error {
			var err error
			r.XRoots, err = symbolic.SolveRealNumeric(e, varName, -w, w)
			return err
		})
		r.XMethod = MethodNumeric
		if err != nil {
			a.log.Debug("no x-intercepts determined", "expr", e.String(), "err", err)
			r.Detail += "; numeric roots failed: " + err.Error()
			r.XRoots = symbolic.EmptySet()
			r.XMethod = MethodNone
		}
	}

	_ = protect(func() error {
		v := symbolic.Sub(e, varName, symbolic.N(0))
		if symbolic.IsBad(v) || symbolic.IsReal(v) != symbolic.True {
			return nil
		}
		r.YValue = symbolic.DeepSimplify(v)
		return nil
	})
	return r
}
