// Package fnanalyze analyzes single-variable real functions: the domain on
// which a function is continuous, an estimate of its range, its axis
// intercepts, and a step-by-step evaluation at a point that resolves
// removable discontinuities through limits.
//
//	a := fnanalyze.New()
//	f := parse.MustParse("(x^2 - 9)/(x - 3)", "x")
//	a.Domain(f, "x")                  // ℝ \ {3}
//	a.Range(f, "x").Set               // ℝ \ {6}
//	a.Evaluate(f, symbolic.N(3), "x") // 6, via the limit
//
// Every operation is synchronous and free of shared mutable state, so the
// four of them may run concurrently over the same expression.
package fnanalyze

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// Analyzer runs the analyses with a fixed configuration. The zero value is
// not usable; call New.
type Analyzer struct {
	cfg              Config
	log              *slog.Logger
	domainStrategies []DomainStrategy
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger that records fallback transitions.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithDomainStrategies replaces the ordered domain strategy list. The
// all-reals last resort always follows the given strategies.
func WithDomainStrategies(s ...DomainStrategy) Option {
	return func(a *Analyzer) {
		a.domainStrategies = append([]DomainStrategy(nil), s...)
	}
}

// New returns an Analyzer with DefaultConfig and no logging.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:              DefaultConfig(),
		log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		domainStrategies: DefaultDomainStrategies(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the configuration in use.
func (a *Analyzer) Config() Config { return a.cfg }

func (a *Analyzer) variable(varName string) string {
	if varName == "" {
		return a.cfg.Variable
	}
	return varName
}

// protect runs fn and turns a panic inside it into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal failure: %v", r)
		}
	}()
	return fn()
}

func exprString(e symbolic.Expr) string {
	if e == nil {
		return "undefined"
	}
	return e.String()
}
