// Package cli provides the fnanalyze command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/internal/render"
	"github.com/njchilds90/fnanalyze/internal/tui"
	"github.com/njchilds90/fnanalyze/parse"
	"github.com/njchilds90/fnanalyze/symbolic"
)

// app holds the persistent flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	varName    string
	logLevel   string
	lang       string
	jsonOut    bool
	noColor    bool

	analyzer *fnanalyze.Analyzer
	log      *slog.Logger
	render   render.Options
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "fnanalyze",
		Short: "Analyze real functions of one variable",
		Long: `fnanalyze computes the continuity domain, the range, the axis intercepts
and a step-by-step evaluation of a real function of one variable.

Functions are written as text:
  x^2 - 4            (x^2 - 9)/(x - 3)      sqrt(9 - x^2)
  log(x - 1)         sin(x)/x               abs(x) + 1/x`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&a.varName, "var", "v", "", "function variable (default from config, x)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&a.lang, "lang", "en", "language tag for decimal formatting")
	flags.BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newAnalyzeCmd(a),
		newEvalCmd(a),
		newDomainCmd(a),
		newRangeCmd(a),
		newInterceptsCmd(a),
		newBatchCmd(a),
		newExploreCmd(a),
		newServeCmd(a),
	)

	return cmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := fnanalyze.DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = fnanalyze.LoadConfig(a.configPath); err != nil {
			return err
		}
	}
	if a.varName != "" {
		cfg.Variable = a.varName
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	tag, err := language.Parse(a.lang)
	if err != nil {
		return fmt.Errorf("invalid --lang %q: %w", a.lang, err)
	}

	a.analyzer = fnanalyze.New(fnanalyze.WithConfig(cfg), fnanalyze.WithLogger(a.log))
	a.render = render.Options{
		Color:  !a.noColor && tui.IsTerminal(cmd.OutOrStdout()),
		Lang:   tag,
		Digits: cfg.Digits,
	}
	a.log.Debug("configured", "variable", cfg.Variable, "config", a.configPath)

	return nil
}

// parseFunc parses the function argument in the configured variable.
func (a *app) parseFunc(text string) (symbolic.Expr, error) {
	return parse.Parse(text, a.analyzer.Config().Variable)
}

// parsePoint parses an evaluation point, which must not contain the variable.
func (a *app) parsePoint(text string) (symbolic.Expr, error) {
	varName := a.analyzer.Config().Variable
	p, err := parse.Parse(text, varName)
	if err != nil {
		return nil, fmt.Errorf("--at: %w", err)
	}
	if symbolic.Has(p, varName) {
		return nil, fmt.Errorf("--at: %q depends on %s", text, varName)
	}

	return p, nil
}

func (a *app) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
