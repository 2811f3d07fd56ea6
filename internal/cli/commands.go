package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/internal/render"
	"github.com/njchilds90/fnanalyze/internal/server"
	"github.com/njchilds90/fnanalyze/internal/tui"
	"github.com/njchilds90/fnanalyze/parse"
	"github.com/njchilds90/fnanalyze/symbolic"
)

// explainParseError prints the caret diagram of a parse error to stderr.
func explainParseError(cmd *cobra.Command, err error) error {
	var perr *parse.Error
	if errors.As(err, &perr) {
		cmd.PrintErrln(perr.Caret())
	}

	return err
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "analyze FUNCTION",
		Short: "Domain, range, intercepts and an optional evaluation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := joinArgs(args)
			var point symbolic.Expr
			if at != "" {
				p, err := a.parsePoint(at)
				if err != nil {
					return explainParseError(cmd, err)
				}
				point = p
			}
			r, err := a.analyzer.Report(cmd.Context(), text, "", point)
			if err != nil {
				return explainParseError(cmd, err)
			}
			if a.jsonOut {
				return a.writeJSON(cmd.OutOrStdout(), r)
			}

			return render.Report(cmd.OutOrStdout(), r, a.render)
		},
	}
	cmd.Flags().StringVarP(&at, "at", "a", "", "also evaluate at this point")

	return cmd
}

func newEvalCmd(a *app) *cobra.Command {
	var (
		at            string
		digits        int
		noLimit       bool
		noSimplify    bool
		allowNonReals bool
		latex         bool
	)
	cmd := &cobra.Command{
		Use:   "eval FUNCTION --at POINT",
		Short: "Evaluate step by step at a point",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.parseFunc(joinArgs(args))
			if err != nil {
				return explainParseError(cmd, err)
			}
			p, err := a.parsePoint(at)
			if err != nil {
				return explainParseError(cmd, err)
			}
			opts := []fnanalyze.EvalOption{
				fnanalyze.UseLimit(!noLimit),
				fnanalyze.SimplifyFirst(!noSimplify),
				fnanalyze.RealOnly(!allowNonReals),
			}
			ropts := a.render
			ropts.LaTeX = latex
			if digits > 0 {
				opts = append(opts, fnanalyze.Digits(digits))
				ropts.Digits = digits
			}
			r := a.analyzer.Evaluate(f, p, "", opts...)
			if a.jsonOut {
				return a.writeJSON(cmd.OutOrStdout(), r)
			}

			return render.Evaluation(cmd.OutOrStdout(), r, ropts)
		},
	}
	cmd.Flags().StringVarP(&at, "at", "a", "", "evaluation point (required)")
	cmd.Flags().IntVar(&digits, "digits", 0, "significant digits of the decimal value (default from config)")
	cmd.Flags().BoolVar(&noLimit, "no-limit", false, "do not resolve undefined points through limits")
	cmd.Flags().BoolVar(&noSimplify, "no-simplify", false, "substitute into the expression as written")
	cmd.Flags().BoolVar(&allowNonReals, "allow-non-real", false, "accept non-real values")
	cmd.Flags().BoolVar(&latex, "latex", false, "also print the LaTeX form of every step")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func newDomainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "domain FUNCTION",
		Short: "Continuity domain over the reals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.parseFunc(joinArgs(args))
			if err != nil {
				return explainParseError(cmd, err)
			}
			r := a.analyzer.AnalyzeDomain(f, "")
			if a.jsonOut {
				return a.writeJSON(cmd.OutOrStdout(), r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (method: %s)\n", r.Set, r.Method)

			return nil
		},
	}
}

func newRangeCmd(a *app) *cobra.Command {
	var (
		samples      int
		samplingOnly bool
	)
	cmd := &cobra.Command{
		Use:   "range FUNCTION",
		Short: "Range, exact when possible and sampled otherwise",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.parseFunc(joinArgs(args))
			if err != nil {
				return explainParseError(cmd, err)
			}
			var opts []fnanalyze.RangeOption
			if samples > 0 {
				opts = append(opts, fnanalyze.SamplesPerInterval(samples))
			}
			if samplingOnly {
				opts = append(opts, fnanalyze.SamplingOnly())
			}
			r := a.analyzer.Range(f, "", opts...)
			if a.jsonOut {
				return a.writeJSON(cmd.OutOrStdout(), r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (method: %s)\n", r.Set, r.Method)
			if r.Detail != "" {
				a.log.Info("range detail", "detail", r.Detail)
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&samples, "samples", 0, "samples per interval (default from config)")
	cmd.Flags().BoolVar(&samplingOnly, "sampling-only", false, "skip the exact range computation")

	return cmd
}

func newInterceptsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "intercepts FUNCTION",
		Short: "Real zeros and the value at zero",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.parseFunc(joinArgs(args))
			if err != nil {
				return explainParseError(cmd, err)
			}
			r := a.analyzer.Intercepts(f, "")
			if a.jsonOut {
				return a.writeJSON(cmd.OutOrStdout(), r)
			}
			y := "none"
			if r.YValue != nil {
				y = r.YValue.String()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "x-axis: %s (method: %s)\ny-axis: %s\n", r.XRoots, r.XMethod, y)

			return nil
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Analyze one function per line of FILE (- for stdin)",
		Long: `Analyze one function per line. A line may carry an evaluation point after
a semicolon, as in "(x^2 - 9)/(x - 3); 3". Blank lines and lines starting
with # are skipped. Reports are printed in input order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(cmd, args[0])
			if err != nil {
				return err
			}
			outputs := make([]string, len(lines))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(parallel, 1))
			for i, line := range lines {
				i, line := i, line
				g.Go(func() error {
					text, at, _ := strings.Cut(line, ";")
					var point symbolic.Expr
					if at = strings.TrimSpace(at); at != "" {
						p, err := a.parsePoint(at)
						if err != nil {
							outputs[i] = fmt.Sprintf("%s: %v\n", line, err)
							return nil
						}
						point = p
					}
					r, err := a.analyzer.Report(ctx, strings.TrimSpace(text), "", point)
					if err != nil {
						if ctx.Err() != nil {
							return err
						}
						outputs[i] = fmt.Sprintf("%s: %v\n", line, err)
						return nil
					}
					outputs[i] = fnanalyze.Describe(r)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, out := range outputs {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprint(w, out)
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "number of functions analyzed at once")

	return cmd
}

func readLines(cmd *cobra.Command, path string) ([]string, error) {
	in := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	var lines []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, sc.Err()
}

func newExploreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore [FUNCTION]",
		Short: "Interactive explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsTerminal(cmd.OutOrStdout()) {
				return errors.New("explore needs an interactive terminal")
			}

			return tui.NewExplorer(cmd.InOrStdin(), cmd.OutOrStdout()).Run(a.analyzer, a.render, joinArgs(args))
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyses as JSON tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Serve(ctx, host+":"+strconv.Itoa(port), a.analyzer, a.log)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "interface to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")

	return cmd
}
