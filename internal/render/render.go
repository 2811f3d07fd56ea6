// Package render formats analysis results for terminals.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/njchilds90/fnanalyze"
)

// Options controls how results are printed.
type Options struct {
	// Color enables lipgloss styling.
	Color bool
	// Lang selects number formatting of decimal values.
	Lang language.Tag
	// Digits is the number of significant digits of decimal values.
	Digits int
	// LaTeX appends the labeled LaTeX forms of an evaluation.
	LaTeX bool
}

// labelOrder is the pipeline order of the evaluation labels.
var labelOrder = []string{
	fnanalyze.LabelOriginal,
	fnanalyze.LabelDomain,
	fnanalyze.LabelSimplified,
	fnanalyze.LabelSubstituted,
	fnanalyze.LabelLimit,
	fnanalyze.LabelExact,
	fnanalyze.LabelDecimal,
}

type styles struct {
	title, label, ok, warn, faint lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		faint: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Report writes the summary table of r, followed by the evaluation if any.
func Report(w io.Writer, r fnanalyze.Report, opts Options) error {
	st := newStyles(opts.Color)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Property", "Value", "Method"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	domain := r.Domain.Set.String()
	if r.Domain.Method == fnanalyze.MethodFallback {
		domain += " (undetermined)"
	}
	table.Append([]string{"Domain", domain, r.Domain.Method})

	rng := r.Range.Set.String()
	if r.Range.Set.IsEmpty() && r.Range.Method == fnanalyze.MethodSampled {
		rng = "unknown"
	}
	table.Append([]string{"Range", rng, r.Range.Method})
	table.Append([]string{"x-intercepts", r.Intercepts.XRoots.String(), r.Intercepts.XMethod})

	y := "none"
	if r.Intercepts.YValue != nil {
		y = r.Intercepts.YValue.String()
	}
	table.Append([]string{"y-intercept", y, ""})
	table.Render()

	if _, err := fmt.Fprintf(w, "%s\n\n%s", st.title.Render(fmt.Sprintf("f(%s) = %s", r.Var, r.Expr)), tableBuffer.String()); err != nil {
		return err
	}
	if r.Evaluation == nil {
		return nil
	}
	_, err := fmt.Fprint(w, "\n")
	if err != nil {
		return err
	}
	return Evaluation(w, *r.Evaluation, opts)
}

// Evaluation writes the numbered steps and the outcome of ev.
func Evaluation(w io.Writer, ev fnanalyze.EvaluationResult, opts Options) error {
	st := newStyles(opts.Color)
	var b strings.Builder

	point := "?"
	if ev.Point != nil {
		point = ev.Point.String()
	}
	b.WriteString(st.title.Render("Evaluation at " + point))
	b.WriteString("\n")
	for _, s := range ev.Steps {
		b.WriteString("  " + st.faint.Render(s) + "\n")
	}
	b.WriteString(st.label.Render("Result: "))
	switch ev.State {
	case fnanalyze.Resolved:
		out := ev.Exact.String()
		if ev.Decimal != nil {
			out += " ≈ " + Decimal(*ev.Decimal, opts.Digits, opts.Lang)
		}
		b.WriteString(st.ok.Render(out))
		if ev.Removable {
			b.WriteString(st.warn.Render(" (removable discontinuity)"))
		}
		if ev.Decimal != nil {
			b.WriteString("\n" + st.label.Render("Point: ") +
				fmt.Sprintf("(%s, %s)", point, Decimal(*ev.Decimal, opts.Digits, opts.Lang)))
		}
	case fnanalyze.OutOfDomain:
		b.WriteString(st.warn.Render("outside the domain"))
	default:
		b.WriteString(st.warn.Render("error: " + ev.Err))
	}
	b.WriteString("\n")
	if opts.LaTeX && len(ev.Labeled) > 0 {
		for _, k := range sortedLabels(ev.Labeled) {
			b.WriteString(st.label.Render(fmt.Sprintf("%-12s", k)) + ev.Labeled[k] + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// sortedLabels returns the keys of labels in pipeline order; unknown keys
// sort last by name.
func sortedLabels(labels map[string]string) []string {
	keys := maps.Keys(labels)
	rank := func(k string) int {
		if i := slices.Index(labelOrder, k); i >= 0 {
			return i
		}
		return len(labelOrder)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return keys
}

// Decimal formats v with the given number of significant digits in the
// conventions of lang.
func Decimal(v float64, digits int, lang language.Tag) string {
	if lang == language.Und {
		lang = language.English
	}
	if digits < 1 {
		digits = 8
	}
	// Round to the significant digits first; the printer then only
	// localizes separators and keeps every remaining fraction digit.
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'g', digits, 64)
	}
	scale := 0
	if _, frac, ok := strings.Cut(strconv.FormatFloat(rounded, 'f', -1, 64), "."); ok {
		scale = len(frac)
	}
	if scale > 20 {
		return strconv.FormatFloat(rounded, 'g', digits, 64)
	}
	p := message.NewPrinter(lang)
	return p.Sprint(number.Decimal(rounded, number.Scale(scale)))
}
