package render

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/symbolic"
)

func TestReportTable(t *testing.T) {
	a := fnanalyze.New()
	r, err := a.Report(context.Background(), "(x^2 - 9)/(x - 3)", "x", symbolic.N(3))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Report(&out, r, Options{}))
	text := out.String()

	assert.Contains(t, text, "f(x) = ")
	assert.Contains(t, text, "ℝ \\ {3}")
	assert.Contains(t, text, "ℝ \\ {6}")
	assert.Contains(t, text, "{-3}")
	assert.Contains(t, text, "continuity")
	assert.Contains(t, text, "Evaluation at 3")
	assert.Contains(t, text, "Result: 6")
	assert.Contains(t, text, "(removable discontinuity)")
}

func TestEvaluationOutcomes(t *testing.T) {
	a := fnanalyze.New()

	var out bytes.Buffer
	require.NoError(t, Evaluation(&out, a.EvaluateText("1/(x-1)", "1", ""), Options{}))
	assert.Contains(t, out.String(), "Result: outside the domain")

	out.Reset()
	require.NoError(t, Evaluation(&out, a.EvaluateText("x +", "1", ""), Options{}))
	assert.Contains(t, out.String(), "Result: error: ")

	out.Reset()
	require.NoError(t, Evaluation(&out, a.EvaluateText("sqrt(x-4)", "9", ""), Options{Digits: 4}))
	assert.Contains(t, out.String(), "Result: sqrt(5) ≈ 2.236")
	assert.Contains(t, out.String(), "Point: (9, 2.236)")
}

func TestEvaluationLaTeXLabels(t *testing.T) {
	a := fnanalyze.New()
	var out bytes.Buffer
	require.NoError(t, Evaluation(&out, a.EvaluateText("sin(x)/x", "0", ""), Options{LaTeX: true}))
	text := out.String()

	original := strings.Index(text, "original")
	limit := strings.Index(text, "limit       ")
	exact := strings.Index(text, "exact       ")
	require.True(t, original >= 0 && limit > original && exact > limit, "labels out of order:\n%s", text)
	assert.Contains(t, text, `\lim_{x \to 0}`)
}

func TestSortedLabels(t *testing.T) {
	got := sortedLabels(map[string]string{
		"zeta":                     "",
		fnanalyze.LabelDecimal:     "",
		fnanalyze.LabelOriginal:    "",
		"alpha":                    "",
		fnanalyze.LabelSubstituted: "",
	})
	want := []string{fnanalyze.LabelOriginal, fnanalyze.LabelSubstituted, fnanalyze.LabelDecimal, "alpha", "zeta"}
	assert.Equal(t, want, got)
}

func TestDecimalLocale(t *testing.T) {
	assert.Contains(t, Decimal(2.5, 3, language.English), "2.5")
	assert.Contains(t, Decimal(2.5, 3, language.German), "2,5")
	assert.Contains(t, Decimal(2.5, 3, language.Und), "2.5")
}

func TestDecimalSignificantDigits(t *testing.T) {
	assert.Equal(t, "2.236", Decimal(math.Sqrt(5), 4, language.English))
	assert.Equal(t, "2,236", Decimal(math.Sqrt(5), 4, language.German))
	assert.Equal(t, "2.24", Decimal(math.Sqrt(5), 3, language.English))
	assert.Equal(t, "6", Decimal(6, 8, language.English))
	assert.Equal(t, "0.001235", Decimal(0.00123456, 4, language.English))
}
