package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestAnalyzeCmd(t *testing.T) {
	out, _, err := run(t, "", "analyze", "(x^2 - 9)/(x - 3)", "--at", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "ℝ \\ {3}")
	assert.Contains(t, out, "ℝ \\ {6}")
	assert.Contains(t, out, "Result: 6")
}

func TestAnalyzeCmdJSON(t *testing.T) {
	out, _, err := run(t, "", "analyze", "x^2 - 4", "--json")
	require.NoError(t, err)

	var got struct {
		Var    string `json:"var"`
		Domain struct {
			Method string `json:"method"`
			Set    struct {
				Text string `json:"text"`
			} `json:"set"`
		} `json:"domain"`
		Intercepts struct {
			XRoots struct {
				Text string `json:"text"`
			} `json:"x_roots"`
		} `json:"intercepts"`
		Evaluation *json.RawMessage `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "x", got.Var)
	assert.Equal(t, "continuity", got.Domain.Method)
	assert.Equal(t, "ℝ", got.Domain.Set.Text)
	assert.Equal(t, "{-2, 2}", got.Intercepts.XRoots.Text)
	assert.Nil(t, got.Evaluation)
}

func TestEvalCmd(t *testing.T) {
	out, _, err := run(t, "", "eval", "sin(x)/x", "--at", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "discontinuity removable")
	assert.Contains(t, out, "Result: 1")

	out, _, err = run(t, "", "eval", "sin(x)/x", "--at", "0", "--no-limit")
	require.NoError(t, err)
	assert.Contains(t, out, "Result: outside the domain")

	out, _, err = run(t, "", "eval", "sqrt(x-4)", "--at", "9", "--digits", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Result: sqrt(5) ≈ 2.24")

	_, _, err = run(t, "", "eval", "x^2")
	assert.Error(t, err)

	_, _, err = run(t, "", "eval", "x^2", "--at", "x")
	assert.Error(t, err)
}

func TestSmallCmds(t *testing.T) {
	out, _, err := run(t, "", "domain", "log(x-1)")
	require.NoError(t, err)
	assert.Equal(t, "(1, ∞) (method: continuity)\n", out)

	out, _, err = run(t, "", "range", "x^2 - 4")
	require.NoError(t, err)
	assert.Equal(t, "[-4, ∞) (method: symbolic)\n", out)

	out, _, err = run(t, "", "intercepts", "x^2 - 4")
	require.NoError(t, err)
	assert.Equal(t, "x-axis: {-2, 2} (method: exact)\ny-axis: -4\n", out)

	out, _, err = run(t, "", "--var", "t", "domain", "1/t")
	require.NoError(t, err)
	assert.Equal(t, "ℝ \\ {0} (method: continuity)\n", out)
}

func TestParseErrorShowsCaret(t *testing.T) {
	_, errOut, err := run(t, "", "domain", "x $ 2")
	require.Error(t, err)
	assert.Contains(t, errOut, "x $ 2\n  ^")
}

func TestBatchCmd(t *testing.T) {
	in := "# demo\nx^2 - 4\n\n(x-1)/(x-1); 1\nx +\n"
	out, _, err := run(t, in, "batch", "-", "--parallel", "2")
	require.NoError(t, err)

	first := strings.Index(out, "f(x) = x^2 - 4")
	second := strings.Index(out, "Evaluation at 1:")
	third := strings.Index(out, "x +: ")
	require.True(t, first >= 0 && second > first && third > second, "unexpected order:\n%s", out)
	assert.Contains(t, out, "(removable discontinuity)")
}

func TestConfigAndFlagErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variable: t\n"), 0o600))

	out, _, err := run(t, "", "--config", path, "intercepts", "t^2 - 1")
	require.NoError(t, err)
	assert.Contains(t, out, "{-1, 1}")

	_, _, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "domain", "x")
	assert.Error(t, err)

	_, _, err = run(t, "", "--log-level", "loud", "domain", "x")
	assert.Error(t, err)

	_, _, err = run(t, "", "--lang", "!!", "domain", "x")
	assert.Error(t, err)
}

func TestExploreNeedsTerminal(t *testing.T) {
	_, _, err := run(t, "", "explore")
	assert.ErrorContains(t, err, "interactive terminal")
}
