package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/parse"
	"github.com/njchilds90/fnanalyze/symbolic"
)

// ============================================================
// Tool calls
// ============================================================

// ToolRequest names a tool and its parameters. Expressions are given as
// text ("(x^2-9)/(x-3)") or as a JSON expression tree.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall runs one tool against a. It never panics; failures are
// reported in ToolResponse.Error.
func HandleToolCall(ctx context.Context, a *fnanalyze.Analyzer, req ToolRequest) (resp ToolResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = ToolResponse{Error: fmt.Sprintf("internal failure: %v", r)}
		}
	}()

	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return "", nil
		}
		return getString(key)
	}
	varName, err := optString("var")
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}
	if varName == "" {
		varName = a.Config().Variable
	}
	getExpr := func(key string) (symbolic.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case string:
			return parse.Parse(val, varName)
		case float64:
			return parse.Parse(strconv.FormatFloat(val, 'g', -1, 64), varName)
		case map[string]interface{}:
			return symbolic.FromJSON(val)
		}
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	getInt := func(key string, def int) (int, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		f, ok := v.(float64)
		if !ok || f != float64(int(f)) {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int(f), nil
	}
	respond := func(e symbolic.Expr) ToolResponse {
		return ToolResponse{Result: symbolic.JSONValue(e), LaTeX: e.LaTeX(), String: e.String()}
	}
	respondSet := func(s symbolic.Set, result interface{}) ToolResponse {
		return ToolResponse{Result: result, LaTeX: s.LaTeX(), String: s.String()}
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "mcp_spec":
		return ToolResponse{Result: json.RawMessage(ToolSpec())}

	case "parse":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(e)

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.DeepSimplify(e))

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		n, err := getInt("n", 1)
		if err != nil {
			return fail(err)
		}
		if n < 1 {
			return fail(fmt.Errorf("param n must be positive"))
		}
		return respond(symbolic.DeepSimplify(symbolic.DiffN(e, varName, n)))

	case "limit":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		pt, err := getExpr("point")
		if err != nil {
			return fail(err)
		}
		dir := symbolic.BothSides
		side, err := optString("side")
		if err != nil {
			return fail(err)
		}
		switch side {
		case "", "both", "+-":
		case "left", "-":
			dir = symbolic.FromLeft
		case "right", "+":
			dir = symbolic.FromRight
		default:
			return fail(fmt.Errorf("param side must be left, right or both"))
		}
		res := symbolic.LimitDir(e, varName, pt, dir)
		if !res.Success {
			return fail(res.Err())
		}
		return respond(res.Value)

	case "domain":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		r := a.AnalyzeDomain(e, varName)
		return respondSet(r.Set, r)

	case "range":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		var opts []fnanalyze.RangeOption
		if n, err := getInt("samples", 0); err != nil {
			return fail(err)
		} else if n > 0 {
			opts = append(opts, fnanalyze.SamplesPerInterval(n))
		}
		if b, ok := req.Params["sampling_only"].(bool); ok && b {
			opts = append(opts, fnanalyze.SamplingOnly())
		}
		r := a.Range(e, varName, opts...)
		return respondSet(r.Set, r)

	case "intercepts":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		r := a.Intercepts(e, varName)
		return ToolResponse{Result: r, String: r.XRoots.String()}

	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		at, err := getExpr("at")
		if err != nil {
			return fail(err)
		}
		var opts []fnanalyze.EvalOption
		if d, err := getInt("digits", 0); err != nil {
			return fail(err)
		} else if d > 0 {
			opts = append(opts, fnanalyze.Digits(d))
		}
		r := a.Evaluate(e, at, varName, opts...)
		resp := ToolResponse{Result: r, Error: r.Err}
		if r.Exact != nil {
			resp.String, resp.LaTeX = r.Exact.String(), r.Exact.LaTeX()
		}
		return resp

	case "report":
		text, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		var at symbolic.Expr
		if _, ok := req.Params["at"]; ok {
			if at, err = getExpr("at"); err != nil {
				return fail(err)
			}
		}
		r, err := a.Report(ctx, text, varName, at)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: r, String: fnanalyze.Describe(r)}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolSpec returns the JSON schema of every tool for agent registration.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("parse", "Parse text into an expression tree", []string{"expr"}, map[string]string{"expr": "string", "var": "string"}),
		ts("simplify", "Simplify an expression with every rewrite pass", []string{"expr"}, map[string]string{"expr": "string", "var": "string"}),
		ts("diff", "nth derivative (default n=1)", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "n": "integer"}),
		ts("limit", "lim_{var->point} expr; side is left, right or both", []string{"expr", "point"}, map[string]string{"expr": "string", "var": "string", "point": "string", "side": "string"}),
		ts("domain", "Continuity domain over the reals", []string{"expr"}, map[string]string{"expr": "string", "var": "string"}),
		ts("range", "Range estimate, exact when possible, sampled otherwise", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "samples": "integer", "sampling_only": "boolean"}),
		ts("intercepts", "Real zeros and the value at zero", []string{"expr"}, map[string]string{"expr": "string", "var": "string"}),
		ts("evaluate", "Step-by-step evaluation at a point, resolving removable discontinuities", []string{"expr", "at"}, map[string]string{"expr": "string", "var": "string", "at": "string", "digits": "integer"}),
		ts("report", "Domain, range, intercepts and an optional evaluation", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "at": "string"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
