package fnanalyze

import (
	"encoding/json"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// exprJSON is the wire form of an expression: its text, LaTeX and tree.
type exprJSON struct {
	String string                 `json:"string"`
	LaTeX  string                 `json:"latex"`
	Tree   map[string]interface{} `json:"tree"`
}

func newExprJSON(e symbolic.Expr) *exprJSON {
	if e == nil {
		return nil
	}
	return &exprJSON{String: e.String(), LaTeX: e.LaTeX(), Tree: symbolic.JSONValue(e)}
}

func (r InterceptResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		XRoots  symbolic.Set `json:"x_roots"`
		YValue  *exprJSON    `json:"y_value"`
		XMethod string       `json:"x_method"`
		Detail  string       `json:"detail,omitempty"`
	}{r.XRoots, newExprJSON(r.YValue), r.XMethod, r.Detail})
}

func (s State) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (r EvaluationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Point       *exprJSON         `json:"point"`
		Exact       *exprJSON         `json:"exact"`
		Decimal     *float64          `json:"decimal"`
		Steps       []string          `json:"steps"`
		Labeled     map[string]string `json:"labeled"`
		OutOfDomain bool              `json:"out_of_domain"`
		Removable   bool              `json:"removable"`
		Err         string            `json:"error,omitempty"`
		State       State             `json:"state"`
	}{newExprJSON(r.Point), newExprJSON(r.Exact), r.Decimal, r.Steps, r.Labeled,
		r.OutOfDomain, r.Removable, r.Err, r.State})
}

func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text       string            `json:"text"`
		Var        string            `json:"var"`
		Expr       *exprJSON         `json:"expr"`
		Domain     DomainResult      `json:"domain"`
		Range      RangeResult       `json:"range"`
		Intercepts InterceptResult   `json:"intercepts"`
		Evaluation *EvaluationResult `json:"evaluation,omitempty"`
	}{r.Text, r.Var, newExprJSON(r.Expr), r.Domain, r.Range, r.Intercepts, r.Evaluation})
}
