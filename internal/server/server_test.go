package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/fnanalyze"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Handler(fnanalyze.New(), slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func postTool(t *testing.T, srv *httptest.Server, body string) (int, ToolResponse, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	var tr ToolResponse
	b, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &tr))
	return resp.StatusCode, tr, raw
}

func TestToolDomain(t *testing.T) {
	srv := newTestServer(t)
	status, resp, _ := postTool(t, srv, `{"tool":"domain","params":{"expr":"1/(x-1)"}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "ℝ \\ {1}", resp.String)
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "continuity", result["method"])
}

func TestToolEvaluate(t *testing.T) {
	srv := newTestServer(t)
	_, resp, _ := postTool(t, srv, `{"tool":"evaluate","params":{"expr":"sin(x)/x","at":"0"}}`)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "1", resp.String)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "resolved", result["state"])
	assert.Equal(t, true, result["removable"])

	_, resp, _ = postTool(t, srv, `{"tool":"evaluate","params":{"expr":"1/(x-1)","at":1}}`)
	result = resp.Result.(map[string]interface{})
	assert.Equal(t, "out-of-domain", result["state"])
	assert.Nil(t, result["exact"])
}

func TestToolRangeAndIntercepts(t *testing.T) {
	srv := newTestServer(t)
	_, resp, _ := postTool(t, srv, `{"tool":"range","params":{"expr":"t^2 - 4","var":"t"}}`)
	assert.Equal(t, "[-4, ∞)", resp.String)

	_, resp, _ = postTool(t, srv, `{"tool":"intercepts","params":{"expr":"x^2 - 4"}}`)
	assert.Equal(t, "{-2, 2}", resp.String)
	result := resp.Result.(map[string]interface{})
	y := result["y_value"].(map[string]interface{})
	assert.Equal(t, "-4", y["string"])
}

func TestToolLimitSides(t *testing.T) {
	a := fnanalyze.New()
	ctx := context.Background()
	call := func(side string) ToolResponse {
		return HandleToolCall(ctx, a, ToolRequest{Tool: "limit", Params: map[string]interface{}{
			"expr": "1/x", "point": "0", "side": side,
		}})
	}
	assert.Equal(t, "∞", call("right").String)
	assert.Equal(t, "-∞", call("left").String)
	assert.NotEmpty(t, call("both").Error)
	assert.Contains(t, call("up").Error, "side")
}

func TestToolSimplifyDiffReport(t *testing.T) {
	a := fnanalyze.New()
	ctx := context.Background()

	resp := HandleToolCall(ctx, a, ToolRequest{Tool: "simplify", Params: map[string]interface{}{"expr": "(x^2 - 9)/(x - 3)"}})
	assert.Equal(t, "x + 3", resp.String)

	resp = HandleToolCall(ctx, a, ToolRequest{Tool: "diff", Params: map[string]interface{}{"expr": "x^3", "n": float64(2)}})
	assert.Equal(t, "6*x", resp.String)

	resp = HandleToolCall(ctx, a, ToolRequest{Tool: "report", Params: map[string]interface{}{"expr": "x^2 - 4", "at": "2"}})
	require.Empty(t, resp.Error)
	assert.Contains(t, resp.String, "Intercepts: x-axis: {-2, 2}, y-axis: -4")
}

func TestToolErrors(t *testing.T) {
	a := fnanalyze.New()
	ctx := context.Background()
	cases := []ToolRequest{
		{Tool: "nope"},
		{Tool: "domain"},
		{Tool: "domain", Params: map[string]interface{}{"expr": "x +"}},
		{Tool: "domain", Params: map[string]interface{}{"expr": true}},
		{Tool: "diff", Params: map[string]interface{}{"expr": "x", "n": 1.5}},
		{Tool: "evaluate", Params: map[string]interface{}{"expr": "x"}},
	}
	for _, req := range cases {
		assert.NotEmpty(t, HandleToolCall(ctx, a, req).Error, "%+v", req)
	}
}

func TestHTTPErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tool")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	status, _, raw := postTool(t, srv, `{"tool":"parse","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, raw["error"])

	status, _, raw = postTool(t, srv, `{"tool":"parse"} {}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid JSON: trailing data", raw["error"])
}

func TestSchemaAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&spec))
	var names []string
	for _, tool := range spec.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "evaluate")
	assert.Contains(t, names, "report")

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"status":"ok"`)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", fnanalyze.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()
	cancel()
	assert.NoError(t, <-done)
}
