package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/internal/render"
)

func newTestModel(initial string) explorerModel {
	return newExplorerModel(fnanalyze.New(), render.Options{}, initial)
}

func TestExplorerModel_View(t *testing.T) {
	m := newTestModel("x^2")
	view := m.View()
	if !strings.Contains(view, "Function explorer") {
		t.Fatalf("View() missing title\n%s", view)
	}
	if !strings.Contains(view, "f(x) = ") {
		t.Fatalf("View() missing function prompt\n%s", view)
	}
}

func TestExplorerModel_AnalyzeRoundTrip(t *testing.T) {
	m := newTestModel("(x^2 - 9)/(x - 3)")
	m.point.SetValue("3")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(explorerModel)
	if cmd == nil || !m.running {
		t.Fatalf("enter should start an analysis")
	}

	msg := cmd()
	rm, ok := msg.(reportMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want reportMsg", msg)
	}
	if rm.err != nil {
		t.Fatalf("analysis failed: %v", rm.err)
	}
	if !strings.Contains(rm.text, "ℝ \\ {3}") || !strings.Contains(rm.text, "Result: 6") {
		t.Fatalf("report text missing domain or result\n%s", rm.text)
	}

	updated, _ = m.Update(rm)
	m = updated.(explorerModel)
	if m.running || m.status != "done" {
		t.Fatalf("running = %v, status = %q", m.running, m.status)
	}
}

func TestExplorerModel_ParseErrorShown(t *testing.T) {
	m := newTestModel("x +")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(explorerModel)

	updated, _ = m.Update(cmd())
	m = updated.(explorerModel)
	if !strings.HasPrefix(m.status, "error: ") {
		t.Fatalf("status = %q, want error", m.status)
	}

	updated, _ = m.Update(reportMsg{err: errors.New("boom")})
	m = updated.(explorerModel)
	if m.status != "error: boom" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestExplorerModel_EmptyInputIgnored(t *testing.T) {
	m := newTestModel("")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("enter on empty input should do nothing")
	}
}

func TestExplorerModel_FocusAndQuit(t *testing.T) {
	m := newTestModel("x")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(explorerModel)
	if m.focus != focusPoint || !m.point.Focused() || m.expr.Focused() {
		t.Fatalf("tab should move focus to the point field")
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(explorerModel)
	if m.output.Width != 100 || m.output.Height != 34 {
		t.Fatalf("viewport = %dx%d, want 100x34", m.output.Width, m.output.Height)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("esc should return tea.Quit")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("a buffer is not a terminal")
	}
}
