package tui

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/internal/render"
	"github.com/njchilds90/fnanalyze/parse"
	"github.com/njchilds90/fnanalyze/symbolic"
)

// reportMsg carries a finished analysis back to the model.
type reportMsg struct {
	text string
	err  error
}

const (
	focusExpr = iota
	focusPoint
)

// explorerModel reads a function and an optional point and shows the
// report in a scrollable pane.
type explorerModel struct {
	analyzer *fnanalyze.Analyzer
	opts     render.Options
	varName  string

	expr   textinput.Model
	point  textinput.Model
	output viewport.Model
	focus  int

	width   int
	height  int
	running bool
	status  string
}

func newExplorerModel(a *fnanalyze.Analyzer, opts render.Options, initial string) explorerModel {
	expr := textinput.New()
	expr.Prompt = "f(x) = "
	expr.Placeholder = "(x^2 - 9)/(x - 3)"
	expr.SetValue(initial)
	expr.Focus()

	point := textinput.New()
	point.Prompt = "at x = "
	point.Placeholder = "optional"

	return explorerModel{
		analyzer: a,
		opts:     opts,
		varName:  a.Config().Variable,
		expr:     expr,
		point:    point,
		output:   viewport.New(80, 15),
		status:   "enter analyze • tab switch field • ↑/↓ scroll • esc quit",
	}
}

func (m explorerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.output.Width = msg.Width
		m.output.Height = max(msg.Height-6, 3)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "shift+tab":
			m = m.toggleFocus()

			return m, nil
		case "enter":
			if m.running || strings.TrimSpace(m.expr.Value()) == "" {
				return m, nil
			}
			m.running = true
			m.status = "analyzing…"

			return m, m.analyze(m.expr.Value(), m.point.Value())
		case "up", "down", "pgup", "pgdown":
			m.output, cmd = m.output.Update(msg)

			return m, cmd
		}

	case reportMsg:
		m.running = false
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			m.output.SetContent("")

			return m, nil
		}
		m.status = "done"
		m.output.SetContent(msg.text)
		m.output.GotoTop()

		return m, nil
	}

	if m.focus == focusExpr {
		m.expr, cmd = m.expr.Update(msg)
	} else {
		m.point, cmd = m.point.Update(msg)
	}

	return m, cmd
}

func (m explorerModel) toggleFocus() explorerModel {
	if m.focus == focusExpr {
		m.focus = focusPoint
		m.expr.Blur()
		m.point.Focus()
	} else {
		m.focus = focusExpr
		m.point.Blur()
		m.expr.Focus()
	}

	return m
}

// analyze runs the report off the update loop.
func (m explorerModel) analyze(text, at string) tea.Cmd {
	a, opts, varName := m.analyzer, m.opts, m.varName

	return func() tea.Msg {
		var point symbolic.Expr
		if strings.TrimSpace(at) != "" {
			p, err := parse.Parse(at, varName)
			if err != nil {
				return reportMsg{err: err}
			}
			point = p
		}
		r, err := a.Report(context.Background(), text, varName, point)
		if err != nil {
			return reportMsg{err: err}
		}
		var buf bytes.Buffer
		if err := render.Report(&buf, r, opts); err != nil {
			return reportMsg{err: err}
		}

		return reportMsg{text: buf.String()}
	}
}

func (m explorerModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(0, 0, 1, 1)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Padding(0, 0, 0, 1)

	inputs := lipgloss.NewStyle().Padding(0, 0, 0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.expr.View(), m.point.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Function explorer"),
		inputs,
		m.output.View(),
		footerStyle.Render(m.status),
	)
}
