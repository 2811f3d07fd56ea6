// Package tui is the interactive function explorer.
package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/njchilds90/fnanalyze"
	"github.com/njchilds90/fnanalyze/internal/render"
)

// Explorer runs the explorer program on a terminal.
type Explorer struct {
	input  io.Reader
	output io.Writer
}

// NewExplorer creates an Explorer reading keys from input.
func NewExplorer(input io.Reader, output io.Writer) *Explorer {
	return &Explorer{input: input, output: output}
}

// Run blocks until the user quits. initial pre-fills the function field.
func (e *Explorer) Run(a *fnanalyze.Analyzer, opts render.Options, initial string) error {
	model := newExplorerModel(a, opts, initial)

	// Get initial terminal size
	if f, ok := e.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			updated, _ := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
			model = updated.(explorerModel)
		}
	}

	program := tea.NewProgram(model, tea.WithInput(e.input), tea.WithOutput(e.output), tea.WithAltScreen())
	_, err := program.Run()

	return err
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
