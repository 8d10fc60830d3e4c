package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type workDoneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
	err     error
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spinner.View() + " " + MutedStyle.Render(m.label)
}

// WithSpinner runs work while a spinner animates on stderr. When stderr is
// not a terminal, work simply runs inline.
func WithSpinner(label string, work func() error) error {
	if !IsTerminal(os.Stderr) {
		return work()
	}

	p := tea.NewProgram(newSpinnerModel(label),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)

	errc := make(chan error, 1)
	go func() {
		err := work()
		errc <- err
		p.Send(workDoneMsg{err: err})
	}()

	// A spinner failure is cosmetic; the work result is what matters.
	_, _ = p.Run()
	return <-errc
}
