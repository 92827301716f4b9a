package notify

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/buckleypaul/comsetup/internal/ui"
)

const defaultDialogWidth = 60

type dialogKeys struct {
	Dismiss   key.Binding
	Interrupt key.Binding
}

var keys = dialogKeys{
	Dismiss: key.NewBinding(
		key.WithKeys("enter", "esc", " "),
		key.WithHelp("enter", "ok"),
	),
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "abort"),
	),
}

// dialogModel is a single modal message box.
type dialogModel struct {
	title       string
	text        string
	isError     bool
	width       int
	dismissed   bool
	interrupted bool
}

func newDialog(title, text string, isError bool) dialogModel {
	return dialogModel{title: title, text: text, isError: isError, width: defaultDialogWidth}
}

func (m dialogModel) Init() tea.Cmd { return nil }

func (m dialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width-2, defaultDialogWidth)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Interrupt):
			m.interrupted = true
			return m, tea.Quit
		case key.Matches(msg, keys.Dismiss):
			m.dismissed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m dialogModel) View() string {
	if m.dismissed || m.interrupted {
		return ""
	}
	help := ui.StatusKey("enter", "ok")
	return ui.Dialog(m.title, m.text, m.width, m.isError) + "\n" + help + "\n"
}

// Terminal shows dialogs as full-attention prompts in the controlling
// terminal. It needs an interactive TTY on both stdin and stdout.
type Terminal struct {
	in  *os.File
	out *os.File
}

// NewTerminal returns a terminal notifier bound to stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{in: os.Stdin, out: os.Stdout}
}

// Notify implements Notifier.
func (t *Terminal) Notify(title, text string) error {
	return t.show(newDialog(title, text, false))
}

// Error implements Notifier.
func (t *Terminal) Error(title, text string) error {
	return t.show(newDialog(title, text, true))
}

func (t *Terminal) show(m dialogModel) error {
	if !interactive(t.in) || !interactive(t.out) {
		return fmt.Errorf("%w: terminal is not interactive", ErrUnavailable)
	}

	p := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if dm, ok := final.(dialogModel); ok && dm.interrupted {
		return ErrInterrupted
	}
	return nil
}

func interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
