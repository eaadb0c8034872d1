package picker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

// ConfirmModel is a yes/no prompt
type ConfirmModel struct {
	prompt   string
	value    bool
	done     bool
	quitting bool
}

// NewConfirm creates a prompt with def preselected
func NewConfirm(prompt string, def bool) ConfirmModel {
	return ConfirmModel{prompt: prompt, value: def}
}

// Value is the current answer
func (m ConfirmModel) Value() bool { return m.value }

// IsQuitting returns true if the user quit without answering
func (m ConfirmModel) IsQuitting() bool { return m.quitting }

// Init implements tea.Model
func (m ConfirmModel) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Yes):
		m.value, m.done = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.No):
		m.value, m.done = false, true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.Toggle):
		m.value = !m.value
	case key.Matches(keyMsg, confirmKeys.Confirm):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m ConfirmModel) View() string {
	if m.done || m.quitting {
		return ""
	}

	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Underline(true)
	inactive := lipgloss.NewStyle().Faint(true)

	yes, no := inactive.Render("Yes"), inactive.Render("No")
	if m.value {
		yes = active.Render("Yes")
	} else {
		no = active.Render("No")
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Render(m.prompt)
	return fmt.Sprintf("%s  %s / %s\n", title, yes, no)
}

type confirmKeyMap struct {
	Yes     key.Binding
	No      key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes:     key.NewBinding(key.WithKeys("y", "Y")),
	No:      key.NewBinding(key.WithKeys("n", "N")),
	Toggle:  key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Confirm asks a yes/no question. On a terminal the Bubble Tea prompt is
// used; otherwise a line is read from stdin. Quitting or end of input
// returns ErrCancelled.
func Confirm(prompt string, def bool) (bool, error) {
	if !Interactive() {
		return ConfirmFrom(os.Stdin, os.Stdout, prompt, def)
	}

	finalModel, err := tea.NewProgram(NewConfirm(prompt, def)).Run()
	if err != nil {
		return false, err
	}
	fm := finalModel.(ConfirmModel)
	if fm.IsQuitting() {
		return false, skiloerrors.ErrCancelled
	}
	// the prompt clears itself; echo the answer
	answer := "no"
	if fm.Value() {
		answer = "yes"
	}
	fmt.Printf("%s %s\n", prompt, answer)
	return fm.Value(), nil
}

// ConfirmFrom reads a y/n answer from r. An empty line selects def.
func ConfirmFrom(r io.Reader, w io.Writer, prompt string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(w, "%s %s: ", prompt, hint)

	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return false, skiloerrors.ErrCancelled
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
