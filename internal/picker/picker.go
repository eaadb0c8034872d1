// Package picker holds the interactive prompts used by add, new and remove.
package picker

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

// maxVisibleItems is the number of rows shown before scrolling
const maxVisibleItems = 12

// Item represents a selectable item
type Item struct {
	ID          string
	Label       string
	Description string
	Selected    bool
	// Disabled items are shown but cannot be selected
	Disabled bool
	Note     string
}

// Model is the Bubble Tea model for the multi-select picker
type Model struct {
	title       string
	items       []Item
	cursor      int
	offset      int
	selected    map[string]bool
	done        bool
	quitting    bool
	searchInput textinput.Model
	searching   bool
}

// New creates a new picker model
func New(title string, items []Item) Model {
	selected := make(map[string]bool)
	for _, item := range items {
		if item.Selected && !item.Disabled {
			selected[item.ID] = true
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 50
	ti.Width = 40

	return Model{
		title:       title,
		items:       items,
		selected:    selected,
		searchInput: ti,
	}
}

// Selected returns the IDs of selected items in list order
func (m Model) Selected() []string {
	var result []string
	for _, item := range m.items {
		if m.selected[item.ID] {
			result = append(result, item.ID)
		}
	}
	return result
}

// IsQuitting returns true if the user quit without confirming
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) visible() []Item {
	query := strings.ToLower(m.searchInput.Value())
	if query == "" {
		return m.items
	}
	var filtered []Item
	for _, item := range m.items {
		if strings.Contains(strings.ToLower(item.Label), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (m *Model) adjustScroll() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisibleItems {
		m.offset = m.cursor - maxVisibleItems + 1
	}
	if maxOffset := n - maxVisibleItems; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		switch keyMsg.String() {
		case "esc":
			m.searching = false
			m.searchInput.SetValue("")
			m.searchInput.Blur()
		case "enter":
			m.searching = false
			m.searchInput.Blur()
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(keyMsg)
			m.cursor, m.offset = 0, 0
			return m, cmd
		}
		m.cursor, m.offset = 0, 0
		return m, nil
	}

	items := m.visible()
	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(items) - 1
		}
		m.adjustScroll()

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
		m.adjustScroll()

	case key.Matches(keyMsg, keys.Toggle):
		if m.cursor < len(items) && !items[m.cursor].Disabled {
			id := items[m.cursor].ID
			m.selected[id] = !m.selected[id]
		}

	case key.Matches(keyMsg, keys.All):
		allSelected := true
		for _, item := range items {
			if !item.Disabled && !m.selected[item.ID] {
				allSelected = false
				break
			}
		}
		for _, item := range items {
			if !item.Disabled {
				m.selected[item.ID] = !allSelected
			}
		}

	case key.Matches(keyMsg, keys.Confirm):
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	faint := lipgloss.NewStyle().Faint(true)
	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if m.searching {
		b.WriteString("\n/ " + m.searchInput.View() + "\n")
	} else if m.searchInput.Value() != "" {
		b.WriteString("\n" + faint.Render("Filter: "+m.searchInput.Value()+" (press / to edit, esc to clear)") + "\n")
	}
	b.WriteString("\n")

	items := m.visible()
	if len(items) == 0 {
		b.WriteString(faint.Render("  (no matching skills)") + "\n")
	}

	if m.offset > 0 {
		b.WriteString(faint.Render(fmt.Sprintf("  ↑ %d more above", m.offset)) + "\n")
	}
	end := min(m.offset+maxVisibleItems, len(items))
	for i := m.offset; i < end; i++ {
		item := items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		checked := "[ ]"
		switch {
		case item.Disabled:
			checked = faint.Render("[-]")
		case m.selected[item.ID]:
			checked = selectedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s%s %s", cursor, checked, item.Label)
		if item.Description != "" {
			line += "  " + faint.Render(item.Description)
		}
		if item.Note != "" {
			line += " " + noteStyle.Render(item.Note)
		}
		b.WriteString(line + "\n")
	}
	if remaining := len(items) - end; remaining > 0 {
		b.WriteString(faint.Render(fmt.Sprintf("  ↓ %d more below", remaining)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(faint.Render("space: toggle • a: all/none • /: filter • enter: confirm • q: quit"))

	return b.String()
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Search  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Toggle:  key.NewBinding(key.WithKeys(" ")),
	All:     key.NewBinding(key.WithKeys("a")),
	Search:  key.NewBinding(key.WithKeys("/")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Interactive reports whether prompts can be shown: stdin and stdout must
// both be terminals
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run shows the picker and returns the selected IDs. Quitting returns
// ErrCancelled.
func Run(title string, items []Item) ([]string, error) {
	p := tea.NewProgram(New(title, items))

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm := finalModel.(Model)
	if fm.IsQuitting() {
		return nil, skiloerrors.ErrCancelled
	}
	return fm.Selected(), nil
}
