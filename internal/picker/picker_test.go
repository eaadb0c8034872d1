package picker

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func sampleItems() []Item {
	return []Item{
		{ID: "alpha", Label: "alpha", Description: "First"},
		{ID: "beta", Label: "beta", Description: "Second", Selected: true},
		{ID: "broken", Label: "broken", Disabled: true, Note: "(invalid)"},
		{ID: "gamma", Label: "gamma", Description: "Third"},
	}
}

func TestPickerInitialSelection(t *testing.T) {
	m := New("Pick", sampleItems())
	assert.Equal(t, []string{"beta"}, m.Selected())
}

func TestPickerToggleAndNavigate(t *testing.T) {
	m := press(New("Pick", sampleItems()),
		tea.KeyMsg{Type: tea.KeySpace}, // alpha on
		tea.KeyMsg{Type: tea.KeyDown},  // beta
		tea.KeyMsg{Type: tea.KeySpace}, // beta off
		tea.KeyMsg{Type: tea.KeyDown},  // broken
		tea.KeyMsg{Type: tea.KeySpace}, // disabled, ignored
		tea.KeyMsg{Type: tea.KeyDown},  // gamma
		tea.KeyMsg{Type: tea.KeySpace}, // gamma on
		tea.KeyMsg{Type: tea.KeyDown},  // wraps to alpha
		tea.KeyMsg{Type: tea.KeyUp},    // wraps to gamma
	).(Model)

	assert.Equal(t, []string{"alpha", "gamma"}, m.Selected())
	assert.Equal(t, 3, m.cursor)
}

func TestPickerToggleAll(t *testing.T) {
	m := press(New("Pick", sampleItems()), runes("a")).(Model)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, m.Selected(), "disabled items are never selected")

	m = press(m, runes("a")).(Model)
	assert.Empty(t, m.Selected())
}

func TestPickerFilter(t *testing.T) {
	m := press(New("Pick", sampleItems()), runes("/"), runes("t"), runes("h"), runes("i")).(Model)
	require.True(t, m.searching)
	assert.Len(t, m.visible(), 1)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeySpace}).(Model)
	assert.False(t, m.searching)
	assert.Equal(t, []string{"beta", "gamma"}, m.Selected())

	m = press(m, runes("/"), tea.KeyMsg{Type: tea.KeyEsc}).(Model)
	assert.Len(t, m.visible(), 4)
}

func TestPickerQuitAndConfirm(t *testing.T) {
	m := press(New("Pick", sampleItems()), runes("q")).(Model)
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())

	m = press(New("Pick", sampleItems()), tea.KeyMsg{Type: tea.KeyEnter}).(Model)
	assert.False(t, m.IsQuitting())
	assert.True(t, m.done)
}

func TestPickerView(t *testing.T) {
	view := New("Select skills", sampleItems()).View()
	assert.Contains(t, view, "Select skills")
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "(invalid)")
	assert.Contains(t, view, "enter: confirm")
}

func TestPickerScrolls(t *testing.T) {
	var items []Item
	for _, c := range "abcdefghijklmnopqrst" {
		items = append(items, Item{ID: string(c), Label: string(c)})
	}
	m := New("Pick", items)
	for i := 0; i < 15; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown}).(Model)
	}
	assert.Equal(t, 15, m.cursor)
	assert.Equal(t, 15-maxVisibleItems+1, m.offset)
	assert.Contains(t, m.View(), "more above")
}

func TestConfirmModel(t *testing.T) {
	m := press(NewConfirm("Install?", false), runes("y")).(ConfirmModel)
	assert.True(t, m.Value())
	assert.True(t, m.done)

	m = press(NewConfirm("Install?", true), runes("n")).(ConfirmModel)
	assert.False(t, m.Value())

	m = press(NewConfirm("Install?", false), tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}).(ConfirmModel)
	assert.True(t, m.Value())

	m = press(NewConfirm("Install?", false), tea.KeyMsg{Type: tea.KeyCtrlC}).(ConfirmModel)
	assert.True(t, m.IsQuitting())
}

func TestConfirmFrom(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", true, false},
		{"y", false, true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := ConfirmFrom(strings.NewReader(tt.input), &out, "Proceed?", tt.def)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}

	var out bytes.Buffer
	_, _ = ConfirmFrom(strings.NewReader("y\n"), &out, "Proceed?", false)
	assert.Equal(t, "Proceed? [y/N]: ", out.String())

	_, err := ConfirmFrom(strings.NewReader(""), &out, "Proceed?", true)
	assert.True(t, errors.Is(err, skiloerrors.ErrCancelled))
}
