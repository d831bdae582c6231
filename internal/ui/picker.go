// Package ui implements the interactive history picker TUI.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sablewood/driftplay/internal/history"
)

var _ list.Item = historyItem{}

// historyItem wraps [history.Entry] to implement [list.Item].
type historyItem struct {
	entry history.Entry
}

func (i historyItem) FilterValue() string { return i.entry.Title }

func (i historyItem) Title() string {
	if i.entry.Title != "" {
		return i.entry.Title
	}
	return i.entry.URL
}

func (i historyItem) Description() string {
	desc := i.entry.URL
	if age := relativeAge(i.entry.Timestamp); age != "" {
		desc = fmt.Sprintf("%s • %s", desc, age)
	}
	return desc
}

// relativeAge renders a timestamp as a coarse "n units ago" string.
func relativeAge(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}

	age := time.Since(ts)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

// keyMap defines the key bindings for the picker.
type keyMap struct {
	enter key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel is a bubbletea model that lets the user choose a previously
// played track from the history.
type PickerModel struct {
	list   list.Model
	help   help.Model
	keys   keyMap
	choice *history.Entry
	width  int
	height int
}

// NewPicker creates a picker over the given history entries, most recent first.
func NewPicker(entries []history.Entry) *PickerModel {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Play History"

	return &PickerModel{
		list: l,
		help: help.New(),
		keys: newKeyMap(),
	}
}

// Choice returns the selected entry, or nil when the picker was dismissed.
func (m *PickerModel) Choice() *history.Entry {
	return m.choice
}

// Init implements [tea.Model].
func (m *PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the picker state.
func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if selected := m.list.SelectedItem(); selected != nil {
				if item, ok := selected.(historyItem); ok {
					entry := item.entry
					m.choice = &entry
					return m, tea.Quit
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m *PickerModel) View() string {
	if len(m.list.Items()) == 0 {
		return styles.warn.Render("Play history is empty.\n\nPress q to quit")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}
