package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/dayline/internal/block"
)

// Completer returns completions for the current input value.
type Completer func(value string, limit int) []string

// AutocompleteModel is a text input with a suggestion list.
type AutocompleteModel struct {
	input          textinput.Model
	suggestions    []string
	showing        bool
	selected       int
	complete       Completer
	style          lipgloss.Style
	maxSuggestions int
}

func NewAutocomplete(complete Completer, maxSuggestions int) AutocompleteModel {
	return AutocompleteModel{
		input:          textinput.New(),
		complete:       complete,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// ActivityCompleter completes activity names by case-insensitive prefix.
func ActivityCompleter(cat *block.Catalog) Completer {
	return func(value string, limit int) []string {
		q := strings.ToLower(strings.TrimSpace(value))
		if q == "" {
			return nil
		}
		var out []string
		for _, a := range cat.All() {
			if strings.HasPrefix(strings.ToLower(a.Name), q) && !strings.EqualFold(a.Name, q) {
				out = append(out, a.Name)
				if len(out) == limit {
					break
				}
			}
		}
		return out
	}
}

// LineCompleter completes the activity part of an "HH:MM HH:MM name" line.
func LineCompleter(cat *block.Catalog) Completer {
	names := ActivityCompleter(cat)
	return func(value string, limit int) []string {
		f := strings.Fields(value)
		if len(f) < 3 {
			return nil
		}
		prefix := f[0] + " " + f[1] + " "
		var out []string
		for _, n := range names(strings.Join(f[2:], " "), limit) {
			out = append(out, prefix+n)
		}
		return out
	}
}

// Update handles the autocomplete logic.
func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch k.Type {
	case tea.KeyTab:
		if m.showing && len(m.suggestions) > 0 {
			m.selected = (m.selected + 1) % len(m.suggestions)
			return m, nil
		}
	case tea.KeyShiftTab:
		if m.showing && len(m.suggestions) > 0 {
			m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
			return m, nil
		}
	case tea.KeyEnter:
		if m.showing && len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[m.selected])
			m.input.CursorEnd()
			m.showing = false
			m.selected = 0
			return m, nil
		}
	case tea.KeyEscape:
		if m.showing {
			m.showing = false
			m.selected = 0
			return m, nil
		}
	}
	old := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != old {
		m.refresh()
	}
	return m, cmd
}

// refresh recomputes suggestions synchronously; the catalog is only
// touched from the update loop.
func (m *AutocompleteModel) refresh() {
	m.suggestions = nil
	if m.complete != nil && m.input.Value() != "" {
		m.suggestions = m.complete(m.input.Value(), m.maxSuggestions)
	}
	m.showing = len(m.suggestions) > 0
	m.selected = 0
}

// View renders the input and suggestions.
func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())
	if m.showing && len(m.suggestions) > 0 {
		for i, suggestion := range m.suggestions {
			if i >= m.maxSuggestions {
				break
			}
			content.WriteString("\n")
			if i == m.selected {
				content.WriteString(m.style.Foreground(lipgloss.Color("12")).Render("▶ " + suggestion))
			} else {
				content.WriteString(m.style.Render("  " + suggestion))
			}
		}
	}
	return content.String()
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) SetValue(value string) {
	m.input.SetValue(value)
	m.showing = false
}

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.showing = false
	m.selected = 0
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.showing = false
	m.selected = 0
}

func (m AutocompleteModel) Focused() bool { return m.input.Focused() }

func (m *AutocompleteModel) SetWidth(width int) { m.input.Width = width }

func (m *AutocompleteModel) SetPlaceholder(placeholder string) { m.input.Placeholder = placeholder }

func (m AutocompleteModel) Suggestions() []string { return m.suggestions }

func (m AutocompleteModel) Showing() bool { return m.showing }
