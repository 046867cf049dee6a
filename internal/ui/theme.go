package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name      string
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Border    lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Empty     lipgloss.Style
	Handle    lipgloss.Style
	Selection lipgloss.Style
	// Ink is the text colour drawn on top of activity colours.
	Ink lipgloss.Color
}

var DefaultTheme = Theme{
	Name:      "default",
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	Hint:      lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A")),
	Handle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
	Selection: lipgloss.NewStyle().Underline(true).Bold(true),
	Ink:       lipgloss.Color("#1E1E2E"),
}

var DuskTheme = Theme{
	Name:      "dusk",
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAB387")),
	Label:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#F5C2E7")),
	Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
	Border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("#F5C2E7")),
	Hint:      lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#F5C2E7")),
	Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94E2D5")),
	Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#585B70")),
	Handle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAB387")),
	Selection: lipgloss.NewStyle().Underline(true).Bold(true),
	Ink:       lipgloss.Color("#11111B"),
}

var MonoTheme = Theme{
	Name:      "mono",
	Title:     lipgloss.NewStyle().Bold(true),
	Label:     lipgloss.NewStyle().Faint(true),
	Value:     lipgloss.NewStyle(),
	Border:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	Hint:      lipgloss.NewStyle().Faint(true),
	Error:     lipgloss.NewStyle().Bold(true),
	Success:   lipgloss.NewStyle().Bold(true),
	Empty:     lipgloss.NewStyle().Faint(true),
	Handle:    lipgloss.NewStyle().Bold(true),
	Selection: lipgloss.NewStyle().Underline(true),
	Ink:       lipgloss.Color("0"),
}

// Themes in cycling order.
var Themes = []Theme{DefaultTheme, DuskTheme, MonoTheme}

// ThemeByName returns the named theme, or DefaultTheme.
func ThemeByName(name string) Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return DefaultTheme
}

// nextTheme returns the theme after t in Themes.
func nextTheme(t Theme) Theme {
	i := slices.IndexFunc(Themes, func(x Theme) bool { return x.Name == t.Name })
	return Themes[(i+1)%len(Themes)]
}

// activity renders a run of an activity's colour.
func (t Theme) activity(color string) lipgloss.Style {
	if t.Name == MonoTheme.Name || color == "" {
		return lipgloss.NewStyle().Reverse(true)
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Foreground(t.Ink)
}

// edge renders a rounded segment end in the activity colour.
func (t Theme) edge(color string) lipgloss.Style {
	if t.Name == MonoTheme.Name || color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
