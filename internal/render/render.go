// Package render prints a day outside the TUI, as a text grid or JSON.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/timegrid"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output format for `dayline show`.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat resolves a --format value; "" means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "default":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Config controls rendering.
type Config struct {
	Format    Format
	Width     int
	StartHour int
	Color     bool
	// Minutes adds per-activity minute totals (and, in JSON, the full
	// per-minute projection of every layer).
	Minutes bool
	// SkipEmpty hides hour-rows with nothing on any layer.
	SkipEmpty bool
}

// DefaultConfig returns a text config sized from $COLUMNS.
func DefaultConfig() *Config {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &Config{
		Format: FormatText,
		Width:  width,
		Color:  true,
	}
}

// Total is the number of minutes an activity covers on one layer.
type Total struct {
	Layer      block.Layer `json:"layer"`
	ActivityID string      `json:"activityId"`
	Name       string      `json:"name"`
	Minutes    int         `json:"minutes"`
}

// DayView is everything shown for one date.
type DayView struct {
	Date       string                   `json:"date"`
	Week       string                   `json:"week"`
	StartHour  int                      `json:"startHour"`
	Activities []block.Activity         `json:"activities"`
	Segments   []compose.Segment        `json:"segments"`
	Checklists []block.ChecklistBlock   `json:"checklists"`
	Labels     []block.Label            `json:"labels"`
	Totals     []Total                  `json:"totals,omitempty"`
	Minutes    map[block.Layer][]string `json:"minutes,omitempty"`
}

// BuildDay composes the view of date from the store.
func BuildDay(st *block.Store, cat *block.Catalog, date string, startHour int, minutes bool) DayView {
	startHour = timegrid.NormalizeStartHour(startHour)
	v := DayView{
		Date:       date,
		Week:       timegrid.WeekKey(date),
		StartHour:  startHour,
		Segments:   compose.Compose(compose.StoreSource(st, date, cat.Has), compose.Options{Date: date, StartHour: startHour, Fine: st.Fine}),
		Checklists: st.Checklists(date),
		Labels:     st.Labels(date),
	}
	seen := map[string]bool{}
	for _, s := range v.Segments {
		seen[s.ActivityID] = true
	}
	for _, a := range cat.All() {
		if seen[a.ID] {
			v.Activities = append(v.Activities, a)
		}
	}
	if !minutes {
		return v
	}
	v.Minutes = map[block.Layer][]string{}
	for _, layer := range block.Layers {
		proj := st.ProjectMinutes(date, layer)
		counts := map[string]int{}
		var order []string
		for _, id := range proj {
			if id == "" || !cat.Has(id) {
				continue
			}
			if counts[id] == 0 {
				order = append(order, id)
			}
			counts[id]++
		}
		if len(order) == 0 {
			continue
		}
		v.Minutes[layer] = proj[:]
		for _, id := range order {
			v.Totals = append(v.Totals, Total{Layer: layer, ActivityID: id, Name: nameOf(cat, id), Minutes: counts[id]})
		}
	}
	return v
}

// Renderer handles output formatting.
type Renderer struct {
	config *Config
	styles *Styles
}

// Styles contains lipgloss styles for the text output.
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	Time      lipgloss.Style
	Layer     lipgloss.Style
	Empty     lipgloss.Style
	Fine      lipgloss.Style
	Done      lipgloss.Style
}

func NewRenderer(config *Config) *Renderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Renderer{config: config, styles: initStyles(config.Color)}
}

func initStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title:     plain.Bold(true),
			Separator: plain,
			Meta:      plain,
			Time:      plain,
			Layer:     plain,
			Empty:     plain,
			Fine:      plain,
			Done:      plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		Time:      lipgloss.NewStyle().Faint(true),
		Layer:     lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
		Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A")),
		Fine:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Done:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
	}
}

// RenderDay writes the view in the configured format.
func (r *Renderer) RenderDay(w io.Writer, v DayView) error {
	var out string
	var err error
	switch r.config.Format {
	case FormatJSON:
		out, err = r.renderJSON(v)
	default:
		out = r.renderText(v)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (r *Renderer) renderJSON(v DayView) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (r *Renderer) rule() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(max(r.config.Width, 40), 120))) + "\n"
}

func (r *Renderer) renderText(v DayView) string {
	var b strings.Builder
	acts := map[string]block.Activity{}
	for _, a := range v.Activities {
		acts[a.ID] = a
	}

	b.WriteString(r.styles.Title.Render("Dayline " + v.Date))
	b.WriteString("  ")
	b.WriteString(r.styles.Meta.Render("week " + v.Week))
	b.WriteString("\n")
	b.WriteString(r.rule())
	b.WriteString(r.styles.Meta.Render(fmt.Sprintf("%7s%-6s  %-6s  %-6s  %-6s", "", "exec", "over", "plan", "p.over")))
	b.WriteString("\n")

	byRow := map[int][]compose.Segment{}
	for _, s := range v.Segments {
		byRow[s.Row] = append(byRow[s.Row], s)
	}
	for row := 0; row < timegrid.RowsPerDay; row++ {
		segs := byRow[row]
		if r.config.SkipEmpty && len(segs) == 0 {
			continue
		}
		hour := timegrid.HourOf(row, v.StartHour)
		b.WriteString(r.styles.Time.Render(fmt.Sprintf("%02d:00", hour)))
		b.WriteString("  ")
		for i, layer := range block.Layers {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(r.cells(segs, row, layer, acts))
		}
		b.WriteString("\n")
	}

	if len(v.Segments) > 0 {
		b.WriteString(r.rule())
		for _, s := range v.Segments {
			span := timegrid.FormatHHMM(s.DisplayStart) + "-" + timegrid.FormatHHMM(s.DisplayEnd)
			if s.Fine {
				span = r.styles.Fine.Render(span + "*")
			} else {
				span = r.styles.Time.Render(span)
			}
			fmt.Fprintf(&b, "%s  %s%s  %s\n", span,
				r.styles.Layer.Render(string(s.Layer)), pad(string(s.Layer), 11),
				r.activityStyle(acts[s.ActivityID]).Render(label(acts, s.ActivityID)))
		}
	}

	if len(v.Checklists) > 0 {
		b.WriteString(r.rule())
		b.WriteString(r.styles.Title.Render("Checklists"))
		b.WriteString("\n")
		for _, c := range v.Checklists {
			fmt.Fprintf(&b, "%s  %s\n",
				r.styles.Time.Render(timegrid.FormatHHMM(c.StartMin)+"-"+timegrid.FormatHHMM(c.EndMin)),
				r.styles.Layer.Render(string(c.Layer)))
			for _, it := range c.Items {
				mark := "[ ]"
				if it.Done {
					mark = r.styles.Done.Render("[x]")
				}
				fmt.Fprintf(&b, "  %s %s\n", mark, it.Text)
			}
		}
	}

	if len(v.Labels) > 0 {
		b.WriteString(r.rule())
		for _, l := range v.Labels {
			fmt.Fprintf(&b, "%s  %s\n", r.styles.Time.Render(timegrid.FormatHHMM(l.Minute)), l.Text)
		}
	}

	if len(v.Totals) > 0 {
		b.WriteString(r.rule())
		totals := slices.Clone(v.Totals)
		slices.SortStableFunc(totals, func(a, b Total) int { return b.Minutes - a.Minutes })
		for _, t := range totals {
			fmt.Fprintf(&b, "%-11s  %-20s %s\n", t.Layer, t.Name, FormatDuration(t.Minutes))
		}
	}
	return b.String()
}

// cells draws one layer of a row as six glyphs: the activity initial, or a
// dot when empty.
func (r *Renderer) cells(segs []compose.Segment, row int, layer block.Layer, acts map[string]block.Activity) string {
	var b strings.Builder
	for col := 0; col < timegrid.ColsPerRow; col++ {
		s, ok := compose.Find(segs, layer, row, col)
		if !ok {
			b.WriteString(r.styles.Empty.Render("·"))
			continue
		}
		b.WriteString(r.activityStyle(acts[s.ActivityID]).Render(initial(acts, s.ActivityID)))
	}
	return b.String()
}

func (r *Renderer) activityStyle(a block.Activity) lipgloss.Style {
	if !r.config.Color || a.Color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color))
}

func pad(s string, width int) string {
	return strings.Repeat(" ", max(0, width-len(s)))
}

func label(acts map[string]block.Activity, id string) string {
	if a, ok := acts[id]; ok && a.Name != "" {
		return a.Name
	}
	return id
}

func initial(acts map[string]block.Activity, id string) string {
	name := label(acts, id)
	for _, c := range name {
		return strings.ToUpper(string(c))
	}
	return "?"
}

func nameOf(cat *block.Catalog, id string) string {
	if a, ok := cat.Get(id); ok {
		return a.Name
	}
	return id
}

// FormatDuration prints minutes as "1h20m", "45m" or "2h".
func FormatDuration(m int) string {
	h, mm := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", mm)
	case mm == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, mm)
}
