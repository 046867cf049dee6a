package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/gesture"
	"github.com/ramanasai/dayline/internal/timegrid"
)

func (m Model) View() string {
	c := m.s.ctrl
	g := m.grid()
	st := c.State()
	date := c.Date()

	byRow := map[int][]compose.Segment{}
	for _, s := range c.Segments() {
		byRow[s.Row] = append(byRow[s.Row], s)
	}
	checklists := m.s.st.Store.Checklists(date)
	labels := m.s.st.Store.Labels(date)

	var b strings.Builder
	b.WriteString(m.clip(m.renderTopBar()))
	b.WriteString("\n")
	b.WriteString(m.renderRuler())
	b.WriteString("\n")
	for row := g.offset; row < min(timegrid.RowsPerDay, g.offset+g.visible); row++ {
		hour := timegrid.HourOf(row, g.startHour)
		for slot := 0; slot < rowLines; slot++ {
			layer := c.Surface().Primary()
			if slot == 1 {
				layer = c.Surface().Secondary()
			}
			b.WriteString(m.gutter(hour, slot, labels))
			b.WriteString(m.renderLine(hour, layer, byRow[row], st))
			b.WriteString(m.suffix(hour, slot, layer, checklists, labels))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(s)
}

func (m Model) renderTopBar() string {
	c := m.s.ctrl
	t := m.theme
	date := c.Date()
	day := date
	if d, err := timegrid.ParseDate(date, m.s.loc); err == nil {
		day = d.Format("Mon") + " " + date
	}
	brush := t.Hint.Render("no brush")
	if a, ok := m.s.st.Catalog.Get(c.Brush()); ok {
		brush = t.edge(a.Color).Render("●") + " " + t.Value.Render(a.Name)
	}
	surface := "actual"
	if c.Surface().IsPlan() {
		surface = "plan " + timegrid.WeekKey(date)
	}
	undo, redo := c.History().Len()
	sep := t.Label.Render(" │ ")
	title := t.Title.Render("dayline")
	if m.s.readOnly {
		title += " " + t.Error.Render("read-only")
	}
	return title + sep +
		t.Value.Render(day) + sep +
		t.Label.Render("tool ") + t.Value.Render(c.Tool().String()) + sep +
		t.Label.Render("brush ") + brush + sep +
		t.Value.Render(surface) + sep +
		t.Hint.Render(c.State().Phase.String()) + sep +
		t.Hint.Render(fmt.Sprintf("undo %d redo %d", undo, redo))
}

func (m Model) renderRuler() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for col := 0; col < timegrid.ColsPerRow; col++ {
		fmt.Fprintf(&b, "%-10s", fmt.Sprintf(":%02d", col*timegrid.CellMinutes))
	}
	return m.theme.Label.Render(b.String())
}

func (m Model) gutter(hour, slot int, labels []block.Label) string {
	if slot != 0 {
		return strings.Repeat(" ", gutterWidth)
	}
	mark := " "
	if slices.ContainsFunc(labels, func(l block.Label) bool { return l.Minute/60 == hour }) {
		mark = m.theme.Handle.Render("•")
	}
	return m.theme.Label.Render(fmt.Sprintf("%02d:00", hour)) + mark + " "
}

// renderLine draws one layer of an hour-row, one terminal column per minute.
func (m Model) renderLine(hour int, layer block.Layer, segs []compose.Segment, st gesture.GestureState) string {
	base := hour * 60
	owner := make([]int, rowWidth)
	for i := range owner {
		owner[i] = -1
	}
	var sel []int
	for i, s := range segs {
		if s.Layer != layer {
			continue
		}
		if isSelected(st, s) {
			sel = append(sel, i)
			continue
		}
		m.mark(owner, i, s.DisplayStart-base, s.DisplayEnd-base)
	}
	// the selection is drawn last so a resize preview covers its neighbours
	for _, i := range sel {
		start, end, _ := segmentSpan(segs[i], st)
		m.mark(owner, i, start-base, end-base)
	}

	var b strings.Builder
	for c := 0; c < rowWidth; {
		n := 1
		for c+n < rowWidth && owner[c+n] == owner[c] {
			n++
		}
		if owner[c] < 0 {
			b.WriteString(m.empty(c, n))
		} else {
			b.WriteString(m.segment(segs[owner[c]], n, st))
		}
		c += n
	}
	return b.String()
}

func (m Model) mark(owner []int, idx, from, to int) {
	for c := max(from, 0); c < min(to, len(owner)); c++ {
		owner[c] = idx
	}
}

func (m Model) empty(from, n int) string {
	var b strings.Builder
	for c := from; c < from+n; c++ {
		if c%timegrid.CellMinutes == 0 {
			b.WriteString("╎")
		} else {
			b.WriteString(" ")
		}
	}
	return m.theme.Empty.Render(b.String())
}

func (m Model) segment(s compose.Segment, n int, st gesture.GestureState) string {
	t := m.theme
	a, _ := m.s.st.Catalog.Get(s.ActivityID)
	fill, edge := t.activity(a.Color), t.edge(a.Color)
	selected := isSelected(st, s)
	if _, _, preview := segmentSpan(s, st); preview {
		return edge.Render(strings.Repeat("▓", n))
	}
	if n == 1 {
		return edge.Render("█")
	}

	left, right := fill.Render(" "), fill.Render(" ")
	if s.RoundLeft {
		left = edge.Render("▐")
	}
	if s.RoundRight {
		right = edge.Render("▌")
	}
	if selected && st.Phase == gesture.PhaseResizeArmed {
		left, right = t.Handle.Render("┃"), t.Handle.Render("┃")
	}
	name := []rune(a.Name)
	if len(name) > n-2 {
		name = name[:n-2]
	}
	mid := string(name) + strings.Repeat(" ", n-2-len(name))
	if selected {
		fill = fill.Inherit(t.Selection)
	}
	return left + fill.Render(mid) + right
}

func isSelected(st gesture.GestureState, s compose.Segment) bool {
	sel := st.Selection
	return sel != nil && sel.Layer == s.Layer && sel.Row == s.Row && sel.StartCol == s.StartCol
}

// suffix lists the row's checklists (per layer) and labels after the grid.
func (m Model) suffix(hour, slot int, layer block.Layer, cls []block.ChecklistBlock, labels []block.Label) string {
	var parts []string
	for _, cb := range cls {
		if cb.Layer != layer || cb.StartMin/60 != hour {
			continue
		}
		done := 0
		for _, it := range cb.Items {
			if it.Done {
				done++
			}
		}
		mark := "☐"
		if done == len(cb.Items) && done > 0 {
			mark = "☑"
		}
		parts = append(parts, fmt.Sprintf("%s %s %d/%d", mark, timegrid.FormatHHMM(cb.StartMin), done, len(cb.Items)))
	}
	if slot == 0 {
		for _, l := range labels {
			if l.Minute/60 == hour {
				parts = append(parts, "• "+l.Text)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + m.theme.Hint.Render(strings.Join(parts, "  "))
}

func (m Model) footerHeight() int { return lipgloss.Height(m.footer()) }

func (m Model) footer() string {
	t := m.theme
	var b strings.Builder
	switch m.mode {
	case modeChecklist:
		b.WriteString(m.renderChecklist())
		b.WriteString("\n")
	case modeVoice:
		b.WriteString(t.Label.Render("add ") + m.voice.View())
		b.WriteString("\n")
	case modeActivity:
		b.WriteString(t.Label.Render("brush ") + m.activity.View())
		b.WriteString("\n")
	}

	st := m.s.ctrl.State()
	switch {
	case m.status != "" && m.statusErr:
		b.WriteString(t.Error.Render(m.status))
	case st.Phase == gesture.PhaseFinePending && st.Resize != nil:
		b.WriteString(t.Handle.Render(fmt.Sprintf("fine %s", timegrid.FormatHHMM(st.Resize.FineValue))) +
			t.Hint.Render("  e keep exact · s snap · ←/→ nudge · esc drop"))
	case st.Phase == gesture.PhaseFineAdjust && st.Resize != nil:
		b.WriteString(t.Handle.Render(fmt.Sprintf("fine %s", timegrid.FormatHHMM(st.Resize.FineValue))))
	case st.Selection != nil:
		sel := st.Selection
		a, _ := m.s.st.Catalog.Get(sel.ActivityID)
		b.WriteString(t.Value.Render(fmt.Sprintf("%s %s-%s %s", a.Name,
			timegrid.FormatHHMM(sel.DisplayStart), timegrid.FormatHHMM(sel.DisplayEnd), sel.Layer)))
		if st.Phase == gesture.PhaseSelecting {
			b.WriteString(t.Hint.Render("  a arm resize"))
		}
	case m.status != "":
		b.WriteString(t.Success.Render(m.status))
	}
	b.WriteString("\n")
	if m.mode == modeChecklist {
		b.WriteString(m.help.View(m.clKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderChecklist() string {
	t := m.theme
	cb, ok := m.currentChecklist()
	if !ok {
		return ""
	}
	var b strings.Builder
	title := fmt.Sprintf("Checklist %s-%s %s", timegrid.FormatHHMM(cb.StartMin), timegrid.FormatHHMM(cb.EndMin), cb.Layer)
	if a, ok := m.s.st.Catalog.Get(cb.ActivityID); ok {
		title += " · " + a.Name
	}
	b.WriteString(t.Title.Render(title))
	if len(cb.Items) == 0 {
		b.WriteString("\n" + t.Hint.Render("no items yet"))
	}
	for i, it := range cb.Items {
		cursor := "  "
		if i == m.itemCursor {
			cursor = "▶ "
		}
		box := "[ ]"
		if it.Done {
			box = t.Success.Render("[x]")
		}
		b.WriteString("\n" + cursor + box + " " + it.Text)
	}
	if m.itemInput.Focused() {
		b.WriteString("\n" + m.itemInput.View())
	}
	return t.Border.Render(b.String())
}
