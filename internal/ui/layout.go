package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/gesture"
	"github.com/ramanasai/dayline/internal/timegrid"
)

// Screen geometry. Every hour-row takes two lines (primary slot on top,
// secondary below) and one terminal column per minute.
const (
	gutterWidth = 7 // "HH:00  "
	headerLines = 2
	rowLines    = 2
	rowWidth    = 60

	// Pseudo-pixel size of a terminal cell, so the controller's move
	// threshold keeps its meaning.
	pxPerCol  = 8.0
	pxPerLine = 16.0

	mousePointer = 1
)

// grid maps terminal coordinates to positions on the day line.
type grid struct {
	startHour int
	offset    int // first visible row
	visible   int // visible row count
}

// hit is the grid position under a terminal cell.
type hit struct {
	row, slot, char int
	minute          int
	ok              bool
}

func (g grid) locate(x, y int) hit {
	ly := y - headerLines
	cx := x - gutterWidth
	if ly < 0 || cx < 0 || cx >= rowWidth {
		return hit{}
	}
	row := g.offset + ly/rowLines
	if row >= timegrid.RowsPerDay || row >= g.offset+g.visible {
		return hit{}
	}
	hour := timegrid.HourOf(row, g.startHour)
	return hit{row: row, slot: ly % rowLines, char: cx, minute: hour*60 + cx, ok: true}
}

// lineOf returns the screen line of a row's slot, or -1 when scrolled away.
func (g grid) lineOf(row, slot int) int {
	if row < g.offset || row >= g.offset+g.visible {
		return -1
	}
	return headerLines + (row-g.offset)*rowLines + slot
}

// pointerEvent converts a terminal mouse message into a controller event.
// Release and motion events outside the grid still reach the controller
// with a negative minute so drags never get stuck.
func (g grid) pointerEvent(msg tea.MouseMsg, st gesture.GestureState) (gesture.PointerEvent, bool) {
	ev := gesture.PointerEvent{
		PointerID:  mousePointer,
		X:          float64(msg.X) * pxPerCol,
		Y:          float64(msg.Y) * pxPerLine,
		Minute:     -1,
		CellHeight: rowLines * pxPerLine,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return ev, false
		}
		ev.Kind = gesture.PointerDown
		ev.Primary = true
	case tea.MouseActionMotion:
		ev.Kind = gesture.PointerMove
		ev.Primary = msg.Button == tea.MouseButtonLeft
	case tea.MouseActionRelease:
		ev.Kind = gesture.PointerUp
	default:
		return ev, false
	}
	h := g.locate(msg.X, msg.Y)
	if !h.ok {
		return ev, true
	}
	ev.Minute = float64(h.minute)
	ev.RelY = float64(h.slot)*pxPerLine + pxPerLine/2
	ev.OverlayRegion = h.slot == 1
	if ev.Kind == gesture.PointerDown {
		ev.Handle = handleAt(st, h)
	}
	return ev, true
}

// handleAt reports which handle of an armed selection sits under h: the
// first or last minute of the segment, give or take one column.
func handleAt(st gesture.GestureState, h hit) gesture.Handle {
	if st.Phase != gesture.PhaseResizeArmed || st.Selection == nil || st.Selection.Row != h.row {
		return gesture.HandleNone
	}
	sel := st.Selection
	ds := abs(h.minute - sel.DisplayStart)
	de := abs(h.minute - (sel.DisplayEnd - 1))
	switch {
	case ds <= 1 && ds <= de:
		return gesture.HandleStart
	case de <= 1:
		return gesture.HandleEnd
	}
	return gesture.HandleNone
}

// segmentSpan returns the drawn minute span of a segment, using the live
// resize preview when seg is being resized.
func segmentSpan(seg compose.Segment, st gesture.GestureState) (start, end int, preview bool) {
	start, end = seg.DisplayStart, seg.DisplayEnd
	sel, r := st.Selection, st.Resize
	if sel == nil || r == nil || sel.Layer != seg.Layer || sel.Row != seg.Row || sel.StartCol != seg.StartCol {
		return start, end, false
	}
	start, end = r.PreviewStart, r.PreviewEnd
	if st.Phase == gesture.PhaseFineAdjust || st.Phase == gesture.PhaseFinePending {
		switch r.Handle {
		case gesture.HandleStart:
			start = r.FineValue
		case gesture.HandleEnd:
			end = r.FineValue
		}
	}
	return start, end, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
