package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/gesture"
)

func TestGridLocate(t *testing.T) {
	g := grid{startHour: 6, offset: 2, visible: 4}

	h := g.locate(gutterWidth+15, headerLines+1)
	require.True(t, h.ok)
	assert.Equal(t, 2, h.row)
	assert.Equal(t, 1, h.slot)
	assert.Equal(t, 8*60+15, h.minute, "row 2 with start hour 6 is 08:00")

	assert.False(t, g.locate(gutterWidth-1, headerLines).ok, "gutter")
	assert.False(t, g.locate(gutterWidth+rowWidth, headerLines).ok, "right of the grid")
	assert.False(t, g.locate(gutterWidth, 0).ok, "header")
	assert.False(t, g.locate(gutterWidth, headerLines+4*rowLines).ok, "scrolled out")

	assert.Equal(t, headerLines+3, g.lineOf(3, 1))
	assert.Equal(t, -1, g.lineOf(1, 0))
}

func TestPointerEventMapping(t *testing.T) {
	g := grid{visible: 24}
	st := gesture.GestureState{}

	ev, ok := g.pointerEvent(tea.MouseMsg{X: gutterWidth + 5, Y: headerLines + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, st)
	require.True(t, ok)
	assert.Equal(t, gesture.PointerDown, ev.Kind)
	assert.True(t, ev.Primary)
	assert.Equal(t, 5.0, ev.Minute)
	assert.True(t, ev.OverlayRegion)
	assert.Equal(t, gesture.IntentSecondary, gesture.LayerIntentFor(ev.RelY, ev.CellHeight))

	_, ok = g.pointerEvent(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, st)
	assert.False(t, ok, "only the primary button starts gestures")

	ev, ok = g.pointerEvent(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}, st)
	require.True(t, ok)
	assert.Equal(t, gesture.PointerMove, ev.Kind)
	assert.False(t, ev.Primary)
	assert.False(t, ev.InGrid())
}

func TestHandleAt(t *testing.T) {
	sel := compose.Segment{Row: 6, Hour: 6, Layer: block.Execute, StartCol: 1, EndCol: 3, DisplayStart: 370, DisplayEnd: 400}
	st := gesture.GestureState{Phase: gesture.PhaseResizeArmed, Selection: &sel}

	assert.Equal(t, gesture.HandleStart, handleAt(st, hit{row: 6, minute: 371, ok: true}))
	assert.Equal(t, gesture.HandleEnd, handleAt(st, hit{row: 6, minute: 399, ok: true}))
	assert.Equal(t, gesture.HandleNone, handleAt(st, hit{row: 6, minute: 385, ok: true}))
	assert.Equal(t, gesture.HandleNone, handleAt(st, hit{row: 7, minute: 370, ok: true}))

	st.Phase = gesture.PhaseSelecting
	assert.Equal(t, gesture.HandleNone, handleAt(st, hit{row: 6, minute: 370, ok: true}), "not armed")
}

func TestSegmentSpanUsesPreview(t *testing.T) {
	seg := compose.Segment{Row: 6, Hour: 6, Layer: block.Execute, StartCol: 0, EndCol: 2, DisplayStart: 360, DisplayEnd: 390}
	st := gesture.GestureState{Phase: gesture.PhaseResizing, Selection: &seg,
		Resize: &gesture.Resize{Handle: gesture.HandleEnd, PreviewStart: 360, PreviewEnd: 410, FineValue: 405}}

	s, e, preview := segmentSpan(seg, st)
	assert.True(t, preview)
	assert.Equal(t, [2]int{360, 410}, [2]int{s, e})

	st.Phase = gesture.PhaseFinePending
	_, e, _ = segmentSpan(seg, st)
	assert.Equal(t, 405, e)

	other := seg
	other.Layer = block.Overlay
	_, _, preview = segmentSpan(other, st)
	assert.False(t, preview)
}

func TestCompleters(t *testing.T) {
	cat := block.NewCatalog(block.Activity{Name: "Work"}, block.Activity{Name: "Workout"}, block.Activity{Name: "gym"})

	assert.Equal(t, []string{"Work", "Workout"}, ActivityCompleter(cat)("wo", 5))
	assert.Equal(t, []string{"Workout"}, ActivityCompleter(cat)("work", 5), "exact match is not suggested")
	assert.Nil(t, ActivityCompleter(cat)(" ", 5))
	assert.Equal(t, []string{"09:00 10:00 gym"}, LineCompleter(cat)("09:00 10:00 g", 5))
	assert.Nil(t, LineCompleter(cat)("09:00", 5))
}

func TestThemes(t *testing.T) {
	assert.Equal(t, "dusk", ThemeByName(" Dusk ").Name)
	assert.Equal(t, "default", ThemeByName("nope").Name)
	assert.Equal(t, "mono", nextTheme(DuskTheme).Name)
	assert.Equal(t, "default", nextTheme(MonoTheme).Name)
}
