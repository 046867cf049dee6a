package gesture

import (
	"math"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/timegrid"
)

// Phase is the controller's position in the gesture state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmedPendingFirst
	PhaseDragging
	PhaseLongPressed
	PhaseSelecting
	PhaseResizeArmed
	PhaseResizing
	PhaseFineAdjust
	PhaseFinePending
)

var phaseNames = [...]string{
	PhaseIdle:              "idle",
	PhaseArmedPendingFirst: "armed",
	PhaseDragging:          "dragging",
	PhaseLongPressed:       "long-pressed",
	PhaseSelecting:         "selecting",
	PhaseResizeArmed:       "resize-armed",
	PhaseResizing:          "resizing",
	PhaseFineAdjust:        "fine-adjust",
	PhaseFinePending:       "fine-pending",
}

func (p Phase) String() string {
	if int(p) >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// owned reports whether the phase belongs to a pointer that is still down.
func (p Phase) owned() bool {
	switch p {
	case PhaseArmedPendingFirst, PhaseDragging, PhaseLongPressed, PhaseResizing, PhaseFineAdjust:
		return true
	}
	return false
}

// EventKind distinguishes pointer event types.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

// Handle names a resize handle of the selected segment.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleEnd
)

// PointerEvent is one event of the pointer stream, already mapped onto the
// day line by the caller. Up and Cancel events may arrive from outside the
// grid; their Minute is then negative.
type PointerEvent struct {
	Kind      EventKind
	PointerID int
	X, Y      float64
	// Primary reports whether the primary button is held.
	Primary bool
	// Minute is the unsnapped minute of day under the pointer, or < 0 when the
	// pointer is outside the grid.
	Minute float64
	// RelY and CellHeight locate the press inside its cell.
	RelY, CellHeight float64
	// OverlayRegion marks a press inside the cell's overlay hit-region.
	OverlayRegion bool
	// Handle is set when the press lands on a resize handle.
	Handle Handle
}

// InGrid reports whether the event lies on the day line.
func (e PointerEvent) InGrid() bool {
	return e.Minute >= 0 && e.Minute < timegrid.MinutesPerDay
}

// Cell returns the cell under the pointer, or -1 outside the grid.
func (e PointerEvent) Cell() int {
	if !e.InGrid() {
		return -1
	}
	return timegrid.CellOf(int(math.Floor(e.Minute)))
}

// intent resolves the layer intent of a press: explicit capture first, the
// vertical position heuristic otherwise.
func (e PointerEvent) intent() LayerIntent {
	if e.OverlayRegion {
		return IntentSecondary
	}
	return LayerIntentFor(e.RelY, e.CellHeight)
}

// Resize tracks a handle drag on the selected segment.
type Resize struct {
	Handle Handle
	// OrigStart/OrigEnd are the segment's coarse bounds when the drag began.
	OrigStart, OrigEnd int
	// PreviewStart/PreviewEnd are the live coarse bounds.
	PreviewStart, PreviewEnd int
	// FineMin/FineMax bound the dragged handle while in fine mode.
	FineMin, FineMax int
	// FineValue is the unsnapped minute of the dragged handle.
	FineValue int

	fineStart, fineEnd int
	anchorX, anchorY   float64
}

// GestureState is the explicit state threaded through the controller.
type GestureState struct {
	Phase     Phase
	PointerID int
	Tool      Tool
	Brush     string
	// Layer is the slot pair the gesture writes to.
	Layer block.Layer
	// StartCell/LastCell are the first and most recent cells visited.
	StartCell, LastCell int
	// MinCell/MaxCell are the envelope tracked by range tools.
	MinCell, MaxCell int
	// loIdx/hiIdx hold the same envelope in display order.
	loIdx, hiIdx int
	// Pending marks a deferred first-cell mutation.
	Pending bool
	DownX   float64
	DownY   float64
	// Selection is the selected segment for the select tool.
	Selection *compose.Segment
	Resize    *Resize
	// snapshotted marks a history snapshot taken by this gesture.
	snapshotted bool
}

// Active reports whether a pointer currently owns a gesture.
func (s GestureState) Active() bool { return s.Phase.owned() }

func (s GestureState) clone() GestureState {
	if s.Selection != nil {
		sel := *s.Selection
		s.Selection = &sel
	}
	if s.Resize != nil {
		r := *s.Resize
		s.Resize = &r
	}
	return s
}

func dist2(x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	return dx*dx + dy*dy
}

// cellPath returns the cells after from up to and including to. Skipped
// cells are filled only along one hour-row; a move onto another row touches
// just the entered cell.
func cellPath(from, to, startHour int) []int {
	if from == to {
		return nil
	}
	rf, _ := timegrid.RowCol(from, startHour)
	rt, _ := timegrid.RowCol(to, startHour)
	if rf != rt {
		return []int{to}
	}
	step := 1
	if to < from {
		step = -1
	}
	out := make([]int, 0, abs(to-from))
	for c := from + step; ; c += step {
		out = append(out, c)
		if c == to {
			break
		}
	}
	return out
}

// displayIndex orders cells the way rows are shown for startHour.
func displayIndex(cell, startHour int) int {
	row, col := timegrid.RowCol(cell, startHour)
	return row*timegrid.ColsPerRow + col
}

func cellAtIndex(idx, startHour int) int {
	return timegrid.CellAt(idx/timegrid.ColsPerRow, idx%timegrid.ColsPerRow, startHour)
}

// rangeEnvelope turns a display-ordered envelope into day cells. When the
// envelope runs past midnight (start hour other than 0) it keeps the side
// holding anchor, since a block cannot cross days.
func rangeEnvelope(lo, hi, anchor, startHour int) (minCell, maxCell int) {
	midnight := displayIndex(0, startHour)
	if midnight > lo && midnight <= hi {
		if displayIndex(anchor, startHour) < midnight {
			hi = midnight - 1
		} else {
			lo = midnight
		}
	}
	return cellAtIndex(lo, startHour), cellAtIndex(hi, startHour)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
