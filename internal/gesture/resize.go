package gesture

import (
	"math"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/timegrid"
)

func (c *Controller) downSelect(ev PointerEvent) {
	if c.st.Phase == PhaseResizeArmed && ev.Handle != HandleNone && c.st.Selection != nil {
		c.beginResize(ev)
		return
	}
	seg, ok := c.segmentAt(ev)
	if !ok {
		c.st = GestureState{}
		c.changed()
		return
	}
	c.st = GestureState{Phase: PhaseSelecting, Tool: ToolSelect, Layer: seg.Layer, Selection: &seg}
	c.changed()
}

// segmentAt finds the segment under a press, trying the intended slot first.
func (c *Controller) segmentAt(ev PointerEvent) (compose.Segment, bool) {
	cell := ev.Cell()
	if cell < 0 {
		return compose.Segment{}, false
	}
	row, col := timegrid.RowCol(cell, c.cfg.StartHour)
	order := []block.Layer{c.surface.Primary(), c.surface.Secondary()}
	if ev.intent() == IntentSecondary {
		order[0], order[1] = order[1], order[0]
	}
	segs := c.Segments()
	for _, l := range order {
		if seg, ok := compose.Find(segs, l, row, col); ok {
			return seg, true
		}
	}
	return compose.Segment{}, false
}

// Select makes seg the current selection, as if it had been clicked.
func (c *Controller) Select(seg compose.Segment) {
	if c.st.Active() {
		return
	}
	c.tool = ToolSelect
	c.st = GestureState{Phase: PhaseSelecting, Tool: ToolSelect, Layer: seg.Layer, Selection: &seg}
	c.changed()
}

// ClearSelection drops the selection, dropping a pending fine adjustment
// with it. It does nothing while a pointer owns a gesture.
func (c *Controller) ClearSelection() {
	switch {
	case c.st.Phase == PhaseFinePending:
		_ = c.CancelFine()
	case !c.st.Active():
		c.st = GestureState{}
		c.changed()
	}
}

// ArmResize enables handle dragging on the selected segment.
func (c *Controller) ArmResize() error {
	if c.st.Selection == nil || (c.st.Phase != PhaseSelecting && c.st.Phase != PhaseResizeArmed) {
		return ErrNoSelection
	}
	c.st.Phase = PhaseResizeArmed
	c.changed()
	return nil
}

func (c *Controller) beginResize(ev PointerEvent) {
	sel := c.st.Selection
	c.st.Phase = PhaseResizing
	c.st.PointerID = ev.PointerID
	c.st.snapshotted = false
	c.st.Resize = &Resize{
		Handle:       ev.Handle,
		OrigStart:    sel.StartMin,
		OrigEnd:      sel.EndMin,
		PreviewStart: sel.StartMin,
		PreviewEnd:   sel.EndMin,
		anchorX:      ev.X,
		anchorY:      ev.Y,
	}
	c.armFine()
	c.changed()
}

func (c *Controller) moveResize(ev PointerEvent) {
	r := c.st.Resize
	still := dist2(r.anchorX, r.anchorY, ev.X, ev.Y) <= c.cfg.MoveThreshold*c.cfg.MoveThreshold
	if !still {
		r.anchorX, r.anchorY = ev.X, ev.Y
		c.armFine()
	}
	if ev.InGrid() {
		c.previewCoarse(ev.Minute)
		c.changed()
	}
}

// previewCoarse moves the dragged boundary to the nearest column edge of the
// selected segment's row, keeping at least one cell.
func (c *Controller) previewCoarse(minute float64) {
	r, sel := c.st.Resize, c.st.Selection
	rowStart := sel.Hour * 60
	k := int(math.Round((minute - float64(rowStart)) / timegrid.CellMinutes))
	k = min(max(k, 0), timegrid.ColsPerRow)
	edge := rowStart + k*timegrid.CellMinutes
	switch r.Handle {
	case HandleStart:
		r.PreviewStart = min(edge, r.OrigEnd-timegrid.CellMinutes)
	case HandleEnd:
		r.PreviewEnd = max(edge, r.OrigStart+timegrid.CellMinutes)
	}
}

func (c *Controller) armFine() {
	c.stopFine()
	gen := c.fineGen
	c.fine = c.sched.AfterFunc(c.cfg.FineHold, func() {
		if gen == c.fineGen {
			c.enterFine()
		}
	})
}

func (c *Controller) stopFine() {
	if c.fine != nil {
		c.fine.Stop()
		c.fine = nil
	}
	c.fineGen++
}

// previewSignature keys fine bounds for the previewed span.
func (c *Controller) previewSignature() block.Signature {
	r, sel := c.st.Resize, c.st.Selection
	rowStart := sel.Hour * 60
	return block.Signature{
		Date:       c.date,
		Hour:       sel.Hour,
		Layer:      sel.Layer,
		ActivityID: sel.ActivityID,
		StartCol:   (r.PreviewStart - rowStart) / timegrid.CellMinutes,
		EndCol:     (r.PreviewEnd-rowStart)/timegrid.CellMinutes - 1,
	}
}

// startingFine returns the bounds fine adjustment starts from: those of the
// previewed span, else the far side of the selection's own fine bounds.
func (c *Controller) startingFine() (lo, hi int) {
	r, sel := c.st.Resize, c.st.Selection
	lo, hi = r.PreviewStart, r.PreviewEnd
	if fb, ok := c.store.Fine(c.previewSignature()); ok {
		return fb.StartMinute, fb.EndMinute
	}
	if fb, ok := c.store.Fine(sel.Signature(c.date)); ok {
		switch r.Handle {
		case HandleStart:
			hi = max(min(fb.EndMinute, hi), lo+1)
		case HandleEnd:
			lo = min(max(fb.StartMinute, lo), hi-1)
		}
	}
	return lo, hi
}

func (c *Controller) enterFine() {
	if c.st.Phase != PhaseResizing {
		return
	}
	c.fine = nil
	r := c.st.Resize
	lo, hi := c.startingFine()
	switch r.Handle {
	case HandleStart:
		r.FineMin, r.FineMax, r.FineValue = r.PreviewStart, hi-1, lo
	case HandleEnd:
		r.FineMin, r.FineMax, r.FineValue = lo+1, r.PreviewEnd, hi
	}
	r.fineStart, r.fineEnd = lo, hi
	c.st.Phase = PhaseFineAdjust
	c.log.Debug("fine adjust", "handle", r.Handle, "min", r.FineMin, "max", r.FineMax)
	c.changed()
}

// moveFine tracks the exact minute, clamped to the coarse window. Pulling the
// handle outward past its own edge by more than a cell hands it back to
// coarse resizing.
func (c *Controller) moveFine(ev PointerEvent) {
	if !ev.InGrid() {
		return
	}
	r := c.st.Resize
	outward := (r.Handle == HandleStart && ev.Minute < float64(r.FineMin-timegrid.CellMinutes)) ||
		(r.Handle == HandleEnd && ev.Minute > float64(r.FineMax+timegrid.CellMinutes))
	if outward {
		c.st.Phase = PhaseResizing
		r.anchorX, r.anchorY = ev.X, ev.Y
		c.previewCoarse(ev.Minute)
		c.armFine()
		c.log.Debug("fine adjust left", "minute", ev.Minute)
		c.changed()
		return
	}
	r.FineValue = min(max(int(math.Round(ev.Minute)), r.FineMin), r.FineMax)
	c.changed()
}

// NudgeFine moves the fine value by delta minutes within its legal window.
func (c *Controller) NudgeFine(delta int) error {
	if c.st.Phase != PhaseFineAdjust && c.st.Phase != PhaseFinePending {
		return ErrNotPending
	}
	r := c.st.Resize
	r.FineValue = min(max(r.FineValue+delta, r.FineMin), r.FineMax)
	c.changed()
	return nil
}

// commitCoarse writes the previewed span back to the store.
func (c *Controller) commitCoarse() bool {
	r, sel := c.st.Resize, c.st.Selection
	if r == nil || sel == nil || (r.PreviewStart == r.OrigStart && r.PreviewEnd == r.OrigEnd) {
		return false
	}
	start, end := block.NormalizeSpan(r.PreviewStart, r.PreviewEnd, timegrid.CellMinutes)
	c.snapshotOnce()
	changed := c.store.ResizeSpan(c.date, sel.Layer, sel.ActivityID, r.OrigStart, r.OrigEnd, start, end)
	c.store.InvalidateFine(c.date, sel.Hour, sel.Layer, sel.ActivityID)
	c.log.Debug("resize committed", "activity", sel.ActivityID, "start", start, "end", end, "changed", changed)
	return changed
}

func (c *Controller) snapshotOnce() {
	if !c.st.snapshotted {
		c.hist.Push()
		c.st.snapshotted = true
	}
}

// ConfirmFine commits a pending fine adjustment. With snap the value is
// rounded to the nearest column edge and committed as a coarse resize;
// otherwise the exact minute is stored as fine bounds.
func (c *Controller) ConfirmFine(snap bool) error {
	if c.st.Phase != PhaseFinePending || c.st.Resize == nil {
		return ErrNotPending
	}
	r, sel := c.st.Resize, c.st.Selection
	if snap {
		v := timegrid.RoundCell(r.FineValue)
		switch r.Handle {
		case HandleStart:
			r.PreviewStart = min(v, r.PreviewEnd-timegrid.CellMinutes)
		case HandleEnd:
			r.PreviewEnd = max(v, r.PreviewStart+timegrid.CellMinutes)
		}
		if !c.commitCoarse() {
			c.snapshotOnce()
			c.store.InvalidateFine(c.date, sel.Hour, sel.Layer, sel.ActivityID)
		}
	} else {
		fb := block.FineBounds{StartMinute: r.fineStart, EndMinute: r.fineEnd}
		switch r.Handle {
		case HandleStart:
			fb.StartMinute = r.FineValue
		case HandleEnd:
			fb.EndMinute = r.FineValue
		}
		c.snapshotOnce()
		c.commitCoarse()
		c.storeFine(fb)
	}
	if c.st.snapshotted {
		c.hist.DiscardIfUnchanged()
	}
	c.st = GestureState{}
	c.changed()
	return nil
}

// storeFine keys fb to the segment the committed span ended up in, which is
// wider than the preview when the resize joined a neighbouring run. A handle
// that no longer sits on that segment's edge loses its exact minute.
func (c *Controller) storeFine(fb block.FineBounds) {
	r, sel := c.st.Resize, c.st.Selection
	for _, seg := range c.Segments() {
		if seg.Layer != sel.Layer || seg.Hour != sel.Hour || seg.ActivityID != sel.ActivityID ||
			seg.StartMin > r.PreviewStart || seg.EndMin < r.PreviewEnd {
			continue
		}
		if seg.StartMin != r.PreviewStart {
			fb.StartMinute = seg.StartMin
		}
		if seg.EndMin != r.PreviewEnd {
			fb.EndMinute = seg.EndMin
		}
		c.store.SetFine(seg.Signature(c.date), fb)
		return
	}
}

// CancelFine drops a pending fine adjustment without committing anything.
func (c *Controller) CancelFine() error {
	if c.st.Phase != PhaseFinePending {
		return ErrNotPending
	}
	if c.st.snapshotted {
		c.hist.DiscardIfUnchanged()
	}
	c.st = GestureState{}
	c.changed()
	return nil
}
