package gesture

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/compose"
	"github.com/ramanasai/dayline/internal/history"
	"github.com/ramanasai/dayline/internal/timegrid"
)

var (
	ErrBusy        = errors.New("gesture in progress")
	ErrNoSelection = errors.New("no segment selected")
	ErrNotPending  = errors.New("no fine adjustment pending")
)

const (
	DefaultLongPress     = 450 * time.Millisecond
	DefaultFineHold      = 450 * time.Millisecond
	DefaultMoveThreshold = 6.0
)

// Config tunes the controller's timers and thresholds.
type Config struct {
	LongPress     time.Duration
	FineHold      time.Duration
	MoveThreshold float64
	StartHour     int
	HistoryDepth  int
}

func (c Config) withDefaults() Config {
	if c.LongPress <= 0 {
		c.LongPress = DefaultLongPress
	}
	if c.FineHold <= 0 {
		c.FineHold = DefaultFineHold
	}
	if c.MoveThreshold <= 0 {
		c.MoveThreshold = DefaultMoveThreshold
	}
	c.StartHour = timegrid.NormalizeStartHour(c.StartHour)
	return c
}

// Hooks receive controller notifications. Nil hooks are skipped.
type Hooks struct {
	// Checklist is called when a long press opens a checklist block.
	Checklist func(cb block.ChecklistBlock, created bool)
	// Changed is called after anything visible changed.
	Changed func()
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithHooks(h Hooks) Option {
	return func(c *Controller) { c.hooks = h }
}

func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// Controller turns a pointer stream into block store mutations. It is the
// only writer of the store for its active date and must be driven from a
// single event loop.
type Controller struct {
	store   *block.Store
	catalog *block.Catalog
	sched   Scheduler
	cfg     Config
	log     *slog.Logger
	hooks   Hooks
	hist    *history.Manager

	date    string
	tool    Tool
	brush   string
	surface block.Layer

	st      GestureState
	lp      *longPress
	fine    Timer
	fineGen int
}

// New returns a controller editing date. catalog may be nil, in which case
// every activity id is treated as known.
func New(store *block.Store, catalog *block.Catalog, sched Scheduler, date string, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		catalog: catalog,
		sched:   sched,
		log:     slog.Default(),
		date:    date,
		tool:    ToolPaint,
		surface: block.Execute,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg = c.cfg.withDefaults()
	c.hist = history.New(c, c.cfg.HistoryDepth)
	return c
}

func (c *Controller) Date() string              { return c.date }
func (c *Controller) Tool() Tool                { return c.tool }
func (c *Controller) Brush() string             { return c.brush }
func (c *Controller) Surface() block.Layer      { return c.surface }
func (c *Controller) StartHour() int            { return c.cfg.StartHour }
func (c *Controller) History() *history.Manager { return c.hist }
func (c *Controller) Store() *block.Store       { return c.store }

// State returns a copy of the current gesture state.
func (c *Controller) State() GestureState { return c.st.clone() }

// SetDate switches the active date. Any gesture is terminated and history
// is reset, since snapshots only cover one date.
func (c *Controller) SetDate(date string) {
	if date == c.date {
		return
	}
	c.CancelAll()
	c.st = GestureState{}
	c.date = date
	c.hist.Reset()
	c.changed()
}

func (c *Controller) SetTool(t Tool) {
	if c.st.Active() {
		return
	}
	if t != ToolSelect {
		c.st = GestureState{}
	}
	c.tool = t
	c.changed()
}

func (c *Controller) SetBrush(activityID string) {
	c.brush = activityID
	c.changed()
}

// SetSurface chooses whether paint and erase target the day or plan pair.
func (c *Controller) SetSurface(l block.Layer) {
	c.surface = l.Primary()
	c.changed()
}

func (c *Controller) SetStartHour(h int) {
	c.cfg.StartHour = timegrid.NormalizeStartHour(h)
	c.changed()
}

func (c *Controller) known(id string) bool {
	return c.catalog == nil || c.catalog.Has(id)
}

// Segments composes the active date for display.
func (c *Controller) Segments() []compose.Segment {
	return compose.Compose(compose.StoreSource(c.store, c.date, c.known), compose.Options{
		Date:      c.date,
		StartHour: c.cfg.StartHour,
		Fine:      c.store.Fine,
	})
}

// Capture implements history.Source.
func (c *Controller) Capture() history.Snapshot {
	day, plan := c.store.DaySnapshot(c.date)
	return history.Snapshot{
		Date:  c.date,
		Day:   day,
		Plan:  plan,
		Fine:  c.store.FineFor(c.date),
		Tool:  c.tool.String(),
		Brush: c.brush,
	}
}

// Restore implements history.Source.
func (c *Controller) Restore(s history.Snapshot) {
	c.store.RestoreDay(s.Date, s.Day, s.Plan)
	c.store.RestoreFine(s.Date, s.Fine)
	if t, err := ParseTool(s.Tool); err == nil {
		c.tool = t
	}
	c.brush = s.Brush
}

func (c *Controller) Undo() error {
	return c.step(c.hist.Undo)
}

func (c *Controller) Redo() error {
	return c.step(c.hist.Redo)
}

func (c *Controller) step(f func() error) error {
	if c.st.Active() {
		return ErrBusy
	}
	if err := f(); err != nil {
		return err
	}
	c.st = GestureState{}
	c.changed()
	return nil
}

// Mutate applies an edit made outside the pointer stream, such as an intake
// tuple, as one undoable step.
func (c *Controller) Mutate(f func(*block.Store) error) error {
	if c.st.Active() {
		return ErrBusy
	}
	c.hist.Push()
	err := f(c.store)
	c.hist.DiscardIfUnchanged()
	c.changed()
	return err
}

// Handle feeds one pointer event to the state machine.
func (c *Controller) Handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		c.down(ev)
	case PointerMove:
		c.move(ev)
	case PointerUp, PointerCancel:
		if c.st.Active() && ev.PointerID == c.st.PointerID {
			c.finish()
		}
	}
}

// CancelAll terminates any in-flight gesture and its timers, applying a
// still-pending commit. Call it on focus loss or a document-level cancel.
func (c *Controller) CancelAll() {
	if c.st.Active() {
		c.finish()
	}
	c.cancelLongPress()
	c.stopFine()
}

func (c *Controller) down(ev PointerEvent) {
	if c.st.Active() {
		c.log.Debug("pointer ignored", "pointer", ev.PointerID, "owner", c.st.PointerID)
		return
	}
	if !ev.Primary {
		return
	}
	if c.tool == ToolSelect {
		c.downSelect(ev)
		return
	}
	cell := ev.Cell()
	if cell < 0 {
		return
	}
	if c.st.Phase == PhaseFinePending {
		c.log.Debug("fine adjustment dropped")
	}

	layer := c.surface
	switch c.tool {
	case ToolNewRange:
		layer = block.Execute
	case ToolPlanRange:
		layer = block.Plan
	}
	if c.tool.ranges() && ev.OverlayRegion {
		layer = layer.Secondary()
	}

	c.hist.Push()
	c.st = GestureState{
		Phase:       PhaseArmedPendingFirst,
		PointerID:   ev.PointerID,
		Tool:        c.tool,
		Brush:       c.brush,
		Layer:       layer,
		StartCell:   cell,
		LastCell:    cell,
		MinCell:     cell,
		MaxCell:     cell,
		loIdx:       displayIndex(cell, c.cfg.StartHour),
		hiIdx:       displayIndex(cell, c.cfg.StartHour),
		Pending:     c.tool.paints(),
		DownX:       ev.X,
		DownY:       ev.Y,
		snapshotted: true,
	}
	c.lp = startLongPress(c.sched, c.cfg.LongPress, c.cfg.MoveThreshold, ev, c.fireLongPress)
	c.changed()
}

func (c *Controller) move(ev PointerEvent) {
	if !c.st.Active() || ev.PointerID != c.st.PointerID {
		return
	}
	if !ev.Primary {
		// the button was released where we could not see it
		c.finish()
		return
	}
	switch c.st.Phase {
	case PhaseArmedPendingFirst, PhaseDragging:
		c.moveDrag(ev)
	case PhaseResizing:
		c.moveResize(ev)
	case PhaseFineAdjust:
		c.moveFine(ev)
	}
}

func (c *Controller) moveDrag(ev PointerEvent) {
	if c.lp != nil && c.lp.exceeded(ev.X, ev.Y) {
		c.cancelLongPress()
	}
	cell := ev.Cell()
	if cell < 0 || cell == c.st.LastCell {
		return
	}
	c.cancelLongPress()
	if c.st.Phase == PhaseArmedPendingFirst {
		c.st.Phase = PhaseDragging
		c.flushPending()
	}
	for _, cl := range cellPath(c.st.LastCell, cell, c.cfg.StartHour) {
		c.visit(cl)
	}
	c.st.LastCell = cell
	c.changed()
}

// visit applies the gesture's tool to one cell.
func (c *Controller) visit(cell int) {
	switch c.st.Tool {
	case ToolPaint:
		if c.st.Brush != "" {
			c.store.PaintCell(c.date, cell, c.st.Brush, c.st.Layer)
		}
	case ToolErase:
		c.store.EraseCell(c.date, cell, c.st.Layer)
	case ToolNewRange, ToolPlanRange:
		idx := displayIndex(cell, c.cfg.StartHour)
		c.st.loIdx = min(c.st.loIdx, idx)
		c.st.hiIdx = max(c.st.hiIdx, idx)
		c.st.MinCell, c.st.MaxCell = rangeEnvelope(c.st.loIdx, c.st.hiIdx, c.st.StartCell, c.cfg.StartHour)
	}
}

func (c *Controller) flushPending() {
	if c.st.Pending {
		c.st.Pending = false
		c.visit(c.st.StartCell)
	}
}

func (c *Controller) commitRange() {
	if c.st.Brush == "" {
		return
	}
	start, end := block.NormalizeSpan(
		timegrid.CellStart(c.st.MinCell),
		timegrid.CellStart(c.st.MaxCell+1),
		timegrid.CellMinutes,
	)
	b := c.store.Insert(c.date, block.Range{StartMin: start, EndMin: end, Layer: c.st.Layer}, c.st.Brush, block.SourceManual)
	c.log.Debug("range committed", "id", b.ID, "layer", b.Layer, "start", start, "end", end)
}

// finish terminates the owning pointer's gesture.
func (c *Controller) finish() {
	switch c.st.Phase {
	case PhaseArmedPendingFirst, PhaseDragging, PhaseLongPressed:
		c.cancelLongPress()
		c.flushPending()
		if c.st.Tool.ranges() && c.st.Phase != PhaseLongPressed {
			c.commitRange()
		}
		if c.st.snapshotted && c.hist.DiscardIfUnchanged() {
			c.log.Debug("gesture changed nothing")
		}
		c.st = GestureState{}
	case PhaseResizing:
		c.stopFine()
		c.commitCoarse()
		if c.st.snapshotted {
			c.hist.DiscardIfUnchanged()
		}
		c.st = GestureState{}
	case PhaseFineAdjust:
		c.stopFine()
		c.st.Phase = PhaseFinePending
	}
	c.changed()
}

func (c *Controller) fireLongPress(lp *longPress) {
	if c.lp != lp || c.st.Phase != PhaseArmedPendingFirst || c.st.PointerID != lp.pointerID {
		return
	}
	c.lp = nil
	c.st.Pending = false
	c.st.Phase = PhaseLongPressed

	layer := c.st.Layer.Primary()
	if lp.intent == IntentSecondary {
		layer = layer.Secondary()
	}
	cb, created := c.store.OpenChecklistAt(c.date, lp.minute, layer)
	c.log.Debug("long press", "minute", lp.minute, "layer", layer, "checklist", cb.ID, "created", created)
	if c.hooks.Checklist != nil {
		c.hooks.Checklist(cb, created)
	}
	c.changed()
}

func (c *Controller) cancelLongPress() {
	c.lp.cancel()
	c.lp = nil
}

func (c *Controller) changed() {
	if c.hooks.Changed != nil {
		c.hooks.Changed()
	}
}
