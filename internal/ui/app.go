package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/config"
	"github.com/ramanasai/dayline/internal/db"
	"github.com/ramanasai/dayline/internal/gesture"
	"github.com/ramanasai/dayline/internal/intake"
	"github.com/ramanasai/dayline/internal/state"
	"github.com/ramanasai/dayline/internal/timegrid"
)

type mode int

const (
	modeGrid mode = iota
	modeChecklist
	modeVoice
	modeActivity
)

// session is the mutable core shared by every copy of the Model.
type session struct {
	st    *state.State
	ctrl  *gesture.Controller
	sched *tickScheduler
	db    *sql.DB
	log   *slog.Logger
	loc   *time.Location

	dirty     bool
	checklist *block.ChecklistBlock // opened by a long press, not yet shown
	// readOnly is set when the stored state could not be loaded.
	readOnly bool
}

// Options configure a Model.
type Options struct {
	State  *state.State
	DB     *sql.DB // nil disables saving
	Config config.Config
	Date   string
	Logger *slog.Logger
	// Warning is shown on start and marks the session read-only; DB should
	// be nil with it.
	Warning string
}

type Model struct {
	s *session

	width, height int
	offset        int
	mode          mode
	theme         Theme
	keys          keyMap
	clKeys        checklistKeys
	help          help.Model

	status    string
	statusErr bool

	// checklist panel
	checklistID string
	itemCursor  int
	itemInput   textinput.Model

	voice    AutocompleteModel
	activity AutocompleteModel
}

// New builds the TUI model around a gesture controller for opts.Date.
func New(opts Options) Model {
	st := opts.State
	if st == nil {
		st = state.Empty()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default().With("component", "ui")
	}
	date := opts.Date
	if date == "" {
		date = timegrid.DateKey(time.Now().In(opts.Config.Location()))
	}
	s := &session{st: st, sched: newTickScheduler(), db: opts.DB, log: log, loc: opts.Config.Location(), readOnly: opts.Warning != ""}
	if s.readOnly {
		s.db = nil
	}
	s.ctrl = gesture.New(st.Store, st.Catalog, s.sched, date,
		gesture.WithLogger(log),
		gesture.WithConfig(gesture.Config{
			LongPress:     opts.Config.LongPress(),
			FineHold:      opts.Config.FineHold(),
			MoveThreshold: float64(opts.Config.MoveThresholdPx),
			StartHour:     st.StartHour,
			HistoryDepth:  opts.Config.HistoryDepth,
		}),
		gesture.WithHooks(gesture.Hooks{
			Changed: func() { s.dirty = true },
			Checklist: func(cb block.ChecklistBlock, created bool) {
				s.checklist = &cb
				s.dirty = s.dirty || created
			},
		}),
	)
	if acts := st.Catalog.All(); len(acts) > 0 {
		s.ctrl.SetBrush(acts[0].ID)
	}
	s.dirty = false

	theme := ThemeByName(st.Theme)
	if st.Theme == "" || st.Theme == DefaultTheme.Name {
		theme = ThemeByName(opts.Config.Theme)
	}

	ii := textinput.New()
	ii.Placeholder = "New item…"
	ii.CharLimit = 200
	ii.Width = 50

	voice := NewAutocomplete(LineCompleter(st.Catalog), 5)
	voice.SetPlaceholder("HH:MM HH:MM activity")
	voice.SetWidth(50)

	act := NewAutocomplete(ActivityCompleter(st.Catalog), 5)
	act.SetPlaceholder("Activity name")
	act.SetWidth(40)

	return Model{
		s:         s,
		status:    opts.Warning,
		statusErr: opts.Warning != "",
		theme:     theme,
		keys:      defaultKeyMap(),
		clKeys:    defaultChecklistKeys(),
		help:      help.New(),
		itemInput: ii,
		voice:     voice,
		activity:  act,
	}
}

// Run opens the TUI and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	final, runErr := p.Run()
	if fm, ok := final.(Model); ok {
		fm.s.ctrl.CancelAll()
		fm.s.dirty = true
		if err := fm.save(); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

// Controller exposes the gesture controller driving the model.
func (m Model) Controller() *gesture.Controller { return m.s.ctrl }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) grid() grid {
	visible := timegrid.RowsPerDay
	if m.height > 0 {
		visible = max(1, (m.height-headerLines-m.footerHeight())/rowLines)
	}
	return grid{startHour: m.s.ctrl.StartHour(), offset: m.offset, visible: visible}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampOffset()
	case tea.BlurMsg:
		// losing focus is a document-level cancel
		m.s.ctrl.CancelAll()
	case timerMsg:
		m.s.sched.fire(msg.id)
	case tea.MouseMsg:
		cmd = m.updateMouse(msg)
	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.updateKey(msg)
		if quit {
			m.s.ctrl.CancelAll()
			m.persist()
			return m, tea.Quit
		}
	}
	if cb := m.s.checklist; cb != nil {
		m.s.checklist = nil
		m.openChecklist(*cb)
	}
	m.persist()
	return m, tea.Batch(cmd, m.s.sched.drain())
}

func (m *Model) updateMouse(msg tea.MouseMsg) tea.Cmd {
	// panels swallow the mouse, but a gesture still in flight must end
	if m.mode != modeGrid && !m.s.ctrl.State().Active() {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.scroll(1)
		return nil
	}
	if ev, ok := m.grid().pointerEvent(msg, m.s.ctrl.State()); ok {
		m.s.ctrl.Handle(ev)
	}
	return nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.mode {
	case modeChecklist:
		return m.updateChecklist(msg), false
	case modeVoice:
		return m.updateVoice(msg), false
	case modeActivity:
		return m.updateActivity(msg), false
	}
	return m.updateGrid(msg)
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Cmd, bool) {
	c := m.s.ctrl
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return nil, true
	case key.Matches(msg, k.Undo):
		m.report("undone", c.Undo())
	case key.Matches(msg, k.Redo):
		m.report("redone", c.Redo())
	case key.Matches(msg, k.Paint):
		c.SetTool(gesture.ToolPaint)
	case key.Matches(msg, k.Erase):
		c.SetTool(gesture.ToolErase)
	case key.Matches(msg, k.NewRange):
		c.SetTool(gesture.ToolNewRange)
	case key.Matches(msg, k.PlanRange):
		c.SetTool(gesture.ToolPlanRange)
	case key.Matches(msg, k.Select):
		c.SetTool(gesture.ToolSelect)
	case key.Matches(msg, k.NextBrush):
		m.cycleBrush(1)
	case key.Matches(msg, k.PrevBrush):
		m.cycleBrush(-1)
	case key.Matches(msg, k.Surface):
		if c.Surface().IsPlan() {
			c.SetSurface(block.Execute)
		} else {
			c.SetSurface(block.Plan)
		}
	case key.Matches(msg, k.Arm):
		m.report("resize armed: drag a handle", c.ArmResize())
	case key.Matches(msg, k.Exact):
		m.report("fine bounds saved", c.ConfirmFine(false))
	case key.Matches(msg, k.Snap):
		m.report("snapped", c.ConfirmFine(true))
	case key.Matches(msg, k.NudgeLeft):
		m.report("", c.NudgeFine(-1))
	case key.Matches(msg, k.NudgeRight):
		m.report("", c.NudgeFine(1))
	case key.Matches(msg, k.Cancel):
		if c.State().Phase == gesture.PhaseFinePending {
			m.report("fine adjustment dropped", c.CancelFine())
		} else {
			c.ClearSelection()
			m.status = ""
		}
	case key.Matches(msg, k.PrevDay):
		c.SetDate(timegrid.AddDays(c.Date(), -1))
	case key.Matches(msg, k.NextDay):
		c.SetDate(timegrid.AddDays(c.Date(), 1))
	case key.Matches(msg, k.Today):
		c.SetDate(timegrid.DateKey(time.Now().In(m.s.loc)))
	case key.Matches(msg, k.EarlierStart):
		c.SetStartHour(c.StartHour() - 1)
	case key.Matches(msg, k.LaterStart):
		c.SetStartHour(c.StartHour() + 1)
	case key.Matches(msg, k.ScrollUp):
		m.scroll(-1)
	case key.Matches(msg, k.ScrollDown):
		m.scroll(1)
	case key.Matches(msg, k.Voice):
		m.mode = modeVoice
		m.voice.SetValue("")
		return m.voice.Focus(), false
	case key.Matches(msg, k.NewActivity):
		m.mode = modeActivity
		m.activity.SetValue("")
		return m.activity.Focus(), false
	case key.Matches(msg, k.Theme):
		m.theme = nextTheme(m.theme)
		m.s.st.Theme = m.theme.Name
		m.s.dirty = true
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.clampOffset()
	}
	return nil, false
}

func (m *Model) updateVoice(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if !m.voice.Showing() {
			m.voice.Blur()
			m.mode = modeGrid
			return nil
		}
	case tea.KeyEnter:
		if !m.voice.Showing() {
			m.commitLine(m.voice.Value())
			m.voice.Blur()
			m.mode = modeGrid
			return nil
		}
	}
	var cmd tea.Cmd
	m.voice, cmd = m.voice.Update(msg)
	return cmd
}

// commitLine parses "HH:MM HH:MM activity" and records it as one undoable
// step, the same way a confirmed voice tuple is.
func (m *Model) commitLine(line string) {
	c := m.s.ctrl
	t, err := intake.ParseLine(c.Date(), line)
	if err != nil {
		m.report("", err)
		return
	}
	var res intake.Result
	err = c.Mutate(func(s *block.Store) error {
		var err error
		res, err = intake.Commit(s, m.s.st.Catalog, t)
		return err
	})
	if err != nil {
		m.report("", err)
		return
	}
	msg := fmt.Sprintf("added %s %s-%s", res.Activity.Name,
		timegrid.FormatHHMM(res.Block.StartMin), timegrid.FormatHHMM(res.Block.EndMin))
	if res.Created {
		msg += " (new activity)"
	}
	m.report(msg, nil)
}

func (m *Model) updateActivity(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if !m.activity.Showing() {
			m.activity.Blur()
			m.mode = modeGrid
			return nil
		}
	case tea.KeyEnter:
		if !m.activity.Showing() {
			a, created, err := m.s.st.Catalog.ResolveOrCreate(m.activity.Value(), "")
			if err == nil {
				m.s.ctrl.SetBrush(a.ID)
				m.s.dirty = m.s.dirty || created
			}
			m.report("brush: "+a.Name, err)
			m.activity.Blur()
			m.mode = modeGrid
			return nil
		}
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return cmd
}

func (m *Model) openChecklist(cb block.ChecklistBlock) {
	m.mode = modeChecklist
	m.checklistID = cb.ID
	m.itemCursor = 0
	m.itemInput.Reset()
	m.itemInput.Blur()
}

// currentChecklist returns the open checklist as stored now.
func (m Model) currentChecklist() (block.ChecklistBlock, bool) {
	for _, cb := range m.s.st.Store.Checklists(m.s.ctrl.Date()) {
		if cb.ID == m.checklistID {
			return cb, true
		}
	}
	return block.ChecklistBlock{}, false
}

// Checklist edits bypass block history.
func (m *Model) updateChecklist(msg tea.KeyMsg) tea.Cmd {
	date := m.s.ctrl.Date()
	st := m.s.st.Store
	if m.itemInput.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			_, err := st.AddItem(date, m.checklistID, m.itemInput.Value())
			if err == nil {
				m.s.dirty = true
				m.itemInput.Reset()
			}
			m.report("", err)
			return nil
		case tea.KeyEsc:
			m.itemInput.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.itemInput, cmd = m.itemInput.Update(msg)
		return cmd
	}

	cb, ok := m.currentChecklist()
	if !ok {
		m.mode = modeGrid
		return nil
	}
	k := m.clKeys
	switch {
	case key.Matches(msg, k.Close):
		m.mode = modeGrid
	case key.Matches(msg, k.Up):
		m.itemCursor = max(0, m.itemCursor-1)
	case key.Matches(msg, k.Down):
		m.itemCursor = min(max(0, len(cb.Items)-1), m.itemCursor+1)
	case key.Matches(msg, k.Toggle):
		if m.itemCursor < len(cb.Items) {
			_, err := st.ToggleItem(date, cb.ID, cb.Items[m.itemCursor].ID)
			m.s.dirty = m.s.dirty || err == nil
			m.report("", err)
		}
	case key.Matches(msg, k.Add):
		return m.itemInput.Focus()
	case key.Matches(msg, k.Remove):
		if m.itemCursor < len(cb.Items) {
			err := st.RemoveItem(date, cb.ID, cb.Items[m.itemCursor].ID)
			m.s.dirty = m.s.dirty || err == nil
			m.itemCursor = max(0, min(m.itemCursor, len(cb.Items)-2))
			m.report("", err)
		}
	case key.Matches(msg, k.Delete):
		err := st.DeleteChecklist(date, cb.ID)
		m.s.dirty = m.s.dirty || err == nil
		m.report("checklist deleted", err)
		m.mode = modeGrid
	}
	return nil
}

func (m *Model) cycleBrush(step int) {
	acts := m.s.st.Catalog.All()
	if len(acts) == 0 {
		m.report("", errors.New("no activities yet: press n to add one"))
		return
	}
	i := slices.IndexFunc(acts, func(a block.Activity) bool { return a.ID == m.s.ctrl.Brush() })
	i = ((i+step)%len(acts) + len(acts)) % len(acts)
	m.s.ctrl.SetBrush(acts[i].ID)
}

func (m *Model) scroll(delta int) {
	m.offset += delta
	m.clampOffset()
}

func (m *Model) clampOffset() {
	g := m.grid()
	m.offset = max(0, min(m.offset, timegrid.RowsPerDay-g.visible))
}

func (m *Model) report(ok string, err error) {
	switch {
	case err != nil:
		m.status, m.statusErr = err.Error(), true
	case ok != "":
		m.status, m.statusErr = ok, false
	}
}

// persist saves once the controller is idle and something changed.
func (m *Model) persist() {
	if !m.s.dirty || m.s.ctrl.State().Active() {
		return
	}
	if err := m.save(); err != nil {
		m.s.log.Error("save failed", "err", err)
		m.report("", err)
	}
}

func (m Model) save() error {
	if m.s.db == nil || !m.s.dirty {
		m.s.dirty = false
		return nil
	}
	m.s.st.StartHour = m.s.ctrl.StartHour()
	if err := db.Save(m.s.db, m.s.st); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	m.s.dirty = false
	return nil
}
