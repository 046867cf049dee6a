package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Undo         key.Binding
	Redo         key.Binding
	Paint        key.Binding
	Erase        key.Binding
	NewRange     key.Binding
	PlanRange    key.Binding
	Select       key.Binding
	NextBrush    key.Binding
	PrevBrush    key.Binding
	Surface      key.Binding
	Arm          key.Binding
	Exact        key.Binding
	Snap         key.Binding
	NudgeLeft    key.Binding
	NudgeRight   key.Binding
	Cancel       key.Binding
	PrevDay      key.Binding
	NextDay      key.Binding
	Today        key.Binding
	EarlierStart key.Binding
	LaterStart   key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Voice        key.Binding
	NewActivity  key.Binding
	Theme        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Undo:         key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:         key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "redo")),
		Paint:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "paint")),
		Erase:        key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "erase")),
		NewRange:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "range")),
		PlanRange:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "plan range")),
		Select:       key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "select")),
		NextBrush:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "brush")),
		PrevBrush:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev brush")),
		Surface:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "actual/plan")),
		Arm:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "arm resize")),
		Exact:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "keep exact")),
		Snap:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snap")),
		NudgeLeft:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-1m")),
		NudgeRight:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+1m")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		PrevDay:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev day")),
		NextDay:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		Today:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		EarlierStart: key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "start earlier")),
		LaterStart:   key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "start later")),
		ScrollUp:     key.NewBinding(key.WithKeys("pgup", "k", "up"), key.WithHelp("pgup", "scroll")),
		ScrollDown:   key.NewBinding(key.WithKeys("pgdown", "j", "down"), key.WithHelp("pgdn", "scroll")),
		Voice:        key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "add line")),
		NewActivity:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new activity")),
		Theme:        key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Paint, k.Erase, k.NewRange, k.PlanRange, k.Select, k.NextBrush, k.Undo, k.Redo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Paint, k.Erase, k.NewRange, k.PlanRange, k.Select},
		{k.NextBrush, k.PrevBrush, k.Surface, k.NewActivity, k.Voice},
		{k.Arm, k.Exact, k.Snap, k.NudgeLeft, k.NudgeRight, k.Cancel},
		{k.Undo, k.Redo, k.PrevDay, k.NextDay, k.Today, k.ScrollUp, k.ScrollDown},
		{k.EarlierStart, k.LaterStart},
		{k.Theme, k.Help, k.Quit},
	}
}

// checklistKeys are active while the checklist panel is open.
type checklistKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Add    key.Binding
	Remove key.Binding
	Delete key.Binding
	Close  key.Binding
}

func defaultChecklistKeys() checklistKeys {
	return checklistKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Add:    key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "add item")),
		Remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove item")),
		Delete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete checklist")),
		Close:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
	}
}

func (k checklistKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Remove, k.Delete, k.Close}
}

func (k checklistKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
