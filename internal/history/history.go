package history

import (
	"errors"
	"maps"
	"slices"

	"github.com/ramanasai/dayline/internal/block"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultDepth bounds the undo stack when no depth is configured.
const DefaultDepth = 100

// Snapshot is the restorable state of one active date.
type Snapshot struct {
	Date string
	Day  []block.Block
	Plan []block.Block
	// Fine holds the date's minute-precision bounds.
	Fine  map[block.Signature]block.FineBounds
	Tool  string
	Brush string
}

// Equal compares the block content and tool selection of two snapshots.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Date == o.Date && s.Tool == o.Tool && s.Brush == o.Brush &&
		slices.Equal(s.Day, o.Day) && slices.Equal(s.Plan, o.Plan) &&
		maps.Equal(s.Fine, o.Fine)
}

// Source captures and restores the live state. Capture must deep-copy.
type Source interface {
	Capture() Snapshot
	Restore(Snapshot)
}

// Manager keeps bounded undo and redo stacks of snapshots.
type Manager struct {
	src   Source
	depth int
	undo  []Snapshot
	redo  []Snapshot

	// held keeps what the latest Push dropped until the step proves to be
	// a real change.
	held struct {
		redo    []Snapshot
		evicted []Snapshot
		ok      bool
	}
}

// New returns a manager over src. depth <= 0 selects DefaultDepth.
func New(src Source, depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{src: src, depth: depth}
}

// Push records the current state before a mutation and clears redo. The
// cleared redo stack comes back if DiscardIfUnchanged later drops the step.
func (m *Manager) Push() {
	m.held.redo, m.held.evicted, m.held.ok = m.redo, nil, true
	m.undo = append(m.undo, m.src.Capture())
	if over := len(m.undo) - m.depth; over > 0 {
		m.held.evicted = slices.Clone(m.undo[:over])
		m.undo = slices.Delete(m.undo, 0, over)
	}
	m.redo = nil
}

// DiscardIfUnchanged drops the most recent snapshot when the live state still
// equals it, so gestures that changed nothing leave no undo step.
func (m *Manager) DiscardIfUnchanged() bool {
	if len(m.undo) == 0 {
		return false
	}
	top := m.undo[len(m.undo)-1]
	if !top.Equal(m.src.Capture()) {
		m.release()
		return false
	}
	m.undo = m.undo[:len(m.undo)-1]
	if m.held.ok {
		m.undo = append(m.held.evicted, m.undo...)
		m.redo = m.held.redo
	}
	m.release()
	return true
}

func (m *Manager) release() {
	m.held.redo, m.held.evicted, m.held.ok = nil, nil, false
}

// Undo restores the most recent snapshot.
func (m *Manager) Undo() error {
	if len(m.undo) == 0 {
		return ErrNothingToUndo
	}
	m.release()
	snap := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.src.Capture())
	m.src.Restore(snap)
	return nil
}

// Redo re-applies the most recently undone state.
func (m *Manager) Redo() error {
	if len(m.redo) == 0 {
		return ErrNothingToRedo
	}
	m.release()
	snap := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, m.src.Capture())
	m.src.Restore(snap)
	return nil
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the undo and redo stack sizes.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

// Reset clears both stacks, e.g. when the active date changes.
func (m *Manager) Reset() {
	m.undo, m.redo = nil, nil
	m.release()
}
