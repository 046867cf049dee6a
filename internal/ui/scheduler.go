package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/dayline/internal/gesture"
)

// timerMsg is delivered when a scheduled callback is due.
type timerMsg struct{ id int }

// tickScheduler runs controller timers as tea.Tick commands so callbacks
// execute inside Update, never on another goroutine.
type tickScheduler struct {
	next   int
	timers map[int]func()
	queued []tea.Cmd
}

type tickTimer struct {
	s  *tickScheduler
	id int
}

func (t tickTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{timers: map[int]func(){}}
}

func (s *tickScheduler) AfterFunc(d time.Duration, f func()) gesture.Timer {
	s.next++
	id := s.next
	s.timers[id] = f
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	return tickTimer{s: s, id: id}
}

// fire runs the callback for id unless it was stopped.
func (s *tickScheduler) fire(id int) bool {
	f, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	f()
	return true
}

// drain returns the ticks scheduled since the last call.
func (s *tickScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

func (s *tickScheduler) pending() int { return len(s.timers) }
