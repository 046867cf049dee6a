package gesture

import (
	"sort"
	"time"
)

// Timer is a pending deferred callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped a pending timer.
	Stop() bool
}

// Scheduler runs deferred callbacks on the caller's event loop. Callbacks
// must never run concurrently with pointer handling.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ManualScheduler fires callbacks only when Advance is called. It drives the
// controller deterministically in tests and headless replays.
type ManualScheduler struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc schedules f to run once d has elapsed on the manual clock.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the manual clock forward, firing due callbacks in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].at != s.pending[j].at {
				return s.pending[i].at < s.pending[j].at
			}
			return s.pending[i].seq < s.pending[j].seq
		})
		if len(s.pending) == 0 || s.pending[0].at > target {
			break
		}
		t := s.pending[0]
		s.pending = s.pending[1:]
		s.now = t.at
		if t.stopped {
			continue
		}
		t.fired = true
		t.f()
	}
	s.now = target
}

// Pending counts timers that are neither stopped nor fired.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
