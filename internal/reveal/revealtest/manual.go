// Package revealtest provides a deterministic virtual-time Scheduler for tests.
package revealtest

import (
	"sort"
	"sync"
	"time"

	"storyloom/internal/reveal"
)

// ManualScheduler runs scheduled steps only when the test advances its
// virtual clock. Steps due at the same instant run in scheduling order.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	entries []*entry
}

type entry struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements reveal.Scheduler.
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) reveal.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e := &entry{s: s, at: s.now + delay, seq: s.seq, fn: fn}
	s.entries = append(s.entries, e)
	return e
}

// Stop implements reveal.Timer.
func (e *entry) Stop() bool {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.stopped {
		return false
	}
	for i, other := range e.s.entries {
		if other == e {
			e.stopped = true
			e.s.entries = append(e.s.entries[:i], e.s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// next removes and returns the earliest entry due at or before limit.
func (s *ManualScheduler) next(limit time.Duration, bounded bool) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return nil
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].at != s.entries[j].at {
			return s.entries[i].at < s.entries[j].at
		}
		return s.entries[i].seq < s.entries[j].seq
	})
	e := s.entries[0]
	if bounded && e.at > limit {
		return nil
	}
	s.entries = s.entries[1:]
	if e.at > s.now {
		s.now = e.at
	}
	return e
}

// Advance moves the clock forward by d, running every step that falls due,
// including steps scheduled by the steps it runs. It returns how many ran.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	ran := 0
	for {
		e := s.next(target, true)
		if e == nil {
			break
		}
		e.fn()
		ran++
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
	return ran
}

// RunNext jumps to the earliest pending step and runs it.
// It reports false when nothing is pending.
func (s *ManualScheduler) RunNext() bool {
	e := s.next(0, false)
	if e == nil {
		return false
	}
	e.fn()
	return true
}

// RunAll runs pending steps until none remain or max steps have run.
// It returns how many ran.
func (s *ManualScheduler) RunAll(max int) int {
	ran := 0
	for ran < max && s.RunNext() {
		ran++
	}
	return ran
}

// Pending returns the number of steps waiting to run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
