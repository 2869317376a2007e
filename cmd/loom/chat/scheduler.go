package chat

import (
	"sort"
	"sync"
	"time"

	"storyloom/internal/reveal"

	tea "github.com/charmbracelet/bubbletea"
)

// revealTickMsg fires one scheduled reveal step on the Update goroutine.
type revealTickMsg struct {
	id uint64
}

// TickScheduler runs reveal steps through the bubbletea message loop, so
// every progress and completion callback executes inside Update. Schedule
// queues a tick command; the model drains the queue after each Update.
type TickScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func()
	queued  []tea.Cmd
}

// NewTickScheduler creates an empty scheduler.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{pending: make(map[uint64]func())}
}

// Schedule implements reveal.Scheduler.
func (s *TickScheduler) Schedule(delay time.Duration, fn func()) reveal.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.queued = append(s.queued, tickCmd(delay, id))
	return tickTimer{s: s, id: id}
}

func tickCmd(delay time.Duration, id uint64) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return revealTickMsg{id: id} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return revealTickMsg{id: id} })
}

// Drain returns the tick commands queued since the last call.
func (s *TickScheduler) Drain() tea.Cmd {
	s.mu.Lock()
	cmds := s.queued
	s.queued = nil
	s.mu.Unlock()

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Fire runs the step for id. Stopped or already-run steps are ignored.
func (s *TickScheduler) Fire(id uint64) bool {
	s.mu.Lock()
	fn, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	fn()
	return true
}

// Pending returns the number of steps waiting to fire.
func (s *TickScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// PendingIDs returns the ids of waiting steps in ascending order.
func (s *TickScheduler) PendingIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type tickTimer struct {
	s  *TickScheduler
	id uint64
}

func (t tickTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	_, ok := t.s.pending[t.id]
	delete(t.s.pending, t.id)
	return ok
}
