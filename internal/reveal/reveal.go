// Package reveal implements the typewriter reveal used to animate incoming
// narrator messages: a text is revealed one character per step, and the
// caller is notified exactly once when the whole text is shown.
//
// A Revealer is a pure factory. It keeps no registry of running tasks; the
// owner of a message slot cancels the old task before starting a new one.
package reveal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"storyloom/internal/logging"
)

// ErrNegativeInterval is returned by Start when the step interval is below zero.
var ErrNegativeInterval = errors.New("reveal: negative interval")

// Status is the lifecycle state of a Task.
type Status int

const (
	StatusPending Status = iota
	StatusRevealing
	StatusCompleted
	StatusCancelled
)

// String returns the display name for each status
func (s Status) String() string {
	names := []string{"pending", "revealing", "completed", "cancelled"}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Terminal reports whether no further callbacks can happen in this state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Revealer starts reveal tasks on a Scheduler.
type Revealer struct {
	sched Scheduler
}

// New returns a Revealer driven by sched.
func New(sched Scheduler) *Revealer {
	if sched == nil {
		panic("reveal: nil scheduler")
	}
	return &Revealer{sched: sched}
}

// Task is one run of the typewriter animation for a single text. It doubles
// as the caller's handle: Cancel stops it, Status and Prefix inspect it.
type Task struct {
	text       []rune
	interval   time.Duration
	sched      Scheduler
	onProgress func(prefix string)
	onComplete func()

	mu       sync.Mutex
	revealed int
	status   Status
	timer    Timer
	done     chan struct{}
}

// Start begins revealing text, one character (rune) every interval.
//
// onProgress receives each new prefix, growing by exactly one character per
// call. onComplete fires once after the last character, or once on its own
// when text is empty. Neither callback runs before Start returns. Both may be
// nil.
func (r *Revealer) Start(text string, interval time.Duration, onProgress func(prefix string), onComplete func()) (*Task, error) {
	if interval < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeInterval, interval)
	}

	t := &Task{
		text:       []rune(text),
		interval:   interval,
		sched:      r.sched,
		onProgress: onProgress,
		onComplete: onComplete,
		status:     StatusPending,
		done:       make(chan struct{}),
	}

	first := interval
	if len(t.text) == 0 {
		first = 0
	}

	t.mu.Lock()
	t.status = StatusRevealing
	t.timer = r.sched.Schedule(first, t.step)
	t.mu.Unlock()

	logging.RevealDebug("task started: %d chars, interval %s", len(t.text), interval)
	return t, nil
}

// step reveals the next character and, on the last one, completes the task.
func (t *Task) step() {
	t.mu.Lock()
	if t.status != StatusRevealing {
		t.mu.Unlock()
		return
	}
	t.timer = nil

	if t.revealed < len(t.text) {
		t.revealed++
		prefix := string(t.text[:t.revealed])
		t.mu.Unlock()

		if t.onProgress != nil {
			t.onProgress(prefix)
		}

		t.mu.Lock()
		if t.status != StatusRevealing {
			// Cancelled from inside onProgress.
			t.mu.Unlock()
			return
		}
	}

	if t.revealed < len(t.text) {
		t.timer = t.sched.Schedule(t.interval, t.step)
		t.mu.Unlock()
		return
	}

	t.status = StatusCompleted
	t.mu.Unlock()

	if t.onComplete != nil {
		t.onComplete()
	}
	close(t.done)
	logging.RevealDebug("task completed: %d chars", len(t.text))
}

// Cancel stops the task. It is idempotent, and a no-op on a completed task.
// Once Cancel returns no further onProgress or onComplete call is made, even
// for a step whose delay already elapsed. Cancel may be called from inside
// the task's own callbacks.
func (t *Task) Cancel() {
	t.mu.Lock()
	if t.status.Terminal() {
		t.mu.Unlock()
		return
	}
	t.status = StatusCancelled
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	revealed := t.revealed
	t.mu.Unlock()

	close(t.done)
	logging.RevealDebug("task cancelled at %d/%d chars", revealed, len(t.text))
}

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Revealed returns how many characters have been revealed so far.
func (t *Task) Revealed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revealed
}

// Prefix returns the currently revealed prefix.
func (t *Task) Prefix() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.text[:t.revealed])
}

// Text returns the full text being revealed.
func (t *Task) Text() string {
	return string(t.text)
}

// Interval returns the delay between steps.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Done is closed when the task completes or is cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
