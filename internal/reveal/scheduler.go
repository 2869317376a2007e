package reveal

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a pending scheduled step.
type Timer interface {
	// Stop prevents the step from running. It reports whether the call
	// stopped the step before it ran.
	Stop() bool
}

// Scheduler runs a step after a delay. Implementations must never run fn
// synchronously inside Schedule, and must run every step of a task on the
// same host goroutine (an event loop, a UI update loop, or a test driver).
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Timer
}

// Loop is a real-time single-goroutine host. Delays are measured with
// time.AfterFunc and the steps are executed serially on the loop goroutine.
// Code outside the loop interacts with tasks through Do.
type Loop struct {
	queue chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewLoop starts a loop goroutine. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		queue: make(chan func(), 64),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.quit:
			return
		}
	}
}

func (l *Loop) post(fn func()) bool {
	select {
	case l.queue <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Schedule implements Scheduler.
func (l *Loop) Schedule(delay time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(delay, func() {
		l.post(func() {
			if t.stopped.Load() {
				return
			}
			t.ran.Store(true)
			fn()
		})
	})
	return t
}

// Do runs fn on the loop goroutine and waits for it to return.
// It must not be called from the loop goroutine itself.
// Do returns false if the loop was closed before fn ran.
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	if !l.post(func() {
		fn()
		close(ran)
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Close stops the loop and waits for the loop goroutine to exit.
// Steps still pending are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	ran     atomic.Bool
}

// Stop also drops a step whose delay already elapsed but which is still
// queued on the loop.
func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return !t.ran.Load()
}
