package debounce

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Timer runs at most one pending function after a delay. Scheduling again replaces the pending function
// and restarts the delay, so a burst of Schedule calls fires only once, after the last one.
type Timer struct {
	clock clock.WithDelayedExecution

	mu      sync.Mutex
	pending clock.Timer
	gen     uint64
}

// New creates a Timer driven by c.
func New(c clock.WithDelayedExecution) *Timer {
	return &Timer{clock: c}
}

// Schedule runs fn once delay has elapsed without another call to Schedule or Cancel.
func (t *Timer) Schedule(delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.pending = t.clock.AfterFunc(delay, func() {
		// fake clocks invoke callbacks while holding their own lock
		go t.fire(gen, fn)
	})
}

func (t *Timer) fire(gen uint64, fn func()) {
	t.mu.Lock()
	if t.gen != gen {
		// superseded or cancelled while the clock was firing
		t.mu.Unlock()
		return
	}
	t.pending = nil
	t.mu.Unlock()

	fn()
}

// Cancel drops the pending function, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
}

// Pending reports whether a function is waiting to run.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Timer) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
