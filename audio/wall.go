package audio

import (
	"sync"
	"time"

	"github.com/robmorgan/scorefollow/engine/scale"
	"k8s.io/utils/clock"
)

// WallClock simulates the transport of a recording of a given duration on a clock, without producing
// sound. It reports play, pause, seek and end signals to its Listener the way a media element does.
type WallClock struct {
	clock    clock.WithDelayedExecution
	duration float64

	mu        sync.Mutex
	listener  Listener
	playing   bool
	base      float64
	startedAt time.Time
	endTimer  clock.Timer
	gen       uint64
}

// NewWallClock creates a paused transport at position 0.
func NewWallClock(c clock.WithDelayedExecution, durationSeconds float64) *WallClock {
	return &WallClock{
		clock:    c,
		duration: durationSeconds,
		listener: nopListener{},
	}
}

// Attach sets the listener that receives lifecycle signals.
func (w *WallClock) Attach(l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l == nil {
		l = nopListener{}
	}
	w.listener = l
}

func (w *WallClock) Duration() float64 {
	return w.duration
}

func (w *WallClock) Position() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.positionLocked()
}

func (w *WallClock) positionLocked() float64 {
	pos := w.base
	if w.playing {
		pos += w.clock.Since(w.startedAt).Seconds()
	}
	return scale.Clamp(pos, 0, w.duration)
}

// Play starts the transport from the current position.
func (w *WallClock) Play() {
	w.mu.Lock()
	if w.playing || w.base >= w.duration {
		w.mu.Unlock()
		return
	}
	w.playing = true
	w.startedAt = w.clock.Now()
	w.armEndLocked()
	l := w.listener
	w.mu.Unlock()

	l.HandlePlay()
}

// Pause freezes the transport at the current position.
func (w *WallClock) Pause() {
	w.mu.Lock()
	if !w.playing {
		w.mu.Unlock()
		return
	}
	w.base = w.positionLocked()
	w.playing = false
	w.disarmEndLocked()
	l := w.listener
	w.mu.Unlock()

	l.HandlePause()
}

// SetPosition seeks the transport. The position moves first; the listener then sees a seeking signal
// followed by a seeked signal.
func (w *WallClock) SetPosition(seconds float64) {
	w.mu.Lock()
	w.base = scale.Clamp(seconds, 0, w.duration)
	if w.playing {
		w.startedAt = w.clock.Now()
		w.armEndLocked()
	}
	l := w.listener
	w.mu.Unlock()

	l.HandleSeeking()
	l.HandleSeeked()
}

func (w *WallClock) armEndLocked() {
	w.disarmEndLocked()
	gen := w.gen
	remaining := time.Duration((w.duration - w.base) * float64(time.Second))
	w.endTimer = w.clock.AfterFunc(remaining, func() {
		// fake clocks invoke callbacks while holding their own lock
		go w.ended(gen)
	})
}

func (w *WallClock) disarmEndLocked() {
	w.gen++
	if w.endTimer != nil {
		w.endTimer.Stop()
		w.endTimer = nil
	}
}

func (w *WallClock) ended(gen uint64) {
	w.mu.Lock()
	if gen != w.gen || !w.playing {
		w.mu.Unlock()
		return
	}
	w.base = w.duration
	w.playing = false
	w.endTimer = nil
	l := w.listener
	w.mu.Unlock()

	l.HandleEnded()
}
