package engine

import (
	"math"

	"github.com/robmorgan/scorefollow/debounce"
	"github.com/sirupsen/logrus"
)

// SeekState tells whether the user is dragging the playback position.
type SeekState int

const (
	// Idle means no user seek is in progress.
	Idle SeekState = iota
	// UserSeeking means the user moved the position and the snap has not run yet.
	UserSeeking
)

func (s SeekState) String() string {
	if s == UserSeeking {
		return "user-seeking"
	}
	return "idle"
}

// positionTolerance is how close the clock must be to a snap target for a seek signal to count as the
// echo of that snap.
const positionTolerance = 1e-3

type seekController struct {
	state        SeekState
	programmatic bool
	target       float64
	timer        *debounce.Timer
	seq          uint64
}

// SeekState returns whether a user seek is in progress.
func (e *Engine) SeekState() SeekState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seek.state
}

// HandleSeeking is called while the audio position is being moved. The visual state follows the new
// position immediately; the snap to a bar start waits for HandleSeeked.
func (e *Engine) HandleSeeking() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed || e.echoLocked() {
		return
	}
	e.beginUserSeekLocked()
	e.syncLocked(e.visualTime())
}

// HandleSeeked is called once the audio position has settled. After a user seek it schedules the snap
// to the start of the bar the new position falls in.
func (e *Engine) HandleSeeked() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed {
		return
	}
	if e.echoLocked() {
		e.seek.programmatic = false
		e.seek.state = Idle
		return
	}

	// a seek may arrive without a seeking signal
	e.beginUserSeekLocked()
	e.syncLocked(e.visualTime())

	seq := e.seek.seq
	e.seek.timer.Schedule(e.cfg.SeekDebounce, func() { e.snap(seq) })
}

// echoLocked reports whether the current seek signal was caused by the engine's own snap. A signal at
// a different position means the user moved on before the echo arrived.
func (e *Engine) echoLocked() bool {
	if !e.seek.programmatic {
		return false
	}
	if math.Abs(e.audio.Position()-e.seek.target) <= positionTolerance {
		return true
	}
	e.seek.programmatic = false
	return false
}

func (e *Engine) beginUserSeekLocked() {
	e.seek.timer.Cancel()
	e.seek.seq++
	if e.seek.state == UserSeeking {
		return
	}
	e.seek.state = UserSeeking
	e.log.WithField("position", e.audio.Position()).Debug("User seek started")
	e.notify(e.onSeekStart)
}

// snap ends user seek seq: it moves the audio to the start of the bar containing the lead-adjusted
// position, unless the position is already close enough.
func (e *Engine) snap(seq uint64) {
	e.mu.Lock()
	if e.disposed || e.seek.seq != seq || e.seek.state != UserSeeking {
		e.unlockAndNotify()
		return
	}

	e.seek.state = Idle
	e.notify(e.onSeekEnd)

	pos := e.audio.Position()
	barStart, ok := e.bars.StartOf(pos + e.cfg.VisualLeadTimeSeconds)
	if !ok {
		e.unlockAndNotify()
		return
	}
	target := math.Max(0, barStart)
	if math.Abs(target-pos) <= e.cfg.SnapThreshold {
		e.unlockAndNotify()
		return
	}

	e.seek.programmatic = true
	e.seek.target = target
	e.log.WithFields(logrus.Fields{"from": pos, "to": target}).Debug("Snapping to bar start")
	e.unlockAndNotify()

	// the clock may report the move synchronously
	e.audio.SetPosition(target)

	e.mu.Lock()
	defer e.unlockAndNotify()
	if e.disposed {
		return
	}
	e.syncLocked(e.visualTime())
}
