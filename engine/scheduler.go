package engine

import (
	"github.com/robmorgan/scorefollow/palette"
	"github.com/robmorgan/scorefollow/rhythm"
	"github.com/sirupsen/logrus"
)

// Tick runs one scheduling frame: it reads the audio clock and updates the highlighted notes and bar.
// Tick does nothing unless the engine is playing. Hosts that drive their own render loop call it once per
// frame; otherwise the internal frame loop calls it.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed || e.state != Playing {
		return
	}
	e.frameLocked()
}

// UpdateVisualSync rebuilds the highlighted state from scratch for visual time t. Unlike a frame it may
// move backward, and it can be called in any state, including before the first frame.
func (e *Engine) UpdateVisualSync(t float64) {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed {
		return
	}
	e.syncLocked(t)
}

func (e *Engine) frameLocked() {
	t := e.visualTime()
	if !e.swept || t < e.last {
		// the forward sweep only holds for increasing time
		e.syncLocked(t)
		return
	}
	e.sweepLocked(t)
}

// sweepLocked advances the state incrementally to t. remaining is consumed from its head, so a frame
// costs the number of notes starting or ending in it.
func (e *Engine) sweepLocked(t float64) {
	for e.next < len(e.notes) && e.notes[e.next].StartTime <= t {
		n := e.notes[e.next]
		e.next++
		n.setActive(true)
		e.active = append(e.active, n)
	}

	kept := e.active[:0]
	for _, n := range e.active {
		if n.EndTime <= t {
			n.setActive(false)
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = kept

	e.showBarLocked(e.bars.CurrentBar(t))
	e.last = t
	e.swept = true
}

// syncLocked partitions the whole note list against t.
func (e *Engine) syncLocked(t float64) {
	for _, n := range e.active {
		n.setActive(false)
	}
	e.active = nil

	e.next = rhythm.SearchSorted(e.startTimes, t)
	for _, n := range e.notes[:e.next] {
		if t < n.EndTime {
			n.setActive(true)
			e.active = append(e.active, n)
		}
	}

	e.showBarLocked(e.bars.CurrentBar(t))
	e.last = t
	e.swept = true

	e.log.WithFields(logrus.Fields{"visual_time": t, "active": len(e.active), "bar": e.shownBar}).
		Debug("Visual state rebuilt")
}

func (e *Engine) showBarLocked(bar int) {
	if bar == e.shownBar {
		return
	}

	prev := e.shownBar
	for _, el := range e.barElements[prev] {
		el.SetVisible(false)
	}
	for _, el := range e.barElements[bar] {
		el.SetVisible(true)
	}
	e.shownBar = bar

	e.log.WithFields(logrus.Fields{"prev": prev, "bar": bar}).Debug("Bar changed")
	if e.onBarChange != nil {
		e.notify(func() { e.onBarChange(prev, bar) })
	}
}

// resetLocked clears every highlight and returns all notes to remaining.
func (e *Engine) resetLocked() {
	for _, n := range e.active {
		n.setActive(false)
	}
	e.active = nil
	e.next = 0
	e.showBarLocked(rhythm.NoBar)
	e.swept = false
	e.last = 0
}

// CurrentBar returns the number of the bar currently shown, or rhythm.NoBar.
func (e *Engine) CurrentBar() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shownBar
}

// ActiveHrefs returns the hrefs of the notes currently sounding, in start order.
func (e *Engine) ActiveHrefs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []string
	for _, n := range e.active {
		out = append(out, n.Hrefs...)
	}
	return out
}

// Snapshot returns where the current visual time falls on the bar timeline.
func (e *Engine) Snapshot() rhythm.Snapshot {
	return e.bars.Snapshot(e.visualTime(), e.cfg.LastBarDuration)
}

// Stats are diagnostic counters of an Engine.
type Stats struct {
	ID              string
	State           State
	TotalNotes      int
	ActiveNotes     int
	RemainingNotes  int
	Bars            int
	Elements        int
	UnresolvedHrefs int
	CurrentBar      int
	Seeking         bool
	SnapPending     bool
	Colors          palette.ColorMap
}

// Stats returns the diagnostic counters of the engine.
func (e *Engine) Stats() Stats {
	colors := e.Colors()

	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		ID:              e.id,
		State:           e.state,
		TotalNotes:      len(e.notes),
		ActiveNotes:     len(e.active),
		RemainingNotes:  len(e.notes) - e.next,
		Bars:            e.bars.Len(),
		Elements:        e.elements,
		UnresolvedHrefs: e.unresolved,
		CurrentBar:      e.shownBar,
		Seeking:         e.seek.state == UserSeeking,
		SnapPending:     e.seek.timer.Pending(),
		Colors:          colors,
	}
}
