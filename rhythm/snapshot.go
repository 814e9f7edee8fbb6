package rhythm

import (
	"fmt"
	"math"

	"github.com/robmorgan/scorefollow/engine/scale"
)

// Snapshot captures where a visual instant falls on the bar timeline of a score.
type Snapshot struct {
	// VisualTime is the lead-adjusted playback time the snapshot was computed for.
	VisualTime float64

	// Bar is the number of the current bar, or NoBar.
	Bar int

	// BarStart is the start time of the current bar in seconds.
	BarStart float64

	// BarLength is the length of the current bar in seconds. It is zero when unknown.
	BarLength float64

	// BarPhase is how far through the current bar VisualTime is, in [0,1].
	BarPhase float64
}

// Snapshot computes the position of t within the bar table. The final bar has no successor to measure
// against, so its length is taken from lastBarDuration.
func (b *BarIndex) Snapshot(t float64, lastBarDuration float64) Snapshot {
	s := Snapshot{VisualTime: t, Bar: NoBar}

	i := b.position(t)
	if i < 0 {
		return s
	}

	s.Bar = b.barNumbers[i]
	s.BarStart = b.startTimes[i]
	if i+1 < len(b.startTimes) {
		s.BarLength = b.startTimes[i+1] - s.BarStart
	} else if lastBarDuration > 0 {
		s.BarLength = lastBarDuration
	}

	if s.BarLength > 0 {
		s.BarPhase = scale.ToUnitClamp(s.BarStart, s.BarStart+s.BarLength)(t)
	}
	return s
}

// DistanceFromBar determines how far in time the snapshot is from its closest bar boundary.
func (s Snapshot) DistanceFromBar() float64 {
	if s.Bar == NoBar || s.BarLength == 0 {
		return math.Max(0, s.VisualTime-s.BarStart)
	}
	return math.Min(s.BarPhase, 1-s.BarPhase) * s.BarLength
}

// Marker returns the snapshot as "bar.phase", e.g. "12.50" for halfway through bar 12.
func (s Snapshot) Marker() string {
	if s.Bar == NoBar {
		return "-"
	}
	return fmt.Sprintf("%d.%02d", s.Bar, int(s.BarPhase*100))
}
