package rhythm

import (
	"github.com/robmorgan/scorefollow/score"
	"golang.org/x/exp/slices"
)

// NoBar is returned when the queried time precedes the first bar of the score.
const NoBar = -1

// BarIndex is a table of bar start times sorted ascending by time. Bar numbers are stored alongside and
// are not necessarily ascending: a pickup bar may be numbered 0 or out of sequence.
type BarIndex struct {
	startTimes []float64
	barNumbers []int
}

// Bar is a single row of the index.
type Bar struct {
	Number    int
	StartTime float64
}

// NewBarIndex computes the start time of every bar event and sorts them by time. Bars starting at the
// same time keep their flow order.
func NewBarIndex(events []score.BarEvent, m Mapper) *BarIndex {
	bars := make([]Bar, 0, len(events))
	for _, e := range events {
		bars = append(bars, Bar{Number: e.BarNumber, StartTime: m.TickToSeconds(e.Tick)})
	}

	slices.SortStableFunc(bars, func(a, b Bar) bool {
		return a.StartTime < b.StartTime
	})

	idx := &BarIndex{
		startTimes: make([]float64, len(bars)),
		barNumbers: make([]int, len(bars)),
	}
	for i, b := range bars {
		idx.startTimes[i] = b.StartTime
		idx.barNumbers[i] = b.Number
	}
	return idx
}

// Len returns the number of bars in the index.
func (b *BarIndex) Len() int {
	return len(b.startTimes)
}

// Bars returns a copy of the index rows in time order.
func (b *BarIndex) Bars() []Bar {
	out := make([]Bar, len(b.startTimes))
	for i := range b.startTimes {
		out[i] = Bar{Number: b.barNumbers[i], StartTime: b.startTimes[i]}
	}
	return out
}

// position returns the row of the bar containing t, or -1 if t precedes the first bar.
func (b *BarIndex) position(t float64) int {
	return SearchSorted(b.startTimes, t) - 1
}

// CurrentBar returns the number of the bar containing t, or NoBar.
func (b *BarIndex) CurrentBar(t float64) int {
	i := b.position(t)
	if i < 0 {
		return NoBar
	}
	return b.barNumbers[i]
}

// StartOf returns the start time of the bar containing t. The second return value is false when t
// precedes the first bar.
func (b *BarIndex) StartOf(t float64) (float64, bool) {
	i := b.position(t)
	if i < 0 {
		return 0, false
	}
	return b.startTimes[i], true
}
