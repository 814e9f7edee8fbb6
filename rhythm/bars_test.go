package rhythm

import (
	"testing"

	"github.com/robmorgan/scorefollow/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioBars() *BarIndex {
	return NewBarIndex([]score.BarEvent{
		{Tick: 0, BarNumber: 1},
		{Tick: 50, BarNumber: 2},
		{Tick: 100, BarNumber: 3},
	}, NewMapper(0, 100, 0, 10))
}

func TestBarIndexScenario(t *testing.T) {
	t.Parallel()

	idx := scenarioBars()
	require.Equal(t, []Bar{{1, 0}, {2, 5}, {3, 10}}, idx.Bars())

	assert.Equal(t, 2, idx.CurrentBar(7))
	assert.Equal(t, NoBar, idx.CurrentBar(-1))
	assert.Equal(t, 3, idx.CurrentBar(10))
	assert.Equal(t, 1, idx.CurrentBar(0))
	assert.Equal(t, 1, idx.CurrentBar(4.999))
}

func TestBarIndexSortsByTimeNotNumber(t *testing.T) {
	t.Parallel()

	// flow order is not time order and the pickup bar is numbered 0
	idx := NewBarIndex([]score.BarEvent{
		{Tick: 40, BarNumber: 2},
		{Tick: 0, BarNumber: 0},
		{Tick: 10, BarNumber: 1},
	}, NewMapper(0, 40, 0, 4))

	assert.Equal(t, []Bar{{0, 0}, {1, 1}, {2, 4}}, idx.Bars())
	assert.Equal(t, 0, idx.CurrentBar(0.5))
	assert.Equal(t, 1, idx.CurrentBar(3.9))
}

func TestCurrentBarIsMonotonic(t *testing.T) {
	t.Parallel()

	idx := scenarioBars()
	prev := idx.CurrentBar(-5)
	require.Equal(t, NoBar, prev)
	for ts := -5.0; ts <= 15; ts += 0.01 {
		cur := idx.CurrentBar(ts)
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestStartOf(t *testing.T) {
	t.Parallel()

	idx := scenarioBars()

	start, ok := idx.StartOf(7)
	require.True(t, ok)
	assert.Equal(t, 5.0, start)

	_, ok = idx.StartOf(-0.1)
	assert.False(t, ok)

	empty := NewBarIndex(nil, NewMapper(0, 1, 0, 1))
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, NoBar, empty.CurrentBar(100))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	idx := scenarioBars()

	s := idx.Snapshot(7.5, 0)
	assert.Equal(t, 2, s.Bar)
	assert.Equal(t, 5.0, s.BarStart)
	assert.Equal(t, 5.0, s.BarLength)
	assert.InDelta(t, 0.5, s.BarPhase, 1e-9)
	assert.InDelta(t, 2.5, s.DistanceFromBar(), 1e-9)
	assert.Equal(t, "2.50", s.Marker())

	// the final bar borrows its length from the configuration
	s = idx.Snapshot(11, 4)
	assert.Equal(t, 3, s.Bar)
	assert.InDelta(t, 0.25, s.BarPhase, 1e-9)

	s = idx.Snapshot(-2, 4)
	assert.Equal(t, NoBar, s.Bar)
	assert.Equal(t, "-", s.Marker())
}
