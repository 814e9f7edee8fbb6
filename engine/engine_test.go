package engine

import (
	"fmt"
	"testing"

	"github.com/robmorgan/scorefollow/audio"
	"github.com/robmorgan/scorefollow/config"
	"github.com/robmorgan/scorefollow/marker"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/robmorgan/scorefollow/rhythm"
	"github.com/robmorgan/scorefollow/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioBars maps ticks [0,100] onto ten seconds, so one tick is a tenth of a second.
var scenarioBars = []score.BarEvent{
	{Tick: 0, BarNumber: 1},
	{Tick: 50, BarNumber: 2},
	{Tick: 100, BarNumber: 3},
}

func note(start, end int64, channel int, hrefs ...string) score.NoteEvent {
	return score.NoteEvent{StartTick: start, EndTick: end, Channel: channel, Hrefs: hrefs}
}

func timing(bars []score.BarEvent, notes ...score.NoteEvent) *score.TimingData {
	flow := score.Flow{}
	for _, b := range bars {
		flow = append(flow, b)
	}
	for _, n := range notes {
		flow = append(flow, n)
	}
	return &score.TimingData{
		Meta: &score.Meta{MinTick: 0, MaxTick: 100},
		Flow: flow,
	}
}

type harness struct {
	engine *Engine
	clock  *audio.ManualClock
	rec    *marker.Recorder
}

func newHarness(t *testing.T, td *score.TimingData, mutate func(*Options)) *harness {
	t.Helper()

	cfg := config.NewPlaybackConfig(10)
	h := &harness{clock: audio.NewManualClock(), rec: marker.NewRecorder()}
	opts := Options{
		Timing:       td,
		Clock:        h.clock,
		Resolver:     h.rec,
		Config:       &cfg,
		ManualFrames: true,
	}
	if mutate != nil {
		mutate(&opts)
	}

	e, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(e.Dispose)
	h.engine = e
	return h
}

func TestNewRejectsIncompleteOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewPlaybackConfig(10)
	valid := func() Options {
		return Options{
			Timing:   timing(scenarioBars),
			Clock:    audio.NewManualClock(),
			Resolver: marker.NewRecorder(),
			Config:   &cfg,
		}
	}

	testCases := []struct {
		name   string
		mutate func(*Options)
		err    error
	}{
		{"no timing", func(o *Options) { o.Timing = nil }, ErrNoTimingData},
		{"no meta", func(o *Options) { o.Timing.Meta = nil }, ErrNoMeta},
		{"no flow", func(o *Options) { o.Timing.Flow = nil }, ErrNoFlow},
		{"no clock", func(o *Options) { o.Clock = nil }, ErrNoClock},
		{"no resolver", func(o *Options) { o.Resolver = nil }, ErrNoResolver},
		{"no config", func(o *Options) { o.Config = nil }, ErrNoConfig},
		{"inverted ticks", func(o *Options) { o.Timing.Meta.MinTick = 200 }, ErrInvalidMeta},
	}

	for _, testCase := range testCases {
		// capture range variable so that it doesn't change as the test runs in parallel
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := valid()
			testCase.mutate(&opts)
			_, err := New(opts)
			require.ErrorIs(t, err, testCase.err)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewPlaybackConfig(0)
	_, err := New(Options{
		Timing:   timing(scenarioBars),
		Clock:    audio.NewManualClock(),
		Resolver: marker.NewRecorder(),
		Config:   &cfg,
	})
	require.Error(t, err)
}

func TestEmptyFlowIsValid(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &score.TimingData{Meta: &score.Meta{MaxTick: 100}, Flow: score.Flow{}}, nil)
	require.NoError(t, h.engine.Start())
	h.clock.Advance(4)
	h.engine.Tick()

	assert.Equal(t, rhythm.NoBar, h.engine.CurrentBar())
	assert.Empty(t, h.engine.ActiveHrefs())
}

func TestNoteTimesAreComputedOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, timing(scenarioBars, note(60, 80, 0, "late"), note(0, 25, 0, "early")), nil)

	bars := h.engine.Bars()
	require.Len(t, bars, 3)
	assert.Equal(t, 2, bars[1].BarNumber)
	assert.InDelta(t, 5.0, bars[1].StartTime, 1e-9)
	assert.Len(t, bars[1].Elements, 1)

	notes := h.engine.notes
	require.Len(t, notes, 2)
	assert.Equal(t, []string{"early"}, notes[0].Hrefs)
	assert.InDelta(t, 0.0, notes[0].StartTime, 1e-9)
	assert.InDelta(t, 2.5, notes[0].EndTime, 1e-9)
	assert.InDelta(t, 6.0, notes[1].StartTime, 1e-9)
	assert.InDelta(t, 8.0, notes[1].EndTime, 1e-9)
}

func TestVoiceColorsAreApplied(t *testing.T) {
	t.Parallel()

	td := timing(scenarioBars,
		note(0, 10, 0, "soprano"),
		note(0, 10, 1, "bass"),
		note(0, 10, 2, "alto"),
	)
	td.Meta.Channels = map[int]score.ChannelStats{
		0: {Count: 1, MinPitch: 67, MaxPitch: 79},
		1: {Count: 1, MinPitch: 36, MaxPitch: 48},
		2: {Count: 1, MinPitch: 60, MaxPitch: 70},
	}
	h := newHarness(t, td, nil)

	slots := h.rec.Slots()
	assert.Equal(t, palette.SopranoSlot, slots["soprano"])
	assert.Equal(t, palette.BassSlot, slots["bass"])
	assert.Equal(t, 2, slots["alto"])
	assert.Len(t, h.engine.Colors(), 3)
}

func TestVoiceColorsStayInsideHexPalette(t *testing.T) {
	t.Parallel()

	td := timing(scenarioBars)
	td.Meta.Channels = map[int]score.ChannelStats{}
	for ch := 0; ch < 5; ch++ {
		td.Flow = append(td.Flow, note(0, 10, ch, fmt.Sprintf("voice-%d", ch)))
		td.Meta.Channels[ch] = score.ChannelStats{Count: 1, MinPitch: 40 + 5*ch, MaxPitch: 50 + 5*ch}
	}
	h := newHarness(t, td, func(o *Options) {
		o.Config.PaletteSize = 8
		o.Config.Palette = []string{"#ff0000", "#00ff00", "#0000ff"}
	})

	for ch, slot := range h.engine.Colors() {
		assert.Less(t, slot, 3, "channel %d", ch)
	}
	assert.Equal(t, 2, h.rec.Slots()["voice-1"])
	assert.Equal(t, 2, h.rec.Slots()["voice-2"])
}

func TestChannelMissingFromMetaStillGetsAColor(t *testing.T) {
	t.Parallel()

	td := timing(scenarioBars, note(0, 10, 0, "listed"), note(0, 10, 9, "unlisted"))
	td.Meta.Channels = map[int]score.ChannelStats{
		0: {Count: 1, MinPitch: 60, MaxPitch: 72},
	}
	h := newHarness(t, td, nil)

	slot, ok := h.engine.Colors().Lookup(9)
	require.True(t, ok)
	assert.Equal(t, slot, h.rec.Slots()["unlisted"])
	assert.Equal(t, palette.SopranoSlot, h.rec.Slots()["listed"])
}

func TestUnresolvedHrefsAreSkipped(t *testing.T) {
	t.Parallel()

	rec := marker.NewRecorder()
	rec.Missing["ghost"] = true
	h := newHarness(t, timing(scenarioBars, note(0, 25, 0, "ghost", "n1"), note(0, 25, 0, "ghost")), func(o *Options) {
		o.Resolver = rec
	})

	require.NoError(t, h.engine.Start())
	h.engine.Tick()

	stats := h.engine.Stats()
	assert.Equal(t, 2, stats.UnresolvedHrefs)
	assert.Equal(t, 1, stats.Elements)
	assert.Equal(t, 2, stats.ActiveNotes)
	assert.Equal(t, []string{"n1"}, rec.Active())
}

func TestStats(t *testing.T) {
	t.Parallel()

	h := newHarness(t, timing(scenarioBars, note(0, 25, 0, "n1"), note(60, 80, 0, "n2")), nil)
	stats := h.engine.Stats()
	assert.Equal(t, h.engine.ID(), stats.ID)
	assert.Equal(t, Stopped, stats.State)
	assert.Equal(t, 2, stats.TotalNotes)
	assert.Equal(t, 2, stats.RemainingNotes)
	assert.Equal(t, 3, stats.Bars)
	assert.Equal(t, rhythm.NoBar, stats.CurrentBar)

	require.NoError(t, h.engine.Start())
	h.clock.Advance(6.5)
	h.engine.Tick()

	stats = h.engine.Stats()
	assert.Equal(t, Playing, stats.State)
	assert.Equal(t, 1, stats.ActiveNotes)
	assert.Equal(t, 0, stats.RemainingNotes)
	assert.Equal(t, 2, stats.CurrentBar)
	assert.False(t, stats.Seeking)
}
