package midi

import (
	"bytes"
	"testing"

	"github.com/robmorgan/scorefollow/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func encode(t *testing.T, tracks ...smf.Track) *bytes.Buffer {
	t.Helper()

	s := smf.New()
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestImport(t *testing.T) {
	t.Parallel()

	var tr smf.Track
	tr.Add(0, smf.MetaTimeSig(3, 4, 24, 8))
	tr.Add(0, midi.NoteOn(0, 72, 100))
	tr.Add(0, midi.NoteOn(1, 40, 90))
	tr.Add(960, midi.NoteOff(0, 72))
	tr.Add(0, midi.NoteOn(0, 74, 100))
	tr.Add(4800, midi.NoteOff(1, 40))
	// a note on with zero velocity ends the note
	tr.Add(0, midi.NoteOn(0, 74, 0))
	tr.Close(0)

	td, err := Import(encode(t, tr), Options{MusicStartSeconds: 1.5, HrefPrefix: "m-"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), td.Meta.MinTick)
	assert.Equal(t, int64(5760), td.Meta.MaxTick)
	assert.Equal(t, 1.5, td.Meta.MusicStartSeconds)
	assert.Equal(t, map[int]score.ChannelStats{
		0: {Count: 2, MinPitch: 72, MaxPitch: 74},
		1: {Count: 1, MinPitch: 40, MaxPitch: 40},
	}, td.Meta.Channels)

	assert.Equal(t, []score.NoteEvent{
		{StartTick: 0, EndTick: 960, Channel: 0, Hrefs: []string{"m-t0-n0"}},
		{StartTick: 0, EndTick: 5760, Channel: 1, Hrefs: []string{"m-t0-n1"}},
		{StartTick: 960, EndTick: 5760, Channel: 0, Hrefs: []string{"m-t0-n2"}},
	}, td.Flow.Notes())

	// 3/4 at 960 ticks per quarter
	assert.Equal(t, []score.BarEvent{
		{Tick: 0, BarNumber: 1},
		{Tick: 2880, BarNumber: 2},
	}, td.Flow.Bars())
}

func TestImportClosesHangingNotes(t *testing.T) {
	t.Parallel()

	var tr smf.Track
	tr.Add(0, midi.NoteOn(2, 60, 100))
	tr.Add(480, midi.NoteOn(2, 62, 100))
	tr.Close(480)

	td, err := Import(encode(t, tr), Options{})
	require.NoError(t, err)

	notes := td.Flow.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, int64(960), notes[0].EndTick)
	assert.Equal(t, int64(960), notes[1].EndTick)
	assert.Equal(t, "t0-n1", notes[1].Hrefs[0])
}

func TestImportWithoutNotes(t *testing.T) {
	t.Parallel()

	var tr smf.Track
	tr.Add(0, smf.MetaTimeSig(4, 4, 24, 8))
	tr.Close(0)

	_, err := Import(encode(t, tr), Options{})
	require.ErrorIs(t, err, ErrNoNotes)
}

func TestImportRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Import(bytes.NewBufferString("not a midi file"), Options{})
	require.Error(t, err)
}

func TestLayoutBars(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		sigs     []timeSig
		end      int64
		expected []int64
	}{
		{"default four four", nil, 4000, []int64{0, 1920, 3840}},
		{"change on a bar line", []timeSig{{tick: 1920, num: 2, denom: 4}}, 3841, []int64{0, 1920, 2880, 3840}},
		{"change inside a bar waits for the next bar line", []timeSig{{tick: 100, num: 6, denom: 8}}, 4800, []int64{0, 1920, 3360}},
		{"empty", nil, 0, nil},
	}

	for _, testCase := range testCases {
		// capture range variable so that it doesn't change as the test runs in parallel
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var ticks []int64
			for i, b := range layoutBars(testCase.sigs, 480, testCase.end) {
				assert.Equal(t, i+1, b.BarNumber)
				ticks = append(ticks, b.Tick)
			}
			assert.Equal(t, testCase.expected, ticks)
		})
	}
}
