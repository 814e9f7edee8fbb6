package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShow(t *testing.T) {
	t.Parallel()

	show, err := LoadShow(strings.NewReader(`
playback:
  total_duration_seconds: 95
  visual_lead_time_seconds: -0.05
outputs:
  console:
    rules: [bold]
  dmx:
    fixtures:
      - {universe: 1, address: 1}
      - {universe: 1, address: 4}
    bar_channel: {universe: 1, address: 100}
  osc:
    host: 127.0.0.1
    port: 9000
  status: {}
`))
	require.NoError(t, err)

	assert.Equal(t, 95.0, show.Playback.TotalDurationSeconds)
	assert.Equal(t, DefaultSeekDebounce, show.Playback.SeekDebounce)
	assert.Equal(t, []string{"bold"}, show.Outputs.Console.Rules)

	require.NotNil(t, show.Outputs.DMX)
	assert.Equal(t, DefaultOLAAddress, show.Outputs.DMX.OLAAddress)
	assert.Equal(t, DefaultDMXTick, show.Outputs.DMX.Tick)
	assert.Len(t, show.Outputs.DMX.Fixtures, 2)
	assert.Equal(t, 100, show.Outputs.DMX.BarChannel.Address)

	assert.Equal(t, 9000, show.Outputs.OSC.Port)
	assert.Equal(t, DefaultStatusAddr, show.Outputs.Status.Addr)
}

func TestLoadShowRejectsInvalidOutputs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		doc  string
	}{
		{"dmx without fixtures", "playback: {total_duration_seconds: 1}\noutputs: {dmx: {}}\n"},
		{"negative dmx tick", "playback: {total_duration_seconds: 1}\noutputs: {dmx: {tick: -1s, fixtures: [{universe: 1, address: 1}]}}\n"},
		{"osc without port", "playback: {total_duration_seconds: 1}\noutputs: {osc: {host: localhost}}\n"},
		{"unknown output", "playback: {total_duration_seconds: 1}\noutputs: {laser: {}}\n"},
	}

	for _, testCase := range testCases {
		// capture range variable so that it doesn't change as the test runs in parallel
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadShow(strings.NewReader(testCase.doc))
			require.Error(t, err)
		})
	}
}

func TestShowValidateNeedsDuration(t *testing.T) {
	t.Parallel()

	show, err := LoadShow(strings.NewReader("outputs: {}\n"))
	require.NoError(t, err)
	require.Error(t, show.Validate())

	show.Playback.TotalDurationSeconds = 30
	require.NoError(t, show.Validate())
}

func TestDMXTickFromYAML(t *testing.T) {
	t.Parallel()

	show, err := LoadShow(strings.NewReader("playback: {total_duration_seconds: 1}\noutputs: {dmx: {tick: 25ms, fixtures: [{universe: 1, address: 1}]}}\n"))
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, show.Outputs.DMX.Tick)
}
