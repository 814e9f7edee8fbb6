package palette

import (
	"testing"

	"github.com/robmorgan/scorefollow/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stats(min, max int) score.ChannelStats {
	return score.ChannelStats{Count: 1, MinPitch: min, MaxPitch: max}
}

func TestAssignSingleChannel(t *testing.T) {
	t.Parallel()

	cm := Assign(map[int]score.ChannelStats{7: stats(30, 40)}, DefaultSize)
	assert.Equal(t, ColorMap{7: SopranoSlot}, cm)
}

func TestAssignOuterVoicesGetAnchors(t *testing.T) {
	t.Parallel()

	// channel ids deliberately unrelated to pitch order
	channels := map[int]score.ChannelStats{
		1: stats(48, 60), // avg 54, tenor
		2: stats(67, 81), // avg 74, soprano
		3: stats(36, 50), // avg 43, bass
		4: stats(55, 70), // avg 62.5, alto
	}

	cm := Assign(channels, DefaultSize)
	assert.Equal(t, ColorMap{2: SopranoSlot, 3: BassSlot, 4: 2, 1: 3}, cm)
}

func TestAssignTwoChannels(t *testing.T) {
	t.Parallel()

	cm := Assign(map[int]score.ChannelStats{0: stats(40, 44), 1: stats(70, 74)}, DefaultSize)
	assert.Equal(t, ColorMap{1: SopranoSlot, 0: BassSlot}, cm)
}

func TestAssignClampsToPalette(t *testing.T) {
	t.Parallel()

	channels := map[int]score.ChannelStats{}
	for ch := 0; ch < 8; ch++ {
		channels[ch] = stats(ch*10, ch*10)
	}

	cm := Assign(channels, 4)
	assert.Equal(t, SopranoSlot, cm[7])
	assert.Equal(t, BassSlot, cm[0])
	assert.Equal(t, 2, cm[6])
	assert.Equal(t, 3, cm[5])
	assert.Equal(t, 3, cm[4])
	assert.Equal(t, 3, cm[1])
}

func TestAssignKeepsBassAnchorInTinyPalette(t *testing.T) {
	t.Parallel()

	channels := map[int]score.ChannelStats{0: stats(70, 72), 1: stats(30, 32), 2: stats(50, 52)}
	cm := Assign(channels, 1)
	assert.Equal(t, ColorMap{0: SopranoSlot, 1: BassSlot, 2: BassSlot}, cm)
}

func TestAssignIsDeterministic(t *testing.T) {
	t.Parallel()

	channels := map[int]score.ChannelStats{
		5: stats(60, 60),
		3: stats(60, 60),
		9: stats(60, 60),
		1: stats(20, 22),
	}

	first := Assign(channels, DefaultSize)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Assign(channels, DefaultSize))
	}

	// ties are broken by channel id
	assert.Equal(t, SopranoSlot, first[3])
	assert.Equal(t, BassSlot, first[1])
	assert.Equal(t, 2, first[5])
	assert.Equal(t, 3, first[9])
}

func TestAssignEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Assign(nil, DefaultSize))
}

func TestColorMapLookup(t *testing.T) {
	t.Parallel()

	cm := ColorMap{4: 2}
	slot, ok := cm.Lookup(4)
	assert.True(t, ok)
	assert.Equal(t, 2, slot)

	_, ok = cm.Lookup(5)
	assert.False(t, ok)
}
