package palette

import (
	"github.com/robmorgan/scorefollow/score"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// SopranoSlot is the color index of the highest-sounding channel.
	SopranoSlot = 0

	// BassSlot is the color index of the lowest-sounding channel.
	BassSlot = 1
)

// ColorMap maps a channel to a color slot.
type ColorMap map[int]int

// Lookup returns the slot assigned to channel, or false when the channel was unknown at assignment time.
func (cm ColorMap) Lookup(channel int) (int, bool) {
	slot, ok := cm[channel]
	return slot, ok
}

// Assign gives every channel a color slot from its pitch statistics. The outer voices always get the
// anchor slots: the channel with the highest average pitch gets SopranoSlot and the one with the lowest
// gets BassSlot. Inner voices follow in descending pitch order from slot 2, and channels beyond the palette
// reuse the last slot. A single channel always gets slot 0.
//
// The bass anchor exists even when paletteSize is below 2: two or more channels always use BassSlot, so
// palettes handed to Assign should have at least two colors. config.PlaybackConfig.Validate enforces this.
//
// The result is deterministic for the same statistics: channels with equal average pitch are ordered by
// channel id.
func Assign(channels map[int]score.ChannelStats, paletteSize int) ColorMap {
	out := make(ColorMap, len(channels))
	if len(channels) == 0 {
		return out
	}

	ids := maps.Keys(channels)
	slices.SortFunc(ids, func(a, b int) bool {
		avgA, avgB := channels[a].AveragePitch(), channels[b].AveragePitch()
		if avgA != avgB {
			return avgA > avgB
		}
		return a < b
	})

	if len(ids) == 1 {
		out[ids[0]] = SopranoSlot
		return out
	}

	lastSlot := paletteSize - 1
	if lastSlot < BassSlot {
		lastSlot = BassSlot
	}

	out[ids[0]] = SopranoSlot
	out[ids[len(ids)-1]] = BassSlot

	slot := BassSlot + 1
	for _, id := range ids[1 : len(ids)-1] {
		out[id] = min(slot, lastSlot)
		slot++
	}

	return out
}
