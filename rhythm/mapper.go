package rhythm

// Mapper converts score ticks into playback seconds.
//
// The calibration is proportional: the tick range [minTick,maxTick] is stretched linearly over the
// interval between the first sounding note (musicStartSeconds) and the end of the recording. A score
// whose tick range is empty maps every tick to musicStartSeconds.
type Mapper struct {
	minTick           int64
	maxTick           int64
	musicStartSeconds float64
	totalDuration     float64
}

// NewMapper creates a Mapper for a score spanning [minTick,maxTick] and a recording lasting
// totalDurationSeconds.
func NewMapper(minTick, maxTick int64, musicStartSeconds, totalDurationSeconds float64) Mapper {
	return Mapper{
		minTick:           minTick,
		maxTick:           maxTick,
		musicStartSeconds: musicStartSeconds,
		totalDuration:     totalDurationSeconds,
	}
}

// TickToSeconds returns the playback time, in seconds, of a score tick.
func (m Mapper) TickToSeconds(tick int64) float64 {
	if m.maxTick == m.minTick {
		return m.musicStartSeconds
	}

	musicalTime := float64(tick-m.minTick) / float64(m.maxTick-m.minTick) * (m.totalDuration - m.musicStartSeconds)
	return musicalTime + m.musicStartSeconds
}

// SecondsPerTick returns the length of a single tick. It is zero for a degenerate score.
func (m Mapper) SecondsPerTick() float64 {
	if m.maxTick == m.minTick {
		return 0
	}
	return (m.totalDuration - m.musicStartSeconds) / float64(m.maxTick-m.minTick)
}
