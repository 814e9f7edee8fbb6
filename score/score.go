package score

// TimingData is the parsed timing description of one score: the tick range of the music and the flow of
// note and bar events that reference visual objects by href.
type TimingData struct {
	Meta *Meta `json:"meta"`
	Flow Flow  `json:"flow"`
}

// Meta holds the tick range and the per-channel pitch statistics of a score. It is immutable once loaded.
type Meta struct {
	MinTick           int64                `json:"minTick"`
	MaxTick           int64                `json:"maxTick"`
	MusicStartSeconds float64              `json:"musicStartSeconds"`
	Channels          map[int]ChannelStats `json:"channels"`
}

// ChannelStats aggregates the pitches played by a single channel (voice).
type ChannelStats struct {
	Count    int `json:"count"`
	MinPitch int `json:"minPitch"`
	MaxPitch int `json:"maxPitch"`
}

// Observe folds a single pitch into the statistics.
func (s *ChannelStats) Observe(pitch int) {
	if s.Count == 0 || pitch < s.MinPitch {
		s.MinPitch = pitch
	}
	if s.Count == 0 || pitch > s.MaxPitch {
		s.MaxPitch = pitch
	}
	s.Count++
}

// AveragePitch is the midpoint of the pitch range of the channel.
func (s ChannelStats) AveragePitch() float64 {
	return float64(s.MinPitch+s.MaxPitch) / 2
}

// Entry is a single decoded flow entry, either a NoteEvent or a BarEvent.
type Entry interface {
	// At returns the tick at which the entry starts.
	At() int64
}

// NoteEvent is a note sounding from StartTick until EndTick on a channel. Hrefs link it to the visual
// objects drawn for it.
type NoteEvent struct {
	StartTick int64
	EndTick   int64
	Channel   int
	Hrefs     []string
}

func (n NoteEvent) At() int64 { return n.StartTick }

// BarEvent marks the start of a bar. Bar numbers are not necessarily sequential: a pickup bar may be
// numbered 0.
type BarEvent struct {
	Tick      int64
	BarNumber int
}

func (b BarEvent) At() int64 { return b.Tick }

// Flow is the decoded sequence of note and bar entries.
type Flow []Entry

// Notes returns the note events of the flow in flow order.
func (f Flow) Notes() []NoteEvent {
	notes := make([]NoteEvent, 0, len(f))
	for _, e := range f {
		if n, ok := e.(NoteEvent); ok {
			notes = append(notes, n)
		}
	}
	return notes
}

// Bars returns the bar events of the flow in flow order.
func (f Flow) Bars() []BarEvent {
	bars := make([]BarEvent, 0)
	for _, e := range f {
		if b, ok := e.(BarEvent); ok {
			bars = append(bars, b)
		}
	}
	return bars
}
