// Package midi builds score timing data from a standard MIDI file. Notes get generated hrefs and bars are
// laid out from the time signatures of the file.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	commonerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/robmorgan/scorefollow/score"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

var (
	// ErrUnsupportedTimeFormat is returned for files timed in SMPTE frames instead of ticks per quarter.
	ErrUnsupportedTimeFormat = errors.New("only metric (ticks per quarter) MIDI files are supported")

	// ErrNoNotes is returned for files without a single complete note.
	ErrNoNotes = errors.New("MIDI file contains no notes")
)

// Options tune the import.
type Options struct {
	// MusicStartSeconds is the offset of tick 0 into the recording.
	MusicStartSeconds float64

	// HrefPrefix is prepended to every generated note href.
	HrefPrefix string
}

type timeSig struct {
	tick  int64
	num   int64
	denom int64
}

type pending struct {
	tick  int64
	index int
}

// Href returns the href generated for the index-th note of a track.
func Href(prefix string, track, index int) string {
	return fmt.Sprintf("%st%d-n%d", prefix, track, index)
}

// Import reads a MIDI file and returns its timing data. Tick 0 is the start of the music and the last
// note end is the end of it.
func Import(r io.Reader, opts Options) (*score.TimingData, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, commonerrors.WithStackTrace(err)
	}

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, ErrUnsupportedTimeFormat
	}

	log := logger.GetProjectLogger()
	meta := &score.Meta{MusicStartSeconds: opts.MusicStartSeconds, Channels: map[int]score.ChannelStats{}}

	var notes []score.NoteEvent
	var sigs []timeSig

	for ti, track := range s.Tracks {
		var abs int64
		open := map[[2]uint8][]pending{}
		count := 0

		for _, ev := range track {
			abs += int64(ev.Delta)

			var channel, key, velocity, num, denom, clocks, demis uint8
			switch {
			case ev.Message.GetNoteStart(&channel, &key, &velocity):
				k := [2]uint8{channel, key}
				notes = append(notes, score.NoteEvent{
					StartTick: abs,
					EndTick:   abs,
					Channel:   int(channel),
					Hrefs:     []string{Href(opts.HrefPrefix, ti, count)},
				})
				open[k] = append(open[k], pending{tick: abs, index: len(notes) - 1})
				count++

				stats := meta.Channels[int(channel)]
				stats.Observe(int(key))
				meta.Channels[int(channel)] = stats

			case ev.Message.GetNoteEnd(&channel, &key):
				k := [2]uint8{channel, key}
				if len(open[k]) == 0 {
					continue
				}
				// the oldest sounding note of that key ends first
				notes[open[k][0].index].EndTick = abs
				open[k] = open[k][1:]

			case ev.Message.GetMetaTimeSig(&num, &denom, &clocks, &demis):
				if num == 0 || denom == 0 {
					continue
				}
				sigs = append(sigs, timeSig{tick: abs, num: int64(num), denom: int64(denom)})
			}
		}

		for k, stack := range open {
			for _, p := range stack {
				notes[p.index].EndTick = abs
				log.WithFields(logrus.Fields{"track": ti, "channel": k[0], "key": k[1], "tick": p.tick}).
					Debug("Closing note left sounding at end of track")
			}
		}
	}

	if len(notes) == 0 {
		return nil, ErrNoNotes
	}

	slices.SortStableFunc(notes, func(a, b score.NoteEvent) bool {
		return a.StartTick < b.StartTick
	})
	for _, n := range notes {
		if n.EndTick > meta.MaxTick {
			meta.MaxTick = n.EndTick
		}
	}

	bars := layoutBars(sigs, int64(ticks.Ticks4th()), meta.MaxTick)

	flow := make(score.Flow, 0, len(notes)+len(bars))
	for _, b := range bars {
		flow = append(flow, b)
	}
	for _, n := range notes {
		flow = append(flow, n)
	}

	log.WithFields(logrus.Fields{
		"notes":    len(notes),
		"bars":     len(bars),
		"channels": len(meta.Channels),
		"max_tick": meta.MaxTick,
	}).Info("Imported MIDI file")

	return &score.TimingData{Meta: meta, Flow: flow}, nil
}

// ImportFile reads the MIDI file at path.
func ImportFile(path string, opts Options) (*score.TimingData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, commonerrors.WithStackTrace(err)
	}
	return Import(bytes.NewReader(data), opts)
}

// layoutBars returns a bar event at every bar line before end, numbered from 1. A time signature takes
// effect at the first bar line at or after its tick. Without any, the music is in 4/4.
func layoutBars(sigs []timeSig, perQuarter int64, end int64) []score.BarEvent {
	slices.SortStableFunc(sigs, func(a, b timeSig) bool {
		return a.tick < b.tick
	})

	cur := timeSig{num: 4, denom: 4}
	var bars []score.BarEvent
	for tick, number := int64(0), 1; tick < end; number++ {
		for len(sigs) > 0 && sigs[0].tick <= tick {
			cur = sigs[0]
			sigs = sigs[1:]
		}
		bars = append(bars, score.BarEvent{Tick: tick, BarNumber: number})

		length := perQuarter * 4 * cur.num / cur.denom
		if length <= 0 {
			break
		}
		tick += length
	}
	return bars
}
