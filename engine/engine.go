package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/robmorgan/scorefollow/audio"
	"github.com/robmorgan/scorefollow/config"
	"github.com/robmorgan/scorefollow/debounce"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/robmorgan/scorefollow/marker"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/robmorgan/scorefollow/rhythm"
	"github.com/robmorgan/scorefollow/score"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"k8s.io/utils/clock"
)

// FrameClock drives the frame loop and the seek debounce. clock.RealClock satisfies it.
type FrameClock interface {
	clock.WithTicker
	clock.WithDelayedExecution
}

// Options holds everything needed to build an Engine. Timing, Clock, Resolver and Config are required.
type Options struct {
	Timing   *score.TimingData
	Clock    audio.Clock
	Resolver marker.Resolver
	Config   *config.PlaybackConfig

	// Frames drives the frame loop and the seek debounce. Defaults to the real clock.
	Frames FrameClock

	// ManualFrames disables the internal frame loop. The host then calls Tick once per rendered frame.
	ManualFrames bool

	// OnBarChange is called once per distinct change of the shown bar. next is rhythm.NoBar when the
	// highlight is cleared.
	OnBarChange func(prev, next int)

	// OnSeekStart and OnSeekEnd bracket a user seek. OnSeekEnd fires once the debounced snap runs.
	OnSeekStart func()
	OnSeekEnd   func()

	Logger *logrus.Entry
}

// Note is a note event with its playback window and the elements drawn for it.
type Note struct {
	score.NoteEvent

	StartTime float64
	EndTime   float64
	Elements  []marker.Element
}

func (n *Note) setActive(active bool) {
	for _, e := range n.Elements {
		e.SetActive(active)
	}
}

// BarRecord is a bar with its start time and the elements tagged with its number.
type BarRecord struct {
	BarNumber int
	StartTime float64
	Elements  []marker.Element
}

// Engine keeps the highlighted notes and bar of a score in step with an audio clock. An Engine is bound
// to one score: when the score changes, dispose it and build a new one.
type Engine struct {
	id     string
	log    *logrus.Entry
	cfg    config.PlaybackConfig
	audio  audio.Clock
	frames FrameClock
	manual bool

	mapper      rhythm.Mapper
	bars        *rhythm.BarIndex
	barRecords  []BarRecord
	barElements map[int][]marker.Element
	notes       []*Note
	startTimes  []float64
	colors      palette.ColorMap
	unresolved  int
	elements    int

	onBarChange func(prev, next int)
	onSeekStart func()
	onSeekEnd   func()

	mu       sync.Mutex
	state    State
	next     int
	active   []*Note
	shownBar int
	swept    bool
	last     float64
	loopGen  uint64
	stopLoop chan struct{}
	seek     seekController
	disposed bool
	pending  []func()
}

// New validates opts and builds an Engine. Every note and bar time is computed here, once.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Timing == nil:
		return nil, ErrNoTimingData
	case opts.Timing.Meta == nil:
		return nil, ErrNoMeta
	case opts.Timing.Flow == nil:
		return nil, ErrNoFlow
	case opts.Clock == nil:
		return nil, ErrNoClock
	case opts.Resolver == nil:
		return nil, ErrNoResolver
	case opts.Config == nil:
		return nil, ErrNoConfig
	}

	cfg := *opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid playback configuration: %w", err)
	}

	meta := opts.Timing.Meta
	if meta.MaxTick < meta.MinTick {
		return nil, fmt.Errorf("%w: maxTick %d is before minTick %d", ErrInvalidMeta, meta.MaxTick, meta.MinTick)
	}

	frames := opts.Frames
	if frames == nil {
		frames = clock.RealClock{}
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetProjectLogger()
	}
	id := uuid.NewString()
	log = log.WithField("engine_id", id)

	e := &Engine{
		id:          id,
		log:         log,
		cfg:         cfg,
		audio:       opts.Clock,
		frames:      frames,
		manual:      opts.ManualFrames,
		mapper:      rhythm.NewMapper(meta.MinTick, meta.MaxTick, meta.MusicStartSeconds, cfg.TotalDurationSeconds),
		barElements: make(map[int][]marker.Element),
		onBarChange: opts.OnBarChange,
		onSeekStart: opts.OnSeekStart,
		onSeekEnd:   opts.OnSeekEnd,
		shownBar:    rhythm.NoBar,
	}
	e.seek.timer = debounce.New(frames)

	e.buildNotes(opts.Timing.Flow.Notes(), opts.Resolver)
	e.buildBars(opts.Timing.Flow.Bars(), opts.Resolver)
	e.colors = palette.Assign(e.channelStats(meta), cfg.Slots())
	e.applyColors()

	e.log.WithFields(logrus.Fields{
		"notes":      len(e.notes),
		"bars":       e.bars.Len(),
		"channels":   len(e.colors),
		"unresolved": e.unresolved,
	}).Info("Engine created")

	return e, nil
}

func (e *Engine) buildNotes(events []score.NoteEvent, r marker.Resolver) {
	e.notes = make([]*Note, 0, len(events))
	for _, ev := range events {
		n := &Note{
			NoteEvent: ev,
			StartTime: e.mapper.TickToSeconds(ev.StartTick),
			EndTime:   e.mapper.TickToSeconds(ev.EndTick),
		}
		for _, href := range ev.Hrefs {
			found := r.ElementsFor(href)
			if len(found) == 0 {
				e.unresolved++
				e.log.WithField("href", href).Warn("No visual element found for href")
				continue
			}
			n.Elements = append(n.Elements, found...)
		}
		if len(n.Elements) == 0 {
			e.log.WithFields(logrus.Fields{"start_tick": ev.StartTick, "channel": ev.Channel}).
				Warn("Note has no visual elements and will not be highlighted")
		}
		e.elements += len(n.Elements)
		e.notes = append(e.notes, n)
	}

	slices.SortStableFunc(e.notes, func(a, b *Note) bool {
		return a.StartTime < b.StartTime
	})

	e.startTimes = make([]float64, len(e.notes))
	for i, n := range e.notes {
		e.startTimes[i] = n.StartTime
	}
}

func (e *Engine) buildBars(events []score.BarEvent, r marker.Resolver) {
	e.bars = rhythm.NewBarIndex(events, e.mapper)
	for _, b := range e.bars.Bars() {
		if _, ok := e.barElements[b.Number]; !ok {
			e.barElements[b.Number] = r.BarElements(b.Number)
		}
		e.barRecords = append(e.barRecords, BarRecord{
			BarNumber: b.Number,
			StartTime: b.StartTime,
			Elements:  e.barElements[b.Number],
		})
	}
}

// channelStats returns the statistics of every channel that has notes. Channels missing from the meta
// section get empty statistics so that every note gets a color.
func (e *Engine) channelStats(meta *score.Meta) map[int]score.ChannelStats {
	stats := make(map[int]score.ChannelStats, len(meta.Channels))
	for ch, s := range meta.Channels {
		stats[ch] = s
	}
	for _, n := range e.notes {
		if _, ok := stats[n.Channel]; !ok {
			stats[n.Channel] = score.ChannelStats{}
		}
	}
	return stats
}

func (e *Engine) applyColors() {
	for _, n := range e.notes {
		slot := e.colors[n.Channel]
		for _, el := range n.Elements {
			if c, ok := el.(marker.Colorable); ok {
				c.SetColorSlot(slot)
			}
		}
	}
}

// ID returns the instance id used in log fields.
func (e *Engine) ID() string {
	return e.id
}

// Mapper returns the tick calibration of the score.
func (e *Engine) Mapper() rhythm.Mapper {
	return e.mapper
}

// Bars returns the bars of the score in time order.
func (e *Engine) Bars() []BarRecord {
	return slices.Clone(e.barRecords)
}

// Colors returns a copy of the channel color table.
func (e *Engine) Colors() palette.ColorMap {
	out := make(palette.ColorMap, len(e.colors))
	for _, ch := range maps.Keys(e.colors) {
		out[ch] = e.colors[ch]
	}
	return out
}

// unlockAndNotify releases the lock and then runs the callbacks queued while it was held, so that
// callbacks may call back into the engine.
func (e *Engine) unlockAndNotify() {
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (e *Engine) notify(fn func()) {
	if fn != nil {
		e.pending = append(e.pending, fn)
	}
}

func (e *Engine) visualTime() float64 {
	return e.audio.Position() + e.cfg.VisualLeadTimeSeconds
}
