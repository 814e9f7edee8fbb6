package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nickysemenza/gola"
	"github.com/robmorgan/scorefollow/audio"
	"github.com/robmorgan/scorefollow/audio/beepclock"
	"github.com/robmorgan/scorefollow/config"
	"github.com/robmorgan/scorefollow/console"
	"github.com/robmorgan/scorefollow/dmx"
	"github.com/robmorgan/scorefollow/engine"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/robmorgan/scorefollow/marker"
	"github.com/robmorgan/scorefollow/osc"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/robmorgan/scorefollow/score"
	"github.com/robmorgan/scorefollow/status"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// sessionOptions describe one playback of a score.
type sessionOptions struct {
	TimingPath string
	ShowPath   string
	AudioPath  string

	// Duration and Lead override the show file when set.
	Duration *float64
	Lead     *float64

	// Console receives the terminal view. Nil disables it unless the show file enables it.
	Console io.Writer

	// Clock drives the frame loop, the simulated transport and the DMX worker.
	Clock engine.FrameClock
}

// session wires a score, a transport and the configured outputs around one engine.
type session struct {
	log       *logrus.Entry
	show      config.Show
	palette   palette.Palette
	engine    *engine.Engine
	transport audio.Transport
	ended     *audio.EndWatcher
	console   *console.Renderer
	dmxState  *dmx.State
	ola       dmx.OLAClient
	notifier  *osc.Notifier
	closers   []func()
}

func newSession(opts sessionOptions) (*session, error) {
	log := logger.GetProjectLogger()
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	show := config.Show{Playback: config.NewPlaybackConfig(0)}
	if opts.ShowPath != "" {
		var err error
		if show, err = config.LoadShowFile(opts.ShowPath); err != nil {
			return nil, err
		}
	}

	td, err := score.LoadFile(opts.TimingPath)
	if err != nil {
		return nil, err
	}

	s := &session{log: log, show: show, ended: audio.NewEndWatcher()}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	if opts.AudioPath != "" {
		player, err := beepclock.Open(opts.AudioPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { player.Close() })
		s.transport = player
		if s.show.Playback.TotalDurationSeconds == 0 {
			s.show.Playback.TotalDurationSeconds = player.Duration()
		}
	}
	if opts.Duration != nil {
		s.show.Playback.TotalDurationSeconds = *opts.Duration
	}
	if opts.Lead != nil {
		s.show.Playback.VisualLeadTimeSeconds = *opts.Lead
	}
	if err := s.show.Validate(); err != nil {
		return nil, err
	}
	if s.transport == nil {
		s.transport = audio.NewWallClock(opts.Clock, s.show.Playback.TotalDurationSeconds)
	}

	if s.palette, err = s.show.Playback.BuildPalette(); err != nil {
		return nil, err
	}

	resolvers, err := s.buildOutputs(opts, td)
	if err != nil {
		return nil, err
	}

	s.engine, err = engine.New(engine.Options{
		Timing:      td,
		Clock:       s.transport,
		Resolver:    resolvers,
		Config:      &s.show.Playback,
		Frames:      opts.Clock,
		OnBarChange: s.barChanged,
		OnSeekStart: s.seekStarted,
		OnSeekEnd:   s.seekEnded,
	})
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, s.engine.Dispose)
	s.transport.Attach(audio.Listeners{s.engine, s.ended})

	ok = true
	return s, nil
}

// buildOutputs creates the configured visual outputs and patches the elements of every href and bar of td
// into one root group, so that each note drives all outputs at once.
func (s *session) buildOutputs(opts sessionOptions, td *score.TimingData) (*marker.Group, error) {
	out := s.show.Outputs
	var outputs []namedResolver

	if opts.Console != nil || out.Console != nil {
		w := opts.Console
		if w == nil {
			w = io.Discard
		}
		var rules []console.Rule
		if out.Console != nil {
			for _, r := range out.Console.Rules {
				rules = append(rules, console.Rule{Type: r})
			}
		}
		s.console = console.NewRenderer(w, s.palette, rules)
		s.console.SetTimeSource(func() float64 { return s.transport.Position() })
		outputs = append(outputs, namedResolver{"console", s.console})
	}

	if out.DMX != nil {
		dmxOpts := dmx.Options{Intensity: out.DMX.Intensity}
		for _, f := range out.DMX.Fixtures {
			dmxOpts.Fixtures = append(dmxOpts.Fixtures, dmx.Fixture{Universe: f.Universe, Address: f.Address})
		}
		if out.DMX.BarChannel != nil {
			dmxOpts.BarChannel = &dmx.Channel{Universe: out.DMX.BarChannel.Universe, Address: out.DMX.BarChannel.Address}
		}

		s.dmxState = dmx.NewState()
		backend, err := dmx.NewBackend(s.dmxState, s.palette, dmxOpts)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, namedResolver{"dmx", backend})
	}

	if out.OSC != nil {
		s.notifier = osc.Dial(out.OSC.Host, out.OSC.Port)
	}

	if len(outputs) == 0 {
		// nothing to draw on; record transitions so that stats stay meaningful
		outputs = append(outputs, namedResolver{"recorder", marker.NewRecorder()})
	}

	hrefs, bars := scoreTargets(td)
	root := marker.NewGroup()
	for _, o := range outputs {
		g := marker.Collect(o.resolver, hrefs, bars)
		s.log.WithFields(logrus.Fields{"output": o.name, "hrefs": g.Count(), "bars": len(g.Bars)}).Debug("Patched output")
		root.Merge(g)
	}
	return root, nil
}

type namedResolver struct {
	name     string
	resolver marker.Resolver
}

// scoreTargets lists every href and bar number the flow of td refers to.
func scoreTargets(td *score.TimingData) ([]string, []int) {
	var hrefs []string
	for _, n := range td.Flow.Notes() {
		hrefs = append(hrefs, n.Hrefs...)
	}
	var bars []int
	for _, b := range td.Flow.Bars() {
		bars = append(bars, b.BarNumber)
	}
	return hrefs, bars
}

// start launches the background workers of the outputs. They stop when ctx is done.
func (s *session) start(ctx context.Context, c clock.WithTicker, wg *sync.WaitGroup) {
	out := s.show.Outputs

	if out.DMX != nil {
		if s.ola == nil {
			client, err := gola.New(out.DMX.OLAAddress)
			if err != nil {
				s.log.WithError(err).Error("Could not connect to OLA")
			} else {
				s.ola = client
			}
		}
		if s.ola != nil {
			wg.Add(1)
			go dmx.SendWorker(ctx, c, s.ola, out.DMX.Tick, s.dmxState, wg)
		}
	}

	if out.Status != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.log.WithField("addr", out.Status.Addr).Info("Serving status API")
			if err := status.Serve(ctx, out.Status.Addr, status.NewHandler(s.engine, s.palette)); err != nil {
				s.log.WithError(err).Error("Status API stopped")
			}
		}()
	}

	if out.OSC != nil && out.OSC.Listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := osc.NewController(s.transport).Serve(ctx, out.OSC.Listen); err != nil {
				s.log.WithError(err).Error("OSC control stopped")
			}
		}()
	}
}

func (s *session) barChanged(prev, next int) {
	s.log.WithFields(logrus.Fields{"prev": prev, "bar": next}).Debug("Bar changed")
	if s.notifier != nil {
		s.notifier.BarChanged(prev, next)
	}
}

func (s *session) seekStarted() {
	if s.notifier != nil {
		s.notifier.SeekStarted()
	}
}

func (s *session) seekEnded() {
	if s.notifier != nil {
		s.notifier.SeekEnded()
	}
}

// summary describes the loaded score in one line.
func (s *session) summary() string {
	st := s.engine.Stats()
	return fmt.Sprintf("%d notes, %d bars, %d voices, %.1fs", st.TotalNotes, st.Bars, len(st.Colors), s.show.Playback.TotalDurationSeconds)
}

// Close releases the engine and the transport in reverse order of creation.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
