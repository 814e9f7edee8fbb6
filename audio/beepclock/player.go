// Package beepclock plays a WAV or MP3 recording on the system speaker and exposes its position as an
// audio clock.
package beepclock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/scorefollow/audio"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/sirupsen/logrus"
)

// Player is an audio.Transport backed by a decoded recording.
type Player struct {
	log      *logrus.Entry
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl

	mu       sync.Mutex
	listener audio.Listener
	started  bool
	ended    bool
}

var _ audio.Transport = (*Player)(nil)

// Open decodes the recording at path. Playback starts paused; the speaker is only claimed by Play.
func Open(path string) (*Player, error) {
	streamer, format, err := decode(path)
	if err != nil {
		return nil, err
	}

	return &Player{
		log:      logger.GetProjectLogger().WithField("audio", filepath.Base(path)),
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
		listener: nopListener{},
	}, nil
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.WithStackTrace(err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.WithStackTrace(err)
	}
	return streamer, format, nil
}

// Attach sets the listener that receives lifecycle signals.
func (p *Player) Attach(l audio.Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l == nil {
		l = nopListener{}
	}
	p.listener = l
}

// Duration returns the length of the recording in seconds.
func (p *Player) Duration() float64 {
	return p.format.SampleRate.D(p.streamer.Len()).Seconds()
}

// Position returns the playback position in seconds.
func (p *Player) Position() float64 {
	unlock := p.lockSpeaker()
	defer unlock()
	return p.format.SampleRate.D(p.streamer.Position()).Seconds()
}

// SetPosition seeks the recording. Positions outside the recording are clamped.
func (p *Player) SetPosition(seconds float64) {
	n := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = min(max(n, 0), p.streamer.Len())

	unlock := p.lockSpeaker()
	err := p.streamer.Seek(n)
	unlock()
	if err != nil {
		p.log.WithError(err).WithField("position", seconds).Error("Seek failed")
		return
	}

	p.mu.Lock()
	l := p.listener
	p.mu.Unlock()

	l.HandleSeeking()
	l.HandleSeeked()
}

// Play starts or resumes playback. The speaker is initialized on the first call. A recording that has
// finished does not play again.
func (p *Player) Play() {
	p.mu.Lock()
	if p.ended {
		p.mu.Unlock()
		return
	}
	if !p.started {
		if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(time.Second/10)); err != nil {
			p.mu.Unlock()
			p.log.WithError(err).Error("Could not initialize speaker")
			return
		}
		speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
			// runs on the speaker goroutine with the speaker locked
			go p.finish()
		})))
		p.started = true
	}
	l := p.listener
	p.mu.Unlock()

	unlock := p.lockSpeaker()
	p.ctrl.Paused = false
	unlock()

	l.HandlePlay()
}

// Pause freezes playback at the current position.
func (p *Player) Pause() {
	unlock := p.lockSpeaker()
	wasPlaying := !p.ctrl.Paused
	p.ctrl.Paused = true
	unlock()

	if !wasPlaying {
		return
	}

	p.mu.Lock()
	l := p.listener
	p.mu.Unlock()
	l.HandlePause()
}

// Close releases the decoded recording.
func (p *Player) Close() error {
	p.Pause()
	unlock := p.lockSpeaker()
	defer unlock()
	return p.streamer.Close()
}

func (p *Player) finish() {
	p.mu.Lock()
	p.ended = true
	l := p.listener
	p.mu.Unlock()

	p.log.Info("Recording finished")
	l.HandleEnded()
}

// lockSpeaker guards the streamer against the speaker goroutine once playback has started. It returns
// the matching unlock.
func (p *Player) lockSpeaker() func() {
	if !p.isStarted() {
		return func() {}
	}
	speaker.Lock()
	return speaker.Unlock
}

func (p *Player) isStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

type nopListener struct{}

func (nopListener) HandlePlay()    {}
func (nopListener) HandlePause()   {}
func (nopListener) HandleEnded()   {}
func (nopListener) HandleSeeking() {}
func (nopListener) HandleSeeked()  {}
