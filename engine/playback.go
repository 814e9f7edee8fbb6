package engine

// State is the playback state of an Engine.
type State int

const (
	// Stopped means no frame runs and nothing is highlighted.
	Stopped State = iota
	// Playing means frames run and the highlight follows the clock.
	Playing
	// Paused means frames are suspended but the highlight is kept.
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins the frame loop. Calling Start while playing does nothing. After a pause the state is
// rebuilt on the first frame.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed {
		return ErrDisposed
	}
	if e.state == Playing {
		return nil
	}

	e.state = Playing
	e.swept = false
	e.log.WithField("position", e.audio.Position()).Info("Playback started")

	if !e.manual {
		e.startLoopLocked()
	}
	return nil
}

// Stop ends the frame loop, clears every highlight and returns all notes to the unplayed set. Calling
// Stop while stopped does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed || e.state == Stopped {
		return
	}
	e.stopLoopLocked()
	e.state = Stopped
	e.resetLocked()
	e.log.Info("Playback stopped")
}

// Pause ends the frame loop but keeps the current highlight.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed || e.state != Playing {
		return
	}
	e.stopLoopLocked()
	e.state = Paused
	e.log.WithField("position", e.audio.Position()).Info("Playback paused")
}

// Dispose stops the engine, cancels any pending seek snap and releases the score. The engine cannot be
// used afterward. Dispose is idempotent.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed {
		return
	}
	e.stopLoopLocked()
	if e.state != Stopped {
		e.resetLocked()
	}
	e.state = Stopped
	e.seek.timer.Cancel()
	e.seek.state = Idle
	e.seek.programmatic = false
	e.disposed = true

	// the owner may not expect callbacks after dispose
	e.pending = nil
	e.log.Info("Engine disposed")
}

// HandlePlay starts playback when the audio starts.
func (e *Engine) HandlePlay() {
	if err := e.Start(); err != nil {
		e.log.WithError(err).Debug("Ignoring play event")
	}
}

// HandlePause pauses playback when the audio pauses.
func (e *Engine) HandlePause() {
	e.Pause()
}

// HandleEnded stops playback when the audio reaches its end.
func (e *Engine) HandleEnded() {
	e.Stop()
}

func (e *Engine) startLoopLocked() {
	e.loopGen++
	stop := make(chan struct{})
	e.stopLoop = stop
	go e.loop(e.loopGen, stop)
}

func (e *Engine) stopLoopLocked() {
	if e.stopLoop != nil {
		close(e.stopLoop)
		e.stopLoop = nil
	}
}

func (e *Engine) loop(gen uint64, stop <-chan struct{}) {
	ticker := e.frames.NewTicker(e.cfg.FrameInterval())
	defer ticker.Stop()

	if !e.frame(gen) {
		return
	}
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !e.frame(gen) {
				return
			}
		}
	}
}

// frame runs one scheduling pass for loop generation gen. It reports false once that loop is stale.
func (e *Engine) frame(gen uint64) bool {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if e.disposed || e.state != Playing || e.loopGen != gen {
		return false
	}
	e.frameLocked()
	return true
}
