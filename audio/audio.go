package audio

// Clock is the playback position of an audio recording as observed by the engine.
type Clock interface {
	// Position returns the current playback position in seconds. It never decreases except through a seek.
	Position() float64

	// SetPosition moves playback to seconds. Implementations may report the move to their Listener
	// before returning.
	SetPosition(seconds float64)
}

// Listener receives the lifecycle signals of a Clock.
type Listener interface {
	HandlePlay()
	HandlePause()
	HandleEnded()
	HandleSeeking()
	HandleSeeked()
}

// Transport is a Clock that can also be started and paused, e.g. by a CLI or a real audio device.
type Transport interface {
	Clock
	Play()
	Pause()
	Duration() float64
	Attach(l Listener)
}

type nopListener struct{}

func (nopListener) HandlePlay()    {}
func (nopListener) HandlePause()   {}
func (nopListener) HandleEnded()   {}
func (nopListener) HandleSeeking() {}
func (nopListener) HandleSeeked()  {}
