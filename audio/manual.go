package audio

import "sync"

// ManualClock is a Clock whose position is set explicitly. It only emits seek signals, and only once a
// Listener is attached. It is the headless clock used by tests and by frame-stepped rendering.
type ManualClock struct {
	mu       sync.Mutex
	position float64
	moves    []float64
	listener Listener
}

// NewManualClock creates a clock at position 0.
func NewManualClock() *ManualClock {
	return &ManualClock{listener: nopListener{}}
}

// Attach sets the listener that receives the seeking and seeked signals of SetPosition.
func (c *ManualClock) Attach(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l == nil {
		l = nopListener{}
	}
	c.listener = l
}

func (c *ManualClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// SetPosition moves the clock, records the move and reports it as a seek.
func (c *ManualClock) SetPosition(seconds float64) {
	c.mu.Lock()
	c.position = seconds
	c.moves = append(c.moves, seconds)
	l := c.listener
	c.mu.Unlock()

	l.HandleSeeking()
	l.HandleSeeked()
}

// Advance moves the clock forward as playback would, without recording a seek.
func (c *ManualClock) Advance(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position += seconds
}

// Jump moves the clock without recording the move or emitting signals, like a scrub whose signals the
// caller delivers itself.
func (c *ManualClock) Jump(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = seconds
}

// Seeks returns every position passed to SetPosition.
func (c *ManualClock) Seeks() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.moves))
	copy(out, c.moves)
	return out
}
