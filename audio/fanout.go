package audio

import "sync"

// Listeners forwards every signal to each listener in order.
type Listeners []Listener

func (ls Listeners) HandlePlay() {
	for _, l := range ls {
		l.HandlePlay()
	}
}

func (ls Listeners) HandlePause() {
	for _, l := range ls {
		l.HandlePause()
	}
}

func (ls Listeners) HandleEnded() {
	for _, l := range ls {
		l.HandleEnded()
	}
}

func (ls Listeners) HandleSeeking() {
	for _, l := range ls {
		l.HandleSeeking()
	}
}

func (ls Listeners) HandleSeeked() {
	for _, l := range ls {
		l.HandleSeeked()
	}
}

// EndWatcher is a Listener that closes Done once the recording ends.
type EndWatcher struct {
	nopListener
	once sync.Once
	done chan struct{}
}

// NewEndWatcher creates an EndWatcher.
func NewEndWatcher() *EndWatcher {
	return &EndWatcher{done: make(chan struct{})}
}

func (w *EndWatcher) HandleEnded() {
	w.once.Do(func() { close(w.done) })
}

// Done is closed after the first ended signal.
func (w *EndWatcher) Done() <-chan struct{} {
	return w.done
}
