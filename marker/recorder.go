package marker

import (
	"strconv"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Call is a single recorded state change.
type Call struct {
	Key   string
	Kind  string
	Value bool
}

const (
	KindActive  = "active"
	KindVisible = "visible"
)

// Recorder is a headless Resolver. It creates one element per href and per bar on first lookup and
// records every state change, which makes it suitable for tests and dry runs.
type Recorder struct {
	mu       sync.Mutex
	elements map[string]*RecordedElement
	calls    []Call

	// Missing lists hrefs that resolve to no element.
	Missing map[string]bool
}

// RecordedElement is an element owned by a Recorder.
type RecordedElement struct {
	key      string
	recorder *Recorder
	active   bool
	visible  bool
	slot     int
	colored  bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		elements: make(map[string]*RecordedElement),
		Missing:  make(map[string]bool),
	}
}

func (r *Recorder) element(key string) *RecordedElement {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.elements[key]
	if !ok {
		e = &RecordedElement{key: key, recorder: r}
		r.elements[key] = e
	}
	return e
}

func (r *Recorder) ElementsFor(href string) []Element {
	if r.Missing[href] {
		return nil
	}
	return []Element{r.element(href)}
}

func (r *Recorder) BarElements(bar int) []Element {
	return []Element{r.element(BarKey(bar))}
}

// BarKey is the key under which a bar element is recorded.
func BarKey(bar int) string {
	return "bar:" + strconv.Itoa(bar)
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of every recorded state change in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// CallsFor returns the recorded state changes of one key.
func (r *Recorder) CallsFor(key string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Call
	for _, c := range r.calls {
		if c.Key == key {
			out = append(out, c)
		}
	}
	return out
}

// Active returns the sorted keys of every element currently marked active.
func (r *Recorder) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for k, e := range r.elements {
		if e.active {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Visible returns the sorted keys of every element currently visible.
func (r *Recorder) Visible() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for k, e := range r.elements {
		if e.visible {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Slots returns the color slot of every tagged element.
func (r *Recorder) Slots() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int)
	for _, k := range maps.Keys(r.elements) {
		if e := r.elements[k]; e.colored {
			out[k] = e.slot
		}
	}
	return out
}

// Reset forgets the recorded calls but keeps element state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (e *RecordedElement) SetActive(active bool) {
	e.recorder.mu.Lock()
	e.active = active
	e.recorder.mu.Unlock()
	e.recorder.record(Call{Key: e.key, Kind: KindActive, Value: active})
}

func (e *RecordedElement) SetVisible(visible bool) {
	e.recorder.mu.Lock()
	e.visible = visible
	e.recorder.mu.Unlock()
	e.recorder.record(Call{Key: e.key, Kind: KindVisible, Value: visible})
}

func (e *RecordedElement) SetColorSlot(slot int) {
	e.recorder.mu.Lock()
	defer e.recorder.mu.Unlock()
	e.slot = slot
	e.colored = true
}
