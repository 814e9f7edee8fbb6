// Package dmx is a lighting visual backend. Each voice color slot is an RGB fixture that lights up in
// the voice color while any note of that voice is sounding.
package dmx

import (
	"fmt"
	"sync"

	"github.com/robmorgan/scorefollow/logger"
	"github.com/robmorgan/scorefollow/marker"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/sirupsen/logrus"
)

// Fixture is an RGB light patched at Address (red), Address+1 (green) and Address+2 (blue).
type Fixture struct {
	Universe int `yaml:"universe"`
	Address  int `yaml:"address"`
}

// Channel is a single DMX channel.
type Channel struct {
	Universe int `yaml:"universe"`
	Address  int `yaml:"address"`
}

// Options patch the backend.
type Options struct {
	// Fixtures are indexed by color slot. Slots beyond the list share the last fixture.
	Fixtures []Fixture

	// BarChannel, when set, receives the number of the shown bar modulo 256.
	BarChannel *Channel

	// Intensity scales every color, from 0 to 1. Zero means full intensity.
	Intensity float64
}

// Backend is a marker.Resolver driving DMX fixtures. Every href resolves.
type Backend struct {
	log       *logrus.Entry
	state     *State
	palette   palette.Palette
	fixtures  []Fixture
	bar       *Channel
	intensity float64

	mu       sync.Mutex
	counts   []int
	elements map[string]*element
	bars     map[int]*barElement
}

var _ marker.Resolver = (*Backend)(nil)

// NewBackend validates the patch and creates a backend writing into state.
func NewBackend(state *State, p palette.Palette, opts Options) (*Backend, error) {
	for i, f := range opts.Fixtures {
		if f.Address < 1 || f.Address+2 > UniverseSize {
			return nil, fmt.Errorf("fixture %d: address %d does not fit three channels", i, f.Address)
		}
	}
	if opts.BarChannel != nil && (opts.BarChannel.Address < 1 || opts.BarChannel.Address > UniverseSize) {
		return nil, fmt.Errorf("bar channel address %d not in range", opts.BarChannel.Address)
	}
	if opts.Intensity < 0 || opts.Intensity > 1 {
		return nil, fmt.Errorf("intensity must be between 0 and 1, got %v", opts.Intensity)
	}

	intensity := opts.Intensity
	if intensity == 0 {
		intensity = 1
	}

	return &Backend{
		log:       logger.GetProjectLogger().WithField("backend", "dmx"),
		state:     state,
		palette:   p,
		fixtures:  opts.Fixtures,
		bar:       opts.BarChannel,
		intensity: intensity,
		counts:    make([]int, len(opts.Fixtures)),
		elements:  make(map[string]*element),
		bars:      make(map[int]*barElement),
	}, nil
}

func (b *Backend) ElementsFor(href string) []marker.Element {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.elements[href]
	if !ok {
		e = &element{backend: b}
		b.elements[href] = e
	}
	return []marker.Element{e}
}

func (b *Backend) BarElements(bar int) []marker.Element {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.bars[bar]
	if !ok {
		e = &barElement{backend: b, number: bar}
		b.bars[bar] = e
	}
	return []marker.Element{e}
}

// Lit reports how many sounding notes keep the fixture of a slot lit.
func (b *Backend) Lit(slot int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.fixtureIndex(slot)
	if !ok {
		return 0
	}
	return b.counts[i]
}

func (b *Backend) fixtureIndex(slot int) (int, bool) {
	if len(b.fixtures) == 0 {
		return 0, false
	}
	return max(0, min(slot, len(b.fixtures)-1)), true
}

// adjust changes the number of sounding notes on the fixture of slot, switching it on or off.
func (b *Backend) adjust(slot, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.fixtureIndex(slot)
	if !ok {
		return
	}
	before := b.counts[i]
	b.counts[i] = max(0, before+delta)

	var red, green, blue int
	switch {
	case before == 0 && b.counts[i] > 0:
		r, g, bl := b.palette.Color(slot).RGB255()
		red, green, blue = b.scale(r), b.scale(g), b.scale(bl)
	case before > 0 && b.counts[i] == 0:
	default:
		return
	}

	f := b.fixtures[i]
	err := b.state.set(
		operation{universe: f.Universe, channel: f.Address, value: red},
		operation{universe: f.Universe, channel: f.Address + 1, value: green},
		operation{universe: f.Universe, channel: f.Address + 2, value: blue},
	)
	if err != nil {
		b.log.WithError(err).WithField("slot", slot).Warn("Could not set fixture color")
	}
}

func (b *Backend) scale(v uint8) int {
	return int(float64(v)*b.intensity + 0.5)
}

type element struct {
	backend *Backend
	slot    int
	active  bool
}

var _ marker.Colorable = (*element)(nil)

func (e *element) SetColorSlot(slot int) {
	e.slot = slot
}

func (e *element) SetActive(active bool) {
	if e.active == active {
		return
	}
	e.active = active
	if active {
		e.backend.adjust(e.slot, 1)
	} else {
		e.backend.adjust(e.slot, -1)
	}
}

func (e *element) SetVisible(bool) {}

type barElement struct {
	backend *Backend
	number  int
}

func (e *barElement) SetActive(bool) {}

func (e *barElement) SetVisible(visible bool) {
	b := e.backend
	if b.bar == nil || !visible {
		return
	}
	value := ((e.number % 256) + 256) % 256
	if err := b.state.set(operation{universe: b.bar.Universe, channel: b.bar.Address, value: value}); err != nil {
		b.log.WithError(err).Warn("Could not set bar channel")
	}
}
