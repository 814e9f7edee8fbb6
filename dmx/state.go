package dmx

import (
	"fmt"
	"sync"
)

// UniverseSize is the number of channels in a DMX512 universe.
const UniverseSize = 512

// State holds the DMX512 values for each channel of every universe in use.
type State struct {
	universes map[int][]byte
	lock      sync.Mutex
}

type operation struct {
	universe, channel, value int
}

// NewState creates an empty State.
func NewState() *State {
	return &State{universes: make(map[int][]byte)}
}

// Value returns the value of a channel, or 0 when the universe was never written.
func (s *State) Value(universe, channel int) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	u := s.universes[universe]
	if u == nil || channel < 1 || channel > len(u) {
		return 0
	}
	return int(u[channel-1])
}

func (s *State) set(ops ...operation) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, op := range ops {
		if op.channel < 1 || op.channel > UniverseSize {
			return fmt.Errorf("dmx channel (%d) not in range, op=%v", op.channel, op)
		}
		if op.value < 0 || op.value > 255 {
			return fmt.Errorf("dmx value (%d) not in range, op=%v", op.value, op)
		}

		s.initializeUniverse(op.universe)
		s.universes[op.universe][op.channel-1] = byte(op.value)
	}
	return nil
}

func (s *State) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, UniverseSize)
	}
}

// snapshot returns a copy of every universe so that it can be sent without holding the lock.
func (s *State) snapshot() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make(map[int][]byte, len(s.universes))
	for k, v := range s.universes {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
