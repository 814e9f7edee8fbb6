package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOLAAddress = "localhost:9010"
	DefaultDMXTick    = 40 * time.Millisecond
	DefaultStatusAddr = ":8080"
)

// Show is a complete show file: the playback settings and the outputs driven while playing.
type Show struct {
	Playback PlaybackConfig `yaml:"playback"`
	Outputs  Outputs        `yaml:"outputs"`
}

// Outputs lists the optional visual backends and notifiers. A nil entry is disabled.
type Outputs struct {
	Console *ConsoleOutput `yaml:"console"`
	DMX     *DMXOutput     `yaml:"dmx"`
	OSC     *OSCOutput     `yaml:"osc"`
	Status  *StatusOutput  `yaml:"status"`
}

// ConsoleOutput configures the terminal backend.
type ConsoleOutput struct {
	// Rules are highlight effects such as "bold" or "underline".
	Rules []string `yaml:"rules"`
}

// DMXChannel addresses a channel, or the first channel of a fixture, in a universe.
type DMXChannel struct {
	Universe int `yaml:"universe"`
	Address  int `yaml:"address"`
}

// DMXOutput configures the lighting backend.
type DMXOutput struct {
	OLAAddress string        `yaml:"ola_address"`
	Tick       time.Duration `yaml:"tick"`
	Fixtures   []DMXChannel  `yaml:"fixtures"`
	BarChannel *DMXChannel   `yaml:"bar_channel"`
	Intensity  float64       `yaml:"intensity"`
}

// OSCOutput configures the OSC notifier and, when Listen is set, the OSC transport control.
type OSCOutput struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Listen string `yaml:"listen"`
}

// StatusOutput configures the HTTP status API.
type StatusOutput struct {
	Addr string `yaml:"addr"`
}

// Validate reports the first invalid output setting and fills in defaults.
func (o *Outputs) Validate() error {
	if o.DMX != nil {
		if o.DMX.OLAAddress == "" {
			o.DMX.OLAAddress = DefaultOLAAddress
		}
		if o.DMX.Tick == 0 {
			o.DMX.Tick = DefaultDMXTick
		}
		if o.DMX.Tick < 0 {
			return fmt.Errorf("dmx tick must be positive, got %v", o.DMX.Tick)
		}
		if len(o.DMX.Fixtures) == 0 {
			return fmt.Errorf("dmx output needs at least one fixture")
		}
	}
	if o.OSC != nil && (o.OSC.Port < 1 || o.OSC.Port > 65535) {
		return fmt.Errorf("osc port must be between 1 and 65535, got %d", o.OSC.Port)
	}
	if o.Status != nil && o.Status.Addr == "" {
		o.Status.Addr = DefaultStatusAddr
	}
	return nil
}

// Validate reports the first invalid setting of the show.
func (s *Show) Validate() error {
	if err := s.Playback.Validate(); err != nil {
		return err
	}
	return s.Outputs.Validate()
}

// LoadShow reads a YAML show file. Playback settings missing from the document keep their defaults. The
// outputs are validated; the playback settings are not, since the recording length is often only known
// once the audio is opened.
func LoadShow(r io.Reader) (Show, error) {
	show := Show{Playback: NewPlaybackConfig(0)}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&show); err != nil && err != io.EOF {
		return Show{}, errors.WithStackTrace(err)
	}

	if err := show.Outputs.Validate(); err != nil {
		return Show{}, errors.WithStackTrace(err)
	}
	return show, nil
}

// LoadShowFile reads a YAML show file from disk.
func LoadShowFile(path string) (Show, error) {
	f, err := os.Open(path)
	if err != nil {
		return Show{}, errors.WithStackTrace(err)
	}
	defer f.Close()

	return LoadShow(f)
}
