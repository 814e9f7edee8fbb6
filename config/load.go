package config

import (
	"io"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML playback configuration. Settings missing from the document keep their defaults.
func Load(r io.Reader) (PlaybackConfig, error) {
	cfg := NewPlaybackConfig(0)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return PlaybackConfig{}, errors.WithStackTrace(err)
	}

	if err := cfg.Validate(); err != nil {
		return PlaybackConfig{}, errors.WithStackTrace(err)
	}
	return cfg, nil
}

// LoadFile reads a YAML playback configuration from disk.
func LoadFile(path string) (PlaybackConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return PlaybackConfig{}, errors.WithStackTrace(err)
	}
	defer f.Close()

	return Load(f)
}
