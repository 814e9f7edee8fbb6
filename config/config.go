package config

import (
	"fmt"
	"math"
	"time"

	"github.com/robmorgan/scorefollow/palette"
)

const (
	DefaultFrameRate     = 60
	DefaultSeekDebounce  = 300 * time.Millisecond
	DefaultSnapThreshold = 0.1
)

// PlaybackConfig represents options that configure how a recording is synchronized with its score. It is
// created by the caller and handed to the engine; nothing in the project keeps a global copy.
type PlaybackConfig struct {
	// TotalDurationSeconds is the length of the recording. Required.
	TotalDurationSeconds float64 `yaml:"total_duration_seconds"`

	// VisualLeadTimeSeconds is added to the audio clock before deriving visual state. It may be negative.
	VisualLeadTimeSeconds float64 `yaml:"visual_lead_time_seconds"`

	// LastBarDuration is the length of the final bar in seconds. It is only used to report progress
	// through the final bar and does not change the tick calibration.
	LastBarDuration float64 `yaml:"last_bar_duration"`

	// FrameRate is the number of scheduling frames per second while playing.
	FrameRate int `yaml:"frame_rate"`

	// SeekDebounce is the quiet period after the last seek signal before snapping to a bar.
	SeekDebounce time.Duration `yaml:"seek_debounce"`

	// SnapThreshold is the minimum distance in seconds between the audio position and the bar start
	// before a snap moves the audio.
	SnapThreshold float64 `yaml:"snap_threshold"`

	// PaletteSize is the number of voice color slots, at least 2 so that the soprano and bass anchors
	// differ. Ignored when Palette is set.
	PaletteSize int `yaml:"palette_size"`

	// Palette optionally overrides the voice colors, as hex strings.
	Palette []string `yaml:"palette"`
}

// Create a new PlaybackConfig object with reasonable defaults for real usage
func NewPlaybackConfig(totalDurationSeconds float64) PlaybackConfig {
	return PlaybackConfig{
		TotalDurationSeconds: totalDurationSeconds,
		FrameRate:            DefaultFrameRate,
		SeekDebounce:         DefaultSeekDebounce,
		SnapThreshold:        DefaultSnapThreshold,
		PaletteSize:          palette.DefaultSize,
	}
}

// Validate reports the first invalid setting.
func (c PlaybackConfig) Validate() error {
	if c.TotalDurationSeconds <= 0 || math.IsNaN(c.TotalDurationSeconds) || math.IsInf(c.TotalDurationSeconds, 0) {
		return fmt.Errorf("total duration must be a positive number of seconds, got %v", c.TotalDurationSeconds)
	}
	if math.IsNaN(c.VisualLeadTimeSeconds) || math.IsInf(c.VisualLeadTimeSeconds, 0) {
		return fmt.Errorf("visual lead time must be finite, got %v", c.VisualLeadTimeSeconds)
	}
	if c.LastBarDuration < 0 {
		return fmt.Errorf("last bar duration must not be negative, got %v", c.LastBarDuration)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.SeekDebounce < 0 {
		return fmt.Errorf("seek debounce must not be negative, got %v", c.SeekDebounce)
	}
	if c.SnapThreshold < 0 {
		return fmt.Errorf("snap threshold must not be negative, got %v", c.SnapThreshold)
	}
	if len(c.Palette) == 0 && c.PaletteSize < 2 {
		return fmt.Errorf("palette size must be at least 2, got %d", c.PaletteSize)
	}
	if len(c.Palette) == 1 {
		return fmt.Errorf("palette needs at least 2 colors, got %d", len(c.Palette))
	}
	return nil
}

// Slots returns the number of voice color slots. Hex overrides take precedence over PaletteSize.
func (c PlaybackConfig) Slots() int {
	if len(c.Palette) > 0 {
		return len(c.Palette)
	}
	return c.PaletteSize
}

// FrameInterval returns the time between two scheduling frames.
func (c PlaybackConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// BuildPalette returns the voice colors configured for playback.
func (c PlaybackConfig) BuildPalette() (palette.Palette, error) {
	if len(c.Palette) > 0 {
		return palette.FromHex(c.Palette)
	}
	return palette.New(c.PaletteSize)
}
