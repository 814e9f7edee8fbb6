package engine

import "errors"

var (
	ErrNoTimingData = errors.New("timing data is required")
	ErrNoMeta       = errors.New("timing data has no meta section")
	ErrNoFlow       = errors.New("timing data has no flow section")
	ErrNoClock      = errors.New("an audio clock is required")
	ErrNoResolver   = errors.New("a marker resolver is required")
	ErrNoConfig     = errors.New("a playback configuration is required")
	ErrInvalidMeta  = errors.New("timing meta is invalid")
	ErrDisposed     = errors.New("engine has been disposed")
)
