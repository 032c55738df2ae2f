package lumen

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/dsp/window"
	"github.com/lumen-vis/lumen/settings"
)

// Limits on the analysis window.
const (
	MaxSampleSize   = 1 << 14
	MaxChannelCount = 2
)

// Config wires the whole pipeline.
type Config struct {
	// The name of the backend from the input package
	Backend string
	// The device, file path, or URL to pull data from
	Device string
	// The rate that samples are read
	SampleRate float64
	// The number of samples per analysis window (power of two)
	SampleSize int
	// The number of channels to read data from
	ChannelCount int

	// Initial visualization settings
	Settings settings.Settings

	// Window function applied before the FFT
	Windower window.Function

	Logger *slog.Logger
}

// NewZeroConfig returns the default config.
func NewZeroConfig() Config {
	return Config{
		SampleRate:   44100,
		SampleSize:   1024,
		ChannelCount: 1,
		Settings:     settings.Default(),
		Windower:     window.Hann,
	}
}

// Validate checks the analysis parameters.
func (cfg *Config) Validate() error {
	if cfg.SampleRate < float64(cfg.SampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	if cfg.SampleSize < 4 {
		return errors.New("sample size too small (4+ required)")
	}

	switch {
	case cfg.ChannelCount > MaxChannelCount:
		return errors.Errorf("too many channels (%d max)", MaxChannelCount)

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")

	case cfg.SampleSize > MaxSampleSize:
		return errors.Errorf("sample size too large (%d max)", MaxSampleSize)
	}

	if cfg.SampleSize&(cfg.SampleSize-1) != 0 {
		return errors.New("sample size must be a power of two")
	}

	return nil
}
