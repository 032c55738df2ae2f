package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lumen-vis/lumen"
	"github.com/lumen-vis/lumen/input"
	"github.com/lumen-vis/lumen/settings"
)

// cliConfig is the flag/YAML surface. Slider-style values here use the
// 0-100 scale; Build converts them to the canonical 0-1 internals.
type cliConfig struct {
	ConfigPath string `yaml:"-"`

	Backend      string  `yaml:"backend"`
	Device       string  `yaml:"device"`
	SampleRate   float64 `yaml:"sample_rate"`
	SampleSize   int     `yaml:"sample_size"`
	ChannelCount int     `yaml:"channels"`

	FrameRate     int     `yaml:"fps"`
	Mode          string  `yaml:"mode"`
	Scheme        string  `yaml:"scheme"`
	Sensitivity   float64 `yaml:"sensitivity"` // 0-100
	Amplification float64 `yaml:"amplification"`
	BarWidth      int     `yaml:"bar_width"`
	SpaceWidth    int     `yaml:"space_width"`
	BandCount     int     `yaml:"bands"`
	WaveSamples   int     `yaml:"wave_samples"`
	Glow          bool    `yaml:"glow"`
	GlowIntensity float64 `yaml:"glow_intensity"` // 0-100
	Vertical      bool    `yaml:"vertical"`
	NoGradient    bool    `yaml:"no_gradient"`
	NoRotation    bool    `yaml:"no_rotation"`
}

func newCliConfig() cliConfig {
	return cliConfig{
		SampleRate:    44100,
		SampleSize:    1024,
		ChannelCount:  1,
		FrameRate:     60,
		Mode:          "bars",
		Scheme:        "rainbow",
		Sensitivity:   50,
		Amplification: 1.0,
		BarWidth:      2,
		SpaceWidth:    1,
		BandCount:     8,
		WaveSamples:   1024,
		GlowIntensity: 50,
	}
}

// Sanitize loads the optional YAML file and validates everything.
func (c *cliConfig) Sanitize() error {
	if c.ConfigPath == "" {
		c.tryDefaultConfig()
	} else if err := c.loadFile(c.ConfigPath); err != nil {
		return err
	}

	if c.Backend == "" {
		c.Backend = input.DefaultBackend()
	}

	if c.Sensitivity < 0 || c.Sensitivity > 100 {
		return errors.New("sensitivity must be in [0, 100]")
	}

	if c.GlowIntensity < 0 || c.GlowIntensity > 100 {
		return errors.New("glow intensity must be in [0, 100]")
	}

	if _, err := settings.ParseMode(c.Mode); err != nil {
		return err
	}

	return nil
}

func (c *cliConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}
	return errors.Wrap(yaml.Unmarshal(data, c), "failed to parse config file")
}

func (c *cliConfig) tryDefaultConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	paths := []string{
		filepath.Join(home, ".config", "lumen", "config.yaml"),
		filepath.Join(home, ".config", "lumen", "config.yml"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = c.loadFile(p)
			return
		}
	}
}

// Build converts the CLI surface into the library config, translating
// the 0-100 sensitivity slider into the canonical 0-1 value.
func (c *cliConfig) Build() lumen.Config {
	mode, _ := settings.ParseMode(c.Mode)

	s := settings.Default()
	s.Mode = mode
	s.FrameRate = c.FrameRate
	s.Scheme = settings.SchemeByName(c.Scheme)
	s.Sensitivity = c.Sensitivity / 100.0
	s.Amplification = c.Amplification
	s.BarWidth = c.BarWidth
	s.SpaceWidth = c.SpaceWidth
	s.BandCount = c.BandCount
	s.WaveSamples = c.WaveSamples
	s.Glow = c.Glow
	s.GlowIntensity = c.GlowIntensity / 100.0
	s.Gradient = !c.NoGradient
	s.Rotation = !c.NoRotation
	if c.Vertical {
		s.Orientation = settings.Vertical
	}

	cfg := lumen.NewZeroConfig()
	cfg.Backend = c.Backend
	cfg.Device = c.Device
	cfg.SampleRate = c.SampleRate
	cfg.SampleSize = c.SampleSize
	cfg.ChannelCount = c.ChannelCount
	cfg.Settings = s

	return cfg
}
