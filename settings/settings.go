// Package settings holds the shared visualization settings: a single
// snapshot value read by every renderer each frame and replaced
// atomically on update, never mutated in place mid-frame.
package settings

import "fmt"

// Mode selects one of the visualization renderers.
type Mode int

const (
	ModeBars Mode = iota
	ModeWave
	ModeCircular
	ModeGeometric
	ModeParticles
	ModeAsteroids2D
	ModeAsteroids3D

	modeCount
)

var modeNames = [...]string{
	"bars",
	"wave",
	"circular",
	"geometric",
	"particles",
	"asteroids2d",
	"asteroids3d",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles to the following mode, wrapping around.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// ModeNames lists all mode names in order.
func ModeNames() []string {
	return modeNames[:]
}

// ParseMode resolves a mode by name.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// Orientation rotates the render surface.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Settings is one immutable snapshot of every user-adjustable
// visualization parameter. Sensitivity and Amplification are canonical
// 0.0-1.0 values; the 0-100 slider scale exists only at the flag/YAML
// boundary.
type Settings struct {
	Mode        Mode
	Orientation Orientation
	FrameRate   int // 30 or 60

	Scheme ColorScheme

	Sensitivity   float64 // 0.0 - 1.0
	Amplification float64 // bar height multiplier

	BarWidth   int
	SpaceWidth int

	Glow          bool
	GlowIntensity float64
	Gradient      bool
	Rotation      bool
	RotationSpeed float64

	WaveSamples int // waveform sample count, 128 - 2048
	BandCount   int // perceptual band count, 4 - 12
}

// Default returns the baseline settings.
func Default() Settings {
	return Settings{
		Mode:          ModeBars,
		FrameRate:     60,
		Scheme:        SchemeByName("rainbow"),
		Sensitivity:   0.5,
		Amplification: 1.0,
		BarWidth:      2,
		SpaceWidth:    1,
		Gradient:      true,
		Rotation:      true,
		RotationSpeed: 0.5,
		WaveSamples:   1024,
		BandCount:     8,
	}
}

// Sanitize clamps every field into its valid range.
func (s Settings) Sanitize() Settings {
	if s.Mode < 0 || s.Mode >= modeCount {
		s.Mode = ModeBars
	}
	if s.FrameRate != 30 && s.FrameRate != 60 {
		s.FrameRate = 60
	}
	if len(s.Scheme.Colors) == 0 {
		s.Scheme = SchemeByName("rainbow")
	}

	s.Sensitivity = clamp(s.Sensitivity, 0, 1)
	s.GlowIntensity = clamp(s.GlowIntensity, 0, 1)
	s.RotationSpeed = clamp(s.RotationSpeed, 0, 1)

	if s.Amplification <= 0 {
		s.Amplification = 1
	}
	if s.BarWidth < 1 {
		s.BarWidth = 1
	}
	if s.SpaceWidth < 0 {
		s.SpaceWidth = 0
	}

	s.WaveSamples = clampInt(s.WaveSamples, 128, 2048)
	s.BandCount = clampInt(s.BandCount, 4, 12)

	return s
}

// DBWindow derives the analyzer decibel window from the sensitivity.
// The window formula is specified against the 0-100 slider scale, so
// the canonical 0-1 value is scaled up here.
func (s Settings) DBWindow() (minDb, maxDb float64) {
	s100 := clamp(s.Sensitivity, 0, 1) * 100.0
	return -100.0 + 0.7*s100, -30.0 + 0.3*s100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
