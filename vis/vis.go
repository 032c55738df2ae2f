// Package vis maps extracted audio features onto draw parameters for
// each visualization mode. Every mode is a Renderer selected once per
// mode change through the strategy table, not re-branched every frame.
package vis

import (
	"github.com/lumen-vis/lumen/dsp"
	"github.com/lumen-vis/lumen/settings"
)

// BeatPulse is the multiplicative boost applied to size and intensity
// on a beat frame. There is no decay curve: the boost simply is not
// reapplied on the next non-beat frame.
const BeatPulse = 1.25

// Frame is one tick's worth of extracted features. It is rebuilt every
// tick and owned by the current draw call; renderers must not retain
// its slices.
type Frame struct {
	Freq   []float64 // normalized [0,1] magnitudes up to Nyquist, nil when no data
	Wave   []float64 // waveform samples in [-1,1], nil when no data
	Bands  []dsp.Band
	Energy []float64 // equal-width band energy means
	Beat   dsp.BeatSignal

	// Playing gates reactive movement; idle animation continues
	// regardless so the scene never appears frozen.
	Playing bool
}

// Silent reports whether the frame carries no usable audio data.
func (f Frame) Silent() bool {
	return len(f.Freq) == 0 && len(f.Wave) == 0
}

// Canvas is the drawing surface renderers write cells into. The
// terminal display implements it; tests use an in-memory fake.
type Canvas interface {
	Size() (w, h int)
	Set(x, y int, ch rune, fg settings.Color)
}

// Renderer is one visualization mode. Init runs once when the mode is
// selected, Draw once per tick, Resize on surface changes (entity state
// must survive), and Dispose when the mode is switched away.
type Renderer interface {
	Init(w, h int)
	Draw(c Canvas, f Frame, s settings.Settings)
	Resize(w, h int)
	Dispose()
}

var renderers = map[settings.Mode]func() Renderer{
	settings.ModeBars:        func() Renderer { return &Bars{} },
	settings.ModeWave:        func() Renderer { return &Wave{} },
	settings.ModeCircular:    func() Renderer { return &Circular{} },
	settings.ModeGeometric:   func() Renderer { return &Geometric{} },
	settings.ModeParticles:   func() Renderer { return &Particles{} },
	settings.ModeAsteroids2D: func() Renderer { return NewAsteroids(false) },
	settings.ModeAsteroids3D: func() Renderer { return NewAsteroids(true) },
}

// New constructs the renderer for a mode. Each call returns a fresh
// instance owning its own state; nothing is shared across instances.
func New(mode settings.Mode) Renderer {
	if ctor, ok := renderers[mode]; ok {
		return ctor()
	}
	return &Bars{}
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

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// resample stretches or squeezes data to n points with linear
// interpolation.
func resample(data []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if len(data) == 0 {
		return out
	}
	if n == 1 || len(data) == 1 {
		for i := range out {
			out[i] = data[0]
		}
		return out
	}

	ratio := float64(len(data)-1) / float64(n-1)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(data)-1 {
			out[i] = data[len(data)-1]
			continue
		}
		out[i] = lerp(data[idx], data[idx+1], pos-float64(idx))
	}
	return out
}

// meanOf returns the mean of a slice, zero when empty.
func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
