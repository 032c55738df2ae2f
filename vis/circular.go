package vis

import (
	"math"

	"github.com/lumen-vis/lumen/settings"
)

// Circular arranges spectrum bars radially around the canvas center
// with an angular step of 2π divided by the sample count.
type Circular struct {
	w, h  int
	angle float64 // slow rotation offset when enabled
}

func (cr *Circular) Init(w, h int)   { cr.w, cr.h = w, h }
func (cr *Circular) Resize(w, h int) { cr.w, cr.h = w, h }
func (cr *Circular) Dispose()        {}

func (cr *Circular) Draw(c Canvas, f Frame, s settings.Settings) {
	w, h := c.Size()
	cr.w, cr.h = w, h

	if s.Rotation {
		cr.angle += 0.01 * (0.5 + s.RotationSpeed)
	}

	if w < 4 || h < 4 {
		return
	}

	count := 48
	mags := resample(f.Freq, count)

	pulse := 1.0
	if f.Beat.Beat {
		pulse = BeatPulse
	}

	cx := float64(w) / 2
	cy := float64(h) / 2

	maxR := math.Min(float64(w)/2/cellAspect, float64(h)/2) - 1
	if maxR < 2 {
		return
	}
	baseR := maxR * 0.35 * pulse

	step := 2 * math.Pi / float64(count)

	for i, mag := range mags {
		a := cr.angle + float64(i)*step
		sin, cos := math.Sincos(a)

		ext := clamp(mag*s.Amplification*pulse, 0, 1) * (maxR - baseR)
		color := s.Scheme.Pick(clamp(mag, 0, 1))

		// Radial bar from the base ring outward.
		for r := baseR; r <= baseR+ext; r += 0.5 {
			x := int(cx + cos*r*cellAspect)
			y := int(cy + sin*r)
			if x >= 0 && x < w && y >= 0 && y < h {
				c.Set(x, y, '•', color)
			}
		}
	}
}
