package vis

import "github.com/lumen-vis/lumen/settings"

// waveMargin keeps the trace off the top and bottom rows.
const waveMargin = 1

// Wave draws the time-domain signal as a centered trace. The amplitude
// scale is clamped so the trace can never leave
// [waveMargin, h-waveMargin] regardless of the sensitivity setting.
type Wave struct {
	w, h int
}

func (wv *Wave) Init(w, h int)   { wv.w, wv.h = w, h }
func (wv *Wave) Resize(w, h int) { wv.w, wv.h = w, h }
func (wv *Wave) Dispose()        {}

// Amplitude returns the vertical half-extent in rows for the given
// canvas height and settings. Exposed for the range invariant test.
func (wv *Wave) Amplitude(h int, s settings.Settings, beat bool) float64 {
	half := float64(h)/2 - waveMargin
	if half < 0 {
		half = 0
	}

	// Sensitivity scales up to 2x before the hard clamp.
	amp := s.Sensitivity * 2 * half
	if beat {
		amp *= BeatPulse
	}
	if amp > half {
		amp = half
	}
	return amp
}

func (wv *Wave) Draw(c Canvas, f Frame, s settings.Settings) {
	w, h := c.Size()
	wv.w, wv.h = w, h

	if len(f.Wave) == 0 || w < 1 || h < 2*waveMargin+1 {
		return
	}

	count := s.WaveSamples
	if count > w {
		count = w
	}
	samples := resample(f.Wave, count)

	amp := wv.Amplitude(h, s, f.Beat.Beat)
	mid := float64(h) / 2

	step := float64(w) / float64(len(samples))
	prevY := -1

	for i, v := range samples {
		x := int(float64(i) * step)
		if x >= w {
			x = w - 1
		}

		// Samples are nominally [-1,1]; clamp anyway so a hot input
		// cannot break the range invariant.
		y := int(mid - clamp(v, -1, 1)*amp)
		if y < waveMargin {
			y = waveMargin
		}
		if y > h-1-waveMargin {
			y = h - 1 - waveMargin
		}

		color := s.Scheme.Pick(float64(i) / float64(len(samples)))
		c.Set(x, y, '─', color)

		// Connect vertical jumps so the trace reads as a line.
		if prevY >= 0 {
			connectVertical(c, x, prevY, y, color)
		}
		prevY = y
	}
}

func connectVertical(c Canvas, x, y0, y1 int, color settings.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0 + 1; y < y1; y++ {
		c.Set(x, y, '│', color)
	}
}
