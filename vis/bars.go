package vis

import (
	"math"

	"github.com/lumen-vis/lumen/dsp"
	"github.com/lumen-vis/lumen/settings"
	"github.com/lumen-vis/lumen/util"
)

// Sub-cell bar runes, empty through full block.
var barRunes = [...]rune{
	' ', '▁', '▂', '▃',
	'▄', '▅', '▆', '▇', '█',
}

const (
	minBarHeight = 1.0

	// maxBands bounds the smoother's state size.
	maxBands = 12

	// scaleWindow is how many recent peaks feed the auto-scaler,
	// roughly ten seconds at 60 fps.
	scaleWindow = 600

	smoothingFactor = 55
)

// Bars draws logarithmically spaced frequency bands as vertical bars.
// Bar color follows the bar's position among the bands, not its value,
// so the spatial layout stays visually stable while heights react.
//
// Band values are smoothed across frames and scaled against recent peak
// history, so a sustained loud passage settles back into range instead
// of pinning every bar at full height.
type Bars struct {
	w, h int

	smoother *dsp.Smoother
	window   *util.MovingWindow
	scratch  []float64
}

func (b *Bars) Init(w, h int) {
	b.w, b.h = w, h
	b.smoother = dsp.NewSmoother(dsp.SmootherConfig{
		SampleSize:      maxBands,
		SmoothingFactor: smoothingFactor,
	})
	b.window = util.NewMovingWindow(scaleWindow)
}

func (b *Bars) Resize(w, h int) { b.w, b.h = w, h }

func (b *Bars) Dispose() {
	b.smoother = nil
	b.window = nil
	b.scratch = nil
}

func (b *Bars) Draw(c Canvas, f Frame, s settings.Settings) {
	w, h := c.Size()
	b.w, b.h = w, h

	if b.smoother == nil {
		b.Init(w, h)
	}

	if len(f.Bands) == 0 {
		return
	}

	pulse := 1.0
	if f.Beat.Beat {
		pulse = BeatPulse
	}

	b.scratch = b.scratch[:0]
	peak := 0.0
	for _, band := range f.Bands {
		b.scratch = append(b.scratch, band.Value)
		if band.Value > peak {
			peak = band.Value
		}
	}
	b.smoother.SmoothBuffer(b.scratch)

	scale := b.rescale(peak)

	bandCount := len(f.Bands)
	slot := s.BarWidth + s.SpaceWidth
	total := bandCount*slot - s.SpaceWidth
	if total > w {
		total = w
	}
	x0 := (w - total) / 2

	for i, value := range b.scratch {
		height := clamp(
			value/scale*float64(h)*s.Amplification*pulse,
			minBarHeight, float64(h))

		driving := float64(i) / float64(bandCount)
		color := s.Scheme.Pick(driving)

		for bx := 0; bx < s.BarWidth; bx++ {
			x := x0 + i*slot + bx
			if x < 0 || x >= w {
				continue
			}
			drawColumn(c, x, h, height, color, s, driving)
		}
	}
}

// rescale folds the frame peak into the history window and returns the
// divisor for this frame. The scale never drops below unity, so quiet
// material is never artificially blown up; it only tames sustained loud
// passages.
func (b *Bars) rescale(peak float64) float64 {
	if peak <= 0 {
		return 1
	}

	mean, sd := b.window.Update(peak)

	// Shed old peaks so the scale can recover after a loud section.
	if length := b.window.Len(); length >= b.window.Cap() {
		b.window.Drop(length / 2)
	}

	return math.Max(mean+2*sd, 1)
}

// drawColumn fills one column bottom-up with sub-cell resolution at the
// tip.
func drawColumn(c Canvas, x, h int, height float64, color settings.Color, s settings.Settings, driving float64) {
	full := int(height)
	frac := height - float64(full)

	for y := 0; y < full && y < h; y++ {
		fg := color
		if s.Gradient {
			// Gradient recolors along the column height.
			fg = s.Scheme.Pick(float64(y) / float64(h))
		}
		c.Set(x, h-1-y, barRunes[len(barRunes)-1], fg)
	}

	if full < h {
		sub := int(math.Round(frac * float64(len(barRunes)-1)))
		if sub > 0 {
			c.Set(x, h-1-full, barRunes[sub], color)
		}
	}

	if s.Glow {
		drawHalo(c, x, h, full, color, s.GlowIntensity)
	}
}

// drawHalo shades a short column above the bar tip. Intensity sets both
// the halo height and how dense the first shade rune is.
func drawHalo(c Canvas, x, h, full int, color settings.Color, intensity float64) {
	halo := 1 + int(math.Round(intensity*2))
	for i := 0; i < halo; i++ {
		y := h - 2 - full - i
		if y < 0 {
			break
		}
		ch := '░'
		if i == 0 && intensity > 0.5 {
			ch = '▒'
		}
		c.Set(x, y, ch, color)
	}
}
