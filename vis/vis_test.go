package vis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-vis/lumen/dsp"
	"github.com/lumen-vis/lumen/settings"
	"github.com/lumen-vis/lumen/vis"
)

// fakeCanvas records every cell write and counts out-of-bounds ones.
type fakeCanvas struct {
	w, h  int
	cells map[[2]int]rune
	oob   int
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (c *fakeCanvas) Size() (int, int) { return c.w, c.h }

func (c *fakeCanvas) Set(x, y int, ch rune, fg settings.Color) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		c.oob++
		return
	}
	c.cells[[2]int{x, y}] = ch
}

func (c *fakeCanvas) rows() []int {
	rows := make([]int, 0, len(c.cells))
	for key := range c.cells {
		rows = append(rows, key[1])
	}
	return rows
}

// testFrame builds a plausible feature frame from a synthetic spectrum.
func testFrame(bandCount int) vis.Frame {
	freq := make([]float64, 1024)
	for i := range freq {
		freq[i] = math.Abs(math.Sin(float64(i) / 40.0))
	}
	wave := make([]float64, 1024)
	for i := range wave {
		wave[i] = 0.7 * math.Sin(2*math.Pi*float64(i)/128.0)
	}

	return vis.Frame{
		Freq:    freq,
		Wave:    wave,
		Bands:   dsp.Bands(freq, bandCount, 44100),
		Energy:  dsp.BandEnergy(freq, bandCount),
		Beat:    dsp.DetectBeat(freq, dsp.DefaultBeatThreshold),
		Playing: true,
	}
}

func TestNewRendererPerMode(t *testing.T) {
	for _, name := range settings.ModeNames() {
		mode, err := settings.ParseMode(name)
		require.NoError(t, err)

		r := vis.New(mode)
		require.NotNil(t, r, "mode %s", name)

		// Fresh instance per call, no shared state.
		assert.NotSame(t, r, vis.New(mode), "mode %s", name)
	}

	// Unknown modes fall back instead of returning nil.
	assert.NotNil(t, vis.New(settings.Mode(77)))
}

// TestAllModesDrawInBounds runs every renderer through init, several
// draws, a resize, and dispose, checking no write ever leaves the
// canvas.
func TestAllModesDrawInBounds(t *testing.T) {
	s := settings.Default().Sanitize()
	frame := testFrame(s.BandCount)

	for _, name := range settings.ModeNames() {
		mode, err := settings.ParseMode(name)
		require.NoError(t, err)

		c := newFakeCanvas(80, 24)
		r := vis.New(mode)
		r.Init(c.w, c.h)

		for i := 0; i < 5; i++ {
			r.Draw(c, frame, s)
		}
		assert.NotEmpty(t, c.cells, "mode %s drew nothing", name)
		assert.Zero(t, c.oob, "mode %s wrote out of bounds", name)

		small := newFakeCanvas(12, 4)
		r.Resize(small.w, small.h)
		r.Draw(small, frame, s)
		assert.Zero(t, small.oob, "mode %s wrote out of bounds after shrink", name)

		r.Dispose()
	}
}

// TestAllModesHandleSilence feeds an empty frame: renderers must not
// panic and must not crash on missing feature data.
func TestAllModesHandleSilence(t *testing.T) {
	s := settings.Default().Sanitize()

	for _, name := range settings.ModeNames() {
		mode, _ := settings.ParseMode(name)

		c := newFakeCanvas(40, 12)
		r := vis.New(mode)
		r.Init(c.w, c.h)

		assert.NotPanics(t, func() {
			r.Draw(c, vis.Frame{}, s)
			r.Draw(c, vis.Frame{}, s)
		}, "mode %s", name)
		assert.Zero(t, c.oob, "mode %s", name)

		r.Dispose()
	}
}

func TestFrameSilent(t *testing.T) {
	assert.True(t, vis.Frame{}.Silent())
	assert.False(t, testFrame(8).Silent())
	assert.False(t, vis.Frame{Wave: []float64{0}}.Silent())
}
