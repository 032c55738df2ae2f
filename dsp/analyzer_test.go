package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-vis/lumen/dsp"
)

func TestNormalizeDb(t *testing.T) {
	assert.Equal(t, 0.0, dsp.NormalizeDb(-100))
	assert.Equal(t, 1.0, dsp.NormalizeDb(0))
	assert.InDelta(t, 0.5, dsp.NormalizeDb(-50), 1e-9)

	// Out-of-range inputs clamp instead of escaping [0, 1].
	assert.Equal(t, 0.0, dsp.NormalizeDb(-130))
	assert.Equal(t, 1.0, dsp.NormalizeDb(12))
}

func TestAnalyzerDefaults(t *testing.T) {
	anlz := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: 44100,
		SampleSize: 1024,
	})

	cfg := anlz.Config()
	assert.Equal(t, dsp.DefaultMinDb, cfg.MinDb)
	assert.Equal(t, dsp.DefaultMaxDb, cfg.MaxDb)
	assert.Equal(t, 513, anlz.BinCount())
}

func TestMagnitudesLayout(t *testing.T) {
	const size = 256

	anlz := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: 44100,
		SampleSize: size,
	})

	coeffs := make([]complex128, size/2+1)
	// Full-scale bin: |c| / (size/2) == 1 -> 0 dB -> 1.0 normalized.
	coeffs[3] = complex(size/2, 0)
	// -20 dB bin.
	coeffs[7] = complex(size/2*0.1, 0)

	mags := anlz.Magnitudes(coeffs, nil)
	require.Len(t, mags, size)

	assert.InDelta(t, 1.0, mags[3], 1e-9)
	assert.InDelta(t, 0.8, mags[7], 1e-9)

	// Silent bins sit at the window floor, and the mirror half above the
	// usable bins stays zero.
	assert.Zero(t, mags[5])
	for i := size/2 + 1; i < size; i++ {
		require.Zero(t, mags[i], "bin %d", i)
	}

	for _, v := range mags {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestSpectrum(t *testing.T) {
	mags := make([]float64, 64)
	for i := range mags {
		mags[i] = float64(i)
	}

	live := dsp.Spectrum(mags)
	require.Len(t, live, 33)

	// Same backing array, no copy.
	assert.Equal(t, &mags[0], &live[0])
	assert.Equal(t, 32.0, live[32])

	// Degenerate inputs pass through.
	assert.Nil(t, dsp.Spectrum(nil))
	one := []float64{0.5}
	assert.Equal(t, one, dsp.Spectrum(one))
}

func TestMagnitudesEmptyInput(t *testing.T) {
	anlz := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: 44100,
		SampleSize: 64,
	})

	mags := anlz.Magnitudes(nil, nil)
	require.Len(t, mags, 64)
	for _, v := range mags {
		assert.Zero(t, v)
	}
}

func TestMagnitudesReusesBuffer(t *testing.T) {
	anlz := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: 44100,
		SampleSize: 64,
	})

	coeffs := make([]complex128, 33)
	coeffs[1] = complex(32, 0)

	buf := make([]float64, 64)
	out := anlz.Magnitudes(coeffs, buf)
	assert.Equal(t, &buf[0], &out[0], "a large enough dst must be reused")
}

func TestAnalyzerWindowNarrowing(t *testing.T) {
	coeffs := make([]complex128, 33)
	coeffs[2] = complex(32*0.01, 0) // -40 dB

	wide := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: 44100, SampleSize: 64,
	})
	narrow := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: 44100, SampleSize: 64,
		MinDb: -65, MaxDb: -15,
	})

	w := wide.Magnitudes(coeffs, nil)[2]
	n := narrow.Magnitudes(coeffs, nil)[2]

	// -40 dB reads as 0.6 on the full window and 0.5 on the narrowed one.
	assert.InDelta(t, 0.6, w, 1e-9)
	assert.InDelta(t, 0.5, n, 1e-9)
}
