package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-vis/lumen/dsp"
)

func bassFrame(level float64) []float64 {
	mags := make([]float64, 64)
	for i := 0; i < 10; i++ {
		mags[i] = level
	}
	return mags
}

func TestDetectBeat(t *testing.T) {
	hot := dsp.DetectBeat(bassFrame(0.3), dsp.DefaultBeatThreshold)
	assert.True(t, hot.Beat)
	assert.InDelta(t, 0.3, hot.Energy, 1e-9)

	quiet := dsp.DetectBeat(bassFrame(0.1), dsp.DefaultBeatThreshold)
	assert.False(t, quiet.Beat)
	assert.InDelta(t, 0.1, quiet.Energy, 1e-9)

	// The threshold is a strict lower bound.
	edge := dsp.DetectBeat(bassFrame(dsp.DefaultBeatThreshold), dsp.DefaultBeatThreshold)
	assert.False(t, edge.Beat)
}

func TestDetectBeatIgnoresHighBins(t *testing.T) {
	mags := make([]float64, 64)
	for i := 10; i < len(mags); i++ {
		mags[i] = 1.0
	}

	sig := dsp.DetectBeat(mags, dsp.DefaultBeatThreshold)
	assert.False(t, sig.Beat, "energy above the bass region must not register")
	assert.Zero(t, sig.Energy)
}

// TestDetectBeatStateless feeds the same frames in different orders and
// expects identical answers: the detector carries no history.
func TestDetectBeatStateless(t *testing.T) {
	loud := bassFrame(0.5)
	soft := bassFrame(0.05)

	first := dsp.DetectBeat(loud, dsp.DefaultBeatThreshold)

	for i := 0; i < 20; i++ {
		dsp.DetectBeat(soft, dsp.DefaultBeatThreshold)
	}

	again := dsp.DetectBeat(loud, dsp.DefaultBeatThreshold)
	assert.Equal(t, first, again)
}

func TestDetectBeatThresholdMonotonic(t *testing.T) {
	frame := bassFrame(0.4)

	assert.True(t, dsp.DetectBeat(frame, 0.2).Beat)
	assert.False(t, dsp.DetectBeat(frame, 0.6).Beat)
}

func TestDetectBeatEmpty(t *testing.T) {
	sig := dsp.DetectBeat(nil, dsp.DefaultBeatThreshold)
	assert.False(t, sig.Beat)
	assert.Zero(t, sig.Energy)

	// Fewer bins than the bass region still works.
	short := dsp.DetectBeat([]float64{0.9, 0.9}, dsp.DefaultBeatThreshold)
	assert.True(t, short.Beat)
}
