package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-vis/lumen/dsp"
)

func TestSmootherConverges(t *testing.T) {
	sm := dsp.NewSmoother(dsp.SmootherConfig{
		SampleSize:      4,
		SmoothingFactor: 50,
	})

	// Repeatedly feeding a constant must converge toward it from below.
	prev := 0.0
	for i := 0; i < 500; i++ {
		v := sm.SmoothBin(0, 1.0)
		assert.GreaterOrEqual(t, v, prev)
		assert.LessOrEqual(t, v, 1.0)
		prev = v
	}
	assert.Greater(t, prev, 0.9)
}

func TestSmootherBlends(t *testing.T) {
	sm := dsp.NewSmoother(dsp.SmootherConfig{
		SampleSize:      2,
		SmoothingFactor: 50,
	})

	sm.SmoothBin(1, 1.0)
	v := sm.SmoothBin(1, 0.0)

	// A drop to zero decays instead of snapping.
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestSmootherOutOfRangeBin(t *testing.T) {
	sm := dsp.NewSmoother(dsp.SmootherConfig{SampleSize: 2, SmoothingFactor: 50})

	assert.Equal(t, 0.7, sm.SmoothBin(-1, 0.7))
	assert.Equal(t, 0.7, sm.SmoothBin(5, 0.7))
}

func TestSmootherNaN(t *testing.T) {
	sm := dsp.NewSmoother(dsp.SmootherConfig{SampleSize: 1, SmoothingFactor: 50})

	sm.SmoothBin(0, 0.5)
	v := sm.SmoothBin(0, math.NaN())
	assert.False(t, math.IsNaN(v))
}

func TestSmoothBuffer(t *testing.T) {
	sm := dsp.NewSmoother(dsp.SmootherConfig{SampleSize: 3, SmoothingFactor: 50})

	buf := []float64{1, 1, 1}
	sm.SmoothBuffer(buf)
	for _, v := range buf {
		assert.Greater(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
