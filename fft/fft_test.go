package fft_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-vis/lumen/fft"
)

func TestPlanSineBin(t *testing.T) {
	const (
		size = 64
		bin  = 8
		amp  = 0.5
	)

	input := make([]float64, size)
	for i := range input {
		input[i] = amp * math.Sin(2*math.Pi*bin*float64(i)/size)
	}
	output := make([]complex128, size/2+1)

	plan := fft.NewPlan(input, output)
	plan.Execute()

	require.Len(t, output, size/2+1)

	// A bin-aligned sine puts amp*size/2 into exactly one coefficient.
	assert.InDelta(t, amp*size/2, cmplx.Abs(output[bin]), 1e-9)
	for i := range output {
		if i == bin {
			continue
		}
		assert.InDelta(t, 0.0, cmplx.Abs(output[i]), 1e-6, "bin %d", i)
	}
}

func TestPlanReexecute(t *testing.T) {
	input := make([]float64, 32)
	output := make([]complex128, 17)
	plan := fft.NewPlan(input, output)

	input[0] = 1 // impulse: flat spectrum
	plan.Execute()
	for _, c := range output {
		assert.InDelta(t, 1.0, cmplx.Abs(c), 1e-9)
	}

	// Rewriting the bound input buffer and re-executing reuses the plan.
	for i := range input {
		input[i] = 0
	}
	plan.Execute()
	for _, c := range output {
		assert.InDelta(t, 0.0, cmplx.Abs(c), 1e-12)
	}
}
