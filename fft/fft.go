// Package fft wraps gonum's fourier transformer in a reusable plan that
// binds an input sample buffer to an output coefficient buffer.
package fft

import "gonum.org/v1/gonum/dsp/fourier"

// Plan holds buffers and a transformer for repeated FFT execution over
// the same input slice. The output buffer must be len(input)/2+1 long.
type Plan struct {
	Input  []float64
	Output []complex128

	fft *fourier.FFT
}

// NewPlan binds input and output buffers into an executable plan.
func NewPlan(input []float64, output []complex128) *Plan {
	return &Plan{Input: input, Output: output}
}

// Execute runs the transform, reading Input and writing Output.
func (p *Plan) Execute() {
	if p.fft == nil {
		p.fft = fourier.NewFFT(len(p.Input))
	}
	p.fft.Coefficients(p.Output, p.Input)
}
