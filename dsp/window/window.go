// Package window provides window functions for signal analysis.
//
// See https://wikipedia.org/wiki/Window_function
package window

import "math"

// Function modifies a sample buffer in place before analysis.
type Function func(buf []float64)

// Rectangle leaves the buffer untouched.
func Rectangle(buf []float64) {}

// CosSum applies a cosine-sum window with coefficient a0.
func CosSum(buf []float64, a0 float64) {
	size := len(buf)
	a1 := 1.0 - a0
	coef := 2.0 * math.Pi / float64(size)
	for n := range buf {
		buf[n] *= a0 - a1*math.Cos(coef*float64(n))
	}
}

// Hamming applies a Hamming window.
func Hamming(buf []float64) {
	CosSum(buf, 25.0/46.0)
}

// Hann applies a Hann window.
func Hann(buf []float64) {
	CosSum(buf, 0.5)
}

// Bartlett applies a triangular Bartlett window.
func Bartlett(buf []float64) {
	fSize := float64(len(buf))
	for n := range buf {
		buf[n] *= 1.0 - math.Abs((2.0*float64(n)-fSize)/fSize)
	}
}

// Lanczos applies a Lanczos (sinc) window.
func Lanczos(buf []float64) {
	fSize := float64(len(buf))
	for n := range buf {
		x := math.Pi * ((2.0 * float64(n) / fSize) - 1.0)
		if x == 0 {
			continue
		}
		buf[n] *= math.Sin(x) / x
	}
}
