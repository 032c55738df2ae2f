// Package dsp derives visualization-ready features from raw audio
// buffers: normalized spectral magnitudes, logarithmically spaced
// frequency bands, coarse band-energy splits, and a per-frame beat flag.
//
// Some notes:
//
// https://dlbeer.co.nz/articles/fftvis.html
// https://dsp.stackexchange.com/questions/6499
package dsp

import "math"

// Decibel range of the default analyzer window. Raw magnitudes live in
// [-100, 0] dB and normalize onto [0, 1].
const (
	DefaultMinDb = -100.0
	DefaultMaxDb = 0.0
)

// AnalyzerConfig configures a spectral analyzer.
type AnalyzerConfig struct {
	SampleRate float64 // audio sample rate
	SampleSize int     // number of samples per slice
	MinDb      float64 // bottom of the decibel window
	MaxDb      float64 // top of the decibel window
}

// Analyzer converts raw FFT coefficients into normalized magnitudes.
//
// An analyzer's decibel window is fixed at construction. Changing
// sensitivity means constructing a new analyzer and swapping it in,
// never mutating one that a render tick may be reading.
type Analyzer struct {
	cfg     AnalyzerConfig
	fftSize int
}

// NewAnalyzer returns an analyzer for the given config. Zero MinDb and
// MaxDb select the default [-100, 0] window.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.MinDb == 0 && cfg.MaxDb == 0 {
		cfg.MinDb = DefaultMinDb
		cfg.MaxDb = DefaultMaxDb
	}
	if cfg.MaxDb <= cfg.MinDb {
		cfg.MaxDb = cfg.MinDb + 1
	}

	return &Analyzer{
		cfg:     cfg,
		fftSize: cfg.SampleSize/2 + 1,
	}
}

// Config returns the analyzer's configuration.
func (az *Analyzer) Config() AnalyzerConfig { return az.cfg }

// BinCount returns the number of usable FFT bins.
func (az *Analyzer) BinCount() int { return az.fftSize }

// Magnitudes writes normalized [0, 1] magnitudes into dst and returns
// it. The result has the full analyzer resolution (SampleSize entries):
// the FFT's usable bins fill the lower half, index i maps to frequency
// i/len · sampleRate, and the upper half stays zero. Band placement
// indexes this layout with len/2 as the Nyquist position; equal-width
// consumers take the live half through Spectrum. A nil or empty
// coefficient slice yields an all-zero result.
func (az *Analyzer) Magnitudes(coeffs []complex128, dst []float64) []float64 {
	n := az.cfg.SampleSize
	if n < len(coeffs) {
		n = len(coeffs)
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = 0
	}

	if len(coeffs) == 0 {
		return dst
	}

	// Scale against the transform length so a full-scale sine lands
	// near 0 dB in its bin.
	ref := float64(az.cfg.SampleSize) / 2.0
	if ref <= 0 {
		ref = 1
	}

	span := az.cfg.MaxDb - az.cfg.MinDb

	for i, c := range coeffs {
		power := math.Hypot(real(c), imag(c)) / ref
		db := az.cfg.MinDb
		if power > 0 {
			db = 20.0 * math.Log10(power)
		}
		dst[i] = clampUnit((db - az.cfg.MinDb) / span)
	}

	return dst
}

// Spectrum returns the live portion of a full-resolution magnitude
// array: the bins at and below Nyquist. Equal-width consumers (band
// energy splits, radial resampling) index this slice so every region
// maps onto real spectrum instead of the zero upper half.
func Spectrum(mags []float64) []float64 {
	if len(mags) < 2 {
		return mags
	}
	return mags[:len(mags)/2+1]
}

// NormalizeDb maps a raw decibel magnitude in [-100, 0] onto [0, 1],
// clamping inputs outside that range.
func NormalizeDb(db float64) float64 {
	return clampUnit((db + 100.0) / 100.0)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
