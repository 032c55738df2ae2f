package dsp

import "math"

// SmootherConfig configures a temporal smoother.
type SmootherConfig struct {
	SampleSize      int     // number of values per buffer
	SmoothingFactor float64 // smoothing factor (0-100)
}

// Smoother blends each new value with its previous frame so bar and
// band movement decays instead of flickering. Renderers that want raw
// per-frame response simply skip it; the beat path never uses it.
type Smoother struct {
	values []float64
	factor float64
}

// NewSmoother returns a smoother over SampleSize values.
func NewSmoother(cfg SmootherConfig) *Smoother {
	sm := &Smoother{
		values: make([]float64, cfg.SampleSize),
	}
	sm.setFactor(cfg.SmoothingFactor)
	return sm
}

// SmoothBuffer smooths every value in buf in place.
func (sm *Smoother) SmoothBuffer(buf []float64) {
	for i, v := range buf {
		buf[i] = sm.SmoothBin(i, v)
	}
}

// SmoothBin smooths a single value against its previous frame.
func (sm *Smoother) SmoothBin(idx int, value float64) float64 {
	if idx < 0 || idx >= len(sm.values) {
		return value
	}

	if math.IsNaN(value) {
		value = 0
	}

	value *= 1.0 - sm.factor
	value += sm.values[idx] * sm.factor

	sm.values[idx] = value
	return value
}

func (sm *Smoother) setFactor(factor float64) {
	factor /= 100.0
	if factor <= 0 {
		factor = math.SmallestNonzeroFloat64
	}
	if factor >= 1 {
		factor = 1 - math.SmallestNonzeroFloat64
	}

	// Shape the linear slider onto an exponential decay constant, then
	// compensate for the per-frame application rate.
	sf := math.Pow(10.0, (1.0-factor)*(-25.0))
	sm.factor = math.Pow(sf, 0.0167)
}
