package dsp

import "math"

// DefaultBeatThreshold is the bass-energy level above which a frame
// reads as on-beat.
const DefaultBeatThreshold = 0.15

// beatBins is how many of the lowest FFT bins count as the bass region.
const beatBins = 10

// BeatSignal pairs the beat flag with the bass energy that produced it.
type BeatSignal struct {
	Beat   bool
	Energy float64
}

// DetectBeat reports whether the mean absolute magnitude of the lowest
// bass bins exceeds threshold. It is a pure function of the current
// frame: no temporal smoothing, debounce, or refractory period, so a
// sustained loud bass passage reads as continuously on-beat.
func DetectBeat(mags []float64, threshold float64) BeatSignal {
	if len(mags) == 0 {
		return BeatSignal{}
	}

	n := beatBins
	if n > len(mags) {
		n = len(mags)
	}

	sum := 0.0
	for _, v := range mags[:n] {
		sum += math.Abs(v)
	}
	mean := sum / float64(n)

	return BeatSignal{Beat: mean > threshold, Energy: mean}
}
