package dsp

import "math"

// Audible range used for perceptual band placement.
const (
	bandLowHz  = 20.0
	bandHighHz = 20000.0
)

// Band is one logarithmically placed frequency band.
type Band struct {
	Index    int     // position among the requested bands
	CenterHz float64 // center frequency, strictly increasing with Index
	Bin      int     // FFT bin mapped to CenterHz, clamped to valid range
	Value    float64 // normalized magnitude at Bin
}

// Bands places bandCount bands between 20 Hz and 20 kHz with
// logarithmic spacing and samples the magnitude at each band's bin.
// Logarithmic placement matches perceptual pitch spacing; linear
// binning would starve the bass region where rhythmic energy lives.
//
// A nil or empty magnitude slice yields bands with zero values.
func Bands(mags []float64, bandCount int, sampleRate float64) []Band {
	if bandCount <= 0 {
		return nil
	}
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	nyquist := sampleRate / 2.0
	loLog := math.Log10(bandLowHz)
	hiLog := math.Log10(bandHighHz)

	bands := make([]Band, bandCount)
	for i := range bands {
		center := math.Pow(10.0, loLog+(float64(i)/float64(bandCount))*(hiLog-loLog))

		bands[i].Index = i
		bands[i].CenterHz = center

		if len(mags) == 0 {
			continue
		}

		bin := int(math.Floor(center / nyquist * float64(len(mags)) / 2.0))
		if bin < 0 {
			bin = 0
		}
		if bin > len(mags)-1 {
			bin = len(mags) - 1
		}

		bands[i].Bin = bin
		bands[i].Value = mags[bin]
	}

	return bands
}

// BandEnergy splits the magnitude array into bandCount contiguous
// equal-width index ranges and returns the mean magnitude per range.
// This is coarse multi-region reactivity for particle systems, distinct
// from the perceptual log placement in Bands.
func BandEnergy(mags []float64, bandCount int) []float64 {
	if bandCount <= 0 {
		return nil
	}

	out := make([]float64, bandCount)
	if len(mags) == 0 {
		return out
	}

	width := len(mags) / bandCount
	if width < 1 {
		width = 1
	}

	for i := range out {
		lo := i * width
		hi := lo + width
		if i == bandCount-1 || hi > len(mags) {
			hi = len(mags)
		}
		if lo >= hi {
			break
		}

		sum := 0.0
		for _, v := range mags[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}

	return out
}
