package input

import "math"

// Transport controls playback on sources that support it. Live capture
// sessions are not seekable and do not implement it.
type Transport interface {
	Play()
	Pause()
	Stop()
	Seek(seconds float64)
	SetVolume(v float64)
	Playing() bool
	Position() float64
	Duration() float64
}

// MinGainDb is the gain floor applied at volume zero: effectively
// silent but finite, never a negative-infinity gain.
const MinGainDb = -60.0

// GainForVolume maps a linear volume slider in [0, 1] onto an amplitude
// gain through a decibel curve (20·log10 v), since perceived loudness
// is logarithmic. Volume 1 is unity gain; volume 0 hits the MinGainDb
// floor. Inputs outside [0, 1] are clamped.
func GainForVolume(v float64) float64 {
	if v <= 0 {
		return math.Pow(10.0, MinGainDb/20.0)
	}
	if v >= 1 {
		return 1.0
	}

	db := 20.0 * math.Log10(v)
	if db < MinGainDb {
		db = MinGainDb
	}

	return math.Pow(10.0, db/20.0)
}
