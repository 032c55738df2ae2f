package util

import "math"

// MovingWindow keeps running statistics over the last N values pushed
// into it. The render loop uses two of these (a fast one and a slow one)
// to auto-scale bar heights against recent peak history.
type MovingWindow struct {
	ring []float64
	head int
	len  int

	sum   float64
	sumSq float64

	average float64
	stddev  float64
}

// NewMovingWindow returns a moving window holding up to size values.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}
	return &MovingWindow{ring: make([]float64, size)}
}

func (mw *MovingWindow) recalc() (float64, float64) {
	if mw.len > 0 {
		mw.average = mw.sum / float64(mw.len)
	} else {
		mw.average = 0
	}

	if mw.len > 1 {
		v := (mw.sumSq / float64(mw.len-1)) - (mw.average * mw.average)
		mw.stddev = math.Sqrt(math.Abs(v))
	} else {
		mw.stddev = 0
	}

	return mw.average, mw.stddev
}

// Update pushes a value, evicting the oldest when full, and returns the
// new mean and standard deviation.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	if mw.len == len(mw.ring) {
		old := mw.ring[mw.head]
		mw.sum -= old
		mw.sumSq -= old * old
	} else {
		mw.len++
	}

	mw.ring[mw.head] = value
	mw.head = (mw.head + 1) % len(mw.ring)

	mw.sum += value
	mw.sumSq += value * value

	return mw.recalc()
}

// Drop discards the oldest count values from the window.
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	for count > 0 && mw.len > 0 {
		oldest := (mw.head - mw.len + len(mw.ring)) % len(mw.ring)
		v := mw.ring[oldest]
		mw.sum -= v
		mw.sumSq -= v * v
		mw.len--
		count--
	}

	// Clear accumulated rounding drift once the window empties out.
	if mw.len == 0 {
		mw.sum = 0
		mw.sumSq = 0
	}

	return mw.recalc()
}

// Len returns how many values the window currently holds.
func (mw *MovingWindow) Len() int { return mw.len }

// Cap returns the maximum size of the window.
func (mw *MovingWindow) Cap() int { return len(mw.ring) }

// Mean is the moving window average.
func (mw *MovingWindow) Mean() float64 { return mw.average }

// StdDev is the moving window standard deviation.
func (mw *MovingWindow) StdDev() float64 { return mw.stddev }

// Stats returns the mean and standard deviation together.
func (mw *MovingWindow) Stats() (float64, float64) {
	return mw.average, mw.stddev
}
