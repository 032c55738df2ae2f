package util_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-vis/lumen/util"
)

func TestMovingWindowMean(t *testing.T) {
	mw := util.NewMovingWindow(4)

	mean, sd := mw.Update(2)
	assert.Equal(t, 2.0, mean)
	assert.Equal(t, 0.0, sd)

	mw.Update(4)
	mean, _ = mw.Update(6)
	assert.InDelta(t, 4.0, mean, 1e-9)
	assert.Equal(t, 3, mw.Len())
	assert.Equal(t, 4, mw.Cap())
}

func TestMovingWindowEviction(t *testing.T) {
	mw := util.NewMovingWindow(3)

	mw.Update(100)
	mw.Update(1)
	mw.Update(1)

	// The fourth push evicts the outlier.
	mean, _ := mw.Update(1)
	assert.InDelta(t, 1.0, mean, 1e-9)
	assert.Equal(t, 3, mw.Len())
}

func TestMovingWindowDrop(t *testing.T) {
	mw := util.NewMovingWindow(4)
	for _, v := range []float64{10, 10, 2, 2} {
		mw.Update(v)
	}

	mean, _ := mw.Drop(2)
	assert.InDelta(t, 2.0, mean, 1e-9)
	assert.Equal(t, 2, mw.Len())

	mean, sd := mw.Drop(10)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, sd)
	assert.Equal(t, 0, mw.Len())
}

func TestMovingWindowStdDev(t *testing.T) {
	mw := util.NewMovingWindow(8)
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		mw.Update(v)
	}

	mean, sd := mw.Stats()
	assert.InDelta(t, 5.0, mean, 1e-9)
	// sqrt(sum(v^2)/(n-1) - mean^2) for the 2,4,4,4,5,5,7,9 set.
	assert.InDelta(t, math.Sqrt(232.0/7.0-25.0), sd, 1e-9)
}
