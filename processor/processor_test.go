package processor_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lumen-vis/lumen/dsp/window"
	"github.com/lumen-vis/lumen/input"
	"github.com/lumen-vis/lumen/processor"
)

const (
	testRate = 44100.0
	testSize = 256
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProcessor() (*processor.Processor, [][]input.Sample, *sync.Mutex) {
	buffers := input.MakeBuffers(1, testSize)
	mu := &sync.Mutex{}

	proc := processor.New(processor.Config{
		SampleRate:   testRate,
		SampleSize:   testSize,
		ChannelCount: 1,
		Buffers:      buffers,
		Windower:     window.Hann,
		Logger:       testLogger(),
	}, mu)

	return proc, buffers, mu
}

func writeTone(buffers [][]input.Sample, mu *sync.Mutex, hz float64) {
	mu.Lock()
	defer mu.Unlock()
	for i := range buffers[0] {
		buffers[0][i] = 0.8 * math.Sin(2*math.Pi*hz*float64(i)/testRate)
	}
}

// TestProcessorNilUntilKicked checks the "no data" contract: both
// accessors return nil before the first buffer write arrives.
func TestProcessorNilUntilKicked(t *testing.T) {
	defer goleak.VerifyNone(t)

	proc, _, _ := newTestProcessor()
	assert.Nil(t, proc.FrequencyData())
	assert.Nil(t, proc.WaveformData())
}

func TestProcessorServesDataAfterKick(t *testing.T) {
	defer goleak.VerifyNone(t)

	proc, buffers, mu := newTestProcessor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kick := make(chan bool, 1)
	proc.Start(ctx, kick)

	writeTone(buffers, mu, 1000)
	kick <- true

	require.Eventually(t, func() bool {
		return proc.FrequencyData() != nil
	}, time.Second, time.Millisecond)

	freq := proc.FrequencyData()
	require.Len(t, freq, testSize)
	for _, v := range freq {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}

	// The tone must dominate its own bin region.
	peakBin := 0
	for i, v := range freq[:testSize/2] {
		if v > freq[peakBin] {
			peakBin = i
		}
	}
	wantBin := int(math.Floor(1000 * testSize / testRate))
	assert.InDelta(t, wantBin, peakBin, 1.0)

	wave := proc.WaveformData()
	require.Len(t, wave, testSize)
	mu.Lock()
	assert.InDelta(t, buffers[0][10], wave[10], 1e-9)
	mu.Unlock()
}

func TestProcessorReconfigure(t *testing.T) {
	defer goleak.VerifyNone(t)

	proc, buffers, mu := newTestProcessor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kick := make(chan bool, 1)
	proc.Start(ctx, kick)

	writeTone(buffers, mu, 500)
	kick <- true

	require.Eventually(t, func() bool {
		return proc.FrequencyData() != nil
	}, time.Second, time.Millisecond)

	wide := proc.FrequencyData()

	// Narrowing the window onto the signal raises everything that was
	// inside it and clamps what sat above the new ceiling.
	proc.Reconfigure(-65, -15)
	narrow := proc.FrequencyData()

	require.Len(t, narrow, len(wide))
	changed := false
	for i := range narrow {
		require.GreaterOrEqual(t, narrow[i], 0.0)
		require.LessOrEqual(t, narrow[i], 1.0)
		if math.Abs(narrow[i]-wide[i]) > 1e-9 {
			changed = true
		}
	}
	assert.True(t, changed, "reconfigure must change the normalization")
}

func TestProcessorPlayingFlag(t *testing.T) {
	defer goleak.VerifyNone(t)

	proc, _, _ := newTestProcessor()

	assert.False(t, proc.Playing())
	proc.SetPlaying(true)
	assert.True(t, proc.Playing())
	proc.SetPlaying(false)
	assert.False(t, proc.Playing())

	assert.Equal(t, testRate, proc.SampleRate())
}

// TestProcessorReconfigureWhileReading mirrors the real contention: the
// render loop reads on one goroutine while a sensitivity change swaps
// the analyzer from another. Every read must see a coherent analyzer.
func TestProcessorReconfigureWhileReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	proc, buffers, mu := newTestProcessor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kick := make(chan bool, 1)
	proc.Start(ctx, kick)

	writeTone(buffers, mu, 2000)
	kick <- true

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if freq := proc.FrequencyData(); freq != nil {
				for _, v := range freq {
					if v < 0 || v > 1 {
						t.Errorf("magnitude %v escaped [0,1]", v)
						return
					}
				}
			}
			proc.WaveformData()
		}
	}()

	for i := 0; i < 50; i++ {
		proc.Reconfigure(-100+float64(i), -30+float64(i%20))
	}
	<-done
}
