// Package processor bridges the input session and the render loop: it
// owns the shared sample buffers, runs the FFT, and serves the latest
// frequency and waveform data on demand.
package processor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumen-vis/lumen/dsp"
	"github.com/lumen-vis/lumen/dsp/window"
	"github.com/lumen-vis/lumen/fft"
	"github.com/lumen-vis/lumen/input"
)

// Config wires a processor.
type Config struct {
	SampleRate   float64          // rate at which samples are read
	SampleSize   int              // number of samples per buffer
	ChannelCount int              // number of input channels
	Buffers      [][]input.Sample // sample buffers shared with the input session
	Windower     window.Function  // applied before the FFT
	Logger       *slog.Logger
}

// Processor double-buffers the audio samples so the input session can
// keep writing while a frame is being analyzed. Frequency and waveform
// accessors return nil until the first kick arrives and after the
// source goes quiet, which downstream treats as "skip this frame".
type Processor struct {
	cfg Config

	// mu is shared with the input session and guards cfg.Buffers.
	mu *sync.Mutex

	scratch [][]input.Sample
	mixed   []float64
	fftBuf  []complex128
	mags    []float64
	plan    *fft.Plan

	// anlz is swapped wholesale on reconfiguration; an in-flight read
	// keeps its own reference and finishes against the old window.
	anlz atomic.Pointer[dsp.Analyzer]

	lastKick atomic.Int64 // unix nanos of the last buffer write
	playing  atomic.Bool
}

// New creates a processor over the shared buffers. mu must be the same
// mutex handed to the input session.
func New(cfg Config, mu *sync.Mutex) *Processor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &Processor{
		cfg:     cfg,
		mu:      mu,
		scratch: input.MakeBuffers(cfg.ChannelCount, cfg.SampleSize),
		mixed:   make([]float64, cfg.SampleSize),
		fftBuf:  make([]complex128, cfg.SampleSize/2+1),
	}
	p.plan = fft.NewPlan(p.mixed, p.fftBuf)

	p.anlz.Store(dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: cfg.SampleRate,
		SampleSize: cfg.SampleSize,
	}))

	return p
}

// Start consumes kick signals from the input session until ctx ends.
// Each kick marks the buffers fresh.
func (p *Processor) Start(ctx context.Context, kick <-chan bool) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-kick:
				p.lastKick.Store(time.Now().UnixNano())
			}
		}
	}()
}

// SetPlaying records whether the transport is advancing, for idle
// gating downstream.
func (p *Processor) SetPlaying(v bool) { p.playing.Store(v) }

// Playing reports the transport state.
func (p *Processor) Playing() bool { return p.playing.Load() }

// SampleRate reports the session sample rate behind the magnitudes.
func (p *Processor) SampleRate() float64 { return p.cfg.SampleRate }

// Reconfigure swaps in a new analyzer with the given decibel window.
// The old analyzer is dropped, never mutated, so a read that already
// grabbed it completes consistently.
func (p *Processor) Reconfigure(minDb, maxDb float64) {
	p.anlz.Store(dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: p.cfg.SampleRate,
		SampleSize: p.cfg.SampleSize,
		MinDb:      minDb,
		MaxDb:      maxDb,
	}))
}

// ready reports whether fresh samples arrived recently.
func (p *Processor) ready() bool {
	last := p.lastKick.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) < time.Second
}

// snapshot copies the shared buffers and mixes channels down to mono.
func (p *Processor) snapshot() {
	p.mu.Lock()
	input.CopyBuffers(p.scratch, p.cfg.Buffers)
	p.mu.Unlock()

	chans := float64(len(p.scratch))
	for i := range p.mixed {
		sum := 0.0
		for ch := range p.scratch {
			sum += p.scratch[ch][i]
		}
		p.mixed[i] = sum / chans
	}
}

// FrequencyData returns normalized [0,1] spectral magnitudes for the
// latest window, or nil when no source is active.
func (p *Processor) FrequencyData() []float64 {
	if !p.ready() {
		return nil
	}

	p.snapshot()

	if p.cfg.Windower != nil {
		p.cfg.Windower(p.mixed)
	}
	p.plan.Execute()

	p.mags = p.anlz.Load().Magnitudes(p.fftBuf, p.mags)

	out := make([]float64, len(p.mags))
	copy(out, p.mags)
	return out
}

// WaveformData returns the latest raw sample window in [-1,1], or nil
// when no source is active.
func (p *Processor) WaveformData() []float64 {
	if !p.ready() {
		return nil
	}

	p.mu.Lock()
	input.CopyBuffers(p.scratch, p.cfg.Buffers)
	p.mu.Unlock()

	out := make([]float64, p.cfg.SampleSize)
	chans := float64(len(p.scratch))
	for i := range out {
		sum := 0.0
		for ch := range p.scratch {
			sum += p.scratch[ch][i]
		}
		out[i] = sum / chans
	}
	return out
}
