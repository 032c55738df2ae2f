package graphic

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/dsp"
	"github.com/lumen-vis/lumen/settings"
	"github.com/lumen-vis/lumen/vis"
)

// State is the loop lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

// Surface is what the loop draws on: a cell canvas with frame control.
type Surface interface {
	vis.Canvas
	Clear()
	Flush() error
}

// Tap supplies the latest raw feature buffers. A nil return means "no
// data this frame": the loop draws an idle frame and moves on, never an
// error.
type Tap interface {
	FrequencyData() []float64
	WaveformData() []float64
	Playing() bool
}

// LoopConfig wires a render loop.
type LoopConfig struct {
	Store   *settings.Store
	Tap     Tap
	Surface Surface
	Logger  *slog.Logger
}

// Loop is the per-surface render loop driver. It owns exactly one
// renderer at a time, swapping it when the mode changes and disposing
// it on stop. While mounted the loop never fully halts: paused playback
// still draws idle frames so resuming never restarts with a glitch.
type Loop struct {
	cfg LoopConfig

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	done     chan struct{}
	renderer vis.Renderer
	mode     settings.Mode
	lastW    int
	lastH    int
}

// NewLoop creates a loop in the idle state.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop{cfg: cfg}
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start begins ticking. Any outstanding loop is cancelled first so two
// loops can never draw to the same surface concurrently.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()

	if l.cancel != nil {
		cancel, done := l.cancel, l.done
		l.mu.Unlock()
		cancel()
		<-done
		l.mu.Lock()
	}

	if l.state == StateStopped {
		l.mu.Unlock()
		return errors.New("loop already stopped, create a new one")
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.state = StateRunning
	done := l.done
	l.mu.Unlock()

	go l.run(runCtx, done)
	return nil
}

// Pause keeps the loop ticking but draws idle frames only.
func (l *Loop) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateRunning {
		l.state = StatePaused
	}
}

// Resume returns a paused loop to full drawing.
func (l *Loop) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StatePaused {
		l.state = StateRunning
	}
}

// Stop cancels the outstanding tick, waits for the loop goroutine to
// exit, and disposes the renderer. Leaving renderer resources behind on
// unmount is a leak, so this is the single disposal path.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.renderer != nil {
		l.renderer.Dispose()
		l.renderer = nil
	}
	l.state = StateStopped
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	fps := l.cfg.Store.Load().FrameRate
	ticker := time.NewTicker(frameDur(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		l.tick()

		if next := l.cfg.Store.Load().FrameRate; next != fps {
			fps = next
			ticker.Reset(frameDur(fps))
		}
	}
}

func frameDur(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// tick renders one frame. Transient read or mapping failures are
// contained here: logged, dropped, and never allowed to unwind the
// loop.
func (l *Loop) tick() {
	defer func() {
		if r := recover(); r != nil {
			l.cfg.Logger.Warn("dropped frame", "panic", r)
		}
	}()

	s := l.cfg.Store.Load()

	l.mu.Lock()
	if l.renderer == nil || l.mode != s.Mode {
		if l.renderer != nil {
			l.renderer.Dispose()
		}
		w, h := l.cfg.Surface.Size()
		l.renderer = vis.New(s.Mode)
		l.renderer.Init(w, h)
		l.mode = s.Mode
		l.lastW, l.lastH = w, h
	}

	// A resize updates projection only; renderer entity state stays.
	if w, h := l.cfg.Surface.Size(); w != l.lastW || h != l.lastH {
		l.renderer.Resize(w, h)
		l.lastW, l.lastH = w, h
	}

	renderer := l.renderer
	paused := l.state == StatePaused
	l.mu.Unlock()

	frame := l.extract(s, paused)

	l.cfg.Surface.Clear()
	renderer.Draw(l.cfg.Surface, frame, s)

	if err := l.cfg.Surface.Flush(); err != nil {
		l.cfg.Logger.Warn("flush failed", "err", err)
	}
}

// extract pulls raw buffers and derives the full feature frame before
// any draw call sees it; a draw never observes a half-built frame.
func (l *Loop) extract(s settings.Settings, paused bool) vis.Frame {
	frame := vis.Frame{}

	if paused || l.cfg.Tap == nil {
		return frame
	}

	frame.Playing = l.cfg.Tap.Playing()

	freq := l.cfg.Tap.FrequencyData()
	if freq == nil {
		// Not ready; idle frame.
		return frame
	}

	// Band placement needs the full-resolution layout; everything
	// indexing the spectrum with equal width gets the live half only,
	// otherwise the zero bins above Nyquist dead-zone the upper bands.
	frame.Bands = dsp.Bands(freq, s.BandCount, sampleRateOf(l.cfg.Tap))

	spectrum := dsp.Spectrum(freq)
	frame.Freq = spectrum
	frame.Wave = l.cfg.Tap.WaveformData()
	frame.Energy = dsp.BandEnergy(spectrum, s.BandCount)
	frame.Beat = dsp.DetectBeat(spectrum, dsp.DefaultBeatThreshold)

	return frame
}

// RateTap is an optional Tap extension reporting the sample rate behind
// the magnitudes.
type RateTap interface {
	SampleRate() float64
}

func sampleRateOf(t Tap) float64 {
	if rt, ok := t.(RateTap); ok {
		return rt.SampleRate()
	}
	return 44100
}
