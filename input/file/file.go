// Package file plays decoded audio files (wav, mp3, ogg, flac) as an
// input backend with full transport control: play, pause, stop, seek
// and a logarithmic volume.
package file

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/input"
)

func init() {
	input.RegisterBackend("file", Backend{})
}

// Backend opens audio files as playback sessions.
type Backend struct{}

func (Backend) Init() error  { return nil }
func (Backend) Close() error { return nil }

// Devices returns nothing: file devices are paths, not enumerable.
func (Backend) Devices() ([]input.Device, error) {
	return nil, nil
}

func (Backend) DefaultDevice() (input.Device, error) {
	return nil, errors.New("file backend needs an explicit path, use -d")
}

func (Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device is an audio file path.
type Device string

func (d Device) String() string { return string(d) }

// Session plays a fully decoded clip into the pipeline buffers at the
// session rate. It implements input.Session and input.Transport.
type Session struct {
	cfg  input.SessionConfig
	clip *Clip
	meta Meta

	mu      sync.Mutex
	pos     int
	playing bool
	gain    float64
}

var _ input.Transport = (*Session)(nil)

// NewSession decodes the device path and prepares playback. Decoding
// happens up front so transport errors surface before any drawing
// starts.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	path, ok := cfg.Device.(Device)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	clip, err := Decode(string(path))
	if err != nil {
		return nil, err
	}

	return &Session{
		cfg:     cfg,
		clip:    Conform(clip, cfg.FrameSize, cfg.SampleRate),
		meta:    ReadMeta(string(path)),
		playing: true,
		gain:    input.GainForVolume(1),
	}, nil
}

// Meta returns the track metadata read from the file's tags.
func (s *Session) Meta() Meta { return s.meta }

// Start paces playback at the session rate, copying one window of
// samples into dst per tick and kicking the pipeline. Paused playback
// writes silence so downstream consumers keep drawing idle frames.
func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst buffer layout")
	}

	windowDur := time.Duration(
		float64(s.cfg.SampleSize) / s.cfg.SampleRate * float64(time.Second))

	ticker := time.NewTicker(windowDur)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		mu.Lock()
		s.fill(dst)
		mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case kick <- true:
		}
	}
}

// fill writes the next window into dst and advances the playhead.
func (s *Session) fill(dst [][]input.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := s.clip.Frames()

	if !s.playing || s.pos >= frames {
		if s.pos >= frames {
			s.playing = false
		}
		for _, buf := range dst {
			for i := range buf {
				buf[i] = 0
			}
		}
		return
	}

	for ch, buf := range dst {
		src := s.clip.Samples[ch%len(s.clip.Samples)]
		for i := range buf {
			if s.pos+i < frames {
				buf[i] = src[s.pos+i] * s.gain
			} else {
				buf[i] = 0
			}
		}
	}

	s.pos += s.cfg.SampleSize
}

// Play resumes playback from the current position.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= s.clip.Frames() {
		s.pos = 0
	}
	s.playing = true
}

// Pause halts playback, keeping the position.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// Stop halts playback and rewinds to the start.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.pos = 0
}

// Seek moves the playhead to the given offset in seconds, clamped to
// the clip bounds.
func (s *Session) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := int(seconds * s.cfg.SampleRate)
	if pos < 0 {
		pos = 0
	}
	if max := s.clip.Frames(); pos > max {
		pos = max
	}
	s.pos = pos
}

// SetVolume sets playback volume in [0, 1], mapped to a logarithmic
// gain.
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gain = input.GainForVolume(v)
}

// Playing reports whether the playhead is advancing.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Position returns the playhead offset in seconds.
func (s *Session) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.pos) / s.cfg.SampleRate
}

// Duration returns the clip length in seconds.
func (s *Session) Duration() float64 {
	return s.clip.Seconds()
}
