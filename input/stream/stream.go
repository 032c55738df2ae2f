// Package stream plays HTTP(S) audio streams (mp3 framing, the common
// icecast/shoutcast case) as an input backend.
package stream

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/input"
)

func init() {
	input.RegisterBackend("stream", Backend{})
}

// Backend opens network stream URLs as sessions.
type Backend struct{}

func (Backend) Init() error  { return nil }
func (Backend) Close() error { return nil }

func (Backend) Devices() ([]input.Device, error) {
	return nil, nil
}

func (Backend) DefaultDevice() (input.Device, error) {
	return nil, errors.New("stream backend needs an explicit URL, use -d")
}

func (Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device is a stream URL.
type Device string

func (d Device) String() string { return string(d) }

// Session decodes an mp3 network stream into the pipeline buffers.
type Session struct {
	cfg input.SessionConfig
	url string

	mu      sync.Mutex
	playing bool
	gain    float64
}

// NewSession validates the URL and prepares the session. Plain HTTP is
// rejected up front: capture over an unencrypted transport is a
// deployment problem, not something a retry can fix.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	u, err := url.Parse(string(dv))
	if err != nil {
		return nil, errors.Wrap(input.ErrDeviceNotFound, err.Error())
	}

	switch u.Scheme {
	case "https":
	case "http":
		return nil, errors.Wrapf(input.ErrInsecureTransport,
			"refusing plain http stream %q, use https", u.Host)
	default:
		return nil, errors.Wrapf(input.ErrDeviceNotFound,
			"unsupported scheme %q", u.Scheme)
	}

	return &Session{
		cfg:     cfg,
		url:     string(dv),
		playing: true,
		gain:    input.GainForVolume(1),
	}, nil
}

// Start connects and copies decoded windows into dst until the stream
// ends or ctx is cancelled. The connection honors ctx, so a hung server
// is cancellable rather than blocking forever.
func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst buffer layout")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return errors.Wrap(input.ErrDeviceNotFound, err.Error())
	}

	client := &http.Client{Timeout: 0} // streaming body, ctx handles cancel
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(input.ErrDeviceNotFound, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(input.ErrDeviceNotFound, "server returned %s", resp.Status)
	}

	dec, err := gomp3.NewDecoder(resp.Body)
	if err != nil {
		return errors.Wrap(input.ErrDecodeFailed, err.Error())
	}

	// go-mp3 yields 16-bit little-endian stereo at its own rate, which
	// need not match the session rate. Each window decodes enough
	// decoder-rate frames to cover one session window and linearly
	// resamples them, so bin-to-frequency mappings downstream stay
	// anchored to the session rate.
	decRate := float64(dec.SampleRate())
	if decRate <= 0 {
		decRate = s.cfg.SampleRate
	}
	srcFrames := srcWindowFrames(s.cfg.SampleSize, s.cfg.SampleRate, decRate)

	raw := make([]byte, srcFrames*4)
	srcL := make([]float64, srcFrames)
	srcR := make([]float64, srcFrames)
	outL := make([]float64, s.cfg.SampleSize)
	outR := make([]float64, s.cfg.SampleSize)

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

		if err := s.readWindow(dec, raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(input.ErrDecodeFailed, err.Error())
		}

		for i := 0; i < srcFrames; i++ {
			srcL[i] = pcm16(raw, 2*i)
			srcR[i] = pcm16(raw, 2*i+1)
		}
		resampleInto(outL, srcL)
		resampleInto(outR, srcR)

		s.mu.Lock()
		playing, gain := s.playing, s.gain
		s.mu.Unlock()

		mu.Lock()
		for i := 0; i < s.cfg.SampleSize; i++ {
			if !playing {
				for ch := range dst {
					dst[ch][i] = 0
				}
				continue
			}

			l := outL[i] * gain
			r := outR[i] * gain
			if s.cfg.FrameSize == 1 {
				dst[0][i] = (l + r) / 2
			} else {
				dst[0][i] = l
				dst[1][i] = r
			}
		}
		mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case kick <- true:
		}
	}
}

// pcm16 reads the nth little-endian int16 sample as a float in [-1, 1].
func pcm16(raw []byte, n int) float64 {
	return float64(int16(uint16(raw[2*n])|uint16(raw[2*n+1])<<8)) / 32768.0
}

// srcWindowFrames is how many decoder-rate frames cover one window of
// sessionSize frames at sessionRate.
func srcWindowFrames(sessionSize int, sessionRate, decRate float64) int {
	if decRate == sessionRate || sessionRate <= 0 {
		return sessionSize
	}
	n := int(math.Round(float64(sessionSize) * decRate / sessionRate))
	if n < 2 {
		n = 2
	}
	return n
}

// resampleInto linearly resamples src into dst; equal lengths copy.
func resampleInto(dst, src []float64) {
	if len(dst) == 0 || len(src) == 0 {
		return
	}
	if len(dst) == len(src) {
		copy(dst, src)
		return
	}
	if len(src) == 1 || len(dst) == 1 {
		for i := range dst {
			dst[i] = src[0]
		}
		return
	}

	step := float64(len(src)-1) / float64(len(dst)-1)
	for i := range dst {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(src)-1 {
			dst[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(idx)
		dst[i] = src[idx] + (src[idx+1]-src[idx])*frac
	}
}

func (s *Session) readWindow(dec *gomp3.Decoder, raw []byte) error {
	read := 0
	for read < len(raw) {
		n, err := dec.Read(raw[read:])
		read += n
		if err != nil {
			for i := read; i < len(raw); i++ {
				raw[i] = 0
			}
			return err
		}
	}
	return nil
}

// Play resumes feeding decoded audio into the pipeline.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
}

// Pause mutes the pipeline while keeping the connection alive.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// Stop behaves like Pause; a live stream has no position to rewind.
func (s *Session) Stop() { s.Pause() }

// Seek is a no-op: live streams are not seekable.
func (s *Session) Seek(float64) {}

// SetVolume sets stream volume in [0, 1].
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gain = input.GainForVolume(v)
}

// Playing reports whether decoded audio is being fed downstream.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Position is always zero for live streams.
func (s *Session) Position() float64 { return 0 }

// Duration is always zero for live streams.
func (s *Session) Duration() float64 { return 0 }
