package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-vis/lumen/input"
)

func newTestSession(frames int) *Session {
	clip := &Clip{
		Samples: input.MakeBuffers(1, frames),
		Rate:    44100,
	}
	for i := range clip.Samples[0] {
		clip.Samples[0][i] = 0.25
	}

	return &Session{
		cfg: input.SessionConfig{
			FrameSize:  1,
			SampleSize: 64,
			SampleRate: 44100,
		},
		clip:    clip,
		playing: true,
		gain:    input.GainForVolume(1),
	}
}

func TestSessionFill(t *testing.T) {
	s := newTestSession(4410)
	dst := input.MakeBuffers(1, 64)

	s.fill(dst)
	assert.InDelta(t, 0.25, dst[0][0], 1e-9)
	assert.InDelta(t, 64.0/44100.0, s.Position(), 1e-9)

	// Paused playback writes silence and holds the playhead.
	s.Pause()
	s.fill(dst)
	assert.Zero(t, dst[0][0])
	assert.InDelta(t, 64.0/44100.0, s.Position(), 1e-9)
	assert.False(t, s.Playing())
}

func TestSessionFillAppliesGain(t *testing.T) {
	s := newTestSession(4410)
	dst := input.MakeBuffers(1, 64)

	s.SetVolume(0.5)
	s.fill(dst)
	assert.InDelta(t, 0.25*0.5, dst[0][0], 1e-9)
}

func TestSessionEndOfClip(t *testing.T) {
	s := newTestSession(32) // shorter than one window
	dst := input.MakeBuffers(1, 64)

	s.fill(dst)
	assert.InDelta(t, 0.25, dst[0][0], 1e-9)
	assert.Zero(t, dst[0][40], "past-end frames must be silent")

	// The next window is past the end: playback stops.
	s.fill(dst)
	assert.False(t, s.Playing())
	assert.Zero(t, dst[0][0])

	// Play from the end rewinds to the start.
	s.Play()
	assert.True(t, s.Playing())
	assert.Zero(t, s.Position())
}

func TestSessionSeekClamps(t *testing.T) {
	s := newTestSession(44100) // one second

	s.Seek(0.5)
	assert.InDelta(t, 0.5, s.Position(), 1e-9)

	s.Seek(-3)
	assert.Zero(t, s.Position())

	s.Seek(99)
	assert.InDelta(t, 1.0, s.Position(), 1e-9)
	assert.InDelta(t, 1.0, s.Duration(), 1e-9)
}

func TestSessionStopRewinds(t *testing.T) {
	s := newTestSession(44100)

	s.Seek(0.7)
	s.Stop()
	assert.False(t, s.Playing())
	assert.Zero(t, s.Position())
}

func TestDecodeUnknownExtension(t *testing.T) {
	_, err := Decode("track.aac")
	require.Error(t, err)
	assert.True(t, input.Retryable(err))
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode("/nonexistent/track.wav")
	assert.Error(t, err)
}
