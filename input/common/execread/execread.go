// Package execread streams floating-point samples from the stdout of a
// capture subprocess such as parec or ffmpeg.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/lumen-vis/lumen/input"
	"github.com/pkg/errors"
)

// Session reads interleaved little-endian floats from a command's
// stdout and deinterleaves them into channel-major sample buffers.
type Session struct {
	// OnStart is called right after the subprocess starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	argv []string
	cfg  input.SessionConfig

	samples int // sample size times frame size

	f32mode bool
}

// NewSession creates a session running argv. f32mode selects 32-bit
// floats on the wire instead of 64-bit.
func NewSession(argv []string, f32mode bool, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("execread: argv has no arg0")
	}

	return &Session{
		argv:    argv,
		cfg:     cfg,
		f32mode: f32mode,
		samples: cfg.SampleSize * cfg.FrameSize,
	}
}

// Start runs the subprocess and copies sample windows into dst until
// ctx is cancelled or the stream ends.
func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst buffer layout")
	}

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stderr = os.Stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	// We need the pipe as an *os.File for SetReadDeadline.
	of, ok := o.(*os.File)
	if !ok {
		return errors.New("stdout pipe is not an *os.File (bug)")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	frameSize := s.cfg.FrameSize
	reader := floatReader{
		order: binary.LittleEndian,
		f64:   !s.f32mode,
	}

	wordSize := 4
	if !s.f32mode {
		wordSize = 8
	}
	raw := make([]byte, s.samples*wordSize)

	windowDur := time.Duration(
		float64(s.cfg.SampleSize) / s.cfg.SampleRate * float64(time.Second))

	// The first reads after a stall can block for longer than one
	// window while the process refills, so the deadline is generous
	// until a timeout is actually seen.
	var readExpired bool

	for {
		timeout := windowDur
		if !readExpired {
			timeout *= 6
		}
		if err := of.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return errors.Wrap(err, "failed to set read deadline")
		}

		_, err := io.ReadFull(o, raw)
		switch {
		case err == nil:
			readExpired = false
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, os.ErrDeadlineExceeded):
			readExpired = true
		default:
			return err
		}

		mu.Lock()
		if readExpired {
			// Write silence directly rather than parsing zero bytes.
			for _, buf := range dst {
				for i := range buf {
					buf[i] = 0
				}
			}
		} else {
			reader.reset(raw)
			for n := 0; n < s.samples; n++ {
				dst[n%frameSize][n/frameSize] = reader.next()
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

// floatReader walks a raw byte buffer yielding one float per call.
type floatReader struct {
	order binary.ByteOrder
	raw   []byte
	pos   int
	f64   bool
}

func (f *floatReader) reset(raw []byte) {
	f.raw = raw
	f.pos = 0
}

func (f *floatReader) next() float64 {
	if f.f64 {
		bits := f.order.Uint64(f.raw[f.pos:])
		f.pos += 8
		return math.Float64frombits(bits)
	}

	bits := f.order.Uint32(f.raw[f.pos:])
	f.pos += 4
	return float64(math.Float32frombits(bits))
}
