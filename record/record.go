// Package record exports rendered frames to a video file. The core
// pipeline never depends on it; it exists as the contract boundary for
// export, muxed by an external ffmpeg process.
package record

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/pkg/errors"
)

// Options describe the export target.
type Options struct {
	Width     int
	Height    int
	FrameRate int    // 30 or 60
	AudioPath string // optional audio to mux in
	Output    string // output container path (.mp4 or .webm)
	Quality   int    // encoder crf, lower is better; 0 picks a default
}

// Recorder accepts raw RGBA frames and produces a playable file.
type Recorder interface {
	Start(ctx context.Context) error
	WriteFrame(rgba []byte) error
	Stop() error
}

// FFmpeg pipes raw frames into an ffmpeg subprocess that encodes and
// muxes them with the audio track.
type FFmpeg struct {
	opts  Options
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// NewFFmpeg returns a recorder for the given options.
func NewFFmpeg(opts Options) *FFmpeg {
	if opts.FrameRate != 30 && opts.FrameRate != 60 {
		opts.FrameRate = 30
	}
	if opts.Quality <= 0 {
		opts.Quality = 23
	}
	return &FFmpeg{opts: opts}
}

// Start launches the encoder process.
func (f *FFmpeg) Start(ctx context.Context) error {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", f.opts.Width, f.opts.Height),
		"-r", fmt.Sprintf("%d", f.opts.FrameRate),
		"-i", "-",
	}
	if f.opts.AudioPath != "" {
		args = append(args, "-i", f.opts.AudioPath, "-c:a", "aac", "-shortest")
	}
	args = append(args,
		"-c:v", "libx264",
		"-crf", fmt.Sprintf("%d", f.opts.Quality),
		"-pix_fmt", "yuv420p",
		f.opts.Output,
	)

	f.cmd = exec.CommandContext(ctx, "ffmpeg", args...)

	stdin, err := f.cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "failed to open encoder stdin")
	}
	f.stdin = stdin

	if err := f.cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start ffmpeg")
	}
	return nil
}

// WriteFrame sends one raw RGBA frame. The caller must deliver exactly
// Width*Height*4 bytes per frame at the configured rate.
func (f *FFmpeg) WriteFrame(rgba []byte) error {
	if f.stdin == nil {
		return errors.New("recorder not started")
	}
	if len(rgba) != f.opts.Width*f.opts.Height*4 {
		return errors.Errorf("frame size %d does not match %dx%d RGBA",
			len(rgba), f.opts.Width, f.opts.Height)
	}
	_, err := f.stdin.Write(rgba)
	return err
}

// Stop closes the frame stream and waits for the encoder to finish the
// container.
func (f *FFmpeg) Stop() error {
	if f.stdin != nil {
		f.stdin.Close()
		f.stdin = nil
	}
	if f.cmd != nil {
		return errors.Wrap(f.cmd.Wait(), "ffmpeg exited with error")
	}
	return nil
}
