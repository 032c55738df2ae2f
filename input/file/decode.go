package file

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	gowav "github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/input"
)

// Clip is a fully decoded audio file: channel-major samples in [-1, 1]
// at the clip's native rate.
type Clip struct {
	Samples [][]float64
	Rate    float64
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if len(c.Samples) == 0 {
		return 0
	}
	return len(c.Samples[0])
}

// Seconds returns the clip duration in seconds.
func (c *Clip) Seconds() float64 {
	if c.Rate <= 0 {
		return 0
	}
	return float64(c.Frames()) / c.Rate
}

type decodeFunc func(r io.ReadSeeker) (*Clip, error)

var decoders = map[string]decodeFunc{
	".wav":  decodeWav,
	".mp3":  decodeMp3,
	".ogg":  decodeVorbis,
	".oga":  decodeVorbis,
	".flac": decodeFlac,
}

// Decode opens and fully decodes the audio file at path, selecting the
// decoder by extension. Unsupported or corrupt files wrap
// input.ErrDecodeFailed; a missing file wraps input.ErrDeviceNotFound.
func Decode(path string) (*Clip, error) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, errors.Wrapf(input.ErrDecodeFailed,
			"unsupported file type %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(input.ErrDeviceNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	clip, err := dec(f)
	if err != nil {
		return nil, errors.Wrapf(input.ErrDecodeFailed, "%s: %v", path, err)
	}
	if clip.Frames() == 0 {
		return nil, errors.Wrapf(input.ErrDecodeFailed, "%s: empty stream", path)
	}

	return clip, nil
}

func decodeWav(r io.ReadSeeker) (*Clip, error) {
	dec := gowav.NewDecoder(r)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, errors.New("missing format chunk")
	}

	channels := buf.Format.NumChannels
	scale := 1.0
	if dec.BitDepth > 0 {
		scale = float64(int(1) << (dec.BitDepth - 1))
	}

	frames := len(buf.Data) / channels
	clip := &Clip{
		Samples: input.MakeBuffers(channels, frames),
		Rate:    float64(buf.Format.SampleRate),
	}

	for n := 0; n < frames*channels; n++ {
		clip.Samples[n%channels][n/channels] = float64(buf.Data[n]) / scale
	}

	return clip, nil
}

func decodeMp3(r io.ReadSeeker) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	// go-mp3 always yields 16-bit little-endian stereo.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	frames := len(raw) / 4
	clip := &Clip{
		Samples: input.MakeBuffers(2, frames),
		Rate:    float64(dec.SampleRate()),
	}

	for n := 0; n < frames*2; n++ {
		v := int16(uint16(raw[2*n]) | uint16(raw[2*n+1])<<8)
		clip.Samples[n%2][n/2] = float64(v) / 32768.0
	}

	return clip, nil
}

func decodeVorbis(r io.ReadSeeker) (*Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format.Channels < 1 {
		return nil, errors.New("no channels")
	}

	channels := format.Channels
	frames := len(data) / channels
	clip := &Clip{
		Samples: input.MakeBuffers(channels, frames),
		Rate:    float64(format.SampleRate),
	}

	for n := 0; n < frames*channels; n++ {
		clip.Samples[n%channels][n/channels] = float64(data[n])
	}

	return clip, nil
}

func decodeFlac(r io.ReadSeeker) (*Clip, error) {
	stream, err := flac.Parse(r)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	clip := &Clip{
		Samples: make([][]float64, channels),
		Rate:    float64(stream.Info.SampleRate),
	}

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				clip.Samples[ch] = append(clip.Samples[ch], float64(s)/scale)
			}
		}
	}

	return clip, nil
}
