package file

import "github.com/lumen-vis/lumen/input"

// Conform adapts a decoded clip to the session's channel count and
// sample rate: stereo mixes down by averaging, mono duplicates across
// channels, and rate conversion uses linear interpolation. The band
// mapping in dsp assumes magnitudes were produced at the session rate,
// so playing a 48 kHz file into a 44.1 kHz session without conversion
// would skew every bin-to-frequency lookup.
func Conform(clip *Clip, channels int, rate float64) *Clip {
	if clip == nil || channels < 1 || rate <= 0 {
		return clip
	}

	out := clip

	if len(out.Samples) != channels {
		out = remix(out, channels)
	}

	if out.Rate != rate {
		out = resample(out, rate)
	}

	return out
}

func remix(clip *Clip, channels int) *Clip {
	frames := clip.Frames()
	out := &Clip{
		Samples: input.MakeBuffers(channels, frames),
		Rate:    clip.Rate,
	}

	if len(clip.Samples) == 1 {
		for ch := range out.Samples {
			copy(out.Samples[ch], clip.Samples[0])
		}
		return out
	}

	// Downmix by averaging all source channels, then spread the result.
	mono := make([]float64, frames)
	for _, src := range clip.Samples {
		for i, v := range src {
			mono[i] += v / float64(len(clip.Samples))
		}
	}
	for ch := range out.Samples {
		copy(out.Samples[ch], mono)
	}

	return out
}

func resample(clip *Clip, rate float64) *Clip {
	srcFrames := clip.Frames()
	dstFrames := int(float64(srcFrames) * rate / clip.Rate)
	if dstFrames < 1 || srcFrames < 2 {
		return clip
	}

	out := &Clip{
		Samples: input.MakeBuffers(len(clip.Samples), dstFrames),
		Rate:    rate,
	}

	step := float64(srcFrames-1) / float64(dstFrames-1)
	for ch, src := range clip.Samples {
		dst := out.Samples[ch]
		for i := range dst {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= srcFrames-1 {
				dst[i] = src[srcFrames-1]
				continue
			}
			frac := pos - float64(idx)
			dst[i] = src[idx] + (src[idx+1]-src[idx])*frac
		}
	}

	return out
}
