// Package input provides audio signal sources. A source backend owns a
// device or file handle and streams sample windows into shared buffers,
// kicking the pipeline after each write.
package input

// Sample is the datatype we want from our inputs.
type Sample = float64

// MakeBuffers allocates channel-major sample buffers.
func MakeBuffers(channels, samples int) [][]Sample {
	bufs := make([][]Sample, channels)
	for i := range bufs {
		bufs[i] = make([]Sample, samples)
	}
	return bufs
}

// CopyBuffers copies src into dst channel by channel.
func CopyBuffers(dst, src [][]Sample) {
	for i := range src {
		if i >= len(dst) {
			return
		}
		copy(dst[i], src[i])
	}
}

// EnsureBufferLen reports whether bufs matches the session's channel
// count and sample size.
func EnsureBufferLen(cfg SessionConfig, bufs [][]Sample) bool {
	if len(bufs) != cfg.FrameSize {
		return false
	}
	for _, buf := range bufs {
		if len(buf) != cfg.SampleSize {
			return false
		}
	}
	return true
}
