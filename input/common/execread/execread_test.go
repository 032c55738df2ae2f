package execread

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-vis/lumen/input"
)

func TestFloatReader32(t *testing.T) {
	want := []float32{0, 1, -0.5, 0.25}
	raw := make([]byte, len(want)*4)
	for i, v := range want {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}

	r := floatReader{order: binary.LittleEndian}
	r.reset(raw)
	for _, v := range want {
		assert.Equal(t, float64(v), r.next())
	}
}

func TestFloatReader64(t *testing.T) {
	want := []float64{0, 1, -0.5, 1e-9}
	raw := make([]byte, len(want)*8)
	for i, v := range want {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}

	r := floatReader{order: binary.LittleEndian, f64: true}
	r.reset(raw)
	for _, v := range want {
		assert.Equal(t, v, r.next())
	}
}

func TestFloatReaderReset(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, math.Float32bits(0.75))

	r := floatReader{order: binary.LittleEndian}
	r.reset(raw)
	assert.Equal(t, 0.75, r.next())

	// Reset rewinds to the start of the new buffer.
	r.reset(raw)
	assert.Equal(t, 0.75, r.next())
}

func TestNewSessionPanicsOnEmptyArgv(t *testing.T) {
	assert.Panics(t, func() {
		NewSession(nil, true, input.SessionConfig{})
	})
}
