package vis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-vis/lumen/vis"
)

// TestParticlesSurviveResize checks a resize touches only the
// projection surface: every particle keeps its exact position.
func TestParticlesSurviveResize(t *testing.T) {
	p := &vis.Particles{}
	p.Init(80, 24)

	before := append([]vis.Vec3(nil), p.Positions()...)
	require.NotEmpty(t, before)

	p.Resize(20, 50)
	p.Resize(200, 5)

	assert.Equal(t, before, p.Positions())
}

func TestParticlesDrawKeepsCloud(t *testing.T) {
	p := &vis.Particles{}
	p.Init(80, 24)

	countBefore := len(p.Positions())

	frame := testFrame(8)
	c := newFakeCanvas(80, 24)
	for i := 0; i < 10; i++ {
		p.Draw(c, frame, waveSettings(0.5))
	}

	// Positions move with the energy but the cloud is never rebuilt.
	assert.Equal(t, countBefore, len(p.Positions()))
	assert.Zero(t, c.oob)

	p.Dispose()
	assert.Nil(t, p.Positions())
}

// TestAsteroidsSurviveResize checks the normalized field is untouched
// by surface changes.
func TestAsteroidsSurviveResize(t *testing.T) {
	for _, depth := range []bool{false, true} {
		as := vis.NewAsteroids(depth)
		as.Init(80, 24)

		before := append([]vis.Asteroid(nil), as.Field()...)
		require.NotEmpty(t, before)

		as.Resize(10, 100)
		as.Resize(300, 2)

		assert.Equal(t, before, as.Field(), "depth=%v", depth)
	}
}

// TestAsteroidsWrapToroidal drives the field hard and checks every
// coordinate stays folded into [0, 1): asteroids wrap, never vanish.
func TestAsteroidsWrapToroidal(t *testing.T) {
	as := vis.NewAsteroids(true)
	as.Init(40, 12)

	frame := testFrame(8)
	frame.Beat.Beat = true

	c := newFakeCanvas(40, 12)
	for i := 0; i < 2000; i++ {
		as.Draw(c, frame, waveSettings(1.0))
	}

	field := as.Field()
	require.NotEmpty(t, field)
	for i, a := range field {
		assert.GreaterOrEqual(t, a.X, 0.0, "asteroid %d", i)
		assert.Less(t, a.X, 1.0, "asteroid %d", i)
		assert.GreaterOrEqual(t, a.Y, 0.0, "asteroid %d", i)
		assert.Less(t, a.Y, 1.0, "asteroid %d", i)
		assert.GreaterOrEqual(t, a.Z, 0.0, "asteroid %d", i)
		assert.Less(t, a.Z, 1.0, "asteroid %d", i)
	}
	assert.Zero(t, c.oob)
}

// TestAsteroidsBeatImpulseBounded holds the beat flag raised for a long
// stretch and checks the per-beat impulse saturates instead of winding
// velocity up without bound.
func TestAsteroidsBeatImpulseBounded(t *testing.T) {
	as := vis.NewAsteroids(false)
	as.Init(80, 24)

	frame := testFrame(8)
	frame.Beat.Beat = true

	c := newFakeCanvas(80, 24)
	for i := 0; i < 2000; i++ {
		as.Draw(c, frame, waveSettings(1.0))
	}

	for i, a := range as.Field() {
		assert.LessOrEqual(t, math.Hypot(a.VX, a.VY), 0.02+1e-9,
			"asteroid %d velocity must stay capped", i)
	}
}

func TestAsteroidsFieldPersistsAcrossFrames(t *testing.T) {
	as := vis.NewAsteroids(false)
	as.Init(80, 24)

	c := newFakeCanvas(80, 24)
	as.Draw(c, testFrame(8), waveSettings(0.5))

	first := as.Field()
	as.Draw(c, testFrame(8), waveSettings(0.5))

	// Same backing array: the field is mutated in place, not rebuilt.
	assert.Equal(t, &first[0], &as.Field()[0])
}
