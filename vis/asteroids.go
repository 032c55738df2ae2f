package vis

import (
	"math"
	"math/rand"

	"github.com/lumen-vis/lumen/settings"
)

const (
	asteroidCount = 32

	// asteroidImpulse is the per-beat velocity kick. The beat flag is
	// stateless and stays raised through sustained bass, so planar speed
	// is capped or the field winds up into per-frame multi-wrap noise.
	asteroidImpulse  = 0.002
	maxAsteroidSpeed = 0.02
)

// Asteroid is one drifting particle with simple physics. Positions live
// in normalized [0,1) space (plus depth for the 3D variant) so a canvas
// resize rescales the drawing without touching entity state.
type Asteroid struct {
	X, Y, Z    float64 // position, normalized
	VX, VY, VZ float64 // velocity, units per frame
	Rot        float64 // rotation angle
	RotV       float64 // rotation velocity
	Size       float64 // 0..1
}

// Asteroids is a stateful particle field persisted across frames, never
// recreated per tick. Band energy drives the physics: bass scales
// speed, low-mids spin, highs jitter, and a beat fires an impulse along
// each asteroid's heading. Edges wrap toroidally; asteroids are never
// destroyed at a boundary.
type Asteroids struct {
	w, h  int
	depth bool // 3D variant projects through a wrapped volume

	field []Asteroid
	rng   *rand.Rand
}

// NewAsteroids builds the 2D field, or the 3D one when depth is set.
func NewAsteroids(depth bool) *Asteroids {
	return &Asteroids{depth: depth}
}

func (as *Asteroids) Init(w, h int) {
	as.w, as.h = w, h
	as.rng = rand.New(rand.NewSource(rand.Int63()))

	as.field = make([]Asteroid, asteroidCount)
	for i := range as.field {
		as.field[i] = Asteroid{
			X:    as.rng.Float64(),
			Y:    as.rng.Float64(),
			Z:    as.rng.Float64(),
			VX:   (as.rng.Float64() - 0.5) * 0.004,
			VY:   (as.rng.Float64() - 0.5) * 0.004,
			VZ:   (as.rng.Float64() - 0.5) * 0.004,
			Rot:  as.rng.Float64() * 2 * math.Pi,
			RotV: (as.rng.Float64() - 0.5) * 0.05,
			Size: as.rng.Float64(),
		}
	}
}

// Resize only records the new surface; the field is untouched.
func (as *Asteroids) Resize(w, h int) { as.w, as.h = w, h }

func (as *Asteroids) Dispose() { as.field = nil }

// Field exposes the live asteroid slice for state-preservation tests.
func (as *Asteroids) Field() []Asteroid { return as.field }

func (as *Asteroids) Draw(c Canvas, f Frame, s settings.Settings) {
	w, h := c.Size()
	as.w, as.h = w, h

	if as.field == nil {
		as.Init(w, h)
	}

	bass, midLow, high := bandSplit(f.Energy)

	// Idle drift continues during silence at base speed.
	speed := 1.0 + clamp(bass*s.Amplification, 0, 1)*4.0
	spin := 1.0 + clamp(midLow, 0, 1)*6.0
	jitter := clamp(high, 0, 1) * 0.003

	for i := range as.field {
		a := &as.field[i]

		if f.Beat.Beat {
			// Impulse along the current heading, capped.
			mag := math.Hypot(a.VX, a.VY)
			if mag > 0 {
				next := math.Min(mag+asteroidImpulse, maxAsteroidSpeed)
				a.VX *= next / mag
				a.VY *= next / mag
			}
		}

		a.X += a.VX * speed
		a.Y += a.VY * speed
		a.Rot += a.RotV * spin

		if jitter > 0 {
			a.X += (as.rng.Float64() - 0.5) * jitter
			a.Y += (as.rng.Float64() - 0.5) * jitter
		}

		if as.depth {
			a.Z += a.VZ * speed
			a.Z = wrap(a.Z)
		}

		a.X = wrap(a.X)
		a.Y = wrap(a.Y)

		as.drawOne(c, a, f, s, w, h)
	}
}

func (as *Asteroids) drawOne(c Canvas, a *Asteroid, f Frame, s settings.Settings, w, h int) {
	size := a.Size
	if f.Beat.Beat {
		size = clamp(size*BeatPulse, 0, 1)
	}

	var x, y int
	if as.depth {
		// Map the wrapped volume onto model space around the camera.
		v := Vec3{a.X*2 - 1, a.Y*2 - 1, a.Z*2 - 1}
		px, py, ok := project(v, w, h)
		if !ok {
			return
		}
		x, y = px, py
		// Shrink with depth.
		size *= clamp(1.5-a.Z, 0.2, 1)
	} else {
		x = int(a.X * float64(w))
		y = int(a.Y * float64(h))
		if x >= w {
			x = w - 1
		}
		if y >= h {
			y = h - 1
		}
	}

	c.Set(x, y, asteroidGlyph(a.Rot, size), s.Scheme.Pick(size))
}

// asteroidGlyph picks a rune by size class, with the rotation angle
// animating the small class through spinner glyphs.
func asteroidGlyph(rot, size float64) rune {
	switch {
	case size > 0.75:
		return '@'
	case size > 0.5:
		return 'O'
	case size > 0.25:
		return 'o'
	default:
		spinner := [...]rune{'|', '/', '-', '\\'}
		quad := int(math.Mod(math.Abs(rot), 2*math.Pi) / (math.Pi / 2))
		return spinner[quad%len(spinner)]
	}
}

// bandSplit collapses the energy bands into bass, low-mid and high
// regions.
func bandSplit(energy []float64) (bass, midLow, high float64) {
	n := len(energy)
	if n == 0 {
		return 0, 0, 0
	}
	third := n / 3
	if third < 1 {
		return energy[0], energy[0], energy[0]
	}
	return meanOf(energy[:third]),
		meanOf(energy[third : 2*third]),
		meanOf(energy[2*third:])
}

// wrap folds a coordinate into [0, 1) toroidally.
func wrap(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v += 1
	}
	return v
}
