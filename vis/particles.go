package vis

import (
	"math"
	"math/rand"

	"github.com/lumen-vis/lumen/settings"
)

const particleCount = 128

// Particles is a 3D point cloud sampled uniformly inside a sphere once
// at Init. Each frame only the radial displacement and color are
// recomputed from band energy; positions mutate in place rather than
// reallocating. The cloud keeps a slow idle spin during silence.
type Particles struct {
	w, h int

	dirs  []Vec3    // unit directions, fixed at Init
	radii []float64 // rest radii, fixed at Init
	pos   []Vec3    // current positions, mutated per frame

	rotY float64
}

func (p *Particles) Init(w, h int) {
	p.w, p.h = w, h

	rng := rand.New(rand.NewSource(rand.Int63()))

	p.dirs = make([]Vec3, particleCount)
	p.radii = make([]float64, particleCount)
	p.pos = make([]Vec3, particleCount)

	for i := range p.dirs {
		// Uniform direction, cube-root radius for volume uniformity.
		v := Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if l := v.length(); l > 0 {
			v = v.scale(1 / l)
		} else {
			v = Vec3{1, 0, 0}
		}
		p.dirs[i] = v
		p.radii[i] = 0.9 * math.Cbrt(rng.Float64())
		p.pos[i] = v.scale(p.radii[i])
	}
}

// Resize updates only the projection surface; particle state survives.
func (p *Particles) Resize(w, h int) { p.w, p.h = w, h }

func (p *Particles) Dispose() {
	p.dirs, p.radii, p.pos = nil, nil, nil
}

// Positions exposes the live particle slice for state-preservation
// tests.
func (p *Particles) Positions() []Vec3 { return p.pos }

func (p *Particles) Draw(c Canvas, f Frame, s settings.Settings) {
	w, h := c.Size()
	p.w, p.h = w, h

	if p.pos == nil {
		p.Init(w, h)
	}

	if s.Rotation {
		p.rotY += 0.006 * (0.5 + s.RotationSpeed)
	}

	pulse := 1.0
	if f.Beat.Beat {
		pulse = BeatPulse
	}

	for i := range p.pos {
		energy := 0.0
		if len(f.Energy) > 0 {
			energy = clamp(f.Energy[i%len(f.Energy)]*s.Amplification, 0, 1)
		}

		r := p.radii[i] * (1 + energy*0.8) * pulse
		p.pos[i] = p.dirs[i].scale(r)

		v := rotateY(p.pos[i], p.rotY)
		if x, y, ok := project(v, w, h); ok {
			ch := '·'
			if energy > 0.66 {
				ch = '●'
			} else if energy > 0.33 {
				ch = '•'
			}
			c.Set(x, y, ch, s.Scheme.Pick(energy))
		}
	}
}
