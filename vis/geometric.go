package vis

import (
	"math"

	"github.com/lumen-vis/lumen/settings"
)

// icosahedron unit vertices; phi is the golden ratio.
var icoVerts = func() []Vec3 {
	phi := (1 + math.Sqrt(5)) / 2
	raw := []Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	for i, v := range raw {
		raw[i] = v.scale(1 / v.length())
	}
	return raw
}()

var icoEdges = [][2]int{
	{0, 1}, {0, 5}, {0, 7}, {0, 10}, {0, 11},
	{1, 5}, {1, 7}, {1, 8}, {1, 9},
	{2, 3}, {2, 4}, {2, 6}, {2, 10}, {2, 11},
	{3, 4}, {3, 6}, {3, 8}, {3, 9},
	{4, 5}, {4, 9}, {4, 11},
	{5, 9}, {5, 11},
	{6, 7}, {6, 8}, {6, 10},
	{7, 8}, {7, 10},
	{8, 9}, {10, 11},
}

// Geometric morphs a wireframe icosahedron with the spectrum: each
// vertex is pushed outward by the energy of its band, colored by that
// value. A slow idle rotation keeps the shape alive during silence.
type Geometric struct {
	w, h   int
	rotY   float64
	rotX   float64
	scaled []Vec3
}

func (g *Geometric) Init(w, h int) {
	g.w, g.h = w, h
	g.scaled = make([]Vec3, len(icoVerts))
	copy(g.scaled, icoVerts)
}

func (g *Geometric) Resize(w, h int) { g.w, g.h = w, h }
func (g *Geometric) Dispose()        { g.scaled = nil }

func (g *Geometric) Draw(c Canvas, f Frame, s settings.Settings) {
	w, h := c.Size()
	g.w, g.h = w, h

	if g.scaled == nil {
		g.Init(w, h)
	}

	// Idle rotation continues when nothing is playing.
	speed := 0.008 * (0.5 + s.RotationSpeed)
	if !s.Rotation {
		speed = 0
	}
	g.rotY += speed
	g.rotX += speed * 0.37

	pulse := 1.0
	if f.Beat.Beat {
		pulse = BeatPulse
	}

	base := 0.45

	for i, v := range icoVerts {
		energy := 0.0
		if len(f.Energy) > 0 {
			energy = clamp(f.Energy[i%len(f.Energy)]*s.Amplification, 0, 1)
		}

		r := base * (1 + energy) * pulse
		g.scaled[i] = rotateX(rotateY(v.scale(r), g.rotY), g.rotX)
	}

	for _, e := range icoEdges {
		a, b := g.scaled[e[0]], g.scaled[e[1]]

		// Color the edge by the stronger endpoint's displacement; this
		// mode is value-reactive, unlike the positional bars.
		da := a.length()/base - 1
		db := b.length()/base - 1
		driving := clamp(math.Max(da, db)/(BeatPulse*2-1), 0, 1)

		drawSegment(c, a, b, w, h, s.Scheme.Pick(driving))
	}
}

// drawSegment projects and rasterizes a 3D line with fixed subdivision.
func drawSegment(c Canvas, a, b Vec3, w, h int, color settings.Color) {
	const steps = 24
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		p := Vec3{
			X: lerp(a.X, b.X, t),
			Y: lerp(a.Y, b.Y, t),
			Z: lerp(a.Z, b.Z, t),
		}
		if x, y, ok := project(p, w, h); ok {
			c.Set(x, y, '·', color)
		}
	}
}
