package vis

import "math"

// Vec3 is a point in the renderer's model space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func rotateY(v Vec3, a float64) Vec3 {
	sin, cos := math.Sincos(a)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

func rotateX(v Vec3, a float64) Vec3 {
	sin, cos := math.Sincos(a)
	return Vec3{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide.
const cellAspect = 2.0

// camera distance from the origin in model units.
const cameraDist = 3.0

// project maps a model-space point onto cell coordinates with a simple
// perspective divide. ok is false for points behind the camera or off
// the surface.
func project(v Vec3, w, h int) (x, y int, ok bool) {
	zc := v.Z + cameraDist
	if zc <= 0.1 {
		return 0, 0, false
	}

	// Scale so the unit cube fits comfortably at rest.
	scale := float64(h) * 0.9

	px := v.X / zc * scale * cellAspect
	py := v.Y / zc * scale

	x = w/2 + int(math.Round(px))
	y = h/2 - int(math.Round(py))

	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}
