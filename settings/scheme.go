package settings

import "math"

// Color is a 256-color terminal palette value.
type Color uint16

// ColorScheme is an immutable named, ordered list of colors. Schemes
// are selected by settings, never mutated.
type ColorScheme struct {
	ID     string
	Name   string
	Colors []Color
}

// Index maps a driving value in [0, 1] onto a color position:
// floor(driving · (len-1)), clamped to the valid range. Depending on
// the mode the driving value is either the positional fraction of an
// element or its normalized magnitude.
func (cs ColorScheme) Index(driving float64) int {
	if len(cs.Colors) == 0 {
		return 0
	}

	idx := int(math.Floor(driving * float64(len(cs.Colors)-1)))
	if idx < 0 {
		return 0
	}
	if idx > len(cs.Colors)-1 {
		return len(cs.Colors) - 1
	}
	return idx
}

// At returns the color at idx, clamped.
func (cs ColorScheme) At(idx int) Color {
	if len(cs.Colors) == 0 {
		return 7 // terminal white
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(cs.Colors)-1 {
		idx = len(cs.Colors) - 1
	}
	return cs.Colors[idx]
}

// Pick returns the color for a driving value, combining Index and At.
func (cs ColorScheme) Pick(driving float64) Color {
	return cs.At(cs.Index(driving))
}

var schemes = []ColorScheme{
	{
		ID:   "rainbow",
		Name: "Rainbow",
		// red, orange, yellow, green, cyan, blue, violet
		Colors: []Color{196, 208, 226, 46, 51, 21, 129},
	},
	{
		ID:     "ocean",
		Name:   "Ocean",
		Colors: []Color{17, 18, 19, 20, 26, 32, 38, 44, 50},
	},
	{
		ID:     "ember",
		Name:   "Ember",
		Colors: []Color{52, 88, 124, 160, 196, 202, 208, 214, 220},
	},
	{
		ID:     "aurora",
		Name:   "Aurora",
		Colors: []Color{22, 28, 34, 40, 46, 83, 120, 157},
	},
	{
		ID:     "mono",
		Name:   "Monochrome",
		Colors: []Color{236, 240, 244, 248, 252, 255},
	},
	{
		ID:     "neon",
		Name:   "Neon",
		Colors: []Color{201, 199, 198, 197, 196, 214, 226},
	},
}

// Schemes returns all built-in color schemes.
func Schemes() []ColorScheme {
	out := make([]ColorScheme, len(schemes))
	copy(out, schemes)
	return out
}

// SchemeByName finds a scheme by id, falling back to the first one.
func SchemeByName(id string) ColorScheme {
	for _, s := range schemes {
		if s.ID == id {
			return s
		}
	}
	return schemes[0]
}
