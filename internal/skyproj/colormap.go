package skyproj

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxAltitude is the top of the colour scale. Altitudes are normalised
// against [0, MaxAltitude] and clamped.
const MaxAltitude = 90.0

// Scale is a piecewise colour gradient interpolated in CIE L*a*b*.
type Scale struct {
	Name  string
	stops []colorful.Color
}

// Spectral is the reversed ColorBrewer "Spectral" ramp: cool violet at the
// horizon through yellow to deep red at the zenith.
var Spectral = mustScale("Spectral_r",
	"#5e4fa2", "#3288bd", "#66c2a5", "#abdda4", "#e6f598", "#ffffbf",
	"#fee08b", "#fdae61", "#f46d43", "#d53e4f", "#9e0142",
)

// NewScale builds a scale from two or more hex colours, evenly spaced.
func NewScale(name string, hexes ...string) (*Scale, error) {
	if len(hexes) < 2 {
		return nil, fmt.Errorf("scale %q: need at least 2 colours, got %d", name, len(hexes))
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("scale %q: stop %d: %w", name, i, err)
		}
		stops[i] = c
	}
	return &Scale{Name: name, stops: stops}, nil
}

func mustScale(name string, hexes ...string) *Scale {
	s, err := NewScale(name, hexes...)
	if err != nil {
		panic(err)
	}
	return s
}

// At returns the colour at position t in [0, 1]. Values outside are clamped.
func (s *Scale) At(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return s.stops[0]
	}
	if t >= 1 {
		return s.stops[len(s.stops)-1]
	}

	pos := t * float64(len(s.stops)-1)
	i := int(pos)
	return s.stops[i].BlendLab(s.stops[i+1], pos-float64(i)).Clamped()
}

// AltitudeColor returns the CSS colour for an altitude in degrees.
func (s *Scale) AltitudeColor(altitude float64) string {
	return CSS(s.At(altitude / MaxAltitude))
}

// CSS renders c as an opaque rgba() colour string.
func CSS(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, 1)", r, g, b)
}
