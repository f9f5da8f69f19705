package skyproj

import "math"

// Ring is an altitude reference circle.
type Ring struct {
	Ratio  float64 `json:"ratio"`
	Radius float64 `json:"radius"`
	Points []Point `json:"points"`
}

// Spoke is a radial line from the zenith to the horizon at a fixed azimuth.
type Spoke struct {
	Azimuth float64 `json:"azimuth"`
	From    Point   `json:"from"`
	To      Point   `json:"to"`
}

// Grid is the dotted reference layer drawn under the sun path.
type Grid struct {
	Rings  []Ring  `json:"rings"`
	Spokes []Spoke `json:"spokes"`
}

var gridRingRatios = []float64{0.25, 0.5, 0.75, 1.0}

const (
	gridSpokeStep  = 30  // degrees
	gridRingPoints = 100 // vertices per ring
)

// PolarGrid returns rings at a quarter, half, three quarters and all of the
// radius, and spokes every 30° out to the rim.
func PolarGrid(radius float64) Grid {
	radius = normalizeRadius(radius)

	g := Grid{
		Rings:  make([]Ring, 0, len(gridRingRatios)),
		Spokes: make([]Spoke, 0, 360/gridSpokeStep),
	}

	for _, ratio := range gridRingRatios {
		r := radius * ratio
		pts := make([]Point, gridRingPoints)
		for i := range pts {
			theta := 2 * math.Pi * float64(i) / float64(gridRingPoints-1)
			pts[i] = Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
		}
		g.Rings = append(g.Rings, Ring{Ratio: ratio, Radius: r, Points: pts})
	}

	for az := 0; az < 360; az += gridSpokeStep {
		g.Spokes = append(g.Spokes, Spoke{
			Azimuth: float64(az),
			From:    Point{},
			To:      onCircle(radius, float64(az)),
		})
	}

	return g
}
