// Package skyproj projects a sampled sun track onto a polar sky chart.
//
// The chart is a disc seen from below, looking up: the rim is the horizon,
// the centre is the zenith and the radial distance of a point is
// R·cos(altitude). Azimuth 0 (North) is at the top and azimuth grows
// clockwise, so Cartesian coordinates are (x, y) = (r·sin φ, r·cos φ), the
// compass convention rather than the mathematical one.
//
// Everything here is plain geometry for a charting library to draw.
package skyproj

import (
	"errors"
	"fmt"
	"math"
)

// DefaultRadius is the plot radius used when none is given.
const DefaultRadius = 1.0

// Distances of chart furniture, as multiples of the plot radius.
const (
	compassRadiusRatio = 1.1
	labelRadiusRatio   = 1.2
	plotRangeRatio     = 1.3
)

// ErrLengthMismatch is returned when the altitude and azimuth sequences do
// not describe the same samples.
var ErrLengthMismatch = errors.New("altitude and azimuth lengths differ")

// Point is a Cartesian point on the chart.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathPoint is a visible sample of the sun track.
type PathPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Altitude float64 `json:"altitude"`
	Azimuth  float64 `json:"azimuth"`
	Index    int     `json:"index"` // position in the unfiltered track
	Color    string  `json:"color"`
}

// Segment joins two neighbouring visible samples.
type Segment struct {
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	Altitude float64 `json:"altitude"` // mean of both ends
	Azimuth  float64 `json:"azimuth"`  // circular mean of both ends
	Color    string  `json:"color"`
}

// CrossingKind tells sunrise from sunset.
type CrossingKind string

const (
	CrossingRise CrossingKind = "rise"
	CrossingSet  CrossingKind = "set"
)

// HorizonCrossing is a sunrise or sunset marker on the horizon circle.
type HorizonCrossing struct {
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Azimuth float64      `json:"azimuth"`
	Index   int          `json:"index"` // sample before the sign change
	Kind    CrossingKind `json:"kind"`
	Label   string       `json:"label"`
	LabelX  float64      `json:"label_x"`
	LabelY  float64      `json:"label_y"`
}

// CompassAnchor positions a cardinal direction label.
type CompassAnchor struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// PolarProjection is everything needed to draw the polar chart of one track.
type PolarProjection struct {
	Radius           float64           `json:"radius"`
	PlotRange        float64           `json:"plot_range"`
	Path             []PathPoint       `json:"path_points"`
	Segments         []Segment         `json:"segments"`
	HorizonCrossings []HorizonCrossing `json:"horizon_crossings"`
	CompassAnchors   []CompassAnchor   `json:"compass_anchors"`
	HorizonColor     string            `json:"horizon_color"`
}

// ProjectToPolar projects the above-horizon part of a track and locates its
// horizon crossings and compass anchors.
//
// altitude and azimuth are in degrees and must be index-aligned. A radius
// that is not positive and finite is replaced by DefaultRadius. A track that
// never rises yields an empty path; one that never sets yields no crossings.
func ProjectToPolar(altitude, azimuth []float64, radius float64) (PolarProjection, error) {
	if len(altitude) != len(azimuth) {
		return PolarProjection{}, fmt.Errorf("project to polar: %w (%d vs %d)", ErrLengthMismatch, len(altitude), len(azimuth))
	}
	radius = normalizeRadius(radius)

	path := make([]PathPoint, 0, len(altitude))
	for i, alt := range altitude {
		if !(alt > 0) {
			continue
		}
		p := Project(alt, azimuth[i], radius)
		path = append(path, PathPoint{
			X:        p.X,
			Y:        p.Y,
			Altitude: alt,
			Azimuth:  azimuth[i],
			Index:    i,
			Color:    Spectral.AltitudeColor(alt),
		})
	}

	return PolarProjection{
		Radius:           radius,
		PlotRange:        PlotRange(radius),
		Path:             path,
		Segments:         segments(path),
		HorizonCrossings: HorizonCrossings(altitude, azimuth, radius),
		CompassAnchors:   CompassAnchors(radius),
		HorizonColor:     Spectral.AltitudeColor(0),
	}, nil
}

// Project maps one (altitude, azimuth) pair in degrees to chart coordinates.
func Project(altitude, azimuth, radius float64) Point {
	r := radius * math.Cos(deg2rad(altitude))
	return onCircle(r, azimuth)
}

// HorizonCrossings finds every adjacent pair of samples whose altitudes lie
// on different sides of the horizon, treating zero as above. Each crossing
// takes the azimuth of the earlier sample and sits on the rim. Fewer than
// two samples, or mismatched lengths, give no crossings.
func HorizonCrossings(altitude, azimuth []float64, radius float64) []HorizonCrossing {
	if len(altitude) < 2 || len(altitude) != len(azimuth) {
		return []HorizonCrossing{}
	}
	radius = normalizeRadius(radius)

	crossings := []HorizonCrossing{}
	for i := 0; i+1 < len(altitude); i++ {
		below := math.Signbit(altitude[i])
		if below == math.Signbit(altitude[i+1]) {
			continue
		}

		kind := CrossingSet
		if below {
			kind = CrossingRise
		}

		az := azimuth[i]
		p := onCircle(radius, az)
		label := onCircle(radius*labelRadiusRatio, az)
		crossings = append(crossings, HorizonCrossing{
			X:       p.X,
			Y:       p.Y,
			Azimuth: az,
			Index:   i,
			Kind:    kind,
			Label:   fmt.Sprintf("%.1f°", az),
			LabelX:  label.X,
			LabelY:  label.Y,
		})
	}
	return crossings
}

// CompassAnchors returns the N, E, S and W label positions just outside the
// horizon circle.
func CompassAnchors(radius float64) []CompassAnchor {
	r := normalizeRadius(radius) * compassRadiusRatio
	dirs := []struct {
		label   string
		azimuth float64
	}{
		{"N", 0},
		{"E", 90},
		{"S", 180},
		{"W", 270},
	}

	anchors := make([]CompassAnchor, len(dirs))
	for i, d := range dirs {
		p := onCircle(r, d.azimuth)
		anchors[i] = CompassAnchor{Label: d.label, X: p.X, Y: p.Y}
	}
	return anchors
}

// PlotRange is the half-width of a square viewport that fits the chart,
// its compass anchors and crossing labels.
func PlotRange(radius float64) float64 {
	return normalizeRadius(radius) * plotRangeRatio
}

// segments pairs visible samples that are adjacent in the unfiltered track.
func segments(path []PathPoint) []Segment {
	out := []Segment{}
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		if b.Index != a.Index+1 {
			continue
		}
		out = append(out, Segment{
			From:     Point{X: a.X, Y: a.Y},
			To:       Point{X: b.X, Y: b.Y},
			Altitude: (a.Altitude + b.Altitude) / 2,
			Azimuth:  meanAzimuth(a.Azimuth, b.Azimuth),
			Color:    a.Color,
		})
	}
	return out
}

// meanAzimuth averages two bearings across the 0/360 seam.
func meanAzimuth(a, b float64) float64 {
	if math.Abs(a-b) > 180 {
		if a < b {
			a += 360
		} else {
			b += 360
		}
	}
	return math.Mod((a+b)/2, 360)
}

// onCircle places an azimuth (degrees) on a circle of radius r.
func onCircle(r, azimuth float64) Point {
	phi := deg2rad(azimuth)
	return Point{X: r * math.Sin(phi), Y: r * math.Cos(phi)}
}

func normalizeRadius(r float64) float64 {
	if !(r > 0) || math.IsInf(r, 0) {
		return DefaultRadius
	}
	return r
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }
