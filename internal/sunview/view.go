// Package sunview assembles everything a client needs to draw one day at one
// latitude: the sampled track, its polar projection with grid, the time
// series chart and the declination readout.
package sunview

import (
	"fmt"
	"time"

	"github.com/star/sunpath/internal/metrics"
	"github.com/star/sunpath/internal/skyproj"
	"github.com/star/sunpath/internal/solar"
)

// View is the combined output for one (latitude, day) selection.
type View struct {
	Latitude    float64                 `json:"latitude"`
	Day         int                     `json:"day"`
	Declination float64                 `json:"declination"`
	Readout     string                  `json:"declination_readout"`
	Summary     solar.Summary           `json:"summary"`
	Track       solar.SunTrack          `json:"track"`
	TimeSeries  solar.TimeSeriesView    `json:"time_series"`
	Polar       skyproj.PolarProjection `json:"polar"`
	Grid        skyproj.Grid            `json:"grid"`
}

// Track computes a sun track and records it.
func Track(m solar.Model, latitude float64, day int) solar.SunTrack {
	start := time.Now()
	track := m.ComputeSunTrack(latitude, float64(day))
	metrics.ObserveSunTrack(time.Since(start), 0, 0)
	return track
}

// Polar computes and projects a sun track.
func Polar(m solar.Model, latitude float64, day int, radius float64) (skyproj.PolarProjection, error) {
	start := time.Now()
	track := m.ComputeSunTrack(latitude, float64(day))
	proj, err := skyproj.ProjectToPolar(track.Altitude, track.Azimuth, radius)
	if err != nil {
		return skyproj.PolarProjection{}, fmt.Errorf("latitude %g day %d: %w", latitude, day, err)
	}
	observe(time.Since(start), proj)
	return proj, nil
}

// Build computes the full view.
func Build(m solar.Model, latitude float64, day int, radius float64) (View, error) {
	start := time.Now()

	track := m.ComputeSunTrack(latitude, float64(day))
	proj, err := skyproj.ProjectToPolar(track.Altitude, track.Azimuth, radius)
	if err != nil {
		return View{}, fmt.Errorf("latitude %g day %d: %w", latitude, day, err)
	}
	observe(time.Since(start), proj)

	return View{
		Latitude:    latitude,
		Day:         day,
		Declination: track.Declination,
		Readout:     solar.FormatDeclination(track.Declination),
		Summary:     track.Summary(),
		Track:       track,
		TimeSeries:  solar.TimeSeries(track, latitude, day),
		Polar:       proj,
		Grid:        skyproj.PolarGrid(proj.Radius),
	}, nil
}

func observe(d time.Duration, proj skyproj.PolarProjection) {
	var rises, sets int
	for _, c := range proj.HorizonCrossings {
		if c.Kind == skyproj.CrossingRise {
			rises++
		} else {
			sets++
		}
	}
	metrics.ObserveSunTrack(d, rises, sets)
}
