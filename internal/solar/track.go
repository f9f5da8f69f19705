package solar

import (
	"fmt"
	"math"
	"time"
)

// SunTrack is one day of sampled solar positions. The three slices are
// index-aligned and ordered by increasing hour angle.
type SunTrack struct {
	HourAngles  []float64 `json:"hour_angles"` // degrees, -180..180
	Altitude    []float64 `json:"altitude"`    // degrees, -90..90
	Azimuth     []float64 `json:"azimuth"`     // degrees, 0 = North, clockwise, [0, 360)
	Declination float64   `json:"declination"` // degrees
}

// Len returns the number of samples in the track.
func (t SunTrack) Len() int {
	return len(t.HourAngles)
}

// Summary condenses a track into the figures shown next to the charts.
type Summary struct {
	PeakAltitude     float64 `json:"peak_altitude"`
	PeakHourAngle    float64 `json:"peak_hour_angle"`
	PeakAzimuth      float64 `json:"peak_azimuth"`
	DaylightFraction float64 `json:"daylight_fraction"` // share of samples above the horizon
	DaylightHours    float64 `json:"daylight_hours"`
	PolarDay         bool    `json:"polar_day"`
	PolarNight       bool    `json:"polar_night"`
}

// Summary returns the peak sample and daylight share of the track.
// The daylight figures are limited by the sampling resolution.
func (t SunTrack) Summary() Summary {
	n := t.Len()
	if n == 0 {
		return Summary{}
	}

	peak := 0
	above := 0
	for i, alt := range t.Altitude {
		if alt > t.Altitude[peak] {
			peak = i
		}
		if alt > 0 {
			above++
		}
	}

	frac := float64(above) / float64(n)
	return Summary{
		PeakAltitude:     t.Altitude[peak],
		PeakHourAngle:    t.HourAngles[peak],
		PeakAzimuth:      t.Azimuth[peak],
		DaylightFraction: frac,
		DaylightHours:    frac * 24,
		PolarDay:         above == n,
		PolarNight:       above == 0,
	}
}

// Series is one named line of a time-series chart.
type Series struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// TimeSeriesView is chart-agnostic data for the rectilinear view: altitude
// and azimuth against hour angle, with dashed reference lines at x = 0
// (solar noon) and y = 0 (horizon).
type TimeSeriesView struct {
	Title  string     `json:"title"`
	XLabel string     `json:"x_label"`
	YLabel string     `json:"y_label"`
	XRange [2]float64 `json:"x_range"`
	YRange [2]float64 `json:"y_range"`
	Series []Series   `json:"series"`
	HLines []float64  `json:"hlines"`
	VLines []float64  `json:"vlines"`
}

// TimeSeries builds the rectilinear view of a track.
func TimeSeries(track SunTrack, latitude float64, day int) TimeSeriesView {
	return TimeSeriesView{
		Title:  fmt.Sprintf("Time Series (Latitude: %g°, Day: %d)", latitude, day),
		XLabel: "Hour Angle (degrees)",
		YLabel: "Degrees",
		XRange: [2]float64{-180, 180},
		YRange: [2]float64{-90, 360},
		Series: []Series{
			{Name: "Altitude", X: track.HourAngles, Y: track.Altitude},
			{Name: "Azimuth", X: track.HourAngles, Y: track.Azimuth},
		},
		HLines: []float64{0},
		VLines: []float64{0},
	}
}

// FormatDeclination renders the declination readout shown under the day
// slider.
func FormatDeclination(declination float64) string {
	return fmt.Sprintf("Solar declination: %.1f°", declination)
}

// DayOfYear returns the 1-based day of the year of t in its own location.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// MinDay and MaxDay bound the day of the year accepted from callers. 366
// covers leap years; the model has no leap-year handling and treats day 366
// as the periodic continuation of day 1.
const (
	MinDay = 1
	MaxDay = 366
)

// DayMark labels a day-of-year value on a slider.
type DayMark struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

// DayMarks returns the first day of each month in a non-leap year.
func DayMarks() []DayMark {
	marks := make([]DayMark, 0, 12)
	for m := time.January; m <= time.December; m++ {
		d := time.Date(2023, m, 1, 0, 0, 0, 0, time.UTC)
		marks = append(marks, DayMark{
			Day:   d.YearDay(),
			Label: DayLabel(d.YearDay()),
		})
	}
	return marks
}

// DayLabel renders a day of a non-leap year as "Jan 2". Day 366 reads as
// "Jan 1", the start of the next period.
func DayLabel(day int) string {
	return time.Date(2023, time.January, day, 0, 0, 0, 0, time.UTC).Format("Jan 2")
}

// ValidLatitude reports whether lat is a finite latitude in [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidDay reports whether day lies in [MinDay, MaxDay].
func ValidDay(day int) bool {
	return day >= MinDay && day <= MaxDay
}
