package solar

import (
	"math"
	"testing"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/soniakeys/meeus/v3/julian"
	meeussolar "github.com/soniakeys/meeus/v3/solar"
)

// TestDeclinationAgainstMeeus checks the sinusoidal declination against the
// apparent solar declination from Meeus' algorithms. The sinusoid ignores
// orbital eccentricity, so agreement is at the degree level, not better.
func TestDeclinationAgainstMeeus(t *testing.T) {
	const tolerance = 2.0 // degrees

	for _, day := range []int{1, 32, 60, 81, 121, 172, 213, 266, 305, 355} {
		date := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)

		_, dec := meeussolar.ApparentEquatorial(julian.TimeToJD(date))
		ref := dec.Deg()
		ours := DayToDeclination(float64(day))

		diff := math.Abs(ours - ref)
		if diff > tolerance {
			t.Errorf("day %d (%s): declination = %.3f°, meeus = %.3f° (diff=%.3f°)",
				day, date.Format("Jan 2"), ours, ref, diff)
		}
	}
}

// TestDaylightAgainstSunrise compares the share of samples above the horizon
// with day length from a sunrise/sunset calculator. The calculator includes
// refraction and the solar disc, and the track resolves a day in ~15 minute
// steps, so an hour of slack covers both.
func TestDaylightAgainstSunrise(t *testing.T) {
	const tolerance = 1.0 // hours

	tests := []struct {
		name  string
		lat   float64
		month time.Month
		day   int
	}{
		{"mid-latitude winter", 40, time.January, 15},
		{"mid-latitude equinox", 40, time.March, 21},
		{"mid-latitude summer", 40, time.June, 21},
		{"southern summer", -33.9, time.December, 21},
		{"tropics", 10, time.August, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rise, set := sunrise.SunriseSunset(tt.lat, 0, 2025, tt.month, tt.day)
			if rise.IsZero() || set.IsZero() {
				t.Fatalf("reference returned no sunrise/sunset for lat %.1f", tt.lat)
			}
			ref := set.Sub(rise).Hours()

			doy := DayOfYear(time.Date(2025, tt.month, tt.day, 0, 0, 0, 0, time.UTC))
			ours := ComputeSunTrack(tt.lat, float64(doy)).Summary().DaylightHours

			if diff := math.Abs(ours - ref); diff > tolerance {
				t.Errorf("daylight = %.2fh, reference = %.2fh (diff=%.2fh)", ours, ref, diff)
			}
		})
	}
}
