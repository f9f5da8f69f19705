// Package solar models the apparent path of the Sun across the sky for an
// observer latitude and a day of the year.
//
// Method: sinusoidal declination approximation (Cooper) with the standard
// horizontal-coordinate conversion from hour angle and declination. There is
// no refraction, no equation of time and no longitude/timezone offset; the
// hour angle runs over one idealized day centred on solar noon.
//
// All functions are pure and safe for concurrent use.
package solar

import "math"

// Default model parameters.
const (
	DefaultAxialTilt  = 23.45 // degrees
	DefaultDayOffset  = 81    // days; ascending zero-crossing near the vernal equinox
	DefaultYearLength = 365   // days per declination period
	DefaultSamples    = 100   // hour-angle samples across one day
)

// componentEpsilon is the smallest magnitude allowed for either azimuth
// component before atan2. Smaller values are pushed out to ±epsilon.
const componentEpsilon = 1e-10

// Model holds the parameters of the declination sinusoid and the sampling
// resolution of a sun track. The zero value is not useful; start from
// DefaultModel.
type Model struct {
	AxialTilt  float64 `json:"axial_tilt"`  // declination amplitude, degrees
	DayOffset  float64 `json:"day_offset"`  // day at which declination crosses zero going north
	YearLength float64 `json:"year_length"` // days per period
	Samples    int     `json:"samples"`     // hour angles per track
}

// DefaultModel returns Earth parameters with 100 samples per track.
func DefaultModel() Model {
	return Model{
		AxialTilt:  DefaultAxialTilt,
		DayOffset:  DefaultDayOffset,
		YearLength: DefaultYearLength,
		Samples:    DefaultSamples,
	}
}

// DayToDeclination returns the solar declination in degrees for a day of
// the year. The day is not range checked; values outside [1, YearLength]
// follow the periodic extension of the sine.
func (m Model) DayToDeclination(day float64) float64 {
	return m.AxialTilt * math.Sin(deg2rad((360.0/m.YearLength)*(day-m.DayOffset)))
}

// DeclinationToDay returns the day of the year on the ascending branch
// (declination increasing, the half-year centred on DayOffset) that has the
// given declination in degrees.
//
// The result is wrapped into [0, YearLength) and then shifted up by one
// period if it falls below 1, so it lies in [1, YearLength+1). Declinations
// beyond ±AxialTilt have no solution and yield NaN.
func (m Model) DeclinationToDay(declination float64) float64 {
	day := m.DayOffset + (m.YearLength/(2*math.Pi))*math.Asin(declination/m.AxialTilt)
	day = floorMod(day, m.YearLength)
	if day < 1 {
		day += m.YearLength
	}
	return day
}

// DescendingDay returns the other day of the year with the given
// declination: the one on the descending branch, mirrored about the June
// solstice. For ±AxialTilt both branches meet at the solstice.
func (m Model) DescendingDay(declination float64) float64 {
	asc := m.DeclinationToDay(declination)
	if math.IsNaN(asc) {
		return asc
	}
	solstice := m.DayOffset + m.YearLength/4
	day := floorMod(2*solstice-asc, m.YearLength)
	if day < 1 {
		day += m.YearLength
	}
	return day
}

// ComputeSunTrack samples the Sun's altitude and azimuth over one idealized
// day at the given latitude (degrees) and day of the year.
//
// Neither input is validated. Latitudes beyond ±90 and days far outside the
// year are evaluated through the same trigonometry and produce periodic,
// not necessarily physical, results.
func (m Model) ComputeSunTrack(latitude, day float64) SunTrack {
	n := m.Samples
	if n < 2 {
		n = DefaultSamples
	}

	lat := deg2rad(latitude)
	declination := m.DayToDeclination(day)
	dec := deg2rad(declination)

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinDec, cosDec := math.Sin(dec), math.Cos(dec)

	track := SunTrack{
		HourAngles:  make([]float64, n),
		Altitude:    make([]float64, n),
		Azimuth:     make([]float64, n),
		Declination: declination,
	}

	for i, h := range linspace(-math.Pi, math.Pi, n) {
		cosH := math.Cos(h)

		// Rounding can push the argument just past ±1 at the zenith.
		alt := math.Asin(math.Max(-1, math.Min(1, sinLat*sinDec+cosLat*cosDec*cosH)))

		sinAz := clampComponent(-cosDec * math.Sin(h))
		cosAz := clampComponent(cosLat*sinDec - sinLat*cosDec*cosH)
		az := math.Atan2(sinAz, cosAz)
		if az < 0 {
			az += 2 * math.Pi
		}

		track.HourAngles[i] = rad2deg(h)
		track.Altitude[i] = rad2deg(alt)
		track.Azimuth[i] = rad2deg(az)
	}

	return track
}

// ComputeSunTrack evaluates DefaultModel.
func ComputeSunTrack(latitude, day float64) SunTrack {
	return DefaultModel().ComputeSunTrack(latitude, day)
}

// DayToDeclination evaluates DefaultModel.
func DayToDeclination(day float64) float64 {
	return DefaultModel().DayToDeclination(day)
}

// DeclinationToDay evaluates DefaultModel.
func DeclinationToDay(declination float64) float64 {
	return DefaultModel().DeclinationToDay(declination)
}

// clampComponent pushes magnitudes below componentEpsilon out to
// ±componentEpsilon, keeping the sign. An exact zero stays zero.
func clampComponent(v float64) float64 {
	if v == 0 || math.Abs(v) >= componentEpsilon {
		return v
	}
	return math.Copysign(componentEpsilon, v)
}

// linspace returns n evenly spaced values from start to stop inclusive.
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Pin the end point exactly.
	out[n-1] = stop
	return out
}

// floorMod is the modulo with the sign of the divisor.
func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r < 0 {
		r += y
	}
	return r
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }
