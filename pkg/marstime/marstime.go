// Package marstime converts between UTC and the Mars calendar: Clancy Mars
// Year and areocentric solar longitude (L_s). The solar longitude series
// follows Allison & McEwen (2000).
package marstime

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DaysPerMarsYear is the length of the Mars year in Earth days.
	DaysPerMarsYear = 686.9713

	deg2rad = math.Pi / 180
)

// marsYear1 is the start of Clancy Mars Year 1.
var marsYear1 = time.Date(1955, 4, 11, 10, 56, 0, 0, time.UTC)

// j2000 is the J2000 reference epoch.
var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// ErrConvergence is returned when the calendar inversion does not converge
// within the iteration bound.
var ErrConvergence = errors.New("marstime: inversion did not converge")

// J2000Offset returns the days elapsed since the J2000 epoch.
func J2000Offset(t time.Time) float64 {
	return t.Sub(j2000).Seconds() / 86400
}

// perturbers of the Mars orbit, Allison & McEwen (2000) Table 5.
var perturbers = []struct{ amp, period, phase float64 }{
	{0.0071, 2.2353, 49.409},
	{0.0057, 2.7543, 168.173},
	{0.0039, 1.1177, 191.837},
	{0.0037, 15.7866, 21.736},
	{0.0021, 2.1354, 15.704},
	{0.0020, 2.4694, 95.528},
	{0.0018, 32.8493, 49.095},
}

// Ls returns the areocentric solar longitude of t in degrees [0, 360).
func Ls(t time.Time) float64 {
	d := J2000Offset(t)

	m := (19.3871 + 0.52402073*d) * deg2rad // mean anomaly
	alphaFMS := 270.3871 + 0.5240384*d      // fictitious mean sun

	pbs := 0.0
	for _, p := range perturbers {
		pbs += p.amp * math.Cos(2*math.Pi*d/(365.25*p.period)+p.phase*deg2rad)
	}

	// equation of center
	eoc := (10.691+3.0e-7*d)*math.Sin(m) +
		0.623*math.Sin(2*m) +
		0.050*math.Sin(3*m) +
		0.005*math.Sin(4*m) +
		0.0005*math.Sin(5*m) +
		pbs

	ls := math.Mod(alphaFMS+eoc, 360)
	if ls < 0 {
		ls += 360
	}
	return ls
}

// MarsYear returns the Clancy Mars Year of t. Mars Year 1 began
// 1955-04-11.
func MarsYear(t time.Time) int {
	days := t.Sub(marsYear1).Seconds() / 86400
	return int(math.Floor(days/DaysPerMarsYear)) + 1
}

// MarsYearLs returns both calendar coordinates of t.
func MarsYearLs(t time.Time) (int, float64) {
	return MarsYear(t), Ls(t)
}

const (
	lsThreshold   = 0.001
	maxIterations = 1000
)

// UTCFromMarsYearLs solves for the UTC time at which the given Mars Year
// reaches the target solar longitude. The fixed-point iteration is bounded;
// exceeding the bound returns ErrConvergence.
func UTCFromMarsYearLs(my int, ls float64) (time.Time, error) {
	// initial guess from the mean year length
	days := (float64(my-1) + ls/360) * DaysPerMarsYear
	date := marsYear1.Add(time.Duration(days * 86400 * float64(time.Second)))

	for i := 0; i < maxIterations; i++ {
		diff := ls - Ls(date)
		if math.Abs(diff) < lsThreshold || math.Abs(360-math.Abs(diff)) < lsThreshold {
			return date, nil
		}
		var updateDays float64
		if math.Abs(diff) < math.Abs(diff-360) {
			updateDays = diff * 2
		} else {
			updateDays = (diff - 360) * 2
		}
		date = date.Add(time.Duration(updateDays * 86400 * float64(time.Second)))
	}
	return time.Time{}, fmt.Errorf("%w: MY%d Ls=%g after %d steps", ErrConvergence, my, ls, maxIterations)
}

// LTST returns the local true solar time in hours [0, 24) for a longitude
// given the subsolar longitude.
func LTST(lon, subsolarLon float64) float64 {
	delta := lon - subsolarLon
	if delta < -180 {
		delta += 360
	}
	if delta >= 180 {
		delta -= 360
	}
	return (delta + 180) * 24 / 360
}
