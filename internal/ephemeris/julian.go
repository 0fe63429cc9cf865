package ephemeris

import (
	"math"
	"time"
)

// JulianDate converts a time.Time to a Julian Date (fractional days).
// The standard astronomical algorithm, valid for any Gregorian date the
// service will ever see.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// Treat January and February as months 13/14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0
	return jd
}

// JDTime converts a Julian Date back to UTC wall-clock time.
func JDTime(jd float64) time.Time {
	// Days since the Unix epoch (JD 2440587.5).
	days := jd - 2440587.5
	sec, frac := math.Modf(days * 86400.0)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
