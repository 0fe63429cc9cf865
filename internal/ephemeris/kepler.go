package ephemeris

import (
	"fmt"
	"math"
)

const (
	// keplerTolerance is the convergence threshold for the eccentric
	// anomaly, in radians.
	keplerTolerance = 1e-9
	// keplerMaxIterations bounds the Newton iteration. Real planetary
	// eccentricities (< 0.25) converge in a handful of steps; the cap
	// guards against pathological inputs.
	keplerMaxIterations = 30
)

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// normalizeDegrees wraps an angle into [0, 360). The double-mod handles
// negative inputs, which Go's math.Mod passes through with their sign.
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// solveKepler finds the eccentric anomaly E satisfying M = E - e*sin(E)
// via Newton-Raphson, with M and E in radians sharing one sign
// convention. For 0 <= e < 1 the iteration converges well inside the
// cap; hitting the cap means the elements are invalid and the result
// must not be used.
func solveKepler(meanAnomaly, eccentricity float64) (float64, error) {
	e := eccentricity
	if e < 0 || e >= 1 {
		return 0, fmt.Errorf("eccentricity %v outside [0, 1)", e)
	}
	E := meanAnomaly
	for i := 0; i < keplerMaxIterations; i++ {
		delta := (E - e*math.Sin(E) - meanAnomaly) / (1 - e*math.Cos(E))
		E -= delta
		if math.Abs(delta) < keplerTolerance {
			return E, nil
		}
	}
	return 0, fmt.Errorf("kepler solve did not converge after %d iterations (M=%v e=%v)", keplerMaxIterations, meanAnomaly, eccentricity)
}

// trueAnomaly converts an eccentric anomaly to the true anomaly. atan2
// keeps the quadrant correct over the full orbit.
func trueAnomaly(eccentricAnomaly, eccentricity float64) float64 {
	sinHalf := math.Sqrt(1+eccentricity) * math.Sin(eccentricAnomaly/2)
	cosHalf := math.Sqrt(1-eccentricity) * math.Cos(eccentricAnomaly/2)
	return 2 * math.Atan2(sinHalf, cosHalf)
}
