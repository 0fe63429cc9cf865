package ephemeris

import (
	"fmt"
	"math"
)

const (
	// PlanetCount is the number of entries every position query returns.
	PlanetCount = 8

	// J2000 is the Julian Date of the reference epoch (2000-01-01 12:00 TT)
	// against which the catalog's mean anomalies are tabulated.
	J2000 = 2451545.0

	// DefaultSceneScale is the reference AU-to-scene-unit factor. It is a
	// presentation constant reproduced from the reference data, applied
	// uniformly so relative distances stay correct.
	DefaultSceneScale = 2.0
)

// Vec3 is a Cartesian position in scene units.
//
// The scene frame is y-up: x and z span the ecliptic plane and y carries
// the ecliptic z component, matching what the rendering layer expects.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// PlanetState is one planet's heliocentric position at a queried Julian
// Date, plus the display metadata the caller maps onto its scene graph.
// Values are produced fresh per query and owned by the caller.
type PlanetState struct {
	Name     string `json:"name"`
	Position Vec3   `json:"position"`

	// Radius and OrbitRadius are scene units; OrbitRadius is the
	// semi-major axis under the same scale as Position.
	Radius      float64 `json:"radius"`
	OrbitRadius float64 `json:"orbit_radius"`
	Color       string  `json:"color"`

	OrbitSpeed     float64 `json:"orbit_speed"`
	AxialTiltDeg   float64 `json:"axial_tilt_deg"`
	DayLengthHours float64 `json:"day_length_hours"`
	YearLengthDays float64 `json:"year_length_days"`
	MeanTempK      float64 `json:"mean_temp_k"`
	MoonCount      int     `json:"moon_count"`
	MassEarths     float64 `json:"mass_earths"`
	DensityGcm3    float64 `json:"density_g_cm3"`
}

// Engine computes planet positions from a validated, immutable element
// catalog. It holds no mutable state; methods are safe to call
// concurrently.
type Engine struct {
	planets []OrbitalElements
	scale   float64
}

// NewEngine validates the catalog and returns an engine using the given
// AU-to-scene-unit scale. Invalid elements or a non-positive scale are
// configuration errors that prevent construction.
func NewEngine(planets []OrbitalElements, sceneScale float64) (*Engine, error) {
	if sceneScale <= 0 {
		return nil, fmt.Errorf("scene scale must be > 0, got %v", sceneScale)
	}
	if err := validateElements(planets); err != nil {
		return nil, fmt.Errorf("orbital elements: %w", err)
	}
	cp := make([]OrbitalElements, len(planets))
	copy(cp, planets)
	return &Engine{planets: cp, scale: sceneScale}, nil
}

// Planets returns a copy of the engine's element catalog, in
// distance-ascending order.
func (e *Engine) Planets() []OrbitalElements {
	cp := make([]OrbitalElements, len(e.planets))
	copy(cp, e.planets)
	return cp
}

// SceneScale returns the AU-to-scene-unit factor the engine applies.
func (e *Engine) SceneScale() float64 {
	return e.scale
}

// Positions computes the heliocentric position of every planet at the
// given Julian Date. It returns exactly PlanetCount states in the
// catalog's fixed distance-ascending order and is deterministic: the
// same date always yields bit-identical output.
//
// Any finite date is valid; dates far from J2000 remain mathematically
// well defined. The only error is a Kepler solver that fails to
// converge, which cannot happen for a catalog that passed validation
// and is reported rather than returned as a silent bad result.
func (e *Engine) Positions(julianDate float64) ([]PlanetState, error) {
	states := make([]PlanetState, 0, len(e.planets))
	for _, p := range e.planets {
		pos, err := e.position(p, julianDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		states = append(states, PlanetState{
			Name:           p.Name,
			Position:       pos,
			Radius:         p.VisualRadius,
			OrbitRadius:    p.SemiMajorAxisAU * e.scale,
			Color:          p.Color,
			OrbitSpeed:     365.25 / p.YearLengthDays,
			AxialTiltDeg:   p.AxialTiltDeg,
			DayLengthHours: p.DayLengthHours,
			YearLengthDays: p.YearLengthDays,
			MeanTempK:      p.MeanTempK,
			MoonCount:      p.MoonCount,
			MassEarths:     p.MassEarths,
			DensityGcm3:    p.DensityGcm3,
		})
	}
	return states, nil
}

// position runs the per-planet pipeline: mean anomaly at the query time,
// Kepler solve, true anomaly, perifocal position, rotation into the
// ecliptic frame, scene scaling.
func (e *Engine) position(p OrbitalElements, julianDate float64) (Vec3, error) {
	days := julianDate - J2000

	meanDeg := normalizeDegrees(p.MeanAnomalyAtEpochDeg + p.MeanMotionDeg()*days)
	M := degToRad(meanDeg)

	E, err := solveKepler(M, p.Eccentricity)
	if err != nil {
		return Vec3{}, err
	}
	nu := trueAnomaly(E, p.Eccentricity)

	// Radius and position in the orbital plane (perifocal frame).
	r := p.SemiMajorAxisAU * (1 - p.Eccentricity*math.Cos(E))
	xOrb := r * math.Cos(nu)
	yOrb := r * math.Sin(nu)

	// Rotate perifocal -> heliocentric ecliptic: Rz(Omega)*Rx(i)*Rz(w).
	cosO := math.Cos(degToRad(p.LongitudeOfAscendingNodeDeg))
	sinO := math.Sin(degToRad(p.LongitudeOfAscendingNodeDeg))
	cosW := math.Cos(degToRad(p.ArgumentOfPeriapsisDeg))
	sinW := math.Sin(degToRad(p.ArgumentOfPeriapsisDeg))
	cosI := math.Cos(degToRad(p.InclinationDeg))
	sinI := math.Sin(degToRad(p.InclinationDeg))

	x := (cosO*cosW-sinO*sinW*cosI)*xOrb + (-cosO*sinW-sinO*cosW*cosI)*yOrb
	y := (sinO*cosW+cosO*sinW*cosI)*xOrb + (-sinO*sinW+cosO*cosW*cosI)*yOrb
	z := (sinW*sinI)*xOrb + (cosW*sinI)*yOrb

	// Scene frame is y-up: ecliptic z becomes scene y.
	return Vec3{X: x * e.scale, Y: z * e.scale, Z: y * e.scale}, nil
}

// defaultEngine backs the package-level entry point. Planets() and the
// reference scale always validate, so construction cannot fail.
var defaultEngine = func() *Engine {
	eng, err := NewEngine(Planets(), DefaultSceneScale)
	if err != nil {
		panic(err)
	}
	return eng
}()

// PlanetPositions is the secondary entry point used by the compiled
// (WASM) call path. It is a thin binding over the same engine and
// algorithm as Engine.Positions with the reference catalog and scale;
// the two paths must agree numerically.
func PlanetPositions(julianDate float64) ([]PlanetState, error) {
	return defaultEngine.Positions(julianDate)
}
