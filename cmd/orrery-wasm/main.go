//go:build js && wasm

// Command orrery-wasm exposes the ephemeris engine to JavaScript. It is
// a thin binding: all numeric work happens in internal/ephemeris, the
// same code path the native service uses, so both targets agree
// bit-for-bit on positions.
//
// Exposed functions:
//
//	planetPositions(julianDate) -> array of planet state objects
//	planetCatalog()             -> array of orbital element objects
package main

import (
	"syscall/js"

	"orrery-ng/internal/ephemeris"
)

func stateToJS(s ephemeris.PlanetState) map[string]any {
	return map[string]any{
		"name": s.Name,
		"position": map[string]any{
			"x": s.Position.X,
			"y": s.Position.Y,
			"z": s.Position.Z,
		},
		"radius":           s.Radius,
		"orbit_radius":     s.OrbitRadius,
		"color":            s.Color,
		"orbit_speed":      s.OrbitSpeed,
		"axial_tilt_deg":   s.AxialTiltDeg,
		"day_length_hours": s.DayLengthHours,
		"year_length_days": s.YearLengthDays,
		"mean_temp_k":      s.MeanTempK,
		"moon_count":       s.MoonCount,
		"mass_earths":      s.MassEarths,
		"density_g_cm3":    s.DensityGcm3,
	}
}

func planetPositions(this js.Value, args []js.Value) any {
	if len(args) != 1 {
		return js.Global().Get("Error").New("planetPositions: expected one numeric argument")
	}

	states, err := ephemeris.PlanetPositions(args[0].Float())
	if err != nil {
		return js.Global().Get("Error").New(err.Error())
	}

	out := make([]any, len(states))
	for i, s := range states {
		out[i] = stateToJS(s)
	}
	return out
}

func planetCatalog(this js.Value, args []js.Value) any {
	planets := ephemeris.Planets()
	out := make([]any, len(planets))
	for i, p := range planets {
		out[i] = map[string]any{
			"name":                      p.Name,
			"semi_major_axis_au":        p.SemiMajorAxisAU,
			"eccentricity":              p.Eccentricity,
			"inclination_deg":           p.InclinationDeg,
			"ascending_node_deg":        p.LongitudeOfAscendingNodeDeg,
			"argument_of_periapsis_deg": p.ArgumentOfPeriapsisDeg,
			"mean_anomaly_at_epoch_deg": p.MeanAnomalyAtEpochDeg,
			"orbital_period_days":       p.OrbitalPeriodDays,
			"visual_radius":             p.VisualRadius,
			"color":                     p.Color,
			"year_length_days":          p.YearLengthDays,
			"moon_count":                p.MoonCount,
		}
	}
	return out
}

func main() {
	js.Global().Set("planetPositions", js.FuncOf(planetPositions))
	js.Global().Set("planetCatalog", js.FuncOf(planetCatalog))

	// Keep the module alive; JS owns the lifecycle.
	select {}
}
