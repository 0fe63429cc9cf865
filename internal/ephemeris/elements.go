package ephemeris

import (
	"fmt"
	"regexp"
)

// OrbitalElements describes one planet: Keplerian elements at the J2000.0
// epoch plus the display metadata the rendering layer consumes. Angles are
// degrees, distances astronomical units, periods Earth days.
type OrbitalElements struct {
	Name string `json:"name"`

	SemiMajorAxisAU             float64 `json:"semi_major_axis_au"`
	Eccentricity                float64 `json:"eccentricity"`
	InclinationDeg              float64 `json:"inclination_deg"`
	LongitudeOfAscendingNodeDeg float64 `json:"ascending_node_deg"`
	ArgumentOfPeriapsisDeg      float64 `json:"argument_of_periapsis_deg"`
	MeanAnomalyAtEpochDeg       float64 `json:"mean_anomaly_at_epoch_deg"`
	OrbitalPeriodDays           float64 `json:"orbital_period_days"`

	// Display metadata, passed through unchanged. VisualRadius is an
	// exaggerated scene-unit radius, not a physical scale.
	VisualRadius   float64 `json:"visual_radius"`
	Color          string  `json:"color"`
	AxialTiltDeg   float64 `json:"axial_tilt_deg"`
	DayLengthHours float64 `json:"day_length_hours"`
	YearLengthDays float64 `json:"year_length_days"`
	MeanTempK      float64 `json:"mean_temp_k"`
	MoonCount      int     `json:"moon_count"`
	MassEarths     float64 `json:"mass_earths"`
	DensityGcm3    float64 `json:"density_g_cm3"`
}

// MeanMotionDeg returns the mean motion in degrees per day.
func (e OrbitalElements) MeanMotionDeg() float64 {
	return 360.0 / e.OrbitalPeriodDays
}

// Planets returns the J2000.0 catalog in distance-ascending order
// (Mercury through Neptune). Elements and display values are reproduced
// from the reference data set; visual radii and colors are presentation
// constants, not derived quantities.
func Planets() []OrbitalElements {
	return []OrbitalElements{
		{
			Name:                        "Mercury",
			SemiMajorAxisAU:             0.387098,
			Eccentricity:                0.205635,
			InclinationDeg:              7.004,
			LongitudeOfAscendingNodeDeg: 48.331,
			ArgumentOfPeriapsisDeg:      29.124,
			MeanAnomalyAtEpochDeg:       174.796,
			OrbitalPeriodDays:           87.97,
			VisualRadius:                0.383,
			Color:                       "#8c7853",
			AxialTiltDeg:                0.034,
			DayLengthHours:              1407.6,
			YearLengthDays:              87.97,
			MeanTempK:                   340.0,
			MoonCount:                   0,
			MassEarths:                  0.055,
			DensityGcm3:                 5.427,
		},
		{
			Name:                        "Venus",
			SemiMajorAxisAU:             0.723332,
			Eccentricity:                0.006773,
			InclinationDeg:              3.394,
			LongitudeOfAscendingNodeDeg: 76.678,
			ArgumentOfPeriapsisDeg:      54.884,
			MeanAnomalyAtEpochDeg:       50.115,
			OrbitalPeriodDays:           224.7,
			VisualRadius:                0.949,
			Color:                       "#ffc649",
			AxialTiltDeg:                177.4,
			DayLengthHours:              5832.5,
			YearLengthDays:              224.7,
			MeanTempK:                   737.0,
			MoonCount:                   0,
			MassEarths:                  0.815,
			DensityGcm3:                 5.243,
		},
		{
			Name:                        "Earth",
			SemiMajorAxisAU:             1.000001,
			Eccentricity:                0.016709,
			InclinationDeg:              0.000,
			LongitudeOfAscendingNodeDeg: 0.000,
			ArgumentOfPeriapsisDeg:      102.937,
			MeanAnomalyAtEpochDeg:       100.464,
			OrbitalPeriodDays:           365.25,
			VisualRadius:                1.0,
			Color:                       "#6b93d6",
			AxialTiltDeg:                23.4,
			DayLengthHours:              24.0,
			YearLengthDays:              365.25,
			MeanTempK:                   288.0,
			MoonCount:                   1,
			MassEarths:                  1.0,
			DensityGcm3:                 5.514,
		},
		{
			Name:                        "Mars",
			SemiMajorAxisAU:             1.523679,
			Eccentricity:                0.093941,
			InclinationDeg:              1.849,
			LongitudeOfAscendingNodeDeg: 49.558,
			ArgumentOfPeriapsisDeg:      286.502,
			MeanAnomalyAtEpochDeg:       19.373,
			OrbitalPeriodDays:           687.0,
			VisualRadius:                0.532,
			Color:                       "#c1440e",
			AxialTiltDeg:                25.2,
			DayLengthHours:              24.6,
			YearLengthDays:              687.0,
			MeanTempK:                   210.0,
			MoonCount:                   2,
			MassEarths:                  0.107,
			DensityGcm3:                 3.933,
		},
		{
			Name:                        "Jupiter",
			SemiMajorAxisAU:             5.204267,
			Eccentricity:                0.048775,
			InclinationDeg:              1.303,
			LongitudeOfAscendingNodeDeg: 100.464,
			ArgumentOfPeriapsisDeg:      273.867,
			MeanAnomalyAtEpochDeg:       20.020,
			OrbitalPeriodDays:           4331.0,
			VisualRadius:                11.21,
			Color:                       "#d8ca9d",
			AxialTiltDeg:                3.1,
			DayLengthHours:              9.9,
			YearLengthDays:              4331.0,
			MeanTempK:                   165.0,
			MoonCount:                   79,
			MassEarths:                  317.8,
			DensityGcm3:                 1.326,
		},
		{
			Name:                        "Saturn",
			SemiMajorAxisAU:             9.582017,
			Eccentricity:                0.055723,
			InclinationDeg:              2.484,
			LongitudeOfAscendingNodeDeg: 113.665,
			ArgumentOfPeriapsisDeg:      339.392,
			MeanAnomalyAtEpochDeg:       317.020,
			OrbitalPeriodDays:           10747.0,
			VisualRadius:                9.45,
			Color:                       "#fad5a5",
			AxialTiltDeg:                26.7,
			DayLengthHours:              10.7,
			YearLengthDays:              10747.0,
			MeanTempK:                   134.0,
			MoonCount:                   82,
			MassEarths:                  95.2,
			DensityGcm3:                 0.687,
		},
		{
			Name:                        "Uranus",
			SemiMajorAxisAU:             19.229411,
			Eccentricity:                0.047318,
			InclinationDeg:              0.772,
			LongitudeOfAscendingNodeDeg: 74.006,
			ArgumentOfPeriapsisDeg:      96.998,
			MeanAnomalyAtEpochDeg:       142.238,
			OrbitalPeriodDays:           30589.0,
			VisualRadius:                4.01,
			Color:                       "#4fd0e4",
			AxialTiltDeg:                97.8,
			DayLengthHours:              17.2,
			YearLengthDays:              30589.0,
			MeanTempK:                   76.0,
			MoonCount:                   27,
			MassEarths:                  14.5,
			DensityGcm3:                 1.271,
		},
		{
			Name:                        "Neptune",
			SemiMajorAxisAU:             30.103658,
			Eccentricity:                0.008678,
			InclinationDeg:              1.767,
			LongitudeOfAscendingNodeDeg: 131.784,
			ArgumentOfPeriapsisDeg:      272.856,
			MeanAnomalyAtEpochDeg:       256.228,
			OrbitalPeriodDays:           59800.0,
			VisualRadius:                3.88,
			Color:                       "#4b70dd",
			AxialTiltDeg:                28.3,
			DayLengthHours:              16.1,
			YearLengthDays:              59800.0,
			MeanTempK:                   72.0,
			MoonCount:                   14,
			MassEarths:                  17.1,
			DensityGcm3:                 1.638,
		},
	}
}

var colorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// validateElements rejects any catalog that could make the computation
// miscompute or diverge. Violations are configuration errors and must
// stop engine construction, never surface at query time.
func validateElements(planets []OrbitalElements) error {
	if len(planets) != PlanetCount {
		return fmt.Errorf("catalog must contain exactly %d planets, got %d", PlanetCount, len(planets))
	}
	seen := make(map[string]bool, len(planets))
	prevA := 0.0
	for i, p := range planets {
		if p.Name == "" {
			return fmt.Errorf("planet %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("planet %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if p.SemiMajorAxisAU <= 0 {
			return fmt.Errorf("planet %q: semi-major axis must be > 0", p.Name)
		}
		if p.SemiMajorAxisAU <= prevA {
			return fmt.Errorf("planet %q: semi-major axis must be strictly increasing across the catalog", p.Name)
		}
		prevA = p.SemiMajorAxisAU
		if p.Eccentricity < 0 || p.Eccentricity >= 1 {
			return fmt.Errorf("planet %q: eccentricity must be in [0, 1), got %v", p.Name, p.Eccentricity)
		}
		if p.OrbitalPeriodDays <= 0 {
			return fmt.Errorf("planet %q: orbital period must be > 0", p.Name)
		}
		if p.YearLengthDays <= 0 {
			return fmt.Errorf("planet %q: year length must be > 0", p.Name)
		}
		if !colorPattern.MatchString(p.Color) {
			return fmt.Errorf("planet %q: color must be lowercase #rrggbb, got %q", p.Name, p.Color)
		}
		if p.VisualRadius <= 0 {
			return fmt.Errorf("planet %q: visual radius must be > 0", p.Name)
		}
		if p.MoonCount < 0 {
			return fmt.Errorf("planet %q: moon count must be >= 0", p.Name)
		}
	}
	return nil
}
