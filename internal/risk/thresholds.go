package risk

// Thresholds are the explicit cutoffs behind the four classifiers. They are
// loaded once from config and read-only during a run, so patient-parallel
// execution needs no locking.
type Thresholds struct {
	// Cardiovascular
	HRVLowMs          float64 `yaml:"hrv_low_ms"`
	RestingHRHighBpm  float64 `yaml:"resting_hr_high_bpm"`
	HRVSlopeDecline   float64 `yaml:"hrv_slope_decline_ms_per_day"`
	HRVSlopeWindow    int     `yaml:"hrv_slope_window_days"`
	HRVSlopeMinPoints int     `yaml:"hrv_slope_min_points"`
	RecoveryPoorPct   float64 `yaml:"recovery_poor_pct"`

	// Metabolic
	TIRLowPct         float64 `yaml:"tir_low_pct"`
	GMIHighPct        float64 `yaml:"gmi_high_pct"`
	GlucoseCVHighPct  float64 `yaml:"glucose_cv_high_pct"`
	GlucoseRisePct    float64 `yaml:"glucose_day_rise_pct"`

	// Neurological
	CognitiveLowScore float64 `yaml:"cognitive_low_score"`
	FocusLowScore     float64 `yaml:"focus_low_score"`
	StressHighLevel   float64 `yaml:"stress_high_level"`

	// Skeletal
	MuscleMassLowKg float64 `yaml:"muscle_mass_low_kg"`
	BoneMassLowKg   float64 `yaml:"bone_mass_low_kg"`
}

// DefaultThresholds returns the clinical defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HRVLowMs:          30,
		RestingHRHighBpm:  100,
		HRVSlopeDecline:   -1.0,
		HRVSlopeWindow:    7,
		HRVSlopeMinPoints: 4,
		RecoveryPoorPct:   45,

		TIRLowPct:        60,
		GMIHighPct:       6.5,
		GlucoseCVHighPct: 36,
		GlucoseRisePct:   10,

		CognitiveLowScore: 50,
		FocusLowScore:     50,
		StressHighLevel:   4,

		MuscleMassLowKg: 50,
		BoneMassLowKg:   5,
	}
}
