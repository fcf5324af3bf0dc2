package registry

import "harmona-engine/internal/models"

// FieldMapping binds one raw source column to a canonical metric and the
// conversion into its canonical unit.
type FieldMapping struct {
	Metric  models.CanonicalMetric
	Convert Conversion
}

// SourceSchema is the registry entry for one device family: which column
// carries the timestamp, how to parse it, which columns map to canonical
// metrics, and which columns are known but deliberately ignored. A column
// in neither set is an unknown field, counted per source as a
// configuration gap.
type SourceSchema struct {
	TimeColumn  string
	TimeLayouts []string
	Fields      map[string]FieldMapping
	Ignored     map[string]bool
	// Expected normalized observations per metric per calendar day, used by
	// the Quality Scorer (observed/expected, capped at 100%).
	ExpectedDaily map[models.CanonicalMetric]int
}

var sourceSchemas = map[models.SourceID]SourceSchema{
	models.SourceWhoop: {
		TimeColumn:  "Cycle start time",
		TimeLayouts: []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"},
		Fields: map[string]FieldMapping{
			"Recovery score %":              {models.MetricRecoveryScore, Identity},
			"Resting heart rate (bpm)":      {models.MetricRestingHR, Identity},
			"Heart rate variability (ms)":   {models.MetricHRV, Identity},
			"Skin temp (celsius)":           {models.MetricSkinTempC, Identity},
			"Blood oxygen %":                {models.MetricSpO2, Identity},
			"Day Strain":                    {models.MetricStrain, Identity},
			"Energy burned (cal)":           {models.MetricEnergyKcal, Identity},
			"Max HR (bpm)":                  {models.MetricMaxHR, Identity},
			"Respiratory rate (rpm)":        {models.MetricRespiratoryRate, Identity},
			"Asleep duration (min)":         {models.MetricAsleepMin, Identity},
			"Deep (SWS) duration (min)":     {models.MetricDeepSleepMin, Identity},
			"REM duration (min)":            {models.MetricREMSleepMin, Identity},
			"Sleep debt (min)":              {models.MetricSleepDebtHours, MinToHours},
			"Sleep efficiency %":            {models.MetricSleepEfficiencyPct, Identity},
			"Sleep consistency %":           {models.MetricSleepConsistencyPct, Identity},
		},
		Ignored: map[string]bool{
			"Cycle end time":            true,
			"Cycle timezone":            true,
			"Average HR (bpm)":          true,
			"Sleep onset":               true,
			"Wake onset":                true,
			"Sleep performance %":       true,
			"In bed duration (min)":     true,
			"Light sleep duration (min)": true,
			"Awake duration (min)":      true,
			"Sleep need (min)":          true,
		},
		ExpectedDaily: map[models.CanonicalMetric]int{
			models.MetricRecoveryScore:       1,
			models.MetricRestingHR:           1,
			models.MetricHRV:                 1,
			models.MetricSkinTempC:           1,
			models.MetricSpO2:                1,
			models.MetricStrain:              1,
			models.MetricEnergyKcal:          1,
			models.MetricMaxHR:               1,
			models.MetricRespiratoryRate:     1,
			models.MetricAsleepMin:           1,
			models.MetricDeepSleepMin:        1,
			models.MetricREMSleepMin:         1,
			models.MetricSleepDebtHours:      1,
			models.MetricSleepEfficiencyPct:  1,
			models.MetricSleepConsistencyPct: 1,
		},
	},

	models.SourceStarfit: {
		TimeColumn:  "Date",
		TimeLayouts: []string{"2006-01-02 15:04:05", "2006-01-02", "01/02/2006 15:04", "01/02/2006"},
		Fields: map[string]FieldMapping{
			"Weight":        {models.MetricWeight, LbToKg},
			"BMI":           {models.MetricBMI, Identity},
			"Body Fat":      {models.MetricBodyFatPct, Identity},
			"Heart Rate":    {models.MetricRestingHR, Identity},
			"Cardiac Index": {models.MetricCardiacIndex, Identity},
			"Visceral Fat":  {models.MetricVisceralFat, Identity},
			"Body Water":    {models.MetricBodyWaterPct, Identity},
			"Muscle Mass":   {models.MetricMuscleMass, LbToKg},
			"Bone Mass":     {models.MetricBoneMass, LbToKg},
		},
		Ignored: map[string]bool{
			"BMR":           true,
			"Metabolic Age": true,
			"Protein":       true,
		},
		ExpectedDaily: map[models.CanonicalMetric]int{
			models.MetricWeight:       1,
			models.MetricBMI:          1,
			models.MetricBodyFatPct:   1,
			models.MetricRestingHR:    1,
			models.MetricCardiacIndex: 1,
			models.MetricVisceralFat:  1,
			models.MetricBodyWaterPct: 1,
			models.MetricMuscleMass:   1,
			models.MetricBoneMass:     1,
		},
	},

	models.SourceEliteHRV: {
		TimeColumn:  "Date Time Start",
		TimeLayouts: []string{"2006-01-02 15:04:05", "01/02/2006 15:04", "2006-01-02T15:04:05Z07:00"},
		Fields: map[string]FieldMapping{
			"Rmssd":       {models.MetricHRV, Identity},
			"HR":          {models.MetricRestingHR, Identity},
			"LF/HF Ratio": {models.MetricLFHFRatio, Identity},
		},
		Ignored: map[string]bool{
			"Date Time End":     true,
			"HRV":               true, // EliteHRV 1-10 score, not RMSSD
			"Morning Readiness": true,
			"Sdnn":              true,
			"Total Power":       true,
		},
		ExpectedDaily: map[models.CanonicalMetric]int{
			models.MetricHRV:       1,
			models.MetricRestingHR: 1,
			models.MetricLFHFRatio: 1,
		},
	},

	models.SourceDexcom: {
		TimeColumn:  "timestamp",
		TimeLayouts: []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"},
		Fields: map[string]FieldMapping{
			"glucose_mg_dl":         {models.MetricGlucose, Identity},
			"time_in_range_pct":     {models.MetricTimeInRange, Identity},
			"gmi_percent":           {models.MetricGMI, Identity},
			"coefficient_variation": {models.MetricGlucoseCV, Identity},
		},
		Ignored: map[string]bool{
			"mean_glucose_mg_dl": true,
			"sensor_usage_pct":   true, // weight for time_in_range, read by the adapter
			"meal_annotation":    true,
			"exercise_annotation": true,
		},
		// 5-minute sampling: 288 readings per day.
		ExpectedDaily: map[models.CanonicalMetric]int{
			models.MetricGlucose:     288,
			models.MetricTimeInRange: 288,
			models.MetricGMI:         288,
			models.MetricGlucoseCV:   288,
		},
	},

	models.SourcePison: {
		TimeColumn:  "timestamp",
		TimeLayouts: []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"},
		Fields: map[string]FieldMapping{
			"readiness_score":          {models.MetricCognitiveReadiness, Identity},
			"mental_agility_score":     {models.MetricMentalAgility, Identity},
			"focus_score":              {models.MetricFocus, Identity},
			"sleep_efficiency_pct":     {models.MetricSleepEfficiencyPct, Identity},
			"hrv_ms":                   {models.MetricHRV, Identity},
			"heart_rate_bpm":           {models.MetricRestingHR, Identity},
			"steps_count":              {models.MetricSteps, Identity},
			"calories_burned":          {models.MetricEnergyKcal, Identity},
			"eda_stress_level":         {models.MetricStressLevel, Identity},
			"skin_temp_celsius":        {models.MetricSkinTempC, Identity},
			"circadian_compliance_pct": {models.MetricCircadianCompliancePct, Identity},
		},
		Ignored: map[string]bool{
			"neural_sleep_quality":  true,
			"neural_sleep_debt_min": true,
			"muscle_group":          true,
			"emg_amplitude_uv":      true,
			"emg_frequency_hz":      true,
		},
		ExpectedDaily: map[models.CanonicalMetric]int{
			models.MetricCognitiveReadiness:     1,
			models.MetricMentalAgility:          1,
			models.MetricFocus:                  1,
			models.MetricSleepEfficiencyPct:     1,
			models.MetricHRV:                    1,
			models.MetricRestingHR:              1,
			models.MetricSteps:                  1,
			models.MetricEnergyKcal:             1,
			models.MetricStressLevel:            1,
			models.MetricSkinTempC:              1,
			models.MetricCircadianCompliancePct: 1,
		},
	},
}
