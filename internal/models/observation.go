package models

import "time"

// SourceID identifies a device family feeding the engine.
type SourceID string

const (
	SourceWhoop    SourceID = "whoop"    // physiological cycles (recovery, HRV, sleep)
	SourceStarfit  SourceID = "starfit"  // body-composition scale
	SourceEliteHRV SourceID = "elitehrv" // discrete HRV sessions
	SourceDexcom   SourceID = "dexcom"   // 5-minute CGM stream
	SourcePison    SourceID = "pison"    // EMG / neurophysiological sessions
)

// AllSources lists every supported source in a fixed order. Iteration over
// source data must use this order so exports stay byte-identical across runs.
var AllSources = []SourceID{SourceWhoop, SourceStarfit, SourceEliteHRV, SourceDexcom, SourcePison}

// CanonicalMetric is a standardized measurement identity with one fixed
// unit, independent of which device produced it.
type CanonicalMetric string

const (
	// Cardiovascular
	MetricRestingHR    CanonicalMetric = "resting_hr"   // bpm
	MetricMaxHR        CanonicalMetric = "max_hr"       // bpm
	MetricHRV          CanonicalMetric = "hrv"          // ms (RMSSD)
	MetricLFHFRatio    CanonicalMetric = "lf_hf_ratio"  // dimensionless
	MetricCardiacIndex CanonicalMetric = "cardiac_index" // L/min/m2

	// Metabolic
	MetricGlucose     CanonicalMetric = "glucose"       // mg/dL
	MetricTimeInRange CanonicalMetric = "time_in_range" // %
	MetricGMI         CanonicalMetric = "gmi"           // %
	MetricGlucoseCV   CanonicalMetric = "glucose_cv"    // %

	// Body composition
	MetricWeight       CanonicalMetric = "weight"         // kg
	MetricBMI          CanonicalMetric = "bmi"            // kg/m2
	MetricBodyFatPct   CanonicalMetric = "body_fat_pct"   // %
	MetricMuscleMass   CanonicalMetric = "muscle_mass"    // kg
	MetricVisceralFat  CanonicalMetric = "visceral_fat"   // level
	MetricBoneMass     CanonicalMetric = "bone_mass"      // kg
	MetricBodyWaterPct CanonicalMetric = "body_water_pct" // %

	// Sleep & recovery
	MetricAsleepMin           CanonicalMetric = "asleep_min"            // min
	MetricDeepSleepMin        CanonicalMetric = "deep_sleep_min"        // min
	MetricREMSleepMin         CanonicalMetric = "rem_sleep_min"         // min
	MetricSleepEfficiencyPct  CanonicalMetric = "sleep_efficiency_pct"  // %
	MetricSleepConsistencyPct CanonicalMetric = "sleep_consistency_pct" // %
	MetricSleepDebtHours      CanonicalMetric = "sleep_debt_hours"      // h
	MetricRecoveryScore       CanonicalMetric = "recovery_score"        // %

	// Cognitive & neurological
	MetricCognitiveReadiness    CanonicalMetric = "cognitive_readiness"      // score 0-100
	MetricMentalAgility         CanonicalMetric = "mental_agility"           // score 0-100
	MetricFocus                 CanonicalMetric = "focus"                    // score 0-100
	MetricStressLevel           CanonicalMetric = "stress_level"             // EDA scale 0-5
	MetricCircadianCompliancePct CanonicalMetric = "circadian_compliance_pct" // %

	// Activity & fitness
	MetricStrain              CanonicalMetric = "strain"                // WHOOP strain scale
	MetricEnergyKcal          CanonicalMetric = "energy_kcal"           // kcal
	MetricSteps               CanonicalMetric = "steps"                 // count
	MetricExerciseDurationMin CanonicalMetric = "exercise_duration_min" // min

	// Vital signs
	MetricSkinTempC       CanonicalMetric = "skin_temp_c"      // °C
	MetricSpO2            CanonicalMetric = "spo2"             // %
	MetricRespiratoryRate CanonicalMetric = "respiratory_rate" // rpm
)

// NormalizedObservation is one measurement in its canonical unit, with the
// timestamp normalized to UTC.
type NormalizedObservation struct {
	PatientID string
	Metric    CanonicalMetric
	Timestamp time.Time // always UTC
	Value     float64
	// Weight drives weighted_mean aggregation (e.g. time-in-range weighted
	// by sensor coverage). Adapters set 1 when the metric has no natural
	// denominator.
	Weight float64
	Source SourceID
}

// DefectCounts tracks recoverable per-source ingestion defects. They never
// abort a batch; the Quality Scorer surfaces them in the export.
type DefectCounts struct {
	MalformedRows int
	UnknownFields int
}

// Total returns the combined defect count for a source.
func (d DefectCounts) Total() int {
	return d.MalformedRows + d.UnknownFields
}
