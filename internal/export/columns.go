package export

import (
	"strconv"

	"harmona-engine/internal/models"
)

// Column is one cell of the unified export schema: a fixed header plus a
// pure extractor. The column order below is the canonical category order of
// the physician-facing export and must not be reshuffled.
type Column struct {
	Name  string
	Value func(r *models.DailyRecord) string
}

// Columns returns the unified export schema.
func Columns() []Column {
	cols := []Column{
		{"date", func(r *models.DailyRecord) string { return r.DateKey() }},
		{"patient_id", func(r *models.DailyRecord) string { return r.PatientID }},
		{"data_quality_score", func(r *models.DailyRecord) string { return fmtFloat(r.QualityScore, 1) }},

		// Cardiovascular health
		{"avg_resting_hr_bpm", metricCol(models.MetricRestingHR, 1)},
		{"max_hr_bpm", metricCol(models.MetricMaxHR, 0)},
		{"avg_hrv_ms", metricCol(models.MetricHRV, 1)},
		{"lf_hf_ratio", metricCol(models.MetricLFHFRatio, 2)},
		{"cardiac_index", metricCol(models.MetricCardiacIndex, 2)},

		// Metabolic health
		{"avg_glucose_mg_dl", metricCol(models.MetricGlucose, 1)},
		{"time_in_range_pct", metricCol(models.MetricTimeInRange, 1)},
		{"gmi_percent", metricCol(models.MetricGMI, 2)},
		{"glucose_variability_cv", metricCol(models.MetricGlucoseCV, 1)},

		// Body composition
		{"weight_kg", metricCol(models.MetricWeight, 2)},
		{"bmi", metricCol(models.MetricBMI, 1)},
		{"body_fat_pct", metricCol(models.MetricBodyFatPct, 1)},
		{"muscle_mass_kg", metricCol(models.MetricMuscleMass, 2)},
		{"visceral_fat_level", metricCol(models.MetricVisceralFat, 0)},
		{"bone_mass_kg", metricCol(models.MetricBoneMass, 2)},
		{"body_water_pct", metricCol(models.MetricBodyWaterPct, 1)},

		// Sleep & recovery
		{"sleep_duration_hours", derivedSleepHours},
		{"sleep_efficiency_pct", metricCol(models.MetricSleepEfficiencyPct, 1)},
		{"sleep_consistency_pct", metricCol(models.MetricSleepConsistencyPct, 1)},
		{"deep_sleep_pct", ptrCol(func(r *models.DailyRecord) *float64 { return r.DeepSleepPct }, 1)},
		{"rem_sleep_pct", ptrCol(func(r *models.DailyRecord) *float64 { return r.REMSleepPct }, 1)},
		{"sleep_debt_hours", metricCol(models.MetricSleepDebtHours, 2)},
		{"recovery_score_pct", metricCol(models.MetricRecoveryScore, 1)},

		// Cognitive & neurological
		{"cognitive_readiness_score", metricCol(models.MetricCognitiveReadiness, 1)},
		{"mental_agility_score", metricCol(models.MetricMentalAgility, 1)},
		{"focus_score", metricCol(models.MetricFocus, 1)},
		{"stress_level", metricCol(models.MetricStressLevel, 1)},
		{"circadian_compliance_pct", metricCol(models.MetricCircadianCompliancePct, 1)},

		// Activity & fitness
		{"daily_strain_score", metricCol(models.MetricStrain, 1)},
		{"energy_expenditure_kcal", metricCol(models.MetricEnergyKcal, 0)},
		{"steps_count", metricCol(models.MetricSteps, 0)},
		{"exercise_duration_min", metricCol(models.MetricExerciseDurationMin, 0)},

		// Vital signs
		{"skin_temperature_celsius", metricCol(models.MetricSkinTempC, 2)},
		{"blood_oxygen_pct", metricCol(models.MetricSpO2, 1)},
		{"respiratory_rate_rpm", metricCol(models.MetricRespiratoryRate, 1)},

		// Clinical risk scores
		{"cardiovascular_risk_score", func(r *models.DailyRecord) string { return string(r.Risk.Cardiovascular) }},
		{"neurological_risk_score", func(r *models.DailyRecord) string { return string(r.Risk.Neurological) }},
		{"metabolic_risk_score", func(r *models.DailyRecord) string { return string(r.Risk.Metabolic) }},
		{"skeletal_risk_score", func(r *models.DailyRecord) string { return string(r.Risk.Skeletal) }},

		// Derived clinical indicators
		{"autonomic_balance_score", func(r *models.DailyRecord) string { return r.AutonomicBalance }},

		// 30-day trends
		{"weight_trend_30d", trendCol(models.MetricWeight)},
		{"glucose_trend_30d", trendCol(models.MetricGlucose)},
		{"hrv_trend_30d", trendCol(models.MetricHRV)},
		{"sleep_trend_30d", trendCol(models.MetricAsleepMin)},
		{"recovery_trend_30d", trendCol(models.MetricRecoveryScore)},
	}

	// Per-source data completeness, in fixed source order.
	for _, source := range models.AllSources {
		s := source
		cols = append(cols, Column{
			Name: string(s) + "_data_pct",
			Value: func(r *models.DailyRecord) string {
				return fmtFloat(r.SourcePct[s], 1)
			},
		})
	}

	// Free-text clinical notes, passed through verbatim.
	cols = append(cols,
		Column{"physician_notes", func(r *models.DailyRecord) string { return r.Annotation.PhysicianNotes }},
		Column{"patient_reported_symptoms", func(r *models.DailyRecord) string { return r.Annotation.PatientReportedSymptoms }},
		Column{"medication_changes", func(r *models.DailyRecord) string { return r.Annotation.MedicationChanges }},
		Column{"life_events", func(r *models.DailyRecord) string { return r.Annotation.LifeEvents }},
	)

	return cols
}

func metricCol(metric models.CanonicalMetric, decimals int) func(r *models.DailyRecord) string {
	return func(r *models.DailyRecord) string {
		v, ok := r.Metric(metric)
		if !ok {
			return ""
		}
		return fmtFloat(v, decimals)
	}
}

func ptrCol(get func(r *models.DailyRecord) *float64, decimals int) func(r *models.DailyRecord) string {
	return func(r *models.DailyRecord) string {
		p := get(r)
		if p == nil {
			return ""
		}
		return fmtFloat(*p, decimals)
	}
}

func trendCol(metric models.CanonicalMetric) func(r *models.DailyRecord) string {
	return func(r *models.DailyRecord) string {
		label, ok := r.Trends[metric]
		if !ok {
			return string(models.TrendInsufficient)
		}
		return string(label)
	}
}

// derivedSleepHours converts the summed asleep minutes for display.
func derivedSleepHours(r *models.DailyRecord) string {
	v, ok := r.Metric(models.MetricAsleepMin)
	if !ok {
		return ""
	}
	return fmtFloat(v/60, 2)
}

func fmtFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
