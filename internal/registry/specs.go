package registry

import "harmona-engine/internal/models"

// AggregationRule tells the Time Aligner how to collapse one day's
// observations of a metric into a single value.
type AggregationRule string

const (
	AggMean         AggregationRule = "mean"          // continuous physiological signals
	AggLast         AggregationRule = "last"          // end-of-day snapshots (scale scans)
	AggSum          AggregationRule = "sum"           // activity and duration counts
	AggMax          AggregationRule = "max"           // daily extremes
	AggWeightedMean AggregationRule = "weighted_mean" // metrics with a natural denominator
)

// MetricSpec describes one canonical metric: its unit, how a day's samples
// collapse, and the physically valid range after unit conversion. A value
// outside [ValidMin, ValidMax] is an invariant violation, not a data-quality
// defect.
type MetricSpec struct {
	Metric      models.CanonicalMetric
	Unit        string
	Aggregation AggregationRule
	ValidMin    float64
	ValidMax    float64
}

// metricSpecs is the registry's spec table, in canonical export order.
// Read-only at runtime; no component may mutate it.
var metricSpecs = []MetricSpec{
	{models.MetricRestingHR, "bpm", AggMean, 20, 250},
	{models.MetricMaxHR, "bpm", AggMax, 40, 250},
	{models.MetricHRV, "ms", AggMean, 0, 300},
	{models.MetricLFHFRatio, "ratio", AggMean, 0, 100},
	{models.MetricCardiacIndex, "L/min/m2", AggLast, 0.5, 10},
	{models.MetricGlucose, "mg/dL", AggMean, 10, 1000},
	{models.MetricTimeInRange, "%", AggWeightedMean, 0, 100},
	{models.MetricGMI, "%", AggMean, 3, 20},
	{models.MetricGlucoseCV, "%", AggMean, 0, 100},
	{models.MetricWeight, "kg", AggLast, 20, 400},
	{models.MetricBMI, "kg/m2", AggLast, 8, 100},
	{models.MetricBodyFatPct, "%", AggLast, 1, 75},
	{models.MetricMuscleMass, "kg", AggLast, 10, 120},
	{models.MetricVisceralFat, "level", AggLast, 1, 60},
	{models.MetricBoneMass, "kg", AggLast, 0.5, 10},
	{models.MetricBodyWaterPct, "%", AggLast, 20, 80},
	{models.MetricAsleepMin, "min", AggSum, 0, 1440},
	{models.MetricDeepSleepMin, "min", AggSum, 0, 1440},
	{models.MetricREMSleepMin, "min", AggSum, 0, 1440},
	{models.MetricSleepEfficiencyPct, "%", AggMean, 0, 100},
	{models.MetricSleepConsistencyPct, "%", AggMean, 0, 100},
	{models.MetricSleepDebtHours, "h", AggMean, 0, 24},
	{models.MetricRecoveryScore, "%", AggMean, 0, 100},
	{models.MetricCognitiveReadiness, "score", AggMean, 0, 100},
	{models.MetricMentalAgility, "score", AggMean, 0, 100},
	{models.MetricFocus, "score", AggMean, 0, 100},
	{models.MetricStressLevel, "level", AggMean, 0, 10},
	{models.MetricCircadianCompliancePct, "%", AggMean, 0, 100},
	{models.MetricStrain, "score", AggMean, 0, 21},
	{models.MetricEnergyKcal, "kcal", AggSum, 0, 20000},
	{models.MetricSteps, "count", AggSum, 0, 200000},
	{models.MetricExerciseDurationMin, "min", AggSum, 0, 1440},
	{models.MetricSkinTempC, "°C", AggMean, 20, 45},
	{models.MetricSpO2, "%", AggMean, 50, 100},
	{models.MetricRespiratoryRate, "rpm", AggMean, 4, 60},
}

// exportOnlyMetrics carry a spec and an export column but are mapped from no
// current source schema; their column stays empty until a source reports them.
var exportOnlyMetrics = map[models.CanonicalMetric]bool{
	models.MetricExerciseDurationMin: true,
}

// TrendSpec configures trend computation for one trend-eligible metric.
// MinDelta is the smallest window-average change treated as a real move;
// HigherIsBetter maps the direction sign onto improving/declining.
type TrendSpec struct {
	Metric         models.CanonicalMetric
	MinDelta       float64
	HigherIsBetter bool
}

// trendSpecs lists the trended metrics in export column order
// (weight, glucose, hrv, sleep, recovery).
var trendSpecs = []TrendSpec{
	{models.MetricWeight, 0.5, false},
	{models.MetricGlucose, 5, false},
	{models.MetricHRV, 2, true},
	{models.MetricAsleepMin, 20, true},
	{models.MetricRecoveryScore, 5, true},
}
