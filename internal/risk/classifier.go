// Package risk applies deterministic threshold rules per clinical domain to
// produce categorical triage flags. Every rule is a pure function of the
// current DailyRecord and its trailing window; a classifier whose required
// metrics are all absent emits "Insufficient data", never a silent default.
package risk

import (
	"harmona-engine/internal/models"
	"harmona-engine/internal/trend"

	"go.uber.org/zap"
)

// Classifier evaluates the four clinical-domain rules for every day of a
// timeline.
type Classifier struct {
	thresholds Thresholds
	logger     *zap.Logger
}

// NewClassifier creates a risk classifier with the given thresholds.
func NewClassifier(thresholds Thresholds, logger *zap.Logger) *Classifier {
	return &Classifier{thresholds: thresholds, logger: logger}
}

// Classify sets the four risk flags on every record. Trend labels must
// already be computed: the metabolic rule reads the 30-day weight trend.
func (c *Classifier) Classify(timeline *models.PatientTimeline) {
	for i, record := range timeline.Records {
		record.Risk = models.RiskFlags{
			Cardiovascular: c.cardiovascular(timeline, i),
			Metabolic:      c.metabolic(timeline, i),
			Neurological:   c.neurological(record),
			Skeletal:       c.skeletal(record),
		}
	}
}

// cardiovascular flags on low HRV, elevated resting HR, or a declining
// 7-day HRV trend co-occurring with poor recovery.
func (c *Classifier) cardiovascular(timeline *models.PatientTimeline, i int) models.RiskStatus {
	record := timeline.Records[i]
	if !record.HasAnyMetric(models.MetricHRV, models.MetricRestingHR) {
		return models.RiskInsufficient
	}

	if hrv, ok := record.Metric(models.MetricHRV); ok && hrv < c.thresholds.HRVLowMs {
		return models.RiskAbnormality
	}
	if rhr, ok := record.Metric(models.MetricRestingHR); ok && rhr > c.thresholds.RestingHRHighBpm {
		return models.RiskAbnormality
	}

	if recovery, ok := record.Metric(models.MetricRecoveryScore); ok && recovery < c.thresholds.RecoveryPoorPct {
		slope, ok := trend.SlopePerDay(timeline, i, c.thresholds.HRVSlopeWindow, models.MetricHRV, c.thresholds.HRVSlopeMinPoints)
		if ok && slope <= c.thresholds.HRVSlopeDecline {
			return models.RiskAbnormality
		}
	}

	return models.RiskNoAbnormality
}

// metabolic flags on low time-in-range, high GMI, chronically high glucose
// variability alongside a rising weight trend, or an acute day-over-day
// glucose rise with falling time-in-range.
func (c *Classifier) metabolic(timeline *models.PatientTimeline, i int) models.RiskStatus {
	record := timeline.Records[i]
	if !record.HasAnyMetric(models.MetricTimeInRange, models.MetricGMI, models.MetricGlucose) {
		return models.RiskInsufficient
	}

	if tir, ok := record.Metric(models.MetricTimeInRange); ok && tir < c.thresholds.TIRLowPct {
		return models.RiskAbnormality
	}
	if gmi, ok := record.Metric(models.MetricGMI); ok && gmi > c.thresholds.GMIHighPct {
		return models.RiskAbnormality
	}

	// Weight trends with higher-is-better=false, so a "declining" label
	// means weight is rising.
	if cv, ok := record.Metric(models.MetricGlucoseCV); ok && cv > c.thresholds.GlucoseCVHighPct {
		if record.Trends[models.MetricWeight] == models.TrendDeclining {
			return models.RiskAbnormality
		}
	}

	if prev := timeline.At(i - 1); prev != nil {
		glucose, okCur := record.Metric(models.MetricGlucose)
		prevGlucose, okPrev := prev.Metric(models.MetricGlucose)
		tir, okTIR := record.Metric(models.MetricTimeInRange)
		prevTIR, okPrevTIR := prev.Metric(models.MetricTimeInRange)
		if okCur && okPrev && okTIR && okPrevTIR && prevGlucose > 0 {
			risePct := (glucose - prevGlucose) / prevGlucose * 100
			if risePct > c.thresholds.GlucoseRisePct && tir < prevTIR {
				return models.RiskAbnormality
			}
		}
	}

	return models.RiskNoAbnormality
}

// neurological flags on low cognitive readiness, low focus, or elevated
// EDA stress.
func (c *Classifier) neurological(record *models.DailyRecord) models.RiskStatus {
	if !record.HasAnyMetric(models.MetricCognitiveReadiness, models.MetricFocus, models.MetricStressLevel) {
		return models.RiskInsufficient
	}

	if cog, ok := record.Metric(models.MetricCognitiveReadiness); ok && cog < c.thresholds.CognitiveLowScore {
		return models.RiskAbnormality
	}
	if focus, ok := record.Metric(models.MetricFocus); ok && focus < c.thresholds.FocusLowScore {
		return models.RiskAbnormality
	}
	if stress, ok := record.Metric(models.MetricStressLevel); ok && stress > c.thresholds.StressHighLevel {
		return models.RiskAbnormality
	}

	return models.RiskNoAbnormality
}

// skeletal flags on low muscle or bone mass from the body-composition scan.
func (c *Classifier) skeletal(record *models.DailyRecord) models.RiskStatus {
	if !record.HasAnyMetric(models.MetricMuscleMass, models.MetricBoneMass) {
		return models.RiskInsufficient
	}

	if muscle, ok := record.Metric(models.MetricMuscleMass); ok && muscle < c.thresholds.MuscleMassLowKg {
		return models.RiskAbnormality
	}
	if bone, ok := record.Metric(models.MetricBoneMass); ok && bone < c.thresholds.BoneMassLowKg {
		return models.RiskAbnormality
	}

	return models.RiskNoAbnormality
}
