// Package export assembles final DailyRecords and serializes the unified
// per-patient output: canonical CSV, optional XLSX, one row per calendar
// date.
package export

import (
	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// Builder finalizes a timeline before serialization: derives the indicator
// fields that are pure functions of harmonized values, merges verbatim
// annotations, and enforces the one-record-per-date invariant.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a record builder.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Finalize prepares every record for export. A duplicate or out-of-order
// date is an engine defect, not a data-quality issue: it aborts the
// patient's export rather than emit a corrupt row.
func (b *Builder) Finalize(timeline *models.PatientTimeline, annotations map[string]models.Annotation) error {
	seen := make(map[string]bool, len(timeline.Records))
	var prevKey string
	for _, record := range timeline.Records {
		key := record.DateKey()
		if seen[key] {
			return &models.InvariantViolation{
				PatientID: timeline.PatientID,
				Date:      key,
				Reason:    "duplicate DailyRecord for date",
			}
		}
		if prevKey != "" && key <= prevKey {
			return &models.InvariantViolation{
				PatientID: timeline.PatientID,
				Date:      key,
				Reason:    "DailyRecords out of ascending date order",
			}
		}
		seen[key] = true
		prevKey = key

		deriveIndicators(record)
		if ann, ok := annotations[key]; ok {
			record.Annotation = ann
		}
	}
	return nil
}

// deriveIndicators computes indicator fields from harmonized values. They
// only aggregate numeric evidence; nothing here is a clinical judgment.
func deriveIndicators(record *models.DailyRecord) {
	asleep, okAsleep := record.Metric(models.MetricAsleepMin)
	if okAsleep && asleep > 0 {
		if deep, ok := record.Metric(models.MetricDeepSleepMin); ok {
			pct := deep / asleep * 100
			record.DeepSleepPct = &pct
		}
		if rem, ok := record.Metric(models.MetricREMSleepMin); ok {
			pct := rem / asleep * 100
			record.REMSleepPct = &pct
		}
	}

	if lfhf, ok := record.Metric(models.MetricLFHFRatio); ok {
		switch {
		case lfhf < 0.5:
			record.AutonomicBalance = "parasympathetic_dominant"
		case lfhf > 2.0:
			record.AutonomicBalance = "sympathetic_dominant"
		default:
			record.AutonomicBalance = "balanced"
		}
	}
}
