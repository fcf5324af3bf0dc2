package models

import "time"

// DateLayout is the canonical calendar-day format used for record keys and
// the export's date column.
const DateLayout = "2006-01-02"

// RiskFlags holds the four per-domain triage flags for one day.
type RiskFlags struct {
	Cardiovascular RiskStatus `json:"cardiovascular_risk_score"`
	Metabolic      RiskStatus `json:"metabolic_risk_score"`
	Neurological   RiskStatus `json:"neurological_risk_score"`
	Skeletal       RiskStatus `json:"skeletal_risk_score"`
}

// Annotation carries free-text clinical notes attached to a day. The engine
// passes these through verbatim; it never parses them.
type Annotation struct {
	PhysicianNotes          string `json:"physician_notes"`
	PatientReportedSymptoms string `json:"patient_reported_symptoms"`
	MedicationChanges       string `json:"medication_changes"`
	LifeEvents              string `json:"life_events"`
}

// DailyRecord is the unified per-patient-per-day output row. Exactly one
// exists per (patient, date) once emitted. A metric missing from Metrics is
// explicit absence, never zero.
type DailyRecord struct {
	PatientID string    `json:"patient_id"`
	Date      time.Time `json:"date"` // UTC midnight

	// Harmonized metric values in canonical units. Presence in the map is
	// the only signal that the metric was observed that day.
	Metrics map[CanonicalMetric]float64 `json:"metrics"`

	// Per-source completeness, 0-100.
	SourcePct map[SourceID]float64 `json:"source_pct"`

	// Overall completeness/reliability, 0-100.
	QualityScore float64 `json:"data_quality_score"`

	Risk RiskFlags `json:"risk"`

	// 30-day trend labels for trend-eligible metrics.
	Trends map[CanonicalMetric]TrendLabel `json:"trends"`

	// Derived clinical indicators (computed from harmonized values, never
	// invented): sleep stage shares and LF/HF autonomic balance.
	DeepSleepPct     *float64 `json:"deep_sleep_pct,omitempty"`
	REMSleepPct      *float64 `json:"rem_sleep_pct,omitempty"`
	AutonomicBalance string   `json:"autonomic_balance,omitempty"`

	Annotation Annotation `json:"annotation"`
}

// DateKey returns the record's calendar-day key.
func (r *DailyRecord) DateKey() string {
	return r.Date.Format(DateLayout)
}

// Metric returns the value for m and whether it was observed that day.
func (r *DailyRecord) Metric(m CanonicalMetric) (float64, bool) {
	v, ok := r.Metrics[m]
	return v, ok
}

// HasAnyMetric reports whether at least one of the given metrics was
// observed on this day.
func (r *DailyRecord) HasAnyMetric(metrics ...CanonicalMetric) bool {
	for _, m := range metrics {
		if _, ok := r.Metrics[m]; ok {
			return true
		}
	}
	return false
}

// PatientTimeline is one patient's DailyRecords ordered by date ascending,
// contiguous over the patient's observed range. Days with zero contributing
// sources are still present (quality_score 0).
type PatientTimeline struct {
	PatientID string
	Records   []*DailyRecord

	// Recoverable defects counted while normalizing this patient's input.
	// Unparseable rows cannot always be attributed to a calendar day, so
	// defects are scoped to the run, per source.
	Defects map[SourceID]DefectCounts
}

// At returns the record at index i, or nil when out of range. Risk rules
// use it to look back over trailing windows without bounds bookkeeping.
func (t *PatientTimeline) At(i int) *DailyRecord {
	if i < 0 || i >= len(t.Records) {
		return nil
	}
	return t.Records[i]
}
