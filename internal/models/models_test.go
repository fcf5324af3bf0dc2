package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyRecord_MetricPresence(t *testing.T) {
	r := &DailyRecord{
		Date:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Metrics: map[CanonicalMetric]float64{MetricHRV: 62.5},
	}

	assert.Equal(t, "2025-03-01", r.DateKey())

	v, ok := r.Metric(MetricHRV)
	assert.True(t, ok)
	assert.Equal(t, 62.5, v)

	_, ok = r.Metric(MetricGlucose)
	assert.False(t, ok)

	assert.True(t, r.HasAnyMetric(MetricGlucose, MetricHRV))
	assert.False(t, r.HasAnyMetric(MetricGlucose, MetricWeight))
}

func TestPatientTimeline_At_OutOfRangeIsNil(t *testing.T) {
	timeline := &PatientTimeline{
		Records: []*DailyRecord{{}, {}},
	}

	assert.NotNil(t, timeline.At(0))
	assert.NotNil(t, timeline.At(1))
	assert.Nil(t, timeline.At(-1))
	assert.Nil(t, timeline.At(2))
}

func TestDefectCounts_Total(t *testing.T) {
	counts := DefectCounts{MalformedRows: 3, UnknownFields: 2}
	assert.Equal(t, 5, counts.Total())
}

func TestInvariantViolation_Error(t *testing.T) {
	withMetric := &InvariantViolation{
		PatientID: "patient_001",
		Date:      "2025-03-01",
		Metric:    MetricSpO2,
		RawValue:  "250",
		Reason:    "canonical value outside physically valid range",
	}
	assert.Contains(t, withMetric.Error(), "patient_001")
	assert.Contains(t, withMetric.Error(), "spo2")
	assert.Contains(t, withMetric.Error(), `"250"`)

	structural := &InvariantViolation{
		PatientID: "patient_001",
		Date:      "2025-03-01",
		Reason:    "duplicate DailyRecord for date",
	}
	assert.Contains(t, structural.Error(), "duplicate DailyRecord")
	assert.NotContains(t, structural.Error(), "metric")
}
