package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"harmona-engine/internal/models"
)

// makeTimeline builds consecutive daily records carrying one metric series.
// A negative value marks the day as having no observation.
func makeTimeline(metric models.CanonicalMetric, values []float64) *models.PatientTimeline {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	timeline := &models.PatientTimeline{PatientID: "patient_001"}
	for i, v := range values {
		record := &models.DailyRecord{
			PatientID: "patient_001",
			Date:      start.AddDate(0, 0, i),
			Metrics:   make(map[models.CanonicalMetric]float64),
			SourcePct: make(map[models.SourceID]float64),
			Trends:    make(map[models.CanonicalMetric]models.TrendLabel),
		}
		if v >= 0 {
			record.Metrics[metric] = v
		}
		timeline.Records = append(timeline.Records, record)
	}
	return timeline
}

func TestCompute_ShortHistory_Insufficient(t *testing.T) {
	c := New(30, 0.4, zap.NewNop())
	timeline := makeTimeline(models.MetricHRV, []float64{60, 61, 59, 62, 60})

	c.Compute(timeline)

	for i, record := range timeline.Records {
		assert.Equal(t, models.TrendInsufficient, record.Trends[models.MetricHRV], "day %d", i)
	}
}

func TestCompute_StableWithinMinDelta(t *testing.T) {
	// window=3, minFraction=0.5 -> 2 observed days needed per window.
	c := New(3, 0.5, zap.NewNop())
	// HRV MinDelta is 2 ms; averages move by less than that.
	timeline := makeTimeline(models.MetricHRV, []float64{60, 60.5, 61, 60.5, 61, 61.5})

	c.Compute(timeline)

	last := timeline.Records[len(timeline.Records)-1]
	assert.Equal(t, models.TrendStable, last.Trends[models.MetricHRV])
}

func TestCompute_HigherIsBetter_Improving(t *testing.T) {
	c := New(3, 0.5, zap.NewNop())
	timeline := makeTimeline(models.MetricHRV, []float64{50, 50, 50, 60, 60, 60})

	c.Compute(timeline)

	last := timeline.Records[len(timeline.Records)-1]
	assert.Equal(t, models.TrendImproving, last.Trends[models.MetricHRV])
}

func TestCompute_WeightRising_IsDeclining(t *testing.T) {
	c := New(3, 0.5, zap.NewNop())
	// Weight trends with higher-is-better=false: a rise is "declining".
	timeline := makeTimeline(models.MetricWeight, []float64{74, 74, 74, 76, 76, 76})

	c.Compute(timeline)

	last := timeline.Records[len(timeline.Records)-1]
	assert.Equal(t, models.TrendDeclining, last.Trends[models.MetricWeight])
}

func TestCompute_SparseWindow_Insufficient(t *testing.T) {
	c := New(3, 0.5, zap.NewNop())
	// Only one observed day in the prior window (days 0-2).
	timeline := makeTimeline(models.MetricHRV, []float64{60, -1, -1, 58, 57, 59})

	c.Compute(timeline)

	last := timeline.Records[len(timeline.Records)-1]
	assert.Equal(t, models.TrendInsufficient, last.Trends[models.MetricHRV])
}

func TestCompute_MissingDaysExcludedFromAverage(t *testing.T) {
	c := New(3, 0.5, zap.NewNop())
	// Current window {70, absent, 70}: average must be 70, not 46.7.
	timeline := makeTimeline(models.MetricHRV, []float64{60, 60, 60, 70, -1, 70})

	c.Compute(timeline)

	last := timeline.Records[len(timeline.Records)-1]
	assert.Equal(t, models.TrendImproving, last.Trends[models.MetricHRV])
}

func TestCompute_LabelsOnlyDependOnPriorDays(t *testing.T) {
	c := New(3, 0.5, zap.NewNop())
	base := makeTimeline(models.MetricHRV, []float64{50, 50, 50, 60, 60, 60})
	extended := makeTimeline(models.MetricHRV, []float64{50, 50, 50, 60, 60, 60, 10, 10})

	c.Compute(base)
	c.Compute(extended)

	for i := range base.Records {
		assert.Equal(t,
			base.Records[i].Trends[models.MetricHRV],
			extended.Records[i].Trends[models.MetricHRV],
			"day %d label changed when later data was appended", i)
	}
}

func TestSlopePerDay_LinearDecline(t *testing.T) {
	timeline := makeTimeline(models.MetricHRV, []float64{70, 68, 66, 64, 62, 60, 58})

	slope, ok := SlopePerDay(timeline, len(timeline.Records)-1, 7, models.MetricHRV, 4)

	require.True(t, ok)
	assert.InDelta(t, -2.0, slope, 1e-9)
}

func TestSlopePerDay_TooFewPoints(t *testing.T) {
	timeline := makeTimeline(models.MetricHRV, []float64{70, -1, -1, -1, 62, 60, 58})

	_, ok := SlopePerDay(timeline, len(timeline.Records)-1, 7, models.MetricHRV, 5)

	assert.False(t, ok)
}

func TestSlopePerDay_IgnoresDaysOutsideWindow(t *testing.T) {
	// A steep drop before the window must not leak into the fit.
	timeline := makeTimeline(models.MetricHRV, []float64{120, 60, 60, 60, 60, 60, 60, 60})

	slope, ok := SlopePerDay(timeline, len(timeline.Records)-1, 7, models.MetricHRV, 4)

	require.True(t, ok)
	assert.InDelta(t, 0, slope, 1e-9)
}
