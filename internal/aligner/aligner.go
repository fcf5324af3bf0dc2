// Package aligner partitions normalized observations into UTC calendar-day
// buckets and collapses each (day, metric) bucket to one value using the
// metric's registry aggregation rule. Alignment is metric-local: sources
// sample at incompatible rates, so each metric decides its own collapse.
package aligner

import (
	"sort"
	"time"

	"harmona-engine/internal/models"
	"harmona-engine/internal/registry"

	"go.uber.org/zap"
)

// Aligner builds one patient's daily timeline skeleton.
type Aligner struct {
	logger *zap.Logger
}

// New creates a time aligner.
func New(logger *zap.Logger) *Aligner {
	return &Aligner{logger: logger}
}

// ObservedCounts indexes per-day, per-source, per-metric observation
// counts, keyed by date string. The Quality Scorer compares them against
// the registry's expected counts.
type ObservedCounts map[string]map[models.SourceID]map[models.CanonicalMetric]int

// BuildTimeline buckets observations into per-day records spanning the
// patient's full observed date range, including days with no data at all.
// A bucket with zero observations leaves that metric absent, never zero or
// interpolated.
func (a *Aligner) BuildTimeline(patientID string, observations []models.NormalizedObservation) (*models.PatientTimeline, ObservedCounts) {
	timeline := &models.PatientTimeline{PatientID: patientID}
	if len(observations) == 0 {
		return timeline, ObservedCounts{}
	}

	// Stable ordering makes every collapse rule (notably "last" with equal
	// timestamps) invariant to the insertion order of source rows.
	sorted := make([]models.NormalizedObservation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		if sorted[i].Source != sorted[j].Source {
			return sorted[i].Source < sorted[j].Source
		}
		return sorted[i].Value < sorted[j].Value
	})

	type bucketKey struct {
		day    string
		metric models.CanonicalMetric
	}
	buckets := make(map[bucketKey][]models.NormalizedObservation)
	counts := make(ObservedCounts)

	first := dayOf(sorted[0].Timestamp)
	last := first
	for _, obs := range sorted {
		day := dayOf(obs.Timestamp)
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
		key := bucketKey{day.Format(models.DateLayout), obs.Metric}
		buckets[key] = append(buckets[key], obs)

		dk := key.day
		if counts[dk] == nil {
			counts[dk] = make(map[models.SourceID]map[models.CanonicalMetric]int)
		}
		if counts[dk][obs.Source] == nil {
			counts[dk][obs.Source] = make(map[models.CanonicalMetric]int)
		}
		counts[dk][obs.Source][obs.Metric]++
	}

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		record := &models.DailyRecord{
			PatientID: patientID,
			Date:      day,
			Metrics:   make(map[models.CanonicalMetric]float64),
			SourcePct: make(map[models.SourceID]float64, len(models.AllSources)),
			Trends:    make(map[models.CanonicalMetric]models.TrendLabel),
		}
		dk := day.Format(models.DateLayout)
		for _, spec := range registry.AllMetrics() {
			bucket := buckets[bucketKey{dk, spec.Metric}]
			if len(bucket) == 0 {
				continue
			}
			record.Metrics[spec.Metric] = collapse(spec.Aggregation, bucket)
		}
		timeline.Records = append(timeline.Records, record)
	}

	a.logger.Debug("Built timeline skeleton",
		zap.String("patient_id", patientID),
		zap.Int("days", len(timeline.Records)),
		zap.Int("observations", len(observations)),
	)

	return timeline, counts
}

func dayOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

func collapse(rule registry.AggregationRule, bucket []models.NormalizedObservation) float64 {
	switch rule {
	case registry.AggLast:
		return bucket[len(bucket)-1].Value
	case registry.AggSum:
		sum := 0.0
		for _, obs := range bucket {
			sum += obs.Value
		}
		return sum
	case registry.AggMax:
		max := bucket[0].Value
		for _, obs := range bucket[1:] {
			if obs.Value > max {
				max = obs.Value
			}
		}
		return max
	case registry.AggWeightedMean:
		var sum, weights float64
		for _, obs := range bucket {
			w := obs.Weight
			if w <= 0 {
				w = 1
			}
			sum += obs.Value * w
			weights += w
		}
		return sum / weights
	default: // mean
		sum := 0.0
		for _, obs := range bucket {
			sum += obs.Value
		}
		return sum / float64(len(bucket))
	}
}
