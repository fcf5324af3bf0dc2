// Package quality computes per-day completeness scores from expected versus
// observed sample counts. It fails soft: a source entirely absent for a day
// contributes 0%, never an error.
package quality

import (
	"harmona-engine/internal/aligner"
	"harmona-engine/internal/models"
	"harmona-engine/internal/registry"

	"go.uber.org/zap"
)

// Scorer assigns source_pct and quality_score to every DailyRecord.
type Scorer struct {
	weights map[models.SourceID]float64
	logger  *zap.Logger
}

// NewScorer creates a quality scorer. weights reflect each source's
// clinical relevance; nil or empty means equal weight. Sources missing from
// a partial weight map weigh 0.
func NewScorer(weights map[models.SourceID]float64, logger *zap.Logger) *Scorer {
	if len(weights) == 0 {
		weights = make(map[models.SourceID]float64, len(models.AllSources))
		for _, s := range models.AllSources {
			weights[s] = 1
		}
	}
	return &Scorer{weights: weights, logger: logger}
}

// Score fills in per-source completeness and the overall quality score for
// every record in the timeline. quality_score is always within [0, 100]:
// 0 for a day with no contributing sources, 100 for fully complete input.
func (s *Scorer) Score(timeline *models.PatientTimeline, counts aligner.ObservedCounts) {
	for _, record := range timeline.Records {
		dayCounts := counts[record.DateKey()]

		var weightedSum, weightTotal float64
		for _, source := range models.AllSources {
			pct := sourcePct(source, dayCounts[source])
			record.SourcePct[source] = pct

			w := s.weights[source]
			weightedSum += pct * w
			weightTotal += w
		}

		if weightTotal > 0 {
			record.QualityScore = clamp(weightedSum/weightTotal, 0, 100)
		} else {
			record.QualityScore = 0
		}
	}
}

// sourcePct is the mean over the source's registry metrics of
// min(observed/expected, 1), as a percentage.
func sourcePct(source models.SourceID, observed map[models.CanonicalMetric]int) float64 {
	metrics := registry.MetricsFor(source)
	if len(metrics) == 0 {
		return 0
	}

	var sum float64
	for _, metric := range metrics {
		expected := registry.ExpectedDailyCount(source, metric)
		if expected <= 0 {
			continue
		}
		ratio := float64(observed[metric]) / float64(expected)
		if ratio > 1 {
			ratio = 1
		}
		sum += ratio
	}
	return clamp(sum/float64(len(metrics))*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
