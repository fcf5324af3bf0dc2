// Package trend computes rolling-window trend direction per metric across a
// patient's chronological timeline. Each day's label depends only on prior
// data, so the whole computation is a single deterministic left-to-right
// pass; missing days are excluded from averages, never treated as zero.
package trend

import (
	"harmona-engine/internal/models"
	"harmona-engine/internal/registry"

	"go.uber.org/zap"
)

// Calculator labels trend-eligible metrics on every DailyRecord.
type Calculator struct {
	window      int
	minFraction float64
	logger      *zap.Logger
}

// New creates a trend calculator. window is the moving-average length in
// days (30 in production); minFraction is the smallest share of window days
// that must carry data before a trend is asserted (0.4 in production).
func New(window int, minFraction float64, logger *zap.Logger) *Calculator {
	if window <= 0 {
		window = 30
	}
	if minFraction <= 0 || minFraction > 1 {
		minFraction = 0.4
	}
	return &Calculator{window: window, minFraction: minFraction, logger: logger}
}

// Compute walks the timeline in ascending date order and fills in
// record.Trends. The current window's average is compared against the prior
// non-overlapping window's average; moves smaller than the metric's
// MinDelta are "stable" so noise cannot flip labels day to day.
func (c *Calculator) Compute(timeline *models.PatientTimeline) {
	specs := registry.TrendSpecs()
	minDays := int(float64(c.window)*c.minFraction + 0.5)
	if minDays < 1 {
		minDays = 1
	}

	for i := range timeline.Records {
		record := timeline.Records[i]
		for _, spec := range specs {
			record.Trends[spec.Metric] = c.label(timeline, i, spec, minDays)
		}
	}
}

func (c *Calculator) label(timeline *models.PatientTimeline, endIdx int, spec registry.TrendSpec, minDays int) models.TrendLabel {
	curAvg, curDays := windowAverage(timeline, endIdx-c.window+1, endIdx, spec.Metric)
	priorAvg, priorDays := windowAverage(timeline, endIdx-2*c.window+1, endIdx-c.window, spec.Metric)

	if curDays < minDays || priorDays < minDays {
		return models.TrendInsufficient
	}

	delta := curAvg - priorAvg
	if delta >= -spec.MinDelta && delta <= spec.MinDelta {
		return models.TrendStable
	}

	rising := delta > 0
	if rising == spec.HigherIsBetter {
		return models.TrendImproving
	}
	return models.TrendDeclining
}

// windowAverage averages the metric over timeline indices [from, to],
// counting only days where the metric was observed.
func windowAverage(timeline *models.PatientTimeline, from, to int, metric models.CanonicalMetric) (avg float64, days int) {
	var sum float64
	for i := from; i <= to; i++ {
		record := timeline.At(i)
		if record == nil {
			continue
		}
		if v, ok := record.Metric(metric); ok {
			sum += v
			days++
		}
	}
	if days == 0 {
		return 0, 0
	}
	return sum / float64(days), days
}

// SlopePerDay fits a least-squares line through the metric's values over
// the trailing n days ending at endIdx and returns the slope in canonical
// units per day. ok is false when fewer than minPoints days carry data.
// Risk rules use this for short-window "declining trend" clauses.
func SlopePerDay(timeline *models.PatientTimeline, endIdx, n int, metric models.CanonicalMetric, minPoints int) (slope float64, ok bool) {
	var xs []float64
	var ys []float64
	for i := endIdx - n + 1; i <= endIdx; i++ {
		record := timeline.At(i)
		if record == nil {
			continue
		}
		if v, present := record.Metric(metric); present {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}
	if len(xs) < minPoints {
		return 0, false
	}

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(len(xs))
	meanY /= float64(len(ys))

	var cov, varX float64
	for i := range xs {
		cov += (xs[i] - meanX) * (ys[i] - meanY)
		varX += (xs[i] - meanX) * (xs[i] - meanX)
	}
	if varX == 0 {
		return 0, false
	}
	return cov / varX, true
}
