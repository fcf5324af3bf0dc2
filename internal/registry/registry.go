// Package registry is the unit & schema registry: immutable tables mapping
// each source's raw columns and units onto canonical metrics. It is loaded
// once at process start and safely shared by concurrent patient runs; no
// component mutates it.
package registry

import (
	"errors"
	"fmt"

	"harmona-engine/internal/models"
)

// ErrUnknownField marks a raw column absent from the registry. Adapters skip
// and count it; it is a configuration gap, never a batch failure.
var ErrUnknownField = errors.New("unknown source field")

var specByMetric = func() map[models.CanonicalMetric]MetricSpec {
	m := make(map[models.CanonicalMetric]MetricSpec, len(metricSpecs))
	for _, s := range metricSpecs {
		m[s.Metric] = s
	}
	return m
}()

// Lookup resolves (source, raw column) to its canonical metric mapping.
func Lookup(source models.SourceID, column string) (FieldMapping, error) {
	schema, ok := sourceSchemas[source]
	if !ok {
		return FieldMapping{}, fmt.Errorf("source %q: %w", source, ErrUnknownField)
	}
	fm, ok := schema.Fields[column]
	if !ok {
		return FieldMapping{}, fmt.Errorf("source %q column %q: %w", source, column, ErrUnknownField)
	}
	return fm, nil
}

// IsIgnored reports whether the column is known but deliberately unmapped.
func IsIgnored(source models.SourceID, column string) bool {
	schema, ok := sourceSchemas[source]
	if !ok {
		return false
	}
	return schema.Ignored[column]
}

// SchemaFor returns the full schema entry for a source.
func SchemaFor(source models.SourceID) (SourceSchema, bool) {
	schema, ok := sourceSchemas[source]
	return schema, ok
}

// Spec returns the canonical spec for a metric.
func Spec(metric models.CanonicalMetric) (MetricSpec, bool) {
	s, ok := specByMetric[metric]
	return s, ok
}

// AllMetrics returns every canonical metric in fixed export order.
func AllMetrics() []MetricSpec {
	out := make([]MetricSpec, len(metricSpecs))
	copy(out, metricSpecs)
	return out
}

// InRange reports whether a canonical value is physically plausible for the
// metric. Out-of-range values after conversion are invariant violations.
func InRange(metric models.CanonicalMetric, value float64) bool {
	s, ok := specByMetric[metric]
	if !ok {
		return false
	}
	return value >= s.ValidMin && value <= s.ValidMax
}

// ExpectedDailyCount returns the expected per-day observation count for
// (source, metric); 0 means the source never produces the metric.
func ExpectedDailyCount(source models.SourceID, metric models.CanonicalMetric) int {
	schema, ok := sourceSchemas[source]
	if !ok {
		return 0
	}
	return schema.ExpectedDaily[metric]
}

// MetricsFor lists the metrics a source is expected to produce, in canonical
// order. The Quality Scorer averages completeness over this set.
func MetricsFor(source models.SourceID) []models.CanonicalMetric {
	schema, ok := sourceSchemas[source]
	if !ok {
		return nil
	}
	out := make([]models.CanonicalMetric, 0, len(schema.ExpectedDaily))
	for _, s := range metricSpecs {
		if schema.ExpectedDaily[s.Metric] > 0 {
			out = append(out, s.Metric)
		}
	}
	return out
}

// IsExportOnly reports whether a metric exists in the export schema without
// any source schema mapping to it.
func IsExportOnly(metric models.CanonicalMetric) bool {
	return exportOnlyMetrics[metric]
}

// TrendSpecs returns the trend-eligible metrics in export column order.
func TrendSpecs() []TrendSpec {
	out := make([]TrendSpec, len(trendSpecs))
	copy(out, trendSpecs)
	return out
}
