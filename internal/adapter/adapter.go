// Package adapter turns raw source rows into normalized observations. One
// adapter exists per device family; all of them drive the same registry
// tables, so supporting a new device means a registry entry and a
// constructor here, with no change downstream.
package adapter

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"harmona-engine/internal/ingest"
	"harmona-engine/internal/models"
	"harmona-engine/internal/registry"

	"go.uber.org/zap"
)

// Adapter produces normalized observations from source-specific tabular
// input. Malformed rows and unknown fields are skipped and counted; the
// only fatal condition is a canonical value outside its physically valid
// range, which is an invariant violation.
type Adapter interface {
	Source() models.SourceID
	Normalize(patientID string, rows []ingest.Row) ([]models.NormalizedObservation, models.DefectCounts, error)
}

// cleanFunc strips source-specific decoration from a raw cell before
// numeric parsing (e.g. Starfit's "165.4lb").
type cleanFunc func(column, raw string) string

// weightFunc computes the weighted_mean weight for an observation from its
// full row; nil means every observation weighs 1.
type weightFunc func(metric models.CanonicalMetric, row ingest.Row) float64

// registryAdapter is the shared registry-driven implementation behind every
// device family.
type registryAdapter struct {
	source models.SourceID
	logger *zap.Logger
	clean  cleanFunc
	weight weightFunc
}

func newRegistryAdapter(source models.SourceID, logger *zap.Logger, clean cleanFunc, weight weightFunc) *registryAdapter {
	return &registryAdapter{source: source, logger: logger, clean: clean, weight: weight}
}

func (a *registryAdapter) Source() models.SourceID {
	return a.source
}

func (a *registryAdapter) Normalize(patientID string, rows []ingest.Row) ([]models.NormalizedObservation, models.DefectCounts, error) {
	var defects models.DefectCounts

	schema, ok := registry.SchemaFor(a.source)
	if !ok {
		return nil, defects, errors.New("source missing from registry: " + string(a.source))
	}

	observations := make([]models.NormalizedObservation, 0, len(rows))
	for _, row := range rows {
		ts, ok := parseTimestamp(row.Values[schema.TimeColumn], schema.TimeLayouts)
		if !ok {
			defects.MalformedRows++
			a.logger.Debug("Skipping row with unparseable timestamp",
				zap.String("source", string(a.source)),
				zap.String("file", row.File),
				zap.Int("line", row.Line),
			)
			continue
		}

		for _, column := range sortedColumns(row.Values) {
			if column == schema.TimeColumn || registry.IsIgnored(a.source, column) {
				continue
			}
			raw := row.Values[column]
			if strings.TrimSpace(raw) == "" {
				// Empty cell is absence, not a defect.
				continue
			}

			mapping, err := registry.Lookup(a.source, column)
			if err != nil {
				defects.UnknownFields++
				a.logger.Debug("Unknown source field",
					zap.String("source", string(a.source)),
					zap.String("column", column),
					zap.String("file", row.File),
				)
				continue
			}

			cleaned := raw
			if a.clean != nil {
				cleaned = a.clean(column, raw)
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
			if err != nil {
				defects.MalformedRows++
				continue
			}

			canonical := mapping.Convert.Apply(value)
			if !registry.InRange(mapping.Metric, canonical) {
				return nil, defects, &models.InvariantViolation{
					PatientID: patientID,
					Date:      ts.Format(models.DateLayout),
					Metric:    mapping.Metric,
					RawValue:  raw,
					Reason:    "canonical value outside physically valid range",
				}
			}

			weight := 1.0
			if a.weight != nil {
				weight = a.weight(mapping.Metric, row)
			}

			observations = append(observations, models.NormalizedObservation{
				PatientID: patientID,
				Metric:    mapping.Metric,
				Timestamp: ts,
				Value:     canonical,
				Weight:    weight,
				Source:    a.source,
			})
		}
	}

	return observations, defects, nil
}

func parseTimestamp(raw string, layouts []string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func sortedColumns(values map[string]string) []string {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}

// All returns one adapter per supported device family, in fixed source
// order.
func All(logger *zap.Logger) []Adapter {
	return []Adapter{
		NewWhoopAdapter(logger),
		NewStarfitAdapter(logger),
		NewEliteHRVAdapter(logger),
		NewDexcomAdapter(logger),
		NewPisonAdapter(logger),
	}
}
