package adapter

import (
	"strconv"
	"strings"

	"harmona-engine/internal/ingest"
	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// NewDexcomAdapter handles Dexcom CGM exports: 5-minute glucose readings
// with derived time-in-range, GMI and variability columns. Time-in-range is
// weighted by sensor coverage so hours with a dropped sensor do not count
// the same as fully covered hours.
func NewDexcomAdapter(logger *zap.Logger) Adapter {
	return newRegistryAdapter(models.SourceDexcom, logger, nil, dexcomWeight)
}

func dexcomWeight(metric models.CanonicalMetric, row ingest.Row) float64 {
	if metric != models.MetricTimeInRange {
		return 1
	}
	raw := strings.TrimSpace(row.Values["sensor_usage_pct"])
	if raw == "" {
		return 1
	}
	usage, err := strconv.ParseFloat(raw, 64)
	if err != nil || usage <= 0 || usage > 100 {
		return 1
	}
	return usage / 100
}
