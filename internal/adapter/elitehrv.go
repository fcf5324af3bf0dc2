package adapter

import (
	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// NewEliteHRVAdapter handles EliteHRV session exports: discrete readiness
// sessions with RMSSD, heart rate and frequency-domain columns. RMSSD is
// the canonical HRV here; EliteHRV's own 1-10 "HRV" score is ignored by the
// registry.
func NewEliteHRVAdapter(logger *zap.Logger) Adapter {
	return newRegistryAdapter(models.SourceEliteHRV, logger, nil, nil)
}
