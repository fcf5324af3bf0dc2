package adapter

import (
	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// NewWhoopAdapter handles WHOOP physiological-cycle exports: one row per
// cycle carrying recovery, cardiovascular and sleep-stage columns.
func NewWhoopAdapter(logger *zap.Logger) Adapter {
	return newRegistryAdapter(models.SourceWhoop, logger, nil, nil)
}
