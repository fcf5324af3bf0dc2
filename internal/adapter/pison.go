package adapter

import (
	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// NewPisonAdapter handles Pison neurophysiological exports: EMG-derived
// readiness, mental agility and focus scores plus wearable vitals. Raw EMG
// waveform columns (muscle group, amplitude, frequency) stay in the file;
// the registry maps only score-level fields.
func NewPisonAdapter(logger *zap.Logger) Adapter {
	return newRegistryAdapter(models.SourcePison, logger, nil, nil)
}
