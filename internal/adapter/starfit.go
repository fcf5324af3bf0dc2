package adapter

import (
	"strings"

	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// NewStarfitAdapter handles Starfit smart-scale exports. The scale embeds
// the unit in the cell ("165.4lb", "23.1%", "72bpm"), so values are trimmed
// to their leading numeric run before parsing; the registry conversion then
// moves them into canonical units.
func NewStarfitAdapter(logger *zap.Logger) Adapter {
	return newRegistryAdapter(models.SourceStarfit, logger, stripUnitSuffix, nil)
}

func stripUnitSuffix(_ string, raw string) string {
	raw = strings.TrimSpace(raw)
	end := 0
	for i, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || ((r == '-' || r == '+') && i == 0) {
			end = i + len(string(r))
			continue
		}
		break
	}
	return raw[:end]
}
