package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"harmona-engine/internal/models"
)

// CSVWriter renders one patient timeline to a flat CSV in the unified schema.
type CSVWriter struct {
	columns []Column
	logger  *zap.Logger
}

func NewCSVWriter(logger *zap.Logger) *CSVWriter {
	return &CSVWriter{
		columns: Columns(),
		logger:  logger,
	}
}

// Write emits <outputDir>/<patientID>_daily.csv. Every calendar day in the
// timeline gets a row, including days with no observations at all.
func (w *CSVWriter) Write(outputDir string, timeline *models.PatientTimeline) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outputDir, timeline.PatientID+"_daily.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	header := make([]string, len(w.columns))
	for i, col := range w.columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(w.columns))
	for _, record := range timeline.Records {
		for i, col := range w.columns {
			row[i] = col.Value(record)
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write row %s: %w", record.DateKey(), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	w.logger.Info("CSV export written",
		zap.String("patient_id", timeline.PatientID),
		zap.String("path", path),
		zap.Int("rows", len(timeline.Records)))
	return path, nil
}
