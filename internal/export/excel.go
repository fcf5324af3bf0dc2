package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"harmona-engine/internal/models"
)

// ExcelWriter renders one patient timeline to a styled XLSX workbook with the
// same column schema as the CSV export.
type ExcelWriter struct {
	columns []Column
	logger  *zap.Logger
}

func NewExcelWriter(logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{
		columns: Columns(),
		logger:  logger,
	}
}

// Write emits <outputDir>/<patientID>_daily.xlsx.
func (w *ExcelWriter) Write(outputDir string, timeline *models.PatientTimeline) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	// Note: Don't defer Close() here, because SaveAs needs the file to be open

	sheetName := "Daily Records"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	for col, column := range w.columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return "", fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, column.Name); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// Date and patient_id columns are wider; everything else fits in 14.
	for i := range w.columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return "", fmt.Errorf("failed to convert column number: %w", err)
		}
		width := 14.0
		if i < 2 {
			width = 16
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, record := range timeline.Records {
		row := rowIdx + 2
		for colIdx, column := range w.columns {
			value := column.Value(record)
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return "", fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return "", fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, colIdx+1, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to freeze panes: %w", err)
	}

	path := filepath.Join(outputDir, timeline.PatientID+"_daily.xlsx")
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close workbook: %w", err)
	}

	w.logger.Info("Excel export written",
		zap.String("patient_id", timeline.PatientID),
		zap.String("path", path),
		zap.Int("rows", len(timeline.Records)))
	return path, nil
}
