// Package ingest loads per-source CSV files into raw rows. All input is read
// up front; nothing downstream touches the filesystem mid-computation.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"harmona-engine/internal/models"
)

// Row is one tabular input row, keyed by the file's header columns.
type Row struct {
	File   string
	Line   int
	Values map[string]string
}

// ReadCSV reads one CSV file into header-keyed rows. Rows whose field count
// does not match the header are skipped and counted, never fatal.
func ReadCSV(path string) (rows []Row, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(record) != len(header) {
			skipped++
			continue
		}
		values := make(map[string]string, len(header))
		for i, col := range header {
			values[col] = record[i]
		}
		rows = append(rows, Row{File: filepath.Base(path), Line: line, Values: values})
	}
	return rows, skipped, nil
}

// ReadSourceDir reads every *.csv under dir in lexical order, so repeated
// runs see rows in the same order.
func ReadSourceDir(dir string) (rows []Row, skipped int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read source dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".csv" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		fileRows, fileSkipped, err := ReadCSV(filepath.Join(dir, name))
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, fileRows...)
		skipped += fileSkipped
	}
	return rows, skipped, nil
}

// ReadAnnotations loads the optional annotations.csv (free-text clinical
// notes per date). The engine passes these through verbatim; a missing file
// simply yields no annotations.
func ReadAnnotations(path string) (map[string]models.Annotation, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]models.Annotation{}, nil
	}

	rows, _, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.Annotation, len(rows))
	for _, row := range rows {
		date := row.Values["date"]
		if date == "" {
			continue
		}
		out[date] = models.Annotation{
			PhysicianNotes:          row.Values["physician_notes"],
			PatientReportedSymptoms: row.Values["patient_reported_symptoms"],
			MedicationChanges:       row.Values["medication_changes"],
			LifeEvents:              row.Values["life_events"],
		}
	}
	return out, nil
}
