package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"harmona-engine/internal/models"

	"go.uber.org/zap"
)

// PatientInput is everything loaded from disk for one patient: raw rows per
// source, CSV-level skip counts, and verbatim annotations.
type PatientInput struct {
	PatientID   string
	Rows        map[models.SourceID][]Row
	Skipped     map[models.SourceID]int
	Annotations map[string]models.Annotation
}

// DefaultPatientID is used for the original single-patient data layout
// (data/whoop/..., data/dexcom/...) with no per-patient directories.
const DefaultPatientID = "patient_001"

// DiscoverPatients lists patient IDs under dataDir. A directory containing
// source directories directly (the original layout) is a single patient.
func DiscoverPatients(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}

	if hasSourceDirs(entries) {
		return []string{DefaultPatientID}, nil
	}

	var patients []string
	for _, e := range entries {
		if e.IsDir() {
			patients = append(patients, e.Name())
		}
	}
	sort.Strings(patients)
	if len(patients) == 0 {
		return nil, fmt.Errorf("no patient directories under %s", dataDir)
	}
	return patients, nil
}

func hasSourceDirs(entries []os.DirEntry) bool {
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names[e.Name()] = true
		}
	}
	for _, s := range models.AllSources {
		if names[string(s)] {
			return true
		}
	}
	return false
}

// LoadPatient reads all of one patient's source files. A source directory
// that does not exist is not an error: the source is simply absent and the
// Quality Scorer reports it at 0%.
func LoadPatient(dataDir, patientID string, logger *zap.Logger) (*PatientInput, error) {
	root := filepath.Join(dataDir, patientID)
	if patientID == DefaultPatientID {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			root = dataDir
		}
	}

	input := &PatientInput{
		PatientID: patientID,
		Rows:      make(map[models.SourceID][]Row, len(models.AllSources)),
		Skipped:   make(map[models.SourceID]int, len(models.AllSources)),
	}

	for _, source := range models.AllSources {
		dir := filepath.Join(root, string(source))
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		rows, skipped, err := ReadSourceDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load source %s for patient %s: %w", source, patientID, err)
		}
		input.Rows[source] = rows
		input.Skipped[source] = skipped
		logger.Debug("Loaded source rows",
			zap.String("patient_id", patientID),
			zap.String("source", string(source)),
			zap.Int("rows", len(rows)),
			zap.Int("skipped", skipped),
		)
	}

	annotations, err := ReadAnnotations(filepath.Join(root, "annotations.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to load annotations for patient %s: %w", patientID, err)
	}
	input.Annotations = annotations

	return input, nil
}
