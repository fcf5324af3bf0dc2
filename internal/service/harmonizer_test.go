package service

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"harmona-engine/internal/config"
	"harmona-engine/internal/models"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T, dataDir string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Engine.DataDir = dataDir
	cfg.Engine.OutputDir = t.TempDir()
	cfg.Engine.PatientWorkers = 2
	cfg.Engine.TrendWindowDays = 30
	cfg.Engine.TrendMinFraction = 0.4
	return cfg
}

func seedPatient(t *testing.T, root string) {
	writeTestFile(t, filepath.Join(root, "whoop", "cycles.csv"),
		"Cycle start time,Recovery score %,Resting heart rate (bpm),Heart rate variability (ms),Asleep duration (min)\n"+
			"2025-03-01 06:12:00,67,58,62.5,412\n"+
			"2025-03-02 06:30:00,61,60,58.1,388\n"+
			"2025-03-04 06:05:00,55,62,55.4,401\n")
	writeTestFile(t, filepath.Join(root, "starfit", "scale.csv"),
		"Date,Weight,Muscle Mass,Bone Mass\n"+
			"2025-03-01,165.4lb,130.2lb,7.1lb\n")
	writeTestFile(t, filepath.Join(root, "dexcom", "cgm.csv"),
		"timestamp,glucose_mg_dl,time_in_range_pct,sensor_usage_pct\n"+
			"2025-03-01 08:00:00,104,82,95\n"+
			"2025-03-01 08:05:00,108,82,95\n")
	writeTestFile(t, filepath.Join(root, "annotations.csv"),
		"date,physician_notes,patient_reported_symptoms,medication_changes,life_events\n"+
			"2025-03-02,routine check,,,\n")
}

func TestRun_SinglePatient_EndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	seedPatient(t, dataDir)
	cfg := testConfig(t, dataDir)

	svc, err := NewHarmonizerService(cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	results, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	result := results[0]
	require.NoError(t, result.Err)
	assert.Equal(t, "patient_001", result.PatientID)
	// March 1 through March 4, including the empty March 3.
	assert.Equal(t, 4, result.Records)

	f, err := os.Open(result.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	header := rows[0]
	byName := func(row []string, name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %s not found", name)
		return ""
	}

	// Day 1 carries whoop, scale and CGM values in canonical units.
	assert.Equal(t, "2025-03-01", byName(rows[1], "date"))
	assert.Equal(t, "75.02", byName(rows[1], "weight_kg"))
	assert.Equal(t, "106.0", byName(rows[1], "avg_glucose_mg_dl"))
	assert.Equal(t, "62.5", byName(rows[1], "avg_hrv_ms"))
	assert.Equal(t, "Insufficient data", byName(rows[1], "neurological_risk_score"))
	assert.Equal(t, "No abnormality suspected", byName(rows[1], "cardiovascular_risk_score"))

	// The annotation lands on its date only.
	assert.Equal(t, "routine check", byName(rows[2], "physician_notes"))
	assert.Equal(t, "", byName(rows[1], "physician_notes"))

	// March 3 exists as an empty row.
	assert.Equal(t, "2025-03-03", byName(rows[3], "date"))
	assert.Equal(t, "", byName(rows[3], "avg_hrv_ms"))
	assert.Equal(t, "Insufficient data", byName(rows[3], "cardiovascular_risk_score"))
}

func TestRun_RulesFileSourceWeights(t *testing.T) {
	dataDir := t.TempDir()
	seedPatient(t, dataDir)
	cfg := testConfig(t, dataDir)

	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	writeTestFile(t, rulesPath, "source_weights:\n  whoop: 1\n")
	cfg.Engine.RulesPath = rulesPath

	svc, err := NewHarmonizerService(cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	results, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	f, err := os.Open(results[0].CSVPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	header := rows[0]
	byName := func(row []string, name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %s not found", name)
		return ""
	}

	// With all weight on whoop, the quality score tracks whoop completeness
	// and ignores the scale and CGM data present on day 1.
	whoopPct := byName(rows[1], "whoop_data_pct")
	assert.Equal(t, "26.7", whoopPct)
	assert.Equal(t, whoopPct, byName(rows[1], "data_quality_score"))
}

func TestRun_MultiplePatients_Isolated(t *testing.T) {
	dataDir := t.TempDir()
	seedPatient(t, filepath.Join(dataDir, "patient_a"))
	// patient_b has a malformed timestamp row that must not affect patient_a.
	writeTestFile(t, filepath.Join(dataDir, "patient_b", "whoop", "cycles.csv"),
		"Cycle start time,Recovery score %\n"+
			"garbage,50\n"+
			"2025-03-01 06:12:00,72\n")
	cfg := testConfig(t, dataDir)

	svc, err := NewHarmonizerService(cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	results, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "patient_a", results[0].PatientID)
	assert.Equal(t, "patient_b", results[1].PatientID)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)

	assert.Equal(t, 4, results[0].Records)
	assert.Equal(t, 1, results[1].Records)
	assert.Equal(t, 1, results[1].Defects[models.SourceWhoop].MalformedRows)
}

func TestRun_OutOfRangeValue_FailsThatPatientOnly(t *testing.T) {
	dataDir := t.TempDir()
	seedPatient(t, filepath.Join(dataDir, "patient_a"))
	writeTestFile(t, filepath.Join(dataDir, "patient_b", "whoop", "cycles.csv"),
		"Cycle start time,Blood oxygen %\n"+
			"2025-03-01 06:12:00,250\n")
	cfg := testConfig(t, dataDir)

	svc, err := NewHarmonizerService(cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	results, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)

	require.Error(t, results[1].Err)
	var violation *models.InvariantViolation
	assert.ErrorAs(t, results[1].Err, &violation)
}

func TestRun_EmptyDataDir_Error(t *testing.T) {
	cfg := testConfig(t, t.TempDir())

	svc, err := NewHarmonizerService(cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Run(context.Background())

	assert.Error(t, err)
}
