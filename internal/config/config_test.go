package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}

	if cfg.Database.Database != "harmona" {
		t.Errorf("Expected DB_NAME default 'harmona', got '%s'", cfg.Database.Database)
	}

	if cfg.Engine.DataDir != "./data" {
		t.Errorf("Expected DATA_DIR default './data', got '%s'", cfg.Engine.DataDir)
	}

	if cfg.Engine.PatientWorkers != 4 {
		t.Errorf("Expected PATIENT_WORKERS default 4, got %d", cfg.Engine.PatientWorkers)
	}

	if cfg.Engine.TrendWindowDays != 30 {
		t.Errorf("Expected TREND_WINDOW_DAYS default 30, got %d", cfg.Engine.TrendWindowDays)
	}

	if cfg.Engine.TrendMinFraction != 0.4 {
		t.Errorf("Expected TREND_MIN_FRACTION default 0.4, got %g", cfg.Engine.TrendMinFraction)
	}

	if cfg.Engine.ExportExcel {
		t.Error("Expected EXPORT_EXCEL default false")
	}

	if cfg.Engine.SinkEnabled {
		t.Error("Expected SINK_ENABLED default false")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATA_DIR", "/srv/exports")
	os.Setenv("PATIENT_WORKERS", "8")
	os.Setenv("TREND_WINDOW_DAYS", "14")
	os.Setenv("TREND_MIN_FRACTION", "0.5")
	os.Setenv("EXPORT_EXCEL", "true")
	os.Setenv("SINK_ENABLED", "true")
	os.Setenv("DB_NAME", "harmona_test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Engine.DataDir != "/srv/exports" {
		t.Errorf("Expected DATA_DIR '/srv/exports', got '%s'", cfg.Engine.DataDir)
	}

	if cfg.Engine.PatientWorkers != 8 {
		t.Errorf("Expected PATIENT_WORKERS 8, got %d", cfg.Engine.PatientWorkers)
	}

	if cfg.Engine.TrendWindowDays != 14 {
		t.Errorf("Expected TREND_WINDOW_DAYS 14, got %d", cfg.Engine.TrendWindowDays)
	}

	if cfg.Engine.TrendMinFraction != 0.5 {
		t.Errorf("Expected TREND_MIN_FRACTION 0.5, got %g", cfg.Engine.TrendMinFraction)
	}

	if !cfg.Engine.ExportExcel {
		t.Error("Expected EXPORT_EXCEL true")
	}

	if !cfg.Engine.SinkEnabled {
		t.Error("Expected SINK_ENABLED true")
	}

	if cfg.Database.Database != "harmona_test" {
		t.Errorf("Expected DB_NAME 'harmona_test', got '%s'", cfg.Database.Database)
	}
}

func TestLoad_InvalidWorkerCount(t *testing.T) {
	os.Clearenv()
	os.Setenv("PATIENT_WORKERS", "0")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for PATIENT_WORKERS=0")
	}
}

func loadWithRules(t *testing.T, yamlBody string) (*Config, Rules, error) {
	t.Helper()
	os.Clearenv()

	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	os.Setenv("RULES_PATH", rulesPath)
	t.Cleanup(os.Clearenv)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rules, err := cfg.LoadRules()
	return cfg, rules, err
}

func TestLoadRules_DefaultsWithoutFile(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rules, err := cfg.LoadRules()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rules.Thresholds.HRVLowMs != 30 {
		t.Errorf("Expected hrv_low_ms default 30, got %g", rules.Thresholds.HRVLowMs)
	}

	if rules.SourceWeights != nil {
		t.Errorf("Expected nil source weights (equal weighting), got %v", rules.SourceWeights)
	}

	if rules.TrendWindowDays != 30 {
		t.Errorf("Expected trend window default 30, got %d", rules.TrendWindowDays)
	}

	if rules.TrendMinFraction != 0.4 {
		t.Errorf("Expected trend min fraction default 0.4, got %g", rules.TrendMinFraction)
	}
}

func TestLoadRules_ThresholdOverrides(t *testing.T) {
	_, rules, err := loadWithRules(t, "hrv_low_ms: 25\ntir_low_pct: 70\n")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rules.Thresholds.HRVLowMs != 25 {
		t.Errorf("Expected hrv_low_ms override 25, got %g", rules.Thresholds.HRVLowMs)
	}

	if rules.Thresholds.TIRLowPct != 70 {
		t.Errorf("Expected tir_low_pct override 70, got %g", rules.Thresholds.TIRLowPct)
	}

	// Untouched field keeps its default.
	if rules.Thresholds.RestingHRHighBpm != 100 {
		t.Errorf("Expected resting_hr_high_bpm default 100, got %g", rules.Thresholds.RestingHRHighBpm)
	}
}

func TestLoadRules_SourceWeights(t *testing.T) {
	_, rules, err := loadWithRules(t, "source_weights:\n  whoop: 3\n  dexcom: 1\n")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rules.SourceWeights["whoop"] != 3 {
		t.Errorf("Expected whoop weight 3, got %g", rules.SourceWeights["whoop"])
	}

	if rules.SourceWeights["dexcom"] != 1 {
		t.Errorf("Expected dexcom weight 1, got %g", rules.SourceWeights["dexcom"])
	}

	if len(rules.SourceWeights) != 2 {
		t.Errorf("Expected 2 weight entries, got %d", len(rules.SourceWeights))
	}
}

func TestLoadRules_TrendOverrides(t *testing.T) {
	_, rules, err := loadWithRules(t, "trend_window_days: 14\ntrend_min_fraction: 0.6\n")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rules.TrendWindowDays != 14 {
		t.Errorf("Expected trend window override 14, got %d", rules.TrendWindowDays)
	}

	if rules.TrendMinFraction != 0.6 {
		t.Errorf("Expected trend min fraction override 0.6, got %g", rules.TrendMinFraction)
	}
}

func TestLoadRules_NegativeWeightRejected(t *testing.T) {
	_, _, err := loadWithRules(t, "source_weights:\n  whoop: -1\n")
	if err == nil {
		t.Error("Expected error for negative source weight")
	}
}

func TestLoadRules_InvalidTrendWindowRejected(t *testing.T) {
	_, _, err := loadWithRules(t, "trend_window_days: 0\n")
	if err == nil {
		t.Error("Expected error for trend_window_days 0")
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	os.Clearenv()
	os.Setenv("RULES_PATH", "/nonexistent/rules.yaml")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := cfg.LoadRules(); err == nil {
		t.Error("Expected error for missing rules file")
	}
}
