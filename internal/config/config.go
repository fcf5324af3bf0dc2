package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"harmona-engine/internal/models"
	"harmona-engine/internal/risk"
	"harmona-engine/pkg/database"
)

// Config holds the harmonization engine configuration.
type Config struct {
	Database database.Config

	Engine struct {
		// Root directory holding per-patient source exports.
		DataDir string
		// Directory the CSV/XLSX exports are written to.
		OutputDir string
		// Number of patients processed concurrently.
		PatientWorkers int
		// Trend window length in days and the fraction of a window that
		// must carry data before a trend label is emitted.
		TrendWindowDays  int
		TrendMinFraction float64
		// Optional YAML file overriding the built-in clinical rules
		// (risk thresholds, source quality weights, trend windows).
		RulesPath string
		// Whether to emit a styled XLSX workbook alongside the CSV.
		ExportExcel bool
		// Whether to persist timelines to PostgreSQL.
		SinkEnabled bool
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "harmona")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Engine.DataDir = getEnv("DATA_DIR", "./data")
	cfg.Engine.OutputDir = getEnv("OUTPUT_DIR", "./output")
	cfg.Engine.PatientWorkers = getEnvInt("PATIENT_WORKERS", 4)
	cfg.Engine.TrendWindowDays = getEnvInt("TREND_WINDOW_DAYS", 30)
	cfg.Engine.TrendMinFraction = getEnvFloat("TREND_MIN_FRACTION", 0.4)
	cfg.Engine.RulesPath = getEnv("RULES_PATH", "")
	cfg.Engine.ExportExcel = getEnv("EXPORT_EXCEL", "false") == "true"
	cfg.Engine.SinkEnabled = getEnv("SINK_ENABLED", "false") == "true"

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if cfg.Engine.PatientWorkers < 1 {
		return nil, fmt.Errorf("PATIENT_WORKERS must be >= 1, got %d", cfg.Engine.PatientWorkers)
	}
	if cfg.Engine.TrendWindowDays < 1 {
		return nil, fmt.Errorf("TREND_WINDOW_DAYS must be >= 1, got %d", cfg.Engine.TrendWindowDays)
	}
	if cfg.Engine.TrendMinFraction <= 0 || cfg.Engine.TrendMinFraction > 1 {
		return nil, fmt.Errorf("TREND_MIN_FRACTION must be in (0, 1], got %g", cfg.Engine.TrendMinFraction)
	}

	return cfg, nil
}

// Rules are the tunable clinical parameters: risk thresholds, per-source
// quality weights and trend windows. The optional YAML rules file overrides
// any subset; everything absent from the file keeps its default.
type Rules struct {
	Thresholds risk.Thresholds `yaml:",inline"`

	// Per-source weights for the quality score. Empty means equal weight;
	// a source missing from a partial map weighs 0.
	SourceWeights map[models.SourceID]float64 `yaml:"source_weights"`

	TrendWindowDays  int     `yaml:"trend_window_days"`
	TrendMinFraction float64 `yaml:"trend_min_fraction"`
}

// LoadRules returns the clinical rules, applying overrides from the
// configured YAML rules file when one is set. Trend defaults come from the
// environment config; thresholds from risk.DefaultThresholds.
func (c *Config) LoadRules() (Rules, error) {
	rules := Rules{
		Thresholds:       risk.DefaultThresholds(),
		TrendWindowDays:  c.Engine.TrendWindowDays,
		TrendMinFraction: c.Engine.TrendMinFraction,
	}
	if c.Engine.RulesPath == "" {
		return rules, nil
	}

	data, err := os.ReadFile(c.Engine.RulesPath)
	if err != nil {
		return rules, fmt.Errorf("read rules file %s: %w", c.Engine.RulesPath, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules file %s: %w", c.Engine.RulesPath, err)
	}

	for source, w := range rules.SourceWeights {
		if w < 0 {
			return rules, fmt.Errorf("rules file %s: negative weight %g for source %s", c.Engine.RulesPath, w, source)
		}
	}
	if rules.TrendWindowDays < 1 {
		return rules, fmt.Errorf("rules file %s: trend_window_days must be >= 1, got %d", c.Engine.RulesPath, rules.TrendWindowDays)
	}
	if rules.TrendMinFraction <= 0 || rules.TrendMinFraction > 1 {
		return rules, fmt.Errorf("rules file %s: trend_min_fraction must be in (0, 1], got %g", c.Engine.RulesPath, rules.TrendMinFraction)
	}
	return rules, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
