package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"harmona-engine/internal/models"
)

// DailyRecordRepository persists harmonized daily records to PostgreSQL.
type DailyRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDailyRecordRepository creates a new daily record repository
func NewDailyRecordRepository(db *sql.DB, logger *zap.Logger) *DailyRecordRepository {
	return &DailyRecordRepository{
		db:     db,
		logger: logger,
	}
}

// SaveTimeline upserts every record of one patient timeline under the given
// run ID. Re-running the same input overwrites the previous rows for the same
// (patient_id, record_date) pair.
func (r *DailyRecordRepository) SaveTimeline(runID string, timeline *models.PatientTimeline) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO daily_records (
			run_id,
			patient_id,
			record_date,
			metrics,
			source_pct,
			quality_score,
			cardiovascular_risk,
			neurological_risk,
			metabolic_risk,
			skeletal_risk,
			trends,
			annotations
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (patient_id, record_date) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			metrics = EXCLUDED.metrics,
			source_pct = EXCLUDED.source_pct,
			quality_score = EXCLUDED.quality_score,
			cardiovascular_risk = EXCLUDED.cardiovascular_risk,
			neurological_risk = EXCLUDED.neurological_risk,
			metabolic_risk = EXCLUDED.metabolic_risk,
			skeletal_risk = EXCLUDED.skeletal_risk,
			trends = EXCLUDED.trends,
			annotations = EXCLUDED.annotations,
			updated_at = NOW()
	`

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range timeline.Records {
		metricsJSON, err := json.Marshal(record.Metrics)
		if err != nil {
			return fmt.Errorf("failed to marshal metrics for %s: %w", record.DateKey(), err)
		}
		sourcePctJSON, err := json.Marshal(record.SourcePct)
		if err != nil {
			return fmt.Errorf("failed to marshal source pct for %s: %w", record.DateKey(), err)
		}
		trendsJSON, err := json.Marshal(record.Trends)
		if err != nil {
			return fmt.Errorf("failed to marshal trends for %s: %w", record.DateKey(), err)
		}
		annotationsJSON, err := json.Marshal(record.Annotation)
		if err != nil {
			return fmt.Errorf("failed to marshal annotations for %s: %w", record.DateKey(), err)
		}

		if _, err := stmt.Exec(
			runID,
			record.PatientID,
			record.Date,
			metricsJSON,
			sourcePctJSON,
			record.QualityScore,
			string(record.Risk.Cardiovascular),
			string(record.Risk.Neurological),
			string(record.Risk.Metabolic),
			string(record.Risk.Skeletal),
			trendsJSON,
			annotationsJSON,
		); err != nil {
			return fmt.Errorf("failed to upsert record %s/%s: %w", record.PatientID, record.DateKey(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("timeline persisted",
		zap.String("run_id", runID),
		zap.String("patient_id", timeline.PatientID),
		zap.Int("records", len(timeline.Records)))
	return nil
}

// CountRecords returns the number of stored rows for one patient.
func (r *DailyRecordRepository) CountRecords(patientID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM daily_records WHERE patient_id = $1`,
		patientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
