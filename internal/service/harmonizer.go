package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"harmona-engine/internal/adapter"
	"harmona-engine/internal/aligner"
	"harmona-engine/internal/config"
	"harmona-engine/internal/export"
	"harmona-engine/internal/ingest"
	"harmona-engine/internal/models"
	"harmona-engine/internal/quality"
	"harmona-engine/internal/repository"
	"harmona-engine/internal/risk"
	"harmona-engine/internal/trend"
	"harmona-engine/pkg/database"
)

// HarmonizerService runs the full harmonization pipeline: ingest raw source
// exports, normalize them onto the canonical schema, align to daily records,
// score, classify, trend, and export. Patients are independent, so they are
// processed concurrently by a fixed worker pool.
type HarmonizerService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	adapters    []adapter.Adapter
	aligner     *aligner.Aligner
	scorer      *quality.Scorer
	trends      *trend.Calculator
	classifier  *risk.Classifier
	builder     *export.Builder
	csvWriter   *export.CSVWriter
	excelWriter *export.ExcelWriter
	recordRepo  *repository.DailyRecordRepository
}

// PatientResult is the outcome of one patient's pipeline run.
type PatientResult struct {
	PatientID string
	Records   int
	Defects   map[models.SourceID]models.DefectCounts
	CSVPath   string
	ExcelPath string
	Err       error
}

// NewHarmonizerService wires the pipeline from config.
func NewHarmonizerService(cfg *config.Config, logger *zap.Logger) (*HarmonizerService, error) {
	rules, err := cfg.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load clinical rules: %w", err)
	}

	svc := &HarmonizerService{
		config:     cfg,
		logger:     logger,
		adapters:   adapter.All(logger),
		aligner:    aligner.New(logger),
		scorer:     quality.NewScorer(rules.SourceWeights, logger),
		trends:     trend.New(rules.TrendWindowDays, rules.TrendMinFraction, logger),
		classifier: risk.NewClassifier(rules.Thresholds, logger),
		builder:    export.NewBuilder(logger),
		csvWriter:  export.NewCSVWriter(logger),
	}
	if cfg.Engine.ExportExcel {
		svc.excelWriter = export.NewExcelWriter(logger)
	}

	if cfg.Engine.SinkEnabled {
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		svc.db = db
		svc.recordRepo = repository.NewDailyRecordRepository(db, logger)
	}

	return svc, nil
}

// Run discovers patients under the data dir and processes each one. It
// returns one result per patient; a failed patient does not abort the others.
func (s *HarmonizerService) Run(ctx context.Context) ([]PatientResult, error) {
	runID := uuid.New().String()
	patients, err := ingest.DiscoverPatients(s.config.Engine.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover patients: %w", err)
	}

	s.logger.Info("Starting harmonization run",
		zap.String("run_id", runID),
		zap.Int("patients", len(patients)),
		zap.Int("workers", s.config.Engine.PatientWorkers),
	)

	jobs := make(chan string)
	results := make([]PatientResult, len(patients))
	index := make(map[string]int, len(patients))
	for i, p := range patients {
		index[p] = i
	}

	var wg sync.WaitGroup
	for w := 0; w < s.config.Engine.PatientWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for patientID := range jobs {
				result := s.processPatient(runID, patientID)
				results[index[patientID]] = result
			}
		}()
	}

	for _, patientID := range patients {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results, ctx.Err()
		case jobs <- patientID:
		}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.logger.Error("Patient run failed",
				zap.String("run_id", runID),
				zap.String("patient_id", r.PatientID),
				zap.Error(r.Err),
			)
		}
	}
	s.logger.Info("Harmonization run finished",
		zap.String("run_id", runID),
		zap.Int("patients", len(patients)),
		zap.Int("failed", failed),
	)
	return results, nil
}

// processPatient runs the sequential pipeline for one patient.
func (s *HarmonizerService) processPatient(runID, patientID string) PatientResult {
	result := PatientResult{PatientID: patientID}

	input, err := ingest.LoadPatient(s.config.Engine.DataDir, patientID, s.logger)
	if err != nil {
		result.Err = err
		return result
	}

	var observations []models.NormalizedObservation
	defects := make(map[models.SourceID]models.DefectCounts, len(s.adapters))
	for _, a := range s.adapters {
		rows := input.Rows[a.Source()]
		if len(rows) == 0 {
			continue
		}
		obs, counts, err := a.Normalize(patientID, rows)
		if err != nil {
			result.Err = fmt.Errorf("normalize %s: %w", a.Source(), err)
			return result
		}
		counts.MalformedRows += input.Skipped[a.Source()]
		defects[a.Source()] = counts
		observations = append(observations, obs...)
	}

	timeline, counts := s.aligner.BuildTimeline(patientID, observations)
	timeline.Defects = defects

	s.scorer.Score(timeline, counts)
	s.trends.Compute(timeline)
	s.classifier.Classify(timeline)

	if err := s.builder.Finalize(timeline, input.Annotations); err != nil {
		result.Err = fmt.Errorf("finalize timeline: %w", err)
		return result
	}

	csvPath, err := s.csvWriter.Write(s.config.Engine.OutputDir, timeline)
	if err != nil {
		result.Err = fmt.Errorf("write csv: %w", err)
		return result
	}
	result.CSVPath = csvPath

	if s.excelWriter != nil {
		excelPath, err := s.excelWriter.Write(s.config.Engine.OutputDir, timeline)
		if err != nil {
			result.Err = fmt.Errorf("write excel: %w", err)
			return result
		}
		result.ExcelPath = excelPath
	}

	if s.recordRepo != nil {
		if err := s.recordRepo.SaveTimeline(runID, timeline); err != nil {
			result.Err = fmt.Errorf("persist timeline: %w", err)
			return result
		}
	}

	result.Records = len(timeline.Records)
	result.Defects = timeline.Defects

	totalDefects := 0
	for _, counts := range timeline.Defects {
		totalDefects += counts.Total()
	}
	s.logger.Info("Patient harmonized",
		zap.String("run_id", runID),
		zap.String("patient_id", patientID),
		zap.Int("records", result.Records),
		zap.Int("defects", totalDefects),
	)
	return result
}

// Close releases the database connection if the sink was enabled.
func (s *HarmonizerService) Close() {
	if s.db != nil {
		database.Close(s.db)
	}
}
