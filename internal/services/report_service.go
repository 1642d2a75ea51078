package services

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/chesscoach/internal/errors"
	"github.com/vytor/chesscoach/internal/logger"
	"github.com/vytor/chesscoach/internal/models"
	"github.com/vytor/chesscoach/internal/patterns"
	"github.com/vytor/chesscoach/internal/repository"
)

// ReportService handles batch pattern analysis business logic
type ReportService interface {
	AnalyzeBatch(ctx context.Context, req models.AnalyzeRequest) (*models.PatternSummary, error)
	CreateReport(ctx context.Context, req models.AnalyzeRequest) (*models.Report, error)
	RunReport(ctx context.Context, reportID string) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	analyzer   patterns.Analyzer
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo repository.ReportRepository, batchMaxConcurrent int) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		analyzer:   patterns.Analyzer{MaxConcurrent: batchMaxConcurrent},
	}
}

// validate applies the input-shape rules before any analysis is attempted.
func validate(req models.AnalyzeRequest) error {
	if len(req.Games) < patterns.MinBatchSize {
		return errors.NewUnprocessableError(patterns.ErrBatchTooSmall.Error())
	}
	for _, game := range req.Games {
		if len(game.Moves) == 0 {
			return errors.NewValidationError("games", "game has no moves")
		}
	}
	return nil
}

// subjectColors resolves the subject's color per game. Games where the
// username matches neither player stay unfiltered.
func subjectColors(ctx context.Context, req models.AnalyzeRequest) []models.Color {
	log := logger.FromContext(ctx)
	colors := make([]models.Color, len(req.Games))
	unmatched := 0
	for i, game := range req.Games {
		colors[i] = game.SubjectColor(req.Username)
		if req.Username != "" && colors[i] == "" {
			unmatched++
		}
	}
	if unmatched > 0 {
		log.Debug("username %q matched neither player in %d of %d games, analyzing those unfiltered",
			req.Username, unmatched, len(req.Games))
	}
	return colors
}

func (s *reportService) AnalyzeBatch(ctx context.Context, req models.AnalyzeRequest) (*models.PatternSummary, error) {
	log := logger.FromContext(ctx)
	log.Info("analyzing batch: %d games, username=%q", len(req.Games), req.Username)

	if err := validate(req); err != nil {
		return nil, err
	}

	summary, err := s.analyzer.AnalyzeBatch(ctx, req.Games, subjectColors(ctx, req))
	if err != nil {
		log.Error("batch analysis failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("batch analyzed: accuracy=%.1f, %d recommendations", summary.OverallAccuracy, len(summary.Recommendations))
	return summary, nil
}

func (s *reportService) CreateReport(ctx context.Context, req models.AnalyzeRequest) (*models.Report, error) {
	log := logger.FromContext(ctx)

	if err := validate(req); err != nil {
		return nil, err
	}

	requestJSON, err := json.Marshal(req)
	if err != nil {
		log.Error("failed to encode request: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report := models.Report{
		ID:          uuid.NewString(),
		Status:      models.ReportStatusPending,
		Username:    req.Username,
		TotalGames:  len(req.Games),
		RequestJSON: string(requestJSON),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.reportRepo.Insert(ctx, report); err != nil {
		log.Error("failed to insert report: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("report created: id=%s, total_games=%d", report.ID, report.TotalGames)
	return &report, nil
}

func (s *reportService) RunReport(ctx context.Context, reportID string) error {
	log := logger.FromContext(ctx).WithField("report_id", reportID)
	log.Info("running report")

	report, err := s.reportRepo.Get(ctx, reportID)
	if err != nil {
		log.Error("failed to load report: %v", err)
		return err
	}
	if report.Status == models.ReportStatusCompleted {
		log.Debug("report already completed, skipping")
		return nil
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, models.ReportStatusProcessing); err != nil {
		log.Error("failed to mark report processing: %v", err)
		return err
	}

	var req models.AnalyzeRequest
	if err := json.Unmarshal([]byte(report.RequestJSON), &req); err != nil {
		log.Error("stored request is unreadable: %v", err)
		_ = s.reportRepo.Fail(ctx, reportID, "stored request is unreadable")
		return err
	}

	summary, err := s.analyzer.AnalyzeBatch(ctx, req.Games, subjectColors(ctx, req))
	if err != nil {
		log.Error("analysis failed: %v", err)
		if failErr := s.reportRepo.Fail(ctx, reportID, err.Error()); failErr != nil {
			log.Error("failed to mark report failed: %v", failErr)
		}
		return err
	}

	if err := s.reportRepo.Complete(ctx, reportID, summary); err != nil {
		log.Error("failed to store summary: %v", err)
		return err
	}

	log.Info("report completed: accuracy=%.1f", summary.OverallAccuracy)
	return nil
}

func (s *reportService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting report: id=%s", id)

	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("report", id)
		}
		log.Error("failed to get report: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing reports: status=%s, limit=%d, offset=%d", filter.Status, filter.Limit, filter.Offset)

	reports, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.reportRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count reports: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return reports, total, nil
}
