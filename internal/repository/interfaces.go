package repository

import (
	"context"

	"github.com/vytor/chesscoach/internal/models"
)

// ReportRepository handles stored batch-analysis reports
type ReportRepository interface {
	Insert(ctx context.Context, report models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Count(ctx context.Context, filter models.ReportFilter) (int, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Complete(ctx context.Context, id string, summary *models.PatternSummary) error
	Fail(ctx context.Context, id string, reason string) error
}
