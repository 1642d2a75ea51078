package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chesscoach/internal/models"
)

// MockReportRepository is a mock implementation of repository.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Insert(ctx context.Context, report models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) Count(ctx context.Context, filter models.ReportFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReportRepository) Complete(ctx context.Context, id string, summary *models.PatternSummary) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

func (m *MockReportRepository) Fail(ctx context.Context, id string, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
