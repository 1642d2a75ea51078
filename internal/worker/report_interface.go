package worker

import "context"

// ReportRunnerInterface defines the interface for running stored reports
// This avoids import cycles by not importing the services package
type ReportRunnerInterface interface {
	RunReport(ctx context.Context, reportID string) error
}
