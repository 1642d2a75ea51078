package worker

import "context"

// AnalyzeReportJob runs a stored pending report through the pattern engine.
type AnalyzeReportJob struct {
	ReportService ReportRunnerInterface
	ReportID      string
}

func (j *AnalyzeReportJob) Name() string { return "analyze_report" }

func (j *AnalyzeReportJob) Run(ctx context.Context) error {
	return j.ReportService.RunReport(ctx, j.ReportID)
}
