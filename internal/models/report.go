package models

import "time"

// Report statuses, following the same lifecycle as game analysis.
const (
	ReportStatusPending    = "pending"
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// Report is a stored batch analysis: the request that produced it, its
// lifecycle status, and the summary once the analysis completes.
type Report struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Username    string          `json:"username"`
	TotalGames  int             `json:"total_games"`
	RequestJSON string          `json:"-"`
	Summary     *PatternSummary `json:"summary,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	Status string
	Limit  int
	Offset int
}
