package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/chesscoach/internal/errors"
	"github.com/vytor/chesscoach/internal/models"
	"github.com/vytor/chesscoach/internal/worker"
)

// handleAnalyzeBatch runs a batch synchronously and returns the summary.
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAnalyzeRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.ReportService.AnalyzeBatch(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, summary)
}

// handleCreateReport stores a pending report and queues it for analysis.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAnalyzeRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	report, err := s.ReportService.CreateReport(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.ReportPool.Submit(&worker.AnalyzeReportJob{
		ReportService: s.ReportService,
		ReportID:      report.ID,
	})

	writeJSON(w, r, http.StatusAccepted, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		handleError(w, r, errors.NewBadRequestError("report id required"))
		return
	}

	report, err := s.ReportService.GetReport(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	filter := models.ReportFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  s.ReportListLimit,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	reports, total, err := s.ReportService.ListReports(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"reports": reports,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}
