package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ready", s.handleReady)
	r.Post("/api/patterns/analyze", s.handleAnalyzeBatch)
	r.Post("/api/reports", s.handleCreateReport)
	r.Get("/api/reports", s.handleListReports)
	r.Get("/api/reports/{id}", s.handleGetReport)

	return r
}
