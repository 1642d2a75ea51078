package api

import (
	"database/sql"

	"github.com/vytor/chesscoach/internal/services"
	"github.com/vytor/chesscoach/internal/worker"
)

type Server struct {
	DB              *sql.DB
	ReportService   services.ReportService
	ReportPool      *worker.Pool
	ReportListLimit int
}
