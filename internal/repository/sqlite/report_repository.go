package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/chesscoach/internal/logger"
	"github.com/vytor/chesscoach/internal/models"
	"github.com/vytor/chesscoach/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository implementation
func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Insert(ctx context.Context, report models.Report) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("inserting report: id=%s, total_games=%d", report.ID, report.TotalGames)

	query, args, err := sqlBuilder.Insert("reports").
		Columns("id", "status", "username", "total_games", "request_json", "created_at").
		Values(report.ID, report.Status, report.Username, report.TotalGames, report.RequestJSON, report.CreatedAt).
		ToSql()
	if err != nil {
		log.Error("failed to build insert query: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert report: %v", err)
		return err
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("getting report: id=%s", id)

	var rep models.Report
	var summaryJSON sql.NullString
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, status, username, total_games, request_json, summary_json, error, created_at, completed_at
FROM reports
WHERE id = ?
`, id).Scan(&rep.ID, &rep.Status, &rep.Username, &rep.TotalGames, &rep.RequestJSON, &summaryJSON, &rep.Error, &rep.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("report not found: id=%s", id)
		} else {
			log.Error("failed to get report: %v", err)
		}
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		rep.CompletedAt = &t
	}
	if summaryJSON.Valid && summaryJSON.String != "" {
		var summary models.PatternSummary
		if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err != nil {
			log.Error("failed to decode stored summary for report %s: %v", id, err)
			return nil, err
		}
		rep.Summary = &summary
	}
	log.Debug("report found: status=%s", rep.Status)
	return &rep, nil
}

func (r *reportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("listing reports: status=%s, limit=%d, offset=%d", filter.Status, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"id", "status", "username", "total_games", "error", "created_at", "completed_at",
	).From("reports")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	query = query.OrderBy("created_at DESC", "id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var rep models.Report
		var completedAt sql.NullTime
		if err := rows.Scan(&rep.ID, &rep.Status, &rep.Username, &rep.TotalGames, &rep.Error, &rep.CreatedAt, &completedAt); err != nil {
			log.Error("failed to scan report row: %v", err)
			return nil, err
		}
		if completedAt.Valid {
			t := completedAt.Time
			rep.CompletedAt = &t
		}
		reports = append(reports, rep)
	}
	log.Debug("found %d reports", len(reports))
	return reports, rows.Err()
}

func (r *reportRepository) Count(ctx context.Context, filter models.ReportFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")

	query := sqlBuilder.Select("COUNT(*)").From("reports")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count reports: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("updating report status: id=%s, status=%s", id, status)

	res, err := r.db.ExecContext(ctx, `UPDATE reports SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		log.Error("failed to update report status: %v", err)
		return err
	}
	return requireRow(res)
}

func (r *reportRepository) Complete(ctx context.Context, id string, summary *models.PatternSummary) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("completing report: id=%s", id)

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		log.Error("failed to encode summary: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE reports SET status = ?, summary_json = ?, completed_at = ? WHERE id = ?
`, models.ReportStatusCompleted, string(summaryJSON), time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to complete report: %v", err)
		return err
	}
	return requireRow(res)
}

func (r *reportRepository) Fail(ctx context.Context, id string, reason string) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("failing report: id=%s, reason=%s", id, reason)

	res, err := r.db.ExecContext(ctx, `
UPDATE reports SET status = ?, error = ?, completed_at = ? WHERE id = ?
`, models.ReportStatusFailed, reason, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to mark report failed: %v", err)
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
