// internal/storage/applications/repository.go
package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	stderrors "credit-engine/internal/common/errors"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"

	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "dashboard:stats"

const insertQuery = `
	INSERT INTO applications
	(timestamp, applicant_data, ml_score, credit_assessment, statement_analysis, document_analysis, final_recommendation, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const selectByIDQuery = `
	SELECT id, timestamp, applicant_data, ml_score, credit_assessment, statement_analysis, document_analysis, final_recommendation, status
	FROM applications WHERE id = ?`

const countQuery = `SELECT COUNT(*) FROM applications`

const statusCountsQuery = `SELECT status, COUNT(*) FROM applications GROUP BY status`

const recentQuery = `
	SELECT id, timestamp, final_recommendation, status
	FROM applications
	ORDER BY timestamp DESC
	LIMIT 10`

const auditInsertQuery = `
	INSERT INTO audit_log (application_id, event, detail, created_at)
	VALUES (?, ?, ?, ?)`

// Repository persists applications to SQLite, with a short-lived Redis
// cache in front of the dashboard aggregates. The Redis client may be
// nil; caching is then skipped entirely.
type Repository struct {
	db       *sql.DB
	redis    *redis.Client
	statsTTL time.Duration
	logger   logger.Logger
}

func NewRepository(db *sql.DB, redisClient *redis.Client, statsTTL time.Duration, log logger.Logger) *Repository {
	return &Repository{
		db:       db,
		redis:    redisClient,
		statsTTL: statsTTL,
		logger: log.With(map[string]interface{}{
			"component": "applications-repository",
		}),
	}
}

// Insert stores one processed application and returns its generated id.
func (r *Repository) Insert(ctx context.Context, app *models.Application) (int64, error) {
	applicantJSON, err := json.Marshal(app.ApplicantData)
	if err != nil {
		return 0, stderrors.NewDatabaseInsertFailedError(err)
	}

	result, err := r.db.ExecContext(ctx, insertQuery,
		app.Timestamp,
		string(applicantJSON),
		app.MLScore,
		app.CreditAssessment,
		nullableJSON(app.StatementAnalysis),
		nullableJSON(app.DocumentAnalysis),
		app.FinalRecommendation,
		app.Status,
	)
	if err != nil {
		return 0, stderrors.NewDatabaseInsertFailedError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, stderrors.NewDatabaseInsertFailedError(err)
	}

	r.invalidateStats(ctx)
	return id, nil
}

// GetByID loads one application row.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx, selectByIDQuery, id)

	var app models.Application
	var applicantJSON string
	var mlScore sql.NullFloat64
	var assessment, statementJSON, documentJSON, recommendation, status sql.NullString

	err := row.Scan(&app.ID, &app.Timestamp, &applicantJSON, &mlScore,
		&assessment, &statementJSON, &documentJSON, &recommendation, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewApplicationNotFoundError(id)
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get_application", err)
	}

	if err := json.Unmarshal([]byte(applicantJSON), &app.ApplicantData); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get_application", err)
	}
	app.MLScore = mlScore.Float64
	app.CreditAssessment = assessment.String
	app.FinalRecommendation = recommendation.String
	app.Status = status.String
	if statementJSON.Valid && statementJSON.String != "" {
		app.StatementAnalysis = json.RawMessage(statementJSON.String)
	}
	if documentJSON.Valid && documentJSON.String != "" {
		app.DocumentAnalysis = json.RawMessage(documentJSON.String)
	}

	return &app, nil
}

// DashboardStats aggregates the table, serving from cache when fresh.
func (r *Repository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if cached := r.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	stats := &models.DashboardStats{
		StatusCounts:       map[string]int{},
		RecentApplications: []models.ApplicationSummary{},
	}

	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&stats.TotalApplications); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("count_applications", err)
	}

	rows, err := r.db.QueryContext(ctx, statusCountsQuery)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("status_counts", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("status_counts", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("status_counts", err)
	}

	recentRows, err := r.db.QueryContext(ctx, recentQuery)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("recent_applications", err)
	}
	defer recentRows.Close()
	for recentRows.Next() {
		var summary models.ApplicationSummary
		var recommendation, status sql.NullString
		if err := recentRows.Scan(&summary.ID, &summary.Timestamp, &recommendation, &status); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("recent_applications", err)
		}
		summary.Recommendation = recommendation.String
		summary.Status = status.String
		stats.RecentApplications = append(stats.RecentApplications, summary)
	}
	if err := recentRows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("recent_applications", err)
	}

	r.cacheStats(ctx, stats)
	return stats, nil
}

// RecordAuditEvent appends one audit row. Best effort: failures are
// logged, never surfaced.
func (r *Repository) RecordAuditEvent(ctx context.Context, applicationID int64, event, detail string) {
	_, err := r.db.ExecContext(ctx, auditInsertQuery,
		applicationID, event, detail, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		r.logger.Warn("audit event not recorded", map[string]interface{}{
			"applicationId": applicationID,
			"event":         event,
			"error":         err.Error(),
		})
	}
}

func (r *Repository) cachedStats(ctx context.Context) *models.DashboardStats {
	if r.redis == nil {
		return nil
	}
	payload, err := r.redis.Get(ctx, statsCacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("stats cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	var stats models.DashboardStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return nil
	}
	return &stats
}

func (r *Repository) cacheStats(ctx context.Context, stats *models.DashboardStats) {
	if r.redis == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, statsCacheKey, payload, r.statsTTL).Err(); err != nil {
		r.logger.Warn("stats cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (r *Repository) invalidateStats(ctx context.Context) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		r.logger.Warn("stats cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

// nullableJSON maps empty raw JSON to NULL.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
