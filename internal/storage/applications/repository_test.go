// internal/storage/applications/repository_test.go
package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupMiniRedis(t *testing.T) *redis.Client {
	server := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: server.Addr()})
}

func newRepository(t *testing.T, db *sql.DB, redisClient *redis.Client) *Repository {
	return NewRepository(db, redisClient, 30*time.Second, logger.NewTestLogger(t))
}

func createTestApplication() *models.Application {
	return &models.Application{
		Timestamp: "2026-08-30T10:00:00Z",
		ApplicantData: models.ApplicantRecord{
			"full_name": "Jane Wanjiku",
			"Income":    95000.0,
		},
		MLScore:             712,
		CreditAssessment:    "**Credit Confidence Score**",
		StatementAnalysis:   json.RawMessage(`{"processor_used":"bedrock"}`),
		FinalRecommendation: "**Credit Confidence Score**",
		Status:              models.StatusCompleted,
	}
}

// ==========================
// Insert Tests
// ==========================

func TestRepository_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := newRepository(t, db, nil)
	id, err := repo.Insert(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_DBErrorWrapped(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnError(sql.ErrConnDone)

	repo := newRepository(t, db, nil)
	_, err := repo.Insert(context.Background(), createTestApplication())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_INSERT_FAILED")
}

func TestRepository_Insert_InvalidatesStatsCache(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	redisClient := setupMiniRedis(t)
	require.NoError(t, redisClient.Set(context.Background(), statsCacheKey, `{"total_applications":1}`, 0).Err())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := newRepository(t, db, redisClient)
	_, err := repo.Insert(context.Background(), createTestApplication())
	require.NoError(t, err)

	exists, err := redisClient.Exists(context.Background(), statsCacheKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

// ==========================
// GetByID Tests
// ==========================

func TestRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "timestamp", "applicant_data", "ml_score", "credit_assessment",
		"statement_analysis", "document_analysis", "final_recommendation", "status",
	}).AddRow(
		3, "2026-08-30T10:00:00Z", `{"full_name":"Jane Wanjiku"}`, 712.0,
		"assessment text", `{"processor_used":"gemini"}`, nil, "assessment text", "completed",
	)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, timestamp, applicant_data")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	repo := newRepository(t, db, nil)
	app, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), app.ID)
	assert.Equal(t, "Jane Wanjiku", app.ApplicantData.String("full_name", ""))
	assert.Equal(t, 712.0, app.MLScore)
	assert.JSONEq(t, `{"processor_used":"gemini"}`, string(app.StatementAnalysis))
	assert.Nil(t, app.DocumentAnalysis)
	assert.Equal(t, "completed", app.Status)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, timestamp, applicant_data")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	repo := newRepository(t, db, nil)
	_, err := repo.GetByID(context.Background(), 99)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "APPLICATION_NOT_FOUND")
}

// ==========================
// Dashboard Stats Tests
// ==========================

func expectStatsQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM applications")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM applications GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("completed", 4).
			AddRow("pending", 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, timestamp, final_recommendation, status")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp", "final_recommendation", "status"}).
			AddRow(5, "2026-08-30T10:00:00Z", "APPROVE", "completed").
			AddRow(4, "2026-08-29T16:20:00Z", "DECLINE", "completed"))
}

func TestRepository_DashboardStats(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectStatsQueries(mock)

	repo := newRepository(t, db, nil)
	stats, err := repo.DashboardStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalApplications)
	assert.Equal(t, map[string]int{"completed": 4, "pending": 1}, stats.StatusCounts)
	require.Len(t, stats.RecentApplications, 2)
	assert.Equal(t, int64(5), stats.RecentApplications[0].ID)
	assert.Equal(t, "APPROVE", stats.RecentApplications[0].Recommendation)
}

func TestRepository_DashboardStats_ServedFromCache(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	redisClient := setupMiniRedis(t)
	repo := newRepository(t, db, redisClient)

	expectStatsQueries(mock)

	// First call populates the cache.
	first, err := repo.DashboardStats(context.Background())
	require.NoError(t, err)

	// Second call must not touch the database.
	second, err := repo.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}
