// internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/common/observability"
	"credit-engine/internal/models"
	"credit-engine/internal/notify"
	"credit-engine/internal/processors/documents"
	"credit-engine/internal/processors/fivecs"
	"credit-engine/internal/processors/mlscore"
	"credit-engine/internal/processors/statements"
	"credit-engine/internal/storage/applications"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the credit assessment pipeline behind the HTTP API. All
// handlers share the same dependency-injected processor instances,
// which are constructed once at startup and read-only afterwards.
type Server struct {
	config     *config.Config
	logger     logger.Logger
	obs        *observability.Observability
	scorer     *mlscore.Handler
	assessor   *fivecs.Handler
	statements *statements.Handler
	documents  *documents.Handler
	repo       Repository
	notifier   Notifier
	mux        *http.ServeMux
	httpServer *http.Server
}

// Repository is the persistence contract the handlers depend on.
type Repository interface {
	Insert(ctx context.Context, app *models.Application) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	RecordAuditEvent(ctx context.Context, applicationID int64, event, detail string)
}

// Notifier delivers a decision notification. May be nil when
// notifications are disabled.
type Notifier interface {
	Send(ctx context.Context, input *notify.Input) *notify.Output
}

var _ Repository = (*applications.Repository)(nil)
var _ Notifier = (*notify.Notifier)(nil)

func New(
	cfg *config.Config,
	log logger.Logger,
	obs *observability.Observability,
	scorer *mlscore.Handler,
	assessor *fivecs.Handler,
	statementHandler *statements.Handler,
	documentHandler *documents.Handler,
	repo Repository,
	notifier Notifier,
) *Server {
	s := &Server{
		config:     cfg,
		logger:     log.With(map[string]interface{}{"component": "http-server"}),
		obs:        obs,
		scorer:     scorer,
		assessor:   assessor,
		statements: statementHandler,
		documents:  documentHandler,
		repo:       repo,
		notifier:   notifier,
		mux:        http.NewServeMux(),
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.instrument("/", s.handleRoot))
	s.mux.HandleFunc("GET /health", s.instrument("/health", s.handleHealth))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/dashboard/stats", s.instrument("/api/dashboard/stats", s.handleDashboardStats))
	s.mux.HandleFunc("POST /api/credit-assessment", s.instrument("/api/credit-assessment", s.handleCreditAssessment))
	s.mux.HandleFunc("GET /api/applications/{id}", s.instrument("/api/applications/{id}", s.handleGetApplication))
}

// instrument assigns each request a correlation id and records its
// duration.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		next(w, r)

		duration := time.Since(start)
		metrics.RequestDuration.WithLabelValues(path, r.Method).Observe(duration.Seconds())
		s.logger.Debug("request handled", map[string]interface{}{
			"requestId":  requestID,
			"path":       path,
			"method":     r.Method,
			"durationMs": duration.Milliseconds(),
		})
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  config.GetDuration(s.config.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(s.config.Server.WriteTimeout),
	}

	s.logger.Info("http server listening", map[string]interface{}{"addr": addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
