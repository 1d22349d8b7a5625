// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	stderrors "credit-engine/internal/common/errors"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/models"
	"credit-engine/internal/notify"
	"credit-engine/internal/processors/documents"
	"credit-engine/internal/processors/fivecs"
	"credit-engine/internal/processors/statements"
)

// jsonResponse writes a JSON response with the given status code
func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes a JSON error response
func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// standardErrorResponse maps a StandardError onto its HTTP status.
func standardErrorResponse(w http.ResponseWriter, err *stderrors.StandardError) {
	jsonResponse(w, map[string]interface{}{
		"error":   err.Message,
		"code":    string(err.Code),
		"details": err.Details,
	}, stderrors.HTTPStatus(err.Code))
}

// assessmentResponse is the payload returned for a processed application.
type assessmentResponse struct {
	ApplicationID     int64                     `json:"application_id"`
	MLPrediction      *models.ScorePrediction   `json:"ml_prediction"`
	CreditAssessment  string                    `json:"credit_assessment"`
	AssessmentSource  string                    `json:"assessment_source"`
	StatementAnalysis *models.StatementAnalysis `json:"statement_analysis,omitempty"`
	DocumentAnalysis  *models.DocumentAnalysis  `json:"document_analysis,omitempty"`
	Timestamp         string                    `json:"timestamp"`
	Status            string                    `json:"status"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{
		"message": "Credit Confidence Score Engine API",
		"version": s.config.App.Version,
		"status":  "active",
	}, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":               "healthy",
		"version":              s.config.App.Version,
		"model_loaded":         s.scorer.ModelLoaded(),
		"statement_processors": s.statements.Status(),
	}
	if s.scorer.ModelLoaded() {
		payload["model_top_features"] = s.scorer.FeatureImportances()
	}
	jsonResponse(w, payload, http.StatusOK)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.DashboardStats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("dashboard stats query failed", nil)
		if se, ok := err.(*stderrors.StandardError); ok {
			standardErrorResponse(w, se)
			return
		}
		errorResponse(w, "failed to load dashboard stats", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, stats, http.StatusOK)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		errorResponse(w, "application id must be an integer", http.StatusBadRequest)
		return
	}

	app, lookupErr := s.repo.GetByID(r.Context(), id)
	if lookupErr != nil {
		if se, ok := lookupErr.(*stderrors.StandardError); ok {
			standardErrorResponse(w, se)
			return
		}
		errorResponse(w, "failed to load application", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, app, http.StatusOK)
}

// handleCreditAssessment runs the full pipeline for one submitted
// application: score prediction, optional statement and document
// analysis, the 5 C's assessment, persistence and best-effort
// notification. Degraded processor results flow through as data, so the
// request still completes when a provider is down.
func (s *Server) handleCreditAssessment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	maxUpload := s.config.Server.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 64 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		errorResponse(w, "request must be a valid multipart form", http.StatusBadRequest)
		s.recordOutcome(r.Context(), "rejected", start)
		return
	}

	applicant, validationErr := parseApplicant(r)
	if validationErr != nil {
		standardErrorResponse(w, validationErr)
		s.recordOutcome(r.Context(), "rejected", start)
		return
	}

	statementInput, documentInput, uploadErr := s.collectUploads(r)
	if uploadErr != nil {
		standardErrorResponse(w, uploadErr)
		s.recordOutcome(r.Context(), "rejected", start)
		return
	}

	ctx := r.Context()
	prediction := s.scorer.Execute(ctx, applicant)

	var statementAnalysis *models.StatementAnalysis
	if statementInput.HasFiles() {
		statementAnalysis = s.statements.Execute(ctx, statementInput)
	}

	var documentAnalysis *models.DocumentAnalysis
	if documentInput.HasFiles() {
		documentAnalysis = s.documents.Execute(ctx, documentInput)
	}

	score := prediction.PredictedScore
	assessment := s.assessor.Execute(ctx, &fivecs.Input{
		Applicant:         applicant,
		MLScore:           &score,
		StatementAnalysis: statementAnalysis,
		DocumentAnalysis:  documentAnalysis,
	})

	now := time.Now().UTC().Format(time.RFC3339)
	app := &models.Application{
		Timestamp:           now,
		ApplicantData:       applicant,
		MLScore:             prediction.PredictedScore,
		CreditAssessment:    assessment.Assessment,
		FinalRecommendation: extractRecommendation(assessment.Assessment),
		Status:              models.StatusCompleted,
	}
	if statementAnalysis != nil {
		app.StatementAnalysis, _ = json.Marshal(statementAnalysis)
	}
	if documentAnalysis != nil {
		app.DocumentAnalysis, _ = json.Marshal(documentAnalysis)
	}

	id, insertErr := s.repo.Insert(ctx, app)
	if insertErr != nil {
		s.logger.WithError(insertErr).Error("failed to persist application", nil)
		if se, ok := insertErr.(*stderrors.StandardError); ok {
			standardErrorResponse(w, se)
		} else {
			errorResponse(w, "failed to persist application", http.StatusInternalServerError)
		}
		s.recordOutcome(ctx, "failed", start)
		return
	}

	s.repo.RecordAuditEvent(ctx, id, "application_processed", assessment.Source)
	s.sendNotification(ctx, id, applicant, app.FinalRecommendation, prediction.PredictedScore)
	s.recordOutcome(ctx, models.StatusCompleted, start)

	jsonResponse(w, &assessmentResponse{
		ApplicationID:     id,
		MLPrediction:      prediction,
		CreditAssessment:  assessment.Assessment,
		AssessmentSource:  assessment.Source,
		StatementAnalysis: statementAnalysis,
		DocumentAnalysis:  documentAnalysis,
		Timestamp:         now,
		Status:            models.StatusCompleted,
	}, http.StatusOK)
}

// collectUploads reads the optional statement and supporting-document
// uploads from the form.
func (s *Server) collectUploads(r *http.Request) (*statements.Input, *documents.Input, *stderrors.StandardError) {
	statementInput := &statements.Input{}
	documentInput := &documents.Input{}

	for _, upload := range []struct {
		field     string
		statement **statements.FileUpload
		document  **documents.FileUpload
	}{
		{field: "bank_statement", statement: &statementInput.BankStatement},
		{field: "mpesa_statement", statement: &statementInput.MpesaStatement},
		{field: "collateral_document", document: &documentInput.CollateralDocument},
		{field: "cosigner_document", document: &documentInput.CosignerDocument},
	} {
		content, contentType, err := readFormFile(r, upload.field)
		if err != nil {
			return nil, nil, err
		}
		if content == nil {
			continue
		}
		if upload.statement != nil {
			*upload.statement = &statements.FileUpload{Content: content, ContentType: contentType}
		} else {
			*upload.document = &documents.FileUpload{Content: content, ContentType: contentType}
		}
	}

	return statementInput, documentInput, nil
}

// sendNotification delivers the decision to the applicant when contact
// details were provided. Failures are logged, never surfaced.
func (s *Server) sendNotification(ctx context.Context, id int64, applicant models.ApplicantRecord, recommendation string, score float64) {
	if s.notifier == nil {
		return
	}
	email := applicant.String("applicant_email", "")
	phone := applicant.String("applicant_phone", "")
	if email == "" && phone == "" {
		return
	}

	out := s.notifier.Send(ctx, &notify.Input{
		ApplicationID:  id,
		RecipientName:  applicant.String("full_name", ""),
		RecipientEmail: email,
		RecipientPhone: phone,
		Recommendation: recommendation,
		Score:          score,
	})
	if out.Status == notify.StatusFailed {
		s.logger.Warn("decision notification failed", map[string]interface{}{
			"application_id":  id,
			"notification_id": out.NotificationID,
		})
	}
}

// recordOutcome records the processing result on both metric surfaces.
func (s *Server) recordOutcome(ctx context.Context, status string, start time.Time) {
	metrics.ApplicationsProcessed.WithLabelValues(status).Inc()
	if s.obs != nil {
		s.obs.RecordAssessmentProcessed(ctx, status)
		s.obs.RecordAssessmentDuration(ctx, time.Since(start), status)
	}
}

// extractRecommendation pulls the final decision token out of an
// assessment. Longer tokens are checked first so CONDITIONAL APPROVAL is
// not shadowed by APPROVE.
func extractRecommendation(assessment string) string {
	upper := strings.ToUpper(assessment)
	for _, token := range []string{"CONDITIONAL APPROVAL", "DECLINE", "APPROVE"} {
		if strings.Contains(upper, token) {
			return token
		}
	}
	return "REVIEW REQUIRED"
}
