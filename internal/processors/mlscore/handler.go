// internal/processors/mlscore/handler.go
package mlscore

import (
	"context"
	"fmt"
	"math"
	"time"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/models"
)

const ProcessorName = "ml-score"

// Handler predicts a credit score from an applicant record. The model
// and schema are loaded once at construction and read-only afterwards.
type Handler struct {
	config *Config
	model  Model
	schema []string
	logger logger.Logger
}

// NewHandler loads the model artifact from the configured path. A
// missing or unreadable artifact leaves the handler in degraded mode
// serving the documented default score; it is never a startup failure.
func NewHandler(config *Config, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		schema: FeatureSchema,
		logger: log.With(map[string]interface{}{
			"processor": ProcessorName,
		}),
	}

	if config.ArtifactPath == "" {
		h.logger.Warn("no model artifact path configured, serving default scores", nil)
		return h
	}

	model, schema, err := LoadArtifact(config.ArtifactPath)
	if err != nil {
		h.logger.Warn("model artifact not loaded, serving default scores", map[string]interface{}{
			"path":  config.ArtifactPath,
			"error": err.Error(),
		})
		return h
	}

	h.model = model
	h.schema = schema
	h.logger.Info("model artifact loaded", map[string]interface{}{
		"path":    config.ArtifactPath,
		"columns": len(schema),
	})
	return h
}

// ModelLoaded reports whether a trained model is backing predictions.
func (h *Handler) ModelLoaded() bool {
	return h.model != nil
}

// FeatureImportances returns the top model features, or nil in degraded
// mode.
func (h *Handler) FeatureImportances() []models.FeatureWeight {
	if h.model == nil {
		return nil
	}
	return h.model.FeatureImportances()
}

// Execute predicts a credit score for the applicant. It always returns
// a usable prediction: configuration absence and inference failures
// degrade to documented defaults instead of erroring.
func (h *Handler) Execute(ctx context.Context, applicant models.ApplicantRecord) *models.ScorePrediction {
	start := time.Now()
	defer func() {
		metrics.ProcessorDuration.WithLabelValues(ProcessorName).Observe(time.Since(start).Seconds())
	}()

	if h.model == nil {
		return &models.ScorePrediction{
			PredictedScore: 650,
			Confidence:     0.5,
			RiskCategory:   models.RiskMedium,
			Explanation:    "ML model not available - using default score",
			ModelUsed:      models.ModelUsedDefault,
			Status:         models.PredictionDegraded,
			StatusReason:   "model artifact not loaded",
		}
	}

	vector := Encode(applicant, h.schema, CategoricalLevels)

	score, err := h.model.Predict(vector)
	if err != nil {
		h.logger.Error("prediction failed, using conservative default", map[string]interface{}{
			"error": err.Error(),
		})
		return &models.ScorePrediction{
			PredictedScore: 600,
			Confidence:     0.3,
			RiskCategory:   models.RiskMedium,
			Explanation:    fmt.Sprintf("ML prediction failed: %s. Using conservative default score.", err.Error()),
			ModelUsed:      models.ModelUsedFallback,
			Status:         models.PredictionUnavailable,
			StatusReason:   err.Error(),
		}
	}

	prediction := &models.ScorePrediction{
		PredictedScore: math.Round(score),
		Confidence:     math.Round(h.model.Confidence()*100) / 100,
		RiskCategory:   riskCategory(score),
		Explanation:    Explain(applicant, score),
		ModelUsed:      models.ModelUsedTrained,
		Status:         models.PredictionOK,
	}

	h.logger.Info("score predicted", map[string]interface{}{
		"score":        prediction.PredictedScore,
		"riskCategory": prediction.RiskCategory,
	})
	return prediction
}

// riskCategory buckets a raw score.
func riskCategory(score float64) string {
	switch {
	case score >= 700:
		return models.RiskLow
	case score >= 600:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
