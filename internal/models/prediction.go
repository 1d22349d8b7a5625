// internal/models/prediction.go
package models

// PredictionStatus tags how a score was obtained, so callers can tell a
// genuine model prediction from a degraded default without inspecting the
// explanation text.
type PredictionStatus string

const (
	PredictionOK          PredictionStatus = "ok"
	PredictionDegraded    PredictionStatus = "degraded"
	PredictionUnavailable PredictionStatus = "unavailable"
)

// Risk categories for the predicted credit score.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Model provenance values, kept compatible with the persisted records.
const (
	ModelUsedTrained  = "trained_ml_model"
	ModelUsedDefault  = "default"
	ModelUsedFallback = "fallback"
)

// ScorePrediction is the outcome of the ML scoring stage. Created fresh per
// request and never mutated.
type ScorePrediction struct {
	PredictedScore float64          `json:"predicted_score"`
	Confidence     float64          `json:"confidence"`
	RiskCategory   string           `json:"risk_category"`
	Explanation    string           `json:"explanation"`
	ModelUsed      string           `json:"model_used"`
	Status         PredictionStatus `json:"status"`
	StatusReason   string           `json:"status_reason,omitempty"`
}

// FeatureWeight pairs a feature column with its importance in the trained
// model, highest first.
type FeatureWeight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}
