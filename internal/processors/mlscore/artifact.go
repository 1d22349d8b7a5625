// internal/processors/mlscore/artifact.go
package mlscore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"credit-engine/internal/models"
)

// Model scores an encoded feature vector. Implementations must be safe
// for concurrent use; the loaded artifact is read-only for the process
// lifetime.
type Model interface {
	Predict(vector []float64) (float64, error)
	Confidence() float64
	FeatureImportances() []models.FeatureWeight
}

// Artifact is the serialized regression model exported by the training
// pipeline. Columns carries the feature schema the weights were trained
// against, in order.
type Artifact struct {
	ModelType   string    `json:"model_type"`
	Columns     []string  `json:"columns"`
	Intercept   float64   `json:"intercept"`
	Weights     []float64 `json:"weights"`
	Importances []float64 `json:"importances,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
}

// LoadArtifact reads a model artifact from disk and returns the model
// plus its feature schema.
func LoadArtifact(path string) (Model, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("parse artifact: %w", err)
	}

	if len(artifact.Columns) == 0 {
		return nil, nil, fmt.Errorf("artifact has no feature columns")
	}
	if len(artifact.Weights) != len(artifact.Columns) {
		return nil, nil, fmt.Errorf("artifact weight count %d does not match column count %d",
			len(artifact.Weights), len(artifact.Columns))
	}

	model := &linearModel{artifact: artifact}
	return model, artifact.Columns, nil
}

// linearModel is a linear regressor over the encoded feature vector.
type linearModel struct {
	artifact Artifact
}

func (m *linearModel) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.artifact.Weights) {
		return 0, fmt.Errorf("vector length %d does not match model width %d",
			len(vector), len(m.artifact.Weights))
	}

	score := m.artifact.Intercept
	for i, w := range m.artifact.Weights {
		score += w * vector[i]
	}
	return score, nil
}

func (m *linearModel) Confidence() float64 {
	if m.artifact.Confidence > 0 {
		return m.artifact.Confidence
	}
	return 0.8
}

// FeatureImportances returns the top features by importance, highest
// first. Returns nil when the artifact carries no importances.
func (m *linearModel) FeatureImportances() []models.FeatureWeight {
	if len(m.artifact.Importances) == 0 {
		return nil
	}

	weights := make([]models.FeatureWeight, 0, len(m.artifact.Columns))
	for i, col := range m.artifact.Columns {
		if i >= len(m.artifact.Importances) {
			break
		}
		weights = append(weights, models.FeatureWeight{
			Feature:    col,
			Importance: m.artifact.Importances[i],
		})
	}

	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].Importance > weights[j].Importance
	})

	if len(weights) > 10 {
		weights = weights[:10]
	}
	return weights
}
