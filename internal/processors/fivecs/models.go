// internal/processors/fivecs/models.go
package fivecs

import "credit-engine/internal/models"

type Input struct {
	Applicant         models.ApplicantRecord
	MLScore           *float64
	StatementAnalysis *models.StatementAnalysis
	DocumentAnalysis  *models.DocumentAnalysis
}

type Output struct {
	Assessment string `json:"assessment"`
	Source     string `json:"source"`
}

// Assessment sources.
const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"
)
