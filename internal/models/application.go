// internal/models/application.go
package models

import "encoding/json"

// Application statuses as persisted.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Application is one persisted credit application row. ApplicantData and
// the two analysis columns are stored as serialized JSON.
type Application struct {
	ID                  int64           `json:"id"`
	Timestamp           string          `json:"timestamp"`
	ApplicantData       ApplicantRecord `json:"applicant_data"`
	MLScore             float64         `json:"ml_score"`
	CreditAssessment    string          `json:"credit_assessment"`
	StatementAnalysis   json.RawMessage `json:"statement_analysis,omitempty"`
	DocumentAnalysis    json.RawMessage `json:"document_analysis,omitempty"`
	FinalRecommendation string          `json:"final_recommendation"`
	Status              string          `json:"status"`
}

// ApplicationSummary is the slim projection used by the dashboard's recent
// applications list.
type ApplicationSummary struct {
	ID             int64  `json:"id"`
	Timestamp      string `json:"timestamp"`
	Recommendation string `json:"recommendation"`
	Status         string `json:"status"`
}

// DashboardStats aggregates the applications table for the dashboard.
type DashboardStats struct {
	TotalApplications  int                  `json:"total_applications"`
	StatusCounts       map[string]int       `json:"status_counts"`
	RecentApplications []ApplicationSummary `json:"recent_applications"`
}
