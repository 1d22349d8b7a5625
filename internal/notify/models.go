// internal/notify/models.go
package notify

type Input struct {
	ApplicationID  int64  `json:"applicationId"`
	RecipientName  string `json:"recipientName"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
	RecipientPhone string `json:"recipientPhone,omitempty"`
	Recommendation string `json:"recommendation"`
	Score          float64 `json:"score"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
