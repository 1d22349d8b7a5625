// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"time"

	"credit-engine/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier sends the applicant a decision notification once an
// application is persisted. Delivery is best effort: failures are
// reported in the output, never as pipeline errors.
type Notifier struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func NewNotifier(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger: log.WithFields(map[string]interface{}{
			"component": "decision-notifier",
		}),
	}
}

// Send delivers the decision over the enabled channels.
func (n *Notifier) Send(ctx context.Context, input *Input) *Output {
	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	sentAt := time.Now().UTC().Format(time.RFC3339)
	notificationID := uuid.New().String()

	subject := fmt.Sprintf("Your loan application #%d decision", input.ApplicationID)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour loan application #%d has been processed.\nDecision: %s\nCredit score: %.0f\n\nThank you.",
		input.RecipientName, input.ApplicationID, input.Recommendation, input.Score)

	emailSent := false
	smsSent := false

	if n.config.EmailEnabled && n.sesClient != nil && input.RecipientEmail != "" {
		if err := n.sendEmail(ctx, input.RecipientEmail, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": input.RecipientEmail,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
		}
		emailSent = true
	}

	if n.config.SMSEnabled && n.snsClient != nil && input.RecipientPhone != "" {
		if err := n.sendSMS(ctx, input.RecipientPhone, body); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": input.RecipientPhone,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
