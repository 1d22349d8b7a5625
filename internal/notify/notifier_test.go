// internal/notify/notifier_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"credit-engine/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
)

type mockSES struct {
	err   error
	calls int
}

func (m *mockSES) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	err   error
	calls int
}

func (m *mockSNS) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "decisions@example.com",
		Timeout:      5 * time.Second,
	}
}

func createTestInput() *Input {
	return &Input{
		ApplicationID:  12,
		RecipientName:  "Jane Wanjiku",
		RecipientEmail: "jane@example.com",
		RecipientPhone: "+254700000000",
		Recommendation: "APPROVE",
		Score:          712,
	}
}

func TestNotifier_Send_BothChannels(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	notifier := NewNotifier(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	output := notifier.Send(context.Background(), createTestInput())

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, 1, sesMock.calls)
	assert.Equal(t, 1, snsMock.calls)
	assert.NotEmpty(t, output.NotificationID)
}

func TestNotifier_Send_EmailFailure(t *testing.T) {
	sesMock := &mockSES{err: errors.New("ses unavailable")}
	notifier := NewNotifier(createTestConfig(), sesMock, &mockSNS{}, logger.NewTestLogger(t))

	output := notifier.Send(context.Background(), createTestInput())

	assert.Equal(t, StatusFailed, output.Status)
}

func TestNotifier_Send_ChannelsDisabled(t *testing.T) {
	config := createTestConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false

	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	notifier := NewNotifier(config, sesMock, snsMock, logger.NewTestLogger(t))

	output := notifier.Send(context.Background(), createTestInput())

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)
}

func TestNotifier_Send_NoContactDetails(t *testing.T) {
	input := createTestInput()
	input.RecipientEmail = ""
	input.RecipientPhone = ""

	notifier := NewNotifier(createTestConfig(), &mockSES{}, &mockSNS{}, logger.NewTestLogger(t))
	output := notifier.Send(context.Background(), input)

	assert.Equal(t, StatusDisabled, output.Status)
}
