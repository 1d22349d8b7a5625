// internal/processors/statements/bedrock.go
package statements

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"credit-engine/internal/models"
)

// BedrockInvoker is the Bedrock runtime contract used by the provider.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// BedrockProvider analyzes statements through an Anthropic model on AWS
// Bedrock. Primary provider in the fallback chain.
type BedrockProvider struct {
	client  BedrockInvoker
	modelID string
	timeout time.Duration
}

func NewBedrockProvider(client BedrockInvoker, modelID string, timeout time.Duration) *BedrockProvider {
	return &BedrockProvider{
		client:  client,
		modelID: modelID,
		timeout: timeout,
	}
}

func (p *BedrockProvider) Name() string { return models.ProcessorBedrock }

func (p *BedrockProvider) Configured() bool {
	return p.client != nil && p.modelID != ""
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *BedrockProvider) Analyze(ctx context.Context, input *Input) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	content := make([]anthropicContent, 0, 3)
	for _, file := range []*FileUpload{input.BankStatement, input.MpesaStatement} {
		if file == nil {
			continue
		}
		content = append(content, anthropicContent{
			Type: "document",
			Source: &anthropicSource{
				Type:      "base64",
				MediaType: documentMediaType(file.ContentType),
				Data:      base64.StdEncoding.EncodeToString(file.Content),
			},
		})
	}
	content = append(content, anthropicContent{Type: "text", Text: analysisPrompt})

	body, _ := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        2000,
		Messages:         []anthropicMessage{{Role: "user", Content: content}},
	})

	respBody, err := p.client.InvokeModel(callCtx, p.modelID, body)
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke: %w", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("bedrock response decode: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return extractJSON(block.Text)
		}
	}
	return nil, fmt.Errorf("bedrock response has no text block")
}

// documentMediaType normalizes an upload content type to one the model
// accepts as a document source.
func documentMediaType(contentType string) string {
	switch contentType {
	case "application/pdf", "text/plain", "text/csv":
		return contentType
	default:
		return "application/pdf"
	}
}
