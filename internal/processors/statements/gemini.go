// internal/processors/statements/gemini.go
package statements

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"credit-engine/internal/common/genai"
	"credit-engine/internal/models"
)

// GeminiGenerator is the Gemini contract used by the provider.
type GeminiGenerator interface {
	Configured() bool
	GenerateContent(ctx context.Context, req *genai.Request) (string, error)
}

// GeminiProvider analyzes statements through the Gemini generateContent
// API. Secondary provider in the fallback chain.
type GeminiProvider struct {
	client  GeminiGenerator
	timeout time.Duration
}

func NewGeminiProvider(client GeminiGenerator, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		client:  client,
		timeout: timeout,
	}
}

func (p *GeminiProvider) Name() string { return models.ProcessorGemini }

func (p *GeminiProvider) Configured() bool {
	return p.client != nil && p.client.Configured()
}

func (p *GeminiProvider) Analyze(ctx context.Context, input *Input) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	parts := make([]genai.Part, 0, 3)
	for _, file := range []*FileUpload{input.BankStatement, input.MpesaStatement} {
		if file == nil {
			continue
		}
		parts = append(parts, genai.Part{
			InlineData: &genai.InlineData{
				MimeType: documentMediaType(file.ContentType),
				Data:     base64.StdEncoding.EncodeToString(file.Content),
			},
		})
	}
	parts = append(parts, genai.Part{Text: analysisPrompt})

	text, err := p.client.GenerateContent(callCtx, &genai.Request{
		Parts:           parts,
		Temperature:     0.1,
		MaxOutputTokens: 2000,
	})
	if err != nil {
		return nil, err
	}

	return extractJSON(text)
}
