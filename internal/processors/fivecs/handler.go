// internal/processors/fivecs/handler.go
package fivecs

import (
	"context"
	"os"
	"time"

	"credit-engine/internal/common/genai"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
)

const ProcessorName = "fivecs-assessment"

// Assessor is the generative provider contract used by the handler.
type Assessor interface {
	Configured() bool
	GenerateContent(ctx context.Context, req *genai.Request) (string, error)
}

// Handler produces the 5 C's of Credit narrative. The generative
// provider is the primary path; the deterministic rule-based narrative
// covers provider absence and failures.
type Handler struct {
	config       *Config
	client       Assessor
	systemPrompt string
	logger       logger.Logger
}

func NewHandler(config *Config, client Assessor, log logger.Logger) *Handler {
	systemPrompt := defaultSystemPrompt
	if config.PromptPath != "" {
		if data, err := os.ReadFile(config.PromptPath); err == nil {
			systemPrompt = string(data)
		} else {
			log.Warn("prompt file not readable, using built-in prompt", map[string]interface{}{
				"path":  config.PromptPath,
				"error": err.Error(),
			})
		}
	}

	return &Handler{
		config:       config,
		client:       client,
		systemPrompt: systemPrompt,
		logger: log.With(map[string]interface{}{
			"processor": ProcessorName,
		}),
	}
}

// Execute returns the credit assessment narrative. It never fails:
// provider errors and missing configuration degrade to the rule-based
// fallback.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	start := time.Now()
	defer func() {
		metrics.ProcessorDuration.WithLabelValues(ProcessorName).Observe(time.Since(start).Seconds())
	}()

	if h.client == nil || !h.client.Configured() {
		h.logger.Warn("generative provider not configured, using rule-based assessment", nil)
		metrics.ProviderFallbacks.WithLabelValues(ProcessorName, SourceGemini, "not_configured").Inc()
		return &Output{
			Assessment: fallbackAssessment(input.Applicant, input.MLScore),
			Source:     SourceFallback,
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	metrics.ProviderAttempts.WithLabelValues(ProcessorName, SourceGemini).Inc()
	text, err := h.client.GenerateContent(callCtx, &genai.Request{
		SystemInstruction: h.systemPrompt,
		Parts:             []genai.Part{{Text: buildEvaluationInput(input)}},
		Temperature:       h.config.Temperature,
		MaxOutputTokens:   h.config.MaxOutputTokens,
	})
	if err != nil {
		h.logger.Error("assessment provider failed, using rule-based assessment", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.ProviderFallbacks.WithLabelValues(ProcessorName, SourceGemini, "provider_error").Inc()
		return &Output{
			Assessment: fallbackAssessment(input.Applicant, input.MLScore),
			Source:     SourceFallback,
		}
	}

	h.logger.Info("assessment generated", map[string]interface{}{
		"chars": len(text),
	})
	return &Output{
		Assessment: text,
		Source:     SourceGemini,
	}
}
