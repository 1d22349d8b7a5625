// internal/processors/statements/handler.go
package statements

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const ProcessorName = "statement-analysis"

// resultSchema is the shape contract every provider result must satisfy
// before it is accepted.
var resultSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"balances", "transactions", "summary"},
	"properties": map[string]interface{}{
		"balances":     map[string]interface{}{"type": "object"},
		"transactions": map[string]interface{}{"type": "object"},
		"summary":      map[string]interface{}{"type": "object"},
	},
}

// Handler dispatches statement analysis across an ordered provider
// chain. Each provider gets exactly one attempt per request; a failed
// or invalid attempt advances to the next provider, never a retry of
// the same one. When every provider fails, a placeholder result is
// synthesized so the application pipeline can continue.
type Handler struct {
	config    *Config
	providers []Provider
	logger    logger.Logger
}

func NewHandler(config *Config, providers []Provider, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		providers: providers,
		logger: log.With(map[string]interface{}{
			"processor": ProcessorName,
		}),
	}
}

// Status reports provider availability for the health surface.
func (h *Handler) Status() ProcessorStatus {
	var status ProcessorStatus
	for _, p := range h.providers {
		switch p.Name() {
		case models.ProcessorBedrock:
			status.BedrockAvailable = p.Configured()
		case models.ProcessorGemini:
			status.GeminiAvailable = p.Configured()
		}
	}
	status.HybridMode = status.BedrockAvailable && status.GeminiAvailable
	return status
}

// Execute runs the fallback chain and always returns a usable analysis.
func (h *Handler) Execute(ctx context.Context, input *Input) *models.StatementAnalysis {
	start := time.Now()
	defer func() {
		metrics.ProcessorDuration.WithLabelValues(ProcessorName).Observe(time.Since(start).Seconds())
	}()

	for _, provider := range h.providers {
		if !provider.Configured() {
			h.logger.Info("provider not configured, skipping", map[string]interface{}{
				"provider": provider.Name(),
			})
			continue
		}

		metrics.ProviderAttempts.WithLabelValues(ProcessorName, provider.Name()).Inc()
		raw, err := provider.Analyze(ctx, input)
		if err != nil {
			h.logger.Error("provider failed, advancing fallback chain", map[string]interface{}{
				"provider": provider.Name(),
				"error":    err.Error(),
			})
			metrics.ProviderFallbacks.WithLabelValues(ProcessorName, provider.Name(), "provider_error").Inc()
			continue
		}

		if err := validateShape(raw); err != nil {
			h.logger.Error("provider result failed shape validation, advancing fallback chain", map[string]interface{}{
				"provider": provider.Name(),
				"error":    err.Error(),
			})
			metrics.ProviderFallbacks.WithLabelValues(ProcessorName, provider.Name(), "invalid_shape").Inc()
			continue
		}

		var analysis models.StatementAnalysis
		if err := json.Unmarshal(raw, &analysis); err != nil {
			h.logger.Error("provider result not decodable, advancing fallback chain", map[string]interface{}{
				"provider": provider.Name(),
				"error":    err.Error(),
			})
			metrics.ProviderFallbacks.WithLabelValues(ProcessorName, provider.Name(), "decode_error").Inc()
			continue
		}

		analysis.ProcessorUsed = provider.Name()
		analysis.Timestamp = time.Now().UTC().Format(time.RFC3339)

		h.logger.Info("statement analysis complete", map[string]interface{}{
			"provider": provider.Name(),
		})
		return &analysis
	}

	h.logger.Warn("all providers exhausted, returning placeholder analysis", nil)
	metrics.ProviderFallbacks.WithLabelValues(ProcessorName, models.ProcessorFallback, "exhausted").Inc()
	return placeholderAnalysis(input)
}

// validateShape checks the provider result against the shape contract.
func validateShape(raw json.RawMessage) error {
	schemaLoader := gojsonschema.NewGoLoader(resultSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("result validation failed: %v", errs)
	}

	return nil
}

// placeholderAnalysis synthesizes the degraded result returned when
// every provider has failed. Figures are zeroed and each supplied file
// gets a diagnostic marker with its byte length.
func placeholderAnalysis(input *Input) *models.StatementAnalysis {
	analysis := &models.StatementAnalysis{
		Summary: models.AnalysisSummary{
			AnalysisPeriod:    "Unknown",
			AccountActivity:   "Unable to analyze - processor unavailable",
			FinancialBehavior: "Statement analysis failed",
			RiskIndicators:    []string{"Statement processing unavailable"},
		},
		ProcessorUsed: models.ProcessorFallback,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Status:        "failed",
	}

	if input.BankStatement != nil {
		analysis.BankStatement = &models.FileDiagnostic{
			Provided:  true,
			SizeBytes: len(input.BankStatement.Content),
			Status:    "processing_failed",
		}
	}
	if input.MpesaStatement != nil {
		analysis.MpesaStatement = &models.FileDiagnostic{
			Provided:  true,
			SizeBytes: len(input.MpesaStatement.Content),
			Status:    "processing_failed",
		}
	}

	return analysis
}
