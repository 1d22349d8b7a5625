// Package errors provides standardized error handling for the credit
// scoring pipeline and its HTTP surface.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration absence - degraded mode, never surfaced to callers.
	ErrCodeModelNotLoaded        ErrorCode = "MODEL_NOT_LOADED"
	ErrCodeProviderNotConfigured ErrorCode = "PROVIDER_NOT_CONFIGURED"

	// Transient provider failures - advance the fallback chain.
	ErrCodePredictionFailed        ErrorCode = "PREDICTION_FAILED"
	ErrCodeAssessmentFailed        ErrorCode = "ASSESSMENT_FAILED"
	ErrCodeAssessmentTimeout       ErrorCode = "ASSESSMENT_TIMEOUT"
	ErrCodeStatementAnalysisFailed ErrorCode = "STATEMENT_ANALYSIS_FAILED"
	ErrCodeStatementShapeInvalid   ErrorCode = "STATEMENT_SHAPE_INVALID"
	ErrCodeDocumentAnalysisFailed  ErrorCode = "DOCUMENT_ANALYSIS_FAILED"
	ErrCodeNotificationSendFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Malformed input - surfaced as a client error.
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeUploadUnreadable            ErrorCode = "UPLOAD_UNREADABLE"

	// Persistence - surfaced as a server error.
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewModelNotLoadedError signals the score model artifact is absent. This
// degrades scoring to the documented default, it never fails a request.
func NewModelNotLoadedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelNotLoaded,
		Message:   "Score model artifact not loaded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderNotConfiguredError signals an external provider has no
// credentials or endpoint configured.
func NewProviderNotConfiguredError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderNotConfigured,
		Message:   fmt.Sprintf("Provider '%s' is not configured", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionFailedError wraps a model inference failure.
func NewPredictionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionFailed,
		Message:   "Credit score prediction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentFailedError wraps a generative assessment provider failure.
func NewAssessmentFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentFailed,
		Message:   "Credit assessment provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentTimeoutError signals the assessment call exceeded its
// deadline; the caller falls back to the rule-based narrative.
func NewAssessmentTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentTimeout,
		Message:   "Credit assessment timed out",
		Details:   "provider call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatementAnalysisFailedError wraps a statement provider failure.
func NewStatementAnalysisFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatementAnalysisFailed,
		Message:   "Statement analysis provider error",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatementShapeInvalidError signals a provider returned a result
// missing required top-level sections.
func NewStatementShapeInvalidError(provider, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatementShapeInvalid,
		Message:   "Statement analysis result failed shape validation",
		Details:   fmt.Sprintf("provider: %s, %s", provider, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentAnalysisFailedError wraps a document provider failure.
func NewDocumentAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentAnalysisFailed,
		Message:   "Document analysis provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError wraps a decision notification failure.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationValidationFailedError creates a non-retryable client error.
func NewApplicationValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadUnreadableError creates a non-retryable client error for an
// upload that could not be read.
func NewUploadUnreadableError(field string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadUnreadable,
		Message:   "Uploaded file could not be read",
		Details:   fmt.Sprintf("field: %s, error: %s", field, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationNotFoundError creates a non-retryable not-found error.
func NewApplicationNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the status returned by the API layer.
// Configuration absence and provider failures never reach this mapping:
// they degrade inside the pipeline instead of failing the request.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeApplicationValidationFailed, ErrCodeUploadUnreadable:
		return http.StatusBadRequest
	case ErrCodeApplicationNotFound:
		return http.StatusNotFound
	case ErrCodeDatabaseInsertFailed, ErrCodeQueryExecutionFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "PREDICTION"):
		return "SCORING"
	case strings.Contains(codeStr, "STATEMENT") || strings.Contains(codeStr, "DOCUMENT") || strings.Contains(codeStr, "ASSESSMENT"):
		return "AI"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "UPLOAD"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
