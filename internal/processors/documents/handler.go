// internal/processors/documents/handler.go
package documents

import (
	"context"
	"time"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/models"
)

const ProcessorName = "document-analysis"

// maxDocumentBytes caps accepted supporting documents.
const maxDocumentBytes = 16 << 20

// FileUpload carries one uploaded supporting document.
type FileUpload struct {
	Content     []byte
	ContentType string
}

// Input holds the optional collateral and co-signer documents.
type Input struct {
	CollateralDocument *FileUpload
	CosignerDocument   *FileUpload
}

// HasFiles reports whether at least one document was uploaded.
func (in *Input) HasFiles() bool {
	return in.CollateralDocument != nil || in.CosignerDocument != nil
}

// Handler validates supporting documents. Validation is local and
// deterministic: a document is accepted when it is present, non-empty
// and within the size cap.
type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.With(map[string]interface{}{
			"processor": ProcessorName,
		}),
	}
}

// Execute checks each supplied document and never fails.
func (h *Handler) Execute(ctx context.Context, input *Input) *models.DocumentAnalysis {
	start := time.Now()
	defer func() {
		metrics.ProcessorDuration.WithLabelValues(ProcessorName).Observe(time.Since(start).Seconds())
	}()

	analysis := &models.DocumentAnalysis{ProcessorUsed: "local"}

	analysis.CollateralValid, analysis.CollateralNotes = checkDocument(input.CollateralDocument)
	analysis.CosignerValid, analysis.CosignerNotes = checkDocument(input.CosignerDocument)

	h.logger.Info("documents checked", map[string]interface{}{
		"collateralValid": analysis.CollateralValid,
		"cosignerValid":   analysis.CosignerValid,
	})
	return analysis
}

func checkDocument(file *FileUpload) (bool, string) {
	switch {
	case file == nil:
		return false, "document not provided"
	case len(file.Content) == 0:
		return false, "document is empty"
	case len(file.Content) > maxDocumentBytes:
		return false, "document exceeds size limit"
	default:
		return true, ""
	}
}
