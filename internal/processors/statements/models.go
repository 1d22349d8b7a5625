// internal/processors/statements/models.go
package statements

import (
	"context"
	"encoding/json"
)

// FileUpload carries one uploaded statement file.
type FileUpload struct {
	Content     []byte
	ContentType string
}

// Input holds the statement files submitted with an application. Either
// file may be nil.
type Input struct {
	BankStatement  *FileUpload
	MpesaStatement *FileUpload
}

// HasFiles reports whether at least one statement was uploaded.
func (in *Input) HasFiles() bool {
	return in.BankStatement != nil || in.MpesaStatement != nil
}

// Provider is one external statement-analysis backend. Analyze returns
// the provider's raw JSON result; the dispatcher validates its shape.
type Provider interface {
	Name() string
	Configured() bool
	Analyze(ctx context.Context, input *Input) (json.RawMessage, error)
}

// ProcessorStatus reports which providers are available.
type ProcessorStatus struct {
	BedrockAvailable bool `json:"bedrock_available"`
	GeminiAvailable  bool `json:"gemini_available"`
	HybridMode       bool `json:"hybrid_mode"`
}
