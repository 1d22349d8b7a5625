// internal/processors/documents/handler_test.go
package documents

import (
	"bytes"
	"context"
	"testing"

	"credit-engine/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name               string
		input              *Input
		expectedCollateral bool
		expectedCosigner   bool
	}{
		{
			name: "both documents valid",
			input: &Input{
				CollateralDocument: &FileUpload{Content: []byte("title deed")},
				CosignerDocument:   &FileUpload{Content: []byte("national id")},
			},
			expectedCollateral: true,
			expectedCosigner:   true,
		},
		{
			name: "collateral only",
			input: &Input{
				CollateralDocument: &FileUpload{Content: []byte("logbook")},
			},
			expectedCollateral: true,
			expectedCosigner:   false,
		},
		{
			name: "empty document rejected",
			input: &Input{
				CollateralDocument: &FileUpload{Content: []byte{}},
			},
			expectedCollateral: false,
			expectedCosigner:   false,
		},
		{
			name: "oversized document rejected",
			input: &Input{
				CosignerDocument: &FileUpload{Content: bytes.Repeat([]byte("x"), maxDocumentBytes+1)},
			},
			expectedCollateral: false,
			expectedCosigner:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(logger.NewTestLogger(t))

			analysis := handler.Execute(context.Background(), tt.input)

			assert.Equal(t, tt.expectedCollateral, analysis.CollateralValid)
			assert.Equal(t, tt.expectedCosigner, analysis.CosignerValid)
			assert.Equal(t, "local", analysis.ProcessorUsed)
		})
	}
}
