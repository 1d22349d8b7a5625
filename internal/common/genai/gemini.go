// internal/common/genai/gemini.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrGeminiTimeout    = errors.New("GEMINI_TIMEOUT")
	ErrGeminiFailed     = errors.New("GEMINI_REQUEST_FAILED")
	ErrGeminiEmptyReply = errors.New("GEMINI_EMPTY_REPLY")
)

// Part is a single content part of a Gemini request. Exactly one of
// Text or InlineData is set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries a base64-encoded document or image.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Request describes a single-turn generateContent call.
type Request struct {
	SystemInstruction string
	Parts             []Part
	Temperature       float64
	MaxOutputTokens   int
}

type generateContentRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Config holds the Gemini connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client calls the Gemini generateContent REST API.
type Client struct {
	config Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			// Rely only on context deadlines, not a client timeout
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// GenerateContent sends a single-turn request and returns the
// concatenated text of the first candidate. The HTTP call is issued
// exactly once; a failure surfaces to the caller, which falls back to
// a different provider rather than repeating this one.
func (c *Client) GenerateContent(ctx context.Context, genReq *Request) (string, error) {
	if c.config.APIKey == "" {
		return "", fmt.Errorf("%w: api key not configured", ErrGeminiFailed)
	}

	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: genReq.Parts}},
		GenerationConfig: generationConfig{
			Temperature:     genReq.Temperature,
			MaxOutputTokens: genReq.MaxOutputTokens,
		},
	}
	if genReq.SystemInstruction != "" {
		payload.SystemInstruction = &content{Parts: []Part{{Text: genReq.SystemInstruction}}}
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeminiFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrGeminiTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrGeminiFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrGeminiFailed, resp.StatusCode)
	}

	var apiResponse generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGeminiFailed, err)
	}

	if apiResponse.Error != nil {
		return "", fmt.Errorf("%w: api error %d: %s", ErrGeminiFailed, apiResponse.Error.Code, apiResponse.Error.Message)
	}

	if len(apiResponse.Candidates) == 0 {
		return "", ErrGeminiEmptyReply
	}

	var sb strings.Builder
	for _, part := range apiResponse.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrGeminiEmptyReply
	}

	return text, nil
}
