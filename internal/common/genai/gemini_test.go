// internal/common/genai/gemini_test.go
package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testRequest() *Request {
	return &Request{
		Parts:           []Part{{Text: "summarize this account"}},
		Temperature:     0.1,
		MaxOutputTokens: 256,
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
	})
}

// ==========================
// GenerateContent Tests
// ==========================

func TestGenerateContent_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-1.5-flash")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Steady "},{"text":"saver."}]}}]}`))
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).GenerateContent(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "Steady saver.", text)
}

func TestGenerateContent_NotConfigured(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost", Model: "gemini-1.5-flash"})

	assert.False(t, client.Configured())

	_, err := client.GenerateContent(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrGeminiFailed)
}

func TestGenerateContent_ServerErrorIssuesSingleRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateContent(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrGeminiFailed)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGenerateContent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateContent(context.Background(), testRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeminiFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateContent_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateContent(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrGeminiEmptyReply)
}
